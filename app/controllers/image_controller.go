package controllers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/civiclens-app/CivicLens/internal/pkg/imagestore"
)

// ImageController serves stored images back by reference.
type ImageController struct {
	images imagestore.Store
}

func NewImageController(images imagestore.Store) *ImageController {
	return &ImageController{images: images}
}

// GET /api/image/:imagename
func (ic *ImageController) HandleGet(c *fiber.Ctx) error {
	name := c.Params("imagename")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "imagename is required"})
	}

	reader, err := ic.images.Open(c.Context(), name)
	if err != nil {
		if errors.Is(err, imagestore.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Image not found"})
		}
		log.Errorf("failed to open image %s: %v", name, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		log.Errorf("failed to read image %s: %v", name, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.Send(data)
}
