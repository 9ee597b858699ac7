package controllers

import (
	"errors"
	"io"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/civiclens-app/CivicLens/internal/pkg/classify"
	"github.com/civiclens-app/CivicLens/internal/pkg/issues"
)

// coordinates is the validated lat/lon pair taken from form values.
type coordinates struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

func parseCoordinates(c *fiber.Ctx) (coordinates, error) {
	latStr := c.FormValue("lat")
	lonStr := c.FormValue("lon")
	if latStr == "" || lonStr == "" {
		return coordinates{}, errors.New("lat and lon are required")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return coordinates{}, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return coordinates{}, errors.New("lon must be a number")
	}
	coords := coordinates{Lat: lat, Lon: lon}
	if err := validator.New().Struct(coords); err != nil {
		return coordinates{}, errors.New("lat/lon out of range")
	}
	return coords, nil
}

// readImageFile pulls the uploaded image out of the multipart form.
func readImageFile(c *fiber.Ctx) ([]byte, string, error) {
	header, err := c.FormFile("image")
	if err != nil {
		return nil, "", errors.New("no file uploaded")
	}
	f, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	mimeType := header.Header.Get(fiber.HeaderContentType)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return data, mimeType, nil
}

func parseUint(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

// respondError maps the engine error taxonomy to HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, issues.ErrReportNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
	case errors.Is(err, issues.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status value"})
	case errors.Is(err, issues.ErrMissingResolutionEvidence):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Evidence image and remarks are required to complete a report"})
	case errors.Is(err, issues.ErrConcurrentUpdateConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Report was updated concurrently, retry the operation"})
	case errors.Is(err, issues.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Database error"})
	case errors.Is(err, classify.ErrClassificationFailed):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Error generating content"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
