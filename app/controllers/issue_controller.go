package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/civiclens-app/CivicLens/app/models"
	"github.com/civiclens-app/CivicLens/internal/pkg/imagestore"
	"github.com/civiclens-app/CivicLens/internal/pkg/issues"
	"github.com/civiclens-app/CivicLens/internal/pkg/middleware"
	"github.com/civiclens-app/CivicLens/internal/pkg/viewmodel"
)

// IssueController serves the citizen-facing issue endpoints.
type IssueController struct {
	svc    *issues.Service
	images imagestore.Store
}

func NewIssueController(svc *issues.Service, images imagestore.Store) *IssueController {
	return &IssueController{svc: svc, images: images}
}

// GET /api/issue/summary - classification preview: store the image, run
// duplicate resolution, commit nothing.
func (ic *IssueController) HandleSummary(c *fiber.Ctx) error {
	image, mimeType, err := readImageFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	coords, err := parseCoordinates(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	imageName, err := ic.images.Save(c.Context(), image, mimeType)
	if err != nil {
		log.Errorf("failed to store submission image: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store image"})
	}

	decision, err := ic.svc.Preview(c.Context(), coords.Lat, coords.Lon, image, mimeType)
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{
		"description": decision.Judgement.Description,
		"category":    decision.Judgement.Category,
		"department":  decision.Judgement.Department,
		"duplicate":   decision.Judgement.Duplicate,
		"image":       imageName,
	}
	if decision.Merge {
		resp["report"] = decision.ReportID
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// POST /api/issue - submit an issue: resolve against nearby open reports and
// commit the create or merge in one step.
func (ic *IssueController) HandleSubmit(c *fiber.Ctx) error {
	user, _ := c.Locals(middleware.KeyUserID).(string)

	image, mimeType, err := readImageFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	coords, err := parseCoordinates(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	imageName, err := ic.images.Save(c.Context(), image, mimeType)
	if err != nil {
		log.Errorf("failed to store submission image: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store image"})
	}

	result, err := ic.svc.SubmitIssue(c.Context(), issues.SubmitInput{
		User:      user,
		Lat:       coords.Lat,
		Lon:       coords.Lon,
		Image:     image,
		MimeType:  mimeType,
		ImageName: imageName,
	})
	if err != nil {
		return respondError(c, err)
	}

	status := "created"
	if result.Merged {
		status = "merged"
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"result":    status,
		"report_id": result.ReportID,
		"image":     imageName,
		"classification": fiber.Map{
			"description": result.Judgement.Description,
			"category":    result.Judgement.Category,
			"department":  result.Judgement.Department,
		},
	})
}

// GET /api/issue - aggregate listing with optional status filter and
// filter=user for "reports I contributed to".
func (ic *IssueController) HandleList(c *fiber.Ctx) error {
	var status *models.Status
	if raw := c.Query("status"); raw != "" {
		s := models.Status(raw)
		if !s.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status value"})
		}
		status = &s
	}

	user := ""
	if c.Query("filter") == "user" {
		user, _ = c.Locals(middleware.KeyUserID).(string)
	}

	reports, err := ic.svc.ListReports(c.Context(), status, user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(viewmodel.FromReports(reports))
}
