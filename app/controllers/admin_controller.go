package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/civiclens-app/CivicLens/app/models"
	"github.com/civiclens-app/CivicLens/app/repository"
	"github.com/civiclens-app/CivicLens/internal/pkg/identity"
	"github.com/civiclens-app/CivicLens/internal/pkg/imagestore"
	"github.com/civiclens-app/CivicLens/internal/pkg/issues"
	"github.com/civiclens-app/CivicLens/internal/pkg/viewmodel"
)

// AdminController serves admin authentication and report lifecycle
// management.
type AdminController struct {
	svc       *issues.Service
	admins    repository.AdminRepository
	verifier  identity.Verifier
	images    imagestore.Store
	jwtSecret string
}

func NewAdminController(svc *issues.Service, admins repository.AdminRepository, verifier identity.Verifier, images imagestore.Store, jwtSecret string) *AdminController {
	return &AdminController{
		svc:       svc,
		admins:    admins,
		verifier:  verifier,
		images:    images,
		jwtSecret: jwtSecret,
	}
}

type adminAuthRequest struct {
	IDToken string `json:"idToken"`
}

// POST /api/admin/auth - exchange a provider ID token for an admin session
// token after the membership check.
func (ac *AdminController) HandleAuth(c *fiber.Ctx) error {
	var req adminAuthRequest
	if err := c.BodyParser(&req); err != nil || req.IDToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "idToken is required in body"})
	}

	uid, err := ac.verifier.Verify(c.Context(), req.IDToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired idToken"})
	}

	isAdmin, err := ac.admins.IsAdmin(c.Context(), uid)
	if err != nil {
		return respondError(c, err)
	}
	if !isAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "User is not an admin"})
	}

	token, err := identity.IssueAdminToken(ac.jwtSecret, uid)
	if err != nil {
		log.Errorf("failed to sign admin token: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Admin authenticated", "token": token})
}

// GET /api/admin/issue - full aggregate listing for administrators.
func (ac *AdminController) HandleList(c *fiber.Ctx) error {
	var status *models.Status
	if raw := c.Query("status"); raw != "" {
		s := models.Status(raw)
		if !s.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status value"})
		}
		status = &s
	}

	reports, err := ac.svc.ListReports(c.Context(), status, "")
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(viewmodel.FromReports(reports))
}

// POST /api/admin/issue - apply a lifecycle transition. Completing a report
// requires remarks and an evidence image in the same multipart form.
func (ac *AdminController) HandleTransition(c *fiber.Ctx) error {
	idVal := c.FormValue("report")
	statusVal := c.FormValue("status")
	if idVal == "" || statusVal == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "status and report are required"})
	}
	id, err := parseUint(idVal)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "report must be a number"})
	}

	evidence := ""
	if header, err := c.FormFile("image"); err == nil && header != nil {
		data, mimeType, err := readImageFile(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		evidence, err = ac.images.Save(c.Context(), data, mimeType)
		if err != nil {
			log.Errorf("failed to store evidence image: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store image"})
		}
	}

	err = ac.svc.TransitionReport(c.Context(), id, models.Status(statusVal), evidence, c.FormValue("remarks"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Report status updated"})
}
