package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/civiclens-app/CivicLens/app/controllers"
	"github.com/civiclens-app/CivicLens/internal/pkg/identity"
	"github.com/civiclens-app/CivicLens/internal/pkg/middleware"
)

// Deps carries the constructed controllers and auth collaborators into the
// route table.
type Deps struct {
	Issues         *controllers.IssueController
	Admin          *controllers.AdminController
	Images         *controllers.ImageController
	Verifier       identity.Verifier
	AdminJWTSecret string
}

// InstallRouter mounts the API route table onto the app.
func InstallRouter(app *fiber.App, deps Deps) {
	api := app.Group("/api", limiter.New())

	issue := api.Group("/issue", middleware.CitizenAuth(deps.Verifier))
	issue.Get("/summary", deps.Issues.HandleSummary)
	issue.Post("/", deps.Issues.HandleSubmit)
	issue.Get("/", deps.Issues.HandleList)

	api.Get("/image/:imagename", deps.Images.HandleGet)

	admin := api.Group("/admin")
	admin.Post("/auth", deps.Admin.HandleAuth)

	adminIssue := admin.Group("/issue", middleware.AdminAuth(deps.AdminJWTSecret))
	adminIssue.Get("/", deps.Admin.HandleList)
	adminIssue.Post("/", deps.Admin.HandleTransition)
}
