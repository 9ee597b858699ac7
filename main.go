package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/civiclens-app/CivicLens/app/controllers"
	"github.com/civiclens-app/CivicLens/app/repository"
	"github.com/civiclens-app/CivicLens/internal/pkg/cache"
	"github.com/civiclens-app/CivicLens/internal/pkg/classify"
	"github.com/civiclens-app/CivicLens/internal/pkg/database"
	"github.com/civiclens-app/CivicLens/internal/pkg/env"
	"github.com/civiclens-app/CivicLens/internal/pkg/geolock"
	"github.com/civiclens-app/CivicLens/internal/pkg/identity"
	"github.com/civiclens-app/CivicLens/internal/pkg/imagestore"
	"github.com/civiclens-app/CivicLens/internal/pkg/issues"
	"github.com/civiclens-app/CivicLens/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repos := repository.NewRepositories(database.GetDB())

	images, err := imagestore.NewFromEnv(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	radius := envFloat("DEDUP_RADIUS_METERS", 100)
	oracleTimeout := time.Duration(envFloat("ORACLE_TIMEOUT_SECONDS", 30)) * time.Second

	oracle := classify.NewGeminiOracle()
	matcher := issues.NewMatcher(repos.Report, oracle, radius)
	lifecycle := issues.NewLifecycle(repos.Report)
	lock := geolock.New(cache.GetClient())
	svc := issues.NewService(repos.Report, matcher, lifecycle, lock, oracleTimeout)

	verifier := identity.NewJWKSVerifier()
	jwtSecret := env.GetEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be configured")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 26214400, // 25 MiB, enough for phone camera uploads
	})
	app.Use(recover.New(), logger.New())

	router.InstallRouter(app, router.Deps{
		Issues:         controllers.NewIssueController(svc, images),
		Admin:          controllers.NewAdminController(svc, repos.Admin, verifier, images, jwtSecret),
		Images:         controllers.NewImageController(images),
		Verifier:       verifier,
		AdminJWTSecret: jwtSecret,
	})

	return app
}

func envFloat(key string, def float64) float64 {
	raw := env.GetEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return v
}
