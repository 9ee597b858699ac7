package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/civiclens-app/CivicLens/app/models"
	"github.com/civiclens-app/CivicLens/internal/pkg/issues"
)

// ReportRepository defines the database operations around reports,
// submissions and resolutions. It is the single owner of their lifecycles;
// the core packages consume it through the narrower interfaces they declare.
type ReportRepository interface {
	CreateReport(ctx context.Context, report *models.Report, sub models.Submission) error
	MergeSubmission(ctx context.Context, reportID uint, sub models.Submission) error
	OpenReportsNear(ctx context.Context, lat, lon, radiusMeters float64) ([]issues.Candidate, error)
	ListAggregates(ctx context.Context, status *models.Status, user string) ([]models.Report, error)
	GetReportState(ctx context.Context, reportID uint) (models.Status, bool, error)
	UpdateStatus(ctx context.Context, reportID uint, from, to models.Status) error
	CompleteWithResolution(ctx context.Context, reportID uint, from models.Status, res models.Resolution) error
}

// AdminRepository defines the operations over the admin membership table.
type AdminRepository interface {
	IsAdmin(ctx context.Context, id string) (bool, error)
}

// Repositories bundles all repository instances for injection.
type Repositories struct {
	Report ReportRepository
	Admin  AdminRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Report: NewReportRepository(db),
		Admin:  NewAdminRepository(db),
	}
}
