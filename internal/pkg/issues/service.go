package issues

import (
	"context"
	"time"

	"github.com/civiclens-app/CivicLens/app/models"
	"github.com/civiclens-app/CivicLens/internal/pkg/classify"
)

// ReportStore owns report and submission records. Each mutation is one
// committed unit: no submission row without its count change and vice versa.
type ReportStore interface {
	// CreateReport inserts a new report with count 1 and its first
	// submission in the same transaction.
	CreateReport(ctx context.Context, report *models.Report, sub models.Submission) error
	// MergeSubmission increments the report count and attaches the
	// submission, failing with ErrReportNotFound for unknown ids.
	MergeSubmission(ctx context.Context, reportID uint, sub models.Submission) error
	// ListAggregates returns reports with submissions and resolution
	// preloaded, optionally filtered by status and by contributing user.
	ListAggregates(ctx context.Context, status *models.Status, user string) ([]models.Report, error)
}

// Locker serializes resolve-then-commit for submissions in the same spatial
// cell. The returned release function must always be safe to call.
type Locker interface {
	Acquire(ctx context.Context, lat, lon float64) (func(), error)
}

// Service ties duplicate resolution, the report store and the lifecycle
// manager into the operations the transport layer exposes.
type Service struct {
	store         ReportStore
	matcher       *Matcher
	lifecycle     *Lifecycle
	lock          Locker
	oracleTimeout time.Duration
	now           func() time.Time
}

func NewService(store ReportStore, matcher *Matcher, lifecycle *Lifecycle, lock Locker, oracleTimeout time.Duration) *Service {
	return &Service{
		store:         store,
		matcher:       matcher,
		lifecycle:     lifecycle,
		lock:          lock,
		oracleTimeout: oracleTimeout,
		now:           time.Now,
	}
}

type SubmitInput struct {
	User      string
	Lat       float64
	Lon       float64
	Image     []byte
	MimeType  string
	ImageName string
}

type SubmitResult struct {
	Merged    bool
	ReportID  uint
	Judgement classify.Judgement
}

// SubmitIssue runs the full resolve-then-commit sequence under the spatial
// cell lock. Nothing is written before the oracle call returns, so a timeout
// or classification failure leaves no trace.
func (s *Service) SubmitIssue(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	release, err := s.lock.Acquire(ctx, in.Lat, in.Lon)
	if err != nil {
		return SubmitResult{}, err
	}
	defer release()

	octx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	defer cancel()
	decision, err := s.matcher.Resolve(octx, in.Lat, in.Lon, in.Image, in.MimeType)
	if err != nil {
		return SubmitResult{}, err
	}

	sub := models.Submission{User: in.User, ImageName: in.ImageName}

	if decision.Merge {
		if err := s.store.MergeSubmission(ctx, decision.ReportID, sub); err != nil {
			return SubmitResult{}, err
		}
		return SubmitResult{Merged: true, ReportID: decision.ReportID, Judgement: decision.Judgement}, nil
	}

	report := &models.Report{
		DateOfReport: s.now(),
		Category:     decision.Judgement.Category,
		Department:   decision.Judgement.Department,
		Description:  decision.Judgement.Description,
		Latitude:     in.Lat,
		Longitude:    in.Lon,
		Count:        1,
		Status:       models.StatusSubmitted,
	}
	if err := report.Validate(); err != nil {
		return SubmitResult{}, err
	}
	if err := s.store.CreateReport(ctx, report, sub); err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{ReportID: report.ID, Judgement: decision.Judgement}, nil
}

// Preview resolves a submission without committing anything, for the
// classification preview endpoint.
func (s *Service) Preview(ctx context.Context, lat, lon float64, image []byte, mimeType string) (Decision, error) {
	octx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	defer cancel()
	return s.matcher.Resolve(octx, lat, lon, image, mimeType)
}

// ListReports returns the aggregate view, optionally filtered by current
// status and by contributing user.
func (s *Service) ListReports(ctx context.Context, status *models.Status, user string) ([]models.Report, error) {
	return s.store.ListAggregates(ctx, status, user)
}

// TransitionReport applies an admin-driven lifecycle transition.
func (s *Service) TransitionReport(ctx context.Context, reportID uint, newStatus models.Status, evidenceImage, remarks string) error {
	return s.lifecycle.Transition(ctx, reportID, newStatus, evidenceImage, remarks)
}
