package issues

import (
	"context"
	"time"

	"github.com/civiclens-app/CivicLens/app/models"
)

// LifecycleStore is the mutation surface the lifecycle manager writes
// through. Implementations must apply each call as one atomic unit.
type LifecycleStore interface {
	// GetReportState returns the current status and whether a resolution
	// record has been committed for the report.
	GetReportState(ctx context.Context, reportID uint) (models.Status, bool, error)
	// UpdateStatus applies a compare-and-swap status change.
	UpdateStatus(ctx context.Context, reportID uint, from, to models.Status) error
	// CompleteWithResolution sets the status to complete and upserts the
	// resolution record, together or not at all.
	CompleteWithResolution(ctx context.Context, reportID uint, from models.Status, res models.Resolution) error
}

// Lifecycle owns the report status state machine and the resolution-record
// invariants. Transitions are admin-driven; the machine does not forbid
// skipping progress, only entering complete without evidence and leaving
// complete once a resolution has been committed.
type Lifecycle struct {
	store LifecycleStore
	now   func() time.Time
}

func NewLifecycle(store LifecycleStore) *Lifecycle {
	return &Lifecycle{store: store, now: time.Now}
}

// Transition validates and applies an admin-driven status change. For
// complete, evidenceImage and remarks are required and a resolution record
// is written atomically with the status; repeating complete is an idempotent
// upsert of that record.
func (l *Lifecycle) Transition(ctx context.Context, reportID uint, newStatus models.Status, evidenceImage, remarks string) error {
	if !newStatus.Valid() {
		return ErrInvalidStatus
	}

	current, resolved, err := l.store.GetReportState(ctx, reportID)
	if err != nil {
		return err
	}

	// A committed resolution pins the report: re-opening a completed report
	// is undefined, only re-completing with fresh evidence is allowed.
	if current == models.StatusComplete && resolved && newStatus != models.StatusComplete {
		return ErrInvalidStatus
	}

	if newStatus == models.StatusComplete {
		if evidenceImage == "" || remarks == "" {
			return ErrMissingResolutionEvidence
		}
		return l.store.CompleteWithResolution(ctx, reportID, current, models.Resolution{
			ReportID:         reportID,
			DateOfResolution: l.now(),
			Image:            evidenceImage,
			Remarks:          remarks,
		})
	}

	if current == newStatus {
		return nil
	}
	return l.store.UpdateStatus(ctx, reportID, current, newStatus)
}
