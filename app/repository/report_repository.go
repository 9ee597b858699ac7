package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/civiclens-app/CivicLens/app/models"
	"github.com/civiclens-app/CivicLens/internal/pkg/issues"
)

// reportRepository implements the ReportRepository interface
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository instance
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// storeErr maps driver failures onto the engine error taxonomy.
func storeErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return issues.ErrReportNotFound
	}
	return fmt.Errorf("%w: %v", issues.ErrStoreUnavailable, err)
}

// CreateReport inserts the report and its first submission in one
// transaction. Count starts at 1 so it equals the submission row count from
// the first commit on.
func (r *reportRepository) CreateReport(ctx context.Context, report *models.Report, sub models.Submission) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return err
		}
		sub.ReportID = report.ID
		return tx.Create(&sub).Error
	})
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// MergeSubmission folds one more submission into an existing report. The
// count increment is a single relative UPDATE, so concurrent merges against
// the same report serialize at the row and no increment is ever lost.
func (r *reportRepository) MergeSubmission(ctx context.Context, reportID uint, sub models.Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Report{}).
			Where("id = ?", reportID).
			UpdateColumn("count", gorm.Expr("count + 1"))
		if res.Error != nil {
			return storeErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return issues.ErrReportNotFound
		}
		sub.ReportID = reportID
		if err := tx.Create(&sub).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
}

// OpenReportsNear is the geo index query: open reports within radiusMeters
// of the point by true spherical distance, nearest first with the report id
// as tiebreak.
func (r *reportRepository) OpenReportsNear(ctx context.Context, lat, lon, radiusMeters float64) ([]issues.Candidate, error) {
	var candidates []issues.Candidate
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, description, category, department,
		       ST_Distance_Sphere(POINT(longitude, latitude), POINT(?, ?)) AS distance_meters
		FROM reports
		WHERE status IN ('submitted', 'progress')
		  AND ST_Distance_Sphere(POINT(longitude, latitude), POINT(?, ?)) <= ?
		ORDER BY distance_meters ASC, id ASC`,
		lon, lat, lon, lat, radiusMeters).
		Scan(&candidates).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return candidates, nil
}

// ListAggregates loads reports with their submissions and resolution for the
// aggregate view, newest first.
func (r *reportRepository) ListAggregates(ctx context.Context, status *models.Status, user string) ([]models.Report, error) {
	q := r.db.WithContext(ctx).
		Preload("Submissions").
		Preload("Resolution")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if user != "" {
		q = q.Where("EXISTS (SELECT 1 FROM submissions s WHERE s.report_id = reports.id AND s.user = ?)", user)
	}

	var reports []models.Report
	if err := q.Order("date_of_report DESC, id DESC").Find(&reports).Error; err != nil {
		return nil, storeErr(err)
	}
	return reports, nil
}

// GetReportState returns the current status and whether a resolution record
// exists for the report.
func (r *reportRepository) GetReportState(ctx context.Context, reportID uint) (models.Status, bool, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Select("id", "status").First(&report, reportID).Error; err != nil {
		return "", false, storeErr(err)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Resolution{}).
		Where("report_id = ?", reportID).Count(&count).Error; err != nil {
		return "", false, storeErr(err)
	}
	return report.Status, count > 0, nil
}

// UpdateStatus applies a compare-and-swap status change. A zero-row update
// against an existing report means someone else moved the status first.
func (r *reportRepository) UpdateStatus(ctx context.Context, reportID uint, from, to models.Status) error {
	res := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ? AND status = ?", reportID, from).
		Update("status", to)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Report{}).
			Where("id = ?", reportID).Count(&count).Error; err != nil {
			return storeErr(err)
		}
		if count == 0 {
			return issues.ErrReportNotFound
		}
		return issues.ErrConcurrentUpdateConflict
	}
	return nil
}

// CompleteWithResolution sets the status to complete and upserts the
// resolution record keyed by report id in one transaction. Re-completing an
// already complete report replaces the record in place.
func (r *reportRepository) CompleteWithResolution(ctx context.Context, reportID uint, from models.Status, res models.Resolution) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if from != models.StatusComplete {
			upd := tx.Model(&models.Report{}).
				Where("id = ? AND status = ?", reportID, from).
				Update("status", models.StatusComplete)
			if upd.Error != nil {
				return storeErr(upd.Error)
			}
			if upd.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&models.Report{}).
					Where("id = ?", reportID).Count(&count).Error; err != nil {
					return storeErr(err)
				}
				if count == 0 {
					return issues.ErrReportNotFound
				}
				return issues.ErrConcurrentUpdateConflict
			}
		}

		res.ReportID = reportID
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "report_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"date_of_resolution", "image", "remarks"}),
		}).Create(&res).Error
		if err != nil {
			return storeErr(err)
		}
		return nil
	})
}
