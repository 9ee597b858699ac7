package issues

import (
	"context"
	"fmt"

	"github.com/civiclens-app/CivicLens/app/models"
	"github.com/civiclens-app/CivicLens/internal/pkg/classify"
)

// Candidate is an open report inside the dedup radius, as returned by the
// geo index.
type Candidate struct {
	ID             uint
	Description    string
	Category       models.Category
	Department     models.Department
	DistanceMeters float64
}

// GeoIndex answers proximity queries over open reports. Results must be
// ordered by distance ascending with report id as the tiebreak, so the
// nearest candidate is always index 0.
type GeoIndex interface {
	OpenReportsNear(ctx context.Context, lat, lon, radiusMeters float64) ([]Candidate, error)
}

// Decision is the outcome of duplicate resolution: merge into an existing
// report, or create a new one with the returned classification.
type Decision struct {
	Merge     bool
	ReportID  uint
	Judgement classify.Judgement
}

// Matcher decides whether a new submission restates an existing open issue.
type Matcher struct {
	geo          GeoIndex
	oracle       classify.Oracle
	radiusMeters float64
}

func NewMatcher(geo GeoIndex, oracle classify.Oracle, radiusMeters float64) *Matcher {
	return &Matcher{geo: geo, oracle: oracle, radiusMeters: radiusMeters}
}

// Resolve queries the geo index for open reports near the submission point
// and consults the oracle. With no candidates the image is classified fresh
// and duplicate is forced false, since there is nothing to compare against.
// With candidates the nearest one is the comparison reference; the oracle's
// duplicate verdict is trusted as ground truth. A merge carries the matched
// report's existing classification so an open report is never silently
// reclassified.
func (m *Matcher) Resolve(ctx context.Context, lat, lon float64, image []byte, mimeType string) (Decision, error) {
	candidates, err := m.geo.OpenReportsNear(ctx, lat, lon, m.radiusMeters)
	if err != nil {
		return Decision{}, fmt.Errorf("%w: candidate query: %v", ErrStoreUnavailable, err)
	}

	if len(candidates) == 0 {
		j, err := m.oracle.Classify(ctx, image, mimeType, nil)
		if err != nil {
			return Decision{}, err
		}
		j.Duplicate = false
		return Decision{Judgement: j}, nil
	}

	nearest := candidates[0]
	ref := &classify.Reference{
		Description: nearest.Description,
		Category:    nearest.Category,
		Department:  nearest.Department,
	}
	j, err := m.oracle.Classify(ctx, image, mimeType, ref)
	if err != nil {
		return Decision{}, err
	}

	if j.Duplicate {
		return Decision{
			Merge:    true,
			ReportID: nearest.ID,
			Judgement: classify.Judgement{
				Description: nearest.Description,
				Category:    nearest.Category,
				Department:  nearest.Department,
				Duplicate:   true,
			},
		}, nil
	}

	j.Duplicate = false
	return Decision{Judgement: j}, nil
}
