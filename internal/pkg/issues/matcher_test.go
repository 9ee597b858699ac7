package issues

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civiclens-app/CivicLens/app/models"
	"github.com/civiclens-app/CivicLens/internal/pkg/classify"
)

type fakeGeo struct {
	candidates []Candidate
	err        error
	gotRadius  float64
}

func (f *fakeGeo) OpenReportsNear(_ context.Context, _, _, radius float64) ([]Candidate, error) {
	f.gotRadius = radius
	return f.candidates, f.err
}

type fakeOracle struct {
	judgement classify.Judgement
	err       error
	gotRef    *classify.Reference
	calls     int
}

func (f *fakeOracle) Classify(_ context.Context, _ []byte, _ string, ref *classify.Reference) (classify.Judgement, error) {
	f.calls++
	f.gotRef = ref
	return f.judgement, f.err
}

func TestResolveNoCandidatesCreates(t *testing.T) {
	t.Parallel()

	geo := &fakeGeo{}
	oracle := &fakeOracle{judgement: classify.Judgement{
		Description: "deep pothole on the main road",
		Category:    models.CategoryPothole,
		Department:  models.DepartmentRoadConstruction,
		// a confused oracle guess must not survive with nothing to compare against
		Duplicate: true,
	}}

	m := NewMatcher(geo, oracle, 100)
	decision, err := m.Resolve(context.Background(), 12.9, 77.6, []byte("img"), "image/jpeg")
	require.NoError(t, err)

	assert.False(t, decision.Merge)
	assert.False(t, decision.Judgement.Duplicate)
	assert.Equal(t, models.CategoryPothole, decision.Judgement.Category)
	assert.Nil(t, oracle.gotRef, "fresh classification must not carry a reference")
	assert.Equal(t, 100.0, geo.gotRadius)
}

func TestResolveNearestCandidateIsReference(t *testing.T) {
	t.Parallel()

	geo := &fakeGeo{candidates: []Candidate{
		{ID: 7, Description: "stagnant water near the park", Category: models.CategoryWaterStagnation, Department: models.DepartmentWaterSanitation, DistanceMeters: 4.2},
		{ID: 3, Description: "garbage heap", Category: models.CategoryGarbage, Department: models.DepartmentRuralWorks, DistanceMeters: 18.9},
	}}
	oracle := &fakeOracle{judgement: classify.Judgement{Duplicate: true}}

	m := NewMatcher(geo, oracle, 50)
	decision, err := m.Resolve(context.Background(), 12.9, 77.6, []byte("img"), "image/jpeg")
	require.NoError(t, err)

	require.NotNil(t, oracle.gotRef)
	assert.Equal(t, "stagnant water near the park", oracle.gotRef.Description)

	assert.True(t, decision.Merge)
	assert.Equal(t, uint(7), decision.ReportID)
	// the merge carries the matched report's classification, not the oracle's
	assert.Equal(t, models.CategoryWaterStagnation, decision.Judgement.Category)
	assert.Equal(t, models.DepartmentWaterSanitation, decision.Judgement.Department)
	assert.Equal(t, "stagnant water near the park", decision.Judgement.Description)
}

func TestResolveCandidateNotDuplicateCreatesFresh(t *testing.T) {
	t.Parallel()

	geo := &fakeGeo{candidates: []Candidate{
		{ID: 9, Description: "broken streetlight", Category: models.CategoryStreetlight, Department: models.DepartmentEnergy, DistanceMeters: 12},
	}}
	oracle := &fakeOracle{judgement: classify.Judgement{
		Description: "overflowing garbage bin",
		Category:    models.CategoryGarbage,
		Department:  models.DepartmentRuralWorks,
		Duplicate:   false,
	}}

	m := NewMatcher(geo, oracle, 50)
	decision, err := m.Resolve(context.Background(), 12.9, 77.6, []byte("img"), "image/jpeg")
	require.NoError(t, err)

	assert.False(t, decision.Merge)
	assert.Equal(t, models.CategoryGarbage, decision.Judgement.Category)
	assert.Equal(t, "overflowing garbage bin", decision.Judgement.Description)
}

func TestResolveGeoFailureIsStoreUnavailable(t *testing.T) {
	t.Parallel()

	geo := &fakeGeo{err: errors.New("connection refused")}
	oracle := &fakeOracle{}

	m := NewMatcher(geo, oracle, 50)
	_, err := m.Resolve(context.Background(), 12.9, 77.6, []byte("img"), "image/jpeg")

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Zero(t, oracle.calls, "oracle must not be consulted when the candidate query fails")
}

func TestResolveOracleFailurePropagates(t *testing.T) {
	t.Parallel()

	geo := &fakeGeo{}
	oracle := &fakeOracle{err: classify.ErrClassificationFailed}

	m := NewMatcher(geo, oracle, 50)
	_, err := m.Resolve(context.Background(), 12.9, 77.6, []byte("img"), "image/jpeg")

	assert.ErrorIs(t, err, classify.ErrClassificationFailed)
}
