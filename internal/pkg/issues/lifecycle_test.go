package issues

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civiclens-app/CivicLens/app/models"
)

type fakeLifecycleStore struct {
	status     models.Status
	resolved   bool
	getErr     error
	updated    *models.Status
	resolution *models.Resolution
}

func (f *fakeLifecycleStore) GetReportState(context.Context, uint) (models.Status, bool, error) {
	return f.status, f.resolved, f.getErr
}

func (f *fakeLifecycleStore) UpdateStatus(_ context.Context, _ uint, _, to models.Status) error {
	f.updated = &to
	return nil
}

func (f *fakeLifecycleStore) CompleteWithResolution(_ context.Context, _ uint, _ models.Status, res models.Resolution) error {
	f.resolution = &res
	return nil
}

func newLifecycleAt(store LifecycleStore, now time.Time) *Lifecycle {
	l := NewLifecycle(store)
	l.now = func() time.Time { return now }
	return l
}

func TestTransitionInvalidStatus(t *testing.T) {
	t.Parallel()

	store := &fakeLifecycleStore{status: models.StatusSubmitted}
	l := NewLifecycle(store)

	err := l.Transition(context.Background(), 1, models.Status("archived"), "", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Nil(t, store.updated)
}

func TestTransitionUnknownReport(t *testing.T) {
	t.Parallel()

	store := &fakeLifecycleStore{getErr: ErrReportNotFound}
	l := NewLifecycle(store)

	err := l.Transition(context.Background(), 404, models.StatusProgress, "", "")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestTransitionCompleteRequiresEvidence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		image   string
		remarks string
	}{
		{name: "missing both"},
		{name: "missing remarks", image: "evidence.jpg"},
		{name: "missing image", remarks: "fixed"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := &fakeLifecycleStore{status: models.StatusProgress}
			l := NewLifecycle(store)

			err := l.Transition(context.Background(), 1, models.StatusComplete, tc.image, tc.remarks)
			assert.ErrorIs(t, err, ErrMissingResolutionEvidence)
			assert.Nil(t, store.resolution, "no resolution may be written without evidence")
			assert.Nil(t, store.updated, "status must remain unchanged")
		})
	}
}

func TestTransitionCompleteWritesResolution(t *testing.T) {
	t.Parallel()

	today := time.Date(2025, 6, 14, 10, 30, 0, 0, time.UTC)
	store := &fakeLifecycleStore{status: models.StatusSubmitted}
	l := newLifecycleAt(store, today)

	// skipping progress is allowed, the evidence precondition is the only gate
	err := l.Transition(context.Background(), 5, models.StatusComplete, "evidence.jpg", "fixed")
	require.NoError(t, err)

	require.NotNil(t, store.resolution)
	assert.Equal(t, uint(5), store.resolution.ReportID)
	assert.Equal(t, today, store.resolution.DateOfResolution)
	assert.Equal(t, "evidence.jpg", store.resolution.Image)
	assert.Equal(t, "fixed", store.resolution.Remarks)
}

func TestTransitionRejectWritesNoResolution(t *testing.T) {
	t.Parallel()

	store := &fakeLifecycleStore{status: models.StatusSubmitted}
	l := NewLifecycle(store)

	err := l.Transition(context.Background(), 2, models.StatusRejected, "", "")
	require.NoError(t, err)

	require.NotNil(t, store.updated)
	assert.Equal(t, models.StatusRejected, *store.updated)
	assert.Nil(t, store.resolution)
}

func TestTransitionBackToSubmitted(t *testing.T) {
	t.Parallel()

	store := &fakeLifecycleStore{status: models.StatusProgress}
	l := NewLifecycle(store)

	err := l.Transition(context.Background(), 2, models.StatusSubmitted, "", "")
	require.NoError(t, err)
	require.NotNil(t, store.updated)
	assert.Equal(t, models.StatusSubmitted, *store.updated)
}

func TestTransitionOutOfCompletedIsRejected(t *testing.T) {
	t.Parallel()

	store := &fakeLifecycleStore{status: models.StatusComplete, resolved: true}
	l := NewLifecycle(store)

	err := l.Transition(context.Background(), 3, models.StatusProgress, "", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Nil(t, store.updated)
}

func TestTransitionRecompleteUpserts(t *testing.T) {
	t.Parallel()

	store := &fakeLifecycleStore{status: models.StatusComplete, resolved: true}
	l := NewLifecycle(store)

	err := l.Transition(context.Background(), 3, models.StatusComplete, "better-evidence.jpg", "resurfaced properly")
	require.NoError(t, err)
	require.NotNil(t, store.resolution)
	assert.Equal(t, "better-evidence.jpg", store.resolution.Image)
}

func TestTransitionNoopWhenStatusUnchanged(t *testing.T) {
	t.Parallel()

	store := &fakeLifecycleStore{status: models.StatusProgress}
	l := NewLifecycle(store)

	err := l.Transition(context.Background(), 2, models.StatusProgress, "", "")
	require.NoError(t, err)
	assert.Nil(t, store.updated)
}
