package issues

import "errors"

// Error taxonomy of the report engine. StoreUnavailable is transient and may
// be retried by the caller; the others are caller-input or state errors.
// classify.ErrClassificationFailed completes the set.
var (
	ErrStoreUnavailable          = errors.New("store unavailable")
	ErrReportNotFound            = errors.New("report not found")
	ErrInvalidStatus             = errors.New("invalid status")
	ErrMissingResolutionEvidence = errors.New("missing resolution evidence")
	ErrConcurrentUpdateConflict  = errors.New("concurrent update conflict")
)
