package classify

import (
	"context"
	"errors"

	"github.com/civiclens-app/CivicLens/app/models"
)

// ErrClassificationFailed covers oracle transport errors, timeouts and
// schema-non-conforming responses. Callers surface it to the submitter so
// they can resubmit; it is never retried automatically.
var ErrClassificationFailed = errors.New("classification failed")

// Reference is the already-open report a new image is compared against.
type Reference struct {
	Description string
	Category    models.Category
	Department  models.Department
}

// Judgement is the structured verdict of the vision oracle.
type Judgement struct {
	Description string            `json:"description"`
	Category    models.Category   `json:"category"`
	Department  models.Department `json:"department"`
	Duplicate   bool              `json:"duplicate"`
}

// Oracle produces a judgement from an image and an optional reference.
// With a nil reference the oracle classifies the image fresh; with a
// reference it additionally judges whether the image depicts the same issue.
type Oracle interface {
	Classify(ctx context.Context, image []byte, mimeType string, ref *Reference) (Judgement, error)
}

// validate rejects any judgement that falls outside the closed response
// schema. Department is only demanded on fresh classification; when a
// duplicate is declared against a reference the classification fields of the
// matched report win anyway.
func (j Judgement) validate(ref *Reference) error {
	if ref == nil || !j.Duplicate {
		if j.Description == "" {
			return errors.New("missing description")
		}
		if !j.Category.Valid() {
			return errors.New("category outside the fixed set")
		}
		if !j.Department.Valid() {
			return errors.New("department outside the fixed set")
		}
	}
	return nil
}
