package imagestore

import (
	"context"
	"errors"
	"io"

	"github.com/civiclens-app/CivicLens/internal/pkg/env"
)

// ErrNotFound is returned when a stored image reference does not resolve.
var ErrNotFound = errors.New("image not found")

// Store accepts raw image bytes and returns stable reference strings. The
// engine never inspects image content, it only passes references through.
type Store interface {
	Save(ctx context.Context, data []byte, mimeType string) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// NewFromEnv selects the configured backend: local disk by default, S3 when
// IMAGE_STORAGE=s3.
func NewFromEnv(ctx context.Context) (Store, error) {
	if env.GetEnv("IMAGE_STORAGE", "local") == "s3" {
		return NewS3Store(ctx)
	}
	return NewLocalStore(env.GetEnv("UPLOAD_DIR", "uploads"))
}

// extensionFor maps the submission mime type onto a file extension for the
// stored reference.
func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}
