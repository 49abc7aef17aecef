package storage

import (
	"context"
	"io"
)

// Uploader is the object-store collaborator: put bytes under a key, get back
// an immutable URL. The pipeline never deletes what it uploads.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (url string, err error)
}
