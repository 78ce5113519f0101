package upload

import (
	"context"
	"io"
)

// Uploader stores an image with a remote host and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
}
