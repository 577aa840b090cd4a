package ports

import "context"

// Mirror copies a finished archive to offsite storage.
// Production code uses the s3mirror adapter; tests use MockMirror.
type Mirror interface {
	// Upload copies the file at localPath under the given key and returns
	// the location it was written to.
	Upload(ctx context.Context, localPath, key string) (string, error)
}
