package object

import (
	"context"
	"io"
)

// ObjectStore keeps work instruction attachments. Keys are grouped under a
// hashed work instruction ID so every attachment of one IT shares a prefix.
type ObjectStore interface {
	Save(ctx context.Context, instructionID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	// Delete removes an attachment. Deleting a missing key is not an error.
	Delete(ctx context.Context, storageKey string) error
}
