package ports

import (
	"context"
	"io"

	"mediagate/internal/core/domain"
)

// BlobInfo describes a published blob.
type BlobInfo struct {
	TotalBytes  uint64
	ContentType string
}

// BlobStore is a byte-range-capable store of immutable blobs. Published blobs
// are read-many/write-once: Put must stage to a temporary location and only
// publish atomically on success, so a failed upload is never readable.
type BlobStore interface {
	// Stat returns size and content type for a published blob.
	Stat(ctx context.Context, loc domain.Locator) (BlobInfo, error)

	// ReadRange opens a lazy reader over the inclusive byte interval
	// [start, end], delivering exactly end-start+1 bytes. Concurrent reads of
	// any ranges on the same locator must not interfere. Cancelling ctx must
	// abort an in-flight read promptly.
	ReadRange(ctx context.Context, loc domain.Locator, start, end uint64) (io.ReadCloser, error)

	// Put streams the payload to a temporary location and atomically publishes
	// it under a new locator, returning the locator and byte count.
	Put(ctx context.Context, r io.Reader, contentType string) (domain.Locator, uint64, error)
}
