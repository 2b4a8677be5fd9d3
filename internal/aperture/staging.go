package aperture

import (
	"context"
	"io"
	"time"
)

// StagingArea buffers upload bytes to durable scratch storage before the
// media row exists. Staging computes the content hash as it copies.
type StagingArea interface {
	// Stage copies r into the staging area. It fails if the upload exceeds
	// the configured maximum size or if ctx is cancelled mid-copy.
	Stage(ctx context.Context, r io.Reader) (StagedUpload, error)

	// Remove discards a staged upload. Removing one already gone is not an error.
	Remove(upload StagedUpload) error

	// Count returns the number of staged uploads.
	Count() (int, error)

	// Size returns the total size of staged content in bytes.
	Size() (int64, error)

	// Purge removes staged uploads created before olderThan and returns how
	// many were removed. These are leftovers of interrupted ingests.
	Purge(olderThan time.Time) (int, error)
}

// StagedUpload is one buffered upload.
type StagedUpload interface {
	Key() string
	// Checksum is the hex-encoded SHA-256 of the content.
	Checksum() string
	Size() int64
	Open() (io.ReadCloser, error)
	// LocalPath returns the path of the staged bytes on the local
	// filesystem, or "" when the content is not file backed.
	LocalPath() string
}
