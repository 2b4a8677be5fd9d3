package staging

import (
	"io"
	"time"
)

// stagingStore abstracts the storage mechanics for a staging area.
// Uploads are copied in concurrently, so stores must be safe for
// concurrent use.
type stagingStore interface {
	// Create starts a new upload under key. Bytes written become visible to
	// Open and count towards ContentSize once the writer is closed.
	Create(key string, createdAt time.Time) (io.WriteCloser, error)

	// Open returns a reader for a completed upload.
	Open(key string) (io.ReadCloser, error)

	// LocalPath returns the on-disk path of an upload, or "".
	LocalPath(key string) string

	// Remove discards an upload. Missing keys are not an error.
	Remove(key string) error

	// List returns all completed uploads.
	List() ([]storedUpload, error)

	// ContentSize returns total bytes of all completed uploads.
	ContentSize() (int64, error)
}

type storedUpload struct {
	key       string
	size      int64
	createdAt time.Time
}

// stagedUpload implements aperture.StagedUpload.
type stagedUpload struct {
	key      string
	checksum string
	size     int64
	store    stagingStore
}

func (u *stagedUpload) Key() string                  { return u.key }
func (u *stagedUpload) Checksum() string             { return u.checksum }
func (u *stagedUpload) Size() int64                  { return u.size }
func (u *stagedUpload) Open() (io.ReadCloser, error) { return u.store.Open(u.key) }
func (u *stagedUpload) LocalPath() string            { return u.store.LocalPath(u.key) }
