package staging

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aperturama/internal/aperture"
)

// NewFileSystemStagingArea creates a staging area backed by a directory.
// maxSize is the maximum total size in bytes; must be positive.
//
// Directory structure:
//
//	<staging_dir>/
//	  uploads/
//	    <key>.part
//
// Uploads staged by a process that crashed stay behind until Purge.
func NewFileSystemStagingArea(stagingDir string, maxSize int64, clock aperture.Clock, idgen aperture.IDGenerator) (aperture.StagingArea, error) {
	store, err := newFileSystemStore(stagingDir)
	if err != nil {
		return nil, err
	}
	return &stagingArea{
		store:   store,
		maxSize: maxSize,
		clock:   clock,
		idgen:   idgen,
	}, nil
}

const partSuffix = ".part"

// fileSystemStore writes each upload to its own file. The modification
// time of a completed file is its creation time.
type fileSystemStore struct {
	uploadsDir string
}

var _ stagingStore = (*fileSystemStore)(nil)

func newFileSystemStore(stagingDir string) (*fileSystemStore, error) {
	uploadsDir := filepath.Join(stagingDir, "uploads")
	if err := os.MkdirAll(uploadsDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &fileSystemStore{uploadsDir: uploadsDir}, nil
}

func (f *fileSystemStore) path(key string) string {
	return filepath.Join(f.uploadsDir, key+partSuffix)
}

func (f *fileSystemStore) Create(key string, createdAt time.Time) (io.WriteCloser, error) {
	file, err := os.OpenFile(f.path(key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, err
	}
	return &fileWriter{File: file, createdAt: createdAt}, nil
}

func (f *fileSystemStore) Open(key string) (io.ReadCloser, error) {
	return os.Open(f.path(key))
}

func (f *fileSystemStore) LocalPath(key string) string {
	return f.path(key)
}

func (f *fileSystemStore) Remove(key string) error {
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (f *fileSystemStore) List() ([]storedUpload, error) {
	entries, err := os.ReadDir(f.uploadsDir)
	if err != nil {
		return nil, fmt.Errorf("reading staging directory: %w", err)
	}
	var out []storedUpload
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, partSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// removed while listing
				continue
			}
			return nil, err
		}
		out = append(out, storedUpload{
			key:       strings.TrimSuffix(name, partSuffix),
			size:      info.Size(),
			createdAt: info.ModTime(),
		})
	}
	return out, nil
}

func (f *fileSystemStore) ContentSize() (int64, error) {
	uploads, err := f.List()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, u := range uploads {
		total += u.size
	}
	return total, nil
}

// fileWriter syncs the upload to disk and stamps it with the staging
// clock's time on close.
type fileWriter struct {
	*os.File
	createdAt time.Time
}

func (w *fileWriter) Close() error {
	if err := w.File.Sync(); err != nil {
		w.File.Close()
		return err
	}
	if err := w.File.Close(); err != nil {
		return err
	}
	return os.Chtimes(w.File.Name(), w.createdAt, w.createdAt)
}
