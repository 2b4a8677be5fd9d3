package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"aperturama/internal/aperture"
)

// FileSystemVault stores media artifacts as files:
//
//	<root>/
//	  originals/
//	    <id><ext>
//	  thumbnails/
//	    <id>.thumbnail.jpg
//
// Files only ever appear under their final name by rename, so a crash
// leaves at most a ".tmp-*" file behind.
type FileSystemVault struct {
	name          string
	root          string
	originalsDir  string
	thumbnailsDir string
}

// NewFileSystemVault creates a new filesystem vault rooted at the given path.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	v := &FileSystemVault{
		name:          name,
		root:          root,
		originalsDir:  filepath.Join(root, "originals"),
		thumbnailsDir: filepath.Join(root, "thumbnails"),
	}
	for _, dir := range []string{v.originalsDir, v.thumbnailsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create vault directory: %w", err)
		}
	}
	return v, nil
}

func (v *FileSystemVault) originalPath(mediaID int64, ext string) string {
	return filepath.Join(v.originalsDir, aperture.OriginalName(mediaID, ext))
}

func (v *FileSystemVault) thumbnailPath(mediaID int64) string {
	return filepath.Join(v.thumbnailsDir, aperture.ThumbnailName(mediaID))
}

func (v *FileSystemVault) PutThumbnail(ctx context.Context, mediaID int64, r io.Reader, size int64) error {
	return v.writeFile(v.thumbnailPath(mediaID), r, size)
}

// CommitOriginal renames the staged file into place when it lives on the
// same filesystem and copies it through a temp file otherwise.
func (v *FileSystemVault) CommitOriginal(ctx context.Context, mediaID int64, ext string, upload aperture.StagedUpload) error {
	dest := v.originalPath(mediaID, ext)

	if src := upload.LocalPath(); src != "" {
		err := os.Rename(src, dest)
		if err == nil {
			return nil
		}
		var linkErr *os.LinkError
		if !errors.As(err, &linkErr) || errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to move original: %w", err)
		}
		// Cross-device; fall back to copying.
	}

	rc, err := upload.Open()
	if err != nil {
		return fmt.Errorf("failed to open staged upload: %w", err)
	}
	defer rc.Close()
	return v.writeFile(dest, rc, upload.Size())
}

func (v *FileSystemVault) OpenOriginal(ctx context.Context, mediaID int64, ext string) (io.ReadCloser, error) {
	return openFile(v.originalPath(mediaID, ext))
}

func (v *FileSystemVault) OpenThumbnail(ctx context.Context, mediaID int64) (io.ReadCloser, error) {
	return openFile(v.thumbnailPath(mediaID))
}

func (v *FileSystemVault) HasOriginal(ctx context.Context, mediaID int64, ext string) (bool, error) {
	return fileExists(v.originalPath(mediaID, ext))
}

func (v *FileSystemVault) HasThumbnail(ctx context.Context, mediaID int64) (bool, error) {
	return fileExists(v.thumbnailPath(mediaID))
}

// DeleteMedia removes both artifacts. Missing files are ignored.
func (v *FileSystemVault) DeleteMedia(ctx context.Context, mediaID int64, ext string) error {
	var errs []error
	for _, p := range []string{v.thumbnailPath(mediaID), v.originalPath(mediaID, ext)} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ValidateSetup verifies that the vault directories are accessible.
func (v *FileSystemVault) ValidateSetup(ctx context.Context) error {
	info, err := os.Stat(v.root)
	if err != nil {
		return fmt.Errorf("vault root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault root is not a directory: %s", v.root)
	}

	for _, dir := range []string{v.originalsDir, v.thumbnailsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("vault directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", dir)
		}
	}
	return nil
}

// writeFile writes data from r to destPath using a temp file and rename.
func (v *FileSystemVault) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	// Same directory so that the rename is atomic.
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", aperture.ErrArtifactNotFound, filepath.Base(path))
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

var _ aperture.Vault = (*FileSystemVault)(nil)
