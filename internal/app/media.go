package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"aperturama/internal/aperture"
	"aperturama/internal/database/sqlc"
	"aperturama/internal/fs"
)

// DefaultImportWorkers bounds concurrent ingests during ImportDirectory.
const DefaultImportWorkers = 4

// IngestFile uploads the file at rawPath on behalf of ownerID.
func (a *App) IngestFile(ctx context.Context, ownerID int64, rawPath string) (int64, error) {
	path, err := regularFile(rawPath)
	if err != nil {
		return 0, a.Fail(err)
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, a.Fail(fmt.Errorf("opening file: %w", err))
	}
	defer f.Close()

	id, err := a.service.Ingest(ctx, ownerID, f, filepath.Base(path))
	if err != nil {
		return 0, a.Fail(err)
	}
	return id, nil
}

// CheckHash reports whether ownerID already has media with the content of
// the file at rawPath, returning the file's hash.
func (a *App) CheckHash(ctx context.Context, ownerID int64, rawPath string) (string, bool, error) {
	path, err := regularFile(rawPath)
	if err != nil {
		return "", false, err
	}
	hash, err := HashFile(path)
	if err != nil {
		return "", false, err
	}
	exists, err := a.service.HasHash(ctx, ownerID, hash)
	if err != nil {
		return "", false, err
	}
	return hash, exists, nil
}

// ImportOptions controls ImportDirectory.
type ImportOptions struct {
	Recursive bool
	// SkipDuplicates skips files whose content the owner already has.
	SkipDuplicates bool
	// Workers bounds concurrent ingests; zero means DefaultImportWorkers.
	Workers int
}

// ImportedFile is a file ingested by ImportDirectory.
type ImportedFile struct {
	Path    string
	MediaID int64
}

// ImportFailure is a file ImportDirectory could not ingest.
type ImportFailure struct {
	Path string
	Err  error
}

// ImportResult summarizes ImportDirectory. Each list is in path order.
type ImportResult struct {
	Imported []ImportedFile
	Skipped  []string
	Failed   []ImportFailure
}

// ImportDirectory ingests every importable file under rawPath, honouring the
// configured ignore patterns and the directory's ignore file. A failing file
// does not stop the import; it is reported in the result.
func (a *App) ImportDirectory(ctx context.Context, ownerID int64, rawPath string, opts ImportOptions) (*ImportResult, error) {
	paths, err := fs.FindMedia(rawPath, opts.Recursive, fs.NewIgnoreMatcher(a.cfg.Import.Ignore))
	if err != nil {
		return nil, a.Fail(err)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultImportWorkers
	}

	type outcome struct {
		id      int64
		skipped bool
		err     error
	}
	outcomes := make([]outcome, len(paths))

	var mu sync.Mutex
	seen := make(map[string]bool)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if opts.SkipDuplicates {
				hash, err := HashFile(path)
				if err != nil {
					outcomes[i].err = err
					return nil
				}
				exists, err := a.service.HasHash(gctx, ownerID, hash)
				if err != nil {
					return err
				}
				// identical files within one import count as duplicates too
				mu.Lock()
				dup := exists || seen[hash]
				seen[hash] = true
				mu.Unlock()
				if dup {
					outcomes[i].skipped = true
					return nil
				}
			}

			f, err := os.Open(path)
			if err != nil {
				outcomes[i].err = fmt.Errorf("opening file: %w", err)
				return nil
			}
			defer f.Close()

			id, err := a.service.Ingest(gctx, ownerID, f, filepath.Base(path))
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				outcomes[i].err = err
				return nil
			}
			outcomes[i].id = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, a.Fail(fmt.Errorf("importing %s: %w", rawPath, err))
	}

	result := &ImportResult{}
	for i, out := range outcomes {
		switch {
		case out.err != nil:
			a.logger.Warn("import failed", "path", paths[i], "error", out.err)
			result.Failed = append(result.Failed, ImportFailure{Path: paths[i], Err: out.err})
		case out.skipped:
			result.Skipped = append(result.Skipped, paths[i])
		default:
			result.Imported = append(result.Imported, ImportedFile{Path: paths[i], MediaID: out.id})
		}
	}
	if len(result.Failed) > 0 {
		a.op.Status = "error"
	}
	a.logger.Info("import complete", "path", rawPath, "imported", len(result.Imported), "skipped", len(result.Skipped), "failed", len(result.Failed))
	return result, nil
}

// Export copies the original (or the thumbnail) of a media item readable by
// req into destDir and returns the written path. Originals keep their
// uploaded filename prefixed with the media id. Existing files are never
// overwritten.
func (a *App) Export(ctx context.Context, req aperture.Requester, mediaID int64, destDir string, thumbnail bool) (string, error) {
	var (
		name string
		rc   io.ReadCloser
		err  error
	)
	if thumbnail {
		name = aperture.ThumbnailName(mediaID)
		rc, err = a.service.OpenThumbnail(ctx, req, mediaID)
	} else {
		var m *sqlc.Media
		m, rc, err = a.service.OpenOriginal(ctx, req, mediaID)
		if err == nil {
			name = fmt.Sprintf("%d-%s", m.ID, filepath.Base(m.Filename))
		}
	}
	if err != nil {
		return "", a.Fail(err)
	}
	defer rc.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", a.Fail(fmt.Errorf("creating export directory: %w", err))
	}
	dest := filepath.Join(destDir, name)
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", a.Fail(fmt.Errorf("creating export file: %w", err))
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		os.Remove(dest)
		return "", a.Fail(fmt.Errorf("writing export file: %w", err))
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return "", a.Fail(fmt.Errorf("closing export file: %w", err))
	}
	return dest, nil
}

// HashFile returns the hex SHA-256 of a file, the same digest the staging
// area records for uploads.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// regularFile resolves rawPath and rejects anything but a regular file.
func regularFile(rawPath string) (string, error) {
	abs, err := filepath.Abs(rawPath)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	info, err := os.Lstat(abs)
	if err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("not a regular file: %s", abs)
	}
	return abs, nil
}
