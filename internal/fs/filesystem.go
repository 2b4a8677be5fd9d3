// Package fs discovers the media files under a directory for bulk import.
package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// importableExts are the formats the thumbnailer can decode.
var importableExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
}

// IsImportable reports whether a file name has an image extension that
// `media import` picks up.
func IsImportable(name string) bool {
	return importableExts[strings.ToLower(filepath.Ext(name))]
}

// FindMedia returns the absolute paths of importable regular files under
// root, sorted lexically. The root's ignore file is merged into matcher.
// Symlinks, devices, pipes and sockets are skipped. Without recursive only
// the top level is scanned.
func FindMedia(root string, recursive bool, matcher *IgnoreMatcher) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absRoot)
	}

	if matcher == nil {
		matcher = NewIgnoreMatcher(nil)
	}
	extra, err := ParseIgnoreFile(filepath.Join(absRoot, IgnoreFileName))
	if err != nil {
		return nil, err
	}
	matcher = matcher.With(extra)

	var paths []string
	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == absRoot {
			return nil
		}
		rel, err := filepath.Rel(absRoot, p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive || matcher.MatchDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if matcher.Match(rel) || !IsImportable(d.Name()) {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}
