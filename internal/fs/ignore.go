package fs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreFileName is the per-directory ignore file read by `media import`.
const IgnoreFileName = ".aperturamaignore"

// defaultIgnorePatterns are always applied regardless of config or ignore files.
var defaultIgnorePatterns = []string{IgnoreFileName}

type ignorePattern struct {
	pattern   string
	matchPath bool // match the relative path instead of the basename
	dirOnly   bool // trailing '/': only matches directories
}

// IgnoreMatcher decides which files and directories an import skips.
// Patterns without '/' match the basename only. Patterns containing '/'
// match the slash-separated path relative to the import root. A trailing
// '/' restricts a pattern to directories.
type IgnoreMatcher struct {
	patterns []ignorePattern
}

// NewIgnoreMatcher creates an IgnoreMatcher from raw pattern strings.
// Blank lines and lines starting with '#' are skipped.
func NewIgnoreMatcher(rawPatterns []string) *IgnoreMatcher {
	m := &IgnoreMatcher{}
	m.add(defaultIgnorePatterns)
	m.add(rawPatterns)
	return m
}

func (m *IgnoreMatcher) add(rawPatterns []string) {
	for _, raw := range rawPatterns {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		p := ignorePattern{}
		if strings.HasSuffix(raw, "/") {
			p.dirOnly = true
			raw = strings.TrimSuffix(raw, "/")
		}
		raw = strings.TrimPrefix(raw, "/")
		if raw == "" {
			continue
		}
		p.pattern = raw
		p.matchPath = strings.Contains(raw, "/")
		m.patterns = append(m.patterns, p)
	}
}

// With returns a matcher holding m's patterns followed by extra.
func (m *IgnoreMatcher) With(extra []string) *IgnoreMatcher {
	out := &IgnoreMatcher{patterns: append([]ignorePattern(nil), m.patterns...)}
	out.add(extra)
	return out
}

// Match reports whether the file at relativePath should be ignored.
func (m *IgnoreMatcher) Match(relativePath string) bool {
	return m.match(relativePath, false)
}

// MatchDir reports whether the directory at relativePath should be skipped
// along with everything below it.
func (m *IgnoreMatcher) MatchDir(relativePath string) bool {
	return m.match(relativePath, true)
}

func (m *IgnoreMatcher) match(relativePath string, isDir bool) bool {
	if relativePath == "" || relativePath == "." {
		return false
	}
	normalized := filepath.ToSlash(relativePath)
	basename := filepath.Base(relativePath)

	for _, p := range m.patterns {
		if p.dirOnly && !isDir {
			continue
		}
		subject := basename
		if p.matchPath {
			subject = normalized
		}
		matched, err := filepath.Match(p.pattern, subject)
		if err != nil {
			// malformed pattern
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// ParseIgnoreFile reads an ignore file and returns its raw lines.
// A missing file yields no patterns and no error.
func ParseIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		patterns = append(patterns, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return patterns, nil
}
