package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewIgnoreMatcher(t *testing.T) {
	t.Run("skips blank lines and comments", func(t *testing.T) {
		t.Parallel()
		m := NewIgnoreMatcher([]string{"", "  ", "# comment", "*.xmp"})
		// the ignore file itself is always first
		if len(m.patterns) != 2 {
			t.Fatalf("expected 2 patterns, got %d", len(m.patterns))
		}
		if m.patterns[1].pattern != "*.xmp" {
			t.Errorf("expected *.xmp, got %s", m.patterns[1].pattern)
		}
	})

	t.Run("classifies pattern kinds", func(t *testing.T) {
		t.Parallel()
		m := NewIgnoreMatcher([]string{"*.xmp", "exports/raw", "@eaDir/"})
		got := m.patterns[1:]
		if got[0].matchPath || got[0].dirOnly {
			t.Errorf("*.xmp = %+v, want basename file pattern", got[0])
		}
		if !got[1].matchPath {
			t.Error("exports/raw should be a path pattern")
		}
		if !got[2].dirOnly || got[2].pattern != "@eaDir" {
			t.Errorf("@eaDir/ = %+v, want dir-only @eaDir", got[2])
		}
	})

	t.Run("With does not mutate the receiver", func(t *testing.T) {
		t.Parallel()
		m := NewIgnoreMatcher([]string{"*.xmp"})
		m2 := m.With([]string{"*.aae"})
		if len(m.patterns) != 2 {
			t.Errorf("original patterns = %d, want 2", len(m.patterns))
		}
		if len(m2.patterns) != 3 {
			t.Errorf("extended patterns = %d, want 3", len(m2.patterns))
		}
	})
}

func TestIgnoreMatcher_Match(t *testing.T) {
	tests := []struct {
		name         string
		patterns     []string
		relativePath string
		dir          bool
		want         bool
	}{
		{
			name:         "basename glob matches file in root",
			patterns:     []string{"*.xmp"},
			relativePath: "IMG_0001.xmp",
			want:         true,
		},
		{
			name:         "basename glob matches file in subdirectory",
			patterns:     []string{"*.xmp"},
			relativePath: filepath.Join("2024", "IMG_0001.xmp"),
			want:         true,
		},
		{
			name:         "basename glob does not match different extension",
			patterns:     []string{"*.xmp"},
			relativePath: "IMG_0001.jpg",
			want:         false,
		},
		{
			name:         "ignore file is always ignored",
			patterns:     nil,
			relativePath: IgnoreFileName,
			want:         true,
		},
		{
			name:         "hidden files",
			patterns:     []string{".*"},
			relativePath: filepath.Join("trip", ".DS_Store"),
			want:         true,
		},
		{
			name:         "path pattern matches exact relative path",
			patterns:     []string{"exports/cover.jpg"},
			relativePath: filepath.Join("exports", "cover.jpg"),
			want:         true,
		},
		{
			name:         "path pattern does not match wrong path",
			patterns:     []string{"exports/cover.jpg"},
			relativePath: filepath.Join("trip", "cover.jpg"),
			want:         false,
		},
		{
			name:         "leading slash anchors to root",
			patterns:     []string{"/exports/*.png"},
			relativePath: filepath.Join("exports", "a.png"),
			want:         true,
		},
		{
			name:         "question mark wildcard",
			patterns:     []string{"?.png"},
			relativePath: "a.png",
			want:         true,
		},
		{
			name:         "character class",
			patterns:     []string{"*.[jp]pg"},
			relativePath: "x.ppg",
			want:         true,
		},
		{
			name:         "dir-only pattern ignores files",
			patterns:     []string{"@eaDir/"},
			relativePath: "@eaDir",
			want:         false,
		},
		{
			name:         "dir-only pattern matches directories",
			patterns:     []string{"@eaDir/"},
			relativePath: filepath.Join("2024", "@eaDir"),
			dir:          true,
			want:         true,
		},
		{
			name:         "basename pattern matches directories",
			patterns:     []string{".*"},
			relativePath: ".thumbnails",
			dir:          true,
			want:         true,
		},
		{
			name:         "malformed pattern is skipped",
			patterns:     []string{"[", "*.tmp"},
			relativePath: "upload.tmp",
			want:         true,
		},
		{
			name:         "empty path",
			patterns:     []string{"*"},
			relativePath: "",
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := NewIgnoreMatcher(tt.patterns)
			var got bool
			if tt.dir {
				got = m.MatchDir(tt.relativePath)
			} else {
				got = m.Match(tt.relativePath)
			}
			if got != tt.want {
				t.Errorf("match(%q, dir=%v) = %v, want %v", tt.relativePath, tt.dir, got, tt.want)
			}
		})
	}
}

func TestParseIgnoreFile(t *testing.T) {
	t.Run("reads patterns from file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, IgnoreFileName)
		content := "*.xmp\n# sidecars\n\n*.aae\nexports/\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing test file: %v", err)
		}

		patterns, err := ParseIgnoreFile(path)
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		// raw lines; filtering happens in NewIgnoreMatcher
		if len(patterns) != 5 {
			t.Fatalf("expected 5 raw lines, got %d", len(patterns))
		}

		m := NewIgnoreMatcher(patterns)
		if len(m.patterns) != 4 {
			t.Errorf("expected 4 parsed patterns, got %d", len(m.patterns))
		}
	})

	t.Run("returns nil for missing file", func(t *testing.T) {
		t.Parallel()
		patterns, err := ParseIgnoreFile(filepath.Join(t.TempDir(), IgnoreFileName))
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		if patterns != nil {
			t.Errorf("expected nil patterns, got %v", patterns)
		}
	})
}
