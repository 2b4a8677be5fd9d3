package staging

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"aperturama/internal/aperture"
)

type stubClock struct{ now time.Time }

func (c *stubClock) Now() time.Time { return c.now }

type seqIDs struct{ n int }

func (g *seqIDs) New() string {
	g.n++
	return fmt.Sprintf("upload-%d", g.n)
}

func checksum(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// newAreas returns one staging area per store implementation.
func newAreas(t *testing.T, maxSize int64) map[string]aperture.StagingArea {
	t.Helper()
	clock := &stubClock{now: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}

	fsArea, err := NewFileSystemStagingArea(t.TempDir(), maxSize, clock, &seqIDs{})
	if err != nil {
		t.Fatalf("NewFileSystemStagingArea() error = %v", err)
	}
	return map[string]aperture.StagingArea{
		"memory":     NewMemoryStagingArea(maxSize, clock, &seqIDs{}),
		"filesystem": fsArea,
	}
}

func TestStagingArea_Stage(t *testing.T) {
	for name, area := range newAreas(t, 1024) {
		t.Run(name, func(t *testing.T) {
			upload, err := area.Stage(context.Background(), strings.NewReader("hello world"))
			if err != nil {
				t.Fatalf("Stage() error = %v", err)
			}

			if upload.Checksum() != checksum("hello world") {
				t.Errorf("Checksum() = %q, want %q", upload.Checksum(), checksum("hello world"))
			}
			if upload.Size() != 11 {
				t.Errorf("Size() = %d, want 11", upload.Size())
			}

			rc, err := upload.Open()
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			got, _ := io.ReadAll(rc)
			rc.Close()
			if string(got) != "hello world" {
				t.Errorf("content = %q, want %q", got, "hello world")
			}

			if n, _ := area.Count(); n != 1 {
				t.Errorf("Count() = %d, want 1", n)
			}
			if size, _ := area.Size(); size != 11 {
				t.Errorf("Size() = %d, want 11", size)
			}

			if err := area.Remove(upload); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
			if err := area.Remove(upload); err != nil {
				t.Errorf("second Remove() error = %v", err)
			}
			if n, _ := area.Count(); n != 0 {
				t.Errorf("Count() after Remove = %d, want 0", n)
			}
		})
	}
}

func TestStagingArea_MaxSize(t *testing.T) {
	for name, area := range newAreas(t, 8) {
		t.Run(name, func(t *testing.T) {
			_, err := area.Stage(context.Background(), strings.NewReader("more than eight bytes"))
			if !errors.Is(err, ErrStagingFull) {
				t.Fatalf("Stage() error = %v, want ErrStagingFull", err)
			}
			if n, _ := area.Count(); n != 0 {
				t.Errorf("Count() = %d, want 0 after rejected upload", n)
			}

			if _, err := area.Stage(context.Background(), strings.NewReader("12345678")); err != nil {
				t.Fatalf("Stage() of exactly max size error = %v", err)
			}
			_, err = area.Stage(context.Background(), strings.NewReader("x"))
			if !errors.Is(err, ErrStagingFull) {
				t.Errorf("Stage() into full area error = %v, want ErrStagingFull", err)
			}
		})
	}
}

func TestStagingArea_Cancelled(t *testing.T) {
	for name, area := range newAreas(t, 1024) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := area.Stage(ctx, strings.NewReader("data"))
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("Stage() error = %v, want context.Canceled", err)
			}
			if n, _ := area.Count(); n != 0 {
				t.Errorf("Count() = %d, want 0", n)
			}
		})
	}
}

func TestStagingArea_Purge(t *testing.T) {
	clock := &stubClock{now: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}
	fsArea, err := NewFileSystemStagingArea(t.TempDir(), 1024, clock, &seqIDs{})
	if err != nil {
		t.Fatalf("NewFileSystemStagingArea() error = %v", err)
	}
	areas := map[string]aperture.StagingArea{
		"memory":     NewMemoryStagingArea(1024, clock, &seqIDs{}),
		"filesystem": fsArea,
	}

	for name, area := range areas {
		t.Run(name, func(t *testing.T) {
			clock.now = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
			if _, err := area.Stage(context.Background(), strings.NewReader("old")); err != nil {
				t.Fatalf("Stage() error = %v", err)
			}
			clock.now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
			fresh, err := area.Stage(context.Background(), strings.NewReader("fresh"))
			if err != nil {
				t.Fatalf("Stage() error = %v", err)
			}

			n, err := area.Purge(time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC))
			if err != nil {
				t.Fatalf("Purge() error = %v", err)
			}
			if n != 1 {
				t.Errorf("Purge() = %d, want 1", n)
			}
			rc, err := fresh.Open()
			if err != nil {
				t.Fatalf("fresh upload was purged: %v", err)
			}
			rc.Close()
		})
	}
}

func TestFileSystemStagingArea_LocalPath(t *testing.T) {
	area, err := NewFileSystemStagingArea(t.TempDir(), 1024, &stubClock{}, &seqIDs{})
	if err != nil {
		t.Fatalf("NewFileSystemStagingArea() error = %v", err)
	}
	upload, err := area.Stage(context.Background(), bytes.NewReader([]byte("abc")))
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}

	data, err := os.ReadFile(upload.LocalPath())
	if err != nil {
		t.Fatalf("reading LocalPath(): %v", err)
	}
	if string(data) != "abc" {
		t.Errorf("content = %q, want %q", data, "abc")
	}

	mem := NewMemoryStagingArea(1024, &stubClock{}, &seqIDs{})
	upload, err = mem.Stage(context.Background(), bytes.NewReader([]byte("abc")))
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	if upload.LocalPath() != "" {
		t.Errorf("memory LocalPath() = %q, want empty", upload.LocalPath())
	}
}
