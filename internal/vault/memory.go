package vault

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"aperturama/internal/aperture"
)

// MemoryVault is an in-memory implementation of the Vault interface.
// It stores all artifacts in memory, making it useful for testing.
// This implementation is safe for concurrent use.
type MemoryVault struct {
	name      string
	artifacts map[string][]byte // artifact name -> content
	mu        sync.RWMutex
}

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:      name,
		artifacts: make(map[string][]byte),
	}
}

func (m *MemoryVault) put(name string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifacts[name] = data
	return nil
}

func (m *MemoryVault) open(name string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.artifacts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", aperture.ErrArtifactNotFound, name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MemoryVault) has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.artifacts[name]
	return ok
}

func (m *MemoryVault) PutThumbnail(ctx context.Context, mediaID int64, r io.Reader, size int64) error {
	return m.put(aperture.ThumbnailName(mediaID), r, size)
}

func (m *MemoryVault) CommitOriginal(ctx context.Context, mediaID int64, ext string, upload aperture.StagedUpload) error {
	rc, err := upload.Open()
	if err != nil {
		return fmt.Errorf("failed to open staged upload: %w", err)
	}
	defer rc.Close()
	return m.put(aperture.OriginalName(mediaID, ext), rc, upload.Size())
}

func (m *MemoryVault) OpenOriginal(ctx context.Context, mediaID int64, ext string) (io.ReadCloser, error) {
	return m.open(aperture.OriginalName(mediaID, ext))
}

func (m *MemoryVault) OpenThumbnail(ctx context.Context, mediaID int64) (io.ReadCloser, error) {
	return m.open(aperture.ThumbnailName(mediaID))
}

func (m *MemoryVault) HasOriginal(ctx context.Context, mediaID int64, ext string) (bool, error) {
	return m.has(aperture.OriginalName(mediaID, ext)), nil
}

func (m *MemoryVault) HasThumbnail(ctx context.Context, mediaID int64) (bool, error) {
	return m.has(aperture.ThumbnailName(mediaID)), nil
}

func (m *MemoryVault) DeleteMedia(ctx context.Context, mediaID int64, ext string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.artifacts, aperture.ThumbnailName(mediaID))
	delete(m.artifacts, aperture.OriginalName(mediaID, ext))
	return nil
}

// Remove deletes a single artifact by name. Tests use it to simulate loss.
func (m *MemoryVault) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.artifacts, name)
}

// Len returns the number of stored artifacts.
func (m *MemoryVault) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.artifacts)
}

// ValidateSetup always succeeds for memory vaults.
func (m *MemoryVault) ValidateSetup(ctx context.Context) error {
	return nil
}

var _ aperture.Vault = (*MemoryVault)(nil)
