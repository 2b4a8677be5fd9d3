package testutil

import (
	"context"
	"io"
	"sync"

	"aperturama/internal/aperture"
	"aperturama/internal/vault"
)

// TestVault is an in-memory vault whose writes can be made to fail.
// Tests reach through it to simulate lost artifacts.
type TestVault struct {
	*vault.MemoryVault

	mu      sync.Mutex
	failPut error
}

// NewTestVault creates an empty TestVault.
func NewTestVault() *TestVault {
	return &TestVault{MemoryVault: vault.NewMemoryVault("test-vault")}
}

// FailPuts makes PutThumbnail and CommitOriginal return err. nil restores
// normal writes.
func (v *TestVault) FailPuts(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.failPut = err
}

func (v *TestVault) putErr() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.failPut
}

func (v *TestVault) PutThumbnail(ctx context.Context, mediaID int64, r io.Reader, size int64) error {
	if err := v.putErr(); err != nil {
		return err
	}
	return v.MemoryVault.PutThumbnail(ctx, mediaID, r, size)
}

func (v *TestVault) CommitOriginal(ctx context.Context, mediaID int64, ext string, upload aperture.StagedUpload) error {
	if err := v.putErr(); err != nil {
		return err
	}
	return v.MemoryVault.CommitOriginal(ctx, mediaID, ext, upload)
}

var _ aperture.Vault = (*TestVault)(nil)
