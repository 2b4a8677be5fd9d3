package vault

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"

	"aperturama/internal/aperture"
)

// UnlockFunc produces the decryption context for an encrypted vault. It is
// called at most once, on the first read.
type UnlockFunc func() (aperture.DecryptionContext, error)

// EncryptedVault seals every artifact before handing it to the inner vault
// and opens it again on read. Writes need only the public key; the first
// read unlocks the private key through unlock.
type EncryptedVault struct {
	inner     aperture.Vault
	encryptor aperture.Encryptor
	tmpDir    string

	unlock UnlockFunc
	mu     sync.Mutex
	dec    aperture.DecryptionContext
}

// NewEncryptedVault wraps inner. Sealed originals are spooled in tmpDir
// before being committed; an empty tmpDir means os.TempDir.
func NewEncryptedVault(inner aperture.Vault, encryptor aperture.Encryptor, unlock UnlockFunc, tmpDir string) *EncryptedVault {
	return &EncryptedVault{
		inner:     inner,
		encryptor: encryptor,
		unlock:    unlock,
		tmpDir:    tmpDir,
	}
}

func (v *EncryptedVault) PutThumbnail(ctx context.Context, mediaID int64, r io.Reader, size int64) error {
	var sealed bytes.Buffer
	if err := v.encryptor.Encrypt(io.LimitReader(r, size), &sealed); err != nil {
		return fmt.Errorf("failed to encrypt thumbnail: %w", err)
	}
	return v.inner.PutThumbnail(ctx, mediaID, &sealed, int64(sealed.Len()))
}

func (v *EncryptedVault) CommitOriginal(ctx context.Context, mediaID int64, ext string, upload aperture.StagedUpload) error {
	sealed, err := v.seal(upload)
	if err != nil {
		return err
	}
	defer os.Remove(sealed.path)

	return v.inner.CommitOriginal(ctx, mediaID, ext, sealed)
}

// seal encrypts a staged upload into a temp file.
func (v *EncryptedVault) seal(upload aperture.StagedUpload) (*sealedUpload, error) {
	src, err := upload.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open staged upload: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(v.tmpDir, ".sealed-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	hasher := sha256.New()
	counter := &countingWriter{}
	if err := v.encryptor.Encrypt(src, io.MultiWriter(tmp, hasher, counter)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to encrypt original: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	return &sealedUpload{
		key:      upload.Key(),
		checksum: hex.EncodeToString(hasher.Sum(nil)),
		size:     counter.n,
		path:     tmp.Name(),
	}, nil
}

func (v *EncryptedVault) decryption() (aperture.DecryptionContext, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.dec != nil {
		return v.dec, nil
	}
	if v.unlock == nil {
		return nil, fmt.Errorf("encrypted vault is write-only")
	}
	dec, err := v.unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to unlock vault: %w", err)
	}
	v.dec = dec
	return dec, nil
}

// open decrypts rc on the fly. Decryption errors surface from Read.
func (v *EncryptedVault) open(rc io.ReadCloser, err error) (io.ReadCloser, error) {
	if err != nil {
		return nil, err
	}
	dec, err := v.decryption()
	if err != nil {
		rc.Close()
		return nil, err
	}

	pr, pw := io.Pipe()
	go func() {
		defer rc.Close()
		pw.CloseWithError(dec.Decrypt(rc, pw))
	}()
	return pr, nil
}

func (v *EncryptedVault) OpenOriginal(ctx context.Context, mediaID int64, ext string) (io.ReadCloser, error) {
	return v.open(v.inner.OpenOriginal(ctx, mediaID, ext))
}

func (v *EncryptedVault) OpenThumbnail(ctx context.Context, mediaID int64) (io.ReadCloser, error) {
	return v.open(v.inner.OpenThumbnail(ctx, mediaID))
}

func (v *EncryptedVault) HasOriginal(ctx context.Context, mediaID int64, ext string) (bool, error) {
	return v.inner.HasOriginal(ctx, mediaID, ext)
}

func (v *EncryptedVault) HasThumbnail(ctx context.Context, mediaID int64) (bool, error) {
	return v.inner.HasThumbnail(ctx, mediaID)
}

func (v *EncryptedVault) DeleteMedia(ctx context.Context, mediaID int64, ext string) error {
	return v.inner.DeleteMedia(ctx, mediaID, ext)
}

func (v *EncryptedVault) ValidateSetup(ctx context.Context) error {
	if !v.encryptor.IsConfigured() {
		return fmt.Errorf("encryption keys not configured; run 'aperturama config keys init'")
	}
	return v.inner.ValidateSetup(ctx)
}

// sealedUpload is the encrypted copy of a staged upload.
type sealedUpload struct {
	key      string
	checksum string
	size     int64
	path     string
}

func (s *sealedUpload) Key() string                  { return s.key }
func (s *sealedUpload) Checksum() string             { return s.checksum }
func (s *sealedUpload) Size() int64                  { return s.size }
func (s *sealedUpload) Open() (io.ReadCloser, error) { return os.Open(s.path) }
func (s *sealedUpload) LocalPath() string            { return s.path }

type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

var _ aperture.Vault = (*EncryptedVault)(nil)
