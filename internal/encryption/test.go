package encryption

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"aperturama/internal/aperture"
)

var testMagic = []byte("APERENC1")

// TestEncryptor frames data with a fixed magic prefix and XORs each byte
// with 0x5a. Output is deterministic and differs from the input, which is
// enough for exercising the encrypting vault without key material.
type TestEncryptor struct {
	mu         sync.Mutex
	passphrase string
}

var _ aperture.Encryptor = (*TestEncryptor)(nil)

func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

// Setup records the passphrase; Unlock rejects any other once set.
func (e *TestEncryptor) Setup(passphrase string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.passphrase = passphrase
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testMagic); err != nil {
		return fmt.Errorf("writing magic: %w", err)
	}
	if _, err := io.Copy(w, xorReader{r}); err != nil {
		return fmt.Errorf("encrypting data: %w", err)
	}
	return nil
}

func (e *TestEncryptor) Unlock(passphrase string) (aperture.DecryptionContext, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.passphrase != "" && passphrase != e.passphrase {
		return nil, ErrWrongPassphrase
	}
	return testDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool {
	return true
}

type testDecryptionContext struct{}

func (testDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	magic := make([]byte, len(testMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return fmt.Errorf("reading magic: %w", err)
	}
	if !bytes.Equal(magic, testMagic) {
		return fmt.Errorf("not test-encrypted data")
	}
	if _, err := io.Copy(w, xorReader{r}); err != nil {
		return fmt.Errorf("decrypting data: %w", err)
	}
	return nil
}

type xorReader struct {
	r io.Reader
}

func (x xorReader) Read(p []byte) (int, error) {
	n, err := x.r.Read(p)
	for i := range p[:n] {
		p[i] ^= 0x5a
	}
	return n, err
}
