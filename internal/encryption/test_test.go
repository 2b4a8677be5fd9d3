package encryption

import (
	"bytes"
	"errors"
	"testing"
)

func TestTestEncryptor_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "text", input: []byte("hello world")},
		{name: "empty", input: []byte{}},
		{name: "binary", input: []byte{0x00, 0x5a, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewTestEncryptor()

			var sealed bytes.Buffer
			if err := e.Encrypt(bytes.NewReader(tt.input), &sealed); err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if !bytes.HasPrefix(sealed.Bytes(), testMagic) {
				t.Error("ciphertext lacks magic prefix")
			}
			if len(tt.input) > 0 && bytes.Contains(sealed.Bytes(), tt.input) {
				t.Error("ciphertext contains plaintext")
			}

			dec, err := e.Unlock("")
			if err != nil {
				t.Fatalf("Unlock() error = %v", err)
			}
			var plain bytes.Buffer
			if err := dec.Decrypt(&sealed, &plain); err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(plain.Bytes(), tt.input) {
				t.Errorf("round trip = %x, want %x", plain.Bytes(), tt.input)
			}
		})
	}
}

func TestTestEncryptor_Unlock(t *testing.T) {
	t.Parallel()

	e := NewTestEncryptor()
	if err := e.Setup("secret"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if _, err := e.Unlock("guess"); !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("Unlock() error = %v, want ErrWrongPassphrase", err)
	}
	if _, err := e.Unlock("secret"); err != nil {
		t.Errorf("Unlock() with correct passphrase error = %v", err)
	}
}

func TestTestDecryptionContext_RejectsPlaintext(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := testDecryptionContext{}.Decrypt(bytes.NewReader([]byte("plain old bytes")), &out)
	if err == nil {
		t.Error("Decrypt() of unsealed data should fail")
	}
}
