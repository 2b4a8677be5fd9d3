package testutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// SHA256Hex returns the SHA-256 checksum of data as a lowercase hex string,
// the format of media content hashes.
func SHA256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}
