package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
)

// DefaultTokenLength is the entropy of generated tokens in bytes. 32 bytes
// (256 bits) makes collisions negligible for any realistic session volume.
const DefaultTokenLength = 32

// GenerateToken returns a hex-encoded token with byteLength bytes of entropy
// from crypto/rand. The output is 2*byteLength characters long. A
// non-positive byteLength falls back to DefaultTokenLength.
func GenerateToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		byteLength = DefaultTokenLength
	}
	b := make([]byte, byteLength)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return hex.EncodeToString(b), nil
}
