// Package secrets provides the symmetric encryption primitives used for
// stored provider credentials. Blobs are AES-256-GCM, serialized as three
// colon-joined base64 segments: iv:tag:ciphertext.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedBlob is returned when an encrypted payload does not match the
// iv:tag:ciphertext format or fails authentication.
var ErrMalformedBlob = errors.New("malformed encrypted blob")

// ErrNoSecret is returned when no encryption secret is configured.
var ErrNoSecret = errors.New("encryption secret is not configured")

const gcmTagSize = 16

// Cipher encrypts and decrypts credential blobs with a key derived from a
// configured secret.
type Cipher struct {
	key []byte
}

// NewCipher derives a 32-byte AES key from the given secret (SHA-256).
func NewCipher(secret string) (*Cipher, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrNoSecret
	}
	sum := sha256.Sum256([]byte(secret))
	return &Cipher{key: sum[:]}, nil
}

// EncryptString encrypts plaintext and returns the iv:tag:ciphertext blob.
func (c *Cipher) EncryptString(plain string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	iv := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}
	sealed := gcm.Seal(nil, iv, []byte(plain), nil)
	// gcm.Seal appends the auth tag to the ciphertext; split it back out so
	// the stored format carries the tag as its own segment.
	ct := sealed[:len(sealed)-gcmTagSize]
	tag := sealed[len(sealed)-gcmTagSize:]
	return strings.Join([]string{
		base64.StdEncoding.EncodeToString(iv),
		base64.StdEncoding.EncodeToString(tag),
		base64.StdEncoding.EncodeToString(ct),
	}, ":"), nil
}

// DecryptString decrypts an iv:tag:ciphertext blob. A tampered or malformed
// blob returns ErrMalformedBlob, never a wrong plaintext.
func (c *Cipher) DecryptString(blob string) (string, error) {
	parts := strings.Split(blob, ":")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedBlob, len(parts))
	}
	iv, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("%w: bad iv: %v", ErrMalformedBlob, err)
	}
	tag, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: bad tag: %v", ErrMalformedBlob, err)
	}
	ct, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("%w: bad ciphertext: %v", ErrMalformedBlob, err)
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(iv) != gcm.NonceSize() || len(tag) != gcmTagSize {
		return "", fmt.Errorf("%w: bad segment length", ErrMalformedBlob)
	}
	plain, err := gcm.Open(nil, iv, append(ct, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedBlob, err)
	}
	return string(plain), nil
}

// Last4 returns the trailing four characters of a credential for display.
func Last4(s string) string {
	if len(s) <= 4 {
		return s
	}
	return s[len(s)-4:]
}
