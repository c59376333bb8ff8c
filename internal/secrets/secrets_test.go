package secrets

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c, err := NewCipher("unit-test-secret")
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	for _, plain := range []string{"", "sk-ant-abc123", "long " + strings.Repeat("x", 4096), "uniçødé"} {
		blob, err := c.EncryptString(plain)
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}
		if strings.Count(blob, ":") != 2 {
			t.Fatalf("expected iv:tag:ct format, got %q", blob)
		}
		got, err := c.DecryptString(blob)
		if err != nil {
			t.Fatalf("decrypt: %v", err)
		}
		if got != plain {
			t.Fatalf("round trip mismatch: got %q want %q", got, plain)
		}
	}
}

func TestDecryptTamperedBlobFails(t *testing.T) {
	c, _ := NewCipher("unit-test-secret")
	blob, err := c.EncryptString("sk-proj-secret-value")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	parts := strings.Split(blob, ":")
	ct, _ := base64.StdEncoding.DecodeString(parts[2])
	ct[0] ^= 0x01
	parts[2] = base64.StdEncoding.EncodeToString(ct)

	_, err = c.DecryptString(strings.Join(parts, ":"))
	if !errors.Is(err, ErrMalformedBlob) {
		t.Fatalf("expected ErrMalformedBlob for tampered ciphertext, got %v", err)
	}
}

func TestDecryptMalformedBlob(t *testing.T) {
	c, _ := NewCipher("unit-test-secret")
	for _, blob := range []string{"", "abc", "a:b", "!!:!!:!!", "a:b:c:d"} {
		if _, err := c.DecryptString(blob); !errors.Is(err, ErrMalformedBlob) {
			t.Fatalf("blob %q: expected ErrMalformedBlob, got %v", blob, err)
		}
	}
}

func TestNewCipherRequiresSecret(t *testing.T) {
	if _, err := NewCipher("  "); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}

func TestDifferentKeysDoNotDecrypt(t *testing.T) {
	a, _ := NewCipher("secret-a")
	b, _ := NewCipher("secret-b")
	blob, _ := a.EncryptString("credential")
	if _, err := b.DecryptString(blob); err == nil {
		t.Fatal("expected decryption under wrong key to fail")
	}
}

func TestLast4(t *testing.T) {
	if got := Last4("sk-ant-1234"); got != "1234" {
		t.Fatalf("Last4 = %q", got)
	}
	if got := Last4("ab"); got != "ab" {
		t.Fatalf("Last4 short = %q", got)
	}
}
