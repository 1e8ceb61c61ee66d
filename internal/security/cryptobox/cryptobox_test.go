package cryptobox

import (
	"errors"
	"strings"
	"testing"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newBox(t *testing.T) *Box {
	t.Helper()
	b, err := New(testKey)
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	return b
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	b := newBox(t)

	for _, msg := range []string{
		"sk-proj-abcdef123456",
		"",
		"hola mundo ✓ — ñandú 日本語",
		strings.Repeat("x", 4096),
	} {
		ct, iv, tag, err := b.Encrypt(msg)
		if err != nil {
			t.Fatalf("Encrypt(%q) err: %v", msg, err)
		}
		if len(iv) != 32 {
			t.Fatalf("iv hex len = %d, want 32", len(iv))
		}
		if len(tag) != 32 {
			t.Fatalf("tag hex len = %d, want 32", len(tag))
		}
		pt, err := b.Decrypt(ct, iv, tag)
		if err != nil {
			t.Fatalf("Decrypt err: %v", err)
		}
		if pt != msg {
			t.Fatalf("plaintext mismatch: got %q want %q", pt, msg)
		}
	}
}

func TestEncrypt_FreshIVPerCall(t *testing.T) {
	b := newBox(t)

	_, iv1, _, err := b.Encrypt("same input")
	if err != nil {
		t.Fatal(err)
	}
	_, iv2, _, err := b.Encrypt("same input")
	if err != nil {
		t.Fatal(err)
	}
	if iv1 == iv2 {
		t.Fatal("IV repetido entre llamadas")
	}
}

func flipHexByte(t *testing.T, s string) string {
	t.Helper()
	if s == "" {
		t.Fatal("hex vacío")
	}
	c := byte('0')
	if s[0] == '0' {
		c = '1'
	}
	return string(c) + s[1:]
}

func TestDecrypt_DetectsTamper(t *testing.T) {
	b := newBox(t)

	ct, iv, tag, err := b.Encrypt("top secret")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := b.Decrypt(flipHexByte(t, ct), iv, tag); !errors.Is(err, ErrDecryption) {
		t.Fatalf("ciphertext alterado: err = %v, want ErrDecryption", err)
	}
	if _, err := b.Decrypt(ct, iv, flipHexByte(t, tag)); !errors.Is(err, ErrDecryption) {
		t.Fatalf("tag alterado: err = %v, want ErrDecryption", err)
	}
	if _, err := b.Decrypt(ct, flipHexByte(t, iv), tag); !errors.Is(err, ErrDecryption) {
		t.Fatalf("iv alterado: err = %v, want ErrDecryption", err)
	}
	if _, err := b.Decrypt(ct, iv, "zz"); !errors.Is(err, ErrDecryption) {
		t.Fatalf("tag no-hex: err = %v, want ErrDecryption", err)
	}
}

func TestNew_RejectsBadKeys(t *testing.T) {
	for _, key := range []string{
		"",
		"abcd",
		strings.Repeat("0", 63),
		strings.Repeat("0", 65),
		strings.Repeat("z", 64), // largo correcto, no-hex
	} {
		if _, err := New(key); err == nil {
			t.Fatalf("New(%q) aceptó clave inválida", key)
		}
	}
}

func TestHash_KnownVector(t *testing.T) {
	// sha256("") estándar
	const want = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Hash(""); got != want {
		t.Fatalf("Hash(\"\") = %s, want %s", got, want)
	}
}

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(32)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 64 {
		t.Fatalf("len = %d, want 64", len(a))
	}
	b, err := RandomHex(32)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("RandomHex repetido")
	}
}
