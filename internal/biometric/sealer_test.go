package biometric

import (
	"errors"
	"testing"
)

func testVector(n int) Vector {
	v := make(Vector, n)
	for i := range v {
		v[i] = float64(i) / 128
	}
	return v
}

func TestSealProducesNonEmptyFields(t *testing.T) {
	s, err := NewSealer("portal-secret")
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	env, err := s.Seal(testVector(VectorLen))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if env.Ciphertext == "" || env.IV == "" || env.AuthTag == "" {
		t.Fatalf("envelope has empty fields: %+v", env)
	}
}

func TestSealRejectsWrongLength(t *testing.T) {
	s, err := NewSealer("portal-secret")
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	_, err = s.Seal(testVector(127))
	if !errors.Is(err, ErrVectorLength) {
		t.Fatalf("expected ErrVectorLength, got %v", err)
	}
}

func TestSealUsesFreshNonce(t *testing.T) {
	s, err := NewSealer("portal-secret")
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	v := testVector(VectorLen)
	a, err := s.Seal(v)
	if err != nil {
		t.Fatalf("first Seal: %v", err)
	}
	b, err := s.Seal(v)
	if err != nil {
		t.Fatalf("second Seal: %v", err)
	}
	if a.IV == b.IV {
		t.Fatalf("nonce repeated across calls: %q", a.IV)
	}
	if a.Ciphertext == b.Ciphertext {
		t.Fatalf("ciphertext repeated for same plaintext under fresh nonce")
	}
}

func TestNewSealerRejectsEmptySecret(t *testing.T) {
	if _, err := NewSealer(""); !errors.Is(err, ErrCrypto) {
		t.Fatalf("expected ErrCrypto, got %v", err)
	}
}

// Long secrets truncate to the AES-256 key length instead of failing.
func TestNewSealerTruncatesLongSecret(t *testing.T) {
	long := make([]byte, 64)
	for i := range long {
		long[i] = byte('a' + i%26)
	}
	if _, err := NewSealer(string(long)); err != nil {
		t.Fatalf("NewSealer with 64-byte secret: %v", err)
	}
}
