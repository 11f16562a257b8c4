package biometric

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const keyLen = 32 // AES-256

var ErrCrypto = errors.New("biometric: crypto failure")

// Envelope is the transport form of a sealed vector. The server is the
// only verifier; the client never decrypts. Altering any field makes
// the envelope fail authentication server-side.
type Envelope struct {
	Ciphertext string `json:"ciphertext"` // base64
	IV         string `json:"iv"`         // base64, 12-byte GCM nonce
	AuthTag    string `json:"auth_tag"`   // base64, 16-byte GCM tag
}

// Sealer authenticated-encrypts vectors with AES-256-GCM.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives the AES key from the configured secret by padding
// with zero bytes or truncating to 32 bytes. Deliberately not a KDF:
// the secret is machine-provisioned, and the deterministic derivation
// keeps client and server in lockstep without a shared salt.
func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: empty secret", ErrCrypto)
	}
	key := make([]byte, keyLen)
	copy(key, secret)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: new cipher: %v", ErrCrypto, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: new gcm: %v", ErrCrypto, err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts the JSON serialization of a 128-length vector under a
// fresh random nonce. Nonces must never repeat for a given key, so the
// process must have a working random source.
func (s *Sealer) Seal(v Vector) (Envelope, error) {
	if err := v.Validate(); err != nil {
		return Envelope{}, err
	}

	plaintext, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: marshal vector: %v", ErrCrypto, err)
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return Envelope{}, fmt.Errorf("%w: read nonce: %v", ErrCrypto, err)
	}

	sealed := s.aead.Seal(nil, nonce, plaintext, nil)
	// GCM appends the tag to the ciphertext; the wire format carries
	// them as separate fields.
	tagStart := len(sealed) - s.aead.Overhead()
	return Envelope{
		Ciphertext: base64.StdEncoding.EncodeToString(sealed[:tagStart]),
		IV:         base64.StdEncoding.EncodeToString(nonce),
		AuthTag:    base64.StdEncoding.EncodeToString(sealed[tagStart:]),
	}, nil
}
