package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"strings"
)

// sealedPrefix marks values produced by an AESSealer so plaintext values
// written before a key was configured can still be read.
const sealedPrefix = "gcm:"

// Sealer protects store credentials at rest.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(stored string) (string, error)
}

// LoadKeyFromBase64 decodes a 32-byte AES-256 key.
func LoadKeyFromBase64(b64 string) ([]byte, error) {
	k, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	if len(k) != 32 {
		return nil, errors.New("TOKEN_ENC_KEY_B64 must decode to 32 bytes")
	}
	return k, nil
}

// NewSealer returns an AES-GCM sealer when keyB64 is set and a pass-through
// sealer otherwise.
func NewSealer(keyB64 string) (Sealer, error) {
	if strings.TrimSpace(keyB64) == "" {
		return PlainSealer{}, nil
	}
	key, err := LoadKeyFromBase64(keyB64)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESSealer{gcm: gcm}, nil
}

// PlainSealer stores credentials as given.
type PlainSealer struct{}

func (PlainSealer) Seal(plaintext string) (string, error) { return plaintext, nil }
func (PlainSealer) Open(stored string) (string, error)    { return stored, nil }

// AESSealer stores credentials as "gcm:" + base64url(nonce|ciphertext).
type AESSealer struct {
	gcm cipher.AEAD
}

func (s *AESSealer) Seal(plaintext string) (string, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	ct := s.gcm.Seal(nil, nonce, []byte(plaintext), nil)
	out := append(nonce, ct...)
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(out), nil
}

func (s *AESSealer) Open(stored string) (string, error) {
	if !strings.HasPrefix(stored, sealedPrefix) {
		return stored, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(stored, sealedPrefix))
	if err != nil {
		return "", err
	}
	ns := s.gcm.NonceSize()
	if len(raw) < ns {
		return "", errors.New("ciphertext too short")
	}
	pt, err := s.gcm.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}
