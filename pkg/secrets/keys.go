package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// IVSize is the CBC block and IV length in bytes.
	IVSize = 16

	saltInfo = "storefront-field-codec-v1"
)

// deriveKey stretches a secret of any length to KeySize bytes with
// HKDF-SHA256. The codec keeps the key for its lifetime.
func deriveKey(secret []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(saltInfo)), key); err != nil {
		return nil, ErrKeyDerivationFailed
	}
	return key, nil
}

// GenerateSecret returns KeySize random bytes hex encoded, the format
// `storefront keygen` prints for SECRETS_KEY.
func GenerateSecret() (string, error) {
	var key [KeySize]byte
	if _, err := rand.Read(key[:]); err != nil {
		return "", err
	}
	defer clear(key[:])
	return hex.EncodeToString(key[:]), nil
}
