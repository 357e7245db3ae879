package secrets

import "errors"

var (
	// Key errors
	ErrEmptySecret         = errors.New("secrets: encryption secret must not be empty")
	ErrKeyDerivationFailed = errors.New("secrets: key derivation failed")

	// Encryption/decryption errors
	ErrEncryptionFailed  = errors.New("secrets: encryption failed")
	ErrDecryptionFailed  = errors.New("secrets: decryption failed")
	ErrInvalidCiphertext = errors.New("secrets: invalid ciphertext format")
	ErrInvalidIV         = errors.New("secrets: invalid initialization vector")
	ErrInvalidPadding    = errors.New("secrets: invalid padding")
)
