package secrets

import (
	"bytes"
	"crypto/aes"
	"crypto/md5"
	"unicode/utf8"
)

// Payloads written by passphrase-based encryption (OpenSSL enc, CryptoJS)
// carry an 8-byte magic header followed by an 8-byte salt. Key and IV are
// derived from the passphrase and salt with EVP_BytesToKey over MD5.
var saltedMagic = []byte("Salted__")

const saltSize = 8

func isSalted(raw []byte) bool {
	return len(raw) >= len(saltedMagic)+saltSize+aes.BlockSize && bytes.HasPrefix(raw, saltedMagic)
}

func decryptSalted(passphrase, raw []byte) (string, error) {
	salt := raw[len(saltedMagic) : len(saltedMagic)+saltSize]
	body := raw[len(saltedMagic)+saltSize:]
	if len(body)%aes.BlockSize != 0 {
		return "", ErrInvalidCiphertext
	}

	key, iv := evpBytesToKey(passphrase, salt, KeySize, IVSize)
	defer clear(key)

	plain, err := decryptCBC(key, iv, body)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	if !utf8.Valid(plain) {
		return "", ErrDecryptionFailed
	}
	return string(plain), nil
}

func evpBytesToKey(passphrase, salt []byte, keyLen, ivLen int) ([]byte, []byte) {
	var (
		derived []byte
		prev    []byte
	)
	for len(derived) < keyLen+ivLen {
		h := md5.New()
		h.Write(prev)
		h.Write(passphrase)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	return derived[:keyLen], derived[keyLen : keyLen+ivLen]
}
