package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"io"
	"strings"
	"unicode/utf8"
)

// Codec encrypts short text values with AES-256-CBC and PKCS7 padding.
// It is safe for concurrent use.
type Codec struct {
	key      []byte
	previous [][]byte
	legacy   []byte
}

// Option configures a Codec.
type Option func(*codecOptions)

type codecOptions struct {
	previous []string
	legacy   string
}

// WithPreviousSecrets registers secrets that are only used to decrypt values
// written before a key rotation.
func WithPreviousSecrets(secrets ...string) Option {
	return func(o *codecOptions) {
		for _, s := range secrets {
			if s = strings.TrimSpace(s); s != "" {
				o.previous = append(o.previous, s)
			}
		}
	}
}

// WithLegacyPassphrase enables decryption of OpenSSL salted payloads.
func WithLegacyPassphrase(passphrase string) Option {
	return func(o *codecOptions) {
		o.legacy = passphrase
	}
}

// New creates a codec keyed from secret.
func New(secret string, opts ...Option) (*Codec, error) {
	o := &codecOptions{}
	for _, opt := range opts {
		opt(o)
	}

	key, err := deriveKey([]byte(secret))
	if err != nil {
		return nil, err
	}

	c := &Codec{key: key}
	for _, s := range o.previous {
		k, err := deriveKey([]byte(s))
		if err != nil {
			return nil, err
		}
		c.previous = append(c.previous, k)
	}
	if o.legacy != "" {
		c.legacy = []byte(o.legacy)
	}

	return c, nil
}

// NewFromConfig creates a codec from Config.
func NewFromConfig(cfg Config) (*Codec, error) {
	return New(cfg.Secret,
		WithPreviousSecrets(cfg.PreviousSecrets...),
		WithLegacyPassphrase(cfg.LegacyPassphrase),
	)
}

// Encrypt encrypts plaintext with a fresh random IV.
// It returns the base64 ciphertext and the hex-encoded IV.
func (c *Codec) Encrypt(plaintext string) (ciphertext, iv string, err error) {
	ivBytes := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, ivBytes); err != nil {
		return "", "", ErrEncryptionFailed
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", "", ErrEncryptionFailed
	}

	data := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(data))
	cipher.NewCBCEncrypter(block, ivBytes).CryptBlocks(out, data)

	return base64.StdEncoding.EncodeToString(out), hex.EncodeToString(ivBytes), nil
}

// Decrypt reverses Encrypt. Keys registered with WithPreviousSecrets are
// tried after the primary key; salted legacy payloads are handled when a
// legacy passphrase is configured.
func (c *Codec) Decrypt(ciphertext, iv string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrInvalidCiphertext
	}

	if isSalted(raw) {
		if c.legacy == nil {
			return "", ErrDecryptionFailed
		}
		return decryptSalted(c.legacy, raw)
	}

	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", ErrInvalidCiphertext
	}

	ivBytes, err := hex.DecodeString(iv)
	if err != nil || len(ivBytes) != IVSize {
		return "", ErrInvalidIV
	}

	for _, key := range c.keys() {
		plain, err := decryptCBC(key, ivBytes, raw)
		if err != nil || !utf8.Valid(plain) {
			continue
		}
		return string(plain), nil
	}

	// padding and key failures look alike to callers
	return "", ErrDecryptionFailed
}

// EncryptField encrypts a field value into "ciphertext:iv" form.
// Blank values are returned unchanged.
func (c *Codec) EncryptField(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return value, nil
	}

	ct, iv, err := c.Encrypt(value)
	if err != nil {
		return "", err
	}
	return ct + separator + iv, nil
}

// DecryptField decrypts a value stored in "ciphertext:iv" form.
// Blank values, plaintext and anything that fails to decrypt are returned
// unchanged because encrypted and plaintext values coexist in storage.
func (c *Codec) DecryptField(value string) string {
	if strings.TrimSpace(value) == "" {
		return value
	}

	ct, iv, ok := strings.Cut(value, separator)
	if !ok || ct == "" || iv == "" || strings.Contains(iv, separator) {
		return value
	}

	plain, err := c.Decrypt(ct, iv)
	if err != nil {
		return value
	}
	return plain
}

func (c *Codec) keys() [][]byte {
	keys := make([][]byte, 0, 1+len(c.previous))
	keys = append(keys, c.key)
	return append(keys, c.previous...)
}

func decryptCBC(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)

	return pkcs7Unpad(out, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}
