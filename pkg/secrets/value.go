package secrets

import (
	"crypto/aes"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

const separator = ":"

// Kind tells whether a stored Value holds plaintext or ciphertext.
type Kind uint8

const (
	KindPlain Kind = iota
	KindEncrypted
)

func (k Kind) String() string {
	if k == KindEncrypted {
		return "encrypted"
	}
	return "plain"
}

// Value is a field value tagged with its representation.
// The zero value is an empty plaintext.
type Value struct {
	kind       Kind
	plain      string
	ciphertext string
	iv         string
}

// Plain wraps a plaintext value.
func Plain(s string) Value {
	return Value{kind: KindPlain, plain: s}
}

// Encrypted wraps a ciphertext and its IV.
func Encrypted(ciphertext, iv string) Value {
	return Value{kind: KindEncrypted, ciphertext: ciphertext, iv: iv}
}

// Kind returns the value representation.
func (v Value) Kind() Kind { return v.kind }

// IsEncrypted reports whether the value holds ciphertext.
func (v Value) IsEncrypted() bool { return v.kind == KindEncrypted }

// Parts returns ciphertext and IV for encrypted values.
func (v Value) Parts() (ciphertext, iv string, ok bool) {
	return v.ciphertext, v.iv, v.kind == KindEncrypted
}

// String returns the storage form: the plaintext itself, or "ciphertext:iv".
func (v Value) String() string {
	if v.kind == KindEncrypted {
		return v.ciphertext + separator + v.iv
	}
	return v.plain
}

// MarshalText implements encoding.TextMarshaler.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseStored.
func (v *Value) UnmarshalText(text []byte) error {
	*v = ParseStored(string(text))
	return nil
}

// ParseStored classifies a value read from storage. It is used for data
// written before values were tagged at write time. A value is treated as
// encrypted only when it has exactly one separator, a 32-char hex IV and a
// base64 body whose decoded length is a whole number of cipher blocks.
// Classification is advisory: Codec.Open falls back to the raw text when
// decryption fails.
func ParseStored(s string) Value {
	if strings.Count(s, separator) != 1 {
		return Plain(s)
	}
	ct, iv, _ := strings.Cut(s, separator)
	if !looksLikeIV(iv) || !looksLikeCiphertext(ct) {
		return Plain(s)
	}
	return Encrypted(ct, iv)
}

// IsEncrypted reports whether s has the structure of an encrypted field.
// It is a heuristic and does not prove the value decrypts.
func IsEncrypted(s string) bool {
	return ParseStored(s).IsEncrypted()
}

// Seal encrypts s into a tagged value. Blank input yields a plain value.
func (c *Codec) Seal(s string) (Value, error) {
	if strings.TrimSpace(s) == "" {
		return Plain(s), nil
	}
	ct, iv, err := c.Encrypt(s)
	if err != nil {
		return Value{}, err
	}
	return Encrypted(ct, iv), nil
}

// Open returns the plaintext of v. Values that fail to decrypt are returned
// in their storage form.
func (c *Codec) Open(v Value) string {
	if v.kind != KindEncrypted {
		return v.plain
	}
	plain, err := c.Decrypt(v.ciphertext, v.iv)
	if err != nil {
		return v.String()
	}
	return plain
}

func looksLikeIV(s string) bool {
	if len(s) != IVSize*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func looksLikeCiphertext(s string) bool {
	if s == "" {
		return false
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return false
	}
	return len(raw) > 0 && len(raw)%aes.BlockSize == 0
}
