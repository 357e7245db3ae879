package file

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Kind tags an uploaded asset.
type Kind string

const (
	KindVideo     Kind = "video"
	KindThumbnail Kind = "thumbnail"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindVideo || k == KindThumbnail
}

// Bucket returns the logical bucket that stores assets of this kind.
func (k Kind) Bucket() string {
	if k == KindThumbnail {
		return ThumbnailsBucket
	}
	return VideosBucket
}

// Logical bucket ids.
const (
	VideosBucket     = "videos_bucket"
	ThumbnailsBucket = "thumbnails_bucket"
)

const (
	suffixLen      = 6
	suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	nameSegments   = 3 // kind, timestamp, suffix

	// MaxStemBytes and MaxExtBytes bound what gets encrypted so an escaped
	// name stays well under the 255-byte file name limit of local disks.
	MaxStemBytes = 48
	MaxExtBytes  = 16
)

// FieldCodec encrypts and decrypts single text values in "ciphertext:iv" form.
// *secrets.Codec satisfies it.
type FieldCodec interface {
	EncryptField(value string) (string, error)
	DecryptField(value string) string
}

// Obfuscator builds storage names of the form
//
//	{kind}_{unixMillis}_{suffix}_{ciphertext:iv}.{ext}
//
// The original name is encrypted; the extension stays in cleartext so
// MIME type inference keeps working.
type Obfuscator struct {
	codec FieldCodec
	now   func() time.Time
}

// ObfuscatorOption configures an Obfuscator.
type ObfuscatorOption func(*Obfuscator)

// WithNameClock overrides the clock used for the timestamp segment.
func WithNameClock(now func() time.Time) ObfuscatorOption {
	return func(o *Obfuscator) {
		if now != nil {
			o.now = now
		}
	}
}

// NewObfuscator creates a filename obfuscator backed by codec.
func NewObfuscator(codec FieldCodec, opts ...ObfuscatorOption) (*Obfuscator, error) {
	if codec == nil {
		return nil, ErrNoCodec
	}
	o := &Obfuscator{codec: codec, now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Build returns a fresh obfuscated name for originalName. Two calls with the
// same input never return the same name. Long names are cut to MaxStemBytes
// before the extension, so ExtractOriginal returns the shortened form.
func (o *Obfuscator) Build(originalName string, kind Kind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	if strings.TrimSpace(originalName) == "" {
		return "", ErrEmptyFilename
	}
	stem, ext := shorten(norm.NFC.String(SanitizeFilename(originalName)))
	original := stem
	if ext != "" {
		original += "." + ext
	}

	suffix, err := randomSuffix(suffixLen)
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateName, err)
	}

	encrypted, err := o.codec.EncryptField(original)
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateName, err)
	}

	name := fmt.Sprintf("%s_%d_%s_%s", kind, o.now().UnixMilli(), suffix, encrypted)
	if ext != "" {
		name += "." + ext
	}
	return name, nil
}

// ExtractOriginal recovers the original name from an obfuscated name.
// Names that do not follow the layout, or whose payload does not decrypt,
// are returned unchanged.
func (o *Obfuscator) ExtractOriginal(filename string) string {
	parts, ok := splitObfuscated(filename)
	if !ok {
		return filename
	}

	payload := strings.Join(parts[nameSegments:], "_")
	if ext := extension(payload); ext != "" {
		payload = strings.TrimSuffix(payload, "."+ext)
	}

	plain := o.codec.DecryptField(payload)
	if plain == payload {
		return filename
	}
	return plain
}

// IsObfuscated reports whether filename follows the obfuscated layout.
// The payload is not decrypted.
func IsObfuscated(filename string) bool {
	parts, ok := splitObfuscated(filename)
	if !ok {
		return false
	}
	if !Kind(parts[0]).Valid() {
		return false
	}
	if _, err := strconv.ParseInt(parts[1], 10, 64); err != nil {
		return false
	}
	return len(parts[2]) == suffixLen
}

// KindFromFilename returns the kind prefix of an obfuscated name.
func KindFromFilename(filename string) (Kind, bool) {
	prefix, _, ok := strings.Cut(filename, "_")
	if !ok || !Kind(prefix).Valid() {
		return "", false
	}
	return Kind(prefix), true
}

func splitObfuscated(filename string) ([]string, bool) {
	parts := strings.Split(filename, "_")
	if len(parts) < nameSegments+1 {
		return nil, false
	}
	return parts, true
}

// shorten cuts the stem to MaxStemBytes and drops an extension longer than
// MaxExtBytes, never splitting a rune.
func shorten(name string) (stem, ext string) {
	stem, ext = name, extension(name)
	switch {
	case len(ext) > MaxExtBytes:
		ext = ""
	case ext != "":
		stem = strings.TrimSuffix(name, "."+ext)
	}
	return truncateRunes(stem, MaxStemBytes), ext
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// extension returns the text after the last dot, without the dot.
func extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return name[idx+1:]
}

func randomSuffix(n int) (string, error) {
	max := big.NewInt(int64(len(suffixAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = suffixAlphabet[idx.Int64()]
	}
	return string(b), nil
}
