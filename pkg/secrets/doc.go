// Package secrets provides the reversible field codec used to obfuscate
// stored values and uploaded file names.
//
// A configured secret is turned into a 32-byte key with HKDF-SHA-256. Values
// are encrypted with AES-256 in CBC mode with PKCS7 padding and a fresh
// 16-byte random IV per call. The textual storage form is
//
//	<base64 ciphertext>:<hex iv>
//
// # Architecture
//
//  1. Key derivation – HKDF(SHA-256) with `saltInfo = "storefront-field-codec-v1"`.
//     Secrets passed with WithPreviousSecrets are derived the same way and are
//     only used for decryption, which gives a rotation window.
//  2. Encryption / Decryption – Codec.Encrypt and Codec.Decrypt work on the
//     ciphertext and IV separately. Codec.EncryptField and Codec.DecryptField
//     work on the joined storage form.
//  3. Tagged values – Value records whether a field is Plain or Encrypted.
//     Codec.Seal produces a tagged value at write time; ParseStored classifies
//     values written before tagging existed.
//  4. Legacy payloads – values written by passphrase-based encryption start
//     with the OpenSSL "Salted__" header once base64-decoded. They can be read
//     when a passphrase is configured with WithLegacyPassphrase.
//
// # Usage
//
//	import "github.com/vidshop/storefront/pkg/secrets"
//
//	codec, err := secrets.New(os.Getenv("SECRETS_KEY"))
//	if err != nil {
//	    // handle error
//	}
//
//	stored, err := codec.EncryptField("My first video")
//	if err != nil {
//	    // handle error
//	}
//
//	title := codec.DecryptField(stored)
//
// # Error Handling
//
// Encrypt and Decrypt return a bare package sentinel such as
// ErrEncryptionFailed or ErrInvalidCiphertext. The underlying crypto error is
// dropped, and a wrong key and bad padding both report ErrDecryptionFailed.
//
// DecryptField and Open never fail. Encrypted and legacy plaintext values
// coexist in storage, so anything that does not decrypt is returned as is.
// Blank input is never encrypted.
package secrets
