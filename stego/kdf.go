// SPDX-License-Identifier: EPL-2.0

package stego

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf16"

	"golang.org/x/crypto/argon2"
)

// KDFVersion is the key derivation version byte stored in current headers.
type KDFVersion byte

const (
	KDFLegacy   KDFVersion = 0
	KDFArgon2id KDFVersion = 1
)

func (v KDFVersion) String() string {
	switch v {
	case KDFLegacy:
		return "legacy"
	case KDFArgon2id:
		return "argon2id"
	default:
		return fmt.Sprintf("KDFVersion(%d)", byte(v))
	}
}

// Scheme selects how a password becomes a key.
type Scheme int

const (
	// SchemeArgon2id is the default: salted Argon2id with an AES-GCM verifier.
	SchemeArgon2id Scheme = iota
	// SchemeUnicode is the legacy unsalted SHA-256 over UTF-16LE.
	SchemeUnicode
	// SchemeASCII zero-pads the ASCII password. Meant for tests.
	SchemeASCII
)

func (s Scheme) String() string {
	switch s {
	case SchemeArgon2id:
		return "argon2id"
	case SchemeUnicode:
		return "unicode"
	case SchemeASCII:
		return "ascii"
	default:
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
}

// ParseScheme accepts "argon2id", "unicode" (alias "legacy") and "ascii".
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "argon2id", "argon2", "":
		return SchemeArgon2id, nil
	case "unicode", "legacy":
		return SchemeUnicode, nil
	case "ascii":
		return SchemeASCII, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnsupportedKDFVersion, s)
}

// Version is the header version byte written for keys of this scheme.
func (s Scheme) Version() KDFVersion {
	if s == SchemeArgon2id {
		return KDFArgon2id
	}

	return KDFLegacy
}

// SchemeForVersion picks the scheme a header declares. Legacy headers carry
// Unicode-derived keys.
func SchemeForVersion(v KDFVersion) (Scheme, error) {
	switch v {
	case KDFArgon2id:
		return SchemeArgon2id, nil
	case KDFLegacy:
		return SchemeUnicode, nil
	}

	return 0, fmt.Errorf("%w: %d", ErrUnsupportedKDFVersion, v)
}

const (
	KeySize               = 32
	SaltSize              = 16
	LegacyVerifierSize    = sha1.Size
	Argon2VerifierSize    = len(verificationPlaintext) + 16
	argon2Time            = 3
	argon2MemoryKiB       = 64 * 1024
	argon2Threads         = 4
	gcmNonceSize          = 12
	verificationPlaintext = "STEGO_VERIFY_2025"
)

// Key is a derived payload key and the verifier stored alongside it.
type Key struct {
	Scheme   Scheme
	Salt     []byte // Argon2id only
	Verifier []byte

	material [KeySize]byte
}

// Version is the header version byte for this key.
func (k *Key) Version() KDFVersion { return k.Scheme.Version() }

// Matches reports whether stored equals this key's verifier.
func (k *Key) Matches(stored []byte) bool {
	return len(stored) == len(k.Verifier) && subtle.ConstantTimeCompare(stored, k.Verifier) == 1
}

// DeriveKey turns password into a key using scheme. salt is only used by
// SchemeArgon2id; a nil salt there draws 16 random bytes.
func DeriveKey(scheme Scheme, password string, salt []byte) (*Key, error) {
	switch scheme {
	case SchemeASCII:
		return deriveASCII(password), nil
	case SchemeUnicode:
		return deriveUnicode(password)
	case SchemeArgon2id:
		return deriveArgon2id(password, salt)
	}

	return nil, fmt.Errorf("%w: scheme %d", ErrUnsupportedKDFVersion, int(scheme))
}

func deriveASCII(password string) *Key {
	k := &Key{Scheme: SchemeASCII}

	ascii := make([]byte, 0, len(password))
	for _, r := range password {
		if r > 0x7F {
			r = '?'
		}
		ascii = append(ascii, byte(r))
	}
	copy(k.material[:], ascii)

	sum := sha1.Sum(k.material[:])
	k.Verifier = sum[:]

	return k
}

func deriveUnicode(password string) (*Key, error) {
	k := &Key{Scheme: SchemeUnicode}

	units := utf16.Encode([]rune(password))
	encoded := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(encoded[i*2:], u)
	}
	k.material = sha256.Sum256(encoded)

	block, err := aes.NewCipher(k.material[:])
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	padded := pkcs7Pad(k.material[:], aes.BlockSize)
	encrypted := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, k.material[:aes.BlockSize]).CryptBlocks(encrypted, padded)

	sum := sha1.Sum(encrypted)
	k.Verifier = sum[:]

	return k, nil
}

func deriveArgon2id(password string, salt []byte) (*Key, error) {
	if salt == nil {
		salt = make([]byte, SaltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("salt generation failed: %w", err)
		}
	}

	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrInvalidHeader, SaltSize, len(salt))
	}

	k := &Key{Scheme: SchemeArgon2id, Salt: bytes.Clone(salt)}
	copy(k.material[:], argon2.IDKey([]byte(password), salt, argon2Time, argon2MemoryKiB, argon2Threads, KeySize))

	block, err := aes.NewCipher(k.material[:])
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("GCM creation failed: %w", err)
	}

	k.Verifier = gcm.Seal(nil, salt[:gcmNonceSize], []byte(verificationPlaintext), nil)

	return k, nil
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(bytes.Clone(b), bytes.Repeat([]byte{byte(n)}, n)...)
}

// blockCipher is the payload cipher: AES-256 applied to each 16-byte block
// independently, without chaining or IV. Kept for format compatibility.
type blockCipher struct {
	b cipher.Block
}

func newBlockCipher(k *Key) (*blockCipher, error) {
	b, err := aes.NewCipher(k.material[:])
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &blockCipher{b: b}, nil
}

// encrypt works in place; len(p) must be a multiple of 16.
func (c *blockCipher) encrypt(p []byte) {
	for i := 0; i+aes.BlockSize <= len(p); i += aes.BlockSize {
		c.b.Encrypt(p[i:i+aes.BlockSize], p[i:i+aes.BlockSize])
	}
}

// decrypt works in place; len(p) must be a multiple of 16.
func (c *blockCipher) decrypt(p []byte) {
	for i := 0; i+aes.BlockSize <= len(p); i += aes.BlockSize {
		c.b.Decrypt(p[i:i+aes.BlockSize], p[i:i+aes.BlockSize])
	}
}
