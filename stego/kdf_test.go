// SPDX-License-Identifier: EPL-2.0

package stego

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	require.NoError(t, err)

	return b
}

func TestDeriveKeyASCII(t *testing.T) {
	t.Parallel()

	tests := []struct {
		password string
		verifier string
	}{
		{"secret", "b2320202561fe3040f8b38e2df9f2f4a32b174ec"},
		{"pé", "b3ca7cf0c6b8b23183e3cb969c047b8aa0f9e29e"},
	}

	for _, tt := range tests {
		k, err := DeriveKey(SchemeASCII, tt.password, nil)
		require.NoError(t, err)

		assert.Equal(t, mustHex(t, tt.verifier), k.Verifier)
		assert.Equal(t, KDFLegacy, k.Version())
		assert.Nil(t, k.Salt)
	}
}

func TestDeriveKeyASCIITruncates(t *testing.T) {
	t.Parallel()

	long := string(bytes.Repeat([]byte("x"), 40))
	a, err := DeriveKey(SchemeASCII, long, nil)
	require.NoError(t, err)
	b, err := DeriveKey(SchemeASCII, long[:32], nil)
	require.NoError(t, err)

	assert.Equal(t, a.Verifier, b.Verifier)
}

func TestDeriveKeyUnicode(t *testing.T) {
	t.Parallel()

	k, err := DeriveKey(SchemeUnicode, "correct-horse", nil)
	require.NoError(t, err)

	want := mustHex(t, "16a4611e4b1cae4f6598608c345f6d6dee4ea02d66c3e8a0441ec7a64dcdbd23")
	assert.Equal(t, want, k.material[:])
	assert.Len(t, k.Verifier, LegacyVerifierSize)
	assert.Equal(t, KDFLegacy, k.Version())

	again, err := DeriveKey(SchemeUnicode, "correct-horse", nil)
	require.NoError(t, err)
	assert.True(t, k.Matches(again.Verifier))
}

func TestDeriveKeyArgon2id(t *testing.T) {
	t.Parallel()

	salt := bytes.Repeat([]byte{7}, SaltSize)

	k, err := DeriveKey(SchemeArgon2id, "correct-horse", salt)
	require.NoError(t, err)
	assert.Len(t, k.Verifier, Argon2VerifierSize)
	assert.Equal(t, salt, k.Salt)
	assert.Equal(t, KDFArgon2id, k.Version())

	same, err := DeriveKey(SchemeArgon2id, "correct-horse", salt)
	require.NoError(t, err)
	assert.True(t, k.Matches(same.Verifier))

	wrong, err := DeriveKey(SchemeArgon2id, "wrong-password", salt)
	require.NoError(t, err)
	assert.False(t, k.Matches(wrong.Verifier))
}

func TestDeriveKeyArgon2idRandomSalt(t *testing.T) {
	t.Parallel()

	a, err := DeriveKey(SchemeArgon2id, "pw", nil)
	require.NoError(t, err)
	b, err := DeriveKey(SchemeArgon2id, "pw", nil)
	require.NoError(t, err)

	assert.Len(t, a.Salt, SaltSize)
	assert.NotEqual(t, a.Salt, b.Salt)
	assert.False(t, a.Matches(b.Verifier))
}

func TestDeriveKeyArgon2idBadSalt(t *testing.T) {
	t.Parallel()

	_, err := DeriveKey(SchemeArgon2id, "pw", []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestSchemeForVersion(t *testing.T) {
	t.Parallel()

	s, err := SchemeForVersion(KDFArgon2id)
	require.NoError(t, err)
	assert.Equal(t, SchemeArgon2id, s)

	s, err = SchemeForVersion(KDFLegacy)
	require.NoError(t, err)
	assert.Equal(t, SchemeUnicode, s)

	_, err = SchemeForVersion(KDFVersion(9))
	assert.ErrorIs(t, err, ErrUnsupportedKDFVersion)
}

func TestParseScheme(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Scheme{
		"argon2id": SchemeArgon2id,
		"legacy":   SchemeUnicode,
		"Unicode":  SchemeUnicode,
		"ascii":    SchemeASCII,
	} {
		got, err := ParseScheme(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseScheme("bcrypt")
	assert.ErrorIs(t, err, ErrUnsupportedKDFVersion)
}

func TestBlockCipherIsUnchained(t *testing.T) {
	t.Parallel()

	k, err := DeriveKey(SchemeASCII, "secret", nil)
	require.NoError(t, err)
	c, err := newBlockCipher(k)
	require.NoError(t, err)

	plain := bytes.Repeat([]byte("0123456789abcdef"), 3)
	buf := bytes.Clone(plain)
	c.encrypt(buf)

	assert.NotEqual(t, plain, buf)
	assert.Equal(t, buf[0:16], buf[16:32])

	c.decrypt(buf)
	assert.Equal(t, plain, buf)
}

func TestKDFVersionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "legacy", KDFLegacy.String())
	assert.Equal(t, "argon2id", KDFArgon2id.String())
	assert.Equal(t, "KDFVersion(7)", KDFVersion(7).String())
}
