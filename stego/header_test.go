// SPDX-License-Identifier: EPL-2.0

package stego

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderSizes(t *testing.T) {
	t.Parallel()

	ascii, err := DeriveKey(SchemeASCII, "secret", nil)
	require.NoError(t, err)
	argon, err := DeriveKey(SchemeArgon2id, "secret", bytes.Repeat([]byte{1}, SaltSize))
	require.NoError(t, err)

	tests := []struct {
		name   string
		key    *Key
		size   int
		window int
	}{
		{"plain", nil, 6, 24},
		{"legacy", ascii, 26, 104},
		{"argon2id", argon, 56, 224},
	}

	for _, tt := range tests {
		h := newHeader(MagicCurrent, QualityHigh, tt.key)

		b, err := h.MarshalBinary()
		require.NoError(t, err, tt.name)
		assert.Len(t, b, tt.size, tt.name)
		assert.Equal(t, tt.window, h.Window(), tt.name)

		got, err := ParseHeader(b)
		require.NoError(t, err, tt.name)
		assert.Equal(t, h.Quality, got.Quality, tt.name)
		assert.Equal(t, h.Encrypted, got.Encrypted, tt.name)
		assert.Equal(t, h.KDFVersion, got.KDFVersion, tt.name)
		assert.Equal(t, h.Verifier, got.Verifier, tt.name)
		assert.Equal(t, h.Salt, got.Salt, tt.name)
	}
}

func TestHeaderArgonLayout(t *testing.T) {
	t.Parallel()

	salt := bytes.Repeat([]byte{0xEE}, SaltSize)
	verifier := bytes.Repeat([]byte{0x11}, Argon2VerifierSize)
	h := &Header{Magic: MagicCurrent, Quality: QualityLow, Encrypted: true, KDFVersion: KDFArgon2id, Salt: salt, Verifier: verifier}

	b, err := h.MarshalBinary()
	require.NoError(t, err)

	assert.Equal(t, "DSC2", string(b[0:4]))
	assert.Equal(t, byte(2), b[4])
	assert.Equal(t, byte(1), b[5])
	assert.Equal(t, byte(1), b[6])
	assert.Equal(t, salt, b[7:23])
	assert.Equal(t, verifier, b[23:56])
}

func TestParseHeaderLegacyMagicIgnoresKDFByte(t *testing.T) {
	t.Parallel()

	verifier := append([]byte{1}, bytes.Repeat([]byte{9}, LegacyVerifierSize-1)...)
	h := &Header{Magic: MagicLegacy, Quality: QualityNormal, Encrypted: true, Verifier: verifier}

	b, err := h.MarshalBinary()
	require.NoError(t, err)

	got, err := ParseHeader(b)
	require.NoError(t, err)
	assert.Equal(t, KDFLegacy, got.KDFVersion)
	assert.Equal(t, verifier, got.Verifier)
}

func TestParseHeaderRejects(t *testing.T) {
	t.Parallel()

	tests := map[string][]byte{
		"short":         []byte("DSC2"),
		"magic":         []byte("XXXX\x04\x00"),
		"quality":       []byte("DSC2\x03\x00"),
		"flag":          []byte("DSC2\x04\x02"),
		"truncated key": append([]byte("DSC2\x04\x01\x01"), make([]byte, 10)...),
	}

	for name, in := range tests {
		_, err := ParseHeader(in)
		assert.ErrorIs(t, err, ErrInvalidHeader, name)
	}
}

func TestMarshalHeaderRejectsBadVerifier(t *testing.T) {
	t.Parallel()

	h := &Header{Magic: MagicCurrent, Quality: QualityNormal, Encrypted: true, Verifier: []byte{1, 2}}
	_, err := h.MarshalBinary()
	assert.ErrorIs(t, err, ErrInvalidHeader)

	h = &Header{Magic: MagicCurrent, Quality: Quality(7)}
	_, err = h.MarshalBinary()
	assert.ErrorIs(t, err, ErrInvalidQuality)
}

func TestEmbedHeaderAlwaysNormal(t *testing.T) {
	t.Parallel()

	h := newHeader(MagicCurrent, QualityLow, nil)
	window := make([]byte, h.Window())
	require.NoError(t, embedHeader(window, h))

	decoded := headerCodec.Extract(window)
	assert.Equal(t, []byte("DSC2\x02\x00"), decoded)

	err := embedHeader(make([]byte, 10), h)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}
