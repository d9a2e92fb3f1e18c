// SPDX-License-Identifier: EPL-2.0

package stego

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerLocate(t *testing.T) {
	t.Parallel()

	data := make([]byte, 8000)
	h := newHeader(MagicLegacy, QualityHigh, nil)
	require.NoError(t, embedHeader(data[1000:1000+h.Window()], h))

	r := bytes.NewReader(data)
	_, err := r.Seek(100, io.SeekStart)
	require.NoError(t, err)

	off, err := Scanner{}.Locate(r, MagicLegacy)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), off)

	pos, _ := r.Seek(0, io.SeekCurrent)
	assert.Equal(t, int64(1000), pos)

	got, err := readHeader(r)
	require.NoError(t, err)
	assert.Equal(t, QualityHigh, got.Quality)
	assert.False(t, got.Encrypted)

	pos, _ = r.Seek(0, io.SeekCurrent)
	assert.Equal(t, int64(1000+h.Window()), pos)
}

func TestScannerLocateMissingMagic(t *testing.T) {
	t.Parallel()

	data := make([]byte, 8000)
	h := newHeader(MagicLegacy, QualityHigh, nil)
	require.NoError(t, embedHeader(data[1000:1000+h.Window()], h))

	r := bytes.NewReader(data)
	_, err := Scanner{}.Locate(r, MagicCurrent)
	assert.ErrorIs(t, err, ErrNoHiddenData)

	pos, _ := r.Seek(0, io.SeekCurrent)
	assert.Zero(t, pos)
}

func TestScannerLimit(t *testing.T) {
	t.Parallel()

	data := make([]byte, 8000)
	h := newHeader(MagicCurrent, QualityNormal, nil)
	require.NoError(t, embedHeader(data[5000:5000+h.Window()], h))

	_, err := Scanner{Limit: 4000}.Locate(bytes.NewReader(data), MagicCurrent)
	assert.ErrorIs(t, err, ErrNoHiddenData)

	off, err := Scanner{Limit: 6000}.Locate(bytes.NewReader(data), MagicCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), off)
}

func TestScannerRejectsInvalidQualityByte(t *testing.T) {
	t.Parallel()

	data := make([]byte, 4000)
	headerCodec.Embed(data[200:], []byte("DSC2\x03\x00"))

	_, err := Scanner{}.Locate(bytes.NewReader(data), MagicCurrent)
	assert.ErrorIs(t, err, ErrNoHiddenData)
}
