// SPDX-License-Identifier: EPL-2.0

package stego

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarrierReaderShortTail(t *testing.T) {
	t.Parallel()

	data := make([]byte, 100)
	for i := range data {
		data[i] = byte(i)
	}
	cr := newCarrierReader(bytes.NewReader(data), 64)

	require.NoError(t, cr.next(0))
	assert.Equal(t, data[:64], cr.block)

	require.NoError(t, cr.next(0))
	assert.Equal(t, data[64:], cr.block)

	require.NoError(t, cr.next(0))
	assert.Empty(t, cr.block)
}

func TestCarrierReaderGrowAndRewind(t *testing.T) {
	t.Parallel()

	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i)
	}
	cr := newCarrierReader(bytes.NewReader(data), 64)

	require.NoError(t, cr.next(128))
	assert.Len(t, cr.block, 128)

	require.NoError(t, cr.seek(-28, io.SeekCurrent))

	require.NoError(t, cr.next(0))
	assert.Equal(t, data[100:164], cr.block)

	var rest bytes.Buffer
	n, err := cr.copyRest(&rest)
	require.NoError(t, err)
	assert.Equal(t, int64(136), n)
	assert.Equal(t, data[164:], rest.Bytes())
}
