// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/audstego/audio"
	"github.com/ik5/audstego/utils"
)

type wavSource struct {
	r          io.Reader
	sampleRate int
	channels   int
	remaining  int64 // bytes left in the data chunk
	buf        []byte
}

func (s *wavSource) SampleRate() int { return s.sampleRate }
func (s *wavSource) Channels() int   { return s.channels }
func (s *wavSource) BufSize() int    { return cap(s.buf) / 2 }
func (s *wavSource) Close() error    { return nil }

func (s *wavSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.remaining <= 0 {
		return 0, io.EOF
	}

	want := int64(len(dst) * 2)
	if want > s.remaining {
		want = s.remaining
	}

	if int64(cap(s.buf)) < want {
		s.buf = make([]byte, want)
	}
	s.buf = s.buf[:want]

	n, err := io.ReadFull(s.r, s.buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return 0, fmt.Errorf("%w", err)
	}

	samples := n / 2
	s.remaining -= int64(samples * 2)

	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(s.buf[2*i : 2*i+2]))
		dst[i] = utils.Int16ToFloat32(v)
	}

	if samples == 0 {
		s.remaining = 0
		return 0, io.EOF
	}

	return samples, nil
}

// Decoder reads 16-bit PCM WAV streams as float32 samples.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	if h.BitsPerSample != 16 {
		return nil, ErrOnlyPCM16bitSupported
	}

	if h.Channels == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	remaining := int64(h.DataSize)
	// Some writers leave the data size at zero or 0xFFFFFFFF while streaming.
	if remaining == 0 || h.DataSize == 0xFFFFFFFF {
		remaining = 1<<63 - 1
	}

	return &wavSource{
		r:          r,
		sampleRate: int(h.SampleRate),
		channels:   int(h.Channels),
		remaining:  remaining,
		buf:        make([]byte, 4096),
	}, nil
}
