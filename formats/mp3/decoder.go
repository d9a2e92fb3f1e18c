// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audstego/audio"
	"github.com/ik5/audstego/utils"
)

// go-mp3 always produces interleaved stereo 16-bit little-endian PCM.
const channels = 2

// pcmReader is the part of gomp3.Decoder the source needs.
type pcmReader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec pcmReader
	buf []byte
	// odd holds a trailing byte when a read ends mid-sample.
	odd    []byte
	frames int64
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	carry := copy(s.buf, s.odd)
	s.odd = s.odd[:0]

	n, err := s.dec.Read(s.buf[carry:])
	n += carry

	samples := n / 2
	for i := range samples {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}

	if n%2 == 1 {
		s.odd = append(s.odd, s.buf[n-1])
	}

	return samples, err
}

// Decoder decodes MPEG-1/2 Layer III streams.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	return &source{dec: dec, buf: make([]byte, 8192)}, nil
}
