// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	"github.com/ik5/audstego/audio"
	"github.com/ik5/audstego/utils"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// frameReader is the part of flac.Stream the source needs.
type frameReader interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

type source struct {
	dec        frameReader
	sampleRate int
	channels   int
	bitDepth   int

	// pending holds interleaved samples of the current frame not yet read.
	pending []float32
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 * s.channels }
func (s *source) Close() error    { return s.dec.Close() }

func (s *source) ReadSamples(dst []float32) (int, error) {
	n := 0
	for n < len(dst) {
		if len(s.pending) == 0 {
			f, err := s.dec.ParseNext()
			if err != nil {
				return n, err
			}
			s.interleave(f)
			continue
		}

		c := copy(dst[n:], s.pending)
		s.pending = s.pending[c:]
		n += c
	}

	return n, nil
}

func (s *source) interleave(f *frame.Frame) {
	blockSize := int(f.BlockSize)
	need := blockSize * s.channels
	if cap(s.pending) < need {
		s.pending = make([]float32, need)
	}
	s.pending = s.pending[:need]

	for ch, sub := range f.Subframes {
		if ch >= s.channels {
			break
		}
		for i := 0; i < blockSize && i < len(sub.Samples); i++ {
			s.pending[i*s.channels+ch] = utils.IntToFloat32(int(sub.Samples[i]), s.bitDepth)
		}
	}
}

// Decoder decodes FLAC streams.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	info := stream.Info
	if info.NChannels < 1 {
		stream.Close()
		return nil, ErrNotFlacFile
	}

	switch info.BitsPerSample {
	case 8, 16, 24, 32:
	default:
		stream.Close()
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, info.BitsPerSample)
	}

	return &source{
		dec:        stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   int(info.BitsPerSample),
	}, nil
}
