// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/audstego/audio"
	"github.com/jfreymuth/oggvorbis"
)

// valueReader is the part of oggvorbis.Reader the source needs. Read fills
// p with interleaved values and returns how many it wrote, always a
// multiple of Channels.
type valueReader interface {
	SampleRate() int
	Channels() int
	Read(p []float32) (int, error)
}

type source struct {
	dec valueReader
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return s.dec.Channels() }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	ch := s.dec.Channels()

	// oggvorbis only hands out whole frames.
	whole := len(dst) - len(dst)%ch
	if whole == 0 {
		return 0, nil
	}

	return s.dec.Read(dst[:whole])
}

// Decoder decodes Ogg Vorbis streams.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}

	if dec.Channels() < 1 {
		return nil, ErrNotVorbisFile
	}

	return &source{dec: dec}, nil
}
