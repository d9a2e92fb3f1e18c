// SPDX-License-Identifier: EPL-2.0

package stego

import (
	"fmt"
	"io"

	"github.com/ik5/audstego/formats/wav"
)

// Container is a parsed PCM WAV carrier.
type Container struct {
	// Head is the carrier's header bytes, reproduced verbatim in coded output.
	Head []byte

	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16

	// DataOffset is the offset of the first sample byte.
	DataOffset int64
}

// ParseContainer reads the WAV head from r and leaves r at the first sample
// byte. Any structural problem is reported as ErrMalformedContainer.
func ParseContainer(r io.Reader) (*Container, error) {
	h, err := wav.ReadHeader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedContainer, err)
	}

	return &Container{
		Head:          h.Raw,
		AudioFormat:   h.AudioFormat,
		Channels:      h.Channels,
		SampleRate:    h.SampleRate,
		BitsPerSample: h.BitsPerSample,
		DataOffset:    h.DataOffset(),
	}, nil
}
