// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
)

// WritePCM16 writes interleaved 16-bit samples as an AIFF file. w must be
// seekable so the chunk sizes can be patched on close.
func WritePCM16(w io.WriteSeeker, sampleRate, channels int, samples []int) error {
	if channels < 1 || len(samples)%channels != 0 {
		return fmt.Errorf("%w: %d samples for %d channels", ErrUnsupportedAiffLayout, len(samples), channels)
	}

	enc := aiff.NewEncoder(w, sampleRate, 16, channels)

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("aiff encode: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("aiff encode: %w", err)
	}

	return nil
}
