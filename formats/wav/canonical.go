// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audstego/audio"
	"github.com/ik5/audstego/utils"
)

// Canonicalize streams src into w as a 16-bit PCM WAV keeping the source
// sample rate and channel count. It returns the number of samples written
// (all channels).
func Canonicalize(w io.WriteSeeker, src audio.Source) (int64, error) {
	channels := src.Channels()
	if channels <= 0 {
		return 0, ErrUnsupportedWavLayout
	}

	enc := gowav.NewEncoder(w, src.SampleRate(), 16, channels, FormatPCM)

	bufSize := src.BufSize()
	if bufSize <= 0 {
		bufSize = 4096
	}
	// keep whole frames per read
	bufSize -= bufSize % channels
	if bufSize == 0 {
		bufSize = channels
	}

	fbuf := make([]float32, bufSize)
	ibuf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: src.SampleRate()},
		Data:           make([]int, bufSize),
		SourceBitDepth: 16,
	}

	var total int64
	for {
		n, err := src.ReadSamples(fbuf)
		if n > 0 {
			ibuf.Data = ibuf.Data[:n]
			for i := range n {
				ibuf.Data[i] = int(utils.Float32ToInt16(fbuf[i]))
			}

			if werr := enc.Write(ibuf); werr != nil {
				return total, fmt.Errorf("writing samples: %w", werr)
			}
			total += int64(n)
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return total, fmt.Errorf("%w", err)
		}

		if n == 0 {
			break
		}
	}

	if err := enc.Close(); err != nil {
		return total, fmt.Errorf("%w", err)
	}

	return total, nil
}

// ReadPCM decodes a whole 16-bit PCM WAV into an integer buffer.
func ReadPCM(r io.ReadSeeker) (*goaudio.IntBuffer, error) {
	dec := gowav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != FormatPCM {
		return nil, ErrNotPCM
	}

	if dec.BitDepth != 16 {
		return nil, ErrOnlyPCM16bitSupported
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return buf, nil
}
