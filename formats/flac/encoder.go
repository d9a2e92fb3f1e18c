// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// blockSize is the number of samples per channel in each encoded frame.
const blockSize = 4096

// WritePCM16 writes interleaved 16-bit samples as a FLAC stream of verbatim
// subframes. The encoding is lossless, so decoding returns the exact input.
// w is left open.
func WritePCM16(w io.Writer, sampleRate, channels int, samples []int) error {
	var layout frame.Channels
	switch channels {
	case 1:
		layout = frame.ChannelsMono
	case 2:
		layout = frame.ChannelsLR
	default:
		return fmt.Errorf("%w: %d channels", ErrUnsupportedLayout, channels)
	}

	if len(samples)%channels != 0 {
		return fmt.Errorf("%w: %d samples for %d channels", ErrUnsupportedLayout, len(samples), channels)
	}
	frames := len(samples) / channels

	info := &meta.StreamInfo{
		BlockSizeMin:  blockSize,
		BlockSizeMax:  blockSize,
		SampleRate:    uint32(sampleRate),
		NChannels:     uint8(channels),
		BitsPerSample: 16,
		NSamples:      uint64(frames),
	}

	enc, err := flac.NewEncoder(unclosable(w), info)
	if err != nil {
		return fmt.Errorf("flac encode: %w", err)
	}

	for num, start := uint64(0), 0; start < frames; num, start = num+1, start+blockSize {
		n := min(blockSize, frames-start)

		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(n),
				SampleRate:        uint32(sampleRate),
				Channels:          layout,
				BitsPerSample:     16,
				Num:               num,
			},
			Subframes: make([]*frame.Subframe, channels),
		}

		for ch := range channels {
			sub := make([]int32, n)
			for i := range n {
				sub[i] = int32(samples[(start+i)*channels+ch])
			}
			f.Subframes[ch] = &frame.Subframe{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   sub,
				NSamples:  n,
			}
		}

		if err := enc.WriteFrame(f); err != nil {
			enc.Close()
			return fmt.Errorf("flac encode frame %d: %w", num, err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("flac encode: %w", err)
	}

	return nil
}

// unclosable hides Close and Seek from the encoder. It closes an io.Closer,
// and on an io.Seeker it rewrites StreamInfo with the shortest block seen,
// which is invalid below 16 samples. StreamInfo above already holds the
// sample count.
func unclosable(w io.Writer) io.Writer {
	return struct{ io.Writer }{w}
}
