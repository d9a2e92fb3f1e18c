// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
)

// ReadAll drains src and returns every sample it produced.
func ReadAll(src Source) ([]float32, error) {
	buf := make([]float32, max(src.BufSize(), src.Channels(), 1))
	var out []float32

	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)

		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}

// CountFrames drains src and returns how many frames it held.
func CountFrames(src Source) (int64, error) {
	buf := make([]float32, max(src.BufSize(), src.Channels(), 1))
	var samples int64

	for {
		n, err := src.ReadSamples(buf)
		samples += int64(n)

		if errors.Is(err, io.EOF) {
			return samples / int64(max(src.Channels(), 1)), nil
		}
		if err != nil {
			return 0, err
		}
	}
}
