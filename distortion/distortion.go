// SPDX-License-Identifier: EPL-2.0

// Package distortion measures how audible an embedding is by comparing a
// carrier with its coded copy.
package distortion

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/ik5/audstego/audio"
)

// DefaultFrameSize is the analysis window used when Measure gets zero.
const DefaultFrameSize = 1024

// powerFloor keeps log spectra finite on silent bins.
const powerFloor = 1e-12

var (
	ErrInvalidFrameSize   = errors.New("frame size must be at least 2")
	ErrSampleRateMismatch = errors.New("sources have different sample rates")
)

// Report compares two mono mixes sample by sample and frame by frame.
type Report struct {
	// Frames is the number of mono samples compared.
	Frames int64
	// SNR is the carrier to difference power ratio in dB; +Inf when the
	// signals are identical.
	SNR float64
	// MaxSampleDelta is the largest absolute difference on the [-1, 1) scale.
	MaxSampleDelta float64
	// SpectralDistortion is the mean log-spectral distance in dB over
	// Hann-windowed frames.
	SpectralDistortion float64
	// SpectralFrames is how many full frames went into SpectralDistortion.
	SpectralFrames int
}

// Measure reads both sources to the end of the shorter one. Multichannel
// sources are mixed down to mono first. Neither source is closed.
func Measure(original, coded audio.Source, frameSize int) (*Report, error) {
	if frameSize == 0 {
		frameSize = DefaultFrameSize
	}
	if frameSize < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrameSize, frameSize)
	}

	if original.SampleRate() != coded.SampleRate() {
		return nil, fmt.Errorf("%w: %d and %d Hz", ErrSampleRateMismatch, original.SampleRate(), coded.SampleRate())
	}

	a := &frameReader{src: audio.NewMonoMixer(original), buf: make([]float32, frameSize)}
	b := &frameReader{src: audio.NewMonoMixer(coded), buf: make([]float32, frameSize)}

	hann := window.Hann(frameSize)
	wa := make([]float64, frameSize)
	wb := make([]float64, frameSize)

	r := &Report{}
	var signal, noise, lsdSum float64

	for {
		na, err := a.fill()
		if err != nil {
			return nil, fmt.Errorf("reading original: %w", err)
		}
		nb, err := b.fill()
		if err != nil {
			return nil, fmt.Errorf("reading coded: %w", err)
		}

		n := min(na, nb)
		for i := range n {
			o, c := float64(a.buf[i]), float64(b.buf[i])
			d := o - c
			signal += o * o
			noise += d * d
			r.MaxSampleDelta = max(r.MaxSampleDelta, math.Abs(d))
		}
		r.Frames += int64(n)

		if n == frameSize {
			for i := range frameSize {
				wa[i] = float64(a.buf[i]) * hann[i]
				wb[i] = float64(b.buf[i]) * hann[i]
			}
			lsdSum += logSpectralDistance(fft.FFTReal(wa), fft.FFTReal(wb))
			r.SpectralFrames++
		}

		if n < frameSize {
			break
		}
	}

	switch {
	case noise == 0:
		r.SNR = math.Inf(1)
	case signal == 0:
		r.SNR = math.Inf(-1)
	default:
		r.SNR = 10 * math.Log10(signal/noise)
	}

	if r.SpectralFrames > 0 {
		r.SpectralDistortion = lsdSum / float64(r.SpectralFrames)
	}

	return r, nil
}

// logSpectralDistance is the RMS difference of two power spectra in dB,
// over the non-redundant half of a real FFT.
func logSpectralDistance(x, y []complex128) float64 {
	bins := len(x)/2 + 1

	var sum float64
	for k := range bins {
		px := math.Pow(cmplx.Abs(x[k]), 2) + powerFloor
		py := math.Pow(cmplx.Abs(y[k]), 2) + powerFloor
		d := 10 * math.Log10(px/py)
		sum += d * d
	}

	return math.Sqrt(sum / float64(bins))
}

// frameReader fills buf completely unless the source ends.
type frameReader struct {
	src  audio.Source
	buf  []float32
	done bool
}

func (f *frameReader) fill() (int, error) {
	n := 0
	for n < len(f.buf) && !f.done {
		m, err := f.src.ReadSamples(f.buf[n:])
		n += m

		if errors.Is(err, io.EOF) {
			f.done = true
			break
		}
		if err != nil {
			return n, err
		}
		if m == 0 {
			f.done = true
		}
	}

	return n, nil
}
