// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audstego/internal/audiotest"
)

func pcmFile(sampleRate, channels int, samples []int16, extra ...audiotest.Chunk) []byte {
	return audiotest.WAV{
		SampleRate: sampleRate,
		Channels:   channels,
		Extra:      extra,
		Data:       audiotest.PCM16(samples),
	}.Bytes()
}

func TestDecoder_Layouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sampleRate int
		channels   int
	}{
		{name: "mono 8k", sampleRate: 8000, channels: 1},
		{name: "stereo 44.1k", sampleRate: 44100, channels: 2},
		{name: "stereo 48k", sampleRate: 48000, channels: 2},
		{name: "six channels", sampleRate: 96000, channels: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := pcmFile(tt.sampleRate, tt.channels, make([]int16, tt.channels*4))
			src, err := Decoder{}.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			defer src.Close()

			if src.SampleRate() != tt.sampleRate {
				t.Errorf("SampleRate() = %d, want %d", src.SampleRate(), tt.sampleRate)
			}
			if src.Channels() != tt.channels {
				t.Errorf("Channels() = %d, want %d", src.Channels(), tt.channels)
			}
		})
	}
}

func TestDecoder_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "not riff", data: []byte("NOT A WAV FILE DATA"), want: ErrNotWavFile},
		{name: "truncated", data: []byte("RIFF\x00"), want: ErrNotWavFile},
		{
			name: "8-bit",
			data: audiotest.WAV{SampleRate: 8000, Channels: 1, Bits: 8, Data: []byte{1, 2}}.Bytes(),
			want: ErrOnlyPCM16bitSupported,
		},
		{
			name: "ieee float",
			data: audiotest.WAV{SampleRate: 8000, Channels: 1, Format: 3, Data: []byte{0, 0}}.Bytes(),
			want: ErrNotPCM,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecoder_SkipsExtraChunks(t *testing.T) {
	t.Parallel()

	data := pcmFile(8000, 1, []int16{100, 200},
		audiotest.Chunk{ID: "LIST", Data: []byte("INFOabc")},
		audiotest.Chunk{ID: "junk", Data: make([]byte, 10)},
	)

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	dst := make([]float32, 4)
	n, _ := src.ReadSamples(dst)
	if n != 2 {
		t.Fatalf("ReadSamples() n = %d, want 2", n)
	}
	if dst[0] != 100.0/32768 || dst[1] != 200.0/32768 {
		t.Errorf("samples = %v, want [100/32768 200/32768]", dst[:2])
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, 32767, -16384, -32768}
	src, err := Decoder{}.Decode(bytes.NewReader(pcmFile(8000, 1, samples)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	dst := make([]float32, len(samples))
	n, err := src.ReadSamples(dst)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != len(samples) {
		t.Fatalf("ReadSamples() n = %d, want %d", n, len(samples))
	}

	want := []float32{0, 0.5, 32767.0 / 32768, -0.5, -1}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	if n, err := src.ReadSamples(dst); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() after end = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	src, err := Decoder{}.Decode(bytes.NewReader(pcmFile(8000, 1, []int16{1, 2})))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	n, err := src.ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSource_ReadSamples_Chunked(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 1000)
	for i := range samples {
		samples[i] = int16(i)
	}

	src, err := Decoder{}.Decode(bytes.NewReader(pcmFile(8000, 1, samples)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	dst := make([]float32, 64)
	var total int
	for {
		n, err := src.ReadSamples(dst)
		for i := range n {
			if want := float32(total+i) / 32768; dst[i] != want {
				t.Fatalf("sample %d = %v, want %v", total+i, dst[i], want)
			}
		}
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if total != len(samples) {
		t.Errorf("read %d samples, want %d", total, len(samples))
	}
}

// The data chunk size bounds the read even when trailing bytes follow it.
func TestSource_StopsAtDataChunkEnd(t *testing.T) {
	t.Parallel()

	data := pcmFile(8000, 1, []int16{7, 8})
	data = append(data, "LIST\x04\x00\x00\x00abcd"...)

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	dst := make([]float32, 16)
	n, _ := src.ReadSamples(dst)
	if n != 2 {
		t.Errorf("ReadSamples() n = %d, want 2", n)
	}
}

func TestSource_BufSize(t *testing.T) {
	t.Parallel()

	src, err := Decoder{}.Decode(bytes.NewReader(pcmFile(8000, 1, nil)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if got := src.BufSize(); got != 2048 {
		t.Errorf("BufSize() = %d, want 2048", got)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	data := pcmFile(44100, 2, make([]int16, 44100*2))
	dst := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		src, err := Decoder{}.Decode(bytes.NewReader(data))
		if err != nil {
			b.Fatal(err)
		}
		for {
			if _, err := src.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}
