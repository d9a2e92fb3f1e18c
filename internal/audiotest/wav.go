// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Chunk is an extra RIFF chunk placed between fmt and data.
type Chunk struct {
	ID   string
	Data []byte
}

// WAV builds RIFF/WAVE files in memory.
type WAV struct {
	SampleRate int
	Channels   int
	Bits       int
	// Format is the fmt chunk audio format code; 0 means PCM.
	Format uint16
	// Extra chunks are written after fmt, in order.
	Extra []Chunk
	// Data is the raw sample payload.
	Data []byte
}

// Bytes returns the encoded file.
func (w WAV) Bytes() []byte {
	format := w.Format
	if format == 0 {
		format = 1
	}
	bits := w.Bits
	if bits == 0 {
		bits = 16
	}

	blockAlign := w.Channels * bits / 8

	fmtBody := new(bytes.Buffer)
	binary.Write(fmtBody, binary.LittleEndian, format)
	binary.Write(fmtBody, binary.LittleEndian, uint16(w.Channels))
	binary.Write(fmtBody, binary.LittleEndian, uint32(w.SampleRate))
	binary.Write(fmtBody, binary.LittleEndian, uint32(w.SampleRate*blockAlign))
	binary.Write(fmtBody, binary.LittleEndian, uint16(blockAlign))
	binary.Write(fmtBody, binary.LittleEndian, uint16(bits))

	body := new(bytes.Buffer)
	body.WriteString("WAVE")
	writeChunk(body, "fmt ", fmtBody.Bytes())
	for _, c := range w.Extra {
		writeChunk(body, c.ID, c.Data)
	}
	body.WriteString("data")
	binary.Write(body, binary.LittleEndian, uint32(len(w.Data)))
	body.Write(w.Data)

	out := new(bytes.Buffer)
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

func writeChunk(buf *bytes.Buffer, id string, data []byte) {
	buf.WriteString(id)
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	if len(data)%2 == 1 {
		buf.WriteByte(0)
	}
}

// PCM16 encodes interleaved samples as little-endian 16-bit data.
func PCM16(samples []int16) []byte {
	b := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(s))
	}

	return b
}

// SilentCarrier is a 16-bit PCM WAV of the given length filled with zeros.
func SilentCarrier(sampleRate, channels int, seconds float64) []byte {
	frames := int(float64(sampleRate) * seconds)

	return WAV{
		SampleRate: sampleRate,
		Channels:   channels,
		Data:       make([]byte, frames*channels*2),
	}.Bytes()
}

// SineCarrier is a 16-bit PCM WAV holding a sine tone on every channel.
func SineCarrier(sampleRate, channels int, seconds, freq, amplitude float64) []byte {
	frames := int(float64(sampleRate) * seconds)
	samples := make([]int16, frames*channels)

	for i := range frames {
		v := int16(amplitude * 32767 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
		for ch := range channels {
			samples[i*channels+ch] = v
		}
	}

	return WAV{SampleRate: sampleRate, Channels: channels, Data: PCM16(samples)}.Bytes()
}

// HeadLength is the size of the header WAV.Bytes writes before the samples.
func HeadLength(extra ...Chunk) int {
	n := 12 + 8 + 16 + 8
	for _, c := range extra {
		n += 8 + len(c.Data) + len(c.Data)%2
	}

	return n
}
