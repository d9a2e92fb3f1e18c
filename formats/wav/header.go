// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// FormatPCM is the WAVE audio format code for integer PCM.
const FormatPCM = 1

// Header is everything in a RIFF/WAVE stream that precedes the first sample byte.
type Header struct {
	// Raw holds the RIFF header, every chunk before the data chunk verbatim,
	// and the data chunk id and size. Writing Raw followed by the samples
	// reproduces the original file.
	Raw []byte

	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16

	// DataSize is the size declared by the data chunk.
	DataSize uint32
}

// DataOffset is the byte offset of the first sample.
func (h *Header) DataOffset() int64 { return int64(len(h.Raw)) }

// ReadHeader walks the chunks of a RIFF/WAVE stream until the data chunk and
// leaves r positioned at the first sample byte. Chunk ids are compared
// case-insensitively. Only integer PCM is accepted.
func ReadHeader(r io.Reader) (*Header, error) {
	riff := make([]byte, 12)
	if _, err := io.ReadFull(r, riff); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}

	if !bytes.Equal(riff[0:4], []byte("RIFF")) || !bytes.EqualFold(riff[8:12], []byte("WAVE")) {
		return nil, ErrNotWavFile
	}

	h := &Header{Raw: append([]byte(nil), riff...)}
	var haveFmt bool

	for {
		idSize := make([]byte, 8)
		if _, err := io.ReadFull(r, idSize); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
		}

		id := bytes.ToUpper(idSize[0:4])
		size := binary.LittleEndian.Uint32(idSize[4:8])

		if string(id) == "DATA" {
			h.Raw = append(h.Raw, idSize...)
			h.DataSize = size
			break
		}

		if size == 0 {
			return nil, fmt.Errorf("%w: chunk %q", ErrInvalidChunkSize, idSize[0:4])
		}

		// RIFF chunks are word aligned; the pad byte is kept with the chunk.
		// The declared size is untrusted, so the buffer grows as bytes arrive.
		var chunk bytes.Buffer
		if _, err := io.CopyN(&chunk, r, int64(size)+int64(size&1)); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("%w: chunk %q: %w", ErrUnsupportedWavLayout, idSize[0:4], err)
		}
		body := chunk.Bytes()

		h.Raw = append(h.Raw, idSize...)
		h.Raw = append(h.Raw, body...)

		if string(id) == "FMT " && len(body) >= 4 {
			haveFmt = true
			h.AudioFormat = binary.LittleEndian.Uint16(body[0:2])
			h.Channels = binary.LittleEndian.Uint16(body[2:4])
			if len(body) >= 16 {
				h.SampleRate = binary.LittleEndian.Uint32(body[4:8])
				h.BitsPerSample = binary.LittleEndian.Uint16(body[14:16])
			}
		}
	}

	if !haveFmt {
		return nil, ErrMissingFormatChunk
	}

	if h.AudioFormat != FormatPCM {
		return nil, fmt.Errorf("%w: format code %d", ErrNotPCM, h.AudioFormat)
	}

	return h, nil
}
