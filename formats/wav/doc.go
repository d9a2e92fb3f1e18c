// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes 16-bit PCM WAV files.
//
// # Header walking
//
// ReadHeader walks the RIFF chunks of a WAVE stream until it reaches the
// data chunk and keeps every byte it passed over in Header.Raw. Copying Raw
// followed by the sample bytes rebuilds the file exactly, including LIST,
// fact and any other vendor chunks:
//
//	h, err := wav.ReadHeader(f)
//	if err != nil {
//	    return err
//	}
//	// f now points at the first sample byte, h.DataOffset() bytes in.
//
// Odd-sized chunks are followed by a pad byte, which stays in Raw.
//
// # Decoding
//
// Decoder turns a 16-bit PCM stream into an audio.Source of float32
// samples in [-1, 1):
//
//	src, err := wav.Decoder{}.Decode(f)
//	buf := make([]float32, src.BufSize())
//	n, err := src.ReadSamples(buf)
//
// # Writing
//
// WritePCM16 writes a canonical 44-byte header followed by interleaved
// samples. Canonicalize streams any audio.Source into a seekable writer
// through github.com/go-audio/wav, and ReadPCM loads a whole file back
// as an integer buffer.
//
// # Errors
//
//   - ErrNotWavFile: no RIFF/WAVE signature
//   - ErrUnsupportedWavLayout: truncated chunk list or no channels
//   - ErrInvalidChunkSize: a zero-sized chunk before data
//   - ErrMissingFormatChunk: data came before fmt
//   - ErrNotPCM: compressed or float sample format
//   - ErrOnlyPCM16bitSupported: integer PCM at another bit depth
package wav
