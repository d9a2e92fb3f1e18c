// SPDX-License-Identifier: EPL-2.0

// Package aiff reads and writes AIFF files using github.com/go-audio/aiff.
//
// # Decoding
//
// Uncompressed AIFF of 8, 16, 24 or 32 bits is decoded to float samples:
//
//	src, err := aiff.Decoder{}.Decode(file)
//
// Non-seekable readers are buffered in memory first, since the sound data
// chunk may follow other chunks.
//
// # Encoding
//
// WritePCM16 writes a 16-bit AIFF. It is used to hand a coded carrier back
// in the format it came in:
//
//	f, _ := os.Create("coded.aiff")
//	err := aiff.WritePCM16(f, 44100, 2, samples)
//
// Converting a coded WAV to AIFF and back keeps every sample bit, so the
// hidden data survives the round trip.
package aiff
