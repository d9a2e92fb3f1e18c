// SPDX-License-Identifier: EPL-2.0

// Package flac reads and writes FLAC files using github.com/mewkiz/flac.
//
// FLAC is lossless, so a coded carrier can be stored as FLAC and converted
// back to WAV without disturbing the hidden bits.
//
//	src, err := flac.Decoder{}.Decode(file)
//
//	err = flac.WritePCM16(out, 44100, 2, samples)
//
// WritePCM16 handles mono and stereo and stores frames verbatim.
package flac
