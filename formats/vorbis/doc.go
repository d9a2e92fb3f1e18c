// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files for use as carriers.
//
// Like MP3, Vorbis is lossy, so it is only ever an input: the decoded
// samples are re-encoded as 16-bit PCM WAV before anything is hidden.
//
//	src, err := vorbis.Decoder{}.Decode(file)
//
// The source keeps the stream's channel count and sample rate.
package vorbis
