// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files so they can serve as carriers.
//
// Hidden data only survives in uncompressed PCM, so an MP3 carrier is first
// decoded to samples and written out as 16-bit WAV. The output of an encode
// is never MP3.
//
//	src, err := mp3.Decoder{}.Decode(file)
//	if errors.Is(err, mp3.ErrNotMP3File) {
//	    // not an MP3 stream
//	}
//
// The source is always stereo at the stream's sample rate, with samples in
// [-1.0, 1.0).
package mp3
