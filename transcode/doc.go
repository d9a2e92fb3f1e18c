// SPDX-License-Identifier: EPL-2.0

// Package transcode converts carriers to and from canonical 16-bit PCM WAV.
//
// The stego coder only understands PCM WAV. FLAC, AIFF, MP3 and Ogg Vorbis
// carriers are decoded through the format packages and written as a
// scratch WAV with the same sample rate and channel count:
//
//	t := transcode.New("", logger)
//	pcm, cleanup, err := t.ToCanonicalPCM("song.flac")
//	if err != nil {
//	    return err
//	}
//	defer cleanup()
//
// Coded output can be written back to a lossless container with
// FromCanonicalPCM. Lossy targets are refused with ErrUnsupportedFormat.
package transcode
