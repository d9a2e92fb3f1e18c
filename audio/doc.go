// SPDX-License-Identifier: EPL-2.0

// Package audio holds the sample-level plumbing shared by the format
// packages.
//
// # Source Interface
//
// Every decoder produces a Source of interleaved float32 samples in
// [-1.0, 1.0]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// # Registry
//
// A Registry maps file extensions to decoders, so a carrier path picks its
// own decoder:
//
//	reg := audio.NewRegistry()
//	reg.Register("flac", flac.Decoder{})
//	dec, err := reg.ForPath("song.FLAC")
//
// Unknown extensions fail with an error matching ErrUnknownFormat.
//
// # Channel Mixing
//
// MonoMixer averages all channels into one. It is used when comparing a
// carrier with its coded copy, where per-channel detail does not matter.
package audio
