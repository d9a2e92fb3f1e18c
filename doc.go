// SPDX-License-Identifier: EPL-2.0

// Package audstego hides files inside audio carriers.
//
// Hidden data lives in the low-order bits of 16-bit PCM samples. The
// stego package does the work on WAV streams; this package adds the file
// plumbing around it: carriers in FLAC, AIFF, MP3 or Ogg Vorbis are
// transcoded to PCM WAV first, and coded output can be written as WAV,
// FLAC or AIFF.
//
// # Quick Start
//
//	s, err := audstego.New(audstego.Options{
//	    Options: stego.Options{Quality: stego.QualityNormal, Password: "pw"},
//	})
//	if err != nil {
//	    return err
//	}
//
//	res, err := s.EncodeFile("song.flac", []string{"notes.txt"}, "song-coded.flac")
//	// res.Skipped lists files that did not fit.
//
//	a, err := s.DecodeFile("song-coded.flac", "extracted")
//	// a.Found is false when the file holds nothing.
//
// # Quality
//
// Quality is the number of carrier bytes spent per hidden byte. LOW (2)
// holds the most and is the easiest to hear, HIGH (8) holds a quarter of
// that. CarrierCapacity reports how much a carrier can take:
//
//	n, err := audstego.CarrierCapacity("song.wav", stego.QualityHigh)
//
// # Output Formats
//
// Only lossless containers keep the hidden bits intact, so MP3 and Ogg
// are accepted as carriers but refused as output.
//
// # Distortion
//
// Session.Compare reports the SNR and log-spectral distance between a
// carrier and its coded copy.
package audstego
