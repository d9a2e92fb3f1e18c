// SPDX-License-Identifier: EPL-2.0

// Package stego hides files inside 16-bit PCM WAV audio by rewriting the low
// bits of sample bytes, and finds them again without knowing where they are.
//
// # Carrier Layout
//
// A coded carrier is byte-for-byte as long as the original:
//
//	WAV head | capability header | record | record | ... | untouched samples
//
// The WAV head is copied verbatim. The capability header is always embedded
// at NORMAL quality; it records the payload quality, whether the payload is
// encrypted and, if so, how to verify a password. Each record frames one
// file:
//
//	"DSSF" | name (20) | length (4, big-endian) | 0 (4) | content | zero padding | "DSSF"
//
// Padding brings content plus footer to a multiple of 16 bytes.
//
// # Quality
//
// Quality is the number of carrier bytes spent per payload byte:
//
//	QualityLow    (2)  whole low byte of every sample
//	QualityNormal (4)  low nibble of every other sample's low byte
//	QualityHigh   (8)  low two bits of every other sample's low byte
//
// Capacity halves with each step up:
//
//	n := stego.Capacity(carrierSize, headLength, stego.QualityNormal)
//
// # Encoding
//
//	coder, err := stego.NewCoder(stego.Options{
//	    Quality:  stego.QualityHigh,
//	    Password: "correct-horse",
//	})
//	secret, _ := stego.FileSecret("notes.txt")
//	res, err := coder.Encode(carrier, []stego.Secret{secret}, out)
//
// Secrets that do not fit are listed in EncodeResult.Skipped. When none
// fit, Encode returns ErrCapacityExceeded before writing anything.
//
// # Decoding
//
// The decoder scans the first DefaultScanLimit sample bytes for a header,
// trying the current magic "DSC2" before the legacy "DSCF":
//
//	coder, _ := stego.NewCoder(stego.Options{Keys: prompt})
//	analysis, err := coder.Decode(coded, stego.DirSink("out"))
//	if err == nil && !analysis.Found {
//	    // nothing hidden
//	}
//
// Encrypted carriers need a password. The configured one is tried first,
// then the KeyProvider is asked once. A wrong password fails with
// ErrAuthenticationFailure; a cancelled prompt with ErrKeyEntryCancelled.
//
// # Key Derivation
//
// Three schemes exist. SchemeArgon2id is the default and stores a random
// salt and an AES-GCM verifier in the header. SchemeUnicode and SchemeASCII
// are unsalted legacy schemes with SHA-1 verifiers. The header decides which
// scheme a decoder uses; Options.Scheme only picks the first attempt.
//
// The payload itself is encrypted with AES-256 applied to each 16-byte block
// independently. Equal plaintext blocks give equal ciphertext blocks. The
// mode is kept so that existing coded files stay readable.
package stego
