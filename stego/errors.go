// SPDX-License-Identifier: EPL-2.0

package stego

import "errors"

var (
	// ErrMalformedContainer is returned for carriers that are not RIFF/WAVE,
	// have an invalid chunk size, lack a fmt chunk or are not integer PCM.
	ErrMalformedContainer = errors.New("malformed audio container")

	// ErrCapacityExceeded is returned when secrets do not fit in the carrier.
	ErrCapacityExceeded = errors.New("carrier capacity exceeded")

	// ErrNoHiddenData is returned by the scanner when no capability header
	// is found inside the search window.
	ErrNoHiddenData = errors.New("no hidden data found")

	// ErrAuthenticationFailure is returned when a password does not match
	// the verifier stored in the capability header.
	ErrAuthenticationFailure = errors.New("invalid password")

	// ErrKeyEntryCancelled is returned when the key provider cancels.
	ErrKeyEntryCancelled = errors.New("key entry cancelled")

	// ErrUnsupportedKDFVersion is returned for key derivation versions this
	// package does not implement.
	ErrUnsupportedKDFVersion = errors.New("unsupported KDF version")

	ErrInvalidQuality   = errors.New("invalid quality mode")
	ErrInvalidBlockSize = errors.New("block size must be a multiple of 16 between 1 KiB and 512 MiB")
	ErrNoSecrets        = errors.New("no secret files to encode")
	ErrInvalidHeader    = errors.New("invalid capability header")
)
