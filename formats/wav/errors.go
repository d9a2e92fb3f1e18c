// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile            = errors.New("not a WAV file")
	ErrUnsupportedWavLayout  = errors.New("unsupported WAV layout")
	ErrOnlyPCM16bitSupported = errors.New("only PCM 16-bit supported")
	ErrInvalidChunkSize      = errors.New("invalid chunk size")
	ErrMissingFormatChunk    = errors.New("format chunk not found")
	ErrNotPCM                = errors.New("only PCM audio format is supported")
)
