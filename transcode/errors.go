// SPDX-License-Identifier: EPL-2.0

package transcode

import "errors"

var (
	// ErrUnsupportedFormat is returned for extensions with no decoder, or
	// for lossy targets that would destroy hidden data.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrConversionFailed wraps decoder and encoder failures.
	ErrConversionFailed = errors.New("audio conversion failed")
)
