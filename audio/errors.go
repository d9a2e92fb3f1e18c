// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrUnknownFormat  = errors.New("no decoder for format")
)

// UnknownFormatError names the extension that has no decoder.
type UnknownFormatError struct {
	Ext string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownFormat, e.Ext)
}

func (e *UnknownFormatError) Unwrap() error { return ErrUnknownFormat }
