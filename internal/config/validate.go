// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"strings"

	"github.com/ik5/audstego/stego"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig returns the first invalid setting in cfg, or nil.
func ValidateConfig(cfg Config) error {
	if _, err := stego.ParseQuality(cfg.Quality); err != nil {
		return ErrInvalidQuality
	}

	if _, err := stego.ParseScheme(cfg.KDF); err != nil {
		return ErrInvalidKDF
	}

	if err := stego.ValidateBlockSize(cfg.BlockSize); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBlockSize, err)
	}

	if cfg.ScanLimit <= 0 {
		return ErrInvalidScanLimit
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	return nil
}
