// SPDX-License-Identifier: EPL-2.0

package config

import "errors"

var (
	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")

	ErrInvalidQuality = errors.New("config: invalid quality (must be \"low\", \"normal\", or \"high\")")

	ErrInvalidKDF = errors.New("config: invalid kdf (must be \"argon2id\", \"unicode\", or \"ascii\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	ErrInvalidBlockSize = errors.New("config: invalid block size")

	ErrInvalidScanLimit = errors.New("config: scan limit must be positive")
)
