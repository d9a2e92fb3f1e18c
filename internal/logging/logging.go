// SPDX-License-Identifier: EPL-2.0

// Package logging builds the CLI's slog logger.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var ErrInvalidLevel = errors.New("logging: invalid level")

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}

	return l, nil
}

// New returns a text logger at level writing to path, or to stderr when
// path is empty. The returned closer releases the log file.
func New(level, path string) (*slog.Logger, io.Closer, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	if path == "" {
		return NewWriter(os.Stderr, l), nopCloser{}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}

	return NewWriter(f, l), f, nil
}

// NewWriter returns a text logger at level writing to w.
func NewWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
