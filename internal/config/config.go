// SPDX-License-Identifier: EPL-2.0

// Package config loads the audstego CLI settings from a key = value file.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ik5/audstego/stego"
)

// Config holds the CLI defaults. Command line flags override them.
type Config struct {
	Quality   string
	KDF       string
	BlockSize int
	ScanLimit int64
	// TempDir holds transcoding scratch files; empty means os.TempDir().
	TempDir  string
	LogLevel string
	// LogFile is empty for stderr.
	LogFile string
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Quality:   "normal",
		KDF:       "argon2id",
		BlockSize: stego.DefaultBlockSize,
		ScanLimit: stego.DefaultScanLimit,
		LogLevel:  "warn",
	}
}

// DefaultPath is the per-user config location, ~/.config/audstego/config.
// It is empty when no user config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "audstego", "config")
}

// LoadConfig reads path on top of DefaultConfig. Blank lines and lines
// starting with # are skipped and unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++

		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}

		if err := cfg.set(strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value)); err != nil {
			return cfg, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}

	if err := sc.Err(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

func (c *Config) set(key, value string) error {
	switch key {
	case "quality":
		c.Quality = value
	case "kdf":
		c.KDF = value
	case "blocksize":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidBlockSize, err)
		}
		c.BlockSize = n
	case "scanlimit":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidScanLimit, err)
		}
		c.ScanLimit = n
	case "tempdir":
		c.TempDir = value
	case "loglevel":
		c.LogLevel = value
	case "logfile":
		c.LogFile = value
	}

	return nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var b strings.Builder
	b.WriteString("# audstego configuration\n")
	fmt.Fprintf(&b, "quality = %s\n", cfg.Quality)
	fmt.Fprintf(&b, "kdf = %s\n", cfg.KDF)
	fmt.Fprintf(&b, "blocksize = %d\n", cfg.BlockSize)
	fmt.Fprintf(&b, "scanlimit = %d\n", cfg.ScanLimit)
	fmt.Fprintf(&b, "tempdir = %s\n", cfg.TempDir)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return nil
}

// Options converts cfg into coder options. The config must be valid.
func (c Config) Options() (stego.Options, error) {
	q, err := stego.ParseQuality(c.Quality)
	if err != nil {
		return stego.Options{}, fmt.Errorf("%w: %w", ErrInvalidQuality, err)
	}

	scheme, err := stego.ParseScheme(c.KDF)
	if err != nil {
		return stego.Options{}, fmt.Errorf("%w: %w", ErrInvalidKDF, err)
	}

	return stego.Options{
		Quality:   q,
		Scheme:    scheme,
		BlockSize: c.BlockSize,
		ScanLimit: c.ScanLimit,
	}, nil
}
