// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audstego/internal/config"
)

func testConfig(t *testing.T) string {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.LogLevel = "error"
	cfg.KDF = "unicode"
	cfg.TempDir = t.TempDir()

	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, config.SaveConfig(path, cfg))

	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: audstego")

	code, _, stderr = runCLI(t, "-config", testConfig(t), "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)

	code, _, _ = runCLI(t, "-config", testConfig(t), "encode")
	assert.Equal(t, 2, code)
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "-version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "audstego "+version+"\n", stdout)
}

func TestRun_BadConfig(t *testing.T) {
	code, _, stderr := runCLI(t, "-config", filepath.Join(t.TempDir(), "missing"), "info")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "configuration file not found")

	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte("quality = ultra\n"), 0o600))

	code, _, stderr = runCLI(t, "-config", path, "info")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid quality")
}

func TestRun_Info(t *testing.T) {
	code, stdout, _ := runCLI(t, "-config", testConfig(t), "info")
	require.Equal(t, 0, code)

	assert.Contains(t, stdout, "aif, aiff, flac, mp3, ogg, wav")
	assert.Contains(t, stdout, "normal  4 carrier bytes per hidden byte")
}

func TestRun_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()

	code, stdout, stderr := runCLI(t, "-config", cfg, "testfiles", "-dir", dir)
	require.Equal(t, 0, code, stderr)
	for _, name := range []string{"test_secret.txt", "test_document.txt", "test_carrier.wav", "test_carrier.flac", "test_carrier.aiff"} {
		assert.Contains(t, stdout, "created "+name)
		assert.FileExists(t, filepath.Join(dir, name))
	}

	code, stdout, stderr = runCLI(t, "-config", cfg, "capacity", "-i", filepath.Join(dir, "test_carrier.flac"), "-q", "high")
	require.Equal(t, 0, code, stderr)
	// 5 s of 44.1 kHz mono is 441000 data bytes.
	assert.Contains(t, stdout, "Capacity:   55112 bytes")

	coded := filepath.Join(dir, "coded.flac")
	code, stdout, stderr = runCLI(t, "-config", cfg, "encode",
		"-i", filepath.Join(dir, "test_carrier.aiff"), "-o", coded, "-p", "pw", "-report",
		filepath.Join(dir, "test_secret.txt"), filepath.Join(dir, "test_document.txt"))
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "+ test_secret.txt")
	assert.Contains(t, stdout, "+ test_document.txt")
	assert.Contains(t, stdout, "SNR:")

	code, stdout, stderr = runCLI(t, "-config", cfg, "analyze", "-i", coded, "-p", "pw")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Encrypted:  true (legacy key)")
	assert.Contains(t, stdout, "2 file(s)")

	out := filepath.Join(dir, "out")
	code, stdout, stderr = runCLI(t, "-config", cfg, "decode", "-i", coded, "-o", out, "-p", "pw")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Extracted 2 file(s).")

	for _, name := range []string{"test_secret.txt", "test_document.txt"} {
		want, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(out, name))
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	code, _, stderr = runCLI(t, "-config", cfg, "decode", "-i", coded, "-o", out, "-p", "wrong")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid password")
}

func TestRun_AnalyzeClean(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()

	code, _, stderr := runCLI(t, "-config", cfg, "testfiles", "-dir", dir)
	require.Equal(t, 0, code, stderr)

	code, stdout, _ := runCLI(t, "-config", cfg, "analyze", "-i", filepath.Join(dir, "test_carrier.wav"))
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "No hidden data found.")
}
