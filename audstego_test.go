// SPDX-License-Identifier: EPL-2.0

package audstego

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audstego/internal/audiotest"
	"github.com/ik5/audstego/stego"
	"github.com/ik5/audstego/transcode"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func newSession(t *testing.T, opts stego.Options) *Session {
	t.Helper()

	s, err := New(Options{Options: opts, TempDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return s
}

func TestEncodeDecodeFile(t *testing.T) {
	t.Parallel()

	for _, ext := range []string{".wav", ".flac", ".aiff"} {
		t.Run(ext, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			carrier := writeFile(t, dir, "carrier.wav", audiotest.SineCarrier(8000, 1, 2, 440, 0.4))
			secret := []byte("meet me at the usual place")
			secretPath := writeFile(t, dir, "note.txt", secret)
			output := filepath.Join(dir, "coded"+ext)

			s := newSession(t, stego.Options{Password: "hunter22", Scheme: stego.SchemeUnicode})

			res, err := s.EncodeFile(carrier, []string{secretPath}, output)
			if err != nil {
				t.Fatalf("EncodeFile() error = %v", err)
			}
			if len(res.Embedded) != 1 || res.Embedded[0].Name != "note.txt" {
				t.Fatalf("Embedded = %+v", res.Embedded)
			}

			out := filepath.Join(dir, "out")
			a, err := s.DecodeFile(output, out)
			if err != nil {
				t.Fatalf("DecodeFile() error = %v", err)
			}
			if !a.Found || !a.Header.Encrypted {
				t.Fatalf("analysis = %+v", a)
			}

			got, err := os.ReadFile(filepath.Join(out, "note.txt"))
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, secret) {
				t.Errorf("decoded %q, want %q", got, secret)
			}

			entries, _ := filepath.Glob(filepath.Join(dir, ".audstego-*"))
			if len(entries) != 0 {
				t.Errorf("scratch files left: %v", entries)
			}
		})
	}
}

func TestEncodeFile_WrongPassword(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	carrier := writeFile(t, dir, "carrier.wav", audiotest.SilentCarrier(8000, 1, 1))
	secret := writeFile(t, dir, "a.bin", []byte{1, 2, 3})
	output := filepath.Join(dir, "coded.wav")

	enc := newSession(t, stego.Options{Password: "right", Scheme: stego.SchemeASCII})
	if _, err := enc.EncodeFile(carrier, []string{secret}, output); err != nil {
		t.Fatalf("EncodeFile() error = %v", err)
	}

	dec := newSession(t, stego.Options{Password: "wrong", Scheme: stego.SchemeASCII})
	_, err := dec.DecodeFile(output, filepath.Join(dir, "out"))
	if !errors.Is(err, stego.ErrAuthenticationFailure) {
		t.Errorf("DecodeFile() error = %v, want ErrAuthenticationFailure", err)
	}
}

func TestEncodeFile_NothingFitsLeavesNoOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	carrier := writeFile(t, dir, "carrier.wav", audiotest.SilentCarrier(8000, 1, 0.1))
	big := writeFile(t, dir, "big.bin", make([]byte, 10000))
	output := filepath.Join(dir, "coded.wav")

	_, err := newSession(t, stego.Options{}).EncodeFile(carrier, []string{big}, output)
	if !errors.Is(err, stego.ErrCapacityExceeded) {
		t.Fatalf("EncodeFile() error = %v, want ErrCapacityExceeded", err)
	}

	if _, err := os.Stat(output); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output exists after failed encode: %v", err)
	}
	if entries, _ := filepath.Glob(filepath.Join(dir, ".audstego-*")); len(entries) != 0 {
		t.Errorf("scratch files left: %v", entries)
	}
}

func TestEncodeFile_LossyOutputRefused(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	carrier := writeFile(t, dir, "carrier.wav", audiotest.SilentCarrier(8000, 1, 1))
	secret := writeFile(t, dir, "a.txt", []byte("x"))

	_, err := newSession(t, stego.Options{}).EncodeFile(carrier, []string{secret}, filepath.Join(dir, "coded.mp3"))
	if !errors.Is(err, transcode.ErrUnsupportedFormat) {
		t.Errorf("EncodeFile() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestEncodeFile_MissingSecret(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	carrier := writeFile(t, dir, "carrier.wav", audiotest.SilentCarrier(8000, 1, 1))

	_, err := newSession(t, stego.Options{}).EncodeFile(carrier, []string{filepath.Join(dir, "nope")}, filepath.Join(dir, "c.wav"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("EncodeFile() error = %v, want ErrNotExist", err)
	}
}

func TestAnalyzeFile_Clean(t *testing.T) {
	t.Parallel()

	carrier := writeFile(t, t.TempDir(), "carrier.wav", audiotest.SineCarrier(8000, 2, 1, 300, 0.5))

	a, err := newSession(t, stego.Options{}).AnalyzeFile(carrier)
	if err != nil {
		t.Fatalf("AnalyzeFile() error = %v", err)
	}
	if a.Found {
		t.Errorf("Found = true on a clean carrier")
	}
}

func TestCapacity(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	carrier := writeFile(t, dir, "carrier.wav", audiotest.SilentCarrier(8000, 1, 1))

	tests := []struct {
		q    stego.Quality
		want int64
	}{
		{stego.QualityLow, (16000 - 104) / 2},
		{stego.QualityNormal, (16000 - 104) / 4},
		{stego.QualityHigh, (16000 - 104) / 8},
	}

	for _, tt := range tests {
		got, err := CarrierCapacity(carrier, tt.q)
		if err != nil {
			t.Fatalf("CarrierCapacity(%v) error = %v", tt.q, err)
		}
		if got != tt.want {
			t.Errorf("CarrierCapacity(%v) = %d, want %d", tt.q, got, tt.want)
		}
	}

	s := newSession(t, stego.Options{})
	flacPath := filepath.Join(dir, "carrier.flac")
	if err := s.tr.FromCanonicalPCM(carrier, flacPath); err != nil {
		t.Fatal(err)
	}
	got, err := s.Capacity(flacPath, stego.QualityNormal)
	if err != nil {
		t.Fatalf("Capacity(flac) error = %v", err)
	}
	if got != tests[1].want {
		t.Errorf("Capacity(flac) = %d, want %d", got, tests[1].want)
	}

	if _, err := s.Capacity(carrier, 3); !errors.Is(err, stego.ErrInvalidQuality) {
		t.Errorf("Capacity(q=3) error = %v, want ErrInvalidQuality", err)
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	carrier := writeFile(t, dir, "carrier.wav", audiotest.SineCarrier(8000, 1, 1, 440, 0.5))
	secret := writeFile(t, dir, "s.bin", bytes.Repeat([]byte{0xA5, 0x5A}, 500))
	output := filepath.Join(dir, "coded.wav")

	s := newSession(t, stego.Options{Quality: stego.QualityNormal})
	if _, err := s.EncodeFile(carrier, []string{secret}, output); err != nil {
		t.Fatalf("EncodeFile() error = %v", err)
	}

	r, err := s.Compare(carrier, output)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if r.Frames != 8000 {
		t.Errorf("Frames = %d, want 8000", r.Frames)
	}
	if math.IsInf(r.SNR, 0) || r.SNR < 40 {
		t.Errorf("SNR = %v dB, want a finite value above 40", r.SNR)
	}
	if r.MaxSampleDelta > 16.0/32768 {
		t.Errorf("MaxSampleDelta = %v, want at most one low nibble", r.MaxSampleDelta)
	}
}
