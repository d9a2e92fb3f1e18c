// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/ik5/audstego/formats/wav"
	"github.com/ik5/audstego/transcode"
)

const (
	testRate      = 44100
	testSeconds   = 5
	testFreq      = 440
	testAmplitude = 0.3
)

var testTexts = []struct{ name, text string }{
	{"test_secret.txt", "This is a SECRET MESSAGE!\n" +
		"If you can read this, the steganography worked!\n" +
		"==================================================\n"},
	{"test_document.txt", "CONFIDENTIAL DOCUMENT\n" +
		"Project: Phoenix\n" +
		"Classification: Top Secret\n"},
}

func (a *app) testFiles(args []string) error {
	fs := a.flagSet("testfiles", "[-dir path] [-carrier=false]")
	dir := fs.String("dir", "testfiles", "directory to write into")
	carrier := fs.Bool("carrier", true, "also write a 5 s sine carrier as wav, flac and aiff")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		return err
	}

	for _, t := range testTexts {
		if err := os.WriteFile(filepath.Join(*dir, t.name), []byte(t.text), 0o644); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, "created", t.name)
	}

	if !*carrier {
		return nil
	}

	wavPath := filepath.Join(*dir, "test_carrier.wav")
	if err := writeSine(wavPath); err != nil {
		return fmt.Errorf("writing test carrier: %w", err)
	}
	fmt.Fprintln(a.stdout, "created test_carrier.wav")

	tr := transcode.New(a.cfg.TempDir, a.log)
	for _, ext := range []string{".flac", ".aiff"} {
		name := "test_carrier" + ext
		if err := tr.FromCanonicalPCM(wavPath, filepath.Join(*dir, name)); err != nil {
			a.log.Warn("conversion failed", "target", name, "error", err)
			continue
		}
		fmt.Fprintln(a.stdout, "created", name)
	}

	return nil
}

func writeSine(path string) error {
	samples := make([]int16, testRate*testSeconds)
	for i := range samples {
		samples[i] = int16(32767 * testAmplitude * math.Sin(2*math.Pi*testFreq*float64(i)/testRate))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	err = wav.WritePCM16(bw, testRate, 1, samples)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	return err
}
