// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/ik5/audstego"
	"github.com/ik5/audstego/stego"
	"github.com/ik5/audstego/transcode"
)

type sessionFlags struct {
	quality   string
	kdf       string
	password  string
	blockSize int
}

func (a *app) session(f sessionFlags, keys stego.KeyProvider, progress bool) (*audstego.Session, error) {
	cfg := a.cfg
	cfg.Quality = f.quality
	cfg.KDF = f.kdf
	cfg.BlockSize = f.blockSize

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	opts.Password = f.password
	opts.Keys = keys
	opts.Logger = a.log
	if progress {
		opts.Progress = stego.ProgressFunc(func() { fmt.Fprint(a.stderr, ".") })
	}

	return audstego.New(audstego.Options{Options: opts, TempDir: cfg.TempDir})
}

func mib(n int64) float64 { return float64(n) / (1 << 20) }

func (a *app) encode(args []string) error {
	fs := a.flagSet("encode", "-i carrier -o output [flags] secret...")
	input := fs.String("i", "", "carrier audio file (wav, flac, mp3, ogg, aiff)")
	output := fs.String("o", "", "output file (wav, flac, aiff)")
	quality := fs.String("q", a.cfg.Quality, "quality: low, normal or high")
	kdf := fs.String("kdf", a.cfg.KDF, "key derivation: argon2id, unicode or ascii")
	password := fs.String("p", "", "password, enables encryption")
	prompt := fs.Bool("prompt", false, "read the password from the terminal")
	block := fs.Int("block", a.cfg.BlockSize, "block size in bytes")
	report := fs.Bool("report", false, "measure the distortion added to the carrier")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *output == "" || fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	pw := *password
	if *prompt {
		var err error
		if pw, err = promptNewPassword(a.stderr); err != nil {
			return err
		}
	}

	s, err := a.session(sessionFlags{quality: *quality, kdf: *kdf, password: pw, blockSize: *block}, nil, true)
	if err != nil {
		return err
	}

	res, err := s.EncodeFile(*input, fs.Args(), *output)
	fmt.Fprintln(a.stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Output:     %s\n", *output)
	fmt.Fprintf(a.stdout, "Quality:    %s\n", res.Header.Quality)
	fmt.Fprintf(a.stdout, "Encrypted:  %t\n", res.Header.Encrypted)
	fmt.Fprintf(a.stdout, "Capacity:   %d bytes (%.2f MiB)\n", res.Capacity, mib(res.Capacity))
	for _, r := range res.Embedded {
		fmt.Fprintf(a.stdout, "  + %-24s %d bytes\n", r.Name, r.Size)
	}
	for _, sk := range res.Skipped {
		fmt.Fprintf(a.stdout, "  - %-24s %d bytes (does not fit)\n", sk.Name, sk.Size)
	}

	if *report {
		r, err := s.Compare(*input, *output)
		if err != nil {
			return fmt.Errorf("distortion report: %w", err)
		}

		snr := fmt.Sprintf("%.2f dB", r.SNR)
		if math.IsInf(r.SNR, 1) {
			snr = "identical"
		}
		fmt.Fprintf(a.stdout, "SNR:        %s\n", snr)
		fmt.Fprintf(a.stdout, "Max delta:  %.6f\n", r.MaxSampleDelta)
		fmt.Fprintf(a.stdout, "Spectral:   %.4f dB over %d frames\n", r.SpectralDistortion, r.SpectralFrames)
	}

	return nil
}

func (a *app) decode(args []string) error {
	fs := a.flagSet("decode", "-i coded [-o dir] [flags]")
	input := fs.String("i", "", "coded audio file")
	outDir := fs.String("o", "decoded", "directory for extracted files")
	kdf := fs.String("kdf", a.cfg.KDF, "key derivation tried first: argon2id, unicode or ascii")
	password := fs.String("p", "", "password for encrypted files")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		fs.Usage()
		return errUsage
	}

	s, err := a.session(sessionFlags{quality: a.cfg.Quality, kdf: *kdf, password: *password, blockSize: a.cfg.BlockSize},
		terminalKeys(a.stderr), true)
	if err != nil {
		return err
	}

	res, err := s.DecodeFile(*input, *outDir)
	fmt.Fprintln(a.stderr)
	if err != nil {
		return err
	}

	if !res.Found {
		fmt.Fprintln(a.stdout, "No hidden data found.")
		return nil
	}

	for _, r := range res.Records {
		fmt.Fprintf(a.stdout, "  %s/%s (%d bytes)\n", strings.TrimSuffix(*outDir, "/"), r.Name, r.Size)
	}
	fmt.Fprintf(a.stdout, "Extracted %d file(s).\n", len(res.Records))

	return nil
}

func (a *app) analyze(args []string) error {
	fs := a.flagSet("analyze", "-i coded [flags]")
	input := fs.String("i", "", "audio file to inspect")
	kdf := fs.String("kdf", a.cfg.KDF, "key derivation tried first: argon2id, unicode or ascii")
	password := fs.String("p", "", "password for encrypted files")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		fs.Usage()
		return errUsage
	}

	s, err := a.session(sessionFlags{quality: a.cfg.Quality, kdf: *kdf, password: *password, blockSize: a.cfg.BlockSize},
		terminalKeys(a.stderr), false)
	if err != nil {
		return err
	}

	res, err := s.AnalyzeFile(*input)
	if err != nil {
		return err
	}

	if !res.Found {
		fmt.Fprintln(a.stdout, "No hidden data found.")
		return nil
	}

	h := res.Header
	fmt.Fprintf(a.stdout, "Header:     %s at sample byte %d\n", h.Magic, res.Offset)
	fmt.Fprintf(a.stdout, "Quality:    %s\n", h.Quality)
	fmt.Fprintf(a.stdout, "Encrypted:  %t", h.Encrypted)
	if h.Encrypted {
		fmt.Fprintf(a.stdout, " (%s key)", h.KDFVersion)
	}
	fmt.Fprintln(a.stdout)

	var total int64
	for _, r := range res.Records {
		fmt.Fprintf(a.stdout, "  %-24s %d bytes\n", r.Name, r.Size)
		total += r.Size
	}
	fmt.Fprintf(a.stdout, "%d file(s), %d bytes\n", len(res.Records), total)

	return nil
}

func (a *app) capacity(args []string) error {
	fs := a.flagSet("capacity", "-i carrier [-q quality]")
	input := fs.String("i", "", "carrier audio file")
	quality := fs.String("q", a.cfg.Quality, "quality: low, normal or high")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		fs.Usage()
		return errUsage
	}

	q, err := stego.ParseQuality(*quality)
	if err != nil {
		return err
	}

	s, err := a.session(sessionFlags{quality: *quality, kdf: a.cfg.KDF, blockSize: a.cfg.BlockSize}, nil, false)
	if err != nil {
		return err
	}

	n, err := s.Capacity(*input, q)
	if err != nil {
		return err
	}

	fi, err := os.Stat(*input)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "File:       %s (%.2f MiB)\n", *input, mib(fi.Size()))
	fmt.Fprintf(a.stdout, "Quality:    %s\n", q)
	fmt.Fprintf(a.stdout, "Capacity:   %d bytes (%.2f MiB)\n", n, mib(n))

	return nil
}

func (a *app) info(args []string) error {
	fs := a.flagSet("info", "")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tr := transcode.New(a.cfg.TempDir, a.log)

	fmt.Fprintf(a.stdout, "audstego %s\n\n", version)
	fmt.Fprintln(a.stdout, "Carriers:  ", strings.Join(tr.Formats(), ", "))
	fmt.Fprintln(a.stdout, "Outputs:   ", strings.Join(transcode.OutputFormats, ", "))
	fmt.Fprintln(a.stdout, "Secrets:    any file type")
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Quality modes:")
	for _, q := range []stego.Quality{stego.QualityLow, stego.QualityNormal, stego.QualityHigh} {
		fmt.Fprintf(a.stdout, "  %-7s %d carrier bytes per hidden byte\n", q, int(q))
	}
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Key derivation: argon2id (default), unicode (legacy), ascii")

	return nil
}
