// SPDX-License-Identifier: EPL-2.0

package audstego

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/audstego/audio"
	"github.com/ik5/audstego/distortion"
	"github.com/ik5/audstego/formats/wav"
	"github.com/ik5/audstego/stego"
	"github.com/ik5/audstego/transcode"
)

// Options configure a Session.
type Options struct {
	stego.Options

	// TempDir receives transcoding scratch files; empty means os.TempDir().
	TempDir string
}

// Session encodes and decodes carrier files of any supported format.
type Session struct {
	coder *stego.Coder
	tr    *transcode.Transcoder
	log   *slog.Logger
}

// New returns a Session for opts.
func New(opts Options) (*Session, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
		opts.Logger = log
	}

	coder, err := stego.NewCoder(opts.Options)
	if err != nil {
		return nil, err
	}

	return &Session{
		coder: coder,
		tr:    transcode.New(opts.TempDir, log),
		log:   log,
	}, nil
}

func writable(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, f := range transcode.OutputFormats {
		if f == ext {
			return true
		}
	}

	return false
}

// EncodeFile hides secrets in carrier and writes the result to output,
// whose extension picks the container. output is only replaced once the
// whole encode succeeded.
func (s *Session) EncodeFile(carrier string, secrets []string, output string) (*stego.EncodeResult, error) {
	if !writable(output) {
		return nil, fmt.Errorf("%w: output %q", transcode.ErrUnsupportedFormat, filepath.Ext(output))
	}

	list := make([]stego.Secret, 0, len(secrets))
	for _, p := range secrets {
		sec, err := stego.FileSecret(p)
		if err != nil {
			return nil, err
		}
		list = append(list, sec)
	}

	pcm, cleanup, err := s.tr.ToCanonicalPCM(carrier)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	in, err := os.Open(pcm)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	dir := filepath.Dir(output)
	coded, err := os.CreateTemp(dir, ".audstego-*.wav")
	if err != nil {
		return nil, err
	}
	defer os.Remove(coded.Name())

	if err := coded.Chmod(0o644); err != nil {
		coded.Close()
		return nil, err
	}

	bw := bufio.NewWriterSize(coded, 1<<16)
	res, err := s.coder.Encode(in, list, bw)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := coded.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return res, err
	}

	if transcode.IsWAV(output) {
		return res, os.Rename(coded.Name(), output)
	}

	staged, err := os.CreateTemp(dir, ".audstego-*"+filepath.Ext(output))
	if err != nil {
		return res, err
	}
	staged.Close()
	defer os.Remove(staged.Name())

	if err := os.Chmod(staged.Name(), 0o644); err != nil {
		return res, err
	}

	if err := s.tr.FromCanonicalPCM(coded.Name(), staged.Name()); err != nil {
		return res, err
	}

	return res, os.Rename(staged.Name(), output)
}

// DecodeFile extracts every hidden file in coded into outDir. It returns
// an Analysis with Found unset when coded holds nothing.
func (s *Session) DecodeFile(coded, outDir string) (*stego.Analysis, error) {
	pcm, cleanup, err := s.tr.ToCanonicalPCM(coded)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	f, err := os.Open(pcm)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return s.coder.Decode(f, stego.DirSink(outDir))
}

// AnalyzeFile lists the hidden files in coded without extracting them.
func (s *Session) AnalyzeFile(coded string) (*stego.Analysis, error) {
	pcm, cleanup, err := s.tr.ToCanonicalPCM(coded)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	f, err := os.Open(pcm)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return s.coder.Analyze(f)
}

// Capacity is the number of payload bytes path can carry at quality q.
func (s *Session) Capacity(path string, q stego.Quality) (int64, error) {
	if !q.Valid() {
		return 0, fmt.Errorf("%w: %d", stego.ErrInvalidQuality, int(q))
	}

	pcm, cleanup, err := s.tr.ToCanonicalPCM(path)
	if err != nil {
		return 0, err
	}
	defer cleanup()

	f, err := os.Open(pcm)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}

	head := int64(wav.CanonicalHeaderSize)
	if transcode.IsWAV(path) {
		c, err := stego.ParseContainer(f)
		if err != nil {
			return 0, err
		}
		head = c.DataOffset
	}

	return stego.Capacity(fi.Size(), head, q), nil
}

// Compare measures the distortion coded adds to carrier.
func (s *Session) Compare(carrier, coded string) (*distortion.Report, error) {
	a, closeA, err := s.openPCM(carrier)
	if err != nil {
		return nil, err
	}
	defer closeA()

	b, closeB, err := s.openPCM(coded)
	if err != nil {
		return nil, err
	}
	defer closeB()

	return distortion.Measure(a, b, distortion.DefaultFrameSize)
}

func (s *Session) openPCM(path string) (audio.Source, func(), error) {
	pcm, cleanup, err := s.tr.ToCanonicalPCM(path)
	if err != nil {
		return nil, func() {}, err
	}

	f, err := os.Open(pcm)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}

	src, err := wav.Decoder{}.Decode(bufio.NewReader(f))
	if err != nil {
		f.Close()
		cleanup()
		return nil, func() {}, fmt.Errorf("%w: %w", transcode.ErrConversionFailed, err)
	}

	return src, func() {
		src.Close()
		f.Close()
		cleanup()
	}, nil
}

// CarrierCapacity is Session.Capacity with default options.
func CarrierCapacity(path string, q stego.Quality) (int64, error) {
	s, err := New(Options{})
	if err != nil {
		return 0, err
	}

	return s.Capacity(path, q)
}
