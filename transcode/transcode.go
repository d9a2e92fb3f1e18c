// SPDX-License-Identifier: EPL-2.0

package transcode

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ik5/audstego/audio"
	"github.com/ik5/audstego/formats/aiff"
	"github.com/ik5/audstego/formats/flac"
	"github.com/ik5/audstego/formats/mp3"
	"github.com/ik5/audstego/formats/vorbis"
	"github.com/ik5/audstego/formats/wav"
)

// OutputFormats are the lossless containers FromCanonicalPCM can write.
var OutputFormats = []string{"aif", "aiff", "flac", "wav"}

// DefaultRegistry returns a registry with every carrier decoder.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("flac", flac.Decoder{})

	return reg
}

// Transcoder moves carriers between their own container and canonical
// 16-bit PCM WAV.
type Transcoder struct {
	reg     *audio.Registry
	tempDir string
	log     *slog.Logger
}

// New returns a Transcoder writing scratch files to tempDir, or to the
// system temp directory when tempDir is empty.
func New(tempDir string, logger *slog.Logger) *Transcoder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Transcoder{
		reg:     DefaultRegistry(),
		tempDir: tempDir,
		log:     logger,
	}
}

// Formats lists the input extensions ToCanonicalPCM accepts.
func (t *Transcoder) Formats() []string { return t.reg.Formats() }

func ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// IsWAV reports whether path has a .wav extension.
func IsWAV(path string) bool { return ext(path) == "wav" }

func (t *Transcoder) open(path string) (audio.Source, *os.File, error) {
	dec, err := t.reg.ForPath(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrConversionFailed, path, err)
	}

	return src, f, nil
}

// ToCanonicalPCM returns the path of a 16-bit PCM WAV holding the audio of
// path. WAV input is returned as is. The cleanup func removes any scratch
// file and is always safe to call.
func (t *Transcoder) ToCanonicalPCM(path string) (string, func(), error) {
	noop := func() {}

	if IsWAV(path) {
		return path, noop, nil
	}

	src, in, err := t.open(path)
	if err != nil {
		return "", noop, err
	}
	defer in.Close()
	defer src.Close()

	out, err := os.CreateTemp(t.tempDir, "audstego-*.wav")
	if err != nil {
		return "", noop, err
	}
	name := out.Name()
	cleanup := func() {
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			t.log.Warn("removing scratch file", "path", name, "error", err)
		}
	}

	n, err := wav.Canonicalize(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && n == 0 {
		err = errors.New("no samples decoded")
	}
	if err != nil {
		cleanup()
		return "", noop, fmt.Errorf("%w: %s: %w", ErrConversionFailed, path, err)
	}

	t.log.Debug("converted to canonical PCM", "from", path, "to", name,
		"rate", src.SampleRate(), "channels", src.Channels(), "samples", n)

	return name, cleanup, nil
}

// FromCanonicalPCM writes the 16-bit PCM WAV at pcm to target in the
// container named by target's extension. Only lossless containers are
// accepted.
func (t *Transcoder) FromCanonicalPCM(pcm, target string) error {
	switch ext(target) {
	case "wav":
		return copyFile(pcm, target)
	case "flac", "aiff", "aif":
	default:
		return fmt.Errorf("%w: cannot write %q without losing hidden data", ErrUnsupportedFormat, filepath.Ext(target))
	}

	in, err := os.Open(pcm)
	if err != nil {
		return err
	}
	defer in.Close()

	buf, err := wav.ReadPCM(in)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}

	out, err := os.Create(target)
	if err != nil {
		return err
	}

	rate, channels := buf.Format.SampleRate, buf.Format.NumChannels
	if ext(target) == "flac" {
		err = flac.WritePCM16(out, rate, channels, buf.Data)
	} else {
		err = aiff.WritePCM16(out, rate, channels, buf.Data)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(target)
		return fmt.Errorf("%w: %s: %w", ErrConversionFailed, target, err)
	}

	t.log.Debug("converted from canonical PCM", "to", target, "rate", rate, "channels", channels)

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

// Info describes an audio file.
type Info struct {
	Format     string
	SampleRate int
	Channels   int
	Frames     int64
	Duration   time.Duration
}

// Probe decodes path fully and reports its format and length.
func (t *Transcoder) Probe(path string) (*Info, error) {
	src, in, err := t.open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	defer src.Close()

	frames, err := audio.CountFrames(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConversionFailed, path, err)
	}

	info := &Info{
		Format:     ext(path),
		SampleRate: src.SampleRate(),
		Channels:   src.Channels(),
		Frames:     frames,
	}
	if info.SampleRate > 0 {
		info.Duration = time.Duration(frames) * time.Second / time.Duration(info.SampleRate)
	}

	return info, nil
}
