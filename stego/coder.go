// SPDX-License-Identifier: EPL-2.0

package stego

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
)

const (
	DefaultBlockSize = 1 << 20
	MinBlockSize     = 1 << 10
	MaxBlockSize     = 512 << 20
)

// ValidateBlockSize checks that size is a multiple of 16 in
// [MinBlockSize, MaxBlockSize].
func ValidateBlockSize(size int) error {
	if size < MinBlockSize || size > MaxBlockSize || size%16 != 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, size)
	}

	return nil
}

// Options configure a Coder. The zero value encodes at NORMAL quality
// without encryption.
type Options struct {
	Quality Quality
	// Password enables encryption on encode and is the first password
	// tried on decode.
	Password string
	// Scheme is the key derivation used on encode and the first one tried
	// on decode.
	Scheme Scheme

	BlockSize int
	ScanLimit int64

	Keys     KeyProvider
	Progress ProgressHook
	Logger   *slog.Logger

	// magic overrides the header magic written on encode.
	magic string
}

// Coder hides files in PCM WAV carriers and finds them again. A Coder holds
// no per-call state and may be shared.
type Coder struct {
	opts Options
	log  *slog.Logger
}

// NewCoder validates opts and fills in defaults.
func NewCoder(opts Options) (*Coder, error) {
	if opts.Quality == 0 {
		opts.Quality = QualityNormal
	}
	if !opts.Quality.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuality, int(opts.Quality))
	}

	if opts.BlockSize == 0 {
		opts.BlockSize = DefaultBlockSize
	}
	if err := ValidateBlockSize(opts.BlockSize); err != nil {
		return nil, err
	}

	if opts.ScanLimit <= 0 {
		opts.ScanLimit = DefaultScanLimit
	}

	if opts.magic == "" {
		opts.magic = MagicCurrent
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Coder{opts: opts, log: log}, nil
}

// alignedBlock rounds the block size down so that each block holds a whole
// number of cipher blocks at quality q.
func (c *Coder) alignedBlock(q Quality) int {
	step := recordBlock * int(q)
	return c.opts.BlockSize - c.opts.BlockSize%step
}

func (c *Coder) onBlock() {
	if c.opts.Progress != nil {
		c.opts.Progress.OnBlock()
	}
}

// SkippedSecret is a secret left out of an encode because it did not fit.
type SkippedSecret struct {
	Name string
	Size int64
}

// EncodeResult describes a finished encode.
type EncodeResult struct {
	Header   *Header
	Embedded []Record
	Skipped  []SkippedSecret
	// Capacity is the carrier's rated payload capacity in bytes.
	Capacity int64
	Written  int64
}

// Encode writes carrier to out with secrets hidden in its samples. Output
// has exactly the carrier's length. Secrets that do not fit are skipped and
// reported; if none fit, ErrCapacityExceeded is returned and nothing is
// written.
func (c *Coder) Encode(carrier io.ReadSeeker, secrets []Secret, out io.Writer) (*EncodeResult, error) {
	if len(secrets) == 0 {
		return nil, ErrNoSecrets
	}

	total, err := carrier.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := carrier.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	cont, err := ParseContainer(carrier)
	if err != nil {
		return nil, err
	}
	if cont.BitsPerSample != 16 {
		c.log.Warn("carrier is not 16-bit PCM", "bits", cont.BitsPerSample)
	}

	q := c.opts.Quality

	var key *Key
	if c.opts.Password != "" {
		if key, err = DeriveKey(c.opts.Scheme, c.opts.Password, nil); err != nil {
			return nil, err
		}
	}

	magic := c.opts.magic
	// Under DSC2 a legacy verifier starting with 0x01 reads back as an
	// Argon2id header. DSCF headers are always parsed as legacy.
	if key != nil && key.Version() == KDFLegacy && magic == MagicCurrent && key.Verifier[0] == byte(KDFArgon2id) {
		magic = MagicLegacy
	}

	hdr := newHeader(magic, q, key)
	res := &EncodeResult{
		Header:   hdr,
		Capacity: Capacity(total, cont.DataOffset, q),
	}

	accepted := c.plan(secrets, res, total-cont.DataOffset-int64(hdr.Window()))
	if len(accepted) == 0 {
		return res, fmt.Errorf("%w: %d bytes available", ErrCapacityExceeded, res.Capacity)
	}

	var bc *blockCipher
	if key != nil {
		if bc, err = newBlockCipher(key); err != nil {
			return nil, err
		}
	}

	cw := &countingWriter{w: out}

	if _, err := cw.Write(cont.Head); err != nil {
		return nil, err
	}

	window := make([]byte, hdr.Window())
	if _, err := io.ReadFull(carrier, window); err != nil {
		return nil, fmt.Errorf("%w: reading header window: %w", ErrCapacityExceeded, err)
	}
	if err := embedHeader(window, hdr); err != nil {
		return nil, err
	}
	if _, err := cw.Write(window); err != nil {
		return nil, err
	}

	c.log.Debug("capability header written", "magic", hdr.Magic, "quality", q, "encrypted", hdr.Encrypted)

	body := Codec{q: q}
	cr := newCarrierReader(carrier, c.alignedBlock(q))
	blockLen := c.alignedBlock(q) / int(q)

	for _, s := range accepted {
		rec, err := c.encodeSecret(s, body, cr, bc, blockLen, cw)
		if err != nil {
			return nil, err
		}
		res.Embedded = append(res.Embedded, rec)
		c.log.Info("file embedded", "name", rec.Name, "size", rec.Size)
	}

	if _, err := cr.copyRest(cw); err != nil {
		return nil, err
	}
	res.Written = cw.n

	return res, nil
}

// plan picks the secrets that fit, in order. A secret must fit both the
// rated capacity and the exact number of coded bytes left in the carrier.
func (c *Coder) plan(secrets []Secret, res *EncodeResult, available int64) []Secret {
	q := int64(c.opts.Quality)

	var accepted []Secret
	var rated, exact int64

	for _, s := range secrets {
		size := s.Size()
		need := recordLength(size) * q

		if size > math.MaxUint32 || size > res.Capacity-rated-RecordOverhead || exact+need > available {
			c.log.Warn("file does not fit, skipped", "name", s.Name(), "size", size,
				"remaining", max(res.Capacity-rated-RecordOverhead, 0))
			res.Skipped = append(res.Skipped, SkippedSecret{Name: s.Name(), Size: size})
			continue
		}

		rated += size + RecordOverhead
		exact += need
		accepted = append(accepted, s)
	}

	return accepted
}

func (c *Coder) encodeSecret(s Secret, body Codec, cr *carrierReader, bc *blockCipher, blockLen int, cw *countingWriter) (Record, error) {
	sr, err := newSecretFileReader(s, blockLen, bc)
	if err != nil {
		return Record{}, err
	}
	defer sr.Close()

	q := int(body.Quality())
	rec := Record{
		Name:  recordName(sr.name),
		Size:  sr.size,
		Start: cw.n + int64(recordHeaderSize*q),
	}
	rec.End = rec.Start + rec.Size*int64(q)

	for {
		block, last, err := sr.next()
		if err != nil {
			return Record{}, err
		}

		need := len(block) * q
		if err := cr.next(need); err != nil {
			return Record{}, err
		}
		if len(cr.block) < need {
			return Record{}, fmt.Errorf("%w: carrier ended inside %s", ErrCapacityExceeded, s.Name())
		}

		body.Embed(cr.block, block)
		if _, err := cw.Write(cr.block[:need]); err != nil {
			return Record{}, err
		}

		// Realign the carrier to the first byte not consumed.
		if unused := len(cr.block) - need; unused > 0 {
			if err := cr.seek(-int64(unused), io.SeekCurrent); err != nil {
				return Record{}, err
			}
		}

		c.onBlock()

		if last {
			return rec, nil
		}
	}
}

// Analysis is what Analyze found in a coded carrier.
type Analysis struct {
	Found      bool
	Magic      string
	Offset     int64
	Header     *Header
	Records    []Record
	HeadLength int64
}

// Analyze looks for hidden files without extracting them.
func (c *Coder) Analyze(coded io.ReadSeeker) (*Analysis, error) {
	a, _, err := c.analyze(coded)
	return a, err
}

func (c *Coder) analyze(r io.ReadSeeker) (*Analysis, *blockCipher, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}

	cont, err := ParseContainer(r)
	if err != nil {
		return nil, nil, err
	}

	a := &Analysis{HeadLength: cont.DataOffset}
	sc := Scanner{Limit: c.opts.ScanLimit, Logger: c.log}

	for _, magic := range []string{MagicCurrent, MagicLegacy} {
		if _, err := r.Seek(cont.DataOffset, io.SeekStart); err != nil {
			return nil, nil, err
		}

		off, err := sc.Locate(r, magic)
		if errors.Is(err, ErrNoHiddenData) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}

		a.Found, a.Magic, a.Offset = true, magic, off
		break
	}

	if !a.Found {
		c.log.Info("no hidden data found")
		return a, nil, nil
	}

	h, err := readHeader(r)
	if err != nil {
		return nil, nil, err
	}
	a.Header = h
	c.log.Info("capability header found", "magic", h.Magic, "quality", h.Quality,
		"encrypted", h.Encrypted, "offset", a.Offset)

	var bc *blockCipher
	if h.Encrypted {
		key, err := resolveKey(h, c.opts.Password, c.opts.Scheme, c.opts.Keys, c.log)
		if err != nil {
			return nil, nil, err
		}
		if bc, err = newBlockCipher(key); err != nil {
			return nil, nil, err
		}
	}

	a.Records, err = walkRecords(r, h.Quality, bc, c.log)
	if err != nil {
		return nil, nil, err
	}
	c.log.Info("analysis complete", "files", len(a.Records))

	return a, bc, nil
}

// Sink receives decoded files.
type Sink interface {
	Create(name string) (io.WriteCloser, error)
}

// DirSink writes decoded files into a directory, creating it as needed.
type DirSink string

func (d DirSink) Create(name string) (io.WriteCloser, error) {
	if err := os.MkdirAll(string(d), 0o755); err != nil {
		return nil, err
	}

	return os.Create(filepath.Join(string(d), filepath.Base(name)))
}

// Decode extracts every hidden file in coded into sink.
func (c *Coder) Decode(coded io.ReadSeeker, sink Sink) (*Analysis, error) {
	a, bc, err := c.analyze(coded)
	if err != nil || !a.Found {
		return a, err
	}

	d := &decodedFileWriter{
		r:         coded,
		codec:     Codec{q: a.Header.Quality},
		cipher:    bc,
		blockSize: c.alignedBlock(a.Header.Quality),
		onBlock:   c.onBlock,
	}

	for _, rec := range a.Records {
		if err := c.decodeRecord(d, rec, sink); err != nil {
			return a, err
		}
	}

	return a, nil
}

func (c *Coder) decodeRecord(d *decodedFileWriter, rec Record, sink Sink) error {
	w, err := sink.Create(rec.Name)
	if err != nil {
		return err
	}

	n, err := d.writeRecord(rec, w)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	c.log.Info("file decoded", "name", rec.Name, "bytes", n)

	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)

	return n, err
}
