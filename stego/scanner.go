// SPDX-License-Identifier: EPL-2.0

package stego

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// DefaultScanLimit is how many bytes past the WAV head the scanner searches.
const DefaultScanLimit = 352800

// Scanner locates a capability header whose offset is unknown.
type Scanner struct {
	Limit  int64
	Logger *slog.Logger
}

// Locate searches forward from the current position of r for a header with
// the given magic. On success r is left at the header and its absolute
// offset is returned.
func (s Scanner) Locate(r io.ReadSeeker, magic string) (int64, error) {
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultScanLimit
	}

	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}

	buf, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return 0, err
	}

	// Only the fixed prefix is tested, but a candidate needs a full probe
	// window of carrier after it.
	prefix := plainHeaderSize * int(QualityNormal)
	for i := 0; i+probeWindow <= len(buf); i++ {
		if !probe(headerCodec.Extract(buf[i:i+prefix]), magic) {
			continue
		}

		offset := start + int64(i)
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return 0, err
		}

		if s.Logger != nil {
			s.Logger.Debug("capability header found", "magic", magic, "offset", offset)
		}

		return offset, nil
	}

	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return 0, err
	}

	return 0, fmt.Errorf("%w: magic %q within %d bytes", ErrNoHiddenData, magic, limit)
}

// readHeader decodes the full header at the current position of r and
// leaves r right after it.
func readHeader(r io.ReadSeeker) (*Header, error) {
	window := make([]byte, argonHeaderSize*int(QualityNormal))
	n, err := io.ReadFull(r, window)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}

	h, err := ParseHeader(headerCodec.Extract(window[:n]))
	if err != nil {
		return nil, err
	}

	if _, err := r.Seek(int64(h.Window()-n), io.SeekCurrent); err != nil {
		return nil, err
	}

	return h, nil
}

// walkRecords parses file records starting at the current position of r,
// seeking by each record's declared length. It stops at the first record
// that fails to validate or runs past the end of r.
func walkRecords(r io.ReadSeeker, q Quality, c *blockCipher, logger *slog.Logger) ([]Record, error) {
	codec := Codec{q: q}
	stride := int64(q)

	var records []Record
	head := make([]byte, recordHeaderSize*int(q))
	foot := make([]byte, recordBlock*int(q))

	for {
		if _, err := io.ReadFull(r, head); err != nil {
			break
		}

		decoded := codec.Extract(head)
		if c != nil {
			c.decrypt(decoded)
		}

		if string(decoded[0:4]) != RecordMagic {
			break
		}

		start, err := r.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}

		rec := Record{
			Name: recordName(decoded[4:24]),
			Size: int64(binary.BigEndian.Uint32(decoded[24:28])),
		}
		rec.Start = start
		rec.End = start + rec.Size*stride

		pad := recordPadding(rec.Size)
		footStart := rec.End + int64(4+pad-recordBlock)*stride
		if _, err := r.Seek(footStart, io.SeekStart); err != nil {
			return nil, err
		}

		if _, err := io.ReadFull(r, foot); err != nil {
			break
		}

		tail := codec.Extract(foot)
		if c != nil {
			c.decrypt(tail)
		}

		if string(tail[recordBlock-4:]) != RecordMagic {
			logger.Debug("record footer mismatch", "name", rec.Name, "offset", rec.End)
			break
		}

		logger.Debug("record found", "name", rec.Name, "size", rec.Size, "start", rec.Start)
		records = append(records, rec)
	}

	return records, nil
}
