// SPDX-License-Identifier: EPL-2.0

package stego

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// secretFileReader frames one secret as a record and hands it out in
// payload blocks of at most blockLen bytes. The final block may be up to 20
// bytes longer to hold the padding and footer.
type secretFileReader struct {
	rc        io.ReadCloser
	name      []byte
	size      int64
	remaining int64
	blockLen  int
	cipher    *blockCipher

	started bool
	done    bool
	buf     []byte
}

func newSecretFileReader(s Secret, blockLen int, c *blockCipher) (*secretFileReader, error) {
	size := s.Size()
	if size < 0 || size > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrCapacityExceeded, s.Name(), size)
	}

	rc, err := s.Open()
	if err != nil {
		return nil, err
	}

	return &secretFileReader{
		rc:        rc,
		name:      encodeRecordName(s.Name()),
		size:      size,
		remaining: size,
		blockLen:  blockLen,
		cipher:    c,
		buf:       make([]byte, 0, blockLen+recordBlock+4),
	}, nil
}

// next returns the next payload block, encrypted when a cipher is set, and
// whether it is the last one. The returned slice is reused by the next call.
func (s *secretFileReader) next() ([]byte, bool, error) {
	if s.done {
		return nil, true, io.EOF
	}

	b := s.buf[:0]
	room := s.blockLen

	if !s.started {
		s.started = true

		var h [recordHeaderSize]byte
		copy(h[0:4], RecordMagic)
		copy(h[4:4+recordNameSize], s.name)
		binary.BigEndian.PutUint32(h[24:28], uint32(s.size))

		b = append(b, h[:]...)
		room -= recordHeaderSize
	}

	last := s.remaining <= int64(room)
	n := int(min(int64(room), s.remaining))

	start := len(b)
	b = b[:start+n]
	if _, err := io.ReadFull(s.rc, b[start:]); err != nil {
		return nil, false, fmt.Errorf("reading secret: %w", err)
	}
	s.remaining -= int64(n)

	if last {
		b = append(b, make([]byte, recordPadding(s.size))...)
		b = append(b, RecordMagic...)
		s.done = true
	}

	if s.cipher != nil {
		s.cipher.encrypt(b)
	}
	s.buf = b

	return b, last, nil
}

func (s *secretFileReader) Close() error {
	return s.rc.Close()
}
