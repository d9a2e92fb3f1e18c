// SPDX-License-Identifier: EPL-2.0

package stego

import (
	"errors"
	"io"
)

// carrierReader reads carrier sample bytes in fixed-size blocks.
type carrierReader struct {
	r         io.ReadSeeker
	blockSize int
	buf       []byte

	// block is the most recently read block.
	block []byte
}

func newCarrierReader(r io.ReadSeeker, blockSize int) *carrierReader {
	return &carrierReader{r: r, blockSize: blockSize}
}

// next reads the next block of max(blockSize, atLeast) bytes, or fewer at
// the end of the carrier.
func (c *carrierReader) next(atLeast int) error {
	n := max(c.blockSize, atLeast)
	if cap(c.buf) < n {
		c.buf = make([]byte, n)
	}

	read, err := io.ReadFull(c.r, c.buf[:n])
	c.block = c.buf[:read]

	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}

	return nil
}

// seek moves the underlying reader, typically back over the unused tail of
// the current block.
func (c *carrierReader) seek(offset int64, whence int) error {
	_, err := c.r.Seek(offset, whence)
	return err
}

// copyRest streams the carrier from the current position to w unchanged.
func (c *carrierReader) copyRest(w io.Writer) (int64, error) {
	if cap(c.buf) < c.blockSize {
		c.buf = make([]byte, c.blockSize)
	}

	return io.CopyBuffer(w, c.r, c.buf[:c.blockSize])
}
