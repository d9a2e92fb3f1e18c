// SPDX-License-Identifier: EPL-2.0

package stego

import (
	"fmt"
	"io"
)

// decodedFileWriter reads a record's coded content back out of a carrier.
type decodedFileWriter struct {
	r         io.ReadSeeker
	codec     Codec
	cipher    *blockCipher
	blockSize int
	onBlock   func()
}

// writeRecord writes exactly rec.Size bytes of rec's content to w.
func (d *decodedFileWriter) writeRecord(rec Record, w io.Writer) (int64, error) {
	if _, err := d.r.Seek(rec.Start, io.SeekStart); err != nil {
		return 0, err
	}

	q := int64(d.codec.Quality())
	coded := (rec.Size + int64(recordPadding(rec.Size)) + 4) * q
	remaining := rec.Size
	buf := make([]byte, min(int64(d.blockSize), coded))

	var written int64
	for coded > 0 {
		n := min(int64(len(buf)), coded)
		if _, err := io.ReadFull(d.r, buf[:n]); err != nil {
			return written, fmt.Errorf("%s: %w", rec.Name, err)
		}
		coded -= n

		plain := d.codec.Extract(buf[:n])
		if d.cipher != nil {
			d.cipher.decrypt(plain)
		}

		k := min(int64(len(plain)), remaining)
		if k > 0 {
			if _, err := w.Write(plain[:k]); err != nil {
				return written, err
			}
			written += k
			remaining -= k
		}

		if d.onBlock != nil {
			d.onBlock()
		}
	}

	return written, nil
}
