// SPDX-License-Identifier: EPL-2.0

package stego

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	recordHeaderSize = 32
	recordNameSize   = 20
	recordBlock      = 16

	maxNameBase = 25
	maxNameExt  = 5
)

// Record is one embedded file as found in a coded carrier. Start and End
// delimit its content in the coded byte stream.
type Record struct {
	Name  string
	Size  int64
	Start int64
	End   int64
}

// recordPadding is the number of zero bytes between content and footer.
// It is always in [1, 16].
func recordPadding(size int64) int {
	return recordBlock - int((size+4)%recordBlock)
}

// recordLength is the length of a record in payload bytes.
func recordLength(size int64) int64 {
	return recordHeaderSize + size + int64(recordPadding(size)) + 4
}

// encodeRecordName shortens a file name to at most 25 base characters plus
// a 5 character extension, replaces non-ASCII runes with '?' and truncates
// to the 20 bytes available in the record.
func encodeRecordName(name string) []byte {
	name = filepath.Base(name)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	short := truncateRunes(base, maxNameBase) + truncateRunes(ext, maxNameExt)

	out := make([]byte, 0, len(short))
	for _, r := range short {
		if r > 0x7F {
			r = '?'
		}
		out = append(out, byte(r))
	}

	if len(out) > recordNameSize {
		out = out[:recordNameSize]
	}

	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}

	return string(r)
}

// recordName decodes a stored name into something safe to use as a file
// name inside an output directory.
func recordName(b []byte) string {
	b = bytes.TrimRight(b, "\x00")

	var sb strings.Builder
	for _, c := range b {
		switch {
		case c == '?' || c > 0x7F:
			sb.WriteByte('X')
		case c < 0x20 || c == '/' || c == '\\' || c == ':':
			sb.WriteByte('_')
		default:
			sb.WriteByte(c)
		}
	}

	name := sb.String()
	if name == "" || name == "." || name == ".." {
		return "unnamed"
	}

	return name
}

// Secret is a file to be hidden.
type Secret interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

type fileSecret struct {
	path string
	size int64
}

// FileSecret returns a Secret backed by the file at path.
func FileSecret(path string) (Secret, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: not a regular file", path)
	}

	return &fileSecret{path: path, size: fi.Size()}, nil
}

func (f *fileSecret) Name() string { return filepath.Base(f.path) }
func (f *fileSecret) Size() int64  { return f.size }

func (f *fileSecret) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

type bytesSecret struct {
	name string
	data []byte
}

// BytesSecret returns a Secret holding data in memory.
func BytesSecret(name string, data []byte) Secret {
	return &bytesSecret{name: name, data: data}
}

func (b *bytesSecret) Name() string { return b.name }
func (b *bytesSecret) Size() int64  { return int64(len(b.data)) }

func (b *bytesSecret) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.data)), nil
}
