// SPDX-License-Identifier: EPL-2.0

package stego

import (
	"fmt"
	"strings"
)

// Quality is the number of carrier bytes consumed per embedded byte.
type Quality int

const (
	QualityLow    Quality = 2
	QualityNormal Quality = 4
	QualityHigh   Quality = 8
)

// capacityReserve is the number of carrier bytes set aside for the
// capability header when rating a carrier.
const capacityReserve = 104

// RecordOverhead is the capacity charged per embedded file on top of its
// length: the 32-byte record header plus worst-case padding and footer.
const RecordOverhead = 32 + 19

func (q Quality) Valid() bool {
	return q == QualityLow || q == QualityNormal || q == QualityHigh
}

func (q Quality) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityNormal:
		return "normal"
	case QualityHigh:
		return "high"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// ParseQuality accepts "low", "normal" or "high" in any case.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return QualityLow, nil
	case "normal":
		return QualityNormal, nil
	case "high":
		return QualityHigh, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidQuality, s)
}

// Capacity is the number of payload bytes a carrier of carrierSize bytes
// with a headLength-byte WAV header can hold at quality q.
func Capacity(carrierSize, headLength int64, q Quality) int64 {
	if !q.Valid() {
		return 0
	}

	c := (carrierSize - headLength - capacityReserve) / int64(q)
	return max(c, 0)
}

// Codec moves payload bytes in and out of carrier sample bytes at a fixed
// quality. Only even (low-order) bytes of 16-bit little-endian samples are
// touched.
type Codec struct {
	q Quality
}

// NewCodec returns a codec for q.
func NewCodec(q Quality) (Codec, error) {
	if !q.Valid() {
		return Codec{}, fmt.Errorf("%w: %d", ErrInvalidQuality, int(q))
	}

	return Codec{q: q}, nil
}

// headerCodec embeds capability headers; it is always NORMAL so a decoder
// can read the header before knowing the payload quality.
var headerCodec = Codec{q: QualityNormal}

func (c Codec) Quality() Quality { return c.q }

// Embed writes secret into carrier in place and returns how many secret
// bytes fit.
func (c Codec) Embed(carrier, secret []byte) int {
	n := min(len(secret), len(carrier)/int(c.q))

	switch c.q {
	case QualityLow:
		for i := range n {
			carrier[i*2] = secret[i]
		}
	case QualityNormal:
		for i := range n {
			idx := i * 4
			s := secret[i]
			carrier[idx] = carrier[idx]&0xF0 | s>>4
			carrier[idx+2] = carrier[idx+2]&0xF0 | s&0x0F
		}
	case QualityHigh:
		for i := range n {
			idx := i * 8
			s := secret[i]
			carrier[idx] = carrier[idx]&0xFC | s>>6
			carrier[idx+2] = carrier[idx+2]&0xFC | (s>>4)&0x03
			carrier[idx+4] = carrier[idx+4]&0xFC | (s>>2)&0x03
			carrier[idx+6] = carrier[idx+6]&0xFC | s&0x03
		}
	}

	return n
}

// Extract reads len(carrier)/q payload bytes back out of carrier.
func (c Codec) Extract(carrier []byte) []byte {
	n := len(carrier) / int(c.q)
	out := make([]byte, n)

	switch c.q {
	case QualityLow:
		for i := range n {
			out[i] = carrier[i*2]
		}
	case QualityNormal:
		for i := range n {
			idx := i * 4
			out[i] = (carrier[idx]&0x0F)<<4 | carrier[idx+2]&0x0F
		}
	case QualityHigh:
		for i := range n {
			idx := i * 8
			out[i] = (carrier[idx]&0x03)<<6 |
				(carrier[idx+2]&0x03)<<4 |
				(carrier[idx+4]&0x03)<<2 |
				carrier[idx+6]&0x03
		}
	}

	return out
}
