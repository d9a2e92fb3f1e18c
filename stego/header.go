// SPDX-License-Identifier: EPL-2.0

package stego

import (
	"fmt"
)

const (
	MagicCurrent = "DSC2"
	MagicLegacy  = "DSCF"
	RecordMagic  = "DSSF"
)

// Header sizes by layout.
const (
	plainHeaderSize  = 6
	legacyHeaderSize = plainHeaderSize + LegacyVerifierSize
	argonHeaderSize  = plainHeaderSize + 1 + SaltSize + Argon2VerifierSize
)

// probeWindow is the number of carrier bytes decoded at each scan offset.
const probeWindow = legacyHeaderSize * int(QualityNormal)

// Header is the capability header written right after the WAV head. It is
// always embedded at NORMAL quality.
type Header struct {
	Magic      string
	Quality    Quality
	Encrypted  bool
	KDFVersion KDFVersion
	Salt       []byte
	Verifier   []byte
}

// newHeader builds the header for quality q and an optional key.
func newHeader(magic string, q Quality, key *Key) *Header {
	h := &Header{Magic: magic, Quality: q}
	if key != nil {
		h.Encrypted = true
		h.KDFVersion = key.Version()
		h.Salt = key.Salt
		h.Verifier = key.Verifier
	}

	return h
}

// Size is the decoded header length: 6, 26 or 56 bytes.
func (h *Header) Size() int {
	switch {
	case !h.Encrypted:
		return plainHeaderSize
	case h.KDFVersion == KDFArgon2id:
		return argonHeaderSize
	default:
		return legacyHeaderSize
	}
}

// Window is the number of carrier bytes the header occupies.
func (h *Header) Window() int {
	return h.Size() * int(QualityNormal)
}

func (h *Header) MarshalBinary() ([]byte, error) {
	if len(h.Magic) != 4 {
		return nil, fmt.Errorf("%w: magic %q", ErrInvalidHeader, h.Magic)
	}

	if !h.Quality.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuality, int(h.Quality))
	}

	b := make([]byte, h.Size())
	copy(b[0:4], h.Magic)
	b[4] = byte(h.Quality)

	if !h.Encrypted {
		return b, nil
	}
	b[5] = 1

	if h.KDFVersion == KDFArgon2id {
		if len(h.Salt) != SaltSize || len(h.Verifier) != Argon2VerifierSize {
			return nil, fmt.Errorf("%w: argon2id salt/verifier length", ErrInvalidHeader)
		}
		b[6] = byte(KDFArgon2id)
		copy(b[7:7+SaltSize], h.Salt)
		copy(b[7+SaltSize:], h.Verifier)

		return b, nil
	}

	if len(h.Verifier) != LegacyVerifierSize {
		return nil, fmt.Errorf("%w: legacy verifier length %d", ErrInvalidHeader, len(h.Verifier))
	}
	copy(b[plainHeaderSize:], h.Verifier)

	return b, nil
}

// probe checks the fixed prefix of a decoded header candidate.
func probe(decoded []byte, magic string) bool {
	if len(decoded) < plainHeaderSize || string(decoded[0:4]) != magic {
		return false
	}

	return Quality(decoded[4]).Valid() && decoded[5] <= 1
}

// ParseHeader reads a header out of decoded bytes. The layout follows the
// encrypt flag and, for current headers, the KDF byte; decoded must be long
// enough for that layout.
func ParseHeader(decoded []byte) (*Header, error) {
	if len(decoded) < plainHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidHeader, len(decoded))
	}

	magic := string(decoded[0:4])
	if magic != MagicCurrent && magic != MagicLegacy {
		return nil, fmt.Errorf("%w: magic %q", ErrInvalidHeader, magic)
	}

	if !probe(decoded, magic) {
		return nil, fmt.Errorf("%w: quality %d, encrypt flag %d", ErrInvalidHeader, decoded[4], decoded[5])
	}

	h := &Header{
		Magic:     magic,
		Quality:   Quality(decoded[4]),
		Encrypted: decoded[5] == 1,
	}

	if !h.Encrypted {
		return h, nil
	}

	if magic == MagicCurrent && len(decoded) > 6 && KDFVersion(decoded[6]) == KDFArgon2id {
		h.KDFVersion = KDFArgon2id
	}

	if len(decoded) < h.Size() {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrInvalidHeader, h.Size(), len(decoded))
	}

	if h.KDFVersion == KDFArgon2id {
		h.Salt = append([]byte(nil), decoded[7:7+SaltSize]...)
		h.Verifier = append([]byte(nil), decoded[7+SaltSize:argonHeaderSize]...)

		return h, nil
	}

	h.Verifier = append([]byte(nil), decoded[plainHeaderSize:legacyHeaderSize]...)

	return h, nil
}

// embedHeader embeds h into window, which must hold h.Window() bytes.
func embedHeader(window []byte, h *Header) error {
	b, err := h.MarshalBinary()
	if err != nil {
		return err
	}

	if len(window) < h.Window() {
		return fmt.Errorf("%w: header window needs %d carrier bytes, have %d",
			ErrCapacityExceeded, h.Window(), len(window))
	}

	headerCodec.Embed(window, b)

	return nil
}
