// Package klv implements the {Key(16), Length(BER), Value} packet codec
// (SMPTE ST 336) every structure in an MXF file is built from: partition
// packs, the Primer, metadata sets, index table segments, and essence
// packets are all one KLV each (or, for a metadata set's TLV-encoded body,
// one KLV whose Value is itself a stream of local-tag TLV triples).
package klv

import (
	"io"

	"github.com/imfkit/as02ec/bytesio"
	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/ul"
)

// Packet is a parsed KLV header: the Key, the declared Length, and the
// absolute file offset of the first Value byte. The Value itself is fetched
// lazily via ReadValue so a caller inspecting only the Key (e.g. the
// partition scanner deciding whether to descend into a set) never buffers
// a large essence payload it does not need.
type Packet struct {
	Key        ul.UL
	Length     uint64
	ValueStart int64 // absolute offset of the first Value byte, if known
}

// ReadHeader reads one KLV Key+Length from r and returns the parsed header.
// It does not consume the Value.
func ReadHeader(r io.Reader) (Packet, error) {
	var keyBuf [16]byte
	if _, err := io.ReadFull(r, keyBuf[:]); err != nil {
		return Packet{}, errs.ErrReadFail
	}

	length, _, err := bytesio.ReadBERLength(r)
	if err != nil {
		return Packet{}, err
	}

	return Packet{Key: ul.ULFromBytes(keyBuf[:]), Length: length}, nil
}

// ReadValue reads exactly p.Length bytes from r as the packet's Value.
func ReadValue(r io.Reader, p Packet) ([]byte, error) {
	buf := make([]byte, p.Length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errs.ErrTruncatedPacket
	}

	return buf, nil
}

// ReadPacket reads a full KLV packet (header + value) from r.
func ReadPacket(r io.Reader) (Packet, []byte, error) {
	hdr, err := ReadHeader(r)
	if err != nil {
		return Packet{}, nil, err
	}

	val, err := ReadValue(r, hdr)
	if err != nil {
		return Packet{}, nil, err
	}

	return hdr, val, nil
}

// WriteHeader writes a Key+BER-Length pair for a Value of the given length,
// using berWidth (pass bytesio.DefaultBERWidth(length) for the normal
// policy, or BERLong8 to reserve a fixed backpatchable field for clip-wrap
// essence).
func WriteHeader(w io.Writer, key ul.UL, length uint64, berWidth int) error {
	if _, err := w.Write(key.Bytes()); err != nil {
		return errs.ErrWriteFail
	}

	return bytesio.WriteBERLength(w, length, berWidth)
}

// WritePacket writes a complete KLV packet (header sized with the default
// BER width policy, then the value).
func WritePacket(w io.Writer, key ul.UL, value []byte) error {
	if err := WriteHeader(w, key, uint64(len(value)), bytesio.DefaultBERWidth(uint64(len(value)))); err != nil {
		return err
	}

	_, err := w.Write(value)
	if err != nil {
		return errs.ErrWriteFail
	}

	return nil
}

// HeaderSize returns the on-wire size of a KLV header (Key+Length) for a
// value of the given length, using the writer's default BER width policy.
func HeaderSize(length uint64) int {
	return 16 + bytesio.DefaultBERWidth(length)
}
