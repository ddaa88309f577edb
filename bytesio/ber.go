package bytesio

import (
	"encoding/binary"
	"io"

	"github.com/imfkit/as02ec/errs"
)

// BER length form byte widths recognized by the writer. ST 377-1 uses the
// "definite, long" ASN.1 BER form restricted to fixed total widths: the
// writer always emits one of these four; the reader accepts any width
// 1..8 that the long form can carry, plus the short (single byte < 0x80)
// form for interoperability with files produced by other implementations.
const (
	BERShort = 1 // short form: one byte, value < 0x80
	BERLong4 = 4 // tag 0x83 + 3 big-endian length bytes (most common)
	BERLong8 = 8 // tag 0x87 + 7 big-endian length bytes
	BERLong9 = 9 // tag 0x88 + 8 big-endian length bytes
)

// maxBERLongLength is the largest value representable in the 3-byte long
// form (2^24 - 1); the writer switches to the 8-byte form above this.
const maxBERLongLength = 1<<24 - 1

// ReadBERLength reads a SMPTE fixed-length BER length field from r and
// returns the decoded length plus the number of bytes the field itself
// occupied on the wire.
//
// The leading byte is either < 0x80 (short form, the byte itself is the
// length) or 0x80|N (long form, followed by N big-endian length bytes,
// 1 <= N <= 8).
func ReadBERLength(r io.Reader) (length uint64, fieldWidth int, err error) {
	var lead [1]byte
	if _, err = io.ReadFull(r, lead[:]); err != nil {
		return 0, 0, errs.ErrReadFail
	}

	if lead[0] < 0x80 {
		return uint64(lead[0]), 1, nil
	}

	n := int(lead[0] &^ 0x80)
	if n == 0 || n > 8 {
		return 0, 0, errs.ErrBadBER
	}

	var buf [8]byte
	if _, err = io.ReadFull(r, buf[8-n:]); err != nil {
		return 0, 0, errs.ErrReadFail
	}

	return binary.BigEndian.Uint64(buf[:]), 1 + n, nil
}

// AppendBERLength appends the SMPTE fixed-length BER encoding of length to
// buf using exactly width total bytes (including the leading tag byte).
// width must be one of BERLong4, BERLong8, BERLong9; BERShort is accepted
// only when length < 0x80.
func AppendBERLength(buf []byte, length uint64, width int) ([]byte, error) {
	switch width {
	case BERShort:
		if length >= 0x80 {
			return nil, errs.ErrBadBER
		}

		return append(buf, byte(length)), nil
	case BERLong4, BERLong8, BERLong9:
		n := width - 1
		tag := byte(0x80 | n)
		buf = append(buf, tag)

		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], length)

		return append(buf, tmp[8-n:]...), nil
	default:
		return nil, errs.ErrBadBER
	}
}

// WriteBERLength is the io.Writer-based counterpart of AppendBERLength.
func WriteBERLength(w io.Writer, length uint64, width int) error {
	buf, err := AppendBERLength(nil, length, width)
	if err != nil {
		return err
	}

	if _, err := w.Write(buf); err != nil {
		return errs.ErrWriteFail
	}

	return nil
}

// DefaultBERWidth picks the writer policy width for a given length: the
// 4-byte total form unless the length exceeds what 3 length bytes can hold,
// in which case it switches to the 8-byte total form.
func DefaultBERWidth(length uint64) int {
	if length > maxBERLongLength {
		return BERLong8
	}

	return BERLong4
}
