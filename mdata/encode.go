package mdata

import (
	"time"
	"unicode/utf16"

	"github.com/imfkit/as02ec/bytesio"
	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/klv"
	"github.com/imfkit/as02ec/ul"
)

// The helpers below encode/decode the scalar and batch wire types listed in
// ul.WireType, shared by every concrete Object's Fields()/ApplyField().

func encodeU8(v uint8) []byte { return []byte{v} }
func decodeU8(b []byte) uint8 { return b[0] }

func encodeU16(v uint16) []byte { return bytesio.PutU16(nil, v) }
func decodeU16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func encodeU32(v uint32) []byte { return bytesio.PutU32(nil, v) }
func decodeU32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func encodeI64(v int64) []byte { return bytesio.PutI64(nil, v) }
func decodeI64(b []byte) int64 {
	u := uint64(0)
	for _, c := range b {
		u = u<<8 | uint64(c)
	}

	return int64(u)
}

func encodeRational(r ul.Rational) []byte {
	out := bytesio.PutI32(nil, r.Numerator)
	return bytesio.PutI32(out, r.Denominator)
}

func decodeRational(b []byte) ul.Rational {
	num := int32(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
	den := int32(uint32(b[4])<<24 | uint32(b[5])<<16 | uint32(b[6])<<8 | uint32(b[7]))

	return ul.Rational{Numerator: num, Denominator: den}
}

func encodeUL(u ul.UL) []byte { return u.Bytes() }
func decodeUL(b []byte) ul.UL { return ul.ULFromBytes(b) }

func encodeUUID(u ul.UUID) []byte { return u.Bytes() }
func decodeUUID(b []byte) ul.UUID { return ul.UUIDFromBytes(b) }

func encodeUMID(u ul.UMID) []byte { return u.Bytes() }
func decodeUMID(b []byte) ul.UMID { return ul.UMIDFromBytes(b) }

// encodeString encodes a Go string as UTF-16BE, the wire representation
// every textual MXF property uses.
func encodeString(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units)*2)
	for _, u := range units {
		out = bytesio.PutU16(out, u)
	}

	return out
}

func decodeString(b []byte) string {
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = decodeU16(b[i*2 : i*2+2])
	}

	return string(utf16.Decode(units))
}

// encodeTimestamp encodes a time.Time as an 8-byte SMPTE timestamp: 2 bytes
// year, 1 byte each month/day/hour/minute/second, 1 byte 4ms-tick fraction.
func encodeTimestamp(t time.Time) []byte {
	out := bytesio.PutU16(nil, uint16(t.Year()))
	out = append(out, byte(t.Month()), byte(t.Day()), byte(t.Hour()), byte(t.Minute()), byte(t.Second()))
	out = append(out, byte(t.Nanosecond()/4000000))

	return out
}

func decodeTimestamp(b []byte) time.Time {
	if len(b) < 8 {
		return time.Time{}
	}

	year := int(decodeU16(b[0:2]))

	return time.Date(year, time.Month(b[2]), int(b[3]), int(b[4]), int(b[5]), int(b[6]), int(b[7])*4000000, time.UTC)
}

func encodeBatchUUID(items []ul.UUID) []byte {
	b := klv.Batch{ItemSize: 16}
	for _, it := range items {
		b.Items = append(b.Items, it.Bytes())
	}

	return klv.EncodeBatch(b)
}

func decodeBatchUUID(value []byte) ([]ul.UUID, error) {
	b, err := klv.DecodeBatch(value)
	if err != nil {
		return nil, err
	}

	out := make([]ul.UUID, 0, len(b.Items))
	for _, it := range b.Items {
		out = append(out, ul.UUIDFromBytes(it))
	}

	return out, nil
}

func encodeBatchUL(items []ul.UL) []byte {
	b := klv.Batch{ItemSize: 16}
	for _, it := range items {
		b.Items = append(b.Items, it.Bytes())
	}

	return klv.EncodeBatch(b)
}

func decodeBatchUL(value []byte) ([]ul.UL, error) {
	b, err := klv.DecodeBatch(value)
	if err != nil {
		return nil, err
	}

	out := make([]ul.UL, 0, len(b.Items))
	for _, it := range b.Items {
		out = append(out, ul.ULFromBytes(it))
	}

	return out, nil
}

// errUnknown is returned by ApplyField implementations for a UL the
// concrete type does not declare as one of its own properties.
var errUnknown = errs.ErrUnknownLocalTag
