package klv

import (
	"github.com/imfkit/as02ec/bytesio"
	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/ul"
)

// Property is one decoded (local_tag, value bytes) pair from inside a set's
// TLV body, resolved to the property's full UL when the Primer recognizes
// the tag. UL is the zero UL when the tag is unknown; the raw bytes are
// still returned so the caller can preserve the field opaquely for
// round-trip re-serialization, per §4.3's non-fatal UnknownLocalTag policy.
type Property struct {
	Tag   uint16
	UL    ul.UL
	Known bool
	Value []byte
}

// WriteTLV appends one (local_tag, length, value) triple to buf. The local
// tag for u is obtained (or allocated) from primer.
func WriteTLV(buf []byte, primer *Primer, u ul.UL, value []byte) []byte {
	tag := primer.TagFor(u)

	buf = bytesio.PutU16(buf, tag)
	buf = bytesio.PutU16(buf, uint16(len(value)))
	buf = append(buf, value...)

	return buf
}

// ReadTLVSet parses the entire TLV body of one metadata set (the KLV Value
// with its set-identifying Key already stripped) into an ordered list of
// Properties, resolving each local tag against primer.
func ReadTLVSet(body []byte, primer *Primer) ([]Property, error) {
	var props []Property

	off := 0
	for off < len(body) {
		if off+4 > len(body) {
			return nil, errs.ErrTruncatedPacket
		}

		tag := uint16(body[off])<<8 | uint16(body[off+1])
		length := uint16(body[off+2])<<8 | uint16(body[off+3])
		off += 4

		if off+int(length) > len(body) {
			return nil, errs.ErrTruncatedPacket
		}

		value := body[off : off+int(length)]
		off += int(length)

		u, known := primer.Resolve(tag)
		props = append(props, Property{Tag: tag, UL: u, Known: known, Value: value})
	}

	return props, nil
}

// StripSetKey removes the set-identifying KLV framing from a freshly-read
// metadata set packet, returning its Key (the set UL) and Value (the TLV
// body to hand to ReadTLVSet).
func StripSetKey(pkt Packet, value []byte) (ul.UL, []byte) {
	return pkt.Key, value
}

// Batch encodes/decodes the SMPTE batch-header convention used for every
// array-typed property (EssenceContainers, Identifications, Tracks, ...):
// count(u32) + itemSize(u32) followed by count fixed-size items.
type Batch struct {
	ItemSize int
	Items    [][]byte
}

// EncodeBatch serializes a Batch using the SMPTE batch header convention.
func EncodeBatch(b Batch) []byte {
	out := bytesio.PutU32(nil, uint32(len(b.Items)))
	out = bytesio.PutU32(out, uint32(b.ItemSize))

	for _, item := range b.Items {
		out = append(out, item...)
	}

	return out
}

// DecodeBatch parses a batch-header-encoded property value.
func DecodeBatch(value []byte) (Batch, error) {
	if len(value) < 8 {
		return Batch{}, errs.ErrTruncatedPacket
	}

	count := int(uint32(value[0])<<24 | uint32(value[1])<<16 | uint32(value[2])<<8 | uint32(value[3]))
	itemSize := int(uint32(value[4])<<24 | uint32(value[5])<<16 | uint32(value[6])<<8 | uint32(value[7]))

	out := Batch{ItemSize: itemSize, Items: make([][]byte, 0, count)}
	off := 8

	for i := 0; i < count; i++ {
		if off+itemSize > len(value) {
			return Batch{}, errs.ErrTruncatedPacket
		}

		out.Items = append(out.Items, value[off:off+itemSize])
		off += itemSize
	}

	return out, nil
}
