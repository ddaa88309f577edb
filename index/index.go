// Package index implements Index Table Segments (SMPTE ST 377-1 §8), the
// edit-unit-to-byte-offset maps that let a reader seek directly to any
// frame of frame-wrapped essence without scanning every KLV packet in the
// Body partitions.
package index

import (
	"io"

	"github.com/imfkit/as02ec/bytesio"
	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/klv"
	"github.com/imfkit/as02ec/ul"
)

// MaxEntriesPerSegment bounds how many edit units one VBR Index Table
// Segment carries before the writer rolls over to a new segment; this
// keeps any single segment's KLV packet from growing unbounded over a long
// essence container.
const MaxEntriesPerSegment = 5000

// IndexEntry is one VBR Index Table Segment entry: the temporal and
// key-frame reordering offsets (both edit-unit-relative) plus flags and the
// frame's byte offset, measured from the first essence byte of the Body
// partition holding it (not an absolute file offset) per §3 -- a reader
// recovers the absolute position by adding that partition's BodyOffset
// back in (see wrap.OpenFrameReader).
type IndexEntry struct {
	TemporalOffset int8
	KeyFrameOffset int8
	Flags          uint8
	StreamOffset   uint64
}

// DeltaEntry is one Delta Entry Array element. This profile carries no
// slices or temporal reordering tables, so writers emit a single all-zero
// entry ({PosTableIndex: 0, Slice: 0, ElementDelta: 0}).
type DeltaEntry struct {
	PosTableIndex int8
	Slice         uint8
	ElementDelta  uint32
}

// Segment is one parsed or authored Index Table Segment. EditUnitByteCount
// is non-zero for a CBR segment (constant frame size, no Entries); it is
// zero for a VBR segment, whose Entries carry one per-edit-unit offset.
type Segment struct {
	InstanceUID        ul.UUID
	IndexEditRate      ul.Rational
	IndexStartPosition int64
	IndexDuration      int64
	EditUnitByteCount  uint32
	IndexSID           uint32
	BodySID            uint32
	SliceCount         uint8
	PosTableCount      uint8
	DeltaEntries       []DeltaEntry
	Entries            []IndexEntry
}

// IsCBR reports whether this segment describes constant-size edit units.
func (s Segment) IsCBR() bool { return s.EditUnitByteCount != 0 }

// Key returns the KLV key for an Index Table Segment packet.
func Key() ul.UL { return ul.Dict.UL(ul.NameIndexTableSegment) }

// Bytes encodes the segment body.
func (s Segment) Bytes() []byte {
	var buf []byte

	buf = append(buf, s.InstanceUID.Bytes()...)
	buf = append(buf, bytesio.PutI32(nil, s.IndexEditRate.Numerator)...)
	buf = bytesio.PutI32(buf, s.IndexEditRate.Denominator)
	buf = bytesio.PutI64(buf, s.IndexStartPosition)
	buf = bytesio.PutI64(buf, s.IndexDuration)
	buf = bytesio.PutU32(buf, s.EditUnitByteCount)
	buf = bytesio.PutU32(buf, s.IndexSID)
	buf = bytesio.PutU32(buf, s.BodySID)
	buf = append(buf, s.SliceCount, s.PosTableCount)

	buf = bytesio.PutU32(buf, uint32(len(s.DeltaEntries)))
	for _, d := range s.DeltaEntries {
		buf = append(buf, byte(d.PosTableIndex), d.Slice)
		buf = bytesio.PutU32(buf, d.ElementDelta)
	}

	buf = bytesio.PutU32(buf, uint32(len(s.Entries)))
	for _, e := range s.Entries {
		buf = append(buf, byte(e.TemporalOffset), byte(e.KeyFrameOffset), e.Flags)
		buf = bytesio.PutU64(buf, e.StreamOffset)
	}

	return buf
}

// Write serializes the segment as a complete KLV packet.
func (s Segment) Write(w io.Writer) error {
	return klv.WritePacket(w, Key(), s.Bytes())
}

// Parse decodes an Index Table Segment body.
func Parse(value []byte) (Segment, error) {
	if len(value) < 16+8+8+8+4+4+4+4 {
		return Segment{}, errs.ErrTruncatedPacket
	}

	var s Segment
	off := 0

	s.InstanceUID = ul.UUIDFromBytes(value[off : off+16])
	off += 16

	num := int32(uint32(value[off])<<24 | uint32(value[off+1])<<16 | uint32(value[off+2])<<8 | uint32(value[off+3]))
	den := int32(uint32(value[off+4])<<24 | uint32(value[off+5])<<16 | uint32(value[off+6])<<8 | uint32(value[off+7]))
	s.IndexEditRate = ul.Rational{Numerator: num, Denominator: den}
	off += 8

	s.IndexStartPosition = readI64(value[off : off+8])
	off += 8
	s.IndexDuration = readI64(value[off : off+8])
	off += 8

	s.EditUnitByteCount = readU32(value[off : off+4])
	off += 4
	s.IndexSID = readU32(value[off : off+4])
	off += 4
	s.BodySID = readU32(value[off : off+4])
	off += 4

	if off+2 > len(value) {
		return Segment{}, errs.ErrTruncatedPacket
	}
	s.SliceCount = value[off]
	s.PosTableCount = value[off+1]
	off += 2

	if off+4 > len(value) {
		return Segment{}, errs.ErrTruncatedPacket
	}
	deltaCount := readU32(value[off : off+4])
	off += 4

	for i := uint32(0); i < deltaCount; i++ {
		if off+6 > len(value) {
			return Segment{}, errs.ErrTruncatedPacket
		}

		s.DeltaEntries = append(s.DeltaEntries, DeltaEntry{
			PosTableIndex: int8(value[off]),
			Slice:         value[off+1],
			ElementDelta:  readU32(value[off+2 : off+6]),
		})
		off += 6
	}

	if off+4 > len(value) {
		return Segment{}, errs.ErrTruncatedPacket
	}
	count := readU32(value[off : off+4])
	off += 4

	for i := uint32(0); i < count; i++ {
		if off+11 > len(value) {
			return Segment{}, errs.ErrTruncatedPacket
		}

		e := IndexEntry{
			TemporalOffset: int8(value[off]),
			KeyFrameOffset: int8(value[off+1]),
			Flags:          value[off+2],
			StreamOffset:   readU64(value[off+3 : off+11]),
		}
		s.Entries = append(s.Entries, e)
		off += 11
	}

	return s, nil
}

func readI64(b []byte) int64 {
	var u uint64
	for _, c := range b {
		u = u<<8 | uint64(c)
	}

	return int64(u)
}

func readU32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func readU64(b []byte) uint64 {
	var u uint64
	for _, c := range b {
		u = u<<8 | uint64(c)
	}

	return u
}

// Writer is implemented by CBRWriter and VBRWriter: the two edit-unit
// accumulation strategies that both flush into one or more Segments.
type Writer interface {
	// AddFrame records the next edit unit at the given essence-container
	// byte offset.
	AddFrame(streamOffset uint64) error
	// Segments returns every Index Table Segment accumulated so far,
	// including the still-open one.
	Segments() []Segment
}

// Reader is implemented by IndexReader: a unified CBR/VBR lookup from edit
// unit number to essence byte offset.
type Reader interface {
	Lookup(editUnit int64) (uint64, bool)
	// Duration is the total edit unit count across every segment.
	Duration() int64
}
