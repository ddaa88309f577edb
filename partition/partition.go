// Package partition implements the Partition Pack (SMPTE ST 377-1 §6.1) and
// Random Index Pack codecs: the structures that divide an MXF file into
// Header, Body, and Footer regions and let a reader seek directly to any of
// them without scanning the whole file.
package partition

import (
	"bytes"
	"io"

	"github.com/imfkit/as02ec/bytesio"
	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/klv"
	"github.com/imfkit/as02ec/ul"
)

// Kind identifies which region of the file a Partition Pack opens.
type Kind uint8

const (
	KindHeader Kind = iota + 1
	KindBody
	KindFooter
	KindGenericStream
)

// Status captures the open/closed x complete/incomplete state the spec's
// finalize-time Rewrite transitions through.
type Status uint8

const (
	StatusOpenIncomplete Status = iota + 1
	StatusClosedIncomplete
	StatusOpenComplete
	StatusClosedComplete
)

// Partition is one decoded Partition Pack.
type Partition struct {
	Kind               Kind
	Status             Status
	MajorVersion       uint16
	MinorVersion       uint16
	KAGSize            uint32
	ThisPartition      uint64
	PreviousPartition  uint64
	FooterPartition    uint64
	HeaderByteCount    uint64
	IndexByteCount     uint64
	IndexSID           uint32
	BodyOffset         uint64
	BodySID            uint32
	OperationalPattern ul.UL
	EssenceContainers  []ul.UL
}

// Key returns this partition's KLV key, derived from the shared
// PartitionPackBase template by varying the kind/status bytes the way every
// partition-family key in the standard does.
func (p Partition) Key() ul.UL {
	return KeyFor(p.Kind, p.Status)
}

// IsPartitionKey reports whether u is some Partition Pack variant's key
// (any Kind/Status), letting a sequential scanner distinguish a partition
// pack from the Primer, Index Table Segments, and essence packets that
// make up the rest of a partition's body.
func IsPartitionKey(u ul.UL) bool {
	base := ul.Dict.UL(ul.NamePartitionPackBase).Bytes()
	ub := u.Bytes()

	for i := range base {
		if i == 7 || i == 12 || i == 13 {
			continue
		}
		if base[i] != ub[i] {
			return false
		}
	}

	return true
}

// KeyFor derives the KLV key for a given partition kind/status pair without
// needing a full Partition value.
func KeyFor(kind Kind, status Status) ul.UL {
	base := ul.Dict.UL(ul.NamePartitionPackBase)
	b := base.Bytes()
	out := make([]byte, 16)
	copy(out, b)
	out[12] = byte(kind)
	out[13] = byte(status)

	return ul.ULFromBytes(out)
}

// Parse decodes kind/status from a partition pack key and a Partition body
// from value, per ST 377-1's fixed-field layout.
func Parse(key ul.UL, value []byte) (Partition, error) {
	kb := key.Bytes()
	p := Partition{Kind: Kind(kb[12]), Status: Status(kb[13])}

	if p.Kind < KindHeader || p.Kind > KindGenericStream {
		return Partition{}, errs.ErrBadPartition
	}

	r := bytes.NewReader(value)

	var err error
	if p.MajorVersion, err = bytesio.ReadU16(r); err != nil {
		return Partition{}, errs.ErrBadPartition
	}
	if p.MinorVersion, err = bytesio.ReadU16(r); err != nil {
		return Partition{}, errs.ErrBadPartition
	}
	if p.KAGSize, err = bytesio.ReadU32(r); err != nil {
		return Partition{}, errs.ErrBadPartition
	}
	if p.ThisPartition, err = bytesio.ReadU64(r); err != nil {
		return Partition{}, errs.ErrBadPartition
	}
	if p.PreviousPartition, err = bytesio.ReadU64(r); err != nil {
		return Partition{}, errs.ErrBadPartition
	}
	if p.FooterPartition, err = bytesio.ReadU64(r); err != nil {
		return Partition{}, errs.ErrBadPartition
	}
	if p.HeaderByteCount, err = bytesio.ReadU64(r); err != nil {
		return Partition{}, errs.ErrBadPartition
	}
	if p.IndexByteCount, err = bytesio.ReadU64(r); err != nil {
		return Partition{}, errs.ErrBadPartition
	}
	if p.IndexSID, err = bytesio.ReadU32(r); err != nil {
		return Partition{}, errs.ErrBadPartition
	}
	if p.BodyOffset, err = bytesio.ReadU64(r); err != nil {
		return Partition{}, errs.ErrBadPartition
	}
	if p.BodySID, err = bytesio.ReadU32(r); err != nil {
		return Partition{}, errs.ErrBadPartition
	}

	var opBuf [16]byte
	if _, err := io.ReadFull(r, opBuf[:]); err != nil {
		return Partition{}, errs.ErrBadPartition
	}
	p.OperationalPattern = ul.ULFromBytes(opBuf[:])

	count, err := bytesio.ReadU32(r)
	if err != nil {
		return Partition{}, errs.ErrBadPartition
	}
	itemSize, err := bytesio.ReadU32(r)
	if err != nil {
		return Partition{}, errs.ErrBadPartition
	}
	if itemSize != 16 {
		return Partition{}, errs.ErrBadPartition
	}

	for i := uint32(0); i < count; i++ {
		var ecBuf [16]byte
		if _, err := io.ReadFull(r, ecBuf[:]); err != nil {
			return Partition{}, errs.ErrBadPartition
		}
		p.EssenceContainers = append(p.EssenceContainers, ul.ULFromBytes(ecBuf[:]))
	}

	return p, nil
}

// Bytes encodes the Partition Pack's body (the Value of its KLV packet;
// the Key comes from p.Key()).
func (p Partition) Bytes() []byte {
	var buf []byte

	buf = bytesio.PutU16(buf, p.MajorVersion)
	buf = bytesio.PutU16(buf, p.MinorVersion)
	buf = bytesio.PutU32(buf, p.KAGSize)
	buf = bytesio.PutU64(buf, p.ThisPartition)
	buf = bytesio.PutU64(buf, p.PreviousPartition)
	buf = bytesio.PutU64(buf, p.FooterPartition)
	buf = bytesio.PutU64(buf, p.HeaderByteCount)
	buf = bytesio.PutU64(buf, p.IndexByteCount)
	buf = bytesio.PutU32(buf, p.IndexSID)
	buf = bytesio.PutU64(buf, p.BodyOffset)
	buf = bytesio.PutU32(buf, p.BodySID)
	buf = append(buf, p.OperationalPattern.Bytes()...)

	buf = bytesio.PutU32(buf, uint32(len(p.EssenceContainers)))
	buf = bytesio.PutU32(buf, 16)
	for _, ec := range p.EssenceContainers {
		buf = append(buf, ec.Bytes()...)
	}

	return buf
}

// Write serializes p as a complete KLV packet to w.
func (p Partition) Write(w io.Writer) error {
	return klv.WritePacket(w, p.Key(), p.Bytes())
}

// ReadPartitionPack reads one Partition Pack KLV packet from r.
func ReadPartitionPack(r io.Reader) (Partition, error) {
	pkt, value, err := klv.ReadPacket(r)
	if err != nil {
		return Partition{}, err
	}

	return Parse(pkt.Key, value)
}

// Rewrite writes p over an already-written partition pack at offset. w must
// support writing at an absolute offset (e.g. *os.File). The writers in
// package wrap do not call it: their Finalize seeks back and calls Write.
func Rewrite(w io.WriterAt, offset int64, p Partition) error {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return err
	}

	if _, err := w.WriteAt(buf.Bytes(), offset); err != nil {
		return errs.ErrWriteFail
	}

	return nil
}
