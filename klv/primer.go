package klv

import (
	"io"

	"github.com/imfkit/as02ec/bytesio"
	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/ul"
)

// firstDynamicTag is the first local tag allocated for a property that has
// no static, well-known local tag assignment. Tags 0x0001-0x7FFF are
// reserved (statically assigned by the dictionary's own convention in this
// implementation); dynamic tags begin here and are allocated sequentially
// as new properties are serialized into a given Primer.
const firstDynamicTag = 0x8000

// Primer is the local_tag(u16) -> full_UL(16 bytes) map emitted as the
// first KLV of a header metadata section. Every local tag used inside any
// set in a partition must appear in the Primer for that partition.
type Primer struct {
	tagToUL map[uint16]ul.UL
	ulToTag map[ul.UL]uint16
	nextTag uint16
}

// NewPrimer creates an empty Primer ready for dynamic tag allocation.
func NewPrimer() *Primer {
	return &Primer{
		tagToUL: make(map[uint16]ul.UL),
		ulToTag: make(map[ul.UL]uint16),
		nextTag: firstDynamicTag,
	}
}

// TagFor returns the local tag bound to u, allocating a new dynamic tag on
// first use.
func (p *Primer) TagFor(u ul.UL) uint16 {
	if tag, ok := p.ulToTag[u]; ok {
		return tag
	}

	tag := p.nextTag
	p.nextTag++
	p.tagToUL[tag] = u
	p.ulToTag[u] = tag

	return tag
}

// Resolve returns the UL bound to a local tag. An unresolved tag is
// reported via the returned bool rather than an error; callers treat that
// as non-fatal and preserve the property as an opaque blob.
func (p *Primer) Resolve(tag uint16) (ul.UL, bool) {
	u, ok := p.tagToUL[tag]

	return u, ok
}

// Entries returns the primer's (tag, UL) pairs sorted by tag, the order
// they are serialized in.
func (p *Primer) Entries() []PrimerEntry {
	entries := make([]PrimerEntry, 0, len(p.tagToUL))
	for tag, u := range p.tagToUL {
		entries = append(entries, PrimerEntry{Tag: tag, UL: u})
	}

	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].Tag < entries[j-1].Tag; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}

	return entries
}

// PrimerEntry is one (local tag, UL) binding.
type PrimerEntry struct {
	Tag uint16
	UL  ul.UL
}

// WritePrimerPack serializes the Primer as its own KLV: a batch-of-pairs
// value (count(u32) + itemSize(u32), then tag(u16)+UL(16) per entry) wrapped
// in the PrimerPack set key, matching SMPTE's batch-header convention used
// for every array property in this format.
func WritePrimerPack(w io.Writer, p *Primer) error {
	entries := p.Entries()

	value := make([]byte, 0, 8+len(entries)*18)
	value = bytesio.PutU32(value, uint32(len(entries)))
	value = bytesio.PutU32(value, 18) // itemSize: 2 (tag) + 16 (UL)

	for _, e := range entries {
		value = bytesio.PutU16(value, e.Tag)
		value = append(value, e.UL.Bytes()...)
	}

	return WritePacket(w, ul.Dict.UL(ul.NamePrimerPack), value)
}

// ReadPrimerPack parses a previously-written Primer Pack KLV value.
func ReadPrimerPack(value []byte) (*Primer, error) {
	if len(value) < 8 {
		return nil, errs.ErrTruncatedPacket
	}

	count := uint32(value[0])<<24 | uint32(value[1])<<16 | uint32(value[2])<<8 | uint32(value[3])
	itemSize := uint32(value[4])<<24 | uint32(value[5])<<16 | uint32(value[6])<<8 | uint32(value[7])

	if itemSize != 18 {
		return nil, errs.ErrBadPartition
	}

	p := NewPrimer()
	off := 8

	for i := uint32(0); i < count; i++ {
		if off+18 > len(value) {
			return nil, errs.ErrTruncatedPacket
		}

		tag := uint16(value[off])<<8 | uint16(value[off+1])
		u := ul.ULFromBytes(value[off+2 : off+18])

		p.tagToUL[tag] = u
		p.ulToTag[u] = tag
		if tag >= p.nextTag {
			p.nextTag = tag + 1
		}

		off += 18
	}

	return p, nil
}
