// Package wrap implements the frame-wrap and clip-wrap essence container
// writers and readers (SMPTE ST 379-2 §§6-7) that every essence façade in
// package essence builds on: the state machine driving OpenWrite /
// WriteFrame / Finalize and OpenRead / ReadFrame, shared between the two
// wrapping strategies.
package wrap

import (
	"bytes"
	"fmt"
	"io"

	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/index"
	"github.com/imfkit/as02ec/internal/pool"
	"github.com/imfkit/as02ec/klv"
	"github.com/imfkit/as02ec/mdata"
	"github.com/imfkit/as02ec/partition"
	"github.com/imfkit/as02ec/ul"
)

// state models the writer/reader lifecycle: BEGIN -> INIT -> READY ->
// RUNNING -> FINAL. WriteFrame/ReadFrame are only valid in READY or
// RUNNING; Finalize/Close move to FINAL and make the object unusable.
type state int

const (
	stateBegin state = iota
	stateInit
	stateReady
	stateRunning
	stateFinal
)

func (s state) String() string {
	switch s {
	case stateBegin:
		return "BEGIN"
	case stateInit:
		return "INIT"
	case stateReady:
		return "READY"
	case stateRunning:
		return "RUNNING"
	case stateFinal:
		return "FINAL"
	default:
		return "UNKNOWN"
	}
}

// WriteSeeker is the minimal capability a writer-side essence container
// needs: sequential writes plus the ability to seek back and backpatch the
// Header Partition Pack and the clip-wrap KLV length once Finalize knows
// their final values.
type WriteSeeker interface {
	io.Writer
	io.Seeker
}

// baseWriter is embedded by FrameWriter and ClipWriter and implements the
// state transitions and header/footer partition framing they share.
type baseWriter struct {
	w      WriteSeeker
	cfg    WriterConfig
	primer *klv.Primer
	graph  *mdata.Graph

	state                  state
	headerPartitionOffset  int64
	headerBodyOffset       int64
	bodyPartitionOffset    int64
	bodyEssenceStartOffset int64
	lastPartitionOffset    int64
	headerByteCount        uint64
	frameCount             int64

	// ripEntries accumulates one (BodySID, ByteOffset) pair per partition
	// written so far, in file order, so writeFooterPartition can emit a
	// complete Random Index Pack even when WriteFrame has broken the
	// essence across more than one body partition (§4.8, §4.6).
	ripEntries []partition.RIPEntry

	// midPartitions records every body/index partition pack written after
	// the header, so writeFooterPartition can seek back and fill in each
	// one's FooterPartition field once the footer offset is known. The
	// rewrite is byte-for-byte the same size as the original pack: only
	// fixed-width fields change.
	midPartitions []writtenPartition
}

type writtenPartition struct {
	offset int64
	p      partition.Partition
}

func newBaseWriter(w WriteSeeker, graph *mdata.Graph, cfg WriterConfig) (*baseWriter, error) {
	if cfg.BodySID == 0 {
		return nil, fmt.Errorf("%w: BodySID must be non-zero", errs.ErrParam)
	}

	return &baseWriter{w: w, cfg: cfg, primer: klv.NewPrimer(), graph: graph, state: stateBegin}, nil
}

// writeHeaderPartition writes the open, incomplete Header Partition Pack,
// the Primer, and the metadata graph, transitioning BEGIN -> READY.
func (b *baseWriter) writeHeaderPartition() error {
	if b.state != stateBegin {
		return fmt.Errorf("%w: writeHeaderPartition called from %s", errs.ErrState, b.state)
	}

	var err error
	b.headerPartitionOffset, err = b.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return errs.ErrBadSeek
	}

	if b.cfg.WriterInfo != nil {
		if err := attachIdentification(b.graph, *b.cfg.WriterInfo); err != nil {
			return err
		}
	}

	metadata := pool.GetHeaderBuffer()
	defer pool.PutHeaderBuffer(metadata)

	body, err := mdata.WriteGraph(b.primer, b.graph)
	if err != nil {
		return err
	}

	if err := klv.WritePrimerPack(metadata, b.primer); err != nil {
		return err
	}
	metadata.Write(body)

	p := partition.Partition{
		Kind:               partition.KindHeader,
		Status:             partition.StatusOpenIncomplete,
		MajorVersion:       1,
		KAGSize:            1,
		ThisPartition:      uint64(b.headerPartitionOffset),
		BodySID:            b.cfg.BodySID,
		IndexSID:           b.cfg.IndexSID,
		OperationalPattern: b.cfg.OperationalPattern,
		EssenceContainers:  []ul.UL{b.cfg.EssenceContainer},
	}

	packSize := int64(klv.HeaderSize(uint64(len(p.Bytes()))) + len(p.Bytes()))

	// Pad the header region out to HeaderSize with a KLV fill item so the
	// first essence byte lands at a fixed offset (§6.1). A gap too small to
	// hold even a fill header is left unpadded.
	if fill := int64(b.cfg.HeaderSize) - packSize - int64(metadata.Len()); fill >= 17 {
		if err := klv.WriteFill(metadata, int(fill)); err != nil {
			return err
		}
	}

	b.headerByteCount = uint64(metadata.Len())
	p.HeaderByteCount = b.headerByteCount

	essenceStart := b.headerPartitionOffset + packSize + int64(metadata.Len())
	p.BodyOffset = uint64(essenceStart)

	if err := p.Write(b.w); err != nil {
		return err
	}

	if _, err := b.w.Write(metadata.Bytes()); err != nil {
		return errs.ErrWriteFail
	}

	b.lastPartitionOffset = b.headerPartitionOffset
	b.bodyPartitionOffset = b.headerPartitionOffset
	b.bodyEssenceStartOffset = essenceStart
	b.headerBodyOffset = essenceStart
	b.ripEntries = append(b.ripEntries, partition.RIPEntry{BodySID: 0, ByteOffset: uint64(b.headerPartitionOffset)})

	b.state = stateReady

	return nil
}

// writeIndexPartition closes out the accumulated (not yet flushed) Index
// Table Segments as their own closed/complete body partition pack carrying
// no essence (BodySID=0, IndexSID set, IndexByteCount populated), per
// §4.8 step 1. Called by FrameWriter at each partition_space boundary and
// by writeFooterPartition for the final segments.
func (b *baseWriter) writeIndexPartition(segments []index.Segment) error {
	offset, err := b.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return errs.ErrBadSeek
	}

	var segBuf bytes.Buffer
	for _, seg := range segments {
		if err := seg.Write(&segBuf); err != nil {
			return err
		}
	}

	p := partition.Partition{
		Kind:               partition.KindBody,
		Status:             partition.StatusClosedComplete,
		MajorVersion:       1,
		KAGSize:            1,
		ThisPartition:      uint64(offset),
		PreviousPartition:  uint64(b.lastPartitionOffset),
		IndexByteCount:     uint64(segBuf.Len()),
		IndexSID:           b.cfg.IndexSID,
		BodySID:            0,
		OperationalPattern: b.cfg.OperationalPattern,
		EssenceContainers:  []ul.UL{b.cfg.EssenceContainer},
	}
	if err := p.Write(b.w); err != nil {
		return err
	}

	if _, err := b.w.Write(segBuf.Bytes()); err != nil {
		return errs.ErrWriteFail
	}

	b.ripEntries = append(b.ripEntries, partition.RIPEntry{BodySID: 0, ByteOffset: uint64(offset)})
	b.lastPartitionOffset = offset
	b.midPartitions = append(b.midPartitions, writtenPartition{offset: offset, p: p})

	return nil
}

// writeBodyPartition opens a fresh body partition for essence frames to
// follow, per §4.8 step 2. BodyOffset is set to this partition's own
// essence-start file offset (computed before the pack is written, since
// the pack's on-wire size is fixed once EssenceContainers is known) so a
// reader can recover FrameWriter's partition-relative Index Table
// StreamOffset entries by adding it back in, per §3.
func (b *baseWriter) writeBodyPartition() error {
	offset, err := b.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return errs.ErrBadSeek
	}

	p := partition.Partition{
		Kind:               partition.KindBody,
		Status:             partition.StatusClosedComplete,
		MajorVersion:       1,
		KAGSize:            1,
		ThisPartition:      uint64(offset),
		PreviousPartition:  uint64(b.lastPartitionOffset),
		BodySID:            b.cfg.BodySID,
		IndexSID:           0,
		OperationalPattern: b.cfg.OperationalPattern,
		EssenceContainers:  []ul.UL{b.cfg.EssenceContainer},
	}

	packSize := int64(klv.HeaderSize(uint64(len(p.Bytes()))) + len(p.Bytes()))
	essenceStart := offset + packSize
	p.BodyOffset = uint64(essenceStart)

	if err := p.Write(b.w); err != nil {
		return err
	}

	b.ripEntries = append(b.ripEntries, partition.RIPEntry{BodySID: b.cfg.BodySID, ByteOffset: uint64(offset)})
	b.lastPartitionOffset = offset
	b.bodyPartitionOffset = offset
	b.bodyEssenceStartOffset = essenceStart
	b.midPartitions = append(b.midPartitions, writtenPartition{offset: offset, p: p})

	return nil
}

// writeFooterPartition writes the closed, complete Footer Partition Pack
// and a trailing Random Index Pack, then backpatches the Header Partition
// Pack's ThisPartition/FooterPartition/Status fields now that both are
// known, transitioning RUNNING -> FINAL. Finalize before the first
// WriteFrame is an illegal transition (§4.11), so READY is rejected along
// with every other non-RUNNING state.
func (b *baseWriter) writeFooterPartition(idxSegments []index.Segment) error {
	if b.state != stateRunning {
		return fmt.Errorf("%w: Finalize called from %s", errs.ErrState, b.state)
	}

	footerOffset, err := b.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return errs.ErrBadSeek
	}

	var segBuf bytes.Buffer
	for _, seg := range idxSegments {
		if err := seg.Write(&segBuf); err != nil {
			return err
		}
	}

	footer := partition.Partition{
		Kind:               partition.KindFooter,
		Status:             partition.StatusClosedComplete,
		MajorVersion:       1,
		KAGSize:            1,
		ThisPartition:      uint64(footerOffset),
		PreviousPartition:  uint64(b.lastPartitionOffset),
		FooterPartition:    uint64(footerOffset),
		IndexByteCount:     uint64(segBuf.Len()),
		BodySID:            0,
		IndexSID:           b.cfg.IndexSID,
		OperationalPattern: b.cfg.OperationalPattern,
		EssenceContainers:  []ul.UL{b.cfg.EssenceContainer},
	}
	if err := footer.Write(b.w); err != nil {
		return err
	}

	if _, err := b.w.Write(segBuf.Bytes()); err != nil {
		return errs.ErrWriteFail
	}

	b.lastPartitionOffset = footerOffset
	b.ripEntries = append(b.ripEntries, partition.RIPEntry{BodySID: 0, ByteOffset: uint64(footerOffset)})

	rip := partition.RIP{Entries: append([]partition.RIPEntry(nil), b.ripEntries...)}
	if err := rip.Write(b.w); err != nil {
		return err
	}

	if err := b.backpatchMidPartitions(footerOffset); err != nil {
		return err
	}

	if err := b.backpatchHeader(footerOffset); err != nil {
		return err
	}

	b.state = stateFinal

	return nil
}

// backpatchMidPartitions rewrites every body/index partition pack written
// between the header and the footer with the final FooterPartition offset,
// per §4.5 ("every partition pack in the file is rewritten"). Each pack's
// PreviousPartition was already correct when first written, since
// partitions are emitted strictly in file order.
func (b *baseWriter) backpatchMidPartitions(footerOffset int64) error {
	for _, wp := range b.midPartitions {
		wp.p.FooterPartition = uint64(footerOffset)

		if _, err := b.w.Seek(wp.offset, io.SeekStart); err != nil {
			return errs.ErrBadSeek
		}
		if err := wp.p.Write(b.w); err != nil {
			return err
		}
	}

	if _, err := b.w.Seek(0, io.SeekEnd); err != nil {
		return errs.ErrBadSeek
	}

	return nil
}

func (b *baseWriter) backpatchHeader(footerOffset int64) error {
	if _, err := b.w.Seek(b.headerPartitionOffset, io.SeekStart); err != nil {
		return errs.ErrBadSeek
	}

	p := partition.Partition{
		Kind:               partition.KindHeader,
		Status:             partition.StatusClosedComplete,
		MajorVersion:       1,
		KAGSize:            1,
		ThisPartition:      uint64(b.headerPartitionOffset),
		FooterPartition:    uint64(footerOffset),
		HeaderByteCount:    b.headerByteCount,
		BodyOffset:         uint64(b.headerBodyOffset),
		BodySID:            b.cfg.BodySID,
		IndexSID:           b.cfg.IndexSID,
		OperationalPattern: b.cfg.OperationalPattern,
		EssenceContainers:  []ul.UL{b.cfg.EssenceContainer},
	}
	if err := p.Write(b.w); err != nil {
		return err
	}

	_, err := b.w.Seek(0, io.SeekEnd)
	if err != nil {
		return errs.ErrBadSeek
	}

	return nil
}
