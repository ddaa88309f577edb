package wrap

import (
	"fmt"
	"io"

	"github.com/imfkit/as02ec/envelope"
	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/index"
	"github.com/imfkit/as02ec/klv"
	"github.com/imfkit/as02ec/mdata"
	"github.com/imfkit/as02ec/ul"
)

// FrameWriter writes frame-wrap essence: one KLV packet per edit unit,
// each keyed by the essence item's Universal Label, with a VBR Index Table
// Segment accumulated alongside (callers whose essence is constant-size
// per frame should prefer the CBR path by using index.NewCBRWriter
// directly and bypassing FrameWriter's own accumulation -- see
// essence/pcm, which is clip-wrapped and does not use FrameWriter at all).
type FrameWriter struct {
	*baseWriter

	essenceKey         ul.UL
	idx                *index.VBRWriter
	partitionEditUnits int64 // 0 disables mid-stream partition breaks
}

// OpenFrameWriter writes the Header Partition Pack, Primer, and metadata
// graph to w and returns a FrameWriter ready to accept frames via
// WriteFrame.
func OpenFrameWriter(w WriteSeeker, graph *mdata.Graph, essenceKey ul.UL, opts ...WriterOption) (*FrameWriter, error) {
	cfg, err := newWriterConfig(opts...)
	if err != nil {
		return nil, err
	}

	base, err := newBaseWriter(w, graph, cfg)
	if err != nil {
		return nil, err
	}

	if err := base.writeHeaderPartition(); err != nil {
		return nil, err
	}

	fw := &FrameWriter{
		baseWriter: base,
		essenceKey: essenceKey,
		idx:        index.NewVBRWriter(cfg.EditRate, cfg.IndexSID, cfg.BodySID),
	}

	if cfg.PartitionSpaceSeconds > 0 && cfg.EditRate.Denominator != 0 {
		editsPerSecond := float64(cfg.EditRate.Numerator) / float64(cfg.EditRate.Denominator)
		units := int64(cfg.PartitionSpaceSeconds*editsPerSecond + 0.5)
		if units < 1 {
			units = 1
		}
		fw.partitionEditUnits = units
	}

	return fw, nil
}

// WriteFrame writes one edit unit's essence payload as a KLV packet. An
// empty FrameBuffer fails with errs.ErrParam.
func (fw *FrameWriter) WriteFrame(frame *FrameBuffer) error {
	if fw.state != stateReady && fw.state != stateRunning {
		return fmt.Errorf("%w: WriteFrame called from %s", errs.ErrState, fw.state)
	}

	if len(frame.Bytes()) == 0 {
		return fmt.Errorf("%w: zero-length frame buffer", errs.ErrParam)
	}

	offset, err := fw.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return errs.ErrBadSeek
	}

	if err := klv.WritePacket(fw.w, fw.essenceKey, frame.Bytes()); err != nil {
		return err
	}

	if err := fw.idx.AddFrame(uint64(offset - fw.bodyEssenceStartOffset)); err != nil {
		return err
	}

	fw.frameCount++
	fw.state = stateRunning

	if fw.partitionEditUnits > 0 && fw.frameCount%fw.partitionEditUnits == 0 {
		return fw.breakPartition()
	}

	return nil
}

// breakPartition implements §4.8's mid-stream partition boundary: the
// Index Table Segments accumulated since the last boundary are closed out
// as their own body+index partition, and a fresh body partition is opened
// for subsequent frames.
func (fw *FrameWriter) breakPartition() error {
	pending := fw.idx.PendingSegments()
	segments := append([]index.Segment(nil), pending...)
	fw.idx.MarkFlushed()

	if err := fw.writeIndexPartition(segments); err != nil {
		return err
	}

	return fw.writeBodyPartition()
}

// WriteEncryptedFrame writes one edit unit wrapped in the ST 429-6
// encrypted triplet (envelope.Wrap), keyed by the well-known
// EncryptedTriplet UL instead of the track's own essence UL, so readers
// without the decryption key can still parse (but not decode) the frame.
// mac may be nil to omit the trailing integrity pack.
func (fw *FrameWriter) WriteEncryptedFrame(frame *FrameBuffer, contextID ul.UUID, enc envelope.Encryptor, mac envelope.MACer) error {
	if fw.state != stateReady && fw.state != stateRunning {
		return fmt.Errorf("%w: WriteEncryptedFrame called from %s", errs.ErrState, fw.state)
	}

	if len(frame.Bytes()) == 0 {
		return fmt.Errorf("%w: zero-length frame buffer", errs.ErrParam)
	}

	triplet, err := envelope.Wrap(enc, mac, contextID, fw.essenceKey, frame.Bytes())
	if err != nil {
		return err
	}

	offset, err := fw.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return errs.ErrBadSeek
	}

	if err := triplet.Write(fw.w); err != nil {
		return err
	}

	if err := fw.idx.AddFrame(uint64(offset - fw.bodyEssenceStartOffset)); err != nil {
		return err
	}

	fw.frameCount++
	fw.state = stateRunning

	if fw.partitionEditUnits > 0 && fw.frameCount%fw.partitionEditUnits == 0 {
		return fw.breakPartition()
	}

	return nil
}

// Segments returns the Index Table Segments accumulated so far. Callers
// that need to hand the Index Table to a FrameReader should call this
// after Finalize.
func (fw *FrameWriter) Segments() []index.Segment {
	return fw.idx.Segments()
}

// Finalize writes the Footer Partition Pack, the Index Table Segments
// accumulated since the last partition boundary (§4.8's "flush the last
// index"), and the Random Index Pack, then backpatches the Header
// Partition Pack. Segments already flushed to an earlier body+index
// partition by WriteFrame's periodic breaks are not repeated here.
func (fw *FrameWriter) Finalize() error {
	pending := append([]index.Segment(nil), fw.idx.PendingSegments()...)
	return fw.writeFooterPartition(pending)
}

// FrameReader reads frame-wrap essence back out, frame by frame or by
// random access via its Index Table.
type FrameReader struct {
	r          io.ReadSeeker
	essenceKey ul.UL
	idx        index.Reader
	primer     *klv.Primer
	graph      *mdata.Graph
	nextFrame  int64
}

// OpenFrameReader reads the Header Partition, Primer, and metadata graph
// from r, builds the Index Table from the given segments (typically read
// from the file's Body or Footer partition by the caller's partition scan),
// and returns a FrameReader positioned at edit unit 0. segments' StreamOffset
// entries are partition-relative (§3); OpenFrameReader scans the partition
// chain to recover each one's Body partition essence-start offset and
// absolutizes them before building the Index Table reader.
func OpenFrameReader(r io.ReadSeeker, essenceKey ul.UL, segments []index.Segment) (*FrameReader, *mdata.Graph, error) {
	primer, graph, err := readHeaderMetadata(r)
	if err != nil {
		return nil, nil, err
	}

	firstEssenceStart, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, nil, errs.ErrBadSeek
	}

	bodyStarts, err := scanBodyEssenceStarts(r, firstEssenceStart)
	if err != nil {
		return nil, nil, err
	}

	absSegments, err := absolutizeSegments(segments, bodyStarts)
	if err != nil {
		return nil, nil, err
	}

	return &FrameReader{
		r:          r,
		essenceKey: essenceKey,
		idx:        index.NewIndexReader(absSegments),
		primer:     primer,
		graph:      graph,
	}, graph, nil
}

// ReadFrame reads the next frame-wrap edit unit's essence payload. Reading
// past the last edit unit fails with errs.ErrRange; reading from an empty
// essence container fails with errs.ErrEndOfFile.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	offset, ok := fr.idx.Lookup(fr.nextFrame)
	if !ok {
		if fr.idx.Duration() == 0 {
			return nil, errs.ErrEndOfFile
		}

		return nil, errs.ErrRange
	}

	if _, err := fr.r.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, errs.ErrBadSeek
	}

	pkt, value, err := klv.ReadPacket(fr.r)
	if err != nil {
		return nil, err
	}

	if !pkt.Key.EqualIgnoreVersion(fr.essenceKey) {
		return nil, errs.ErrFormat
	}

	fr.nextFrame++

	return value, nil
}

// SeekFrame repositions the reader at the given edit unit number.
func (fr *FrameReader) SeekFrame(editUnit int64) {
	fr.nextFrame = editUnit
}

// ReadEncryptedFrame reads the next frame-wrap edit unit as an encrypted
// ST 429-6 triplet and decrypts it. micLen must match the integrity pack
// length the writer used (0 if the file carries none). mac may be nil to
// skip MIC verification even if the triplet carries one.
func (fr *FrameReader) ReadEncryptedFrame(dec envelope.Decryptor, mac envelope.MACer, micLen int) ([]byte, error) {
	offset, ok := fr.idx.Lookup(fr.nextFrame)
	if !ok {
		if fr.idx.Duration() == 0 {
			return nil, errs.ErrEndOfFile
		}

		return nil, errs.ErrRange
	}

	if _, err := fr.r.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, errs.ErrBadSeek
	}

	pkt, value, err := klv.ReadPacket(fr.r)
	if err != nil {
		return nil, err
	}

	if !pkt.Key.EqualIgnoreVersion(ul.Dict.UL(ul.NameEncryptedTriplet)) {
		return nil, errs.ErrFormat
	}

	triplet, err := envelope.Parse(value, micLen)
	if err != nil {
		return nil, err
	}

	plaintext, err := envelope.Unwrap(dec, mac, triplet)
	if err != nil {
		return nil, err
	}

	fr.nextFrame++

	return plaintext, nil
}
