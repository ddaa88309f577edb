package wrap

import (
	"fmt"
	"io"

	"github.com/imfkit/as02ec/bytesio"
	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/index"
	"github.com/imfkit/as02ec/klv"
	"github.com/imfkit/as02ec/mdata"
	"github.com/imfkit/as02ec/ul"
)

// ClipWriter writes clip-wrap essence: the entire track as one KLV packet,
// whose Length field is reserved in the fixed 8-byte BER long form at open
// time (the total size is not known until Finalize) and backpatched once
// writing stops.
type ClipWriter struct {
	*baseWriter

	essenceKey    ul.UL
	editUnitBytes uint32 // 0 if edit units are not equal-sized

	clipLengthOffset int64
	clipValueOffset  int64
	written          int64

	// vbrIdx accumulates one entry per WriteFrame call, at the frame's
	// clip-relative starting byte offset, when editUnitBytes is 0 (§4.9:
	// "Each frame's starting stream_offset is pushed to the VBR index so
	// random access into the clip remains possible").
	vbrIdx *index.VBRWriter

	finalSegments []index.Segment
}

// OpenClipWriter writes the Header Partition Pack, Primer, and metadata
// graph to w, then opens the clip's KLV header with a reserved 8-byte
// length field, returning a ClipWriter ready for WriteFrame calls.
// editUnitBytes, if non-zero, lets Finalize build a CBR Index Table
// Segment; pass 0 for essence whose edit units vary in size (Finalize then
// builds a VBR segment from the per-call sizes WriteFrame recorded).
func OpenClipWriter(w WriteSeeker, graph *mdata.Graph, essenceKey ul.UL, editUnitBytes uint32, opts ...WriterOption) (*ClipWriter, error) {
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

	cw := &ClipWriter{baseWriter: base, essenceKey: essenceKey, editUnitBytes: editUnitBytes}

	cw.clipLengthOffset, err = w.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, errs.ErrBadSeek
	}
	cw.clipLengthOffset += 16 // past the Key, at the start of the BER length field

	if err := klv.WriteHeader(w, essenceKey, 0, bytesio.BERLong8); err != nil {
		return nil, err
	}

	cw.clipValueOffset, err = w.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, errs.ErrBadSeek
	}

	return cw, nil
}

// WriteFrame appends one edit unit's bytes to the clip. An empty
// FrameBuffer fails with errs.ErrParam.
func (cw *ClipWriter) WriteFrame(frame *FrameBuffer) error {
	if cw.state != stateReady && cw.state != stateRunning {
		return fmt.Errorf("%w: WriteFrame called from %s", errs.ErrState, cw.state)
	}

	if len(frame.Bytes()) == 0 {
		return fmt.Errorf("%w: zero-length frame buffer", errs.ErrParam)
	}

	offset := cw.written

	if _, err := cw.w.Write(frame.Bytes()); err != nil {
		return errs.ErrWriteFail
	}

	if cw.editUnitBytes == 0 {
		if cw.vbrIdx == nil {
			cw.vbrIdx = index.NewVBRWriter(cw.cfg.EditRate, cw.cfg.IndexSID, cw.cfg.BodySID)
		}
		if err := cw.vbrIdx.AddFrame(uint64(offset)); err != nil {
			return err
		}
	}

	cw.written += int64(len(frame.Bytes()))
	cw.frameCount++
	cw.state = stateRunning

	return nil
}

// Finalize backpatches the clip's BER length field with the total number
// of essence bytes written, then writes the Footer Partition, Index Table,
// and Random Index Pack, and backpatches the Header Partition Pack.
func (cw *ClipWriter) Finalize() error {
	if _, err := cw.w.Seek(cw.clipLengthOffset, io.SeekStart); err != nil {
		return errs.ErrBadSeek
	}
	if err := bytesio.WriteBERLength(cw.w, uint64(cw.written), bytesio.BERLong8); err != nil {
		return err
	}
	if _, err := cw.w.Seek(0, io.SeekEnd); err != nil {
		return errs.ErrBadSeek
	}

	var segments []index.Segment
	if cw.editUnitBytes != 0 && cw.frameCount > 0 {
		cbr := index.NewCBRWriter(cw.cfg.EditRate, cw.cfg.IndexSID, cw.cfg.BodySID, cw.editUnitBytes)
		for i := int64(0); i < cw.frameCount; i++ {
			if err := cbr.AddFrame(0); err != nil {
				return err
			}
		}
		segments = cbr.Segments()
	} else if cw.vbrIdx != nil {
		segments = cw.vbrIdx.Segments()
	}
	cw.finalSegments = segments

	return cw.writeFooterPartition(segments)
}

// Segments returns the Index Table Segments built at Finalize (CBR if the
// writer was opened with a non-zero editUnitBytes, VBR per-frame offsets
// otherwise). Callers that need to hand the Index Table to a ClipReader for
// random-access reads should call this after Finalize.
func (cw *ClipWriter) Segments() []index.Segment {
	return cw.finalSegments
}

// ClipReader reads clip-wrap essence back out.
type ClipReader struct {
	r            io.ReadSeeker
	valueOffset  int64
	totalLength  uint64
	editUnitSize uint32
	idx          index.Reader
}

// OpenClipReader reads the Header Partition, Primer, and metadata graph
// from r, then locates and opens the clip's KLV header. editUnitSize must
// match the size passed to OpenClipWriter so ReadFrameAt can compute
// per-frame offsets; pass 0 and use ReadAll for variable-size essence.
func OpenClipReader(r io.ReadSeeker, essenceKey ul.UL, editUnitSize uint32) (*ClipReader, *mdata.Graph, error) {
	_, graph, err := readHeaderMetadata(r)
	if err != nil {
		return nil, nil, err
	}

	pkt, err := klv.ReadHeader(r)
	if err != nil {
		return nil, nil, err
	}

	if !pkt.Key.EqualIgnoreVersion(essenceKey) {
		return nil, nil, errs.ErrFormat
	}

	valueOffset, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, nil, errs.ErrBadSeek
	}

	return &ClipReader{r: r, valueOffset: valueOffset, totalLength: pkt.Length, editUnitSize: editUnitSize}, graph, nil
}

// ReadAll reads the entire clip's essence bytes.
func (cr *ClipReader) ReadAll() ([]byte, error) {
	if _, err := cr.r.Seek(cr.valueOffset, io.SeekStart); err != nil {
		return nil, errs.ErrBadSeek
	}

	buf := make([]byte, cr.totalLength)
	if _, err := io.ReadFull(cr.r, buf); err != nil {
		return nil, errs.ErrTruncatedPacket
	}

	return buf, nil
}

// SetIndex attaches the Index Table Segments recovered for this clip
// (typically from a ClipWriter's Segments() or a partition scan's parsed
// Index Table Segments), enabling ReadFrame for variable-size edit units
// whose per-frame boundaries cannot be computed from a fixed editUnitSize.
func (cr *ClipReader) SetIndex(segments []index.Segment) {
	cr.idx = index.NewIndexReader(segments)
}

// ReadFrame reads the editUnit-th edit unit using the attached Index Table
// (see SetIndex), for clips whose edit units are not equal-sized (§4.9:
// "index is derived or per-frame offsets"). A frame's length is the
// distance to the next recorded offset, or to the end of the clip for the
// last edit unit, since Index Table Segment entries carry only a starting
// StreamOffset.
func (cr *ClipReader) ReadFrame(editUnit int64) ([]byte, error) {
	if cr.idx == nil {
		return nil, fmt.Errorf("%w: ReadFrame requires SetIndex", errs.ErrParam)
	}

	if cr.totalLength == 0 {
		return nil, errs.ErrEndOfFile
	}

	offset, ok := cr.idx.Lookup(editUnit)
	if !ok {
		return nil, errs.ErrRange
	}

	length := cr.totalLength - offset
	if next, ok := cr.idx.Lookup(editUnit + 1); ok {
		length = next - offset
	}

	if _, err := cr.r.Seek(cr.valueOffset+int64(offset), io.SeekStart); err != nil {
		return nil, errs.ErrBadSeek
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(cr.r, buf); err != nil {
		return nil, errs.ErrTruncatedPacket
	}

	return buf, nil
}

// FrameCount returns the number of fixed-size edit units in the clip, for
// clips opened with a non-zero editUnitSize (§6.2's audio
// `frame_count() -> u32` operation). It is 0 for a clip opened with
// editUnitSize=0.
func (cr *ClipReader) FrameCount() uint32 {
	if cr.editUnitSize == 0 {
		return 0
	}

	return uint32(cr.totalLength / uint64(cr.editUnitSize))
}

// ReadFrameAt reads the editUnit-th fixed-size edit unit directly, for
// clips opened with a non-zero editUnitSize. Reading any frame of an empty
// clip fails with errs.ErrEndOfFile; a frame number at or beyond
// FrameCount() of a populated clip fails with errs.ErrRange.
func (cr *ClipReader) ReadFrameAt(editUnit int64) ([]byte, error) {
	if cr.editUnitSize == 0 {
		return nil, errs.ErrParam
	}

	if cr.totalLength == 0 {
		return nil, errs.ErrEndOfFile
	}

	offset := cr.valueOffset + editUnit*int64(cr.editUnitSize)
	if editUnit < 0 || uint64(editUnit+1)*uint64(cr.editUnitSize) > cr.totalLength {
		return nil, errs.ErrRange
	}

	if _, err := cr.r.Seek(offset, io.SeekStart); err != nil {
		return nil, errs.ErrBadSeek
	}

	buf := make([]byte, cr.editUnitSize)
	if _, err := io.ReadFull(cr.r, buf); err != nil {
		return nil, errs.ErrTruncatedPacket
	}

	return buf, nil
}
