package index

import "github.com/imfkit/as02ec/ul"

// VBRWriter accumulates per-frame entries for a variable-bit-rate essence
// track, rolling over to a new Segment every MaxEntriesPerSegment frames so
// no single Index Table Segment KLV packet grows unbounded.
type VBRWriter struct {
	editRate          ul.Rational
	indexSID, bodySID uint32
	startPosition     int64

	segments     []Segment
	current      *Segment
	flushedCount int
}

// NewVBRWriter returns a VBRWriter for the given track.
func NewVBRWriter(editRate ul.Rational, indexSID, bodySID uint32) *VBRWriter {
	return &VBRWriter{editRate: editRate, indexSID: indexSID, bodySID: bodySID}
}

// AddFrame records one edit unit at streamOffset with default (zero)
// temporal/key-frame reordering and flags. Use AddFrameFlagged for
// reordered GOP structures.
func (w *VBRWriter) AddFrame(streamOffset uint64) error {
	return w.AddFrameFlagged(streamOffset, 0, 0, 0)
}

// AddFrameFlagged records one edit unit with explicit reordering metadata,
// used for picture essence whose frames are not stored in display order.
func (w *VBRWriter) AddFrameFlagged(streamOffset uint64, temporalOffset, keyFrameOffset int8, flags uint8) error {
	if w.current == nil || len(w.current.Entries) >= MaxEntriesPerSegment {
		w.rollover()
	}

	w.current.Entries = append(w.current.Entries, IndexEntry{
		TemporalOffset: temporalOffset,
		KeyFrameOffset: keyFrameOffset,
		Flags:          flags,
		StreamOffset:   streamOffset,
	})
	w.current.IndexDuration++

	return nil
}

func (w *VBRWriter) rollover() {
	start := w.startPosition
	if len(w.segments) > 0 {
		prev := w.segments[len(w.segments)-1]
		start = prev.IndexStartPosition + prev.IndexDuration
	}

	seg := Segment{
		IndexEditRate:      w.editRate,
		IndexStartPosition: start,
		IndexSID:           w.indexSID,
		BodySID:            w.bodySID,
		DeltaEntries:       []DeltaEntry{{}},
	}
	w.segments = append(w.segments, seg)
	w.current = &w.segments[len(w.segments)-1]
}

// Segments returns every accumulated segment, including the currently open
// one.
func (w *VBRWriter) Segments() []Segment {
	return w.segments
}

// PendingSegments returns the segments accumulated since the last call to
// MarkFlushed (or since construction, if MarkFlushed has never been
// called), letting a frame-wrap writer emit only the newly-closed segments
// at each partition boundary instead of re-emitting segments already
// written to an earlier index partition.
func (w *VBRWriter) PendingSegments() []Segment {
	return w.segments[w.flushedCount:]
}

// MarkFlushed records that every segment returned by the most recent
// PendingSegments call has been written out, and forces the next AddFrame
// call to start a fresh segment (a partition boundary always starts a new
// Index Table Segment, even if the current one has not reached
// MaxEntriesPerSegment).
func (w *VBRWriter) MarkFlushed() {
	w.flushedCount = len(w.segments)
	w.current = nil
}
