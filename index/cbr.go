package index

import "github.com/imfkit/as02ec/ul"

// CBRWriter accumulates a constant-bit-rate essence track's edit unit
// count into a single Index Table Segment; CBR needs no per-frame entries
// since every edit unit is EditUnitByteCount bytes.
type CBRWriter struct {
	editRate          ul.Rational
	indexSID, bodySID uint32
	editUnitByteCount uint32
	startPosition     int64
	count             int64
}

// NewCBRWriter returns a CBRWriter for a track whose edit units are all
// exactly editUnitByteCount bytes.
func NewCBRWriter(editRate ul.Rational, indexSID, bodySID, editUnitByteCount uint32) *CBRWriter {
	return &CBRWriter{
		editRate:          editRate,
		indexSID:          indexSID,
		bodySID:           bodySID,
		editUnitByteCount: editUnitByteCount,
	}
}

// AddFrame records one more edit unit. streamOffset is accepted to satisfy
// the Writer interface but is not needed for CBR, whose per-frame offset is
// always editUnit*EditUnitByteCount.
func (w *CBRWriter) AddFrame(streamOffset uint64) error {
	w.count++
	return nil
}

// Segments returns the single accumulated CBR segment.
func (w *CBRWriter) Segments() []Segment {
	return []Segment{{
		IndexEditRate:      w.editRate,
		IndexStartPosition: w.startPosition,
		IndexDuration:      w.count,
		EditUnitByteCount:  w.editUnitByteCount,
		IndexSID:           w.indexSID,
		BodySID:            w.bodySID,
		DeltaEntries:       []DeltaEntry{{}},
	}}
}
