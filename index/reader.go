package index

// IndexReader unifies CBR and VBR lookup: edit unit number to the
// essence-container byte offset of that frame's KLV packet.
type IndexReader struct {
	segments []Segment
}

// NewIndexReader builds a reader over one or more parsed Index Table
// Segments (a single CBR segment, or a sequence of VBR segments produced
// by a VBRWriter's rollovers).
func NewIndexReader(segments []Segment) *IndexReader {
	return &IndexReader{segments: segments}
}

// Duration returns the total number of edit units covered by every known
// segment, letting a reader distinguish an empty essence container from a
// frame number past the end of a populated one.
func (r *IndexReader) Duration() int64 {
	var total int64
	for _, seg := range r.segments {
		total += seg.IndexDuration
	}

	return total
}

// Lookup returns the essence byte offset of editUnit, or ok=false if it
// falls outside every known segment's range.
func (r *IndexReader) Lookup(editUnit int64) (uint64, bool) {
	for _, seg := range r.segments {
		if editUnit < seg.IndexStartPosition {
			continue
		}

		rel := editUnit - seg.IndexStartPosition

		if seg.IsCBR() {
			if rel >= seg.IndexDuration && seg.IndexDuration != 0 {
				continue
			}

			return uint64(rel) * uint64(seg.EditUnitByteCount), true
		}

		if rel < 0 || rel >= int64(len(seg.Entries)) {
			continue
		}

		return seg.Entries[rel].StreamOffset, true
	}

	return 0, false
}
