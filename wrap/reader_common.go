package wrap

import (
	"fmt"
	"io"

	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/index"
	"github.com/imfkit/as02ec/klv"
	"github.com/imfkit/as02ec/mdata"
	"github.com/imfkit/as02ec/partition"
	"github.com/imfkit/as02ec/ul"
)

// readHeaderMetadata reads the Header Partition Pack, Primer Pack, and
// metadata graph starting at r's current position, leaving r positioned
// just after the metadata region (the start of the Body partition).
func readHeaderMetadata(r io.ReadSeeker) (*klv.Primer, *mdata.Graph, error) {
	p, err := partition.ReadPartitionPack(r)
	if err != nil {
		return nil, nil, err
	}

	_, primerValue, err := klv.ReadPacket(r)
	if err != nil {
		return nil, nil, err
	}

	primer, err := klv.ReadPrimerPack(primerValue)
	if err != nil {
		return nil, nil, err
	}

	primerSize := klv.HeaderSize(uint64(len(primerValue))) + len(primerValue)
	metadataSize := int(p.HeaderByteCount) - primerSize
	if metadataSize < 0 {
		metadataSize = 0
	}

	metadata := make([]byte, metadataSize)
	if _, err := io.ReadFull(r, metadata); err != nil {
		return nil, nil, err
	}

	graph, err := mdata.InitFromBuffer(metadata, primer)
	if err != nil {
		return nil, nil, err
	}

	return primer, graph, nil
}

// scanBodyEssenceStarts walks the partition chain starting at the given
// firstEssenceStart (the first Body partition's essence-start offset,
// immediately following the Header metadata) forward to the Random Index
// Pack or EOF, recording every Body partition's essence-start file offset
// it encounters, in file order. r's position is restored before returning.
func scanBodyEssenceStarts(r io.ReadSeeker, firstEssenceStart int64) ([]int64, error) {
	restore, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, errs.ErrBadSeek
	}
	defer r.Seek(restore, io.SeekStart)

	if _, err := r.Seek(firstEssenceStart, io.SeekStart); err != nil {
		return nil, errs.ErrBadSeek
	}

	starts := []int64{firstEssenceStart}
	ripKey := ul.Dict.UL(ul.NameRandomIndexPack)

	for {
		hdr, err := klv.ReadHeader(r)
		if err != nil {
			break // benign EOF: nothing past the last frame but footer/RIP
		}

		if hdr.Key.EqualIgnoreVersion(ripKey) {
			break
		}

		if partition.IsPartitionKey(hdr.Key) {
			val, err := klv.ReadValue(r, hdr)
			if err != nil {
				return nil, err
			}

			p, err := partition.Parse(hdr.Key, val)
			if err != nil {
				return nil, err
			}

			next, err := r.Seek(0, io.SeekCurrent)
			if err != nil {
				return nil, errs.ErrBadSeek
			}

			if p.BodySID != 0 {
				starts = append(starts, next)
			}

			continue
		}

		if _, err := r.Seek(int64(hdr.Length), io.SeekCurrent); err != nil {
			return nil, errs.ErrBadSeek
		}
	}

	return starts, nil
}

// absolutizeSegments translates each VBR segment's partition-relative
// StreamOffset entries back to absolute file offsets by adding the
// essence-start offset of the Body partition that segment was flushed
// into. segments and bodyStarts are both in file-write order -- FrameWriter
// flushes exactly one Index Table Segment per Body partition it closes out
// (§4.8), so the i-th segment belongs to the i-th Body partition.
func absolutizeSegments(segments []index.Segment, bodyStarts []int64) ([]index.Segment, error) {
	if len(segments) > len(bodyStarts) {
		return nil, fmt.Errorf("%w: more Index Table Segments than Body partitions", errs.ErrFormat)
	}

	out := make([]index.Segment, len(segments))
	for i, seg := range segments {
		base := uint64(bodyStarts[i])

		entries := make([]index.IndexEntry, len(seg.Entries))
		for j, e := range seg.Entries {
			e.StreamOffset += base
			entries[j] = e
		}
		seg.Entries = entries

		out[i] = seg
	}

	return out, nil
}
