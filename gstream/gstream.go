// Package gstream implements RP 2057 generic stream text carriage: an
// auxiliary UTF-8 text blob (an ISXD overlay, a font's license text, a
// Timed Text resource) carried in its own BodySID-addressed partition with
// no Index Table, described by a GenericStreamTextBasedSet bound to a
// TextBasedDMFramework. spec.md §3 names both sets and §6.2 names the
// add_generic_stream_utf8_text operation without specifying its container
// mechanics; SPEC_FULL.md supplements the wire shape from
// original_source's AS_02.h/Metadata.cpp generic-stream partition
// description.
package gstream

import (
	"io"

	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/klv"
	"github.com/imfkit/as02ec/mdata"
	"github.com/imfkit/as02ec/partition"
	"github.com/imfkit/as02ec/ul"
)

// WriteSeeker is the minimal capability WriteText needs.
type WriteSeeker interface {
	io.Writer
	io.Seeker
}

// Entry is one written generic stream, returned so the caller can fold its
// ByteOffset into the file's Random Index Pack (BodySID, ByteOffset) list.
type Entry struct {
	BodySID    uint32
	ByteOffset uint64

	// Set and Framework must be added to the Graph (and Framework's
	// TextBasedObject wired to a DMSegment referencing it) by the caller;
	// WriteText only constructs them, it does not mutate the Graph.
	Set       *mdata.GenericStreamTextBasedSet
	Framework *mdata.TextBasedDMFramework
}

// WriteText writes one generic stream partition (BodySID=bodySID,
// IndexSID=0) at the writer's current position, containing the complete
// UTF-8 text as a single KLV value keyed by
// ul.NameGenericStreamPartitionContainer, and returns the descriptive sets
// the caller must register against the Header Preface.
func WriteText(w WriteSeeker, bodySID uint32, mimeType, rfc5646Language string, text []byte) (Entry, error) {
	if bodySID == 0 {
		return Entry{}, errs.ErrParam
	}

	offset, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return Entry{}, errs.ErrBadSeek
	}

	p := partition.Partition{
		Kind:               partition.KindGenericStream,
		Status:             partition.StatusClosedComplete,
		MajorVersion:       1,
		KAGSize:            1,
		ThisPartition:      uint64(offset),
		BodySID:            bodySID,
		IndexSID:           0,
		OperationalPattern: ul.Dict.UL(ul.NameOPAtom),
	}
	if err := p.Write(w); err != nil {
		return Entry{}, err
	}

	if err := klv.WritePacket(w, ul.Dict.UL(ul.NameGenericStreamPartitionContainer), text); err != nil {
		return Entry{}, err
	}

	set := &mdata.GenericStreamTextBasedSet{
		GenericStreamSID: bodySID,
		MimeType:         mimeType,
		RFC5646Language:  rfc5646Language,
	}
	setUID, err := set.EnsureInstanceUID()
	if err != nil {
		return Entry{}, err
	}
	framework := &mdata.TextBasedDMFramework{TextBasedObject: setUID}

	return Entry{BodySID: bodySID, ByteOffset: uint64(offset), Set: set, Framework: framework}, nil
}

// ReadText reads the generic stream partition at the given absolute byte
// offset (as recorded in the file's Random Index Pack) and returns its
// complete UTF-8 text payload: the partition pack is skipped and the
// immediately following KLV is the text.
func ReadText(r io.ReadSeeker, byteOffset uint64) ([]byte, error) {
	if _, err := r.Seek(int64(byteOffset), io.SeekStart); err != nil {
		return nil, errs.ErrBadSeek
	}

	partHdr, err := klv.ReadHeader(r)
	if err != nil {
		return nil, err
	}
	if _, err := klv.ReadValue(r, partHdr); err != nil {
		return nil, err
	}

	hdr, err := klv.ReadHeader(r)
	if err != nil {
		return nil, err
	}

	return klv.ReadValue(r, hdr)
}
