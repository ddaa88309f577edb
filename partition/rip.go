package partition

import (
	"io"

	"github.com/imfkit/as02ec/bytesio"
	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/klv"
	"github.com/imfkit/as02ec/ul"
)

// RIPEntry is one (BodySID, byte offset) pair in a Random Index Pack,
// naming the absolute file offset of one partition's Partition Pack.
type RIPEntry struct {
	BodySID    uint32
	ByteOffset uint64
}

// RIP is the Random Index Pack trailing the file's Footer Partition,
// letting a reader seek directly to any partition without scanning.
type RIP struct {
	Entries []RIPEntry
}

// Bytes encodes the RIP body (entries followed by the 4-byte total pack
// length, per ST 377-1 §11).
func (r RIP) Bytes() []byte {
	var buf []byte
	for _, e := range r.Entries {
		buf = bytesio.PutU32(buf, e.BodySID)
		buf = bytesio.PutU64(buf, e.ByteOffset)
	}

	total := uint32(16 + bytesio.BERLong4 + len(buf) + 4)
	buf = bytesio.PutU32(buf, total)

	return buf
}

// Write serializes the RIP as a complete KLV packet to w.
func (r RIP) Write(w io.Writer) error {
	return klv.WritePacket(w, ul.Dict.UL(ul.NameRandomIndexPack), r.Bytes())
}

// ReadRIP reads and decodes a Random Index Pack from value (the already
// extracted KLV Value of a RandomIndexPack packet).
func ReadRIP(value []byte) (RIP, error) {
	if len(value) < 4 {
		return RIP{}, errs.ErrBadRIP
	}

	entryBytes := value[:len(value)-4]
	if len(entryBytes)%12 != 0 {
		return RIP{}, errs.ErrBadRIP
	}

	var rip RIP
	for off := 0; off < len(entryBytes); off += 12 {
		bodySID := uint32(entryBytes[off])<<24 | uint32(entryBytes[off+1])<<16 | uint32(entryBytes[off+2])<<8 | uint32(entryBytes[off+3])
		var offsetVal uint64
		for i := 0; i < 8; i++ {
			offsetVal = offsetVal<<8 | uint64(entryBytes[off+4+i])
		}

		rip.Entries = append(rip.Entries, RIPEntry{BodySID: bodySID, ByteOffset: offsetVal})
	}

	return rip, nil
}

// LocateRIP finds and decodes the Random Index Pack from the end of a
// finished file: the last 4 bytes are the RIP's total length (its KLV
// framing included), so one backward seek lands on the RIP packet. A file
// whose trailer does not resolve to a RandomIndexPack-keyed KLV (e.g. a
// writer was dropped before Finalize) fails with ErrBadRIP.
func LocateRIP(r io.ReadSeeker) (RIP, error) {
	lengthOffset, err := r.Seek(-4, io.SeekEnd)
	if err != nil {
		return RIP{}, errs.ErrBadSeek
	}

	total, err := bytesio.ReadU32(r)
	if err != nil {
		return RIP{}, errs.ErrBadRIP
	}

	fileSize := lengthOffset + 4
	if int64(total) > fileSize || total < 4 {
		return RIP{}, errs.ErrBadRIP
	}

	if _, err := r.Seek(fileSize-int64(total), io.SeekStart); err != nil {
		return RIP{}, errs.ErrBadSeek
	}

	pkt, value, err := klv.ReadPacket(r)
	if err != nil {
		return RIP{}, errs.ErrBadRIP
	}
	if !pkt.Key.EqualIgnoreVersion(ul.Dict.UL(ul.NameRandomIndexPack)) {
		return RIP{}, errs.ErrBadRIP
	}

	return ReadRIP(value)
}

// FindPartition returns the byte offset of the first RIP entry for the
// given BodySID, or ok=false if none is present.
func (r RIP) FindPartition(bodySID uint32) (uint64, bool) {
	for _, e := range r.Entries {
		if e.BodySID == bodySID {
			return e.ByteOffset, true
		}
	}

	return 0, false
}
