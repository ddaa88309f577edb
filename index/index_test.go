package index

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imfkit/as02ec/klv"
	"github.com/imfkit/as02ec/ul"
)

func TestCBRWriter_SegmentAndLookup(t *testing.T) {
	w := NewCBRWriter(ul.Rational{Numerator: 25, Denominator: 1}, 1, 1, 4096)
	for i := 0; i < 10; i++ {
		require.NoError(t, w.AddFrame(0))
	}

	segs := w.Segments()
	require.Len(t, segs, 1)
	assert.Equal(t, int64(10), segs[0].IndexDuration)

	r := NewIndexReader(segs)
	off, ok := r.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, uint64(3*4096), off)
}

func TestVBRWriter_RolloverAndLookup(t *testing.T) {
	w := NewVBRWriter(ul.Rational{Numerator: 24, Denominator: 1}, 1, 1)

	for i := 0; i < MaxEntriesPerSegment+5; i++ {
		require.NoError(t, w.AddFrame(uint64(i*1000)))
	}

	segs := w.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, int64(MaxEntriesPerSegment), segs[0].IndexDuration)
	assert.Equal(t, int64(5), segs[1].IndexDuration)
	assert.Equal(t, segs[0].IndexStartPosition+segs[0].IndexDuration, segs[1].IndexStartPosition)

	r := NewIndexReader(segs)
	off, ok := r.Lookup(0)
	require.True(t, ok)
	assert.Equal(t, uint64(0), off)

	off, ok = r.Lookup(int64(MaxEntriesPerSegment))
	require.True(t, ok)
	assert.Equal(t, uint64(MaxEntriesPerSegment*1000), off)
}

func TestSegmentParseRoundTrip(t *testing.T) {
	iuid, err := ul.NewUUID()
	require.NoError(t, err)

	s := Segment{
		InstanceUID:       iuid,
		IndexEditRate:     ul.Rational{Numerator: 25, Denominator: 1},
		IndexDuration:     3,
		EditUnitByteCount: 0,
		IndexSID:          2,
		BodySID:           1,
		DeltaEntries:      []DeltaEntry{{}},
		Entries: []IndexEntry{
			{TemporalOffset: -1, KeyFrameOffset: 0, Flags: 0x80, StreamOffset: 0},
			{TemporalOffset: 0, KeyFrameOffset: 0, Flags: 0x80, StreamOffset: 1024},
			{TemporalOffset: 1, KeyFrameOffset: -1, Flags: 0, StreamOffset: 2048},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))

	pkt, value, err := klv.ReadPacket(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, Key(), pkt.Key)

	got, err := Parse(value)
	require.NoError(t, err)
	assert.Equal(t, s.InstanceUID, got.InstanceUID)
	assert.Equal(t, s.DeltaEntries, got.DeltaEntries)
	assert.Equal(t, s.Entries, got.Entries)
}
