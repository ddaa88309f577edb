package partition

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imfkit/as02ec/ul"
)

func TestPartitionRoundTrip(t *testing.T) {
	p := Partition{
		Kind:               KindHeader,
		Status:             StatusOpenIncomplete,
		MajorVersion:       1,
		MinorVersion:       2,
		KAGSize:            512,
		ThisPartition:      0,
		BodyOffset:         0,
		BodySID:            1,
		OperationalPattern: ul.Dict.UL(ul.NameOPAtom),
		EssenceContainers:  []ul.UL{ul.Dict.UL(ul.NamePCMEssenceUL)},
	}

	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	got, err := ReadPartitionPack(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, p.Kind, got.Kind)
	assert.Equal(t, p.Status, got.Status)
	assert.Equal(t, p.KAGSize, got.KAGSize)
	assert.Equal(t, p.BodySID, got.BodySID)
	assert.Equal(t, p.OperationalPattern, got.OperationalPattern)
	require.Len(t, got.EssenceContainers, 1)
	assert.Equal(t, p.EssenceContainers[0], got.EssenceContainers[0])
}

func TestKeyForVariesByKindAndStatus(t *testing.T) {
	header := KeyFor(KindHeader, StatusOpenIncomplete)
	footer := KeyFor(KindFooter, StatusClosedComplete)
	assert.NotEqual(t, header, footer)
	assert.True(t, header.EqualIgnoreVersion(header))
}

func TestRIPRoundTrip(t *testing.T) {
	rip := RIP{Entries: []RIPEntry{
		{BodySID: 0, ByteOffset: 0},
		{BodySID: 1, ByteOffset: 4096},
	}}

	var buf bytes.Buffer
	require.NoError(t, rip.Write(&buf))

	// ReadRIP takes the KLV value without its framing, as rip.Bytes() returns it.
	got, err := ReadRIP(rip.Bytes())
	require.NoError(t, err)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, rip.Entries, got.Entries)

	off, ok := got.FindPartition(1)
	require.True(t, ok)
	assert.Equal(t, uint64(4096), off)
}

func TestLocateRIP_FromEndOfFile(t *testing.T) {
	rip := RIP{Entries: []RIPEntry{
		{BodySID: 0, ByteOffset: 0},
		{BodySID: 1, ByteOffset: 16384},
		{BodySID: 0, ByteOffset: 90000},
	}}

	// Preceding file content is arbitrary as far as the trailer walk is
	// concerned.
	var buf bytes.Buffer
	buf.Write(make([]byte, 1000))
	require.NoError(t, rip.Write(&buf))

	got, err := LocateRIP(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, rip.Entries, got.Entries)
}

func TestLocateRIP_RejectsMissingTrailer(t *testing.T) {
	_, err := LocateRIP(bytes.NewReader(make([]byte, 64)))
	assert.Error(t, err)
}
