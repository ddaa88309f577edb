package klv

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imfkit/as02ec/ul"
)

func TestKLVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	key := ul.Dict.UL(ul.NamePreface)
	value := []byte("hello, klv")

	require.NoError(t, WritePacket(&buf, key, value))

	pkt, got, err := ReadPacket(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, key, pkt.Key)
	assert.Equal(t, uint64(len(value)), pkt.Length)
	assert.Equal(t, value, got)
}

func TestFillPacket(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFill(&buf, 64))
	assert.Equal(t, 64, buf.Len())

	pkt, _, err := ReadPacket(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, FillKey(), pkt.Key)
}

func TestPrimerRoundTrip(t *testing.T) {
	p := NewPrimer()
	a := p.TagFor(ul.Dict.UL(ul.NameTrackID))
	b := p.TagFor(ul.Dict.UL(ul.NameDuration))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, p.TagFor(ul.Dict.UL(ul.NameTrackID))) // stable

	var buf bytes.Buffer
	require.NoError(t, WritePrimerPack(&buf, p))

	_, value, err := ReadPacket(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	p2, err := ReadPrimerPack(value)
	require.NoError(t, err)

	got, ok := p2.Resolve(a)
	require.True(t, ok)
	assert.Equal(t, ul.Dict.UL(ul.NameTrackID), got)
}

func TestTLVSetRoundTrip(t *testing.T) {
	p := NewPrimer()

	var body []byte
	body = WriteTLV(body, p, ul.Dict.UL(ul.NameTrackID), []byte{0, 0, 0, 7})
	body = WriteTLV(body, p, ul.Dict.UL(ul.NameTrackName), []byte("V1"))

	props, err := ReadTLVSet(body, p)
	require.NoError(t, err)
	require.Len(t, props, 2)

	assert.True(t, props[0].Known)
	assert.Equal(t, ul.Dict.UL(ul.NameTrackID), props[0].UL)
	assert.Equal(t, []byte{0, 0, 0, 7}, props[0].Value)
}

func TestTLVSet_UnknownTagIsNonFatal(t *testing.T) {
	p := NewPrimer()
	body := WriteTLV(nil, p, ul.Dict.UL(ul.NameTrackID), []byte{1, 2, 3, 4})

	// Simulate a reader with a *different* primer that never saw this tag.
	emptyPrimer := NewPrimer()
	props, err := ReadTLVSet(body, emptyPrimer)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.False(t, props[0].Known)
	assert.Equal(t, []byte{1, 2, 3, 4}, props[0].Value)
}

func TestBatchRoundTrip(t *testing.T) {
	b := Batch{ItemSize: 16, Items: [][]byte{
		ul.Dict.UL(ul.NameOP1a).Bytes(),
		ul.Dict.UL(ul.NameOPAtom).Bytes(),
	}}

	encoded := EncodeBatch(b)
	decoded, err := DecodeBatch(encoded)
	require.NoError(t, err)
	assert.Equal(t, b.Items, decoded.Items)
}
