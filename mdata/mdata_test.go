package mdata

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imfkit/as02ec/klv"
	"github.com/imfkit/as02ec/ul"
)

func TestPreface_FieldRoundTrip(t *testing.T) {
	primer := klv.NewPrimer()

	src := &Preface{
		LastModifiedDate:   time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC),
		Version:            0x0102,
		OperationalPattern: ul.Dict.UL(ul.NameOPAtom),
	}

	body, err := WriteObject(primer, src)
	require.NoError(t, err)

	props, err := klv.ReadTLVSet(body, primer)
	require.NoError(t, err)

	got := &Preface{}
	require.NoError(t, ReadObject(got, props))

	assert.True(t, src.LastModifiedDate.Equal(got.LastModifiedDate))
	assert.Equal(t, src.Version, got.Version)
	assert.Equal(t, src.OperationalPattern, got.OperationalPattern)
	assert.False(t, got.InstanceUID().IsZero())
}

func TestTrack_UnknownFieldPreserved(t *testing.T) {
	primer := klv.NewPrimer()

	src := &Track{TrackID: 1, TrackName: "V1"}
	body, err := WriteObject(primer, src)
	require.NoError(t, err)

	// A reader primer that has never seen NameTrackNumber's tag can't
	// resolve it; simulate by reading with a fresh, empty primer first so
	// tags are unknown, then feed the real one back in for comparison.
	otherPrimer := klv.NewPrimer()
	props, err := klv.ReadTLVSet(body, otherPrimer)
	require.NoError(t, err)

	got := &Track{}
	require.NoError(t, ReadObject(got, props))

	// None of the fields resolve against a fresh primer (no tag allocations
	// are shared), so the object round-trips as entirely unknown fields.
	assert.Empty(t, got.TrackName)
	assert.NotEmpty(t, got.UnknownFields())

	reWritten, err := WriteObject(otherPrimer, got)
	require.NoError(t, err)
	assert.NotEmpty(t, reWritten)
}

func TestCDCIEssenceDescriptor_MasteringMetadataRoundTrip(t *testing.T) {
	primer := klv.NewPrimer()

	src := &CDCIEssenceDescriptor{}
	src.StoredWidth = 1920
	src.StoredHeight = 1080
	src.MasteringDisplayPrimaries = []byte{1, 2, 3, 4}

	body, err := WriteObject(primer, src)
	require.NoError(t, err)

	props, err := klv.ReadTLVSet(body, primer)
	require.NoError(t, err)

	got := &CDCIEssenceDescriptor{}
	require.NoError(t, ReadObject(got, props))

	assert.Equal(t, src.StoredWidth, got.StoredWidth)
	assert.Equal(t, src.StoredHeight, got.StoredHeight)
	assert.Equal(t, src.MasteringDisplayPrimaries, got.MasteringDisplayPrimaries)
}

func TestGraph_AddAssignsInstanceUIDAndDetectsDuplicates(t *testing.T) {
	g := NewGraph()

	p := &Preface{}
	require.NoError(t, g.Add(p))
	assert.False(t, p.InstanceUID().IsZero())

	err := g.Add(p)
	assert.Error(t, err)
}

func TestGraph_PrefaceIsFirstObject(t *testing.T) {
	g := NewGraph()

	p := &Preface{}
	cs := &ContentStorage{}
	require.NoError(t, g.Add(p))
	require.NoError(t, g.Add(cs))

	got, ok := g.Preface()
	require.True(t, ok)
	assert.Equal(t, p.InstanceUID(), got.InstanceUID())

	tracks := GetObjectsByType[*Track](g)
	assert.Empty(t, tracks)
}

func TestGraph_ValidateCatchesDanglingReference(t *testing.T) {
	g := NewGraph()

	p := &Preface{}
	require.NoError(t, g.Add(p))

	bogus, err := ul.NewUUID()
	require.NoError(t, err)
	p.ContentStorage = bogus

	assert.Error(t, g.Validate())
}

func TestGraph_WriteAndInitFromBufferRoundTrip(t *testing.T) {
	primer := klv.NewPrimer()

	g := NewGraph()

	p := &Preface{Version: 1}
	require.NoError(t, g.Add(p))

	cs := &ContentStorage{}
	require.NoError(t, g.Add(cs))
	p.ContentStorage = cs.InstanceUID()

	require.NoError(t, g.Validate())

	data, err := WriteGraph(primer, g)
	require.NoError(t, err)

	g2, err := InitFromBuffer(data, primer)
	require.NoError(t, err)

	got, ok := g2.Preface()
	require.True(t, ok)
	assert.Equal(t, uint16(1), got.Version)
	assert.Equal(t, p.InstanceUID(), got.InstanceUID())

	_, ok = g2.GetObjectByID(cs.InstanceUID())
	assert.True(t, ok)

	require.NoError(t, g2.Validate())
}

func TestInitFromBufferWithLogger_WarnsOnUnknownSetAndField(t *testing.T) {
	primer := klv.NewPrimer()

	g := NewGraph()
	require.NoError(t, g.Add(&Preface{Version: 1}))

	data, err := WriteGraph(primer, g)
	require.NoError(t, err)

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	otherPrimer := klv.NewPrimer()
	_, err = InitFromBufferWithLogger(data, otherPrimer, log)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "unresolvable local tag")
}

func TestMaterialPackage_Clone(t *testing.T) {
	src := &MaterialPackage{}
	src.Tracks = []ul.UUID{mustUUID(t)}

	clone := src.Clone()
	clone.Tracks[0] = mustUUID(t)

	assert.NotEqual(t, src.Tracks[0], clone.Tracks[0])
}

func mustUUID(t *testing.T) ul.UUID {
	t.Helper()
	u, err := ul.NewUUID()
	require.NoError(t, err)

	return u
}
