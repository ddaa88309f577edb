package wrap

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imfkit/as02ec/crypt"
	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/klv"
	"github.com/imfkit/as02ec/mdata"
	"github.com/imfkit/as02ec/partition"
	"github.com/imfkit/as02ec/ul"
)

// scanPartitions walks every KLV packet in f from the start and returns the
// decoded Partition Packs in file order, stopping at the Random Index Pack.
func scanPartitions(t *testing.T, f *memFile) []partition.Partition {
	t.Helper()

	f.pos = 0
	ripKey := ul.Dict.UL(ul.NameRandomIndexPack)

	var parts []partition.Partition
	for {
		hdr, err := klv.ReadHeader(f)
		if err != nil {
			break
		}

		if hdr.Key.EqualIgnoreVersion(ripKey) {
			break
		}

		if partition.IsPartitionKey(hdr.Key) {
			val, err := klv.ReadValue(f, hdr)
			require.NoError(t, err)

			p, err := partition.Parse(hdr.Key, val)
			require.NoError(t, err)
			parts = append(parts, p)

			continue
		}

		_, err = f.Seek(int64(hdr.Length), io.SeekCurrent)
		require.NoError(t, err)
	}

	return parts
}

// memFile is a minimal in-memory io.ReadWriteSeeker used to exercise the
// writer/reader round trip without touching the filesystem.
type memFile struct {
	buf []byte
	pos int64
}

func (m *memFile) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}

	n := copy(m.buf[m.pos:end], p)
	m.pos = end

	return n, nil
}

func (m *memFile) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}

	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)

	return n, nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = m.pos
	case io.SeekEnd:
		base = int64(len(m.buf))
	}

	m.pos = base + offset

	return m.pos, nil
}

func newGraphWithPreface(t *testing.T) *mdata.Graph {
	t.Helper()

	g := mdata.NewGraph()
	require.NoError(t, g.Add(&mdata.Preface{Version: 1}))

	return g
}

func TestFrameWriterReader_RoundTrip(t *testing.T) {
	g := newGraphWithPreface(t)

	f := &memFile{}
	essenceKey := ul.Dict.UL(ul.NamePCMEssenceUL)

	fw, err := OpenFrameWriter(f, g, essenceKey,
		WithBodySID(1),
		WithIndexSID(2),
		WithEditRate(ul.Rational{Numerator: 25, Denominator: 1}),
		WithOperationalPattern(ul.Dict.UL(ul.NameOPAtom)),
		WithEssenceContainer(ul.Dict.UL(ul.NamePCMEssenceUL)),
	)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		fb := NewFrameBuffer()
		_, _ = fb.Write([]byte{byte(i), byte(i + 1), byte(i + 2)})
		require.NoError(t, fw.WriteFrame(fb))
		fb.Release()
	}

	require.NoError(t, fw.Finalize())

	segments := fw.idx.Segments()

	f.pos = 0
	fr, graph, err := OpenFrameReader(f, essenceKey, segments)
	require.NoError(t, err)

	got, ok := graph.Preface()
	require.True(t, ok)
	assert.Equal(t, uint16(1), got.Version)

	first, err := fr.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, first)

	second, err := fr.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, second)

	// Frame N of an N-frame file is out of range, not end-of-file.
	fr.SeekFrame(3)
	_, err = fr.ReadFrame()
	assert.ErrorIs(t, err, errs.ErrRange)
}

func TestClipWriterReader_RoundTrip(t *testing.T) {
	g := newGraphWithPreface(t)

	f := &memFile{}
	essenceKey := ul.Dict.UL(ul.NamePCMEssenceUL)

	cw, err := OpenClipWriter(f, g, essenceKey, 4,
		WithBodySID(1),
		WithIndexSID(2),
		WithEditRate(ul.Rational{Numerator: 48000, Denominator: 1}),
		WithOperationalPattern(ul.Dict.UL(ul.NameOPAtom)),
		WithEssenceContainer(ul.Dict.UL(ul.NamePCMEssenceUL)),
	)
	require.NoError(t, err)

	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	fb := NewFrameBuffer()
	_, _ = fb.Write(payload)
	require.NoError(t, cw.WriteFrame(fb))
	fb.Release()

	require.NoError(t, cw.Finalize())

	f.pos = 0
	cr, _, err := OpenClipReader(f, essenceKey, 4)
	require.NoError(t, err)

	all, err := cr.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, payload, all)

	frame0, err := cr.ReadFrameAt(0)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, frame0)

	// The clip holds exactly FrameCount() edit units; the next one is out
	// of range.
	require.Equal(t, uint32(2), cr.FrameCount())
	_, err = cr.ReadFrameAt(2)
	assert.ErrorIs(t, err, errs.ErrRange)
}

func TestFrameWriterReader_EncryptedRoundTrip(t *testing.T) {
	g := newGraphWithPreface(t)

	f := &memFile{}
	essenceKey := ul.Dict.UL(ul.NameJPEG2000EssenceUL)
	key := make([]byte, 16)

	fw, err := OpenFrameWriter(f, g, essenceKey,
		WithBodySID(1),
		WithIndexSID(2),
		WithEditRate(ul.Rational{Numerator: 24, Denominator: 1}),
		WithOperationalPattern(ul.Dict.UL(ul.NameOPAtom)),
		WithEssenceContainer(ul.Dict.UL(ul.NameJPEG2000EssenceFrame)),
	)
	require.NoError(t, err)

	cipher, err := crypt.NewAESCBCCipher(key)
	require.NoError(t, err)
	mac := crypt.NewHMACSHA1MAC(key)

	contextID := ul.UUID{}
	plaintext := make([]byte, 200000)
	for i := range plaintext {
		plaintext[i] = byte(i)
	}

	fb := NewFrameBuffer()
	_, _ = fb.Write(plaintext)
	require.NoError(t, fw.WriteEncryptedFrame(fb, contextID, cipher, mac))
	fb.Release()

	require.NoError(t, fw.Finalize())
	segments := fw.idx.Segments()

	f.pos = 0
	fr, _, err := OpenFrameReader(f, essenceKey, segments)
	require.NoError(t, err)

	got, err := fr.ReadEncryptedFrame(cipher, mac, len(mac.Sum(nil)))
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)

	f.pos = 0
	fr2, _, err := OpenFrameReader(f, essenceKey, segments)
	require.NoError(t, err)

	wrongKey := make([]byte, 16)
	wrongKey[0] = 1
	wrongMAC := crypt.NewHMACSHA1MAC(wrongKey)
	_, err = fr2.ReadEncryptedFrame(cipher, wrongMAC, len(mac.Sum(nil)))
	assert.ErrorIs(t, err, errs.ErrHMACFail)
}

func TestFrameWriter_PartitionBreaks(t *testing.T) {
	g := newGraphWithPreface(t)

	f := &memFile{}
	essenceKey := ul.Dict.UL(ul.NameJPEG2000EssenceUL)

	fw, err := OpenFrameWriter(f, g, essenceKey,
		WithBodySID(1),
		WithIndexSID(2),
		WithEditRate(ul.Rational{Numerator: 24, Denominator: 1}),
		WithOperationalPattern(ul.Dict.UL(ul.NameOPAtom)),
		WithEssenceContainer(ul.Dict.UL(ul.NameJPEG2000EssenceFrame)),
		WithPartitionSpace(1), // 1 second = 24 edit units at 24/1
	)
	require.NoError(t, err)

	for i := 0; i < 48; i++ {
		fb := NewFrameBuffer()
		_, _ = fb.Write([]byte{byte(i)})
		require.NoError(t, fw.WriteFrame(fb))
		fb.Release()
	}

	segments := fw.Segments()
	require.NoError(t, fw.Finalize())

	// Header + 2 body-partition breaks (one per second) each contributing
	// an index partition and a fresh body partition + the footer: 1 + 2*2 + 1.
	assert.Equal(t, 6, len(fw.ripEntries))

	f.pos = 0
	fr, _, err := OpenFrameReader(f, essenceKey, segments)
	require.NoError(t, err)

	for i := 0; i < 48; i++ {
		got, err := fr.ReadFrame()
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(i)}, got)
	}
}

func TestFrameWriter_PartitionLinkage(t *testing.T) {
	g := newGraphWithPreface(t)

	f := &memFile{}
	essenceKey := ul.Dict.UL(ul.NameJPEG2000EssenceUL)

	fw, err := OpenFrameWriter(f, g, essenceKey,
		WithBodySID(1),
		WithIndexSID(2),
		WithEditRate(ul.Rational{Numerator: 24, Denominator: 1}),
		WithOperationalPattern(ul.Dict.UL(ul.NameOPAtom)),
		WithEssenceContainer(ul.Dict.UL(ul.NameJPEG2000EssenceFrame)),
		WithPartitionSpace(1),
	)
	require.NoError(t, err)

	for i := 0; i < 48; i++ {
		fb := NewFrameBuffer()
		_, _ = fb.Write([]byte{byte(i)})
		require.NoError(t, fw.WriteFrame(fb))
		fb.Release()
	}
	require.NoError(t, fw.Finalize())

	parts := scanPartitions(t, f)
	require.Len(t, parts, 6)
	assert.Equal(t, partition.KindHeader, parts[0].Kind)
	assert.Equal(t, partition.KindFooter, parts[len(parts)-1].Kind)

	footerOffset := parts[len(parts)-1].ThisPartition
	for i, p := range parts {
		assert.Equal(t, footerOffset, p.FooterPartition, "partition %d", i)
		if i == 0 {
			assert.Zero(t, p.PreviousPartition)
			continue
		}
		assert.Equal(t, parts[i-1].ThisPartition, p.PreviousPartition, "partition %d", i)
	}

	// The last 4 bytes of the file locate a complete Random Index Pack with
	// one entry per partition.
	rip, err := partition.LocateRIP(f)
	require.NoError(t, err)
	require.Len(t, rip.Entries, 6)
	assert.Equal(t, footerOffset, rip.Entries[5].ByteOffset)
}

func TestWriter_HeaderRegionPaddedToHeaderSize(t *testing.T) {
	g := newGraphWithPreface(t)
	f := &memFile{}

	fw, err := OpenFrameWriter(f, g, ul.Dict.UL(ul.NamePCMEssenceUL),
		WithBodySID(1),
		WithIndexSID(2),
		WithEditRate(ul.Rational{Numerator: 25, Denominator: 1}),
		WithOperationalPattern(ul.Dict.UL(ul.NameOPAtom)),
		WithEssenceContainer(ul.Dict.UL(ul.NamePCMEssenceUL)),
	)
	require.NoError(t, err)

	// The first essence byte lands exactly at the default reserved header
	// region boundary.
	assert.Equal(t, int64(MinHeaderSize), fw.bodyEssenceStartOffset)

	fb := NewFrameBuffer()
	_, _ = fb.Write([]byte{1, 2, 3})
	require.NoError(t, fw.WriteFrame(fb))
	fb.Release()
	require.NoError(t, fw.Finalize())

	segments := fw.idx.Segments()
	f.pos = 0
	fr, _, err := OpenFrameReader(f, ul.Dict.UL(ul.NamePCMEssenceUL), segments)
	require.NoError(t, err)

	got, err := fr.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestWithHeaderSize_RejectsBelowMinimum(t *testing.T) {
	g := newGraphWithPreface(t)
	f := &memFile{}

	_, err := OpenFrameWriter(f, g, ul.Dict.UL(ul.NamePCMEssenceUL),
		WithBodySID(1),
		WithHeaderSize(1024),
	)
	require.ErrorIs(t, err, errs.ErrParam)
}

func TestFrameWriter_WriteFrameBeforeOpenFails(t *testing.T) {
	fw := &FrameWriter{baseWriter: &baseWriter{state: stateFinal}}

	err := fw.WriteFrame(NewFrameBuffer())
	assert.Error(t, err)
}

func TestFrameWriter_RejectsEmptyFrameBuffer(t *testing.T) {
	g := newGraphWithPreface(t)
	f := &memFile{}

	fw, err := OpenFrameWriter(f, g, ul.Dict.UL(ul.NamePCMEssenceUL),
		WithBodySID(1),
		WithEditRate(ul.Rational{Numerator: 25, Denominator: 1}),
		WithOperationalPattern(ul.Dict.UL(ul.NameOPAtom)),
		WithEssenceContainer(ul.Dict.UL(ul.NamePCMEssenceUL)),
	)
	require.NoError(t, err)

	fb := NewFrameBuffer()
	defer fb.Release()
	assert.ErrorIs(t, fw.WriteFrame(fb), errs.ErrParam)
}

func TestClipWriter_RejectsEmptyFrameBuffer(t *testing.T) {
	g := newGraphWithPreface(t)
	f := &memFile{}

	cw, err := OpenClipWriter(f, g, ul.Dict.UL(ul.NamePCMEssenceUL), 4,
		WithBodySID(1),
		WithEditRate(ul.Rational{Numerator: 48000, Denominator: 1}),
		WithOperationalPattern(ul.Dict.UL(ul.NameOPAtom)),
		WithEssenceContainer(ul.Dict.UL(ul.NamePCMEssenceUL)),
	)
	require.NoError(t, err)

	fb := NewFrameBuffer()
	defer fb.Release()
	assert.ErrorIs(t, cw.WriteFrame(fb), errs.ErrParam)
}

func TestFinalize_BeforeFirstFrameFails(t *testing.T) {
	g := newGraphWithPreface(t)
	f := &memFile{}

	fw, err := OpenFrameWriter(f, g, ul.Dict.UL(ul.NamePCMEssenceUL),
		WithBodySID(1),
		WithEditRate(ul.Rational{Numerator: 25, Denominator: 1}),
		WithOperationalPattern(ul.Dict.UL(ul.NameOPAtom)),
		WithEssenceContainer(ul.Dict.UL(ul.NamePCMEssenceUL)),
	)
	require.NoError(t, err)

	assert.ErrorIs(t, fw.Finalize(), errs.ErrState)
}

func TestOpenFrameWriter_RejectsUnimplementedIndexStrategy(t *testing.T) {
	g := newGraphWithPreface(t)
	f := &memFile{}

	_, err := OpenFrameWriter(f, g, ul.Dict.UL(ul.NamePCMEssenceUL),
		WithBodySID(1),
		WithIndexSID(2),
		WithEditRate(ul.Rational{Numerator: 25, Denominator: 1}),
		WithOperationalPattern(ul.Dict.UL(ul.NameOPAtom)),
		WithEssenceContainer(ul.Dict.UL(ul.NamePCMEssenceUL)),
		WithIndexStrategy(IndexLead),
	)
	require.ErrorIs(t, err, errs.ErrNotImpl)
}
