package iab

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imfkit/as02ec/mdata"
	"github.com/imfkit/as02ec/ul"
	"github.com/imfkit/as02ec/wrap"
)

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

func TestIABWriterReader_RoundTrip(t *testing.T) {
	params := Params{
		EditRate:     ul.Rational{Numerator: 25, Denominator: 1},
		SampleRate:   ul.Rational{Numerator: 48000, Denominator: 1},
		ChannelCount: 10,
		MCATagSymbol: "sgST",
	}

	g := mdata.NewGraph()

	desc, sub := NewDescriptor(params, 1)
	require.NoError(t, g.Add(sub))
	desc.SubDescriptors = append(desc.SubDescriptors, sub.InstanceUID())
	require.NoError(t, g.Add(desc))

	track := wrap.TrackParams{TrackID: 1, TrackNumber: 1, TrackName: "A1", Duration: -1, Descriptor: desc.InstanceUID()}

	f := &memFile{}

	const clipValueSize = 64
	w, err := NewWriter(f, g, params, track, wrap.WriterInfo{}, 1, 2)
	require.NoError(t, err)

	bitstream := make([]byte, clipValueSize)
	for i := range bitstream {
		bitstream[i] = byte(i)
	}
	require.NoError(t, w.WriteFrame(bitstream))
	require.NoError(t, w.Finalize())

	f.pos = 0
	r, graph, err := NewReader(f)
	require.NoError(t, err)

	descs := mdata.GetObjectsByType[*mdata.IABEssenceDescriptor](graph)
	require.Len(t, descs, 1)
	assert.Equal(t, params.ChannelCount, descs[0].ChannelCount)

	all, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, bitstream, all)
}

// TestIABWriterReader_VariableFrameSizes exercises §8 scenario 6: ten IAB
// frames of varying sizes (1000..10000 bytes), one essence KLV covering
// the concatenation, and random access to any frame by number via the VBR
// Index Table built from each WriteFrame call's starting offset.
func TestIABWriterReader_VariableFrameSizes(t *testing.T) {
	params := Params{
		EditRate:     ul.Rational{Numerator: 25, Denominator: 1},
		SampleRate:   ul.Rational{Numerator: 48000, Denominator: 1},
		ChannelCount: 10,
		MCATagSymbol: "sgST",
	}

	g := mdata.NewGraph()

	desc, sub := NewDescriptor(params, 1)
	require.NoError(t, g.Add(sub))
	desc.SubDescriptors = append(desc.SubDescriptors, sub.InstanceUID())
	require.NoError(t, g.Add(desc))

	track := wrap.TrackParams{TrackID: 1, TrackNumber: 1, TrackName: "A1", Duration: -1, Descriptor: desc.InstanceUID()}

	f := &memFile{}

	w, err := NewWriter(f, g, params, track, wrap.WriterInfo{}, 1, 2)
	require.NoError(t, err)

	frames := make([][]byte, 10)
	var wantOffsets []uint64
	var running uint64
	for i := range frames {
		size := 1000 + i*1000
		frame := make([]byte, size)
		for j := range frame {
			frame[j] = byte(i)
		}
		frames[i] = frame

		wantOffsets = append(wantOffsets, running)
		running += uint64(size)

		require.NoError(t, w.WriteFrame(frame))
	}
	require.NoError(t, w.Finalize())

	segments := w.Segments()
	require.NotEmpty(t, segments)
	require.False(t, segments[0].IsCBR())

	var gotOffsets []uint64
	for _, seg := range segments {
		for _, e := range seg.Entries {
			gotOffsets = append(gotOffsets, e.StreamOffset)
		}
	}
	assert.Equal(t, wantOffsets, gotOffsets)

	f.pos = 0
	r, _, err := NewReader(f)
	require.NoError(t, err)
	r.SetIndex(segments)

	frame5, err := r.ReadFrame(5)
	require.NoError(t, err)
	assert.Equal(t, frames[5], frame5)

	frame0, err := r.ReadFrame(0)
	require.NoError(t, err)
	assert.Equal(t, frames[0], frame0)

	frame9, err := r.ReadFrame(9)
	require.NoError(t, err)
	assert.Equal(t, frames[9], frame9)

	_, err = r.ReadFrame(10)
	assert.Error(t, err)
}
