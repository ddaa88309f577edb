package aces

import (
	"io"
	"testing"

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

func TestACESWriterReader_RoundTrip(t *testing.T) {
	params := Params{
		EditRate:                 ul.Rational{Numerator: 24, Denominator: 1},
		StoredWidth:              2048,
		StoredHeight:             1080,
		AspectRatio:              ul.Rational{Numerator: 17, Denominator: 9},
		ACESAuthoringInformation: "idt=ACES_IDT",
	}

	g := mdata.NewGraph()

	desc, sub := NewDescriptor(params, 1)
	require.NoError(t, g.Add(sub))
	desc.SubDescriptors = []ul.UUID{sub.InstanceUID()}
	require.NoError(t, g.Add(desc))

	track := wrap.TrackParams{TrackID: 1, TrackNumber: 1, TrackName: "V1", Duration: -1, Descriptor: desc.InstanceUID()}

	f := &memFile{}
	w, err := NewWriter(f, g, params, track, wrap.WriterInfo{}, 1, 2)
	require.NoError(t, err)

	require.NoError(t, w.WriteFrame([]byte("fake-openexr-frame-0")))
	segments, err := w.Finalize()
	require.NoError(t, err)

	f.pos = 0
	r, graph, err := NewReader(f, segments)
	require.NoError(t, err)

	descs := mdata.GetObjectsByType[*mdata.ACESPictureSubDescriptor](graph)
	require.Len(t, descs, 1)
	require.Equal(t, params.ACESAuthoringInformation, descs[0].ACESAuthoringInformation)

	frame, err := r.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, []byte("fake-openexr-frame-0"), frame)
}
