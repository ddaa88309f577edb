package pcm

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imfkit/as02ec/errs"
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

func TestPCMWriterReader_RoundTrip(t *testing.T) {
	params := Params{
		SampleRate:    ul.Rational{Numerator: 48000, Denominator: 1},
		ChannelCount:  2,
		BitsPerSample: 16,
		EditRate:      ul.Rational{Numerator: 25, Denominator: 1},
	}

	g := mdata.NewGraph()
	desc := NewDescriptor(params, 1)
	require.NoError(t, g.Add(desc))

	track := wrap.TrackParams{TrackID: 1, TrackNumber: 1, TrackName: "A1", Duration: -1, Descriptor: desc.InstanceUID()}

	f := &memFile{}

	w, err := NewWriter(f, g, params, track, wrap.WriterInfo{}, 1, 2)
	require.NoError(t, err)

	frame := make([]byte, params.BlockAlign()*10)
	for i := range frame {
		frame[i] = byte(i)
	}
	require.NoError(t, w.WriteSamples(frame))
	require.NoError(t, w.Finalize())

	f.pos = 0
	r, graph, err := NewReader(f, uint32(params.BlockAlign()))
	require.NoError(t, err)

	descs := mdata.GetObjectsByType[*mdata.WaveAudioDescriptor](graph)
	require.Len(t, descs, 1)
	assert.Equal(t, params.ChannelCount, descs[0].ChannelCount)

	all, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, frame, all)
}

// TestPCMWriterReader_CBR48Frames exercises §8 scenario 1: 48 frames of
// 24-bit stereo PCM at 48 kHz, edit rate 24/1 (2000 samples/frame, 12000
// bytes/frame): one body partition's worth of essence totaling 576000
// bytes, frame_count()==48, and read_frame(23).size()==12000.
func TestPCMWriterReader_CBR48Frames(t *testing.T) {
	params := Params{
		SampleRate:    ul.Rational{Numerator: 48000, Denominator: 1},
		ChannelCount:  2,
		BitsPerSample: 24,
		EditRate:      ul.Rational{Numerator: 24, Denominator: 1},
	}
	const samplesPerFrame = 2000
	frameBytes := int(params.BlockAlign()) * samplesPerFrame
	require.Equal(t, 12000, frameBytes)

	g := mdata.NewGraph()
	desc := NewDescriptor(params, 1)
	require.NoError(t, g.Add(desc))

	track := wrap.TrackParams{TrackID: 1, TrackNumber: 1, TrackName: "A1", Duration: -1, Descriptor: desc.InstanceUID()}

	f := &memFile{}

	w, err := NewWriter(f, g, params, track, wrap.WriterInfo{}, 1, 2)
	require.NoError(t, err)

	const numFrames = 48
	frame := make([]byte, frameBytes)
	for i := 0; i < numFrames; i++ {
		require.NoError(t, w.WriteSamples(frame))
	}
	require.NoError(t, w.Finalize())
	assert.Equal(t, int64(numFrames*frameBytes), int64(576000))

	f.pos = 0
	r, _, err := NewReader(f, uint32(frameBytes))
	require.NoError(t, err)

	assert.Equal(t, uint32(numFrames), r.FrameCount())

	frame23, err := r.ReadFrame(23)
	require.NoError(t, err)
	assert.Len(t, frame23, 12000)

	_, err = r.ReadFrame(numFrames)
	assert.ErrorIs(t, err, errs.ErrRange)
}

func TestPCMWriter_RejectsEmptySampleBlock(t *testing.T) {
	params := Params{
		SampleRate:    ul.Rational{Numerator: 48000, Denominator: 1},
		ChannelCount:  2,
		BitsPerSample: 16,
		EditRate:      ul.Rational{Numerator: 25, Denominator: 1},
	}

	g := mdata.NewGraph()
	desc := NewDescriptor(params, 1)
	require.NoError(t, g.Add(desc))

	track := wrap.TrackParams{TrackID: 1, TrackNumber: 1, TrackName: "A1", Duration: -1, Descriptor: desc.InstanceUID()}

	w, err := NewWriter(&memFile{}, g, params, track, wrap.WriterInfo{}, 1, 2)
	require.NoError(t, err)

	assert.ErrorIs(t, w.WriteSamples(nil), errs.ErrParam)
}
