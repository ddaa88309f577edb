// Package pcm implements the AS-02 PCM audio essence component: a
// WaveAudioDescriptor-described, clip-wrapped linear PCM track, the
// simplest and most common AS-02 audio component.
package pcm

import (
	"io"

	"github.com/imfkit/as02ec/mdata"
	"github.com/imfkit/as02ec/ul"
	"github.com/imfkit/as02ec/wrap"
)

// Params describes the PCM format a track carries.
type Params struct {
	SampleRate    ul.Rational
	ChannelCount  uint32
	BitsPerSample uint32
	EditRate      ul.Rational
}

// BlockAlign returns the PCM frame size in bytes.
func (p Params) BlockAlign() uint16 {
	return uint16(p.ChannelCount * (p.BitsPerSample / 8))
}

// NewDescriptor builds the WaveAudioDescriptor for a PCM essence track,
// ready to be added to a Graph alongside the structural metadata.
func NewDescriptor(p Params, linkedTrackID uint32) *mdata.WaveAudioDescriptor {
	d := &mdata.WaveAudioDescriptor{}
	d.LinkedTrackID = linkedTrackID
	d.SampleRate = p.EditRate
	d.EssenceContainer = ul.Dict.UL(ul.NameWAVEssenceClip)
	d.Codec = ul.Dict.UL(ul.NamePCMEssenceUL)
	d.AudioSamplingRate = p.SampleRate
	d.ChannelCount = p.ChannelCount
	d.QuantizationBits = p.BitsPerSample
	d.BlockAlign = p.BlockAlign()

	return d
}

// Writer writes a clip-wrapped PCM essence track.
type Writer struct {
	cw *wrap.ClipWriter
}

// NewWriter opens a PCM essence Writer. graph must already contain the
// track's WaveAudioDescriptor (see NewDescriptor, added via track.Descriptor)
// and nothing else: NewWriter itself builds and adds the OP-Atom
// MaterialPackage/SourcePackage/Track/Sequence/SourceClip graph (§3) via
// wrap.BuildOPAtomPackage, and attaches info as the file's Identification.
func NewWriter(w wrap.WriteSeeker, graph *mdata.Graph, p Params, track wrap.TrackParams, info wrap.WriterInfo, bodySID, indexSID uint32) (*Writer, error) {
	track.EditRate = p.EditRate
	track.DataDefinition = ul.Dict.UL(ul.NameSoundDataDefinition)

	if _, err := wrap.BuildOPAtomPackage(graph, ul.Dict.UL(ul.NameOPAtom), ul.Dict.UL(ul.NameWAVEssenceClip), []wrap.TrackParams{track}); err != nil {
		return nil, err
	}

	cw, err := wrap.OpenClipWriter(w, graph, ul.Dict.UL(ul.NamePCMEssenceUL), uint32(p.BlockAlign()),
		wrap.WithBodySID(bodySID),
		wrap.WithIndexSID(indexSID),
		wrap.WithEditRate(p.EditRate),
		wrap.WithOperationalPattern(ul.Dict.UL(ul.NameOPAtom)),
		wrap.WithEssenceContainer(ul.Dict.UL(ul.NameWAVEssenceClip)),
		wrap.WithWriterInfo(info),
	)
	if err != nil {
		return nil, err
	}

	return &Writer{cw: cw}, nil
}

// WriteSamples appends one block of interleaved PCM sample bytes.
func (w *Writer) WriteSamples(data []byte) error {
	fb := wrap.NewFrameBuffer()
	defer fb.Release()

	if _, err := fb.Write(data); err != nil {
		return err
	}

	return w.cw.WriteFrame(fb)
}

// Finalize closes out the essence container.
func (w *Writer) Finalize() error {
	return w.cw.Finalize()
}

// Reader reads a clip-wrapped PCM essence track back out.
type Reader struct {
	cr *wrap.ClipReader
}

// NewReader opens a PCM essence Reader positioned at the start of the
// clip's sample data.
func NewReader(r io.ReadSeeker, blockAlign uint32) (*Reader, *mdata.Graph, error) {
	cr, graph, err := wrap.OpenClipReader(r, ul.Dict.UL(ul.NamePCMEssenceUL), blockAlign)
	if err != nil {
		return nil, nil, err
	}

	return &Reader{cr: cr}, graph, nil
}

// ReadAll reads every sample byte in the clip.
func (r *Reader) ReadAll() ([]byte, error) {
	return r.cr.ReadAll()
}

// FrameCount returns the number of edit units (PCM sample blocks) in the
// clip (§6.2's audio `frame_count() -> u32` operation).
func (r *Reader) FrameCount() uint32 {
	return r.cr.FrameCount()
}

// ReadFrame reads the editUnit-th fixed-size PCM sample block directly.
func (r *Reader) ReadFrame(editUnit int64) ([]byte, error) {
	return r.cr.ReadFrameAt(editUnit)
}
