// Package iab implements the AS-02 Immersive Audio Bitstream essence
// component: a clip-wrapped, IABEssenceDescriptor-described track whose
// soundfield layout is labeled by an IABSoundfieldLabelSubDescriptor.
package iab

import (
	"io"

	"github.com/imfkit/as02ec/index"
	"github.com/imfkit/as02ec/mdata"
	"github.com/imfkit/as02ec/ul"
	"github.com/imfkit/as02ec/wrap"
)

// Params describes the IAB essence format a track carries. IAB frames are
// variable-size (each carries a complete immersive audio bitstream frame),
// so the clip's Index Table is built from the per-call VBR offsets
// wrap.ClipWriter records rather than fixed edit-unit arithmetic (§4.9);
// Writer.Segments/Reader.SetIndex expose that table for random access by
// frame number.
type Params struct {
	EditRate     ul.Rational
	SampleRate   ul.Rational
	ChannelCount uint32
	MCATagSymbol string
}

// NewDescriptor builds the IABEssenceDescriptor and its
// IABSoundfieldLabelSubDescriptor for an IAB essence track. Both objects
// must be added to the Graph; the sub-descriptor's InstanceUID is wired
// into the returned descriptor's SubDescriptors batch.
func NewDescriptor(p Params, linkedTrackID uint32) (*mdata.IABEssenceDescriptor, *mdata.IABSoundfieldLabelSubDescriptor) {
	sub := &mdata.IABSoundfieldLabelSubDescriptor{}
	sub.MCATagSymbol = p.MCATagSymbol

	d := &mdata.IABEssenceDescriptor{}
	d.LinkedTrackID = linkedTrackID
	d.SampleRate = p.EditRate
	d.EssenceContainer = ul.Dict.UL(ul.NameIABEssenceClip)
	d.Codec = ul.Dict.UL(ul.NameIABEssenceUL)
	d.AudioSamplingRate = p.SampleRate
	d.ChannelCount = p.ChannelCount

	return d, sub
}

// Writer writes a clip-wrapped IAB essence track: all bitstream frames are
// concatenated in one KLV value, with per-frame offsets in a VBR index.
type Writer struct {
	cw *wrap.ClipWriter
}

// NewWriter opens an IAB essence Writer. graph must already contain the
// descriptor pair from NewDescriptor, with sub.InstanceUID() appended to
// d.SubDescriptors before either is added, and track.Descriptor set to
// d.InstanceUID(); NewWriter itself builds and adds the OP-Atom
// MaterialPackage/SourcePackage/Track/Sequence/SourceClip graph (§3) via
// wrap.BuildOPAtomPackage, and attaches info as the file's Identification.
// Edit units are variable-size, so the clip is opened with
// editUnitBytes=0 and each WriteFrame call's starting offset is recorded
// in a VBR Index Table Segment instead.
func NewWriter(w wrap.WriteSeeker, graph *mdata.Graph, p Params, track wrap.TrackParams, info wrap.WriterInfo, bodySID, indexSID uint32) (*Writer, error) {
	track.EditRate = p.EditRate
	track.DataDefinition = ul.Dict.UL(ul.NameSoundDataDefinition)

	if _, err := wrap.BuildOPAtomPackage(graph, ul.Dict.UL(ul.NameOPAtom), ul.Dict.UL(ul.NameIABEssenceClip), []wrap.TrackParams{track}); err != nil {
		return nil, err
	}

	cw, err := wrap.OpenClipWriter(w, graph, ul.Dict.UL(ul.NameIABEssenceUL), 0,
		wrap.WithBodySID(bodySID),
		wrap.WithIndexSID(indexSID),
		wrap.WithEditRate(p.EditRate),
		wrap.WithOperationalPattern(ul.Dict.UL(ul.NameOPAtom)),
		wrap.WithEssenceContainer(ul.Dict.UL(ul.NameIABEssenceClip)),
		wrap.WithWriterInfo(info),
	)
	if err != nil {
		return nil, err
	}

	return &Writer{cw: cw}, nil
}

// WriteFrame appends one IAB bitstream frame to the clip.
func (w *Writer) WriteFrame(bitstream []byte) error {
	fb := wrap.NewFrameBuffer()
	defer fb.Release()

	if _, err := fb.Write(bitstream); err != nil {
		return err
	}

	return w.cw.WriteFrame(fb)
}

// Finalize closes out the essence container and builds the VBR Index Table
// from the offsets recorded by WriteFrame.
func (w *Writer) Finalize() error {
	return w.cw.Finalize()
}

// Segments returns the VBR Index Table Segments built at Finalize, for a
// caller to hand to Reader.SetIndex for random-access reads.
func (w *Writer) Segments() []index.Segment {
	return w.cw.Segments()
}

// Reader reads a clip-wrapped IAB essence track back out.
type Reader struct {
	cr *wrap.ClipReader
}

// NewReader opens an IAB essence Reader.
func NewReader(r io.ReadSeeker) (*Reader, *mdata.Graph, error) {
	cr, graph, err := wrap.OpenClipReader(r, ul.Dict.UL(ul.NameIABEssenceUL), 0)
	if err != nil {
		return nil, nil, err
	}

	return &Reader{cr: cr}, graph, nil
}

// ReadAll reads the full IAB bitstream clip.
func (r *Reader) ReadAll() ([]byte, error) {
	return r.cr.ReadAll()
}

// SetIndex attaches the Index Table Segments produced by Writer.Segments
// (or parsed from the file's own index partitions), enabling ReadFrame.
func (r *Reader) SetIndex(segments []index.Segment) {
	r.cr.SetIndex(segments)
}

// ReadFrame reads the editUnit-th IAB bitstream frame using the attached
// Index Table (§8 scenario 6: "read_frame(5) returns exactly the bytes
// originally submitted as frame 5").
func (r *Reader) ReadFrame(editUnit int64) ([]byte, error) {
	return r.cr.ReadFrame(editUnit)
}
