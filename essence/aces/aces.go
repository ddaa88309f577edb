// Package aces implements the AS-02 ACES picture essence component: a
// frame-wrapped, RGBAEssenceDescriptor-described track carrying ACES
// OpenEXR frames, with an ACESPictureSubDescriptor for authoring metadata.
package aces

import (
	"io"

	"github.com/imfkit/as02ec/index"
	"github.com/imfkit/as02ec/mdata"
	"github.com/imfkit/as02ec/ul"
	"github.com/imfkit/as02ec/wrap"
)

// Params describes the picture format an ACES essence track carries.
type Params struct {
	EditRate                 ul.Rational
	StoredWidth              uint32
	StoredHeight             uint32
	AspectRatio              ul.Rational
	ACESAuthoringInformation string
}

// NewDescriptor builds the RGBAEssenceDescriptor and its
// ACESPictureSubDescriptor for an ACES essence track. Both objects must
// be added to the Graph; the sub-descriptor's InstanceUID is wired into
// the returned descriptor's SubDescriptors batch.
func NewDescriptor(p Params, linkedTrackID uint32) (*mdata.RGBAEssenceDescriptor, *mdata.ACESPictureSubDescriptor) {
	sub := &mdata.ACESPictureSubDescriptor{ACESAuthoringInformation: p.ACESAuthoringInformation}

	d := &mdata.RGBAEssenceDescriptor{}
	d.LinkedTrackID = linkedTrackID
	d.SampleRate = p.EditRate
	d.EssenceContainer = ul.Dict.UL(ul.NameACESEssenceFrame)
	d.Codec = ul.Dict.UL(ul.NameACESEssenceUL)
	d.StoredWidth = p.StoredWidth
	d.StoredHeight = p.StoredHeight
	d.AspectRatio = p.AspectRatio
	d.PictureEssenceCoding = ul.Dict.UL(ul.NameACESEssenceUL)

	return d, sub
}

// Writer writes a frame-wrapped ACES essence track, one frame per edit
// unit.
type Writer struct {
	fw *wrap.FrameWriter
}

// NewWriter opens an ACES essence Writer. graph must already contain the
// descriptor pair from NewDescriptor, with sub.InstanceUID() appended to
// d.SubDescriptors before either is added, and track.Descriptor set to
// d.InstanceUID(); NewWriter itself builds and adds the OP-Atom
// MaterialPackage/SourcePackage/Track/Sequence/SourceClip graph (§3) via
// wrap.BuildOPAtomPackage, and attaches info as the file's Identification.
// Extra opts (e.g. wrap.WithPartitionSpace) are applied after this
// package's own essence container/operational pattern options, so a
// caller cannot override them.
func NewWriter(w wrap.WriteSeeker, graph *mdata.Graph, p Params, track wrap.TrackParams, info wrap.WriterInfo, bodySID, indexSID uint32, opts ...wrap.WriterOption) (*Writer, error) {
	track.EditRate = p.EditRate
	track.DataDefinition = ul.Dict.UL(ul.NamePictureDataDefinition)

	if _, err := wrap.BuildOPAtomPackage(graph, ul.Dict.UL(ul.NameOPAtom), ul.Dict.UL(ul.NameACESEssenceFrame), []wrap.TrackParams{track}); err != nil {
		return nil, err
	}

	base := []wrap.WriterOption{
		wrap.WithBodySID(bodySID),
		wrap.WithIndexSID(indexSID),
		wrap.WithEditRate(p.EditRate),
		wrap.WithOperationalPattern(ul.Dict.UL(ul.NameOPAtom)),
		wrap.WithEssenceContainer(ul.Dict.UL(ul.NameACESEssenceFrame)),
		wrap.WithWriterInfo(info),
	}

	fw, err := wrap.OpenFrameWriter(w, graph, ul.Dict.UL(ul.NameACESEssenceUL), append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	return &Writer{fw: fw}, nil
}

// WriteFrame appends one ACES frame as the next edit unit.
func (w *Writer) WriteFrame(frame []byte) error {
	fb := wrap.NewFrameBuffer()
	defer fb.Release()

	if _, err := fb.Write(frame); err != nil {
		return err
	}

	return w.fw.WriteFrame(fb)
}

// Finalize closes out the essence container, returning the Index Table
// Segments the caller must retain to hand back to NewReader.
func (w *Writer) Finalize() ([]index.Segment, error) {
	segments := w.fw.Segments()
	if err := w.fw.Finalize(); err != nil {
		return nil, err
	}

	return segments, nil
}

// Reader reads a frame-wrapped ACES essence track back out, one frame
// per edit unit.
type Reader struct {
	fr *wrap.FrameReader
}

// NewReader opens an ACES essence Reader positioned at edit unit 0.
// segments is the Index Table returned by Writer.Finalize.
func NewReader(r io.ReadSeeker, segments []index.Segment) (*Reader, *mdata.Graph, error) {
	fr, graph, err := wrap.OpenFrameReader(r, ul.Dict.UL(ul.NameACESEssenceUL), segments)
	if err != nil {
		return nil, nil, err
	}

	return &Reader{fr: fr}, graph, nil
}

// ReadFrame reads the next ACES frame edit unit.
func (r *Reader) ReadFrame() ([]byte, error) {
	return r.fr.ReadFrame()
}

// SeekFrame repositions the reader at the given edit unit number.
func (r *Reader) SeekFrame(editUnit int64) {
	r.fr.SeekFrame(editUnit)
}
