// Package isxd implements the AS-02 Isochronous Stream of XML Documents
// essence component (SMPTE RDD 47): a frame-wrapped private-data track
// carrying one XML document per edit unit, described by an
// ISXDDataEssenceDescriptor.
package isxd

import (
	"io"

	"github.com/imfkit/as02ec/index"
	"github.com/imfkit/as02ec/mdata"
	"github.com/imfkit/as02ec/ul"
	"github.com/imfkit/as02ec/wrap"
)

// Params describes the ISXD essence track's edit rate; ISXD carries no
// picture or sound format properties of its own, just the synchronous
// per-edit-unit XML payload.
type Params struct {
	EditRate ul.Rational
}

// NewDescriptor builds the ISXDDataEssenceDescriptor for an ISXD essence
// track. The returned descriptor must be added to the Graph as the
// SourcePackage's Descriptor.
func NewDescriptor(p Params, linkedTrackID uint32) *mdata.ISXDDataEssenceDescriptor {
	d := &mdata.ISXDDataEssenceDescriptor{}
	d.LinkedTrackID = linkedTrackID
	d.SampleRate = p.EditRate
	d.EssenceContainer = ul.Dict.UL(ul.NameFrameWrappedISXDContainer)
	d.Codec = ul.Dict.UL(ul.NameISXDEssenceUL)

	return d
}

// Writer writes a frame-wrapped ISXD essence track, one XML document per
// edit unit.
type Writer struct {
	fw *wrap.FrameWriter
}

// NewWriter opens an ISXD essence Writer. graph must already contain the
// descriptor from NewDescriptor, with track.Descriptor set to its
// InstanceUID(); NewWriter itself builds and adds the OP-Atom
// MaterialPackage/SourcePackage/Track/Sequence/SourceClip graph (§3) via
// wrap.BuildOPAtomPackage, and attaches info as the file's Identification.
// Extra opts (e.g. wrap.WithPartitionSpace) are applied after this
// package's own essence container/operational pattern options, so a
// caller cannot override them.
func NewWriter(w wrap.WriteSeeker, graph *mdata.Graph, p Params, track wrap.TrackParams, info wrap.WriterInfo, bodySID, indexSID uint32, opts ...wrap.WriterOption) (*Writer, error) {
	track.EditRate = p.EditRate
	track.DataDefinition = ul.Dict.UL(ul.NameDataDataDefinition)

	if _, err := wrap.BuildOPAtomPackage(graph, ul.Dict.UL(ul.NameOPAtom), ul.Dict.UL(ul.NameFrameWrappedISXDContainer), []wrap.TrackParams{track}); err != nil {
		return nil, err
	}

	base := []wrap.WriterOption{
		wrap.WithBodySID(bodySID),
		wrap.WithIndexSID(indexSID),
		wrap.WithEditRate(p.EditRate),
		wrap.WithOperationalPattern(ul.Dict.UL(ul.NameOPAtom)),
		wrap.WithEssenceContainer(ul.Dict.UL(ul.NameFrameWrappedISXDContainer)),
		wrap.WithWriterInfo(info),
	}

	fw, err := wrap.OpenFrameWriter(w, graph, ul.Dict.UL(ul.NameISXDEssenceUL), append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	return &Writer{fw: fw}, nil
}

// WriteFrame appends one XML document as the next edit unit.
func (w *Writer) WriteFrame(xmlDoc []byte) error {
	fb := wrap.NewFrameBuffer()
	defer fb.Release()

	if _, err := fb.Write(xmlDoc); err != nil {
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

// Reader reads a frame-wrapped ISXD essence track back out, one XML
// document per edit unit.
type Reader struct {
	fr *wrap.FrameReader
}

// NewReader opens an ISXD essence Reader positioned at edit unit 0.
func NewReader(r io.ReadSeeker, segments []index.Segment) (*Reader, *mdata.Graph, error) {
	fr, graph, err := wrap.OpenFrameReader(r, ul.Dict.UL(ul.NameISXDEssenceUL), segments)
	if err != nil {
		return nil, nil, err
	}

	return &Reader{fr: fr}, graph, nil
}

// ReadFrame reads the next XML document edit unit.
func (r *Reader) ReadFrame() ([]byte, error) {
	return r.fr.ReadFrame()
}

// SeekFrame repositions the reader at the given edit unit number.
func (r *Reader) SeekFrame(editUnit int64) {
	r.fr.SeekFrame(editUnit)
}
