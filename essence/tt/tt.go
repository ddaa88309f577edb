// Package tt implements the AS-02 Timed Text essence component (SMPTE
// ST 2052-1). spec.md names Timed Text as an in-scope essence kind and
// lists TimedTextDescriptor/TimedTextResourceSubDescriptor but never spells
// out its wrapping mode; per SPEC_FULL.md's decision this façade
// clip-wraps the timed-text XML document plus its resource manifest as a
// single KLV, the same shape as essence/isxd but carried clip-wrapped
// rather than frame-wrapped since a Timed Text document is not a
// per-edit-unit stream.
package tt

import (
	"io"

	"github.com/imfkit/as02ec/mdata"
	"github.com/imfkit/as02ec/ul"
	"github.com/imfkit/as02ec/wrap"
)

// Params describes the Timed Text track being wrapped.
type Params struct {
	EditRate           ul.Rational
	ResourceID         ul.UUID
	MimeType           string
	RFC5646LanguageTag string
}

// Resource is one ancillary resource (font, image, ISXD overlay) the Timed
// Text document references, carried as a RP 2057 generic stream and
// described by a TimedTextResourceSubDescriptor.
type Resource struct {
	ResourceID ul.UUID
	MimeType   string
}

// NewDescriptor builds the TimedTextDescriptor and one
// TimedTextResourceSubDescriptor per resource. All returned objects must be
// added to the Graph; the sub-descriptors' InstanceUIDs are wired into the
// returned descriptor's SubDescriptors batch.
func NewDescriptor(p Params, resources []Resource, linkedTrackID uint32) (*mdata.TimedTextDescriptor, []*mdata.TimedTextResourceSubDescriptor) {
	subs := make([]*mdata.TimedTextResourceSubDescriptor, len(resources))
	for i, r := range resources {
		subs[i] = &mdata.TimedTextResourceSubDescriptor{ResourceID: r.ResourceID, MimeType: r.MimeType}
	}

	d := &mdata.TimedTextDescriptor{
		ResourceID:         p.ResourceID,
		MimeType:           p.MimeType,
		RFC5646LanguageTag: p.RFC5646LanguageTag,
	}
	d.LinkedTrackID = linkedTrackID
	d.SampleRate = p.EditRate
	d.EssenceContainer = ul.Dict.UL(ul.NameTimedTextEssenceClip)
	d.Codec = ul.Dict.UL(ul.NameTimedTextEssenceUL)

	return d, subs
}

// Writer writes a clip-wrapped Timed Text essence track: a single KLV
// holding the complete timed-text XML document.
type Writer struct {
	cw *wrap.ClipWriter
}

// NewWriter opens a Timed Text essence Writer. graph must already contain
// the descriptor and resource sub-descriptors from NewDescriptor, with
// track.Descriptor set to the descriptor's InstanceUID(); NewWriter itself
// builds and adds the OP-Atom MaterialPackage/SourcePackage/Track/Sequence/
// SourceClip graph (§3) via wrap.BuildOPAtomPackage, and attaches info as
// the file's Identification.
func NewWriter(w wrap.WriteSeeker, graph *mdata.Graph, p Params, track wrap.TrackParams, info wrap.WriterInfo, bodySID, indexSID uint32) (*Writer, error) {
	track.EditRate = p.EditRate
	track.DataDefinition = ul.Dict.UL(ul.NameDataDataDefinition)

	if _, err := wrap.BuildOPAtomPackage(graph, ul.Dict.UL(ul.NameOPAtom), ul.Dict.UL(ul.NameTimedTextEssenceClip), []wrap.TrackParams{track}); err != nil {
		return nil, err
	}

	cw, err := wrap.OpenClipWriter(w, graph, ul.Dict.UL(ul.NameTimedTextEssenceUL), 0,
		wrap.WithBodySID(bodySID),
		wrap.WithIndexSID(indexSID),
		wrap.WithEditRate(p.EditRate),
		wrap.WithOperationalPattern(ul.Dict.UL(ul.NameOPAtom)),
		wrap.WithEssenceContainer(ul.Dict.UL(ul.NameTimedTextEssenceClip)),
		wrap.WithWriterInfo(info),
	)
	if err != nil {
		return nil, err
	}

	return &Writer{cw: cw}, nil
}

// WriteDocument appends the Timed Text XML document as the clip's sole
// payload. Callers that need the resource manifest carried alongside use
// package gstream to add each resource as its own generic stream partition.
func (w *Writer) WriteDocument(xmlDoc []byte) error {
	fb := wrap.NewFrameBuffer()
	defer fb.Release()

	if _, err := fb.Write(xmlDoc); err != nil {
		return err
	}

	return w.cw.WriteFrame(fb)
}

// Finalize closes out the essence container.
func (w *Writer) Finalize() error {
	return w.cw.Finalize()
}

// Reader reads a clip-wrapped Timed Text essence track back out.
type Reader struct {
	cr *wrap.ClipReader
}

// NewReader opens a Timed Text essence Reader.
func NewReader(r io.ReadSeeker) (*Reader, *mdata.Graph, error) {
	cr, graph, err := wrap.OpenClipReader(r, ul.Dict.UL(ul.NameTimedTextEssenceUL), 0)
	if err != nil {
		return nil, nil, err
	}

	return &Reader{cr: cr}, graph, nil
}

// ReadDocument reads the full Timed Text XML document.
func (r *Reader) ReadDocument() ([]byte, error) {
	return r.cr.ReadAll()
}
