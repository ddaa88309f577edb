// Package jp2k implements the AS-02 JPEG 2000 picture essence component:
// a frame-wrapped, GenericPictureEssenceDescriptor-described track with one
// JPEG2000PictureSubDescriptor carrying the codestream profile.
package jp2k

import (
	"io"

	"github.com/imfkit/as02ec/envelope"
	"github.com/imfkit/as02ec/index"
	"github.com/imfkit/as02ec/mdata"
	"github.com/imfkit/as02ec/ul"
	"github.com/imfkit/as02ec/wrap"
)

// Params describes the picture format a JPEG 2000 essence track carries.
type Params struct {
	EditRate     ul.Rational
	StoredWidth  uint32
	StoredHeight uint32
	AspectRatio  ul.Rational
	Rsiz         uint16
}

// NewDescriptor builds the GenericPictureEssenceDescriptor and its
// JPEG2000PictureSubDescriptor for a JPEG 2000 essence track. Both objects
// must be added to the Graph; the sub-descriptor's InstanceUID is wired
// into the returned descriptor's SubDescriptors batch.
func NewDescriptor(p Params, linkedTrackID uint32) (*mdata.GenericPictureEssenceDescriptor, *mdata.JPEG2000PictureSubDescriptor) {
	sub := &mdata.JPEG2000PictureSubDescriptor{Rsiz: p.Rsiz}

	d := &mdata.GenericPictureEssenceDescriptor{}
	d.LinkedTrackID = linkedTrackID
	d.SampleRate = p.EditRate
	d.EssenceContainer = ul.Dict.UL(ul.NameJPEG2000EssenceFrame)
	d.Codec = ul.Dict.UL(ul.NameJPEG2000EssenceUL)
	d.StoredWidth = p.StoredWidth
	d.StoredHeight = p.StoredHeight
	d.AspectRatio = p.AspectRatio
	d.PictureEssenceCoding = ul.Dict.UL(ul.NameJPEG2000EssenceUL)

	return d, sub
}

// Writer writes a frame-wrapped JPEG 2000 essence track, one codestream
// per edit unit.
type Writer struct {
	fw *wrap.FrameWriter
}

// NewWriter opens a JPEG 2000 essence Writer. graph must already contain
// the descriptor pair from NewDescriptor, with sub.InstanceUID() appended
// to d.SubDescriptors before either is added, and track.Descriptor set to
// d.InstanceUID(); NewWriter itself builds and adds the OP-Atom
// MaterialPackage/SourcePackage/Track/Sequence/SourceClip graph (§3) via
// wrap.BuildOPAtomPackage, and attaches info as the file's Identification.
// Extra opts (e.g. wrap.WithPartitionSpace) are applied after this
// package's own essence container/operational pattern options, so a
// caller cannot override them.
func NewWriter(w wrap.WriteSeeker, graph *mdata.Graph, p Params, track wrap.TrackParams, info wrap.WriterInfo, bodySID, indexSID uint32, opts ...wrap.WriterOption) (*Writer, error) {
	track.EditRate = p.EditRate
	track.DataDefinition = ul.Dict.UL(ul.NamePictureDataDefinition)

	if _, err := wrap.BuildOPAtomPackage(graph, ul.Dict.UL(ul.NameOPAtom), ul.Dict.UL(ul.NameJPEG2000EssenceFrame), []wrap.TrackParams{track}); err != nil {
		return nil, err
	}

	base := []wrap.WriterOption{
		wrap.WithBodySID(bodySID),
		wrap.WithIndexSID(indexSID),
		wrap.WithEditRate(p.EditRate),
		wrap.WithOperationalPattern(ul.Dict.UL(ul.NameOPAtom)),
		wrap.WithEssenceContainer(ul.Dict.UL(ul.NameJPEG2000EssenceFrame)),
		wrap.WithWriterInfo(info),
	}

	fw, err := wrap.OpenFrameWriter(w, graph, ul.Dict.UL(ul.NameJPEG2000EssenceUL), append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	return &Writer{fw: fw}, nil
}

// WriteFrame appends one JPEG 2000 codestream as the next edit unit.
func (w *Writer) WriteFrame(codestream []byte) error {
	fb := wrap.NewFrameBuffer()
	defer fb.Release()

	if _, err := fb.Write(codestream); err != nil {
		return err
	}

	return w.fw.WriteFrame(fb)
}

// WriteEncryptedFrame appends one JPEG 2000 codestream as the next edit
// unit, wrapped in the ST 429-6 encrypted triplet instead of being keyed
// directly by the JPEG 2000 essence UL.
func (w *Writer) WriteEncryptedFrame(codestream []byte, contextID ul.UUID, enc envelope.Encryptor, mac envelope.MACer) error {
	fb := wrap.NewFrameBuffer()
	defer fb.Release()

	if _, err := fb.Write(codestream); err != nil {
		return err
	}

	return w.fw.WriteEncryptedFrame(fb, contextID, enc, mac)
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

// Reader reads a frame-wrapped JPEG 2000 essence track back out, one
// codestream per edit unit.
type Reader struct {
	fr *wrap.FrameReader
}

// NewReader opens a JPEG 2000 essence Reader positioned at edit unit 0.
// segments is the Index Table returned by Writer.Finalize (or otherwise
// recovered by scanning the file's partitions).
func NewReader(r io.ReadSeeker, segments []index.Segment) (*Reader, *mdata.Graph, error) {
	fr, graph, err := wrap.OpenFrameReader(r, ul.Dict.UL(ul.NameJPEG2000EssenceUL), segments)
	if err != nil {
		return nil, nil, err
	}

	return &Reader{fr: fr}, graph, nil
}

// ReadFrame reads the next JPEG 2000 codestream edit unit.
func (r *Reader) ReadFrame() ([]byte, error) {
	return r.fr.ReadFrame()
}

// ReadEncryptedFrame reads the next edit unit as an ST 429-6 encrypted
// triplet and decrypts it. micLen must match the integrity pack length
// the writer used (0 if the file carries none).
func (r *Reader) ReadEncryptedFrame(dec envelope.Decryptor, mac envelope.MACer, micLen int) ([]byte, error) {
	return r.fr.ReadEncryptedFrame(dec, mac, micLen)
}

// SeekFrame repositions the reader at the given edit unit number.
func (r *Reader) SeekFrame(editUnit int64) {
	r.fr.SeekFrame(editUnit)
}
