package wrap

import (
	"fmt"

	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/mdata"
	"github.com/imfkit/as02ec/ul"
)

// LabelSetType selects which generation of SMPTE/MXF-Interop labels
// Identification and the structural metadata graph advertise.
type LabelSetType int

const (
	LabelSetMXFSMPTE LabelSetType = iota
	LabelSetMXFInterop
)

// WriterInfo carries the caller-supplied identity and cryptographic
// parameters a writer-open call needs to populate Identification and, when
// encrypting, the CryptographicContext set, per §3.
type WriterInfo struct {
	ProductUUID        ul.UUID
	AssetUUID          ul.UUID
	ContextID          ul.UUID
	CryptographicKeyID ul.UUID
	EncryptedEssence   bool
	UsesHMAC           bool
	LabelSetType       LabelSetType
	ProductVersion     string
	CompanyName        string
	ProductName        string
}

// attachIdentification adds an Identification object built from info to
// graph and appends it to the Preface's Identifications batch, and, when
// info.EncryptedEssence is set, adds a CryptographicContext naming the
// cipher/MIC algorithms and key ID the file's encrypted triplets reference.
// graph must already contain its Preface (see BuildOPAtomPackage).
func attachIdentification(graph *mdata.Graph, info WriterInfo) error {
	preface, ok := graph.Preface()
	if !ok {
		return fmt.Errorf("%w: graph has no Preface to attach Identification to", errs.ErrParam)
	}

	ident := &mdata.Identification{
		CompanyName:    info.CompanyName,
		ProductName:    info.ProductName,
		ProductVersion: info.ProductVersion,
		ProductUID:     info.ProductUUID,
		GenerationUID:  info.AssetUUID,
	}
	if err := graph.Add(ident); err != nil {
		return err
	}
	preface.Identifications = append(preface.Identifications, ident.InstanceUID())

	if info.EncryptedEssence {
		cc := &mdata.CryptographicContext{
			ContextID:          info.ContextID,
			CipherAlgorithm:    ul.Dict.UL(ul.NameAESCBCCipher),
			CryptographicKeyID: info.CryptographicKeyID,
		}
		if info.UsesHMAC {
			cc.MICAlgorithm = ul.Dict.UL(ul.NameHMACSHA1MIC)
		}
		if err := graph.Add(cc); err != nil {
			return err
		}
	}

	return nil
}

// TrackParams describes one essence track BuildOPAtomPackage wires into
// the OP-Atom package graph: a Track/Sequence/SourceClip triple on both the
// MaterialPackage and the SourcePackage, per §3.
type TrackParams struct {
	TrackID        uint32
	TrackNumber    uint32
	TrackName      string
	EditRate       ul.Rational
	Duration       int64
	DataDefinition ul.UL
	// Descriptor is the InstanceUID of the essence Descriptor (e.g. from
	// essence/pcm.NewDescriptor), already added to graph by the caller.
	Descriptor ul.UUID
}

// OPAtomPackage is the set of top-level objects BuildOPAtomPackage adds to
// the graph, returned so callers that need the SourcePackage's PackageUID
// (e.g. to populate SourceClip.SourcePackage on a file that references this
// one as its upstream source) can read it back.
type OPAtomPackage struct {
	Preface         *mdata.Preface
	ContentStorage  *mdata.ContentStorage
	MaterialPackage *mdata.MaterialPackage
	SourcePackage   *mdata.SourcePackage
}

// BuildOPAtomPackage constructs the Preface, ContentStorage, MaterialPackage,
// SourcePackage, and one Track/Sequence/SourceClip triple per entry in
// tracks (mirrored on both packages), per §3's OP-Atom package structure:
// a single-item SourcePackage whose SourceClip references its own essence
// (SourcePackage == the SourcePackage's own PackageUID, SourceTrackID ==
// the matching SourcePackage Track's TrackID), and a parallel MaterialPackage
// whose Track/Sequence/SourceClip reference the SourcePackage instead of
// essence directly. Every object is added to graph in Preface-first order.
// Every essence façade's NewWriter calls this before opening the frame/clip
// writer, so graph is always fully linked by the time writeHeaderPartition
// serializes it; Identification is attached separately, by
// writeHeaderPartition itself, via WithWriterInfo.
func BuildOPAtomPackage(graph *mdata.Graph, op ul.UL, essenceContainer ul.UL, tracks []TrackParams) (*OPAtomPackage, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: BuildOPAtomPackage needs at least one track", errs.ErrParam)
	}

	preface := &mdata.Preface{OperationalPattern: op, EssenceContainers: []ul.UL{essenceContainer}}
	if err := graph.Add(preface); err != nil {
		return nil, err
	}

	cs := &mdata.ContentStorage{}
	if err := graph.Add(cs); err != nil {
		return nil, err
	}
	preface.ContentStorage = cs.InstanceUID()

	sourceUMID, err := ul.NewUMID()
	if err != nil {
		return nil, err
	}
	materialUMID, err := ul.NewUMID()
	if err != nil {
		return nil, err
	}

	sp := &mdata.SourcePackage{}
	sp.PackageUID = sourceUMID
	mp := &mdata.MaterialPackage{}
	mp.PackageUID = materialUMID

	for _, tp := range tracks {
		srcClip := &mdata.SourceClip{
			DataDefinition: tp.DataDefinition,
			Duration:       tp.Duration,
			SourcePackage:  sourceUMID,
			SourceTrackID:  tp.TrackID,
		}
		if err := graph.Add(srcClip); err != nil {
			return nil, err
		}

		srcSeq := &mdata.Sequence{
			DataDefinition:       tp.DataDefinition,
			Duration:             tp.Duration,
			StructuralComponents: []ul.UUID{srcClip.InstanceUID()},
		}
		if err := graph.Add(srcSeq); err != nil {
			return nil, err
		}

		srcTrack := &mdata.Track{
			TrackID:     tp.TrackID,
			TrackNumber: tp.TrackNumber,
			TrackName:   tp.TrackName,
			EditRate:    tp.EditRate,
			Sequence:    srcSeq.InstanceUID(),
		}
		if err := graph.Add(srcTrack); err != nil {
			return nil, err
		}
		sp.Tracks = append(sp.Tracks, srcTrack.InstanceUID())

		matClip := &mdata.SourceClip{
			DataDefinition: tp.DataDefinition,
			Duration:       tp.Duration,
			SourcePackage:  sourceUMID,
			SourceTrackID:  tp.TrackID,
		}
		if err := graph.Add(matClip); err != nil {
			return nil, err
		}

		matSeq := &mdata.Sequence{
			DataDefinition:       tp.DataDefinition,
			Duration:             tp.Duration,
			StructuralComponents: []ul.UUID{matClip.InstanceUID()},
		}
		if err := graph.Add(matSeq); err != nil {
			return nil, err
		}

		matTrack := &mdata.Track{
			TrackID:     tp.TrackID,
			TrackNumber: tp.TrackNumber,
			TrackName:   tp.TrackName,
			EditRate:    tp.EditRate,
			Sequence:    matSeq.InstanceUID(),
		}
		if err := graph.Add(matTrack); err != nil {
			return nil, err
		}
		mp.Tracks = append(mp.Tracks, matTrack.InstanceUID())
	}

	sp.Descriptor = tracks[0].Descriptor

	if err := graph.Add(sp); err != nil {
		return nil, err
	}
	if err := graph.Add(mp); err != nil {
		return nil, err
	}
	cs.Packages = []ul.UUID{mp.InstanceUID(), sp.InstanceUID()}

	return &OPAtomPackage{Preface: preface, ContentStorage: cs, MaterialPackage: mp, SourcePackage: sp}, nil
}
