package mdata

import (
	"time"

	"github.com/imfkit/as02ec/ul"
)

// Preface is the root of the metadata graph.
type Preface struct {
	Base

	LastModifiedDate         time.Time
	Version                  uint16
	OperationalPattern       ul.UL
	EssenceContainers        []ul.UL
	DMSchemes                []ul.UL
	ContentStorage           ul.UUID
	Identifications          []ul.UUID
	ConformsToSpecifications []ul.UL
}

func (p *Preface) SetUL() ul.UL { return ul.Dict.UL(ul.NamePreface) }

func (p *Preface) Fields() []Field {
	return []Field{
		{ul.Dict.UL(ul.NameLastModifiedDate), encodeTimestamp(p.LastModifiedDate)},
		{ul.Dict.UL(ul.NameVersion), encodeU16(p.Version)},
		{ul.Dict.UL(ul.NameOperationalPatternProp), encodeUL(p.OperationalPattern)},
		{ul.Dict.UL(ul.NameEssenceContainersProp), encodeBatchUL(p.EssenceContainers)},
		{ul.Dict.UL(ul.NameDMSchemes), encodeBatchUL(p.DMSchemes)},
		{ul.Dict.UL(ul.NameContentStorageProp), encodeUUID(p.ContentStorage)},
		{ul.Dict.UL(ul.NameIdentificationsProp), encodeBatchUUID(p.Identifications)},
		{ul.Dict.UL(ul.NameConformsToSpecifications), encodeBatchUL(p.ConformsToSpecifications)},
	}
}

func (p *Preface) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NameLastModifiedDate):
		p.LastModifiedDate = decodeTimestamp(v)
	case ul.Dict.UL(ul.NameVersion):
		p.Version = decodeU16(v)
	case ul.Dict.UL(ul.NameOperationalPatternProp):
		p.OperationalPattern = decodeUL(v)
	case ul.Dict.UL(ul.NameEssenceContainersProp):
		ecs, err := decodeBatchUL(v)
		if err != nil {
			return err
		}
		p.EssenceContainers = ecs
	case ul.Dict.UL(ul.NameDMSchemes):
		schemes, err := decodeBatchUL(v)
		if err != nil {
			return err
		}
		p.DMSchemes = schemes
	case ul.Dict.UL(ul.NameContentStorageProp):
		p.ContentStorage = decodeUUID(v)
	case ul.Dict.UL(ul.NameIdentificationsProp):
		ids, err := decodeBatchUUID(v)
		if err != nil {
			return err
		}
		p.Identifications = ids
	case ul.Dict.UL(ul.NameConformsToSpecifications):
		specs, err := decodeBatchUL(v)
		if err != nil {
			return err
		}
		p.ConformsToSpecifications = specs
	default:
		return errUnknown
	}

	return nil
}

// Identification records the tool that wrote the file, populated from
// WriterInfo.
type Identification struct {
	Base

	CompanyName    string
	ProductName    string
	ProductVersion string
	ProductUID     ul.UUID
	ToolkitVersion string
	Platform       string
	GenerationUID  ul.UUID
}

func (i *Identification) SetUL() ul.UL { return ul.Dict.UL(ul.NameIdentification) }

func (i *Identification) Fields() []Field {
	return []Field{
		{ul.Dict.UL(ul.NameCompanyName), encodeString(i.CompanyName)},
		{ul.Dict.UL(ul.NameProductName), encodeString(i.ProductName)},
		{ul.Dict.UL(ul.NameProductVersion), encodeString(i.ProductVersion)},
		{ul.Dict.UL(ul.NameProductUID), encodeUUID(i.ProductUID)},
		{ul.Dict.UL(ul.NameToolkitVersion), encodeString(i.ToolkitVersion)},
		{ul.Dict.UL(ul.NamePlatform), encodeString(i.Platform)},
		{ul.Dict.UL(ul.NameGenerationUID), encodeUUID(i.GenerationUID)},
	}
}

func (i *Identification) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NameCompanyName):
		i.CompanyName = decodeString(v)
	case ul.Dict.UL(ul.NameProductName):
		i.ProductName = decodeString(v)
	case ul.Dict.UL(ul.NameProductVersion):
		i.ProductVersion = decodeString(v)
	case ul.Dict.UL(ul.NameProductUID):
		i.ProductUID = decodeUUID(v)
	case ul.Dict.UL(ul.NameToolkitVersion):
		i.ToolkitVersion = decodeString(v)
	case ul.Dict.UL(ul.NamePlatform):
		i.Platform = decodeString(v)
	case ul.Dict.UL(ul.NameGenerationUID):
		i.GenerationUID = decodeUUID(v)
	default:
		return errUnknown
	}

	return nil
}

// ContentStorage holds the package batch and optional essence container
// data set references.
type ContentStorage struct {
	Base

	Packages             []ul.UUID
	EssenceContainerData []ul.UUID
}

func (c *ContentStorage) SetUL() ul.UL { return ul.Dict.UL(ul.NameContentStorage) }

func (c *ContentStorage) Fields() []Field {
	return []Field{
		{ul.Dict.UL(ul.NamePackagesProp), encodeBatchUUID(c.Packages)},
		{ul.Dict.UL(ul.NameEssenceContainerDataProp), encodeBatchUUID(c.EssenceContainerData)},
	}
}

func (c *ContentStorage) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NamePackagesProp):
		pkgs, err := decodeBatchUUID(v)
		if err != nil {
			return err
		}
		c.Packages = pkgs
	case ul.Dict.UL(ul.NameEssenceContainerDataProp):
		ecd, err := decodeBatchUUID(v)
		if err != nil {
			return err
		}
		c.EssenceContainerData = ecd
	default:
		return errUnknown
	}

	return nil
}

// packageCommon is embedded by MaterialPackage and SourcePackage.
type packageCommon struct {
	Base

	PackageUID ul.UMID
	Tracks     []ul.UUID
}

func (p *packageCommon) fields() []Field {
	return []Field{
		{ul.Dict.UL(ul.NamePackageUID), encodeUMID(p.PackageUID)},
		{ul.Dict.UL(ul.NameTracksProp), encodeBatchUUID(p.Tracks)},
	}
}

func (p *packageCommon) applyField(u ul.UL, v []byte) (bool, error) {
	switch u {
	case ul.Dict.UL(ul.NamePackageUID):
		p.PackageUID = decodeUMID(v)
	case ul.Dict.UL(ul.NameTracksProp):
		tracks, err := decodeBatchUUID(v)
		if err != nil {
			return true, err
		}
		p.Tracks = tracks
	default:
		return false, nil
	}

	return true, nil
}

// MaterialPackage is the top-level, playable package. Per the spec's
// design-note decision, Copy (via Clone) is a full field-for-field copy,
// not the source's empty copy.
type MaterialPackage struct {
	packageCommon
}

func (m *MaterialPackage) SetUL() ul.UL    { return ul.Dict.UL(ul.NameMaterialPackage) }
func (m *MaterialPackage) Fields() []Field { return m.fields() }

func (m *MaterialPackage) ApplyField(u ul.UL, v []byte) error {
	handled, err := m.applyField(u, v)
	if err != nil {
		return err
	}
	if !handled {
		return errUnknown
	}

	return nil
}

// Clone returns a full field-for-field copy of m with its own Tracks slice.
// The copy's InstanceUID is left unset; Graph.Add or WriteObject assigns it
// a fresh one.
func (m *MaterialPackage) Clone() *MaterialPackage {
	out := &MaterialPackage{}
	out.PackageUID = m.PackageUID
	out.Tracks = append([]ul.UUID(nil), m.Tracks...)

	return out
}

// SourcePackage additionally owns the essence Descriptor.
type SourcePackage struct {
	packageCommon

	Descriptor ul.UUID
}

func (s *SourcePackage) SetUL() ul.UL { return ul.Dict.UL(ul.NameSourcePackage) }

func (s *SourcePackage) Fields() []Field {
	return append(s.fields(), Field{ul.Dict.UL(ul.NameDescriptorProp), encodeUUID(s.Descriptor)})
}

func (s *SourcePackage) ApplyField(u ul.UL, v []byte) error {
	if u == ul.Dict.UL(ul.NameDescriptorProp) {
		s.Descriptor = decodeUUID(v)
		return nil
	}

	handled, err := s.applyField(u, v)
	if err != nil {
		return err
	}
	if !handled {
		return errUnknown
	}

	return nil
}

// Track represents one essence track on a package.
type Track struct {
	Base

	TrackID     uint32
	TrackNumber uint32
	TrackName   string
	EditRate    ul.Rational
	Origin      int64
	Sequence    ul.UUID
}

func (t *Track) SetUL() ul.UL { return ul.Dict.UL(ul.NameTrack) }

func (t *Track) Fields() []Field {
	return []Field{
		{ul.Dict.UL(ul.NameTrackID), encodeU32(t.TrackID)},
		{ul.Dict.UL(ul.NameTrackNumber), encodeU32(t.TrackNumber)},
		{ul.Dict.UL(ul.NameTrackName), encodeString(t.TrackName)},
		{ul.Dict.UL(ul.NameEditRate), encodeRational(t.EditRate)},
		{ul.Dict.UL(ul.NameOrigin), encodeI64(t.Origin)},
		{ul.Dict.UL(ul.NameSequenceProp), encodeUUID(t.Sequence)},
	}
}

func (t *Track) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NameTrackID):
		t.TrackID = decodeU32(v)
	case ul.Dict.UL(ul.NameTrackNumber):
		t.TrackNumber = decodeU32(v)
	case ul.Dict.UL(ul.NameTrackName):
		t.TrackName = decodeString(v)
	case ul.Dict.UL(ul.NameEditRate):
		t.EditRate = decodeRational(v)
	case ul.Dict.UL(ul.NameOrigin):
		t.Origin = decodeI64(v)
	case ul.Dict.UL(ul.NameSequenceProp):
		t.Sequence = decodeUUID(v)
	default:
		return errUnknown
	}

	return nil
}

// StaticTrack is a Track variant carrying static (non-timed) data; it
// shares the same property set.
type StaticTrack struct {
	Track
}

func (t *StaticTrack) SetUL() ul.UL { return ul.Dict.UL(ul.NameStaticTrack) }

// Sequence is the top-level StructuralComponent container of a Track.
type Sequence struct {
	Base

	DataDefinition       ul.UL
	Duration             int64
	StructuralComponents []ul.UUID
}

func (s *Sequence) SetUL() ul.UL { return ul.Dict.UL(ul.NameSequence) }

func (s *Sequence) Fields() []Field {
	return []Field{
		{ul.Dict.UL(ul.NameDataDefinition), encodeUL(s.DataDefinition)},
		{ul.Dict.UL(ul.NameDuration), encodeI64(s.Duration)},
		{ul.Dict.UL(ul.NameStructuralComponentsProp), encodeBatchUUID(s.StructuralComponents)},
	}
}

func (s *Sequence) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NameDataDefinition):
		s.DataDefinition = decodeUL(v)
	case ul.Dict.UL(ul.NameDuration):
		s.Duration = decodeI64(v)
	case ul.Dict.UL(ul.NameStructuralComponentsProp):
		scs, err := decodeBatchUUID(v)
		if err != nil {
			return err
		}
		s.StructuralComponents = scs
	default:
		return errUnknown
	}

	return nil
}

// SourceClip is the StructuralComponent referencing essence directly (the
// common case for an AS-02 component track file, which has one SourceClip
// per Sequence spanning the whole container).
type SourceClip struct {
	Base

	DataDefinition ul.UL
	Duration       int64
	StartPosition  int64
	SourcePackage  ul.UMID
	SourceTrackID  uint32
}

func (s *SourceClip) SetUL() ul.UL { return ul.Dict.UL(ul.NameSourceClip) }

func (s *SourceClip) Fields() []Field {
	return []Field{
		{ul.Dict.UL(ul.NameDataDefinition), encodeUL(s.DataDefinition)},
		{ul.Dict.UL(ul.NameDuration), encodeI64(s.Duration)},
		{ul.Dict.UL(ul.NameStartPosition), encodeI64(s.StartPosition)},
		{ul.Dict.UL(ul.NameSourcePackageID), encodeUMID(s.SourcePackage)},
		{ul.Dict.UL(ul.NameSourceTrackID), encodeU32(s.SourceTrackID)},
	}
}

func (s *SourceClip) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NameDataDefinition):
		s.DataDefinition = decodeUL(v)
	case ul.Dict.UL(ul.NameDuration):
		s.Duration = decodeI64(v)
	case ul.Dict.UL(ul.NameStartPosition):
		s.StartPosition = decodeI64(v)
	case ul.Dict.UL(ul.NameSourcePackageID):
		s.SourcePackage = decodeUMID(v)
	case ul.Dict.UL(ul.NameSourceTrackID):
		s.SourceTrackID = decodeU32(v)
	default:
		return errUnknown
	}

	return nil
}

// TimecodeComponent carries the starting timecode for a Sequence.
type TimecodeComponent struct {
	Base

	Duration      int64
	StartTimecode int64
	FPS           uint16
	DropFrame     bool
}

func (t *TimecodeComponent) SetUL() ul.UL { return ul.Dict.UL(ul.NameTimecodeComponent) }

func (t *TimecodeComponent) Fields() []Field {
	drop := uint8(0)
	if t.DropFrame {
		drop = 1
	}

	return []Field{
		{ul.Dict.UL(ul.NameDuration), encodeI64(t.Duration)},
		{ul.Dict.UL(ul.NameStartTimecode), encodeI64(t.StartTimecode)},
		{ul.Dict.UL(ul.NameRoundedTimecodeBase), encodeU16(t.FPS)},
		{ul.Dict.UL(ul.NameDropFrame), encodeU8(drop)},
	}
}

func (t *TimecodeComponent) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NameDuration):
		t.Duration = decodeI64(v)
	case ul.Dict.UL(ul.NameStartTimecode):
		t.StartTimecode = decodeI64(v)
	case ul.Dict.UL(ul.NameRoundedTimecodeBase):
		t.FPS = decodeU16(v)
	case ul.Dict.UL(ul.NameDropFrame):
		t.DropFrame = decodeU8(v) != 0
	default:
		return errUnknown
	}

	return nil
}

// DMSegment is a descriptive-metadata StructuralComponent, used for both
// ordinary DM carriage and (via TextBasedDMFramework) RP 2057 text binding.
type DMSegment struct {
	Base

	DataDefinition ul.UL
	Duration       int64
	EventComment   string
}

func (d *DMSegment) SetUL() ul.UL { return ul.Dict.UL(ul.NameDMSegment) }

func (d *DMSegment) Fields() []Field {
	return []Field{
		{ul.Dict.UL(ul.NameDataDefinition), encodeUL(d.DataDefinition)},
		{ul.Dict.UL(ul.NameDuration), encodeI64(d.Duration)},
		{ul.Dict.UL(ul.NameEventComment), encodeString(d.EventComment)},
	}
}

func (d *DMSegment) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NameDataDefinition):
		d.DataDefinition = decodeUL(v)
	case ul.Dict.UL(ul.NameDuration):
		d.Duration = decodeI64(v)
	case ul.Dict.UL(ul.NameEventComment):
		d.EventComment = decodeString(v)
	default:
		return errUnknown
	}

	return nil
}

// EssenceContainerData binds a SourcePackage's essence to a BodySID/IndexSID
// pair in the partition sequence.
type EssenceContainerData struct {
	Base

	LinkedPackageUID ul.UMID
	IndexSID         uint32
	BodySID          uint32
}

func (e *EssenceContainerData) SetUL() ul.UL { return ul.Dict.UL(ul.NameEssenceContainerData) }

func (e *EssenceContainerData) Fields() []Field {
	return []Field{
		{ul.Dict.UL(ul.NameLinkedPackageUID), encodeUMID(e.LinkedPackageUID)},
		{ul.Dict.UL(ul.NameIndexSIDProp), encodeU32(e.IndexSID)},
		{ul.Dict.UL(ul.NameBodySIDProp), encodeU32(e.BodySID)},
	}
}

func (e *EssenceContainerData) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NameLinkedPackageUID):
		e.LinkedPackageUID = decodeUMID(v)
	case ul.Dict.UL(ul.NameIndexSIDProp):
		e.IndexSID = decodeU32(v)
	case ul.Dict.UL(ul.NameBodySIDProp):
		e.BodySID = decodeU32(v)
	default:
		return errUnknown
	}

	return nil
}
