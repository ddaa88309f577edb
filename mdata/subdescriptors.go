package mdata

import (
	"github.com/imfkit/as02ec/ul"
)

// JPEG2000PictureSubDescriptor carries the J2C profile/layout detail the
// generic picture descriptor has no room for.
type JPEG2000PictureSubDescriptor struct {
	Base

	J2CLayout []byte
	Rsiz      uint16
}

func (j *JPEG2000PictureSubDescriptor) SetUL() ul.UL {
	return ul.Dict.UL(ul.NameJPEG2000PictureSubDescriptor)
}

func (j *JPEG2000PictureSubDescriptor) Fields() []Field {
	return []Field{
		{ul.Dict.UL(ul.NameJ2CLayout), j.J2CLayout},
		{ul.Dict.UL(ul.NameJ2CRsiz), encodeU16(j.Rsiz)},
	}
}

func (j *JPEG2000PictureSubDescriptor) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NameJ2CLayout):
		j.J2CLayout = append([]byte(nil), v...)
	case ul.Dict.UL(ul.NameJ2CRsiz):
		j.Rsiz = decodeU16(v)
	default:
		return errUnknown
	}

	return nil
}

// JPEGXSPictureSubDescriptor identifies the JPEG XS codestream's parameter
// set by GUID, per ISO/IEC 21122-3.
type JPEGXSPictureSubDescriptor struct {
	Base

	PictureSubDescGUID ul.UUID
}

func (j *JPEGXSPictureSubDescriptor) SetUL() ul.UL {
	return ul.Dict.UL(ul.NameJPEGXSPictureSubDescriptor)
}

func (j *JPEGXSPictureSubDescriptor) Fields() []Field {
	return []Field{{ul.Dict.UL(ul.NameXSPicSubDescGUID), encodeUUID(j.PictureSubDescGUID)}}
}

func (j *JPEGXSPictureSubDescriptor) ApplyField(u ul.UL, v []byte) error {
	if u != ul.Dict.UL(ul.NameXSPicSubDescGUID) {
		return errUnknown
	}

	j.PictureSubDescGUID = decodeUUID(v)
	return nil
}

// ACESPictureSubDescriptor carries ACES authoring metadata (IDT/ACES
// container constraints), kept here as an opaque authoring string since
// this codec does not originate or edit that data.
type ACESPictureSubDescriptor struct {
	Base

	ACESAuthoringInformation string
}

func (a *ACESPictureSubDescriptor) SetUL() ul.UL {
	return ul.Dict.UL(ul.NameACESPictureSubDescriptor)
}

func (a *ACESPictureSubDescriptor) Fields() []Field {
	return []Field{{ul.Dict.UL(ul.NameACESAuthoringInformation), encodeString(a.ACESAuthoringInformation)}}
}

func (a *ACESPictureSubDescriptor) ApplyField(u ul.UL, v []byte) error {
	if u != ul.Dict.UL(ul.NameACESAuthoringInformation) {
		return errUnknown
	}

	a.ACESAuthoringInformation = decodeString(v)
	return nil
}

// TargetFrameSubDescriptor references an ancillary still-frame resource
// (e.g. a calibration or slate frame) carried in a generic stream partition.
type TargetFrameSubDescriptor struct {
	Base

	TargetFrameAncillaryResourceID ul.UUID
}

func (t *TargetFrameSubDescriptor) SetUL() ul.UL {
	return ul.Dict.UL(ul.NameTargetFrameSubDescriptor)
}

func (t *TargetFrameSubDescriptor) Fields() []Field {
	return []Field{{ul.Dict.UL(ul.NameTargetFrameAncillaryResourceID), encodeUUID(t.TargetFrameAncillaryResourceID)}}
}

func (t *TargetFrameSubDescriptor) ApplyField(u ul.UL, v []byte) error {
	if u != ul.Dict.UL(ul.NameTargetFrameAncillaryResourceID) {
		return errUnknown
	}

	t.TargetFrameAncillaryResourceID = decodeUUID(v)
	return nil
}

// ContainerConstraintsSubDescriptor flags that a SourcePackage's essence
// conforms to the ContainerConstraintsFramework (every AS-02 component file
// carries one).
type ContainerConstraintsSubDescriptor struct {
	Base

	Active bool
}

func (c *ContainerConstraintsSubDescriptor) SetUL() ul.UL {
	return ul.Dict.UL(ul.NameContainerConstraintsSubDescriptor)
}

func (c *ContainerConstraintsSubDescriptor) Fields() []Field {
	active := uint8(0)
	if c.Active {
		active = 1
	}

	return []Field{{ul.Dict.UL(ul.NameContainerConstraintsActive), encodeU8(active)}}
}

func (c *ContainerConstraintsSubDescriptor) ApplyField(u ul.UL, v []byte) error {
	if u != ul.Dict.UL(ul.NameContainerConstraintsActive) {
		return errUnknown
	}

	c.Active = decodeU8(v) != 0
	return nil
}

// soundfieldLabelCommon is shared by the four IAB/MCA soundfield label
// sub-descriptor kinds, which differ only in their set UL and which of
// TagSymbol/LabelDictionaryID/LinkID apply.
type soundfieldLabelCommon struct {
	Base

	MCATagSymbol          string
	MCALabelDictionaryID  ul.UL
	SoundfieldGroupLinkID ul.UUID
}

func (s *soundfieldLabelCommon) fields() []Field {
	return []Field{
		{ul.Dict.UL(ul.NameMCATagSymbol), encodeString(s.MCATagSymbol)},
		{ul.Dict.UL(ul.NameMCALabelDictionaryID), encodeUL(s.MCALabelDictionaryID)},
		{ul.Dict.UL(ul.NameSoundfieldGroupLinkID), encodeUUID(s.SoundfieldGroupLinkID)},
	}
}

func (s *soundfieldLabelCommon) applyField(u ul.UL, v []byte) (bool, error) {
	switch u {
	case ul.Dict.UL(ul.NameMCATagSymbol):
		s.MCATagSymbol = decodeString(v)
	case ul.Dict.UL(ul.NameMCALabelDictionaryID):
		s.MCALabelDictionaryID = decodeUL(v)
	case ul.Dict.UL(ul.NameSoundfieldGroupLinkID):
		s.SoundfieldGroupLinkID = decodeUUID(v)
	default:
		return false, nil
	}

	return true, nil
}

// IABSoundfieldLabelSubDescriptor labels an IAB soundfield group.
type IABSoundfieldLabelSubDescriptor struct{ soundfieldLabelCommon }

func (i *IABSoundfieldLabelSubDescriptor) SetUL() ul.UL {
	return ul.Dict.UL(ul.NameIABSoundfieldLabelSubDescriptor)
}
func (i *IABSoundfieldLabelSubDescriptor) Fields() []Field { return i.fields() }
func (i *IABSoundfieldLabelSubDescriptor) ApplyField(u ul.UL, v []byte) error {
	return applyOrUnknown(i.applyField(u, v))
}

// AudioChannelLabelSubDescriptor labels one PCM/WAV audio channel's MCA tag.
type AudioChannelLabelSubDescriptor struct{ soundfieldLabelCommon }

func (a *AudioChannelLabelSubDescriptor) SetUL() ul.UL {
	return ul.Dict.UL(ul.NameAudioChannelLabelSubDescriptor)
}
func (a *AudioChannelLabelSubDescriptor) Fields() []Field { return a.fields() }
func (a *AudioChannelLabelSubDescriptor) ApplyField(u ul.UL, v []byte) error {
	return applyOrUnknown(a.applyField(u, v))
}

// SoundfieldGroupLabelSubDescriptor labels a standard soundfield group
// (e.g. 5.1, stereo).
type SoundfieldGroupLabelSubDescriptor struct{ soundfieldLabelCommon }

func (s *SoundfieldGroupLabelSubDescriptor) SetUL() ul.UL {
	return ul.Dict.UL(ul.NameSoundfieldGroupLabelSubDescriptor)
}
func (s *SoundfieldGroupLabelSubDescriptor) Fields() []Field { return s.fields() }
func (s *SoundfieldGroupLabelSubDescriptor) ApplyField(u ul.UL, v []byte) error {
	return applyOrUnknown(s.applyField(u, v))
}

// GroupOfSoundfieldGroupsLabelSubDescriptor labels a composite of several
// soundfield groups (e.g. 5.1 + stereo carried in one track).
type GroupOfSoundfieldGroupsLabelSubDescriptor struct{ soundfieldLabelCommon }

func (g *GroupOfSoundfieldGroupsLabelSubDescriptor) SetUL() ul.UL {
	return ul.Dict.UL(ul.NameGroupOfSoundfieldGroupsLabelSubDescriptor)
}
func (g *GroupOfSoundfieldGroupsLabelSubDescriptor) Fields() []Field { return g.fields() }
func (g *GroupOfSoundfieldGroupsLabelSubDescriptor) ApplyField(u ul.UL, v []byte) error {
	return applyOrUnknown(g.applyField(u, v))
}

func applyOrUnknown(handled bool, err error) error {
	if err != nil {
		return err
	}
	if !handled {
		return errUnknown
	}

	return nil
}

// TimedTextResourceSubDescriptor references one ancillary resource (font,
// image, or ISXD overlay) listed in a Timed Text track's resource manifest,
// carried as a generic stream partition identified by ResourceID.
type TimedTextResourceSubDescriptor struct {
	Base

	ResourceID ul.UUID
	MimeType   string
}

func (t *TimedTextResourceSubDescriptor) SetUL() ul.UL {
	return ul.Dict.UL(ul.NameTimedTextResourceSubDescriptor)
}

func (t *TimedTextResourceSubDescriptor) Fields() []Field {
	return []Field{
		{ul.Dict.UL(ul.NameResourceID), encodeUUID(t.ResourceID)},
		{ul.Dict.UL(ul.NameMimeType), encodeString(t.MimeType)},
	}
}

func (t *TimedTextResourceSubDescriptor) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NameResourceID):
		t.ResourceID = decodeUUID(v)
	case ul.Dict.UL(ul.NameMimeType):
		t.MimeType = decodeString(v)
	default:
		return errUnknown
	}

	return nil
}

// PHDRMetadataTrackSubDescriptor marks a picture track as carrying Pan &
// Scan / HDR metadata (PHDR) image dynamic-range side information alongside
// the coded image.
type PHDRMetadataTrackSubDescriptor struct {
	Base

	ImageDynamicRange uint8
}

func (p *PHDRMetadataTrackSubDescriptor) SetUL() ul.UL {
	return ul.Dict.UL(ul.NamePHDRMetadataTrackSubDescriptor)
}

func (p *PHDRMetadataTrackSubDescriptor) Fields() []Field {
	return []Field{{ul.Dict.UL(ul.NamePHDRImageDynamicRange), encodeU8(p.ImageDynamicRange)}}
}

func (p *PHDRMetadataTrackSubDescriptor) ApplyField(u ul.UL, v []byte) error {
	if u != ul.Dict.UL(ul.NamePHDRImageDynamicRange) {
		return errUnknown
	}

	p.ImageDynamicRange = decodeU8(v)
	return nil
}
