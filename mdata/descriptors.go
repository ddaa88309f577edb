package mdata

import (
	"github.com/imfkit/as02ec/ul"
)

// fileDescriptorCommon holds the properties shared by every concrete
// FileDescriptor (GenericPictureEssenceDescriptor's picture-only fields are
// layered on top via embedding, the sound equivalent likewise).
type fileDescriptorCommon struct {
	Base

	LinkedTrackID     uint32
	SampleRate        ul.Rational
	EssenceContainer  ul.UL
	Codec             ul.UL
	ContainerDuration int64
}

func (f *fileDescriptorCommon) fields() []Field {
	return []Field{
		{ul.Dict.UL(ul.NameLinkedTrackID), encodeU32(f.LinkedTrackID)},
		{ul.Dict.UL(ul.NameSampleRate), encodeRational(f.SampleRate)},
		{ul.Dict.UL(ul.NameEssenceContainerProp), encodeUL(f.EssenceContainer)},
		{ul.Dict.UL(ul.NameCodec), encodeUL(f.Codec)},
		{ul.Dict.UL(ul.NameContainerDuration), encodeI64(f.ContainerDuration)},
	}
}

func (f *fileDescriptorCommon) applyField(u ul.UL, v []byte) (bool, error) {
	switch u {
	case ul.Dict.UL(ul.NameLinkedTrackID):
		f.LinkedTrackID = decodeU32(v)
	case ul.Dict.UL(ul.NameSampleRate):
		f.SampleRate = decodeRational(v)
	case ul.Dict.UL(ul.NameEssenceContainerProp):
		f.EssenceContainer = decodeUL(v)
	case ul.Dict.UL(ul.NameCodec):
		f.Codec = decodeUL(v)
	case ul.Dict.UL(ul.NameContainerDuration):
		f.ContainerDuration = decodeI64(v)
	default:
		return false, nil
	}

	return true, nil
}

// GenericPictureEssenceDescriptor describes the common picture essence
// properties shared by CDCI and RGBA layouts, and stands on its own for
// JPEG 2000 / JPEG XS / ACES essence, whose codec-specific properties live
// entirely in their SubDescriptors.
type GenericPictureEssenceDescriptor struct {
	fileDescriptorCommon

	FrameLayout            uint8
	StoredWidth            uint32
	StoredHeight           uint32
	AspectRatio            ul.Rational
	PictureEssenceCoding   ul.UL
	TransferCharacteristic ul.UL
	ColorPrimaries         ul.UL
	CodingEquations        ul.UL
	SubDescriptors         []ul.UUID
}

func (g *GenericPictureEssenceDescriptor) SetUL() ul.UL {
	return ul.Dict.UL(ul.NameGenericPictureEssenceDescriptor)
}

func (g *GenericPictureEssenceDescriptor) Fields() []Field {
	return append(g.fields(),
		Field{ul.Dict.UL(ul.NameFrameLayout), encodeU8(g.FrameLayout)},
		Field{ul.Dict.UL(ul.NameStoredWidth), encodeU32(g.StoredWidth)},
		Field{ul.Dict.UL(ul.NameStoredHeight), encodeU32(g.StoredHeight)},
		Field{ul.Dict.UL(ul.NameAspectRatio), encodeRational(g.AspectRatio)},
		Field{ul.Dict.UL(ul.NamePictureEssenceCoding), encodeUL(g.PictureEssenceCoding)},
		Field{ul.Dict.UL(ul.NameTransferCharacteristic), encodeUL(g.TransferCharacteristic)},
		Field{ul.Dict.UL(ul.NameColorPrimaries), encodeUL(g.ColorPrimaries)},
		Field{ul.Dict.UL(ul.NameCodingEquations), encodeUL(g.CodingEquations)},
		Field{ul.Dict.UL(ul.NameSubDescriptorsProp), encodeBatchUUID(g.SubDescriptors)},
	)
}

func (g *GenericPictureEssenceDescriptor) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NameFrameLayout):
		g.FrameLayout = decodeU8(v)
	case ul.Dict.UL(ul.NameStoredWidth):
		g.StoredWidth = decodeU32(v)
	case ul.Dict.UL(ul.NameStoredHeight):
		g.StoredHeight = decodeU32(v)
	case ul.Dict.UL(ul.NameAspectRatio):
		g.AspectRatio = decodeRational(v)
	case ul.Dict.UL(ul.NamePictureEssenceCoding):
		g.PictureEssenceCoding = decodeUL(v)
	case ul.Dict.UL(ul.NameTransferCharacteristic):
		g.TransferCharacteristic = decodeUL(v)
	case ul.Dict.UL(ul.NameColorPrimaries):
		g.ColorPrimaries = decodeUL(v)
	case ul.Dict.UL(ul.NameCodingEquations):
		g.CodingEquations = decodeUL(v)
	case ul.Dict.UL(ul.NameSubDescriptorsProp):
		subs, err := decodeBatchUUID(v)
		if err != nil {
			return err
		}
		g.SubDescriptors = subs
	default:
		handled, err := g.applyField(u, v)
		if err != nil {
			return err
		}
		if !handled {
			return errUnknown
		}
	}

	return nil
}

// CDCIEssenceDescriptor adds component-coded color-difference properties on
// top of the generic picture descriptor; HDR mastering metadata is carried
// as opaque TLVs since this codec treats them as pass-through, not
// structured fields.
type CDCIEssenceDescriptor struct {
	GenericPictureEssenceDescriptor

	MasteringDisplayPrimaries []byte
	MasteringDisplayLuminance []byte
}

func (c *CDCIEssenceDescriptor) SetUL() ul.UL { return ul.Dict.UL(ul.NameCDCIEssenceDescriptor) }

func (c *CDCIEssenceDescriptor) Fields() []Field {
	fields := c.GenericPictureEssenceDescriptor.Fields()
	if c.MasteringDisplayPrimaries != nil {
		fields = append(fields, Field{ul.Dict.UL(ul.NameMasteringDisplayPrimaries), c.MasteringDisplayPrimaries})
	}
	if c.MasteringDisplayLuminance != nil {
		fields = append(fields, Field{ul.Dict.UL(ul.NameMasteringDisplayLuminance), c.MasteringDisplayLuminance})
	}

	return fields
}

func (c *CDCIEssenceDescriptor) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NameMasteringDisplayPrimaries):
		c.MasteringDisplayPrimaries = append([]byte(nil), v...)
	case ul.Dict.UL(ul.NameMasteringDisplayLuminance):
		c.MasteringDisplayLuminance = append([]byte(nil), v...)
	default:
		return c.GenericPictureEssenceDescriptor.ApplyField(u, v)
	}

	return nil
}

// RGBAEssenceDescriptor is the RGBA-layout counterpart of CDCIEssenceDescriptor,
// used by ACES essence whose component ordering SubDescriptor carries the
// codec-specific detail.
type RGBAEssenceDescriptor struct {
	GenericPictureEssenceDescriptor
}

func (r *RGBAEssenceDescriptor) SetUL() ul.UL { return ul.Dict.UL(ul.NameRGBAEssenceDescriptor) }

// GenericSoundEssenceDescriptor describes the common audio essence
// properties shared by PCM, IAB, and (structurally) any future audio codec.
type GenericSoundEssenceDescriptor struct {
	fileDescriptorCommon

	AudioSamplingRate ul.Rational
	ChannelCount      uint32
	QuantizationBits  uint32
	Locked            bool
	SubDescriptors    []ul.UUID
}

func (g *GenericSoundEssenceDescriptor) SetUL() ul.UL {
	return ul.Dict.UL(ul.NameGenericSoundEssenceDescriptor)
}

func (g *GenericSoundEssenceDescriptor) Fields() []Field {
	locked := uint8(0)
	if g.Locked {
		locked = 1
	}

	return append(g.fields(),
		Field{ul.Dict.UL(ul.NameAudioSamplingRate), encodeRational(g.AudioSamplingRate)},
		Field{ul.Dict.UL(ul.NameChannelCount), encodeU32(g.ChannelCount)},
		Field{ul.Dict.UL(ul.NameQuantizationBits), encodeU32(g.QuantizationBits)},
		Field{ul.Dict.UL(ul.NameLocked), encodeU8(locked)},
		Field{ul.Dict.UL(ul.NameSubDescriptorsProp), encodeBatchUUID(g.SubDescriptors)},
	)
}

func (g *GenericSoundEssenceDescriptor) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NameAudioSamplingRate):
		g.AudioSamplingRate = decodeRational(v)
	case ul.Dict.UL(ul.NameChannelCount):
		g.ChannelCount = decodeU32(v)
	case ul.Dict.UL(ul.NameQuantizationBits):
		g.QuantizationBits = decodeU32(v)
	case ul.Dict.UL(ul.NameLocked):
		g.Locked = decodeU8(v) != 0
	case ul.Dict.UL(ul.NameSubDescriptorsProp):
		subs, err := decodeBatchUUID(v)
		if err != nil {
			return err
		}
		g.SubDescriptors = subs
	default:
		handled, err := g.applyField(u, v)
		if err != nil {
			return err
		}
		if !handled {
			return errUnknown
		}
	}

	return nil
}

// WaveAudioDescriptor adds the RIFF WAVE-derived block alignment properties
// PCM essence needs on top of the generic sound descriptor.
type WaveAudioDescriptor struct {
	GenericSoundEssenceDescriptor

	BlockAlign uint16
	AvgBps     uint32
}

func (w *WaveAudioDescriptor) SetUL() ul.UL { return ul.Dict.UL(ul.NameWaveAudioDescriptor) }

func (w *WaveAudioDescriptor) Fields() []Field {
	return append(w.GenericSoundEssenceDescriptor.Fields(),
		Field{ul.Dict.UL(ul.NameBlockAlign), encodeU16(w.BlockAlign)},
		Field{ul.Dict.UL(ul.NameAvgBps), encodeU32(w.AvgBps)},
	)
}

func (w *WaveAudioDescriptor) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NameBlockAlign):
		w.BlockAlign = decodeU16(v)
	case ul.Dict.UL(ul.NameAvgBps):
		w.AvgBps = decodeU32(v)
	default:
		return w.GenericSoundEssenceDescriptor.ApplyField(u, v)
	}

	return nil
}

// IABEssenceDescriptor is the sound descriptor variant used for Immersive
// Audio Bitstream essence; its soundfield/channel label structure lives in
// the IABSoundfieldLabelSubDescriptor chain, not here.
type IABEssenceDescriptor struct {
	GenericSoundEssenceDescriptor
}

func (i *IABEssenceDescriptor) SetUL() ul.UL { return ul.Dict.UL(ul.NameIABEssenceDescriptor) }

// ISXDDataEssenceDescriptor describes a generic SMPTE-Timed-Text-style
// private-data essence stream (RDD 47 ISXD) frame-wrapped as data.
type ISXDDataEssenceDescriptor struct {
	fileDescriptorCommon
}

func (i *ISXDDataEssenceDescriptor) SetUL() ul.UL {
	return ul.Dict.UL(ul.NameISXDDataEssenceDescriptor)
}

func (i *ISXDDataEssenceDescriptor) Fields() []Field { return i.fields() }

func (i *ISXDDataEssenceDescriptor) ApplyField(u ul.UL, v []byte) error {
	handled, err := i.applyField(u, v)
	if err != nil {
		return err
	}
	if !handled {
		return errUnknown
	}

	return nil
}

// TimedTextDescriptor describes an SMPTE ST 2052-1 Timed Text essence
// track; the resource manifest (font/image attachments) is carried by its
// TimedTextResourceSubDescriptor chain.
type TimedTextDescriptor struct {
	fileDescriptorCommon

	ResourceID         ul.UUID
	MimeType           string
	RFC5646LanguageTag string
	SubDescriptors     []ul.UUID
}

func (t *TimedTextDescriptor) SetUL() ul.UL { return ul.Dict.UL(ul.NameTimedTextDescriptor) }

func (t *TimedTextDescriptor) Fields() []Field {
	return append(t.fields(),
		Field{ul.Dict.UL(ul.NameResourceID), encodeUUID(t.ResourceID)},
		Field{ul.Dict.UL(ul.NameMimeType), encodeString(t.MimeType)},
		Field{ul.Dict.UL(ul.NameRFC5646LanguageCode), encodeString(t.RFC5646LanguageTag)},
		Field{ul.Dict.UL(ul.NameSubDescriptorsProp), encodeBatchUUID(t.SubDescriptors)},
	)
}

func (t *TimedTextDescriptor) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NameResourceID):
		t.ResourceID = decodeUUID(v)
	case ul.Dict.UL(ul.NameMimeType):
		t.MimeType = decodeString(v)
	case ul.Dict.UL(ul.NameRFC5646LanguageCode):
		t.RFC5646LanguageTag = decodeString(v)
	case ul.Dict.UL(ul.NameSubDescriptorsProp):
		subs, err := decodeBatchUUID(v)
		if err != nil {
			return err
		}
		t.SubDescriptors = subs
	default:
		handled, err := t.applyField(u, v)
		if err != nil {
			return err
		}
		if !handled {
			return errUnknown
		}
	}

	return nil
}
