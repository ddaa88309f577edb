package ul

// Symbolic names for every Universal Label this codec refers to. Each name
// is registered exactly once in init() below; every serializer obtains its
// key via Dict.UL(NameXxx), never a literal byte array, per the package
// invariant.
const (
	// Root / structural metadata sets.
	NamePreface        = "Preface"
	NameIdentification = "Identification"
	NameContentStorage = "ContentStorage"
	NameMaterialPackage = "MaterialPackage"
	NameSourcePackage  = "SourcePackage"
	NameTrack          = "Track"
	NameStaticTrack    = "StaticTrack"
	NameSequence       = "Sequence"
	NameSourceClip     = "SourceClip"
	NameDMSegment      = "DMSegment"
	NameTimecodeComponent = "TimecodeComponent"
	NameEssenceContainerData = "EssenceContainerData"

	// File descriptors.
	NameGenericPictureEssenceDescriptor = "GenericPictureEssenceDescriptor"
	NameCDCIEssenceDescriptor           = "CDCIEssenceDescriptor"
	NameRGBAEssenceDescriptor           = "RGBAEssenceDescriptor"
	NameGenericSoundEssenceDescriptor   = "GenericSoundEssenceDescriptor"
	NameWaveAudioDescriptor             = "WaveAudioDescriptor"
	NameIABEssenceDescriptor            = "IABEssenceDescriptor"
	NameISXDDataEssenceDescriptor       = "ISXDDataEssenceDescriptor"
	NameTimedTextDescriptor             = "TimedTextDescriptor"

	// Sub-descriptors.
	NameJPEG2000PictureSubDescriptor           = "JPEG2000PictureSubDescriptor"
	NameJPEGXSPictureSubDescriptor             = "JPEGXSPictureSubDescriptor"
	NameACESPictureSubDescriptor               = "ACESPictureSubDescriptor"
	NameTargetFrameSubDescriptor               = "TargetFrameSubDescriptor"
	NameContainerConstraintsSubDescriptor      = "ContainerConstraintsSubDescriptor"
	NameIABSoundfieldLabelSubDescriptor        = "IABSoundfieldLabelSubDescriptor"
	NameAudioChannelLabelSubDescriptor         = "AudioChannelLabelSubDescriptor"
	NameSoundfieldGroupLabelSubDescriptor      = "SoundfieldGroupLabelSubDescriptor"
	NameGroupOfSoundfieldGroupsLabelSubDescriptor = "GroupOfSoundfieldGroupsLabelSubDescriptor"
	NameTimedTextResourceSubDescriptor         = "TimedTextResourceSubDescriptor"
	NamePHDRMetadataTrackSubDescriptor         = "PHDRMetadataTrackSubDescriptor"

	// Cryptographic and DM sets.
	NameCryptographicFramework   = "CryptographicFramework"
	NameCryptographicContext     = "CryptographicContext"
	NameTextBasedDMFramework     = "TextBasedDMFramework"
	NameGenericStreamTextBasedSet = "GenericStreamTextBasedSet"

	// Property names (attached to one or more of the sets above).
	NameInstanceUID             = "InstanceUID"
	NameGenerationUID           = "GenerationUID"
	NameLastModifiedDate        = "LastModifiedDate"
	NameVersion                 = "Version"
	NameOperationalPatternProp  = "OperationalPattern"
	NameEssenceContainersProp   = "EssenceContainers"
	NameDMSchemes               = "DMSchemes"
	NameContentStorageProp      = "ContentStorage_Ref"
	NameIdentificationsProp     = "Identifications"
	NameConformsToSpecifications = "ConformsToSpecifications"
	NamePackagesProp            = "Packages"
	NameEssenceContainerDataProp = "EssenceContainerData_Ref"
	NamePackageUID              = "PackageUID"
	NameTracksProp              = "Tracks"
	NameDescriptorProp          = "Descriptor"
	NameSubDescriptorsProp      = "SubDescriptors"
	NameTrackID                 = "TrackID"
	NameTrackNumber             = "TrackNumber"
	NameTrackName               = "TrackName"
	NameEditRate                = "EditRate"
	NameOrigin                  = "Origin"
	NameSequenceProp            = "Sequence_Ref"
	NameDataDefinition          = "DataDefinition"
	NameDuration                = "Duration"
	NameStructuralComponentsProp = "StructuralComponents"
	NameSampleRate              = "SampleRate"
	NameEssenceContainerProp    = "EssenceContainer"
	NameCodec                   = "Codec"
	NameContainerDuration       = "ContainerDuration"
	NameLinkedTrackID           = "LinkedTrackID"
	NameFrameLayout             = "FrameLayout"
	NameStoredWidth             = "StoredWidth"
	NameStoredHeight            = "StoredHeight"
	NameAspectRatio             = "AspectRatio"
	NamePictureEssenceCoding    = "PictureEssenceCoding"
	NameTransferCharacteristic  = "TransferCharacteristic"
	NameColorPrimaries          = "ColorPrimaries"
	NameCodingEquations         = "CodingEquations"
	NameMasteringDisplayPrimaries = "MasteringDisplayPrimaries"
	NameMasteringDisplayLuminance = "MasteringDisplayLuminance"
	NameAudioSamplingRate       = "AudioSamplingRate"
	NameChannelCount            = "ChannelCount"
	NameQuantizationBits        = "QuantizationBits"
	NameBlockAlign              = "BlockAlign"
	NameAvgBps                  = "AvgBps"
	NameLocked                  = "Locked"
	NameRFC5646LanguageCode     = "RFC5646SpokenLanguage"
	NameMCATagSymbol            = "MCATagSymbol"
	NameMCALabelDictionaryID    = "MCALabelDictionaryID"
	NameSoundfieldGroupLinkID   = "SoundfieldGroupLinkID"
	NameJ2CLayout               = "J2CLayout"
	NameJ2CRsiz                 = "Rsiz"
	NameXSPicSubDescGUID        = "XSPictureSubDescGUID"
	NameACESAuthoringInformation = "ACESAuthoringInformation"
	NameTargetFrameAncillaryResourceID = "TargetFrameAncillaryResourceID"
	NameContainerConstraintsActive = "ContainerConstraintsActive"
	NameSourceEssenceContainer  = "SourceEssenceContainer"
	NameCipherAlgorithm         = "CipherAlgorithm"
	NameMICAlgorithm            = "MICAlgorithm"
	NameCryptographicKeyIDProp  = "CryptographicKeyID"
	NamePHDRImageDynamicRange   = "PHDRImageDynamicRange"
	NameResourceID              = "ResourceID"
	NameMimeType                = "MIMEMediaType"
	NameTextDataDescription     = "TextDataDescription"
	NameCompanyName             = "CompanyName"
	NameProductName             = "ProductName"
	NameProductVersion          = "ProductVersion"
	NameProductUID              = "ProductUID"
	NameToolkitVersion          = "ToolkitVersion"
	NamePlatform                = "Platform"
	NameStartPosition           = "StartPosition"
	NameSourcePackageID         = "SourcePackageID"
	NameSourceTrackID           = "SourceTrackID"
	NameStartTimecode           = "StartTimecode"
	NameRoundedTimecodeBase     = "RoundedTimecodeBase"
	NameDropFrame               = "DropFrame"
	NameEventComment            = "EventComment"
	NameLinkedPackageUID        = "LinkedPackageUID"
	NameIndexSIDProp            = "IndexSID"
	NameBodySIDProp             = "BodySID"
	NameTextBasedObject         = "TextBasedObject"
	NameContextSR               = "ContextSR"
	NameGenericStreamSID        = "GenericStreamSID"

	// Well-known partition / index / primer / RIP keys.
	NamePartitionPackBase   = "PartitionPackBase"
	NamePrimerPack          = "PrimerPack"
	NameIndexTableSegment   = "IndexTableSegment"
	NameRandomIndexPack     = "RandomIndexPack"
	NameKLVFill             = "KLVFill"

	// Operational patterns.
	NameOPAtom = "OPAtom"
	NameOP1a   = "OP1a"

	// Essence container / wrapping labels.
	NameJPEG2000EssenceFrame = "JPEG2000EssenceFrameWrapped"
	NameJPEG2000EssenceUL    = "JPEG2000Essence"
	NameJPEGXSEssenceFrame   = "JPEGXSEssenceFrameWrapped"
	NameJPEGXSEssenceUL      = "JPEGXSEssence"
	NameACESEssenceFrame     = "ACESEssenceFrameWrapped"
	NameACESEssenceUL        = "ACESEssence"
	NameWAVEssenceClip       = "WAVEssenceClipWrapped"
	NamePCMEssenceUL         = "PCMEssence"
	NameIABEssenceClip       = "IABEssenceClipWrapped"
	NameIABEssenceUL         = "IABEssence"
	NameFrameWrappedISXDContainer = "FrameWrappedISXDContainer"
	NameISXDEssenceUL        = "ISXDEssence"
	NameTimedTextEssenceClip = "TimedTextEssenceClipWrapped"
	NameTimedTextEssenceUL   = "TimedTextEssence"
	NameGenericStreamPartitionContainer = "GenericStreamPartitionContainer"

	// StructuralComponent DataDefinition labels (§3's Sequence/SourceClip
	// DataDefinition), one per essence kind a Track can carry.
	NamePictureDataDefinition = "PictureDataDefinition"
	NameSoundDataDefinition   = "SoundDataDefinition"
	NameDataDataDefinition    = "DataDataDefinition"

	// Crypto triplet key.
	NameEncryptedTriplet = "EncryptedTriplet"

	// Cryptographic algorithm labels referenced by CryptographicContext
	// (§4.10): which cipher and MIC the encrypted triplets use.
	NameAESCBCCipher = "AESCBCCipher"
	NameHMACSHA1MIC  = "HMACSHA1MIC"
)

// category bytes used only to keep makeUL's sequence numbers distinct; these
// have no meaning outside this file.
const (
	catSet byte = iota + 1
	catProperty
	catEssenceLabel
	catOperationalPattern
	catPartitionFamily
	catMisc
)

// makeUL synthesizes one internally-consistent Universal Label. Bytes 0-6
// are a fixed SMPTE-style designator prefix, byte 7 is the registry version
// (the byte EqualIgnoreVersion masks), and bytes 8-15 are this package's own
// allocation scheme (category, subgroup, big-endian sequence number, plus
// two reserved bytes partition keys repurpose for openness/completeness).
func makeUL(category, subgroup byte, seq uint16) [16]byte {
	return [16]byte{
		0x06, 0x0E, 0x2B, 0x34, 0x02, 0x53, 0x01, 0x01,
		category, subgroup, byte(seq >> 8), byte(seq), 0x00, 0x00, 0x00, 0x00,
	}
}

func init() {
	var seq uint16

	nextSet := func() [16]byte { seq++; return makeUL(catSet, 0x01, seq) }
	nextProp := func() [16]byte { seq++; return makeUL(catProperty, 0x02, seq) }
	nextLabel := func() [16]byte { seq++; return makeUL(catEssenceLabel, 0x03, seq) }
	nextOP := func() [16]byte { seq++; return makeUL(catOperationalPattern, 0x04, seq) }
	nextMisc := func() [16]byte { seq++; return makeUL(catMisc, 0x05, seq) }

	sets := []string{
		NamePreface, NameIdentification, NameContentStorage, NameMaterialPackage,
		NameSourcePackage, NameTrack, NameStaticTrack, NameSequence, NameSourceClip,
		NameDMSegment, NameTimecodeComponent, NameEssenceContainerData,
		NameGenericPictureEssenceDescriptor, NameCDCIEssenceDescriptor,
		NameRGBAEssenceDescriptor, NameGenericSoundEssenceDescriptor,
		NameWaveAudioDescriptor, NameIABEssenceDescriptor, NameISXDDataEssenceDescriptor,
		NameTimedTextDescriptor, NameJPEG2000PictureSubDescriptor,
		NameJPEGXSPictureSubDescriptor, NameACESPictureSubDescriptor,
		NameTargetFrameSubDescriptor, NameContainerConstraintsSubDescriptor,
		NameIABSoundfieldLabelSubDescriptor, NameAudioChannelLabelSubDescriptor,
		NameSoundfieldGroupLabelSubDescriptor, NameGroupOfSoundfieldGroupsLabelSubDescriptor,
		NameTimedTextResourceSubDescriptor, NamePHDRMetadataTrackSubDescriptor,
		NameCryptographicFramework, NameCryptographicContext, NameTextBasedDMFramework,
		NameGenericStreamTextBasedSet,
	}
	for _, n := range sets {
		Dict.register(n, nextSet(), 0)
	}

	props := []struct {
		name string
		t    WireType
	}{
		{NameInstanceUID, TypeUUID},
		{NameGenerationUID, TypeUUID},
		{NameLastModifiedDate, TypeTimestamp},
		{NameVersion, TypeUint16},
		{NameOperationalPatternProp, TypeUL},
		{NameEssenceContainersProp, TypeBatchUL},
		{NameDMSchemes, TypeBatchUL},
		{NameContentStorageProp, TypeUUID},
		{NameIdentificationsProp, TypeBatchUUID},
		{NameConformsToSpecifications, TypeBatchUL},
		{NamePackagesProp, TypeBatchUUID},
		{NameEssenceContainerDataProp, TypeBatchUUID},
		{NamePackageUID, TypeUMID},
		{NameTracksProp, TypeBatchUUID},
		{NameDescriptorProp, TypeUUID},
		{NameSubDescriptorsProp, TypeBatchUUID},
		{NameTrackID, TypeUint32},
		{NameTrackNumber, TypeUint32},
		{NameTrackName, TypeUTF16String},
		{NameEditRate, TypeRational},
		{NameOrigin, TypeInt64},
		{NameSequenceProp, TypeUUID},
		{NameDataDefinition, TypeUL},
		{NameDuration, TypeInt64},
		{NameStructuralComponentsProp, TypeBatchUUID},
		{NameSampleRate, TypeRational},
		{NameEssenceContainerProp, TypeUL},
		{NameCodec, TypeUL},
		{NameContainerDuration, TypeInt64},
		{NameLinkedTrackID, TypeUint32},
		{NameFrameLayout, TypeUint8},
		{NameStoredWidth, TypeUint32},
		{NameStoredHeight, TypeUint32},
		{NameAspectRatio, TypeRational},
		{NamePictureEssenceCoding, TypeUL},
		{NameTransferCharacteristic, TypeUL},
		{NameColorPrimaries, TypeUL},
		{NameCodingEquations, TypeUL},
		{NameMasteringDisplayPrimaries, TypeOpaque},
		{NameMasteringDisplayLuminance, TypeOpaque},
		{NameAudioSamplingRate, TypeRational},
		{NameChannelCount, TypeUint32},
		{NameQuantizationBits, TypeUint32},
		{NameBlockAlign, TypeUint16},
		{NameAvgBps, TypeUint32},
		{NameLocked, TypeUint8},
		{NameRFC5646LanguageCode, TypeUTF16String},
		{NameMCATagSymbol, TypeUTF16String},
		{NameMCALabelDictionaryID, TypeUL},
		{NameSoundfieldGroupLinkID, TypeUUID},
		{NameJ2CLayout, TypeOpaque},
		{NameJ2CRsiz, TypeUint16},
		{NameXSPicSubDescGUID, TypeUUID},
		{NameACESAuthoringInformation, TypeUTF16String},
		{NameTargetFrameAncillaryResourceID, TypeUUID},
		{NameContainerConstraintsActive, TypeUint8},
		{NameSourceEssenceContainer, TypeUL},
		{NameCipherAlgorithm, TypeUL},
		{NameMICAlgorithm, TypeUL},
		{NameCryptographicKeyIDProp, TypeUUID},
		{NamePHDRImageDynamicRange, TypeUint8},
		{NameResourceID, TypeUUID},
		{NameMimeType, TypeUTF16String},
		{NameTextDataDescription, TypeUTF16String},
		{NameCompanyName, TypeUTF16String},
		{NameProductName, TypeUTF16String},
		{NameProductVersion, TypeUTF16String},
		{NameProductUID, TypeUUID},
		{NameToolkitVersion, TypeUTF16String},
		{NamePlatform, TypeUTF16String},
		{NameStartPosition, TypeInt64},
		{NameSourcePackageID, TypeUMID},
		{NameSourceTrackID, TypeUint32},
		{NameStartTimecode, TypeInt64},
		{NameRoundedTimecodeBase, TypeUint16},
		{NameDropFrame, TypeUint8},
		{NameEventComment, TypeUTF16String},
		{NameLinkedPackageUID, TypeUMID},
		{NameIndexSIDProp, TypeUint32},
		{NameBodySIDProp, TypeUint32},
		{NameTextBasedObject, TypeUUID},
		{NameContextSR, TypeUUID},
		{NameGenericStreamSID, TypeUint32},
	}
	for _, p := range props {
		Dict.register(p.name, nextProp(), p.t)
	}

	labels := []string{
		NameJPEG2000EssenceFrame, NameJPEG2000EssenceUL, NameJPEGXSEssenceFrame,
		NameJPEGXSEssenceUL, NameACESEssenceFrame, NameACESEssenceUL,
		NameWAVEssenceClip, NamePCMEssenceUL, NameIABEssenceClip, NameIABEssenceUL,
		NameFrameWrappedISXDContainer, NameISXDEssenceUL, NameTimedTextEssenceClip,
		NameTimedTextEssenceUL, NameGenericStreamPartitionContainer,
		NamePictureDataDefinition, NameSoundDataDefinition, NameDataDataDefinition,
		NameAESCBCCipher, NameHMACSHA1MIC,
	}
	for _, n := range labels {
		Dict.register(n, nextLabel(), TypeUL)
	}

	ops := []string{NameOPAtom, NameOP1a}
	for _, n := range ops {
		Dict.register(n, nextOP(), TypeUL)
	}

	misc := []string{
		NamePartitionPackBase, NamePrimerPack, NameIndexTableSegment,
		NameRandomIndexPack, NameKLVFill, NameEncryptedTriplet,
	}
	for _, n := range misc {
		Dict.register(n, nextMisc(), 0)
	}
}
