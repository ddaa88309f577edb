package mdata

import (
	"github.com/imfkit/as02ec/ul"
)

// TextBasedDMFramework is the RP 2057 framework set that binds a DMSegment
// to the generic stream carrying its text payload.
type TextBasedDMFramework struct {
	Base

	TextBasedObject ul.UUID
}

func (t *TextBasedDMFramework) SetUL() ul.UL { return ul.Dict.UL(ul.NameTextBasedDMFramework) }

func (t *TextBasedDMFramework) Fields() []Field {
	return []Field{{ul.Dict.UL(ul.NameTextBasedObject), encodeUUID(t.TextBasedObject)}}
}

func (t *TextBasedDMFramework) ApplyField(u ul.UL, v []byte) error {
	if u != ul.Dict.UL(ul.NameTextBasedObject) {
		return errUnknown
	}

	t.TextBasedObject = decodeUUID(v)
	return nil
}

// GenericStreamTextBasedSet identifies the MIME type, language, and
// generic-stream BodySID/text payload a TextBasedDMFramework refers to, per
// RP 2057. The actual text bytes live in the generic stream partition
// itself; this set only carries the binding metadata.
type GenericStreamTextBasedSet struct {
	Base

	GenericStreamSID    uint32
	MimeType            string
	RFC5646Language     string
	TextDataDescription string
}

func (g *GenericStreamTextBasedSet) SetUL() ul.UL {
	return ul.Dict.UL(ul.NameGenericStreamTextBasedSet)
}

func (g *GenericStreamTextBasedSet) Fields() []Field {
	return []Field{
		{ul.Dict.UL(ul.NameGenericStreamSID), encodeU32(g.GenericStreamSID)},
		{ul.Dict.UL(ul.NameMimeType), encodeString(g.MimeType)},
		{ul.Dict.UL(ul.NameRFC5646LanguageCode), encodeString(g.RFC5646Language)},
		{ul.Dict.UL(ul.NameTextDataDescription), encodeString(g.TextDataDescription)},
	}
}

func (g *GenericStreamTextBasedSet) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NameGenericStreamSID):
		g.GenericStreamSID = decodeU32(v)
	case ul.Dict.UL(ul.NameMimeType):
		g.MimeType = decodeString(v)
	case ul.Dict.UL(ul.NameRFC5646LanguageCode):
		g.RFC5646Language = decodeString(v)
	case ul.Dict.UL(ul.NameTextDataDescription):
		g.TextDataDescription = decodeString(v)
	default:
		return errUnknown
	}

	return nil
}
