package mdata

import (
	"github.com/imfkit/as02ec/ul"
)

// CryptographicFramework links a SourcePackage's essence track to the
// CryptographicContext governing its encryption, per ST 429-6.
type CryptographicFramework struct {
	Base

	ContextSR ul.UUID
}

func (c *CryptographicFramework) SetUL() ul.UL { return ul.Dict.UL(ul.NameCryptographicFramework) }

func (c *CryptographicFramework) Fields() []Field {
	return []Field{{ul.Dict.UL(ul.NameContextSR), encodeUUID(c.ContextSR)}}
}

func (c *CryptographicFramework) ApplyField(u ul.UL, v []byte) error {
	if u != ul.Dict.UL(ul.NameContextSR) {
		return errUnknown
	}

	c.ContextSR = decodeUUID(v)
	return nil
}

// CryptographicContext names the cipher and MIC algorithm applied to the
// encrypted essence track, and the key ID the envelope's triplets reference
// (the key value itself is never carried in metadata).
type CryptographicContext struct {
	Base

	ContextID              ul.UUID
	SourceEssenceContainer ul.UL
	CipherAlgorithm        ul.UL
	MICAlgorithm           ul.UL
	CryptographicKeyID     ul.UUID
}

func (c *CryptographicContext) SetUL() ul.UL { return ul.Dict.UL(ul.NameCryptographicContext) }

func (c *CryptographicContext) Fields() []Field {
	return []Field{
		{ul.Dict.UL(ul.NameSourceEssenceContainer), encodeUL(c.SourceEssenceContainer)},
		{ul.Dict.UL(ul.NameCipherAlgorithm), encodeUL(c.CipherAlgorithm)},
		{ul.Dict.UL(ul.NameMICAlgorithm), encodeUL(c.MICAlgorithm)},
		{ul.Dict.UL(ul.NameCryptographicKeyIDProp), encodeUUID(c.CryptographicKeyID)},
	}
}

func (c *CryptographicContext) ApplyField(u ul.UL, v []byte) error {
	switch u {
	case ul.Dict.UL(ul.NameSourceEssenceContainer):
		c.SourceEssenceContainer = decodeUL(v)
	case ul.Dict.UL(ul.NameCipherAlgorithm):
		c.CipherAlgorithm = decodeUL(v)
	case ul.Dict.UL(ul.NameMICAlgorithm):
		c.MICAlgorithm = decodeUL(v)
	case ul.Dict.UL(ul.NameCryptographicKeyIDProp):
		c.CryptographicKeyID = decodeUUID(v)
	default:
		return errUnknown
	}

	return nil
}
