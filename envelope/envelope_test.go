package envelope

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imfkit/as02ec/crypt"
	"github.com/imfkit/as02ec/ul"
)

func TestWrapUnwrap_RoundTrip(t *testing.T) {
	key := make([]byte, 16)
	for i := range key {
		key[i] = byte(i * 3)
	}

	cipher, err := crypt.NewAESCBCCipher(key)
	require.NoError(t, err)

	mac := crypt.NewHMACSHA1MAC([]byte("integrity-key"))

	contextID, err := ul.NewUUID()
	require.NoError(t, err)

	sourceKey := ul.Dict.UL(ul.NamePCMEssenceUL)
	plaintext := []byte("some essence bytes, not block-aligned")

	triplet, err := Wrap(cipher, mac, contextID, sourceKey, plaintext)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(plaintext)), triplet.SourceLength)

	got, err := Unwrap(cipher, mac, triplet)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestUnwrap_RejectsTamperedMIC(t *testing.T) {
	key := make([]byte, 16)
	cipher, err := crypt.NewAESCBCCipher(key)
	require.NoError(t, err)
	mac := crypt.NewHMACSHA1MAC([]byte("k"))

	contextID, _ := ul.NewUUID()
	triplet, err := Wrap(cipher, mac, contextID, ul.Dict.UL(ul.NamePCMEssenceUL), []byte("payload"))
	require.NoError(t, err)

	triplet.IntegrityPack[0] ^= 0xFF

	_, err = Unwrap(cipher, mac, triplet)
	assert.Error(t, err)
}

func TestUnwrap_RejectsTamperedContextID(t *testing.T) {
	key := make([]byte, 16)
	cipher, err := crypt.NewAESCBCCipher(key)
	require.NoError(t, err)
	mac := crypt.NewHMACSHA1MAC([]byte("k"))

	contextID, _ := ul.NewUUID()
	triplet, err := Wrap(cipher, mac, contextID, ul.Dict.UL(ul.NamePCMEssenceUL), []byte("payload"))
	require.NoError(t, err)

	triplet.ContextID[0] ^= 0xFF

	_, err = Unwrap(cipher, mac, triplet)
	assert.Error(t, err)
}

func TestTripletBytesParseRoundTrip(t *testing.T) {
	contextID, _ := ul.NewUUID()
	triplet := Triplet{
		ContextID:     contextID,
		SourceKey:     ul.Dict.UL(ul.NamePCMEssenceUL),
		SourceLength:  42,
		IV:            bytes.Repeat([]byte{0x11}, 16),
		CheckValue:    bytes.Repeat([]byte{0x22}, 16),
		EncryptedData: bytes.Repeat([]byte{0x33}, 32),
		IntegrityPack: bytes.Repeat([]byte{0x44}, 20),
	}

	encoded := triplet.Bytes()
	got, err := Parse(encoded, 20)
	require.NoError(t, err)

	assert.Equal(t, triplet.ContextID, got.ContextID)
	assert.Equal(t, triplet.SourceKey, got.SourceKey)
	assert.Equal(t, triplet.IV, got.IV)
	assert.Equal(t, triplet.CheckValue, got.CheckValue)
	assert.Equal(t, triplet.EncryptedData, got.EncryptedData)
	assert.Equal(t, triplet.IntegrityPack, got.IntegrityPack)
}
