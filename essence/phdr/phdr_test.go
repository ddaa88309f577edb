package phdr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imfkit/as02ec/mdata"
	"github.com/imfkit/as02ec/ul"
)

func TestNewSubDescriptor(t *testing.T) {
	sd := NewSubDescriptor(1)
	require.Equal(t, uint8(1), sd.ImageDynamicRange)
	require.Equal(t, ul.Dict.UL(ul.NamePHDRMetadataTrackSubDescriptor), sd.SetUL())
}

func TestSubDescriptor_RoundTrip(t *testing.T) {
	sd := NewSubDescriptor(2)
	iuid, err := ul.NewUUID()
	require.NoError(t, err)
	sd.SetInstanceUID(iuid)

	fields := sd.Fields()
	require.Len(t, fields, 1)

	var decoded mdata.PHDRMetadataTrackSubDescriptor
	for _, f := range fields {
		require.NoError(t, decoded.ApplyField(f.UL, f.Value))
	}
	require.Equal(t, sd.ImageDynamicRange, decoded.ImageDynamicRange)
}

func TestSubDescriptor_ApplyField_Unknown(t *testing.T) {
	var sd mdata.PHDRMetadataTrackSubDescriptor
	err := sd.ApplyField(ul.Dict.UL(ul.NameMimeType), []byte("text/plain"))
	require.Error(t, err)
}
