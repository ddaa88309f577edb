package bytesio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imfkit/as02ec/errs"
)

func TestReadWriteIntegers(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteU16(&buf, 0xABCD))
	require.NoError(t, WriteU32(&buf, 0xDEADBEEF))
	require.NoError(t, WriteU64(&buf, 0x0102030405060708))

	u16, err := ReadU16(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xABCD), u16)

	u32, err := ReadU32(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	u64, err := ReadU64(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), u64)
}

func TestPutAppendsBigEndian(t *testing.T) {
	buf := PutU32(nil, 0x01020304)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, buf)
}

func TestReadBERLength_ShortForm(t *testing.T) {
	buf := bytes.NewReader([]byte{0x10})
	length, width, err := ReadBERLength(buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x10), length)
	assert.Equal(t, 1, width)
}

func TestReadBERLength_LongForm4Byte(t *testing.T) {
	buf := bytes.NewReader([]byte{0x83, 0x00, 0x01, 0x00})
	length, width, err := ReadBERLength(buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(256), length)
	assert.Equal(t, 4, width)
}

func TestReadBERLength_BadLeadByte(t *testing.T) {
	buf := bytes.NewReader([]byte{0x80})
	_, _, err := ReadBERLength(buf)
	require.ErrorIs(t, err, errs.ErrBadBER)
}

func TestAppendBERLength_RoundTrip(t *testing.T) {
	for _, length := range []uint64{0, 1, 127, 128, 65535, maxBERLongLength, maxBERLongLength + 1} {
		width := DefaultBERWidth(length)
		buf, err := AppendBERLength(nil, length, width)
		require.NoError(t, err)

		got, gotWidth, err := ReadBERLength(bytes.NewReader(buf))
		require.NoError(t, err)
		assert.Equal(t, length, got)
		assert.Equal(t, width, gotWidth)
	}
}

func TestAppendBERLength_Fixed8ByteForClipWrap(t *testing.T) {
	buf, err := AppendBERLength(nil, 0, BERLong8)
	require.NoError(t, err)
	require.Len(t, buf, 8)
	assert.Equal(t, byte(0x87), buf[0])
}

func TestCountingWriterReader(t *testing.T) {
	var out bytes.Buffer
	cw := NewCountingWriter(&out, 100)
	n, err := cw.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, int64(105), cw.Offset())

	cr := NewCountingReader(bytes.NewReader(out.Bytes()), 0)
	buf := make([]byte, 5)
	_, err = cr.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(5), cr.Offset())
}
