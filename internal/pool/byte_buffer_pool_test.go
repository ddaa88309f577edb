package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B))
	assert.Equal(t, 1024, cap(bb.B))
}

func TestByteBuffer_Bytes(t *testing.T) {
	bb := NewByteBuffer(FrameBufferDefaultSize)
	bb.MustWrite([]byte("eklv-payload"))

	assert.Equal(t, []byte("eklv-payload"), bb.Bytes())
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(FrameBufferDefaultSize)
	bb.MustWrite([]byte("some frame data"))
	originalCap := cap(bb.B)

	bb.Reset()

	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, originalCap, cap(bb.B))
}

func TestByteBuffer_SetLength(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.SetLength(10)
	assert.Equal(t, 10, bb.Len())

	assert.Panics(t, func() { bb.SetLength(-1) })
	assert.Panics(t, func() { bb.SetLength(100) })
}

func TestByteBuffer_Slice(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.SetLength(16)
	s := bb.Slice(4, 8)
	assert.Len(t, s, 4)

	assert.Panics(t, func() { bb.Slice(8, 4) })
	assert.Panics(t, func() { bb.Slice(0, 100) })
}

func TestByteBuffer_Grow(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.Grow(1024)
	assert.GreaterOrEqual(t, cap(bb.B), 1024)
}

func TestByteBuffer_WriteAndWriteTo(t *testing.T) {
	bb := NewByteBuffer(0)
	n, err := bb.Write([]byte("triplet"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	var out bufferWriter
	written, err := bb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(7), written)
	assert.Equal(t, "triplet", string(out.data))
}

type bufferWriter struct{ data []byte }

func (w *bufferWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func TestByteBufferPool_GetPut(t *testing.T) {
	p := NewByteBufferPool(64, 128)

	bb := p.Get()
	require.NotNil(t, bb)
	bb.MustWrite(make([]byte, 200))

	p.Put(bb) // exceeds maxThreshold, discarded rather than pooled

	bb2 := p.Get()
	require.NotNil(t, bb2)
	assert.Equal(t, 0, bb2.Len())
}

func TestFrameAndHeaderBufferPools(t *testing.T) {
	fb := GetFrameBuffer()
	require.NotNil(t, fb)
	PutFrameBuffer(fb)

	hb := GetHeaderBuffer()
	require.NotNil(t, hb)
	PutHeaderBuffer(hb)
}
