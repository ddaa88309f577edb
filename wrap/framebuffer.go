package wrap

import "github.com/imfkit/as02ec/internal/pool"

// FrameBuffer holds one frame-wrap essence payload between a caller filling
// it and a FrameWriter consuming it, or between a FrameReader filling it
// and a caller consuming it. It is backed by the package-wide frame buffer
// pool so repeated WriteFrame/ReadFrame calls do not allocate.
type FrameBuffer struct {
	buf *pool.ByteBuffer
}

// NewFrameBuffer acquires a FrameBuffer from the shared pool. Callers must
// call Release when done to return it.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{buf: pool.GetFrameBuffer()}
}

// Release returns the FrameBuffer's backing storage to the shared pool.
// The FrameBuffer must not be used afterward.
func (f *FrameBuffer) Release() {
	pool.PutFrameBuffer(f.buf)
	f.buf = nil
}

// Bytes returns the buffer's current contents.
func (f *FrameBuffer) Bytes() []byte { return f.buf.Bytes() }

// Reset empties the buffer, retaining its backing storage.
func (f *FrameBuffer) Reset() { f.buf.Reset() }

// Write appends data to the buffer, growing it as needed.
func (f *FrameBuffer) Write(data []byte) (int, error) { return f.buf.Write(data) }
