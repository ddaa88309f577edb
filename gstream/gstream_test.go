package gstream

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFile struct {
	buf []byte
	pos int64
}

func (m *memFile) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}

	n := copy(m.buf[m.pos:end], p)
	m.pos = end

	return n, nil
}

func (m *memFile) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}

	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)

	return n, nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = m.pos
	case io.SeekEnd:
		base = int64(len(m.buf))
	}

	m.pos = base + offset

	return m.pos, nil
}

func TestWriteReadText_RoundTrip(t *testing.T) {
	f := &memFile{}

	entry, err := WriteText(f, 3, "application/xml", "en-US", []byte("<overlay/>"))
	require.NoError(t, err)
	assert.Equal(t, uint32(3), entry.BodySID)
	assert.Equal(t, uint32(3), entry.Set.GenericStreamSID)
	assert.Equal(t, "application/xml", entry.Set.MimeType)
	assert.Equal(t, entry.Set.InstanceUID(), entry.Framework.TextBasedObject)

	text, err := ReadText(f, entry.ByteOffset)
	require.NoError(t, err)
	assert.Equal(t, []byte("<overlay/>"), text)
}

func TestWriteText_RejectsZeroBodySID(t *testing.T) {
	f := &memFile{}
	_, err := WriteText(f, 0, "text/plain", "en", []byte("x"))
	assert.Error(t, err)
}
