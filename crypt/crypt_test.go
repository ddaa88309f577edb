package crypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAESCBCCipher_RoundTrip(t *testing.T) {
	key := make([]byte, 16)
	for i := range key {
		key[i] = byte(i)
	}

	c, err := NewAESCBCCipher(key)
	require.NoError(t, err)

	plaintext := []byte("0123456789abcdef0123456789abcdef")
	ciphertext, iv, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	require.Len(t, iv, 16)

	got, err := c.Decrypt(iv, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got[:len(plaintext)])
}

func TestNewAESCBCCipher_RejectsBadKeyLength(t *testing.T) {
	_, err := NewAESCBCCipher([]byte("short"))
	assert.Error(t, err)
}

func TestHMACSHA1MAC_SumAndVerify(t *testing.T) {
	m := NewHMACSHA1MAC([]byte("a-test-key"))

	data := []byte("payload bytes to authenticate")
	sum := m.Sum(data)

	assert.True(t, m.Verify(data, sum))
	assert.False(t, m.Verify(data, append([]byte(nil), sum[:len(sum)-1]...)))
}
