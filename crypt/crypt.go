// Package crypt provides the default implementations of the envelope
// package's Encryptor/Decryptor/MACer capability interfaces, built on the
// standard library's crypto primitives (AES-CBC-128 and HMAC-SHA1), the
// pairing ST 429-6 specifies for MXF's cryptographic binding. No
// third-party cryptographic library in the example pack targets this exact
// algorithm pair, and rolling a custom AES/HMAC implementation instead of
// the standard library would be a strictly worse and less trustworthy
// choice for security-sensitive code; see DESIGN.md for the full
// justification.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"io"

	"github.com/imfkit/as02ec/errs"
)

// AESCBCCipher implements envelope.Encryptor and envelope.Decryptor using
// AES-128 in CBC mode with a random per-packet IV, per ST 429-6's
// AES-CBC-128 cryptographic context.
type AESCBCCipher struct {
	block cipher.Block
}

// NewAESCBCCipher returns a cipher for the given 16-byte AES-128 key.
func NewAESCBCCipher(key []byte) (*AESCBCCipher, error) {
	if len(key) != 16 {
		return nil, errs.ErrCryptInit
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errs.ErrCryptInit
	}

	return &AESCBCCipher{block: block}, nil
}

// Encrypt pads plaintext to the AES block size with zeros and encrypts it
// under a freshly generated random IV.
func (c *AESCBCCipher) Encrypt(plaintext []byte) ([]byte, []byte, error) {
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, nil, errs.ErrCryptInit
	}

	padded := padToBlock(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))

	mode := cipher.NewCBCEncrypter(c.block, iv)
	mode.CryptBlocks(ciphertext, padded)

	return ciphertext, iv, nil
}

// Decrypt reverses Encrypt. The caller is responsible for trimming any
// zero padding the original plaintext length implies (ciphertext is always
// block-aligned; plaintext need not be).
func (c *AESCBCCipher) Decrypt(iv, ciphertext []byte) ([]byte, error) {
	if len(iv) != aes.BlockSize || len(ciphertext)%aes.BlockSize != 0 {
		return nil, errs.ErrCryptCtx
	}

	plaintext := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(c.block, iv)
	mode.CryptBlocks(plaintext, ciphertext)

	return plaintext, nil
}

func padToBlock(data []byte, blockSize int) []byte {
	rem := len(data) % blockSize
	if rem == 0 {
		return data
	}

	return append(append([]byte(nil), data...), make([]byte, blockSize-rem)...)
}

// HMACSHA1MAC implements envelope.MACer using HMAC-SHA1, ST 429-6's
// default message-integrity-check algorithm.
type HMACSHA1MAC struct {
	key []byte
}

// NewHMACSHA1MAC returns a MACer for the given key.
func NewHMACSHA1MAC(key []byte) *HMACSHA1MAC {
	return &HMACSHA1MAC{key: append([]byte(nil), key...)}
}

// Sum returns the HMAC-SHA1 of data.
func (m *HMACSHA1MAC) Sum(data []byte) []byte {
	h := hmac.New(sha1.New, m.key)
	h.Write(data)

	return h.Sum(nil)
}

// Verify reports whether mic is the correct HMAC-SHA1 of data, in constant
// time.
func (m *HMACSHA1MAC) Verify(data, mic []byte) bool {
	expected := m.Sum(data)
	return subtle.ConstantTimeCompare(expected, mic) == 1
}
