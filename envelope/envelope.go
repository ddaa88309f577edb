// Package envelope implements the EKLV encrypted triplet framing (SMPTE
// ST 429-6): the wrapper that turns one plaintext essence KLV packet into
// an encrypted-essence/plaintext-offset/source-key/IV/check-value/MIC
// envelope, independent of which cipher or MAC actually does the work
// (supplied by package crypt or any other implementation of these
// capability interfaces).
package envelope

import (
	"io"

	"github.com/imfkit/as02ec/bytesio"
	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/klv"
	"github.com/imfkit/as02ec/ul"
)

// Encryptor is implemented by a cipher capable of producing the encrypted
// triplet's ciphertext and IV for one plaintext essence packet.
type Encryptor interface {
	// Encrypt returns the ciphertext (which may be longer than plaintext when
	// the cipher pads to its block size) and the IV used to produce it.
	Encrypt(plaintext []byte) (ciphertext, iv []byte, err error)
}

// Decryptor is implemented by a cipher capable of recovering plaintext
// given the triplet's IV and ciphertext.
type Decryptor interface {
	Decrypt(iv, ciphertext []byte) ([]byte, error)
}

// MACer is implemented by a message-integrity algorithm producing and
// checking the triplet's trailing MIC value.
type MACer interface {
	Sum(data []byte) []byte
	Verify(data, mic []byte) bool
}

// Triplet is one decoded encrypted KLV triplet.
type Triplet struct {
	ContextID       ul.UUID
	PlaintextOffset uint64
	SourceKey       ul.UL
	SourceLength    uint64
	IV              []byte
	CheckValue      []byte
	EncryptedData   []byte
	IntegrityPack   []byte
}

// checkValuePattern is the fixed 16-byte pattern ST 429-6 requires the
// check value to decrypt to, letting a reader cheaply detect a wrong key
// before attempting full MIC verification.
var checkValuePattern = [16]byte{'C', 'H', 'U', 'K', 'C', 'H', 'U', 'K', 'C', 'H', 'U', 'K', 'C', 'H', 'U', 'K'}

// Wrap encrypts one plaintext essence KLV packet (sourceKey, value) into an
// encrypted triplet, computing the check value and, if mac is non-nil, an
// appended integrity pack.
func Wrap(enc Encryptor, mac MACer, contextID ul.UUID, sourceKey ul.UL, value []byte) (Triplet, error) {
	checkInput := append(append([]byte(nil), checkValuePattern[:]...), value...)

	ciphertext, iv, err := enc.Encrypt(checkInput)
	if err != nil {
		return Triplet{}, err
	}

	t := Triplet{
		ContextID:     contextID,
		SourceKey:     sourceKey,
		SourceLength:  uint64(len(value)),
		IV:            iv,
		CheckValue:    ciphertext[:16],
		EncryptedData: ciphertext[16:],
	}

	if mac != nil {
		t.IntegrityPack = mac.Sum(micInput(t))
	}

	return t, nil
}

// micInput builds the byte sequence the MIC covers per ST 429-6 §4.10:
// ContextID||PlaintextOffset||SourceKey||SourceLength||ESV, where
// ESV = IV||CheckValue||Ciphertext. Every field that goes into the
// encrypted triplet's own Bytes() encoding also goes into its MIC, so
// tampering with any of them is detected at Unwrap.
func micInput(t Triplet) []byte {
	var buf []byte

	buf = append(buf, t.ContextID.Bytes()...)
	buf = bytesio.PutU64(buf, t.PlaintextOffset)
	buf = append(buf, t.SourceKey.Bytes()...)
	buf = bytesio.PutU64(buf, t.SourceLength)
	buf = append(buf, t.IV...)
	buf = append(buf, t.CheckValue...)
	buf = append(buf, t.EncryptedData...)

	return buf
}

// Unwrap decrypts an encrypted triplet back to its plaintext essence value,
// verifying the check value (and the MIC, if mac is non-nil and the
// triplet carries one) before returning data.
func Unwrap(dec Decryptor, mac MACer, t Triplet) ([]byte, error) {
	if mac != nil && len(t.IntegrityPack) > 0 {
		if !mac.Verify(micInput(t), t.IntegrityPack) {
			return nil, errs.ErrHMACFail
		}
	}

	full, err := dec.Decrypt(t.IV, append(append([]byte(nil), t.CheckValue...), t.EncryptedData...))
	if err != nil {
		return nil, err
	}

	if len(full) < 16 {
		return nil, errs.ErrCheckFail
	}

	for i := 0; i < 16; i++ {
		if full[i] != checkValuePattern[i] {
			return nil, errs.ErrCheckFail
		}
	}

	// The cipher pads to the block size with zeros; SourceLength recovers
	// the original plaintext length.
	plain := full[16:]
	if uint64(len(plain)) < t.SourceLength {
		return nil, errs.ErrTruncatedPacket
	}

	return plain[:t.SourceLength], nil
}

// Bytes encodes the triplet's KLV Value (the Key is always
// NameEncryptedTriplet; see Write).
func (t Triplet) Bytes() []byte {
	var buf []byte

	buf = append(buf, t.ContextID.Bytes()...)
	buf = bytesio.PutU64(buf, t.PlaintextOffset)
	buf = append(buf, t.SourceKey.Bytes()...)
	buf = bytesio.PutU64(buf, t.SourceLength)

	buf = bytesio.PutU32(buf, uint32(len(t.IV)))
	buf = append(buf, t.IV...)

	buf = bytesio.PutU32(buf, uint32(16+len(t.EncryptedData)))
	buf = append(buf, t.CheckValue...)
	buf = append(buf, t.EncryptedData...)

	if len(t.IntegrityPack) > 0 {
		buf = append(buf, t.IntegrityPack...)
	}

	return buf
}

// Write serializes the triplet as a complete KLV packet.
func (t Triplet) Write(w io.Writer) error {
	return klv.WritePacket(w, ul.Dict.UL(ul.NameEncryptedTriplet), t.Bytes())
}

// Parse decodes an encrypted triplet's KLV Value. micLen is the expected
// length of the trailing integrity pack (0 if the stream carries none).
func Parse(value []byte, micLen int) (Triplet, error) {
	const fixed = 16 + 8 + 16 + 8
	if len(value) < fixed+4 {
		return Triplet{}, errs.ErrTruncatedPacket
	}

	var t Triplet
	off := 0

	t.ContextID = ul.UUIDFromBytes(value[off : off+16])
	off += 16
	t.PlaintextOffset = readU64(value[off : off+8])
	off += 8
	t.SourceKey = ul.ULFromBytes(value[off : off+16])
	off += 16
	t.SourceLength = readU64(value[off : off+8])
	off += 8

	ivLen := int(readU32(value[off : off+4]))
	off += 4
	if off+ivLen > len(value) {
		return Triplet{}, errs.ErrTruncatedPacket
	}
	t.IV = append([]byte(nil), value[off:off+ivLen]...)
	off += ivLen

	if off+4 > len(value) {
		return Triplet{}, errs.ErrTruncatedPacket
	}
	dataLen := int(readU32(value[off : off+4]))
	off += 4
	if off+dataLen > len(value) || dataLen < 16 {
		return Triplet{}, errs.ErrTruncatedPacket
	}
	t.CheckValue = append([]byte(nil), value[off:off+16]...)
	t.EncryptedData = append([]byte(nil), value[off+16:off+dataLen]...)
	off += dataLen

	if micLen > 0 {
		if off+micLen > len(value) {
			return Triplet{}, errs.ErrTruncatedPacket
		}
		t.IntegrityPack = append([]byte(nil), value[off:off+micLen]...)
	}

	return t, nil
}

func readU32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func readU64(b []byte) uint64 {
	var u uint64
	for _, c := range b {
		u = u<<8 | uint64(c)
	}

	return u
}
