// Package bytesio provides the big-endian integer primitives and the SMPTE
// fixed-length BER codec that every higher layer of the MXF engine is built
// on top of: KLV length fields, partition pack integers, and index table
// entries are all read and written through this package.
//
// Unlike package endian in a general-purpose columnar codec, MXF's wire
// format is always big-endian (network byte order) per ST 336, so this
// package does not expose a pluggable byte-order engine — it wraps
// encoding/binary.BigEndian directly and adds the BER length form ST 377-1
// requires on top.
package bytesio

import (
	"encoding/binary"
	"io"

	"github.com/imfkit/as02ec/errs"
)

// ReadU16 reads a big-endian uint16 from r.
func ReadU16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, errs.ErrReadFail
	}

	return binary.BigEndian.Uint16(b[:]), nil
}

// ReadU32 reads a big-endian uint32 from r.
func ReadU32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, errs.ErrReadFail
	}

	return binary.BigEndian.Uint32(b[:]), nil
}

// ReadU64 reads a big-endian uint64 from r.
func ReadU64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, errs.ErrReadFail
	}

	return binary.BigEndian.Uint64(b[:]), nil
}

// ReadI16, ReadI32, ReadI64 reinterpret the unsigned reads as signed values;
// MXF has no native signed wire representation distinct from two's complement
// unsigned, so these are thin casts.
func ReadI16(r io.Reader) (int16, error) {
	v, err := ReadU16(r)
	return int16(v), err
}

func ReadI32(r io.Reader) (int32, error) {
	v, err := ReadU32(r)
	return int32(v), err
}

func ReadI64(r io.Reader) (int64, error) {
	v, err := ReadU64(r)
	return int64(v), err
}

// PutU16, PutU32, PutU64 append the big-endian encoding of v to buf and
// return the extended slice, mirroring encoding/binary's AppendByteOrder
// shape so callers can chain calls while building a KLV value in place.
func PutU16(buf []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(buf, v)
}

func PutU32(buf []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(buf, v)
}

func PutU64(buf []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(buf, v)
}

func PutI16(buf []byte, v int16) []byte {
	return PutU16(buf, uint16(v))
}

func PutI32(buf []byte, v int32) []byte {
	return PutU32(buf, uint32(v))
}

func PutI64(buf []byte, v int64) []byte {
	return PutU64(buf, uint64(v))
}

// WriteU16, WriteU32, WriteU64 write the big-endian encoding of v to w.
func WriteU16(w io.Writer, v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])

	return wrapWriteErr(err)
}

func WriteU32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])

	return wrapWriteErr(err)
}

func WriteU64(w io.Writer, v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	_, err := w.Write(b[:])

	return wrapWriteErr(err)
}

func wrapWriteErr(err error) error {
	if err == nil {
		return nil
	}

	return errs.ErrWriteFail
}
