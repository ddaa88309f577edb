// Package errs defines the sentinel errors returned across the codec. Every
// exported error below corresponds to one of the error kinds enumerated in
// the library's error-handling design: callers can compare with errors.Is
// against a sentinel while still getting a detailed, wrapped message from
// the call site (fmt.Errorf("%w: ...", errs.ErrXxx, ...)).
package errs

import "errors"

// Caller contract violations.
var (
	ErrParam   = errors.New("as02ec: invalid parameter")
	ErrNullStr = errors.New("as02ec: empty string where a value was required")
	ErrPtr     = errors.New("as02ec: nil pointer argument")
)

// Buffer capacity problems.
var (
	ErrSmallBuf  = errors.New("as02ec: supplied buffer capacity is smaller than required size")
	ErrAlloc     = errors.New("as02ec: allocation failed")
	ErrCapExtMem = errors.New("as02ec: externally-owned buffer has insufficient capacity")
)

// Lifecycle / state errors.
var (
	ErrInit  = errors.New("as02ec: operation requires a prior Open call")
	ErrState = errors.New("as02ec: operation is not legal in the current reader/writer state")
)

// I/O errors.
var (
	ErrNotFound  = errors.New("as02ec: file not found")
	ErrNoPerm    = errors.New("as02ec: permission denied")
	ErrFileOpen  = errors.New("as02ec: could not open file")
	ErrBadSeek   = errors.New("as02ec: seek failed or landed out of bounds")
	ErrReadFail  = errors.New("as02ec: read failed")
	ErrWriteFail = errors.New("as02ec: write failed")
	ErrEndOfFile = errors.New("as02ec: unexpected end of file")
)

// Structural format violations.
var (
	ErrFormat           = errors.New("as02ec: structural violation of the MXF container format")
	ErrAS02Format       = errors.New("as02ec: required AS-02 header metadata object is missing")
	ErrRawFormat        = errors.New("as02ec: malformed raw essence data")
	ErrBadBER           = errors.New("as02ec: malformed BER length encoding")
	ErrBadRIP           = errors.New("as02ec: malformed or missing Random Index Pack")
	ErrBadPartition     = errors.New("as02ec: malformed partition pack")
	ErrUnsupportedLabel = errors.New("as02ec: unsupported or unrecognized operational pattern label")
	ErrTruncatedPacket  = errors.New("as02ec: KLV or TLV packet truncated before its declared length")
	ErrUnknownLocalTag  = errors.New("as02ec: local tag not present in the partition's Primer pack")
	ErrUnknownUL        = errors.New("as02ec: Universal Label not present in the dictionary")
)

// Range errors.
var (
	ErrRange = errors.New("as02ec: frame number is beyond the container duration")
)

// Cryptographic configuration and runtime errors.
var (
	ErrCryptCtx  = errors.New("as02ec: encryption requested but no cryptographic context supplied")
	ErrLargePTO  = errors.New("as02ec: PlaintextOffset exceeds the frame's SourceLength")
	ErrHMACCtx   = errors.New("as02ec: HMAC requested but no HMAC context supplied")
	ErrCheckFail = errors.New("as02ec: decrypted check value does not match the expected pattern")
	ErrHMACFail  = errors.New("as02ec: HMAC verification failed")
	ErrCryptInit = errors.New("as02ec: cryptographic context failed to initialize")
)

// Feature-support errors.
var (
	ErrNotImpl = errors.New("as02ec: option or code path recognized but not implemented")
)
