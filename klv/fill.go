package klv

import (
	"io"

	"github.com/imfkit/as02ec/ul"
)

// WriteFill writes a single KLV-fill packet whose total on-wire size
// (header + value) is exactly totalSize bytes, with a zero-filled value. It
// is used to pad the header metadata region out to HeaderSize.
//
// totalSize must be large enough to hold a KLV header for the chosen BER
// width; callers that need to pad a very small gap should widen the
// preceding field instead of calling this with an unsatisfiable size.
func WriteFill(w io.Writer, totalSize int) error {
	key := ul.Dict.UL(ul.NameKLVFill)

	berWidth := 4
	valueLen := totalSize - 16 - berWidth
	if valueLen < 0 {
		berWidth = 1
		valueLen = totalSize - 16 - berWidth
	}
	if valueLen < 0 {
		valueLen = 0
	}

	if err := WriteHeader(w, key, uint64(valueLen), berWidth); err != nil {
		return err
	}

	if valueLen == 0 {
		return nil
	}

	zeros := make([]byte, valueLen)
	if _, err := w.Write(zeros); err != nil {
		return err
	}

	return nil
}

// FillKey returns the well-known KLV fill item Universal Label, exposed so
// a partition scanner can recognize and skip fill packets without decoding
// their value.
func FillKey() ul.UL {
	return ul.Dict.UL(ul.NameKLVFill)
}
