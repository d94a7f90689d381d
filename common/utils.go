package common

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Float32sToBytes encodes a float32 slice as little-endian bytes, the layout expected by
// R32Float texture uploads.
//
// Parameters:
//   - values: the float32 values to encode
//
// Returns:
//   - []byte: a new byte slice of len(values)*4 bytes
func Float32sToBytes(values []float32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// BytesToFloat32s decodes little-endian bytes into dst. The byte slice must hold exactly len(dst)*4 bytes.
//
// Parameters:
//   - dst: the destination slice, already sized to the expected element count
//   - src: the little-endian encoded source bytes
//
// Returns:
//   - error: an error if the byte length does not match the destination
func BytesToFloat32s(dst []float32, src []byte) error {
	if len(src) != len(dst)*4 {
		return fmt.Errorf("byte length %d does not match %d float32 values", len(src), len(dst))
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return nil
}

// AlignUp rounds n up to the next multiple of align. align must be a power of two.
func AlignUp(n, align uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}
