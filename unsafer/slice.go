package unsafer

import (
	"unsafe"
)

// SliceToBytes interprets an arbitrary input slice as a byte slice.
//
// Note that the returned slice points to the same underlying data in memory. It
// does not make a copy.
func SliceToBytes[T any](input []T) []byte {
	if len(input) == 0 {
		return nil
	}

	size := int(unsafe.Sizeof(input[0])) * len(input)
	return unsafe.Slice((*byte)(unsafe.Pointer(&input[0])), size)
}

// RepackUint32 copies data into a new slice of 32 bit words in host byte
// order. Trailing bytes which do not make a whole word are dropped.
func RepackUint32(data []byte) []uint32 {
	words := make([]uint32, len(data)/4)
	copy(SliceToBytes(words), data)
	return words
}
