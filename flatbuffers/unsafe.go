package flatbuffers

import (
	"unsafe"
)

// byteSliceToString converts a []byte to string without a heap allocation.
// The result aliases b, so b must never be modified afterwards; finished
// buffers are immutable, which is what makes this sound here.
func byteSliceToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
