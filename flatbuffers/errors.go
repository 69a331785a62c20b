package flatbuffers

import (
	"fmt"
)

// StateError reports misuse of a Builder: nesting violations, slots out of
// order or range, and writes after Finish. The Builder panics with a
// *StateError, since each of these is a bug in the calling code.
type StateError struct {
	Op     string
	Reason string
}

func (e *StateError) Error() string {
	return "flatbuffers: " + e.Op + ": " + e.Reason
}

func stateErrorf(op, format string, args ...interface{}) *StateError {
	return &StateError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// MalformedBufferError is returned by Table when following an offset, a
// vtable or a length would leave the buffer, or when the buffer breaks the
// relative-offset rules.
type MalformedBufferError struct {
	Offset uint64 // where the bad read starts
	Size   uint64 // how many bytes it needed
	Len    int    // length of the buffer
	Reason string
}

func (e *MalformedBufferError) Error() string {
	return fmt.Sprintf("flatbuffers: malformed buffer: %s (offset %d, size %d, buffer length %d)",
		e.Reason, e.Offset, e.Size, e.Len)
}

// EncodingError is returned by Builder.CreateString when the input is not
// valid UTF-8.
type EncodingError struct {
	Index int // byte index of the first invalid sequence
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("flatbuffers: string is not valid UTF-8 at byte %d", e.Index)
}

// IndexError is returned when a vector element is requested outside
// [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("flatbuffers: index %d out of range for vector of length %d", e.Index, e.Len)
}
