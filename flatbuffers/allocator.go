package flatbuffers

// Allocator provides the backing memory a Builder grows into.
//
// Builder 的扩容都经过 Allocator ，便于复用内存或统计分配。
type Allocator interface {
	// Allocate returns a zeroed slice of exactly size bytes.
	Allocate(size int) []byte
	// Reallocate returns a slice of size bytes whose prefix holds the
	// contents of b.
	Reallocate(size int, b []byte) []byte
}

// GoAllocator allocates from the Go heap.
type GoAllocator struct{}

// NewGoAllocator returns the heap allocator.
func NewGoAllocator() *GoAllocator { return &GoAllocator{} }

// Allocate returns a new slice of size bytes.
func (a *GoAllocator) Allocate(size int) []byte {
	return make([]byte, size)
}

// Reallocate grows b to size bytes, copying only when the capacity of b is
// not enough.
func (a *GoAllocator) Reallocate(size int, b []byte) []byte {
	if size <= cap(b) {
		return b[:size]
	}
	newBuf := a.Allocate(size)
	copy(newBuf, b)
	return newBuf
}

// DefaultAllocator is used by NewBuilder.
var DefaultAllocator Allocator = NewGoAllocator()

var (
	_ Allocator = (*GoAllocator)(nil)
)
