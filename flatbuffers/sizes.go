package flatbuffers

// UOffsetT is used for offsets that point forward in the buffer, e.g. from a
// table field to the string or vector it references.
type UOffsetT uint32

// SOffsetT is the signed offset stored at the base of every table, pointing
// at the table's vtable.
type SOffsetT int32

// VOffsetT is the unit of a vtable: its size, the object size and every
// field offset.
type VOffsetT uint16

const (
	// SizeUint8 is the byte size of a uint8.
	SizeUint8 = 1
	// SizeUint16 is the byte size of a uint16.
	SizeUint16 = 2
	// SizeUint32 is the byte size of a uint32.
	SizeUint32 = 4
	// SizeUint64 is the byte size of a uint64.
	SizeUint64 = 8

	// SizeInt8 is the byte size of a int8.
	SizeInt8 = 1
	// SizeInt16 is the byte size of a int16.
	SizeInt16 = 2
	// SizeInt32 is the byte size of a int32.
	SizeInt32 = 4
	// SizeInt64 is the byte size of a int64.
	SizeInt64 = 8

	// SizeFloat32 is the byte size of a float32.
	SizeFloat32 = 4
	// SizeFloat64 is the byte size of a float64.
	SizeFloat64 = 8

	// SizeByte is the byte size of a byte.
	SizeByte = 1
	// SizeBool is the byte size of a bool.
	SizeBool = 1

	// SizeSOffsetT is the byte size of an SOffsetT.
	SizeSOffsetT = 4
	// SizeUOffsetT is the byte size of an UOffsetT.
	SizeUOffsetT = 4
	// SizeVOffsetT is the byte size of an VOffsetT.
	SizeVOffsetT = 2
)

// VtableMetadataFields is the count of metadata fields in each vtable:
// the vtable size and the object inline size.
const VtableMetadataFields = 2

// maxBufferSize bounds both the builder and the reader. Every position must
// fit a UOffsetT with room to spare for the signed vtable offset.
const maxBufferSize = 1 << 31

// FieldVOffset maps a schema field id to the position of its entry inside
// the vtable. Field 0 lives right after the two metadata entries.
func FieldVOffset(slot int) VOffsetT {
	return VOffsetT((VtableMetadataFields + slot) * SizeVOffsetT)
}
