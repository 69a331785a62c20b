package flatbuffers

import (
	"golang.org/x/xerrors"
)

// Table wraps a byte slice and provides read access to its data.
//
// The variable `Pos` indicates the root of the FlatBuffers object therein.
// Every read is checked against len(Bytes): a corrupt or truncated buffer
// yields a *MalformedBufferError, never a panic and never a made-up value.
//
// A Table never writes to Bytes, so any number of goroutines may read the
// same finished buffer through their own Tables.
type Table struct {
	Bytes []byte
	Pos   UOffsetT // Always < 1<<31.
}

//	vtable:
//	+-------------------+-------------------+-------------------+-------------------+-----+
//	| vtable size (2B)  | object size (2B)  | field0 offset (2B)| field1 offset (2B)| ... |
//	+-------------------+-------------------+-------------------+-------------------+-----+
//
//	object:
//	+-------------------+-------------------+-------------------+-----+
//	| vtable soffset(4B)| data for field0   | data for field1   | ... |
//	+-------------------+-------------------+-------------------+-----+
//
// vtable = Pos - soffset ；字段偏移为 0 表示该字段未写入，读取时返回默认值。

// RootTable resolves the root offset stored at buf[offset:] and returns a
// Table positioned on the root object.
func RootTable(buf []byte, offset UOffsetT) (Table, error) {
	if len(buf) >= maxBufferSize {
		return Table{}, &MalformedBufferError{Len: len(buf), Reason: "buffer larger than 2 gigabytes"}
	}
	t := Table{Bytes: buf}
	pos, err := t.Indirect(offset)
	if err != nil {
		return Table{}, xerrors.Errorf("flatbuffers: root offset: %w", err)
	}
	t.Pos = pos
	if _, err := t.vtable(); err != nil {
		return Table{}, xerrors.Errorf("flatbuffers: root object: %w", err)
	}
	return t, nil
}

func (t *Table) malformed(off, size uint64, reason string) error {
	return &MalformedBufferError{Offset: off, Size: size, Len: len(t.Bytes), Reason: reason}
}

// check fails unless [off, off+size) lies inside the buffer.
func (t *Table) check(off UOffsetT, size uint64, what string) error {
	if uint64(off)+size > uint64(len(t.Bytes)) {
		return t.malformed(uint64(off), size, what+" out of bounds")
	}
	return nil
}

// vtable validates the object header at Pos and returns the absolute
// position of its vtable.
func (t *Table) vtable() (UOffsetT, error) {
	if err := t.check(t.Pos, SizeSOffsetT, "object header"); err != nil {
		return 0, err
	}
	vt := int64(t.Pos) - int64(GetSOffsetT(t.Bytes[t.Pos:]))
	if vt < 0 || vt+VtableMetadataFields*SizeVOffsetT > int64(len(t.Bytes)) {
		return 0, t.malformed(uint64(t.Pos), SizeSOffsetT, "vtable position out of bounds")
	}
	vtable := UOffsetT(vt)

	vsize := GetVOffsetT(t.Bytes[vtable:])
	if vsize < VtableMetadataFields*SizeVOffsetT || vsize%SizeVOffsetT != 0 {
		return 0, t.malformed(uint64(vtable), uint64(vsize), "invalid vtable size")
	}
	if err := t.check(vtable, uint64(vsize), "vtable"); err != nil {
		return 0, err
	}

	osize := GetVOffsetT(t.Bytes[vtable+SizeVOffsetT:])
	if osize < SizeSOffsetT {
		return 0, t.malformed(uint64(t.Pos), uint64(osize), "invalid object size")
	}
	if err := t.check(t.Pos, uint64(osize), "object"); err != nil {
		return 0, err
	}
	return vtable, nil
}

// Offset provides access into the Table's vtable.
//
// Fields which are deprecated, or were added after the buffer was written,
// are reported as absent (0) by checking against the vtable's length. Only
// the first byte of the field is checked against the object; FieldOffset
// checks the whole field.
func (t *Table) Offset(vtableOffset VOffsetT) (VOffsetT, error) {
	return t.FieldOffset(vtableOffset, SizeByte)
}

// FieldOffset is Offset for a field of size bytes: the whole field must lie
// inside the object's inline data.
func (t *Table) FieldOffset(vtableOffset VOffsetT, size int) (VOffsetT, error) {
	vtable, err := t.vtable()
	if err != nil {
		return 0, err
	}
	if vtableOffset >= GetVOffsetT(t.Bytes[vtable:]) {
		return 0, nil
	}
	off := GetVOffsetT(t.Bytes[vtable+UOffsetT(vtableOffset):])
	if off == 0 {
		return 0, nil
	}
	osize := GetVOffsetT(t.Bytes[vtable+SizeVOffsetT:])
	if off < SizeSOffsetT || uint64(off)+uint64(size) > uint64(osize) {
		return 0, t.malformed(uint64(t.Pos), uint64(off), "field offset outside object")
	}
	return off, nil
}

// Indirect retrieves the relative offset stored at `offset` and returns the
// absolute position it points to.
func (t *Table) Indirect(off UOffsetT) (UOffsetT, error) {
	if err := t.check(off, SizeUOffsetT, "offset"); err != nil {
		return 0, err
	}
	rel := GetUOffsetT(t.Bytes[off:])
	if rel == 0 {
		return 0, t.malformed(uint64(off), SizeUOffsetT, "zero relative offset")
	}
	target := uint64(off) + uint64(rel)
	if target >= uint64(len(t.Bytes)) {
		return 0, t.malformed(uint64(off), SizeUOffsetT, "offset target out of bounds")
	}
	return UOffsetT(target), nil
}

// vectorHeader reads the element count at start and checks that count
// elements of elemSize bytes follow it inside the buffer.
func (t *Table) vectorHeader(start UOffsetT, elemSize int) (int, error) {
	if err := t.check(start, SizeUOffsetT, "vector length"); err != nil {
		return 0, err
	}
	n := GetUOffsetT(t.Bytes[start:])
	if err := t.check(start+SizeUOffsetT, uint64(n)*uint64(elemSize), "vector data"); err != nil {
		return 0, err
	}
	return int(n), nil
}

// String gets a string from data stored inside the flatbuffer. The string
// shares memory with the buffer.
func (t *Table) String(off UOffsetT) (string, error) {
	b, err := t.ByteVector(off)
	if err != nil {
		return "", err
	}
	return byteSliceToString(b), nil
}

// ByteVector gets a byte slice from data stored inside the flatbuffer. The
// slice aliases the buffer and its capacity is clipped to its length.
func (t *Table) ByteVector(off UOffsetT) ([]byte, error) {
	start, err := t.Indirect(off)
	if err != nil {
		return nil, err
	}
	n, err := t.vectorHeader(start, SizeByte)
	if err != nil {
		return nil, err
	}
	data := start + SizeUOffsetT
	end := data + UOffsetT(n)
	return t.Bytes[data:end:end], nil
}

// VectorLen retrieves the length of the vector whose offset is stored at
// "off" in this object. The whole vector, elemSize bytes per element, must
// lie inside the buffer.
func (t *Table) VectorLen(off UOffsetT, elemSize int) (int, error) {
	start, err := t.Indirect(t.Pos + off)
	if err != nil {
		return 0, err
	}
	return t.vectorHeader(start, elemSize)
}

// Vector retrieves the start of data of the vector whose offset is stored
// at "off" in this object.
func (t *Table) Vector(off UOffsetT) (UOffsetT, error) {
	start, err := t.Indirect(t.Pos + off)
	if err != nil {
		return 0, err
	}
	if err := t.check(start, SizeUOffsetT, "vector length"); err != nil {
		return 0, err
	}
	// data starts after metadata containing the vector length
	return start + SizeUOffsetT, nil
}

// VectorElem returns the position of element j of the vector whose offset
// is stored at "off" in this object. An index outside the vector yields an
// *IndexError.
func (t *Table) VectorElem(off UOffsetT, j, elemSize int) (UOffsetT, error) {
	start, err := t.Indirect(t.Pos + off)
	if err != nil {
		return 0, err
	}
	n, err := t.vectorHeader(start, elemSize)
	if err != nil {
		return 0, err
	}
	if j < 0 || j >= n {
		return 0, &IndexError{Index: j, Len: n}
	}
	return start + SizeUOffsetT + UOffsetT(j*elemSize), nil
}

// Child follows the offset stored at the absolute position off, typically a
// table vector slot, and returns a Table positioned on the referenced
// object.
func (t *Table) Child(off UOffsetT) (Table, error) {
	pos, err := t.Indirect(off)
	if err != nil {
		return Table{}, err
	}
	child := Table{Bytes: t.Bytes, Pos: pos}
	if _, err := child.vtable(); err != nil {
		return Table{}, err
	}
	return child, nil
}

func get[T any](t *Table, off UOffsetT, size int, read func([]byte) T) (T, error) {
	if err := t.check(off, uint64(size), "scalar"); err != nil {
		var zero T
		return zero, err
	}
	return read(t.Bytes[off:]), nil
}

func getSlot[T any](t *Table, slot VOffsetT, d T, size int, read func([]byte) T) (T, error) {
	off, err := t.FieldOffset(slot, size)
	if err != nil {
		var zero T
		return zero, err
	}
	if off == 0 {
		return d, nil
	}
	return get(t, t.Pos+UOffsetT(off), size, read)
}

// GetBool retrieves a bool at the given offset.
func (t *Table) GetBool(off UOffsetT) (bool, error) {
	return get(t, off, SizeBool, GetBool)
}

// GetByte retrieves a byte at the given offset.
func (t *Table) GetByte(off UOffsetT) (byte, error) {
	return get(t, off, SizeByte, GetByte)
}

// GetUint8 retrieves a uint8 at the given offset.
func (t *Table) GetUint8(off UOffsetT) (uint8, error) {
	return get(t, off, SizeUint8, GetUint8)
}

// GetUint16 retrieves a uint16 at the given offset.
func (t *Table) GetUint16(off UOffsetT) (uint16, error) {
	return get(t, off, SizeUint16, GetUint16)
}

// GetUint32 retrieves a uint32 at the given offset.
func (t *Table) GetUint32(off UOffsetT) (uint32, error) {
	return get(t, off, SizeUint32, GetUint32)
}

// GetUint64 retrieves a uint64 at the given offset.
func (t *Table) GetUint64(off UOffsetT) (uint64, error) {
	return get(t, off, SizeUint64, GetUint64)
}

// GetInt8 retrieves a int8 at the given offset.
func (t *Table) GetInt8(off UOffsetT) (int8, error) {
	return get(t, off, SizeInt8, GetInt8)
}

// GetInt16 retrieves a int16 at the given offset.
func (t *Table) GetInt16(off UOffsetT) (int16, error) {
	return get(t, off, SizeInt16, GetInt16)
}

// GetInt32 retrieves a int32 at the given offset.
func (t *Table) GetInt32(off UOffsetT) (int32, error) {
	return get(t, off, SizeInt32, GetInt32)
}

// GetInt64 retrieves a int64 at the given offset.
func (t *Table) GetInt64(off UOffsetT) (int64, error) {
	return get(t, off, SizeInt64, GetInt64)
}

// GetFloat32 retrieves a float32 at the given offset.
func (t *Table) GetFloat32(off UOffsetT) (float32, error) {
	return get(t, off, SizeFloat32, GetFloat32)
}

// GetFloat64 retrieves a float64 at the given offset.
func (t *Table) GetFloat64(off UOffsetT) (float64, error) {
	return get(t, off, SizeFloat64, GetFloat64)
}

// GetUOffsetT retrieves a UOffsetT at the given offset.
func (t *Table) GetUOffsetT(off UOffsetT) (UOffsetT, error) {
	return get(t, off, SizeUOffsetT, GetUOffsetT)
}

// GetVOffsetT retrieves a VOffsetT at the given offset.
func (t *Table) GetVOffsetT(off UOffsetT) (VOffsetT, error) {
	return get(t, off, SizeVOffsetT, GetVOffsetT)
}

// GetSOffsetT retrieves a SOffsetT at the given offset.
func (t *Table) GetSOffsetT(off UOffsetT) (SOffsetT, error) {
	return get(t, off, SizeSOffsetT, GetSOffsetT)
}

// GetBoolSlot retrieves the bool that the given vtable location
// points to. If the vtable value is zero, the default value `d`
// will be returned.
func (t *Table) GetBoolSlot(slot VOffsetT, d bool) (bool, error) {
	return getSlot(t, slot, d, SizeBool, GetBool)
}

// GetByteSlot retrieves the byte that the given vtable location
// points to. If the vtable value is zero, the default value `d`
// will be returned.
func (t *Table) GetByteSlot(slot VOffsetT, d byte) (byte, error) {
	return getSlot(t, slot, d, SizeByte, GetByte)
}

// GetInt8Slot retrieves the int8 that the given vtable location
// points to. If the vtable value is zero, the default value `d`
// will be returned.
func (t *Table) GetInt8Slot(slot VOffsetT, d int8) (int8, error) {
	return getSlot(t, slot, d, SizeInt8, GetInt8)
}

// GetUint8Slot retrieves the uint8 that the given vtable location
// points to. If the vtable value is zero, the default value `d`
// will be returned.
func (t *Table) GetUint8Slot(slot VOffsetT, d uint8) (uint8, error) {
	return getSlot(t, slot, d, SizeUint8, GetUint8)
}

// GetInt16Slot retrieves the int16 that the given vtable location
// points to. If the vtable value is zero, the default value `d`
// will be returned.
func (t *Table) GetInt16Slot(slot VOffsetT, d int16) (int16, error) {
	return getSlot(t, slot, d, SizeInt16, GetInt16)
}

// GetUint16Slot retrieves the uint16 that the given vtable location
// points to. If the vtable value is zero, the default value `d`
// will be returned.
func (t *Table) GetUint16Slot(slot VOffsetT, d uint16) (uint16, error) {
	return getSlot(t, slot, d, SizeUint16, GetUint16)
}

// GetInt32Slot retrieves the int32 that the given vtable location
// points to. If the vtable value is zero, the default value `d`
// will be returned.
func (t *Table) GetInt32Slot(slot VOffsetT, d int32) (int32, error) {
	return getSlot(t, slot, d, SizeInt32, GetInt32)
}

// GetUint32Slot retrieves the uint32 that the given vtable location
// points to. If the vtable value is zero, the default value `d`
// will be returned.
func (t *Table) GetUint32Slot(slot VOffsetT, d uint32) (uint32, error) {
	return getSlot(t, slot, d, SizeUint32, GetUint32)
}

// GetInt64Slot retrieves the int64 that the given vtable location
// points to. If the vtable value is zero, the default value `d`
// will be returned.
func (t *Table) GetInt64Slot(slot VOffsetT, d int64) (int64, error) {
	return getSlot(t, slot, d, SizeInt64, GetInt64)
}

// GetUint64Slot retrieves the uint64 that the given vtable location
// points to. If the vtable value is zero, the default value `d`
// will be returned.
func (t *Table) GetUint64Slot(slot VOffsetT, d uint64) (uint64, error) {
	return getSlot(t, slot, d, SizeUint64, GetUint64)
}

// GetFloat32Slot retrieves the float32 that the given vtable location
// points to. If the vtable value is zero, the default value `d`
// will be returned.
func (t *Table) GetFloat32Slot(slot VOffsetT, d float32) (float32, error) {
	return getSlot(t, slot, d, SizeFloat32, GetFloat32)
}

// GetFloat64Slot retrieves the float64 that the given vtable location
// points to. If the vtable value is zero, the default value `d`
// will be returned.
func (t *Table) GetFloat64Slot(slot VOffsetT, d float64) (float64, error) {
	return getSlot(t, slot, d, SizeFloat64, GetFloat64)
}
