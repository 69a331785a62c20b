package flatbuffers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

// sample slots: 0 uint8 (default 2), 1 string, 2 offset vector of tables,
// 3 uint16 (default 4096)
func buildSample(t *testing.T) []byte {
	t.Helper()
	b := NewBuilder(0)

	var children []UOffsetT
	for _, id := range []uint32{7, 8} {
		b.StartObject(1)
		b.PrependUint32Slot(0, id, 0)
		children = append(children, b.EndObject())
	}
	vec := b.CreateOffsetVector(children)
	name, err := b.CreateString("roads")
	require.NoError(t, err)

	b.StartObject(4)
	b.PrependUint8Slot(0, 3, 2)
	b.PrependOffsetSlot(1, name)
	b.PrependOffsetSlot(2, vec)
	b.PrependUint16Slot(3, 2048, 4096)
	b.Finish(b.EndObject())
	return b.FinishedBytes()
}

type sampleResult struct {
	version uint8
	name    string
	n       int
	ids     []uint32
	extent  uint16
}

// readSample reads every field of a sample buffer and stops at the first
// error.
func readSample(buf []byte) (sampleResult, error) {
	var r sampleResult
	root, err := RootTable(buf, 0)
	if err != nil {
		return r, err
	}
	if r.version, err = root.GetUint8Slot(FieldVOffset(0), 2); err != nil {
		return r, err
	}
	o, err := root.Offset(FieldVOffset(1))
	if err != nil {
		return r, err
	}
	if r.name, err = root.String(root.Pos + UOffsetT(o)); err != nil {
		return r, err
	}
	if o, err = root.Offset(FieldVOffset(2)); err != nil {
		return r, err
	}
	if r.n, err = root.VectorLen(UOffsetT(o), SizeUOffsetT); err != nil {
		return r, err
	}
	for j := 0; j < r.n; j++ {
		x, err := root.VectorElem(UOffsetT(o), j, SizeUOffsetT)
		if err != nil {
			return r, err
		}
		child, err := root.Child(x)
		if err != nil {
			return r, err
		}
		id, err := child.GetUint32Slot(FieldVOffset(0), 0)
		if err != nil {
			return r, err
		}
		r.ids = append(r.ids, id)
	}
	r.extent, err = root.GetUint16Slot(FieldVOffset(3), 4096)
	return r, err
}

func TestTableReadsFields(t *testing.T) {
	got, err := readSample(buildSample(t))
	require.NoError(t, err)
	assert.Equal(t, sampleResult{
		version: 3,
		name:    "roads",
		n:       2,
		ids:     []uint32{7, 8},
		extent:  2048,
	}, got)
}

func TestTableDefaultsAndShortVtable(t *testing.T) {
	b := NewBuilder(0)
	b.StartObject(1)
	b.PrependUint8Slot(0, 9, 0)
	b.Finish(b.EndObject())

	root, err := RootTable(b.FinishedBytes(), 0)
	require.NoError(t, err)

	// slots past the end of the vtable were never written: defaults apply
	o, err := root.Offset(FieldVOffset(5))
	require.NoError(t, err)
	assert.Zero(t, o)

	ext, err := root.GetUint16Slot(FieldVOffset(3), 4096)
	require.NoError(t, err)
	assert.Equal(t, uint16(4096), ext)

	f, err := root.GetFloat64Slot(FieldVOffset(2), 1.5)
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)
}

func TestTableByteVectorIsClipped(t *testing.T) {
	buf := buildSample(t)
	root, err := RootTable(buf, 0)
	require.NoError(t, err)
	o, err := root.Offset(FieldVOffset(1))
	require.NoError(t, err)
	b, err := root.ByteVector(root.Pos + UOffsetT(o))
	require.NoError(t, err)
	assert.Equal(t, []byte("roads"), b)
	assert.Equal(t, len(b), cap(b))
}

func TestTableTruncated(t *testing.T) {
	buf := buildSample(t)
	want, err := readSample(buf)
	require.NoError(t, err)

	for cut := 0; cut < len(buf); cut++ {
		got, err := readSample(buf[:cut:cut])
		require.Errorf(t, err, "cut at %d of %d", cut, len(buf))

		var malformed *MalformedBufferError
		require.Truef(t, xerrors.As(err, &malformed), "cut at %d: %v", cut, err)

		// whatever was read before the failure matches the full buffer
		if got.name != "" {
			assert.Equal(t, want.name, got.name)
		}
		for i, id := range got.ids {
			assert.Equal(t, want.ids[i], id)
		}
	}
}

func TestTableCorrupt(t *testing.T) {
	// offsets in the sample buffer, found through a clean read
	clean := buildSample(t)
	root, err := RootTable(clean, 0)
	require.NoError(t, err)
	vt, err := root.vtable()
	require.NoError(t, err)
	nameField, err := root.Offset(FieldVOffset(1))
	require.NoError(t, err)
	vecField, err := root.Offset(FieldVOffset(2))
	require.NoError(t, err)
	vecStart, err := root.Indirect(root.Pos + UOffsetT(vecField))
	require.NoError(t, err)

	tests := []struct {
		name    string
		corrupt func(buf []byte)
		read    func(tab *Table) error
	}{
		{
			name:    "root offset past end",
			corrupt: func(buf []byte) { WriteUOffsetT(buf, UOffsetT(len(buf)+16)) },
		},
		{
			name:    "zero root offset",
			corrupt: func(buf []byte) { WriteUOffsetT(buf, 0) },
		},
		{
			name:    "vtable before buffer start",
			corrupt: func(buf []byte) { WriteSOffsetT(buf[root.Pos:], SOffsetT(root.Pos)+64) },
		},
		{
			name:    "odd vtable size",
			corrupt: func(buf []byte) { WriteVOffsetT(buf[vt:], 7) },
		},
		{
			name:    "vtable size past end",
			corrupt: func(buf []byte) { WriteVOffsetT(buf[vt:], 0xFFFE) },
		},
		{
			name:    "object size past end",
			corrupt: func(buf []byte) { WriteVOffsetT(buf[vt+SizeVOffsetT:], 0xFFFF) },
		},
		{
			name:    "field offset outside object",
			corrupt: func(buf []byte) { WriteVOffsetT(buf[vt+UOffsetT(FieldVOffset(0)):], 0x7FFF) },
			read: func(tab *Table) error {
				_, err := tab.GetUint8Slot(FieldVOffset(0), 2)
				return err
			},
		},
		{
			name:    "string offset past end",
			corrupt: func(buf []byte) { WriteUOffsetT(buf[root.Pos+UOffsetT(nameField):], 0x00FFFFFF) },
			read: func(tab *Table) error {
				_, err := tab.String(tab.Pos + UOffsetT(nameField))
				return err
			},
		},
		{
			name:    "zero string offset",
			corrupt: func(buf []byte) { WriteUOffsetT(buf[root.Pos+UOffsetT(nameField):], 0) },
			read: func(tab *Table) error {
				_, err := tab.ByteVector(tab.Pos + UOffsetT(nameField))
				return err
			},
		},
		{
			name:    "vector length past end",
			corrupt: func(buf []byte) { WriteUOffsetT(buf[vecStart:], 1<<20) },
			read: func(tab *Table) error {
				_, err := tab.VectorLen(UOffsetT(vecField), SizeUOffsetT)
				return err
			},
		},
		{
			name:    "vector element past end",
			corrupt: func(buf []byte) { WriteUOffsetT(buf[vecStart+SizeUOffsetT:], 1<<24) },
			read: func(tab *Table) error {
				x, err := tab.VectorElem(UOffsetT(vecField), 0, SizeUOffsetT)
				if err != nil {
					return err
				}
				_, err = tab.Child(x)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := append([]byte(nil), clean...)
			tt.corrupt(buf)

			tab, err := RootTable(buf, 0)
			if tt.read != nil {
				require.NoError(t, err)
				err = tt.read(&tab)
			}
			require.Error(t, err)
			var malformed *MalformedBufferError
			assert.Truef(t, xerrors.As(err, &malformed), "got %T: %v", err, err)
		})
	}
}

func TestTableFieldPastObjectEnd(t *testing.T) {
	buf := buildSample(t)
	root, err := RootTable(buf, 0)
	require.NoError(t, err)
	vt, err := root.vtable()
	require.NoError(t, err)
	osize := GetVOffsetT(buf[vt+SizeVOffsetT:])

	// the uint16 extent and the string offset both start on the object's
	// last byte
	WriteVOffsetT(buf[vt+UOffsetT(FieldVOffset(3)):], osize-1)
	WriteVOffsetT(buf[vt+UOffsetT(FieldVOffset(1)):], osize-1)

	o, err := root.Offset(FieldVOffset(3))
	require.NoError(t, err)
	assert.Equal(t, osize-1, o)

	var malformed *MalformedBufferError
	_, err = root.GetUint16Slot(FieldVOffset(3), 4096)
	assert.Truef(t, xerrors.As(err, &malformed), "got %v", err)
	_, err = root.FieldOffset(FieldVOffset(1), SizeUOffsetT)
	assert.Truef(t, xerrors.As(err, &malformed), "got %v", err)

	// a field ending exactly at the object's end is fine
	WriteVOffsetT(buf[vt+UOffsetT(FieldVOffset(3)):], osize-SizeUint16)
	_, err = root.GetUint16Slot(FieldVOffset(3), 4096)
	assert.NoError(t, err)
}

func TestTableVectorElemIndex(t *testing.T) {
	root, err := RootTable(buildSample(t), 0)
	require.NoError(t, err)
	o, err := root.Offset(FieldVOffset(2))
	require.NoError(t, err)

	for _, j := range []int{-1, 2, 100} {
		_, err := root.VectorElem(UOffsetT(o), j, SizeUOffsetT)
		var idx *IndexError
		require.True(t, xerrors.As(err, &idx), "index %d", j)
		assert.Equal(t, IndexError{Index: j, Len: 2}, *idx)
	}
}

func TestTableScalarBounds(t *testing.T) {
	tab := Table{Bytes: []byte{1, 2, 3}}
	_, err := tab.GetUint32(0)
	var malformed *MalformedBufferError
	require.True(t, xerrors.As(err, &malformed))
	assert.Equal(t, uint64(4), malformed.Size)

	v, err := tab.GetUint16(1)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0302), v)
}
