package vectortile

import (
	"github.com/DotIN13/mapzoom/flatbuffers"
)

// Field ids of each table, in declaration order. The ids are part of the
// format: new fields go at the end and existing ids never change.

// Tile fields.
const (
	tileLayers = iota
	tileNumFields
)

// Layer fields.
const (
	layerVersion = iota
	layerName
	layerFeatures
	layerExtent
	layerNumFields
)

// Feature fields.
const (
	featureID = iota
	featureCoverage
	featureNameZh
	featureNameEn
	featureNameDetail
	featurePmapKind
	featurePmapMinZoom
	featureType
	featureGeometry
	featureNumFields
)

// Declared defaults. A field equal to its default is not written and reads
// back as the default.
const (
	DefaultLayerVersion uint8  = 2
	DefaultLayerExtent  uint16 = 4096
	DefaultGeomType            = GeomTypeUnknown
)

func slot(id int) flatbuffers.VOffsetT {
	return flatbuffers.FieldVOffset(id)
}

// ref returns the position of the reference field id inside the object, 0
// when it is absent.
func ref(t *flatbuffers.Table, id int) (flatbuffers.VOffsetT, error) {
	return t.FieldOffset(slot(id), flatbuffers.SizeUOffsetT)
}

// str reads a string field. An absent field gives a nil slice, a present
// empty string a non-nil empty one.
func str(t *flatbuffers.Table, id int) ([]byte, error) {
	o, err := ref(t, id)
	if err != nil || o == 0 {
		return nil, err
	}
	return t.ByteVector(t.Pos + flatbuffers.UOffsetT(o))
}

func isNone(t *flatbuffers.Table, id int) (bool, error) {
	o, err := ref(t, id)
	if err != nil {
		return false, err
	}
	return o == 0, nil
}

func vectorLen(t *flatbuffers.Table, id, elemSize int) (int, error) {
	o, err := ref(t, id)
	if err != nil || o == 0 {
		return 0, err
	}
	return t.VectorLen(flatbuffers.UOffsetT(o), elemSize)
}

// tableElem positions obj on element j of a vector of tables. It reports
// false when the vector is absent.
func tableElem(t *flatbuffers.Table, id, j int, obj *flatbuffers.Table) (bool, error) {
	o, err := ref(t, id)
	if err != nil || o == 0 {
		return false, err
	}
	x, err := t.VectorElem(flatbuffers.UOffsetT(o), j, flatbuffers.SizeUOffsetT)
	if err != nil {
		return false, err
	}
	child, err := t.Child(x)
	if err != nil {
		return false, err
	}
	*obj = child
	return true, nil
}
