package vectortile

import (
	"golang.org/x/xerrors"

	"github.com/DotIN13/mapzoom/flatbuffers"
)

// FeatureT is the object form of a Feature. Nil strings and a nil Geometry
// are absent fields.
type FeatureT struct {
	Id          uint32
	Coverage    uint16
	NameZh      *string
	NameEn      *string
	NameDetail  *string
	PmapKind    *string
	PmapMinZoom uint8
	Type        GeomType
	Geometry    []int16
}

func createString(b *flatbuffers.Builder, s *string, shared bool) (flatbuffers.UOffsetT, error) {
	if s == nil {
		return 0, nil
	}
	if shared {
		return b.CreateSharedString(*s)
	}
	return b.CreateString(*s)
}

func (t *FeatureT) Pack(b *flatbuffers.Builder) (flatbuffers.UOffsetT, error) {
	if t == nil {
		return 0, nil
	}
	nameZh, err := createString(b, t.NameZh, false)
	if err != nil {
		return 0, xerrors.Errorf("name_zh: %w", err)
	}
	nameEn, err := createString(b, t.NameEn, false)
	if err != nil {
		return 0, xerrors.Errorf("name_en: %w", err)
	}
	nameDetail, err := createString(b, t.NameDetail, false)
	if err != nil {
		return 0, xerrors.Errorf("name_detail: %w", err)
	}
	// kinds repeat across a tile ("road", "water", ...), keep one copy each
	pmapKind, err := createString(b, t.PmapKind, true)
	if err != nil {
		return 0, xerrors.Errorf("pmap_kind: %w", err)
	}
	var geometry flatbuffers.UOffsetT
	if t.Geometry != nil {
		geometry = b.CreateInt16Vector(t.Geometry)
	}

	FeatureStart(b)
	FeatureAddId(b, t.Id)
	FeatureAddCoverage(b, t.Coverage)
	FeatureAddNameZh(b, nameZh)
	FeatureAddNameEn(b, nameEn)
	FeatureAddNameDetail(b, nameDetail)
	FeatureAddPmapKind(b, pmapKind)
	FeatureAddPmapMinZoom(b, t.PmapMinZoom)
	FeatureAddType(b, t.Type)
	FeatureAddGeometry(b, geometry)
	return FeatureEnd(b), nil
}

func copyString(b []byte) *string {
	if b == nil {
		return nil
	}
	s := string(b)
	return &s
}

func (rcv *Feature) UnPackTo(t *FeatureT) error {
	var err error
	if t.Id, err = rcv.Id(); err != nil {
		return xerrors.Errorf("id: %w", err)
	}
	if t.Coverage, err = rcv.Coverage(); err != nil {
		return xerrors.Errorf("coverage: %w", err)
	}

	strs := []struct {
		name string
		get  func() ([]byte, error)
		dst  **string
	}{
		{"name_zh", rcv.NameZh, &t.NameZh},
		{"name_en", rcv.NameEn, &t.NameEn},
		{"name_detail", rcv.NameDetail, &t.NameDetail},
		{"pmap_kind", rcv.PmapKind, &t.PmapKind},
	}
	for _, s := range strs {
		b, err := s.get()
		if err != nil {
			return xerrors.Errorf("%s: %w", s.name, err)
		}
		*s.dst = copyString(b)
	}

	if t.PmapMinZoom, err = rcv.PmapMinZoom(); err != nil {
		return xerrors.Errorf("pmap_min_zoom: %w", err)
	}
	if t.Type, err = rcv.Type(); err != nil {
		return xerrors.Errorf("type: %w", err)
	}
	if t.Geometry, err = rcv.GeometryInt16s(); err != nil {
		return xerrors.Errorf("geometry: %w", err)
	}
	return nil
}

func (rcv *Feature) UnPack() (*FeatureT, error) {
	if rcv == nil {
		return nil, nil
	}
	t := &FeatureT{}
	if err := rcv.UnPackTo(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Feature is a read view over a Feature table.
type Feature struct {
	_tab flatbuffers.Table
}

func (rcv *Feature) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Feature) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *Feature) Id() (uint32, error) {
	return rcv._tab.GetUint32Slot(slot(featureID), 0)
}

func (rcv *Feature) Coverage() (uint16, error) {
	return rcv._tab.GetUint16Slot(slot(featureCoverage), 0)
}

func (rcv *Feature) NameZh() ([]byte, error) {
	return str(&rcv._tab, featureNameZh)
}

func (rcv *Feature) NameEn() ([]byte, error) {
	return str(&rcv._tab, featureNameEn)
}

func (rcv *Feature) NameDetail() ([]byte, error) {
	return str(&rcv._tab, featureNameDetail)
}

func (rcv *Feature) PmapKind() ([]byte, error) {
	return str(&rcv._tab, featurePmapKind)
}

func (rcv *Feature) PmapMinZoom() (uint8, error) {
	return rcv._tab.GetUint8Slot(slot(featurePmapMinZoom), 0)
}

func (rcv *Feature) Type() (GeomType, error) {
	v, err := rcv._tab.GetInt8Slot(slot(featureType), int8(DefaultGeomType))
	return GeomType(v), err
}

// Geometry returns element j of the geometry command stream. An absent
// geometry reads as 0.
func (rcv *Feature) Geometry(j int) (int16, error) {
	o, err := ref(&rcv._tab, featureGeometry)
	if err != nil || o == 0 {
		return 0, err
	}
	x, err := rcv._tab.VectorElem(flatbuffers.UOffsetT(o), j, flatbuffers.SizeInt16)
	if err != nil {
		return 0, err
	}
	return rcv._tab.GetInt16(x)
}

func (rcv *Feature) GeometryLength() (int, error) {
	return vectorLen(&rcv._tab, featureGeometry, flatbuffers.SizeInt16)
}

func (rcv *Feature) GeometryIsNone() (bool, error) {
	return isNone(&rcv._tab, featureGeometry)
}

// GeometryInt16s copies the whole geometry out of the buffer. It returns nil
// when the geometry is absent.
func (rcv *Feature) GeometryInt16s() ([]int16, error) {
	o, err := ref(&rcv._tab, featureGeometry)
	if err != nil || o == 0 {
		return nil, err
	}
	n, err := rcv._tab.VectorLen(flatbuffers.UOffsetT(o), flatbuffers.SizeInt16)
	if err != nil {
		return nil, err
	}
	start, err := rcv._tab.Vector(flatbuffers.UOffsetT(o))
	if err != nil {
		return nil, err
	}
	// VectorLen checked the whole vector against the buffer
	out := make([]int16, n)
	for i := range out {
		out[i] = flatbuffers.GetInt16(rcv._tab.Bytes[start+flatbuffers.UOffsetT(i*flatbuffers.SizeInt16):])
	}
	return out, nil
}

func FeatureStart(builder *flatbuffers.Builder) {
	builder.StartObject(featureNumFields)
}
func FeatureAddId(builder *flatbuffers.Builder, id uint32) {
	builder.PrependUint32Slot(featureID, id, 0)
}
func FeatureAddCoverage(builder *flatbuffers.Builder, coverage uint16) {
	builder.PrependUint16Slot(featureCoverage, coverage, 0)
}
func FeatureAddNameZh(builder *flatbuffers.Builder, nameZh flatbuffers.UOffsetT) {
	builder.PrependOffsetSlot(featureNameZh, nameZh)
}
func FeatureAddNameEn(builder *flatbuffers.Builder, nameEn flatbuffers.UOffsetT) {
	builder.PrependOffsetSlot(featureNameEn, nameEn)
}
func FeatureAddNameDetail(builder *flatbuffers.Builder, nameDetail flatbuffers.UOffsetT) {
	builder.PrependOffsetSlot(featureNameDetail, nameDetail)
}
func FeatureAddPmapKind(builder *flatbuffers.Builder, pmapKind flatbuffers.UOffsetT) {
	builder.PrependOffsetSlot(featurePmapKind, pmapKind)
}
func FeatureAddPmapMinZoom(builder *flatbuffers.Builder, pmapMinZoom uint8) {
	builder.PrependUint8Slot(featurePmapMinZoom, pmapMinZoom, 0)
}
func FeatureAddType(builder *flatbuffers.Builder, type_ GeomType) {
	builder.PrependInt8Slot(featureType, int8(type_), int8(DefaultGeomType))
}
func FeatureAddGeometry(builder *flatbuffers.Builder, geometry flatbuffers.UOffsetT) {
	builder.PrependOffsetSlot(featureGeometry, geometry)
}
func FeatureStartGeometryVector(builder *flatbuffers.Builder, numElems int) flatbuffers.UOffsetT {
	return builder.StartVector(flatbuffers.SizeInt16, numElems, flatbuffers.SizeInt16)
}
func FeatureEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}
