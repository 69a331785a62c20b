package vectortile

import (
	"golang.org/x/xerrors"

	"github.com/DotIN13/mapzoom/flatbuffers"
)

// LayerT is the object form of a Layer. A nil Name or Features means the
// field is absent.
type LayerT struct {
	Version  uint8
	Name     *string
	Features []*FeatureT
	Extent   uint16
}

// NewLayerT returns a LayerT holding the declared defaults.
func NewLayerT(name string) *LayerT {
	return &LayerT{
		Version: DefaultLayerVersion,
		Name:    &name,
		Extent:  DefaultLayerExtent,
	}
}

func (t *LayerT) Pack(b *flatbuffers.Builder) (flatbuffers.UOffsetT, error) {
	if t == nil {
		return 0, nil
	}
	var nameOffset flatbuffers.UOffsetT
	if t.Name != nil {
		off, err := b.CreateString(*t.Name)
		if err != nil {
			return 0, xerrors.Errorf("name: %w", err)
		}
		nameOffset = off
	}
	var featuresOffset flatbuffers.UOffsetT
	if t.Features != nil {
		offsets := make([]flatbuffers.UOffsetT, len(t.Features))
		for j, f := range t.Features {
			if f == nil {
				return 0, xerrors.Errorf("feature %d: %w", j, ErrNilElement)
			}
			off, err := f.Pack(b)
			if err != nil {
				return 0, xerrors.Errorf("feature %d: %w", j, err)
			}
			offsets[j] = off
		}
		featuresOffset = b.CreateOffsetVector(offsets)
	}
	LayerStart(b)
	LayerAddVersion(b, t.Version)
	LayerAddName(b, nameOffset)
	LayerAddFeatures(b, featuresOffset)
	LayerAddExtent(b, t.Extent)
	return LayerEnd(b), nil
}

func (rcv *Layer) UnPackTo(t *LayerT) error {
	var err error
	if t.Version, err = rcv.Version(); err != nil {
		return xerrors.Errorf("version: %w", err)
	}
	name, err := rcv.Name()
	if err != nil {
		return xerrors.Errorf("name: %w", err)
	}
	t.Name = nil
	if name != nil {
		s := string(name)
		t.Name = &s
	}

	t.Features = nil
	none, err := rcv.FeaturesIsNone()
	if err != nil {
		return xerrors.Errorf("features: %w", err)
	}
	if !none {
		n, err := rcv.FeaturesLength()
		if err != nil {
			return xerrors.Errorf("features: %w", err)
		}
		t.Features = make([]*FeatureT, n)
		x := &Feature{}
		for j := 0; j < n; j++ {
			if _, err := rcv.Features(x, j); err != nil {
				return xerrors.Errorf("feature %d: %w", j, err)
			}
			f, err := x.UnPack()
			if err != nil {
				return xerrors.Errorf("feature %d: %w", j, err)
			}
			t.Features[j] = f
		}
	}

	if t.Extent, err = rcv.Extent(); err != nil {
		return xerrors.Errorf("extent: %w", err)
	}
	return nil
}

func (rcv *Layer) UnPack() (*LayerT, error) {
	if rcv == nil {
		return nil, nil
	}
	t := &LayerT{}
	if err := rcv.UnPackTo(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Layer is a read view over a Layer table.
type Layer struct {
	_tab flatbuffers.Table
}

// GetRootAsLayer returns a view of a buffer whose root is a Layer.
func GetRootAsLayer(buf []byte, offset flatbuffers.UOffsetT) (*Layer, error) {
	tab, err := flatbuffers.RootTable(buf, offset)
	if err != nil {
		return nil, err
	}
	return &Layer{_tab: tab}, nil
}

func (rcv *Layer) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Layer) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *Layer) Version() (uint8, error) {
	return rcv._tab.GetUint8Slot(slot(layerVersion), DefaultLayerVersion)
}

// Name returns the layer name, aliasing the buffer. It is nil when the name
// was never written and empty when an empty name was written.
func (rcv *Layer) Name() ([]byte, error) {
	return str(&rcv._tab, layerName)
}

// Features positions obj on feature j. It returns false when the layer has
// no features field.
func (rcv *Layer) Features(obj *Feature, j int) (bool, error) {
	return tableElem(&rcv._tab, layerFeatures, j, &obj._tab)
}

func (rcv *Layer) FeaturesLength() (int, error) {
	return vectorLen(&rcv._tab, layerFeatures, flatbuffers.SizeUOffsetT)
}

func (rcv *Layer) FeaturesIsNone() (bool, error) {
	return isNone(&rcv._tab, layerFeatures)
}

func (rcv *Layer) Extent() (uint16, error) {
	return rcv._tab.GetUint16Slot(slot(layerExtent), DefaultLayerExtent)
}

func LayerStart(builder *flatbuffers.Builder) {
	builder.StartObject(layerNumFields)
}
func LayerAddVersion(builder *flatbuffers.Builder, version uint8) {
	builder.PrependUint8Slot(layerVersion, version, DefaultLayerVersion)
}
func LayerAddName(builder *flatbuffers.Builder, name flatbuffers.UOffsetT) {
	builder.PrependOffsetSlot(layerName, name)
}
func LayerAddFeatures(builder *flatbuffers.Builder, features flatbuffers.UOffsetT) {
	builder.PrependOffsetSlot(layerFeatures, features)
}
func LayerStartFeaturesVector(builder *flatbuffers.Builder, numElems int) flatbuffers.UOffsetT {
	return builder.StartVector(flatbuffers.SizeUOffsetT, numElems, flatbuffers.SizeUOffsetT)
}
func LayerAddExtent(builder *flatbuffers.Builder, extent uint16) {
	builder.PrependUint16Slot(layerExtent, extent, DefaultLayerExtent)
}
func LayerEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}
