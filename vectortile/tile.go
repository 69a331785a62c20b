package vectortile

import (
	"golang.org/x/xerrors"

	"github.com/DotIN13/mapzoom/flatbuffers"
)

// ErrNilElement is returned by Pack when a slice of objects holds a nil
// element. Nil slices are fine and mean the field is absent.
var ErrNilElement = xerrors.New("vectortile: nil element")

// TileT is the object form of a Tile.
type TileT struct {
	Layers []*LayerT
}

// Pack writes t and everything it references into b and returns the offset
// of the Tile table. b must not have an object or vector open.
func (t *TileT) Pack(b *flatbuffers.Builder) (flatbuffers.UOffsetT, error) {
	if t == nil {
		return 0, nil
	}
	var layersOffset flatbuffers.UOffsetT
	if t.Layers != nil {
		offsets := make([]flatbuffers.UOffsetT, len(t.Layers))
		for j, l := range t.Layers {
			if l == nil {
				return 0, xerrors.Errorf("layer %d: %w", j, ErrNilElement)
			}
			off, err := l.Pack(b)
			if err != nil {
				return 0, xerrors.Errorf("layer %d: %w", j, err)
			}
			offsets[j] = off
		}
		layersOffset = b.CreateOffsetVector(offsets)
	}
	TileStart(b)
	TileAddLayers(b, layersOffset)
	return TileEnd(b), nil
}

// UnPackTo fills t from the view. Strings and vectors are copied, so t does
// not reference the buffer.
func (rcv *Tile) UnPackTo(t *TileT) error {
	none, err := rcv.LayersIsNone()
	if err != nil {
		return err
	}
	if none {
		t.Layers = nil
		return nil
	}
	n, err := rcv.LayersLength()
	if err != nil {
		return err
	}
	t.Layers = make([]*LayerT, n)
	x := &Layer{}
	for j := 0; j < n; j++ {
		if _, err := rcv.Layers(x, j); err != nil {
			return xerrors.Errorf("layer %d: %w", j, err)
		}
		l, err := x.UnPack()
		if err != nil {
			return xerrors.Errorf("layer %d: %w", j, err)
		}
		t.Layers[j] = l
	}
	return nil
}

func (rcv *Tile) UnPack() (*TileT, error) {
	if rcv == nil {
		return nil, nil
	}
	t := &TileT{}
	if err := rcv.UnPackTo(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Encode packs t into a new finished buffer. A nil t encodes an empty tile.
func Encode(t *TileT) ([]byte, error) {
	if t == nil {
		t = &TileT{}
	}
	b := flatbuffers.NewBuilder(1024)
	off, err := t.Pack(b)
	if err != nil {
		return nil, err
	}
	FinishTileBuffer(b, off)
	return b.FinishedBytes(), nil
}

// Decode unpacks a finished Tile buffer into its object form.
func Decode(buf []byte) (*TileT, error) {
	rcv, err := GetRootAsTile(buf, 0)
	if err != nil {
		return nil, err
	}
	return rcv.UnPack()
}

// Tile is a read view over a Tile table. It references the buffer it was
// created from and never copies it.
type Tile struct {
	_tab flatbuffers.Table
}

// GetRootAsTile returns a view of the root Tile of buf. The root object and
// its vtable are checked before the view is returned.
func GetRootAsTile(buf []byte, offset flatbuffers.UOffsetT) (*Tile, error) {
	tab, err := flatbuffers.RootTable(buf, offset)
	if err != nil {
		return nil, err
	}
	return &Tile{_tab: tab}, nil
}

// Init positions the view at i. Nothing is checked until a field is read.
func (rcv *Tile) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Tile) Table() flatbuffers.Table {
	return rcv._tab
}

// Layers positions obj on layer j. It returns false when the tile has no
// layers field, and an *flatbuffers.IndexError when j is out of range.
func (rcv *Tile) Layers(obj *Layer, j int) (bool, error) {
	return tableElem(&rcv._tab, tileLayers, j, &obj._tab)
}

func (rcv *Tile) LayersLength() (int, error) {
	return vectorLen(&rcv._tab, tileLayers, flatbuffers.SizeUOffsetT)
}

// LayersIsNone reports whether the layers field was never written, as
// opposed to written with zero layers.
func (rcv *Tile) LayersIsNone() (bool, error) {
	return isNone(&rcv._tab, tileLayers)
}

func TileStart(builder *flatbuffers.Builder) {
	builder.StartObject(tileNumFields)
}
func TileAddLayers(builder *flatbuffers.Builder, layers flatbuffers.UOffsetT) {
	builder.PrependOffsetSlot(tileLayers, layers)
}
func TileStartLayersVector(builder *flatbuffers.Builder, numElems int) flatbuffers.UOffsetT {
	return builder.StartVector(flatbuffers.SizeUOffsetT, numElems, flatbuffers.SizeUOffsetT)
}
func TileEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}
func FinishTileBuffer(builder *flatbuffers.Builder, offset flatbuffers.UOffsetT) {
	builder.Finish(offset)
}
