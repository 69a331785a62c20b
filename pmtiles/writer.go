package pmtiles

import (
	"bytes"
	"io"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// DefaultLeafSize is the number of entries the root directory may hold
// before the entries move to leaf directories.
const DefaultLeafSize = 4096

// Writer collects tiles in memory and writes them out as one archive.
// Identical tiles are stored once, and runs of identical tiles with
// consecutive ids share one entry.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	TileType            TileType
	TileCompression     Compression
	InternalCompression Compression
	// LeafSize is the largest directory written. A zero value means
	// DefaultLeafSize.
	LeafSize int
	// Metadata is the JSON document stored with the archive. Empty means
	// "{}".
	Metadata []byte
	Logger   logrus.FieldLogger

	tiles map[uint64][]byte
}

// NewWriter returns a Writer that gzips directories and leaves tiles
// uncompressed.
func NewWriter() *Writer {
	return &Writer{
		TileCompression:     NoCompression,
		InternalCompression: Gzip,
		LeafSize:            DefaultLeafSize,
		Logger:              logrus.StandardLogger(),
		tiles:               make(map[uint64][]byte),
	}
}

// WriteTile adds the tile at t. data is copied; writing the same address
// again replaces the earlier tile.
func (w *Writer) WriteTile(t maptile.Tile, data []byte) error {
	id, err := ID(t)
	if err != nil {
		return err
	}
	if w.tiles == nil {
		w.tiles = make(map[uint64][]byte)
	}
	w.tiles[id] = append([]byte(nil), data...)
	return nil
}

// Finalize writes the archive to out and returns its header.
func (w *Writer) Finalize(out io.Writer) (Header, error) {
	if len(w.tiles) == 0 {
		return Header{}, xerrors.Errorf("pmtiles: no tiles written: %w", ErrEmptyDirectory)
	}
	h := Header{
		SpecVersion:         SpecVersion,
		Clustered:           true,
		InternalCompression: w.InternalCompression,
		TileCompression:     w.TileCompression,
		TileType:            w.TileType,
	}

	ids := make([]uint64, 0, len(w.tiles))
	for id := range w.tiles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var (
		entries  []Entry
		tileData bytes.Buffer
		bound    orb.Bound
		contents = make(map[string]uint64)
	)
	for i, id := range ids {
		t, err := TileFromID(id)
		if err != nil {
			return Header{}, err
		}
		if i == 0 {
			bound = t.Bound()
			h.MinZoom = uint8(t.Z)
		} else {
			bound = bound.Union(t.Bound())
		}
		h.MaxZoom = uint8(t.Z)

		data, err := Compress(w.TileCompression, w.tiles[id])
		if err != nil {
			return Header{}, err
		}
		offset, seen := contents[string(data)]
		if !seen {
			offset = uint64(tileData.Len())
			contents[string(data)] = offset
			tileData.Write(data)
		}

		if n := len(entries); n > 0 {
			last := &entries[n-1]
			if seen && last.Offset == offset && last.TileID+uint64(last.RunLength) == id {
				last.RunLength++
				continue
			}
		}
		entries = append(entries, Entry{TileID: id, Offset: offset, Length: uint32(len(data)), RunLength: 1})
	}

	root, leaves, err := w.directories(entries)
	if err != nil {
		return Header{}, err
	}
	metadata := w.Metadata
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}
	if metadata, err = Compress(w.InternalCompression, metadata); err != nil {
		return Header{}, err
	}

	h.RootOffset = HeaderV3LenBytes
	h.RootLength = uint64(len(root))
	h.MetadataOffset = h.RootOffset + h.RootLength
	h.MetadataLength = uint64(len(metadata))
	h.LeafDirectoryOffset = h.MetadataOffset + h.MetadataLength
	h.LeafDirectoryLength = uint64(len(leaves))
	h.TileDataOffset = h.LeafDirectoryOffset + h.LeafDirectoryLength
	h.TileDataLength = uint64(tileData.Len())
	h.AddressedTilesCount = uint64(len(ids))
	h.TileEntriesCount = uint64(len(entries))
	h.TileContentsCount = uint64(len(contents))
	h.MinLonE7, h.MinLatE7 = toE7(bound.Min.Lon()), toE7(bound.Min.Lat())
	h.MaxLonE7, h.MaxLatE7 = toE7(bound.Max.Lon()), toE7(bound.Max.Lat())
	center := bound.Center()
	h.CenterZoom = h.MinZoom
	h.CenterLonE7, h.CenterLatE7 = toE7(center.Lon()), toE7(center.Lat())

	for _, section := range [][]byte{h.Bytes(), root, metadata, leaves, tileData.Bytes()} {
		if _, err := out.Write(section); err != nil {
			return Header{}, xerrors.Errorf("pmtiles: write: %w", err)
		}
	}

	w.logger().WithFields(logrus.Fields{
		"tiles":    h.AddressedTilesCount,
		"entries":  h.TileEntriesCount,
		"contents": h.TileContentsCount,
		"leaves":   h.LeafDirectoryLength > 0,
	}).Debug("pmtiles: archive written")
	return h, nil
}

// directories builds the compressed root directory and, when entries do
// not fit in one directory, the leaf directories it points to.
func (w *Writer) directories(entries []Entry) (root, leaves []byte, err error) {
	leafSize := w.LeafSize
	if leafSize <= 0 {
		leafSize = DefaultLeafSize
	}
	if len(entries) <= leafSize {
		root, err = Compress(w.InternalCompression, SerializeDirectory(entries))
		return root, nil, err
	}

	var rootEntries []Entry
	for start := 0; start < len(entries); start += leafSize {
		end := start + leafSize
		if end > len(entries) {
			end = len(entries)
		}
		leaf, err := Compress(w.InternalCompression, SerializeDirectory(entries[start:end]))
		if err != nil {
			return nil, nil, err
		}
		rootEntries = append(rootEntries, Entry{
			TileID: entries[start].TileID,
			Offset: uint64(len(leaves)),
			Length: uint32(len(leaf)),
		})
		leaves = append(leaves, leaf...)
	}
	if len(rootEntries) > leafSize {
		return nil, nil, xerrors.Errorf("pmtiles: %d leaf directories do not fit in the root, raise LeafSize", len(rootEntries))
	}
	root, err = Compress(w.InternalCompression, SerializeDirectory(rootEntries))
	return root, leaves, err
}

func (w *Writer) logger() logrus.FieldLogger {
	if w.Logger == nil {
		return logrus.StandardLogger()
	}
	return w.Logger
}
