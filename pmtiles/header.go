package pmtiles

import (
	"encoding/binary"
	"math"

	"github.com/paulmach/orb"
	"golang.org/x/xerrors"
)

// HeaderV3LenBytes is the fixed size of an archive header.
const HeaderV3LenBytes = 127

// SpecVersion is the newest archive version this package reads and the one
// it writes.
const SpecVersion = 3

var magic = []byte("PMTiles")

// Compression identifies how directories and tiles are compressed.
type Compression uint8

const (
	UnknownCompression Compression = 0
	NoCompression      Compression = 1
	Gzip               Compression = 2
	Brotli             Compression = 3
	Zstd               Compression = 4
	Snappy             Compression = 5
)

// TileType identifies the format of the tile payloads.
type TileType uint8

const (
	UnknownTileType TileType = 0
	Mvt             TileType = 1
	Png             TileType = 2
	Jpeg            TileType = 3
	Webp            TileType = 4
	Avif            TileType = 5
)

// Header is the fixed-size header at the start of an archive. Offsets are
// absolute byte positions in the archive.
type Header struct {
	SpecVersion         uint8
	RootOffset          uint64
	RootLength          uint64
	MetadataOffset      uint64
	MetadataLength      uint64
	LeafDirectoryOffset uint64
	LeafDirectoryLength uint64
	TileDataOffset      uint64
	TileDataLength      uint64
	AddressedTilesCount uint64
	TileEntriesCount    uint64
	TileContentsCount   uint64
	Clustered           bool
	InternalCompression Compression
	TileCompression     Compression
	TileType            TileType
	MinZoom             uint8
	MaxZoom             uint8
	MinLonE7            int32
	MinLatE7            int32
	MaxLonE7            int32
	MaxLatE7            int32
	CenterZoom          uint8
	CenterLonE7         int32
	CenterLatE7         int32
}

//	header layout (little-endian):
//	0   magic "PMTiles"      7   version
//	8   root offset/length   24  metadata offset/length
//	40  leaf offset/length   56  tile data offset/length
//	72  addressed tiles      80  tile entries    88  tile contents
//	96  clustered  97 internal compression  98 tile compression  99 tile type
//	100 min zoom   101 max zoom
//	102 min lon/lat E7       110 max lon/lat E7
//	118 center zoom          119 center lon/lat E7

// ParseHeader decodes the first HeaderV3LenBytes of an archive.
func ParseHeader(d []byte) (Header, error) {
	var h Header
	if len(d) < HeaderV3LenBytes {
		return h, xerrors.Errorf("pmtiles: header is %d bytes, want %d", len(d), HeaderV3LenBytes)
	}
	if string(d[0:7]) != string(magic) {
		return h, ErrBadMagic
	}
	h.SpecVersion = d[7]
	if h.SpecVersion > SpecVersion {
		return h, xerrors.Errorf("archive is spec version %d, up to %d is supported: %w",
			h.SpecVersion, SpecVersion, ErrUnsupportedVersion)
	}

	le := binary.LittleEndian
	h.RootOffset = le.Uint64(d[8:16])
	h.RootLength = le.Uint64(d[16:24])
	h.MetadataOffset = le.Uint64(d[24:32])
	h.MetadataLength = le.Uint64(d[32:40])
	h.LeafDirectoryOffset = le.Uint64(d[40:48])
	h.LeafDirectoryLength = le.Uint64(d[48:56])
	h.TileDataOffset = le.Uint64(d[56:64])
	h.TileDataLength = le.Uint64(d[64:72])
	h.AddressedTilesCount = le.Uint64(d[72:80])
	h.TileEntriesCount = le.Uint64(d[80:88])
	h.TileContentsCount = le.Uint64(d[88:96])
	h.Clustered = d[96] == 0x1
	h.InternalCompression = Compression(d[97])
	h.TileCompression = Compression(d[98])
	h.TileType = TileType(d[99])
	h.MinZoom = d[100]
	h.MaxZoom = d[101]
	h.MinLonE7 = int32(le.Uint32(d[102:106]))
	h.MinLatE7 = int32(le.Uint32(d[106:110]))
	h.MaxLonE7 = int32(le.Uint32(d[110:114]))
	h.MaxLatE7 = int32(le.Uint32(d[114:118]))
	h.CenterZoom = d[118]
	h.CenterLonE7 = int32(le.Uint32(d[119:123]))
	h.CenterLatE7 = int32(le.Uint32(d[123:127]))
	return h, nil
}

// Bytes encodes h as an archive header.
func (h Header) Bytes() []byte {
	d := make([]byte, HeaderV3LenBytes)
	copy(d[0:7], magic)
	d[7] = h.SpecVersion

	le := binary.LittleEndian
	le.PutUint64(d[8:16], h.RootOffset)
	le.PutUint64(d[16:24], h.RootLength)
	le.PutUint64(d[24:32], h.MetadataOffset)
	le.PutUint64(d[32:40], h.MetadataLength)
	le.PutUint64(d[40:48], h.LeafDirectoryOffset)
	le.PutUint64(d[48:56], h.LeafDirectoryLength)
	le.PutUint64(d[56:64], h.TileDataOffset)
	le.PutUint64(d[64:72], h.TileDataLength)
	le.PutUint64(d[72:80], h.AddressedTilesCount)
	le.PutUint64(d[80:88], h.TileEntriesCount)
	le.PutUint64(d[88:96], h.TileContentsCount)
	if h.Clustered {
		d[96] = 0x1
	}
	d[97] = uint8(h.InternalCompression)
	d[98] = uint8(h.TileCompression)
	d[99] = uint8(h.TileType)
	d[100] = h.MinZoom
	d[101] = h.MaxZoom
	le.PutUint32(d[102:106], uint32(h.MinLonE7))
	le.PutUint32(d[106:110], uint32(h.MinLatE7))
	le.PutUint32(d[110:114], uint32(h.MaxLonE7))
	le.PutUint32(d[114:118], uint32(h.MaxLatE7))
	d[118] = h.CenterZoom
	le.PutUint32(d[119:123], uint32(h.CenterLonE7))
	le.PutUint32(d[123:127], uint32(h.CenterLatE7))
	return d
}

// Bound returns the area covered by the archive.
func (h Header) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{fromE7(h.MinLonE7), fromE7(h.MinLatE7)},
		Max: orb.Point{fromE7(h.MaxLonE7), fromE7(h.MaxLatE7)},
	}
}

// Center returns the default view point of the archive.
func (h Header) Center() orb.Point {
	return orb.Point{fromE7(h.CenterLonE7), fromE7(h.CenterLatE7)}
}

func fromE7(v int32) float64 { return float64(v) / 1e7 }

func toE7(v float64) int32 { return int32(math.Round(v * 1e7)) }
