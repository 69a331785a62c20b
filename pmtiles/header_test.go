package pmtiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func sampleHeader() Header {
	return Header{
		SpecVersion:         3,
		RootOffset:          127,
		RootLength:          25,
		MetadataOffset:      152,
		MetadataLength:      247,
		LeafDirectoryOffset: 399,
		LeafDirectoryLength: 1 << 33,
		TileDataOffset:      1<<33 + 399,
		TileDataLength:      69,
		AddressedTilesCount: 1,
		TileEntriesCount:    1,
		TileContentsCount:   1,
		Clustered:           true,
		InternalCompression: Gzip,
		TileCompression:     Zstd,
		TileType:            Mvt,
		MinZoom:             0,
		MaxZoom:             14,
		MinLonE7:            -1800000000,
		MinLatE7:            -850511287,
		MaxLonE7:            1800000000,
		MaxLatE7:            850511287,
		CenterZoom:          3,
		CenterLonE7:         1214737000,
		CenterLatE7:         312304000,
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := sampleHeader()
	d := h.Bytes()
	require.Len(t, d, HeaderV3LenBytes)
	assert.Equal(t, "PMTiles", string(d[:7]))

	got, err := ParseHeader(d)
	require.NoError(t, err)
	assert.Equal(t, h, got)

	assert.InDelta(t, 121.4737, got.Center().Lon(), 1e-7)
	assert.InDelta(t, 31.2304, got.Center().Lat(), 1e-7)
	assert.InDelta(t, -180, got.Bound().Min.Lon(), 1e-7)
	assert.InDelta(t, 85.0511287, got.Bound().Max.Lat(), 1e-7)
}

func TestParseHeaderErrors(t *testing.T) {
	d := sampleHeader().Bytes()

	_, err := ParseHeader(d[:100])
	assert.Error(t, err)

	bad := append([]byte(nil), d...)
	bad[0] = 'X'
	_, err = ParseHeader(bad)
	assert.True(t, xerrors.Is(err, ErrBadMagic))

	future := append([]byte(nil), d...)
	future[7] = 4
	_, err = ParseHeader(future)
	assert.True(t, xerrors.Is(err, ErrUnsupportedVersion))

	old := append([]byte(nil), d...)
	old[7] = 2
	h, err := ParseHeader(old)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), h.SpecVersion)
}
