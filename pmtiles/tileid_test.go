package pmtiles

import (
	"testing"

	"github.com/paulmach/orb/maptile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestID(t *testing.T) {
	tests := []struct {
		z    maptile.Zoom
		x, y uint32
		id   uint64
	}{
		{0, 0, 0, 0},
		{1, 0, 0, 1},
		{1, 0, 1, 2},
		{1, 1, 1, 3},
		{1, 1, 0, 4},
		{2, 0, 0, 5},
		{3, 0, 0, 21},
		{20, 0, 0, 366503875925},
		{21, 0, 0, 1466015503701},
		{26, 0, 0, 1501199875790165},
	}
	for _, tt := range tests {
		id, err := ID(maptile.New(tt.x, tt.y, tt.z))
		require.NoError(t, err)
		assert.Equal(t, tt.id, id, "%d/%d/%d", tt.z, tt.x, tt.y)

		tile, err := TileFromID(tt.id)
		require.NoError(t, err)
		assert.Equal(t, maptile.New(tt.x, tt.y, tt.z), tile)
	}
}

func TestIDRoundTrip(t *testing.T) {
	for z := maptile.Zoom(0); z <= 5; z++ {
		n := uint32(1) << z
		seen := make(map[uint64]bool)
		for x := uint32(0); x < n; x++ {
			for y := uint32(0); y < n; y++ {
				tile := maptile.New(x, y, z)
				id, err := ID(tile)
				require.NoError(t, err)
				require.False(t, seen[id], "duplicate id %d", id)
				seen[id] = true

				back, err := TileFromID(id)
				require.NoError(t, err)
				require.Equal(t, tile, back)
			}
		}
	}

	// a few deep tiles
	for _, tile := range []maptile.Tile{
		maptile.New(13469, 6208, 14),
		maptile.New(1<<25, 1<<25-1, 26),
		maptile.New(1<<26-1, 1<<26-1, 26),
	} {
		id, err := ID(tile)
		require.NoError(t, err)
		back, err := TileFromID(id)
		require.NoError(t, err)
		assert.Equal(t, tile, back)
	}
}

func TestIDInvalid(t *testing.T) {
	for _, tile := range []maptile.Tile{
		maptile.New(0, 0, 27),
		maptile.New(2, 0, 1),
		maptile.New(0, 1<<20, 20),
	} {
		_, err := ID(tile)
		assert.True(t, xerrors.Is(err, ErrInvalidTile), "%v", tile)
	}

	// the curve of each level ends at x = 2^z-1, y = 0
	last, err := ID(maptile.New(1<<26-1, 0, 26))
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<54-1)/3, last+1, "ids on levels 0 to 26")
	_, err = TileFromID(last + 1)
	assert.True(t, xerrors.Is(err, ErrInvalidTile))
}
