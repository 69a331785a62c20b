package pmtiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestDirectoryRoundTrip(t *testing.T) {
	entries := []Entry{
		{TileID: 0, Offset: 0, Length: 10, RunLength: 1},
		{TileID: 1, Offset: 10, Length: 20, RunLength: 3}, // contiguous
		{TileID: 4, Offset: 0, Length: 10, RunLength: 1},  // deduplicated content
		{TileID: 9, Offset: 1 << 40, Length: 1, RunLength: 0},
	}
	d := SerializeDirectory(entries)
	got, err := ParseDirectory(d)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestParseDirectoryErrors(t *testing.T) {
	_, err := ParseDirectory([]byte{0})
	assert.True(t, xerrors.Is(err, ErrEmptyDirectory))

	_, err = ParseDirectory(nil)
	assert.True(t, xerrors.Is(err, ErrMalformedDirectory))

	// more entries than bytes
	_, err = ParseDirectory([]byte{0x7f, 1, 1, 1, 1})
	assert.True(t, xerrors.Is(err, ErrMalformedDirectory))

	// truncated columns
	d := SerializeDirectory([]Entry{{TileID: 5, Offset: 3, Length: 300, RunLength: 1}})
	_, err = ParseDirectory(d[:len(d)-1])
	assert.True(t, xerrors.Is(err, ErrMalformedDirectory))

	// the first offset cannot refer to a previous entry
	_, err = ParseDirectory([]byte{1, 0, 1, 1, 0})
	assert.True(t, xerrors.Is(err, ErrMalformedDirectory))
}

func TestFindTile(t *testing.T) {
	entries := []Entry{
		{TileID: 1, RunLength: 1},
		{TileID: 2, RunLength: 3},
		{TileID: 10, RunLength: 0}, // leaf directory from 10 on
		{TileID: 20, RunLength: 1},
	}
	tests := []struct {
		id    uint64
		found bool
		want  uint64
	}{
		{0, false, 0},
		{1, true, 1},
		{2, true, 2},
		{4, true, 2}, // inside the run
		{5, false, 0},
		{10, true, 10},
		{15, true, 10}, // may be in the leaf
		{20, true, 20},
		{21, false, 0},
	}
	for _, tt := range tests {
		e, ok := FindTile(entries, tt.id)
		require.Equal(t, tt.found, ok, "id %d", tt.id)
		if ok {
			assert.Equal(t, tt.want, e.TileID, "id %d", tt.id)
		}
	}

	_, ok := FindTile(nil, 0)
	assert.False(t, ok)
}
