package pmtiles

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb/maptile"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func tileData(t maptile.Tile) []byte {
	return []byte(fmt.Sprintf("tile %d/%d/%d", t.Z, t.X, t.Y))
}

// buildArchive writes every tile of zoom 0 to maxZoom with distinct
// content.
func buildArchive(t *testing.T, w *Writer, maxZoom maptile.Zoom) []byte {
	t.Helper()
	for z := maptile.Zoom(0); z <= maxZoom; z++ {
		n := uint32(1) << z
		for x := uint32(0); x < n; x++ {
			for y := uint32(0); y < n; y++ {
				tile := maptile.New(x, y, z)
				require.NoError(t, w.WriteTile(tile, tileData(tile)))
			}
		}
	}
	var buf bytes.Buffer
	_, err := w.Finalize(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func quietLogger() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}

func TestReaderCompressions(t *testing.T) {
	for _, c := range []Compression{NoCompression, Gzip, Zstd, Snappy} {
		t.Run(fmt.Sprint(c), func(t *testing.T) {
			w := NewWriter()
			w.Logger = quietLogger()
			w.TileCompression = c
			w.InternalCompression = c
			w.Metadata = []byte(`{"name":"mapzoom"}`)
			archive := buildArchive(t, w, 3)

			r, err := NewReader(bytes.NewReader(archive), WithLogger(quietLogger()))
			require.NoError(t, err)
			defer r.Close()

			h := r.Header()
			assert.Equal(t, c, h.TileCompression)
			assert.Equal(t, uint8(0), h.MinZoom)
			assert.Equal(t, uint8(3), h.MaxZoom)
			assert.Equal(t, uint64(85), h.AddressedTilesCount)
			assert.Zero(t, h.LeafDirectoryLength)

			for _, tile := range []maptile.Tile{
				maptile.New(0, 0, 0),
				maptile.New(1, 0, 1),
				maptile.New(5, 6, 3),
			} {
				data, err := r.Tile(tile)
				require.NoError(t, err)
				assert.Equal(t, tileData(tile), data)
			}

			meta, err := r.Metadata()
			require.NoError(t, err)
			assert.JSONEq(t, `{"name":"mapzoom"}`, string(meta))
		})
	}
}

func TestReaderNotFound(t *testing.T) {
	w := NewWriter()
	w.Logger = quietLogger()
	require.NoError(t, w.WriteTile(maptile.New(0, 0, 1), []byte("a")))
	require.NoError(t, w.WriteTile(maptile.New(1, 1, 2), []byte("b")))
	var buf bytes.Buffer
	_, err := w.Finalize(&buf)
	require.NoError(t, err)

	r, err := NewReader(bytes.NewReader(buf.Bytes()), WithLogger(quietLogger()))
	require.NoError(t, err)

	for _, tile := range []maptile.Tile{
		maptile.New(0, 0, 0), // below min zoom
		maptile.New(0, 0, 3), // above max zoom
		maptile.New(1, 1, 1),
		maptile.New(0, 0, 2),
	} {
		_, err := r.Tile(tile)
		assert.True(t, xerrors.Is(err, ErrNotFound), "%v: %v", tile, err)
	}
	_, err = r.Tile(maptile.New(4, 0, 2))
	assert.True(t, xerrors.Is(err, ErrInvalidTile))
}

func TestReaderRunLength(t *testing.T) {
	w := NewWriter()
	w.Logger = quietLogger()
	w.TileCompression = Gzip
	ocean := []byte("ocean")
	for x := uint32(0); x < 4; x++ {
		for y := uint32(0); y < 4; y++ {
			require.NoError(t, w.WriteTile(maptile.New(x, y, 2), ocean))
		}
	}
	require.NoError(t, w.WriteTile(maptile.New(0, 0, 1), []byte("land")))

	var buf bytes.Buffer
	h, err := w.Finalize(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(17), h.AddressedTilesCount)
	assert.Equal(t, uint64(2), h.TileEntriesCount)
	assert.Equal(t, uint64(2), h.TileContentsCount)

	r, err := NewReader(bytes.NewReader(buf.Bytes()), WithLogger(quietLogger()))
	require.NoError(t, err)
	data, err := r.Tile(maptile.New(3, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, ocean, data)
	data, err = r.Tile(maptile.New(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, []byte("land"), data)
}

func TestReaderLeafDirectories(t *testing.T) {
	w := NewWriter()
	w.Logger = quietLogger()
	w.LeafSize = 8
	archive := buildArchive(t, w, 2) // 21 tiles, three leaves

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	r, err := NewReader(bytes.NewReader(archive), WithLogger(logger))
	require.NoError(t, err)
	assert.NotZero(t, r.Header().LeafDirectoryLength)

	for z := maptile.Zoom(0); z <= 2; z++ {
		n := uint32(1) << z
		for x := uint32(0); x < n; x++ {
			for y := uint32(0); y < n; y++ {
				tile := maptile.New(x, y, z)
				data, err := r.Tile(tile)
				require.NoError(t, err, "%v", tile)
				assert.Equal(t, tileData(tile), data)
			}
		}
	}
	require.NotEmpty(t, hook.AllEntries())
	assert.Equal(t, "pmtiles: reading leaf directory", hook.LastEntry().Message)
	assert.Equal(t, 1, hook.LastEntry().Data["depth"])
}

func TestReaderDirectoryDepth(t *testing.T) {
	// a leaf entry pointing back at the root directory loops forever
	root := SerializeDirectory([]Entry{{TileID: 0, Offset: 0, Length: 0, RunLength: 0}})
	root = SerializeDirectory([]Entry{{TileID: 0, Offset: 0, Length: uint32(len(root)), RunLength: 0}})
	h := Header{
		SpecVersion:         3,
		RootOffset:          HeaderV3LenBytes,
		RootLength:          uint64(len(root)),
		LeafDirectoryOffset: HeaderV3LenBytes,
		InternalCompression: NoCompression,
		TileCompression:     NoCompression,
		MaxZoom:             1,
	}
	archive := append(h.Bytes(), root...)

	r, err := NewReader(bytes.NewReader(archive), WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = r.Tile(maptile.New(0, 0, 0))
	assert.True(t, xerrors.Is(err, ErrDirectoryDepth))
}

func TestReaderDeprecatedVersion(t *testing.T) {
	w := NewWriter()
	w.Logger = quietLogger()
	archive := buildArchive(t, w, 0)
	archive[7] = 2

	logger, hook := test.NewNullLogger()
	_, err := NewReader(bytes.NewReader(archive), WithLogger(logger))
	require.NoError(t, err)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, uint8(2), hook.LastEntry().Data["version"])
}

func TestReaderUnsupported(t *testing.T) {
	w := NewWriter()
	w.Logger = quietLogger()
	archive := buildArchive(t, w, 0)

	brotli := append([]byte(nil), archive...)
	brotli[97] = uint8(Brotli)
	_, err := NewReader(bytes.NewReader(brotli), WithLogger(quietLogger()))
	assert.True(t, xerrors.Is(err, ErrUnsupportedCompression))

	_, err = NewReader(bytes.NewReader(archive[:HeaderV3LenBytes+1]), WithLogger(quietLogger()))
	assert.Error(t, err)

	_, err = NewReader(bytes.NewReader([]byte("not an archive")), WithLogger(quietLogger()))
	assert.Error(t, err)

	_, err = Compress(Compression(9), nil)
	assert.True(t, xerrors.Is(err, ErrUnsupportedCompression))
}

func TestOpen(t *testing.T) {
	w := NewWriter()
	w.Logger = quietLogger()
	archive := buildArchive(t, w, 1)

	path := filepath.Join(t.TempDir(), "tiles.pmtiles")
	require.NoError(t, os.WriteFile(path, archive, 0o644))

	r, err := Open(path, WithLogger(quietLogger()))
	require.NoError(t, err)
	data, err := r.Tile(maptile.New(1, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, tileData(maptile.New(1, 1, 1)), data)
	require.NoError(t, r.Close())

	_, err = Open(filepath.Join(t.TempDir(), "missing.pmtiles"))
	assert.True(t, xerrors.Is(err, os.ErrNotExist))
}

func TestWriterBounds(t *testing.T) {
	w := NewWriter()
	w.Logger = quietLogger()
	require.NoError(t, w.WriteTile(maptile.New(1, 0, 1), []byte("ne")))
	var buf bytes.Buffer
	h, err := w.Finalize(&buf)
	require.NoError(t, err)

	b := h.Bound()
	assert.InDelta(t, 0, b.Min.Lon(), 1e-6)
	assert.InDelta(t, 180, b.Max.Lon(), 1e-6)
	assert.InDelta(t, 0, b.Min.Lat(), 1e-6)
	assert.Equal(t, uint8(1), h.CenterZoom)

	_, err = NewWriter().Finalize(&buf)
	assert.True(t, xerrors.Is(err, ErrEmptyDirectory))
}
