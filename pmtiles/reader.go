package pmtiles

import (
	"io"
	"os"

	"github.com/paulmach/orb/maptile"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// maxDepth bounds the number of leaf directories followed below the root.
const maxDepth = 3

// maxReadLength caps a single directory or tile read, so a corrupt header
// cannot ask for an arbitrary allocation.
const maxReadLength = 1 << 30

// Reader serves tiles from an archive. The header and root directory are
// read once by NewReader; after that a Reader holds no mutable state and is
// safe for concurrent use.
type Reader struct {
	r      io.ReaderAt
	closer io.Closer
	header Header
	root   []Entry
	log    logrus.FieldLogger
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Reader) {
		r.log = l
	}
}

// Open opens the archive at path. Close releases the file.
func Open(path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("pmtiles: %w", err)
	}
	r, err := NewReader(f, opts...)
	if err != nil {
		f.Close()
		return nil, xerrors.Errorf("pmtiles: open %s: %w", path, err)
	}
	r.closer = f
	return r, nil
}

// NewReader reads the header and root directory of the archive in ra.
func NewReader(ra io.ReaderAt, opts ...Option) (*Reader, error) {
	r := &Reader{r: ra, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(r)
	}

	d, err := readAt(ra, 0, HeaderV3LenBytes)
	if err != nil {
		return nil, xerrors.Errorf("pmtiles: header: %w", err)
	}
	if r.header, err = ParseHeader(d); err != nil {
		return nil, err
	}
	if r.header.SpecVersion < SpecVersion {
		r.log.WithField("version", r.header.SpecVersion).
			Warn("pmtiles: archive spec version is deprecated, upgrade it to version 3")
	}

	if r.root, err = r.directory(r.header.RootOffset, r.header.RootLength); err != nil {
		return nil, xerrors.Errorf("pmtiles: root directory: %w", err)
	}
	return r, nil
}

// Header returns the archive header.
func (r *Reader) Header() Header {
	return r.header
}

// Tile returns the decompressed tile at t. ErrNotFound means the archive
// holds no such tile, including any tile outside the archive's zoom range.
func (r *Reader) Tile(t maptile.Tile) ([]byte, error) {
	id, err := ID(t)
	if err != nil {
		return nil, err
	}
	if t.Z < maptile.Zoom(r.header.MinZoom) || t.Z > maptile.Zoom(r.header.MaxZoom) {
		return nil, ErrNotFound
	}

	entries := r.root
	for depth := 0; depth <= maxDepth; depth++ {
		e, ok := FindTile(entries, id)
		if !ok {
			return nil, ErrNotFound
		}
		if e.RunLength > 0 {
			data, err := readAt(r.r, r.header.TileDataOffset+e.Offset, uint64(e.Length))
			if err != nil {
				return nil, xerrors.Errorf("pmtiles: tile %d/%d/%d: %w", t.Z, t.X, t.Y, err)
			}
			return Decompress(r.header.TileCompression, data)
		}

		r.log.WithFields(logrus.Fields{
			"z": t.Z, "x": t.X, "y": t.Y,
			"depth":  depth + 1,
			"offset": e.Offset,
		}).Debug("pmtiles: reading leaf directory")
		if entries, err = r.directory(r.header.LeafDirectoryOffset+e.Offset, uint64(e.Length)); err != nil {
			return nil, xerrors.Errorf("pmtiles: leaf directory: %w", err)
		}
	}
	return nil, ErrDirectoryDepth
}

// Metadata returns the decompressed JSON metadata of the archive.
func (r *Reader) Metadata() ([]byte, error) {
	if r.header.MetadataLength == 0 {
		return nil, nil
	}
	data, err := readAt(r.r, r.header.MetadataOffset, r.header.MetadataLength)
	if err != nil {
		return nil, xerrors.Errorf("pmtiles: metadata: %w", err)
	}
	return Decompress(r.header.InternalCompression, data)
}

// Close closes the file opened by Open. It does nothing for a Reader made
// by NewReader.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func (r *Reader) directory(offset, length uint64) ([]Entry, error) {
	data, err := readAt(r.r, offset, length)
	if err != nil {
		return nil, err
	}
	if data, err = Decompress(r.header.InternalCompression, data); err != nil {
		return nil, err
	}
	return ParseDirectory(data)
}

func readAt(ra io.ReaderAt, offset, length uint64) ([]byte, error) {
	if length > maxReadLength || offset > 1<<62 {
		return nil, xerrors.Errorf("read of %d bytes at %d is out of range", length, offset)
	}
	buf := make([]byte, length)
	n, err := ra.ReadAt(buf, int64(offset))
	if n == len(buf) {
		return buf, nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return nil, xerrors.Errorf("read %d of %d bytes at %d: %w", n, length, offset, err)
}
