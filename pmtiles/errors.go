package pmtiles

import "golang.org/x/xerrors"

var (
	ErrBadMagic               = xerrors.New("pmtiles: wrong magic number")
	ErrUnsupportedVersion     = xerrors.New("pmtiles: unsupported spec version")
	ErrUnsupportedCompression = xerrors.New("pmtiles: unsupported compression")
	ErrTooLarge               = xerrors.New("pmtiles: decompressed data too large")
	ErrInvalidTile            = xerrors.New("pmtiles: tile outside zoom level bounds")
	ErrEmptyDirectory         = xerrors.New("pmtiles: empty directory")
	ErrMalformedDirectory     = xerrors.New("pmtiles: malformed directory")
	ErrDirectoryDepth         = xerrors.New("pmtiles: maximum directory depth exceeded")
	// ErrNotFound means the archive has no tile at the requested address.
	ErrNotFound = xerrors.New("pmtiles: tile not found")
)
