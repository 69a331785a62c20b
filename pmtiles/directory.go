package pmtiles

import (
	"encoding/binary"

	"golang.org/x/xerrors"
)

// Entry addresses either a run of identical tiles in the tile data section,
// or, when RunLength is 0, a leaf directory in the leaf section.
type Entry struct {
	TileID    uint64
	Offset    uint64
	Length    uint32
	RunLength uint32
}

//	directory (uncompressed):
//	varint count
//	count × varint tile id delta
//	count × varint run length
//	count × varint length
//	count × varint offset, 0 = right after the previous entry, else offset+1

// ParseDirectory decodes an uncompressed directory. A directory without
// entries is invalid.
func ParseDirectory(d []byte) ([]Entry, error) {
	r := varintReader{buf: d}
	n := r.next()
	if r.err != nil {
		return nil, r.err
	}
	if n == 0 {
		return nil, ErrEmptyDirectory
	}
	// every entry takes at least four bytes
	if n > uint64(len(d))/4 {
		return nil, xerrors.Errorf("%d entries in %d bytes: %w", n, len(d), ErrMalformedDirectory)
	}

	entries := make([]Entry, n)
	var lastID uint64
	for i := range entries {
		lastID += r.next()
		entries[i].TileID = lastID
	}
	for i := range entries {
		entries[i].RunLength = uint32(r.next())
	}
	for i := range entries {
		entries[i].Length = uint32(r.next())
	}
	for i := range entries {
		v := r.next()
		switch {
		case v > 0:
			entries[i].Offset = v - 1
		case i > 0:
			prev := entries[i-1]
			entries[i].Offset = prev.Offset + uint64(prev.Length)
		default:
			if r.err == nil {
				r.err = xerrors.Errorf("first entry has no offset: %w", ErrMalformedDirectory)
			}
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return entries, nil
}

// SerializeDirectory encodes entries, which must be sorted by TileID, as an
// uncompressed directory.
func SerializeDirectory(entries []Entry) []byte {
	d := make([]byte, 0, len(entries)*4+binary.MaxVarintLen64)
	d = binary.AppendUvarint(d, uint64(len(entries)))

	var lastID uint64
	for _, e := range entries {
		d = binary.AppendUvarint(d, e.TileID-lastID)
		lastID = e.TileID
	}
	for _, e := range entries {
		d = binary.AppendUvarint(d, uint64(e.RunLength))
	}
	for _, e := range entries {
		d = binary.AppendUvarint(d, uint64(e.Length))
	}
	for i, e := range entries {
		if i > 0 && e.Offset == entries[i-1].Offset+uint64(entries[i-1].Length) {
			d = binary.AppendUvarint(d, 0)
		} else {
			d = binary.AppendUvarint(d, e.Offset+1)
		}
	}
	return d
}

// FindTile looks up tileID in entries, sorted by TileID. It returns the
// entry whose run covers tileID, or the leaf directory entry that may hold
// it.
func FindTile(entries []Entry, tileID uint64) (Entry, bool) {
	m := 0
	n := len(entries) - 1
	for m <= n {
		k := (n + m) >> 1
		switch id := entries[k].TileID; {
		case tileID > id:
			m = k + 1
		case tileID < id:
			n = k - 1
		default:
			return entries[k], true
		}
	}

	// m > n: entries[n] is the last entry before tileID
	if n >= 0 {
		if entries[n].RunLength == 0 {
			return entries[n], true
		}
		if tileID-entries[n].TileID < uint64(entries[n].RunLength) {
			return entries[n], true
		}
	}
	return Entry{}, false
}

// varintReader keeps the first error so a directory can be read column by
// column without checking every value.
type varintReader struct {
	buf []byte
	pos int
	err error
}

func (r *varintReader) next() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		r.err = xerrors.Errorf("bad varint at byte %d: %w", r.pos, ErrMalformedDirectory)
		return 0
	}
	r.pos += n
	return v
}
