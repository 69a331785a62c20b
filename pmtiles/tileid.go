package pmtiles

import (
	"github.com/paulmach/orb/maptile"
	"golang.org/x/xerrors"
)

// MaxZoom is the deepest zoom whose tile ids fit in a uint64.
const MaxZoom = 26

// ID returns the tile id of t: the number of tiles on all lower zoom levels
// plus the position of t along the Hilbert curve of its level.
func ID(t maptile.Tile) (uint64, error) {
	if t.Z > MaxZoom {
		return 0, xerrors.Errorf("zoom %d exceeds %d: %w", t.Z, MaxZoom, ErrInvalidTile)
	}
	z := uint(t.Z)
	if n := uint64(1) << z; uint64(t.X) >= n || uint64(t.Y) >= n {
		return 0, xerrors.Errorf("tile %d/%d/%d: %w", t.Z, t.X, t.Y, ErrInvalidTile)
	}

	acc := (uint64(1)<<(2*z) - 1) / 3
	if z == 0 {
		return acc, nil
	}
	x, y := uint64(t.X), uint64(t.Y)
	for s := uint64(1) << (z - 1); s > 0; s >>= 1 {
		var rx, ry uint64
		if x&s != 0 {
			rx = 1
		}
		if y&s != 0 {
			ry = 1
		}
		acc += s * s * ((3 * rx) ^ ry)
		x, y = rotate(s, x, y, rx, ry)
	}
	return acc, nil
}

// TileFromID is the inverse of ID.
func TileFromID(id uint64) (maptile.Tile, error) {
	var acc uint64
	for z := uint(0); z <= MaxZoom; z++ {
		num := uint64(1) << (2 * z)
		if acc+num > id {
			x, y := onLevel(z, id-acc)
			return maptile.New(x, y, maptile.Zoom(z)), nil
		}
		acc += num
	}
	return maptile.Tile{}, xerrors.Errorf("tile id %d: %w", id, ErrInvalidTile)
}

// onLevel walks the Hilbert curve of level z up to position pos.
func onLevel(z uint, pos uint64) (uint32, uint32) {
	n := uint64(1) << z
	t := pos
	var tx, ty uint64
	for s := uint64(1); s < n; s *= 2 {
		rx := 1 & (t / 2)
		ry := 1 & (t ^ rx)
		tx, ty = rotate(s, tx, ty, rx, ry)
		tx += s * rx
		ty += s * ry
		t /= 4
	}
	return uint32(tx), uint32(ty)
}

// rotate flips the quadrant so the curve keeps its orientation. Only the
// bits below n are meaningful.
func rotate(n, x, y, rx, ry uint64) (uint64, uint64) {
	if ry == 0 {
		if rx == 1 {
			x = n - 1 - x
			y = n - 1 - y
		}
		return y, x
	}
	return x, y
}
