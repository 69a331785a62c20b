// Package tilecache keeps decoded tile buffers in memory in front of a tile
// archive and hands out read views over them.
package tilecache

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/paulmach/orb/maptile"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/xerrors"

	"github.com/DotIN13/mapzoom/config"
	"github.com/DotIN13/mapzoom/pmtiles"
	"github.com/DotIN13/mapzoom/vectortile"
)

// Source returns the decompressed tile buffer at an address.
// *pmtiles.Reader is a Source.
type Source interface {
	Tile(t maptile.Tile) ([]byte, error)
}

// prefetchLimit bounds the concurrent source reads of one Prefetch call.
const prefetchLimit = 4

// Cache is safe for concurrent use. Cached buffers are never modified, so
// views returned by Tile may be read from any goroutine.
type Cache struct {
	src    Source
	closer io.Closer
	mapID  string
	debug  bool
	log    logrus.FieldLogger

	tiles  *ristretto.Cache[string, []byte]
	flight singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Cache) {
		c.log = l
	}
}

// New returns a Cache in front of src, sized by cfg.Cache. cfg.Archive is
// not used.
func New(src Source, cfg config.Config, opts ...Option) (*Cache, error) {
	if cfg.MapID == "" {
		return nil, xerrors.Errorf("map_id must not be empty: %w", config.ErrInvalidConfig)
	}
	tiles, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: cfg.Cache.NumCounters,
		MaxCost:     cfg.Cache.MaxCost,
		BufferItems: cfg.Cache.BufferItems,
	})
	if err != nil {
		return nil, xerrors.Errorf("tilecache: %w", err)
	}

	c := &Cache{
		src:   src,
		mapID: cfg.MapID,
		debug: cfg.Debug,
		log:   logrus.StandardLogger(),
		tiles: tiles,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Open opens the archive named by cfg and puts a Cache in front of it.
// Close closes the archive.
func Open(cfg config.Config, opts ...Option) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := New(nil, cfg, opts...)
	if err != nil {
		return nil, err
	}
	r, err := pmtiles.Open(cfg.Archive, pmtiles.WithLogger(c.log))
	if err != nil {
		c.tiles.Close()
		return nil, err
	}
	c.src, c.closer = r, r
	return c, nil
}

// Key returns the cache key of t within map mapID.
func Key(mapID string, t maptile.Tile) string {
	return fmt.Sprintf("%s-%d-%d-%d", mapID, t.Z, t.X, t.Y)
}

// Tile returns a view of the tile at t, reading it from the source on a
// miss. Concurrent misses on one tile share a single source read. Source
// errors, such as pmtiles.ErrNotFound, are returned unchanged and are not
// cached.
func (c *Cache) Tile(t maptile.Tile) (*vectortile.Tile, error) {
	buf, err := c.load(t)
	if err != nil {
		return nil, err
	}
	return vectortile.GetRootAsTile(buf, 0)
}

func (c *Cache) load(t maptile.Tile) ([]byte, error) {
	key := Key(c.mapID, t)
	if buf, ok := c.tiles.Get(key); ok {
		return buf, nil
	}

	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		start := time.Now()
		buf, err := c.src.Tile(t)
		if err != nil {
			return nil, err
		}
		if c.debug {
			c.log.WithFields(logrus.Fields{
				"z": t.Z, "x": t.X, "y": t.Y,
				"bytes":   len(buf),
				"elapsed": time.Since(start),
			}).Info("tilecache: fetched tile")
		}

		// only well-formed tiles are kept
		start = time.Now()
		if _, err := vectortile.GetRootAsTile(buf, 0); err != nil {
			return nil, xerrors.Errorf("tilecache: tile %s: %w", key, err)
		}
		if c.debug {
			c.log.WithFields(logrus.Fields{
				"z": t.Z, "x": t.X, "y": t.Y,
				"elapsed": time.Since(start),
			}).Info("tilecache: decoded tile root")
		}

		c.tiles.Set(key, buf, int64(len(buf)))
		c.tiles.Wait()
		return buf, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Prefetch loads tiles into the cache with a few concurrent source reads.
// A tile the source does not have is skipped; any other error stops the
// prefetch and is returned.
func (c *Cache) Prefetch(ctx context.Context, tiles ...maptile.Tile) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchLimit)
	for _, t := range tiles {
		t := t
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := c.load(t); err != nil && !xerrors.Is(err, pmtiles.ErrNotFound) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// Close releases the cache and closes the archive opened by Open.
func (c *Cache) Close() error {
	c.tiles.Close()
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
