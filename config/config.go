// Package config loads the TOML settings of a tile cache.
//
//	archive = "data/shanghai.pmtiles"
//	map_id  = "shanghai-v1"
//	debug   = true
//
//	[cache]
//	num_counters = 10000
//	max_cost     = 67108864
//	buffer_items = 64
package config

import (
	"io"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/xerrors"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = xerrors.New("config: invalid")

const (
	DefaultMapID       = "mapzoom"
	DefaultNumCounters = 1e4
	DefaultMaxCost     = 64 << 20
	DefaultBufferItems = 64
)

// Config is the top level of a config file.
type Config struct {
	// Archive is the path of the PMTiles archive to serve tiles from.
	Archive string `toml:"archive"`
	// MapID prefixes every cache key, so tiles of different maps or map
	// versions never collide.
	MapID string `toml:"map_id"`
	// Debug logs how long each tile fetch and decode took.
	Debug bool  `toml:"debug"`
	Cache Cache `toml:"cache"`
}

// Cache sizes the in-memory tile cache. MaxCost is in bytes of tile data.
type Cache struct {
	NumCounters int64 `toml:"num_counters"`
	MaxCost     int64 `toml:"max_cost"`
	BufferItems int64 `toml:"buffer_items"`
}

// Default returns a Config with every default filled in and no archive.
func Default() Config {
	return Config{
		MapID: DefaultMapID,
		Cache: Cache{
			NumCounters: DefaultNumCounters,
			MaxCost:     DefaultMaxCost,
			BufferItems: DefaultBufferItems,
		},
	}
}

// Load reads the config file at path. Keys missing from the file keep
// their defaults.
func Load(path string) (Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, xerrors.Errorf("config: %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, xerrors.Errorf("config: %s: %w", path, err)
	}
	return c, c.Validate()
}

// Parse is Load for a config read from r.
func Parse(r io.Reader) (Config, error) {
	c := Default()
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return Config{}, xerrors.Errorf("config: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, xerrors.Errorf("config: %w", err)
	}
	return c, c.Validate()
}

// unknown keys are most likely typos
func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	sort.Strings(keys)
	return xerrors.Errorf("unknown keys %s: %w", strings.Join(keys, ", "), ErrInvalidConfig)
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	switch {
	case c.Archive == "":
		return xerrors.Errorf("archive is required: %w", ErrInvalidConfig)
	case c.MapID == "":
		return xerrors.Errorf("map_id must not be empty: %w", ErrInvalidConfig)
	case c.Cache.NumCounters <= 0:
		return xerrors.Errorf("cache.num_counters must be positive, got %d: %w", c.Cache.NumCounters, ErrInvalidConfig)
	case c.Cache.MaxCost <= 0:
		return xerrors.Errorf("cache.max_cost must be positive, got %d: %w", c.Cache.MaxCost, ErrInvalidConfig)
	case c.Cache.BufferItems <= 0:
		return xerrors.Errorf("cache.buffer_items must be positive, got %d: %w", c.Cache.BufferItems, ErrInvalidConfig)
	}
	return nil
}
