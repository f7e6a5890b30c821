// Package cache implements an approximate radiance cache keyed by a spatial hash grid.
//
// Lookups are deliberately lossy: a populated cell only answers a fraction of the time,
// and its answer is blended with nearby cells found by jittering the query. The cache
// therefore biases the image toward smoother lighting in exchange for less noise.
package cache

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Large odd primes for the spatial hash
const (
	primeX = 73856093
	primeY = 19349663
	primeZ = 83492791
)

// Config controls quantization and lookup behavior
type Config struct {
	CellSize      float64 // Edge length of a position cell
	DirectionCell float64 // Edge length of a cell in the folded direction square
	Directional   bool    // Key on direction as well as position
	HitRate       float64 // Probability that a populated lookup answers
	Neighbors     int     // Jittered neighbor samples per answered lookup
	Buckets       uint32  // Number of hash buckets
}

// DefaultConfig returns the standard cache settings
func DefaultConfig() Config {
	return Config{
		CellSize:      0.05,
		DirectionCell: 0.25,
		Directional:   true,
		HitRate:       0.25,
		Neighbors:     10,
		Buckets:       1_000_000,
	}
}

type entry struct {
	avg   core.Color
	count int
}

// RadianceCache maps quantized (position, direction) keys to running-mean colors.
// It is not safe for concurrent use; give each worker its own cache.
type RadianceCache struct {
	config  Config
	entries map[uint32]*entry
}

// NewRadianceCache creates an empty cache. Zero fields of config fall back to defaults.
func NewRadianceCache(config Config) *RadianceCache {
	def := DefaultConfig()
	if config.CellSize <= 0 {
		config.CellSize = def.CellSize
	}
	if config.DirectionCell <= 0 {
		config.DirectionCell = def.DirectionCell
	}
	if config.Buckets == 0 {
		config.Buckets = def.Buckets
	}
	if config.Neighbors < 0 {
		config.Neighbors = 0
	}
	return &RadianceCache{
		config:  config,
		entries: make(map[uint32]*entry),
	}
}

// Config returns the cache's effective configuration
func (rc *RadianceCache) Config() Config {
	return rc.config
}

// Len returns the number of populated buckets
func (rc *RadianceCache) Len() int {
	return len(rc.entries)
}

// Set folds c into the running mean of the bucket for (p, d)
func (rc *RadianceCache) Set(p, d core.Vec3, c core.Color) {
	key := rc.key(p, d)
	e, ok := rc.entries[key]
	if !ok {
		rc.entries[key] = &entry{avg: c, count: 1}
		return
	}
	e.count++
	e.avg = e.avg.Add(c.Subtract(e.avg).Scale(1 / float64(e.count)))
}

// Get returns a smoothed estimate for (p, d). It misses when the bucket is empty and,
// with probability 1-HitRate, even when it is populated.
func (rc *RadianceCache) Get(p, d core.Vec3, sampler core.Sampler) (core.Color, bool) {
	if sampler.Get1D() >= rc.config.HitRate {
		return core.Black, false
	}
	target, ok := rc.entries[rc.key(p, d)]
	if !ok {
		return core.Black, false
	}

	sum := target.avg
	found := 1
	for i := 0; i < rc.config.Neighbors; i++ {
		p2 := p.Add(core.RandomInUnitBall(sampler).Multiply(rc.config.CellSize))
		d2 := d
		if rc.config.Directional {
			d2 = d.Add(core.RandomInUnitBall(sampler).Multiply(rc.config.DirectionCell)).Normalize()
		}
		if e, ok := rc.entries[rc.key(p2, d2)]; ok {
			sum = sum.Add(e.avg)
			found++
		}
	}
	return sum.Scale(1 / float64(found)), true
}

// key hashes the cell of p, and of d when the cache is directional, into a bucket index
func (rc *RadianceCache) key(p, d core.Vec3) uint32 {
	inv := 1 / rc.config.CellSize
	h := wrap(math.Floor(p.X*inv)*primeX) ^
		wrap(math.Floor(p.Y*inv)*primeY) ^
		wrap(math.Floor(p.Z*inv)*primeZ)

	if rc.config.Directional {
		u, v := foldDirection(d)
		invDir := 1 / rc.config.DirectionCell
		h ^= wrap(math.Floor(u*invDir)*primeY) ^ wrap(math.Floor(v*invDir)*primeZ)
	}
	return uint32(h) % rc.config.Buckets
}

// foldDirection maps a direction onto the unit square with an octahedral projection
func foldDirection(d core.Vec3) (float64, float64) {
	l1 := math.Abs(d.X) + math.Abs(d.Y) + math.Abs(d.Z)
	if l1 == 0 {
		return 0, 0
	}
	u, v, w := d.X/l1, d.Y/l1, d.Z/l1
	if w < 0 {
		u, v = sign(u)*(1-math.Abs(v)), sign(v)*(1-math.Abs(u))
	}
	return u, v
}

// wrap truncates an integral float to 32 bits the way two's-complement multiplication would
func wrap(x float64) int32 {
	return int32(int64(x))
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
