package core

import (
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with a deterministic seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// RandomInUnitBall returns a uniformly distributed point strictly inside the unit ball
func RandomInUnitBall(sampler Sampler) Vec3 {
	for {
		// Generate random point in [-1,1]³ cube, accept if inside unit sphere
		p := sampler.Get3D().Multiply(2).Subtract(NewVec3(1, 1, 1))
		if l := p.LengthSquared(); l < 1 && l > 0 {
			return p
		}
	}
}

// RandomUnitVector returns a uniformly distributed direction on the unit sphere.
// It normalizes a rejection-sampled point of the unit ball.
func RandomUnitVector(sampler Sampler) Vec3 {
	return RandomInUnitBall(sampler).Normalize()
}

// SampleIndex picks a uniformly random index in [0, n)
func SampleIndex(sampler Sampler, n int) int {
	i := int(sampler.Get1D() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
