package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Alpha is a stochastically transparent surface: it scatters diffusely with probability
// Alpha and otherwise lets the ray continue unchanged.
type Alpha struct {
	Alpha   float64
	diffuse Diffuse
}

// NewAlpha creates a new alpha material, clamping alpha to [0, 1]
func NewAlpha(alpha float64) *Alpha {
	return &Alpha{Alpha: clamp01(alpha)}
}

// Scatter implements the Material interface
func (a *Alpha) Scatter(in core.Ray, point core.Vec3, surface Surface, sampler core.Sampler) core.Ray {
	if sampler.Get1D() < a.Alpha {
		return a.diffuse.Scatter(in, point, surface, sampler)
	}
	return core.NewRay(point.Add(in.Direction.Multiply(surfaceEpsilon)), in.Direction)
}

// Spec implements the Material interface
func (a *Alpha) Spec() Spec {
	return Spec{Type: TypeAlpha, Args: []float64{a.Alpha}}
}
