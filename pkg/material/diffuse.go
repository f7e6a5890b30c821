package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Diffuse represents a Lambertian-like matte surface.
// Directions are uniform over the hemisphere facing the incoming ray, not cosine weighted;
// the integrator's factor of 2 compensates for that.
type Diffuse struct{}

// NewDiffuse creates a new diffuse material
func NewDiffuse() *Diffuse {
	return &Diffuse{}
}

// Scatter implements the Material interface for diffuse scattering
func (d *Diffuse) Scatter(in core.Ray, point core.Vec3, surface Surface, sampler core.Sampler) core.Ray {
	normal := facingNormal(in, point, surface)
	direction := core.RandomUnitVector(sampler)
	if direction.Dot(normal) < 0 {
		direction = direction.Negate()
	}
	return core.NewRay(point, direction)
}

// Spec implements the Material interface
func (d *Diffuse) Spec() Spec {
	return Spec{Type: TypeDiffuse, Args: []float64{}}
}
