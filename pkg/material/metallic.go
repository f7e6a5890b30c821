package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Metallic represents a metallic material with specular reflection
type Metallic struct {
	Fuzz float64 // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetallic creates a new metallic material, clamping fuzz to [0, 1]
func NewMetallic(fuzz float64) *Metallic {
	return &Metallic{Fuzz: clamp01(fuzz)}
}

// Scatter implements the Material interface for metal scattering
func (m *Metallic) Scatter(in core.Ray, point core.Vec3, surface Surface, sampler core.Sampler) core.Ray {
	normal := facingNormal(in, point, surface)
	reflected := reflect(in.Direction, normal)

	// Add fuzziness by perturbing the reflection direction
	if m.Fuzz > 0 {
		reflected = reflected.Add(core.RandomUnitVector(sampler).Multiply(m.Fuzz))
	}

	return core.NewRay(point, reflected)
}

// Spec implements the Material interface
func (m *Metallic) Spec() Spec {
	return Spec{Type: TypeMetallic, Args: []float64{m.Fuzz}}
}
