package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// insideOffset is how far behind the hit point IsInside is evaluated
const insideOffset = 1e-6

// Dielectric represents a transparent material like glass that refracts or, past the
// critical angle, totally internally reflects
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// Scatter implements the Material interface for dielectric scattering
func (d *Dielectric) Scatter(in core.Ray, point core.Vec3, surface Surface, sampler core.Sampler) core.Ray {
	// The ray is leaving the medium if it arrived from the interior
	cameFrom := point.Subtract(in.Direction.Multiply(insideOffset))
	refractionRatio := 1.0 / d.RefractiveIndex
	if surface.IsInside(cameFrom) {
		refractionRatio = d.RefractiveIndex
	}

	// n points along the ray, into the transmission side
	n := facingNormal(in, point, surface).Negate()
	vIn := in.Direction

	cosIn := math.Min(1, vIn.Dot(n))
	sinIn := math.Sqrt(math.Max(0, 1-cosIn*cosIn))
	sinOut := refractionRatio * sinIn

	if sinOut > 1 {
		// Total internal reflection
		return core.NewRay(point, reflect(vIn, n))
	}

	cosOut := math.Sqrt(1 - sinOut*sinOut)
	tangent := vIn.Subtract(n.Multiply(cosIn)).Normalize()
	direction := n.Multiply(cosOut).Add(tangent.Multiply(sinOut))

	return core.NewRay(point.Add(vIn.Multiply(surfaceEpsilon)), direction)
}

// Spec implements the Material interface
func (d *Dielectric) Spec() Spec {
	return Spec{Type: TypeDielectric, Args: []float64{d.RefractiveIndex}}
}

// CriticalAngle returns the incidence angle above which light leaving the medium is totally reflected
func (d *Dielectric) CriticalAngle() float64 {
	if d.RefractiveIndex <= 1 {
		return math.Pi / 2
	}
	return math.Asin(1 / d.RefractiveIndex)
}
