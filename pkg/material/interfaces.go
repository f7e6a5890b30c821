package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// surfaceEpsilon is how far pass-through and refracted rays are advanced past the surface
const surfaceEpsilon = 1e-3

// Surface is the part of a primitive a material needs in order to scatter
type Surface interface {
	// NormalAt returns the outward geometric normal at p
	NormalAt(p core.Vec3) core.Vec3
	// IsInside reports whether p lies in the primitive's interior
	IsInside(p core.Vec3) bool
}

// Material turns an incoming ray at a hit point into one outgoing ray anchored at that point
type Material interface {
	Scatter(in core.Ray, point core.Vec3, surface Surface, sampler core.Sampler) core.Ray

	// Spec returns the variant tag and constructor arguments used for serialization
	Spec() Spec
}

// facingNormal returns the surface normal flipped toward the side the ray came from
func facingNormal(in core.Ray, point core.Vec3, surface Surface) core.Vec3 {
	return core.FaceForward(surface.NormalAt(point), in.Direction)
}

// reflect calculates the reflection of a vector v off a surface with normal n
func reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

func clamp01(x float64) float64 {
	return max(0, min(1, x))
}
