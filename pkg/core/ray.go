package core

import "math"

// parallelEpsilon is the smallest direction component treated as non-zero by the slab test
const parallelEpsilon = 1e-12

// Ray represents a ray with an origin and a unit direction.
// The reciprocal direction is cached for slab tests; axes whose direction
// component is (near) zero are flagged parallel instead of storing an infinity.
type Ray struct {
	Origin    Vec3
	Direction Vec3
	invDir    Vec3
	parallel  [3]bool
}

// NewRay creates a new ray, normalizing the direction
func NewRay(origin, direction Vec3) Ray {
	d := direction.Normalize()
	r := Ray{Origin: origin, Direction: d}
	for axis := 0; axis < 3; axis++ {
		c := d.Component(axis)
		inv := 0.0
		if math.Abs(c) < parallelEpsilon {
			r.parallel[axis] = true
		} else {
			inv = 1.0 / c
		}
		switch axis {
		case 0:
			r.invDir.X = inv
		case 1:
			r.invDir.Y = inv
		case 2:
			r.invDir.Z = inv
		}
	}
	return r
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// ParamOf returns the parameter t of the point on the ray closest to p.
// For a point on the ray this recovers t exactly; no per-axis division is involved.
func (r Ray) ParamOf(p Vec3) float64 {
	return p.Subtract(r.Origin).Dot(r.Direction)
}

// InvDirection returns the cached per-axis reciprocal direction (0 on parallel axes)
func (r Ray) InvDirection() Vec3 {
	return r.invDir
}

// IsParallel reports whether the ray is parallel to the given axis
func (r Ray) IsParallel(axis int) bool {
	return r.parallel[axis]
}
