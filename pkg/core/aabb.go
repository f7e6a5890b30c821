package core

import "math"

// boxHitEpsilon pulls the reported entry point slightly in front of the box
const boxHitEpsilon = 1e-3

// AABB represents an axis-aligned bounding box.
// The zero value is the empty box, the identity for Union and absorbing for Intersection.
type AABB struct {
	Min      Vec3 // Minimum corner
	Max      Vec3 // Maximum corner
	nonEmpty bool
}

// EmptyAABB returns the empty box
func EmptyAABB() AABB {
	return AABB{}
}

// NewAABB creates a box spanning two corners given in any order
func NewAABB(a, b Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b), nonEmpty: true}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box = box.Union(NewAABB(p, p))
	}
	return box
}

// IsEmpty reports whether this is the empty box
func (b AABB) IsEmpty() bool {
	return !b.nonEmpty
}

// Union returns the smallest box containing both boxes
func (b AABB) Union(other AABB) AABB {
	if b.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return b
	}
	return AABB{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max), nonEmpty: true}
}

// Intersection returns the overlap of both boxes, or the empty box if they are disjoint
func (b AABB) Intersection(other AABB) AABB {
	if b.IsEmpty() || other.IsEmpty() {
		return EmptyAABB()
	}
	newMin := b.Min.Max(other.Min)
	newMax := b.Max.Min(other.Max)
	diagonal := newMax.Subtract(newMin)
	if diagonal.X < 0 || diagonal.Y < 0 || diagonal.Z < 0 {
		return EmptyAABB()
	}
	return AABB{Min: newMin, Max: newMax, nonEmpty: true}
}

// Equal reports whether both boxes have the same corners (all empty boxes are equal)
func (b AABB) Equal(other AABB) bool {
	if b.IsEmpty() || other.IsEmpty() {
		return b.IsEmpty() == other.IsEmpty()
	}
	return b.Min == other.Min && b.Max == other.Max
}

// Center returns the center point of the AABB
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Multiply(0.5)
}

// Diagonal returns the extent of the AABB along each axis
func (b AABB) Diagonal() Vec3 {
	return b.Max.Subtract(b.Min)
}

// Expand returns an AABB expanded by the given amount in all directions
func (b AABB) Expand(amount float64) AABB {
	if b.IsEmpty() {
		return b
	}
	expansion := NewVec3(amount, amount, amount)
	return AABB{Min: b.Min.Subtract(expansion), Max: b.Max.Add(expansion), nonEmpty: true}
}

// Hit tests the ray against the box using the slab method.
// It returns the entry parameter and point (pulled back by a small epsilon).
func (b AABB) Hit(ray Ray) (float64, Vec3, bool) {
	if b.IsEmpty() {
		return 0, Vec3{}, false
	}

	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	inv := ray.InvDirection()

	for axis := 0; axis < 3; axis++ {
		lo := b.Min.Component(axis)
		hi := b.Max.Component(axis)
		origin := ray.Origin.Component(axis)

		// Parallel rays only hit if the origin lies within the slab
		if ray.IsParallel(axis) {
			if origin < lo || origin > hi {
				return 0, Vec3{}, false
			}
			continue
		}

		t1 := (lo - origin) * inv.Component(axis)
		t2 := (hi - origin) * inv.Component(axis)
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
	}

	if tMax < math.Max(tMin, 0) {
		return 0, Vec3{}, false
	}
	// A fully parallel ray that starts inside the box enters at its origin
	if math.IsInf(tMin, -1) {
		tMin = 0
	}
	t := tMin - boxHitEpsilon
	return t, ray.At(t), true
}

// DistanceToPoint returns the signed distance from p to the box surface (negative inside)
func (b AABB) DistanceToPoint(p Vec3) float64 {
	if b.IsEmpty() {
		return math.Inf(1)
	}
	halfExtent := b.Max.Subtract(b.Center())
	q := p.Subtract(b.Center()).Abs().Subtract(halfExtent)
	outside := q.Max(Vec3{}).Length()
	inside := math.Min(0, q.MaxComponent())
	return outside + inside
}

// EstimateNormal approximates the surface normal at p from the distance field gradient
func (b AABB) EstimateNormal(p Vec3) Vec3 {
	const h = 1e-3
	d := b.DistanceToPoint(p)
	grad := NewVec3(
		b.DistanceToPoint(p.Add(NewVec3(h, 0, 0)))-d,
		b.DistanceToPoint(p.Add(NewVec3(0, h, 0)))-d,
		b.DistanceToPoint(p.Add(NewVec3(0, 0, h)))-d,
	)
	if d < 0 {
		grad = grad.Negate()
	}
	return grad.Normalize()
}

// Sample returns a uniformly distributed point inside the box
func (b AABB) Sample(sampler Sampler) Vec3 {
	return b.Min.Add(sampler.Get3D().MultiplyVec(b.Diagonal()))
}
