package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	primitive
	Center core.Vec3
	Radius float64
	color  core.Color
}

// NewSphere creates a new sphere. Prefer SphereBuilder when attributes come from user input.
func NewSphere(name string, center core.Vec3, radius float64, color core.Color, mat material.Material, emissive bool) *Sphere {
	r := core.NewVec3(radius, radius, radius)
	return &Sphere{
		primitive: primitive{
			name:     name,
			emissive: emissive,
			material: mat,
			bbox:     core.NewAABB(center.Subtract(r), center.Add(r)),
		},
		Center: center,
		Radius: radius,
		color:  color,
	}
}

// Intersect tests if a ray intersects with the sphere.
// The ray direction is unit length, so the quadratic's leading coefficient is 1.
func (s *Sphere) Intersect(ray core.Ray) (Hit, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// t² + 2·halfB·t + c = 0
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - c
	if discriminant < 0 {
		return Hit{}, false
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := -halfB - sqrtD
	t2 := -halfB + sqrtD

	var t float64
	switch {
	case t1 >= hitEpsilon:
		t = t1
	case t2 >= hitEpsilon:
		// Origin is inside the sphere
		t = t2
	default:
		return Hit{}, false
	}

	// Pull the point back toward the incoming side of the surface
	t -= hitEpsilon
	return Hit{T: t, Point: ray.At(t)}, true
}

// NormalAt returns the outward normal at p
func (s *Sphere) NormalAt(p core.Vec3) core.Vec3 {
	return p.Subtract(s.Center).Normalize()
}

// IsInside reports whether p is strictly inside the sphere
func (s *Sphere) IsInside(p core.Vec3) bool {
	return p.Subtract(s.Center).LengthSquared() < s.Radius*s.Radius
}

// Sample returns a uniform point on the sphere's surface
func (s *Sphere) Sample(sampler core.Sampler) core.Vec3 {
	return s.Center.Add(core.RandomUnitVector(sampler).Multiply(s.Radius))
}

// Color returns the sphere's flat color
func (s *Sphere) Color() core.Color {
	return s.color
}

// Record implements Geometry
func (s *Sphere) Record() Record {
	center := s.Center
	radius := s.Radius
	color := s.color
	return Record{
		Type:     TypeSphere,
		Name:     s.name,
		Emissive: s.emissive,
		Color:    &color,
		Position: &center,
		Radius:   &radius,
		Material: s.material.Spec(),
	}
}
