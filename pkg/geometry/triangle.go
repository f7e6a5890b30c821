package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	primitive
	V0, V1, V2 core.Vec3     // The three vertices
	colors     [3]core.Color // Per-vertex colors, the first is the flat color
	normal     core.Vec3     // Cached unit face normal
	edgeNormal [3]core.Vec3  // Unit in-plane normal of each edge, pointing inward
}

// NewTriangle creates a new triangle. The face normal follows (v1-v0)×(v2-v0).
func NewTriangle(name string, v0, v1, v2 core.Vec3, colors [3]core.Color, mat material.Material, emissive bool) *Triangle {
	normal := v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	vertices := [3]core.Vec3{v0, v1, v2}
	var edgeNormal [3]core.Vec3
	for i, v := range vertices {
		edgeNormal[i] = normal.Cross(vertices[(i+1)%3].Subtract(v)).Normalize()
	}
	return &Triangle{
		primitive: primitive{
			name:     name,
			emissive: emissive,
			material: mat,
			bbox:     core.NewAABBFromPoints(v0, v1, v2),
		},
		V0:         v0,
		V1:         v1,
		V2:         v2,
		colors:     colors,
		normal:     normal,
		edgeNormal: edgeNormal,
	}
}

// Intersect solves the ray-plane equation and applies the edge-function inside test
func (t *Triangle) Intersect(ray core.Ray) (Hit, bool) {
	denom := t.normal.Dot(ray.Direction)
	if denom == 0 {
		// Ray is parallel to the triangle's plane
		return Hit{}, false
	}

	tParam := -t.normal.Dot(ray.Origin.Subtract(t.V0)) / denom
	if tParam <= hitEpsilon || math.IsInf(tParam, 0) || math.IsNaN(tParam) {
		return Hit{}, false
	}

	p := ray.At(tParam)
	if !t.contains(p) {
		return Hit{}, false
	}
	return Hit{T: tParam, Point: p}, true
}

// contains reports whether a point in the triangle's plane lies strictly within all three
// edges. The margin is a distance, so it does not depend on the triangle's size.
func (t *Triangle) contains(p core.Vec3) bool {
	vertices := [3]core.Vec3{t.V0, t.V1, t.V2}
	for i, v := range vertices {
		if t.edgeNormal[i].Dot(p.Subtract(v)) <= hitEpsilon {
			return false
		}
	}
	return true
}

// NormalAt returns the constant face normal
func (t *Triangle) NormalAt(p core.Vec3) core.Vec3 {
	return t.normal
}

// IsInside reports whether p lies behind the face normal
func (t *Triangle) IsInside(p core.Vec3) bool {
	return t.normal.Dot(p.Subtract(t.V0)) < 0
}

// Sample returns a uniform point on the triangle
func (t *Triangle) Sample(sampler core.Sampler) core.Vec3 {
	uv := sampler.Get2D()
	u, v := uv.X, uv.Y
	// Fold the unit square onto the triangle
	if u+v > 1 {
		u, v = 1-u, 1-v
	}
	return t.V0.Add(t.V1.Subtract(t.V0).Multiply(u)).Add(t.V2.Subtract(t.V0).Multiply(v))
}

// Color returns the first vertex color
func (t *Triangle) Color() core.Color {
	return t.colors[0]
}

// Colors returns all three vertex colors
func (t *Triangle) Colors() [3]core.Color {
	return t.colors
}

// Normal returns the unit face normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// Record implements Geometry
func (t *Triangle) Record() Record {
	colors := t.colors
	return Record{
		Type:      TypeTriangle,
		Name:      t.name,
		Emissive:  t.emissive,
		Colors:    colors[:],
		Positions: []core.Vec3{t.V0, t.V1, t.V2},
		Material:  t.material.Spec(),
	}
}
