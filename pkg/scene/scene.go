package scene

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// boundsSlack widens the aggregate box for the early-reject test
const boundsSlack = 1e-6

// Scene is an insertion-ordered collection of primitives with an aggregate bounding box.
// Intersection is a linear scan; there is no spatial index beyond the aggregate box.
type Scene struct {
	elements []geometry.Geometry
	byName   map[string]geometry.Geometry
	lights   []geometry.Geometry
	bounds   core.AABB
}

// Interception is the closest primitive hit along a ray
type Interception struct {
	T       float64
	Point   core.Vec3
	Element geometry.Geometry
}

// New creates an empty scene
func New() *Scene {
	return &Scene{byName: make(map[string]geometry.Geometry)}
}

// Add appends primitives. A later primitive with an existing name replaces it in name lookups.
func (s *Scene) Add(elements ...geometry.Geometry) *Scene {
	for _, e := range elements {
		s.elements = append(s.elements, e)
		s.byName[e.Name()] = e
		s.bounds = s.bounds.Union(e.BoundingBox())
		if e.Emissive() {
			s.lights = append(s.lights, e)
		}
	}
	return s
}

// AddQuad adds the parallelogram corner + [0,1]·u + [0,1]·v as two triangles named
// name_0 and name_1. Its face normal follows u×v.
func (s *Scene) AddQuad(name string, corner, u, v core.Vec3, color core.Color, emissive bool, mat material.Material) error {
	far := corner.Add(u).Add(v)
	first, err := geometry.NewTriangleBuilder().
		Name(name+"_0").
		Positions(corner, corner.Add(u), far).
		Color(color).
		Material(mat).
		Emissive(emissive).
		Build()
	if err != nil {
		return fmt.Errorf("quad %q: %w", name, err)
	}
	second, err := geometry.NewTriangleBuilder().
		Name(name+"_1").
		Positions(corner, far, corner.Add(v)).
		Color(color).
		Material(mat).
		Emissive(emissive).
		Build()
	if err != nil {
		return fmt.Errorf("quad %q: %w", name, err)
	}
	s.Add(first, second)
	return nil
}

// Elements returns the primitives in insertion order
func (s *Scene) Elements() []geometry.Geometry {
	return s.elements
}

// Get looks up a primitive by name
func (s *Scene) Get(name string) (geometry.Geometry, bool) {
	e, ok := s.byName[name]
	return e, ok
}

// Lights returns the emissive primitives in insertion order
func (s *Scene) Lights() []geometry.Geometry {
	return s.lights
}

// Bounds returns the union of all primitive bounding boxes
func (s *Scene) Bounds() core.AABB {
	return s.bounds
}

// Len returns the number of primitives
func (s *Scene) Len() int {
	return len(s.elements)
}

// Clear removes every primitive
func (s *Scene) Clear() {
	s.elements = nil
	s.lights = nil
	s.byName = make(map[string]geometry.Geometry)
	s.bounds = core.EmptyAABB()
}

// Intercept finds the primitive hit nearest to the ray origin
func (s *Scene) Intercept(ray core.Ray) (Interception, bool) {
	if _, _, ok := s.bounds.Expand(boundsSlack).Hit(ray); !ok {
		return Interception{}, false
	}

	var closest Interception
	closestDistance := -1.0
	for _, e := range s.elements {
		hit, ok := e.Intersect(ray)
		if !ok {
			continue
		}
		distance := hit.Point.Subtract(ray.Origin).Length()
		if closestDistance < 0 || distance < closestDistance {
			closest = Interception{T: hit.T, Point: hit.Point, Element: e}
			closestDistance = distance
		}
	}
	return closest, closestDistance >= 0
}

// Serialize returns the primitive records in insertion order
func (s *Scene) Serialize() []geometry.Record {
	records := make([]geometry.Record, len(s.elements))
	for i, e := range s.elements {
		records[i] = e.Record()
	}
	return records
}

// Deserialize rebuilds a scene from primitive records
func Deserialize(records []geometry.Record) (*Scene, error) {
	s := New()
	for i, r := range records {
		e, err := geometry.FromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("scene element %d: %w", i, err)
		}
		s.Add(e)
	}
	return s, nil
}
