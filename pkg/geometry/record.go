package geometry

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Primitive type tags used in serialized scenes
const (
	TypeSphere   = "Sphere"
	TypeTriangle = "Triangle"
)

// Record is the serialized form of a primitive.
// Spheres use Color, Position and Radius; triangles use Colors and Positions.
type Record struct {
	Type      string        `json:"type"`
	Name      string        `json:"name"`
	Emissive  bool          `json:"emissive"`
	Color     *core.Color   `json:"color,omitempty"`
	Colors    []core.Color  `json:"colors,omitempty"`
	Position  *core.Vec3    `json:"position,omitempty"`
	Radius    *float64      `json:"radius,omitempty"`
	Positions []core.Vec3   `json:"positions,omitempty"`
	Material  material.Spec `json:"material"`
}

// FromRecord rebuilds a primitive, resolving its material through the material registry
func FromRecord(r Record) (Geometry, error) {
	mat, err := material.FromSpec(r.Material)
	if err != nil {
		return nil, fmt.Errorf("primitive %q: %w", r.Name, err)
	}

	switch r.Type {
	case TypeSphere:
		b := NewSphereBuilder().Material(mat).Emissive(r.Emissive)
		if r.Name != "" {
			b.Name(r.Name)
		}
		if r.Position != nil {
			b.Position(*r.Position)
		}
		if r.Radius != nil {
			b.Radius(*r.Radius)
		}
		if r.Color != nil {
			b.Color(*r.Color)
		} else if len(r.Colors) > 0 {
			b.Color(r.Colors[0])
		}
		s, err := b.Build()
		if err != nil {
			return nil, err
		}
		return s, nil

	case TypeTriangle:
		b := NewTriangleBuilder().Material(mat).Emissive(r.Emissive)
		if r.Name != "" {
			b.Name(r.Name)
		}
		if len(r.Positions) == 3 {
			b.Positions(r.Positions[0], r.Positions[1], r.Positions[2])
		} else if len(r.Positions) != 0 {
			return nil, fmt.Errorf("triangle %q needs 3 positions, got %d", r.Name, len(r.Positions))
		}
		switch {
		case len(r.Colors) == 3:
			b.Colors(r.Colors[0], r.Colors[1], r.Colors[2])
		case len(r.Colors) == 1:
			b.Color(r.Colors[0])
		case r.Color != nil:
			b.Color(*r.Color)
		}
		t, err := b.Build()
		if err != nil {
			return nil, err
		}
		return t, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, r.Type)
	}
}
