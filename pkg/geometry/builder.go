package geometry

import (
	"fmt"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// missing collects the names of unset required attributes
type missing []string

func (m *missing) check(set bool, name string) {
	if !set {
		*m = append(*m, name)
	}
}

func (m missing) err(kind string) error {
	if len(m) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s missing %s", ErrIncomplete, kind, strings.Join(m, ", "))
}

// SphereBuilder assembles a Sphere, failing at Build if a required attribute is unset
type SphereBuilder struct {
	name     *string
	center   *core.Vec3
	radius   *float64
	color    *core.Color
	material material.Material
	emissive bool
}

// NewSphereBuilder creates an empty sphere builder
func NewSphereBuilder() *SphereBuilder {
	return &SphereBuilder{}
}

func (b *SphereBuilder) Name(name string) *SphereBuilder {
	b.name = &name
	return b
}

func (b *SphereBuilder) Position(center core.Vec3) *SphereBuilder {
	b.center = &center
	return b
}

func (b *SphereBuilder) Radius(radius float64) *SphereBuilder {
	b.radius = &radius
	return b
}

func (b *SphereBuilder) Color(color core.Color) *SphereBuilder {
	b.color = &color
	return b
}

func (b *SphereBuilder) Material(m material.Material) *SphereBuilder {
	b.material = m
	return b
}

func (b *SphereBuilder) Emissive(emissive bool) *SphereBuilder {
	b.emissive = emissive
	return b
}

// Build validates the builder and returns the sphere
func (b *SphereBuilder) Build() (*Sphere, error) {
	var m missing
	m.check(b.name != nil, "name")
	m.check(b.center != nil, "position")
	m.check(b.radius != nil, "radius")
	m.check(b.color != nil, "color")
	m.check(b.material != nil, "material")
	if err := m.err("sphere"); err != nil {
		return nil, err
	}
	return NewSphere(*b.name, *b.center, *b.radius, *b.color, b.material, b.emissive), nil
}

// TriangleBuilder assembles a Triangle, failing at Build if a required attribute is unset
type TriangleBuilder struct {
	name      *string
	positions *[3]core.Vec3
	colors    *[3]core.Color
	material  material.Material
	emissive  bool
}

// NewTriangleBuilder creates an empty triangle builder
func NewTriangleBuilder() *TriangleBuilder {
	return &TriangleBuilder{}
}

func (b *TriangleBuilder) Name(name string) *TriangleBuilder {
	b.name = &name
	return b
}

func (b *TriangleBuilder) Positions(v0, v1, v2 core.Vec3) *TriangleBuilder {
	b.positions = &[3]core.Vec3{v0, v1, v2}
	return b
}

// Colors sets one color per vertex
func (b *TriangleBuilder) Colors(c0, c1, c2 core.Color) *TriangleBuilder {
	b.colors = &[3]core.Color{c0, c1, c2}
	return b
}

// Color sets the same color on every vertex
func (b *TriangleBuilder) Color(c core.Color) *TriangleBuilder {
	return b.Colors(c, c, c)
}

func (b *TriangleBuilder) Material(m material.Material) *TriangleBuilder {
	b.material = m
	return b
}

func (b *TriangleBuilder) Emissive(emissive bool) *TriangleBuilder {
	b.emissive = emissive
	return b
}

// Build validates the builder and returns the triangle
func (b *TriangleBuilder) Build() (*Triangle, error) {
	var m missing
	m.check(b.name != nil, "name")
	m.check(b.positions != nil, "positions")
	m.check(b.colors != nil, "colors")
	m.check(b.material != nil, "material")
	if err := m.err("triangle"); err != nil {
		return nil, err
	}
	p := b.positions
	return NewTriangle(*b.name, p[0], p[1], p[2], *b.colors, b.material, b.emissive), nil
}
