package geometry

import (
	"errors"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// hitEpsilon is the smallest ray parameter accepted as a hit in front of the origin
const hitEpsilon = 1e-9

var (
	// ErrIncomplete is returned by builders when a required attribute was never set
	ErrIncomplete = errors.New("incomplete object")
	// ErrUnknownType is returned when a record names a primitive type that does not exist
	ErrUnknownType = errors.New("unknown geometry type")
)

// Hit describes where a ray meets a primitive
type Hit struct {
	T     float64   // Parameter t along the ray
	Point core.Vec3 // Point of intersection
}

// Geometry is a scene primitive: a shape with a material, a flat color and an emissive flag
type Geometry interface {
	material.Surface

	Name() string
	Intersect(ray core.Ray) (Hit, bool)
	BoundingBox() core.AABB
	// Sample returns a uniformly distributed point on the surface
	Sample(sampler core.Sampler) core.Vec3
	Material() material.Material
	Emissive() bool
	Color() core.Color
	// Record returns the serializable form of the primitive
	Record() Record
}

// primitive holds the attributes shared by every Geometry
type primitive struct {
	name     string
	emissive bool
	material material.Material
	bbox     core.AABB
}

func (p *primitive) Name() string                { return p.name }
func (p *primitive) Emissive() bool              { return p.emissive }
func (p *primitive) Material() material.Material { return p.material }
func (p *primitive) BoundingBox() core.AABB      { return p.bbox }
