package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewCornellScene creates a classic Cornell box: six walls as twelve triangles,
// a rectangular ceiling light and one diffuse sphere. The box spans [-1,1]³ with z up.
func NewCornellScene() (*Scene, *camera.Camera) {
	s := New()

	white := core.NewColor(0.73, 0.73, 0.73)
	red := core.NewColor(0.65, 0.05, 0.05)
	green := core.NewColor(0.12, 0.45, 0.15)
	diffuse := material.NewDiffuse()

	// Every wall's normal faces into the box
	walls := []struct {
		name   string
		corner core.Vec3
		u, v   core.Vec3
		color  core.Color
	}{
		{"floor", core.NewVec3(-1, -1, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), white},
		{"ceiling", core.NewVec3(-1, -1, 1), core.NewVec3(0, 2, 0), core.NewVec3(2, 0, 0), white},
		{"back", core.NewVec3(-1, 1, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), white},
		{"front", core.NewVec3(-1, -1, -1), core.NewVec3(0, 0, 2), core.NewVec3(2, 0, 0), white},
		{"left", core.NewVec3(-1, -1, -1), core.NewVec3(0, 2, 0), core.NewVec3(0, 0, 2), red},
		{"right", core.NewVec3(1, -1, -1), core.NewVec3(0, 0, 2), core.NewVec3(0, 2, 0), green},
	}
	for _, w := range walls {
		mustAddQuad(s, w.name, w.corner, w.u, w.v, w.color, false, diffuse)
	}

	// Ceiling light, facing down
	mustAddQuad(s, "light",
		core.NewVec3(-0.3, -0.3, 0.99), core.NewVec3(0, 0.6, 0), core.NewVec3(0.6, 0, 0),
		core.NewColor(3, 3, 3), true, diffuse)

	s.Add(geometry.NewSphere("sphere", core.NewVec3(0.3, 0.3, -0.6), 0.4, white, diffuse, false))

	cam := camera.NewCamera().Orbit(0.95, -math.Pi/2, 0)
	return s, cam
}

// mustAddQuad adds a quad whose attributes are all known to be set
func mustAddQuad(s *Scene, name string, corner, u, v core.Vec3, color core.Color, emissive bool, mat material.Material) {
	if err := s.AddQuad(name, corner, u, v, color, emissive, mat); err != nil {
		panic(err)
	}
}
