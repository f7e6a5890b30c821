package scene

import (
	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewDefaultScene creates a ground plane with one sphere of every material and a spherical light
func NewDefaultScene() (*Scene, *camera.Camera) {
	s := New()

	// Ground quad replacing an infinite plane, normal pointing up (+z)
	mustAddQuad(s, "ground",
		core.NewVec3(-5, -5, -0.5), core.NewVec3(10, 0, 0), core.NewVec3(0, 10, 0),
		core.NewColor(0.8, 0.8, 0.8), false, material.NewDiffuse())

	s.Add(
		geometry.NewSphere("diffuse", core.NewVec3(0, -1.1, 0), 0.5,
			core.NewColor(0.7, 0.3, 0.3), material.NewDiffuse(), false),
		geometry.NewSphere("metallic", core.NewVec3(0, 0, 0), 0.5,
			core.NewColor(0.8, 0.8, 0.9), material.NewMetallic(0.1), false),
		geometry.NewSphere("glass", core.NewVec3(0, 1.1, 0), 0.5,
			core.NewColor(0.95, 0.95, 0.95), material.NewDielectric(1.5), false),
		geometry.NewSphere("alpha", core.NewVec3(1.1, 0.55, -0.2), 0.3,
			core.NewColor(0.2, 0.5, 0.9), material.NewAlpha(0.5), false),
		geometry.NewSphere("sun", core.NewVec3(-1, 0, 2.5), 0.7,
			core.NewColor(5, 5, 4.5), material.NewDiffuse(), true),
	)

	cam := camera.NewCamera()
	cam.LookAt = core.NewVec3(0, 0, 0)
	cam.Orbit(3.5, 0.2, 0.35)
	return s, cam
}
