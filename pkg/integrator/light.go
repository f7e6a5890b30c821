package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ColorFromLight estimates direct light at p: one shadow ray per emissive primitive,
// toward a random point on it. Each unobstructed light contributes its color times the
// cosine at the light, and the sum is averaged over the contributing lights.
func ColorFromLight(p core.Vec3, sc *scene.Scene, sampler core.Sampler) core.Color {
	var sum core.Color
	contributing := 0

	for _, light := range sc.Lights() {
		target := light.Sample(sampler)
		toLight := target.Subtract(p)
		if toLight.LengthSquared() == 0 {
			continue
		}
		shadow := core.NewRay(p, toLight)

		hit, ok := sc.Intercept(shadow)
		if !ok || !hit.Element.Emissive() {
			continue
		}
		cosine := math.Abs(shadow.Direction.Dot(hit.Element.NormalAt(hit.Point)))
		if cosine > 0 {
			sum = sum.Add(hit.Element.Color().Scale(cosine))
			contributing++
		}
	}

	if contributing == 0 {
		return core.Black
	}
	return sum.Scale(1 / float64(contributing))
}

// RayToLight returns a ray from p toward a uniformly random point on a uniformly chosen
// emissive primitive. It reports false when the scene has no lights.
func RayToLight(p core.Vec3, sc *scene.Scene, sampler core.Sampler) (core.Ray, bool) {
	lights := sc.Lights()
	if len(lights) == 0 {
		return core.Ray{}, false
	}
	light := lights[core.SampleIndex(sampler, len(lights))]
	toLight := light.Sample(sampler).Subtract(p)
	if toLight.LengthSquared() == 0 {
		return core.Ray{}, false
	}
	return core.NewRay(p, toLight), true
}
