package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/cache"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// diffuseCompensation offsets the uniform (not cosine weighted) hemisphere sampling
// of the diffuse material. It is applied once per bounce.
const diffuseCompensation = 2.0

// PathTracer implements unidirectional path tracing as an explicit loop
type PathTracer struct {
	options Options
}

// NewPathTracer creates a new path tracer
func NewPathTracer(options Options) *PathTracer {
	return &PathTracer{options: options}
}

// Options returns the tracer's settings
func (pt *PathTracer) Options() Options {
	return pt.options
}

// vertex is a non-emissive hit on the path, remembered for the cache write-back
type vertex struct {
	point  core.Vec3
	back   core.Vec3 // direction toward the previous vertex
	weight core.Color
}

// Trace follows one light path from ray and returns its radiance estimate.
//
// Each step intersects the scene, returns early on a cache hit, an emissive hit or
// a miss, and otherwise scatters and multiplies the path weight by
// albedo·2·|n·d_out|. When the bounce budget runs out the path ends in a
// direct-light estimate if importance sampling is on, else black.
func (pt *PathTracer) Trace(ray core.Ray, sc *scene.Scene, rc *cache.RadianceCache, sampler core.Sampler) core.Color {
	useCache := pt.options.UseCache && rc != nil
	bounces := pt.options.Bounces

	var path []vertex
	var radiance core.Color

	for {
		if bounces < 0 {
			if pt.options.ImportanceSampling {
				radiance = ColorFromLight(ray.Origin, sc, sampler)
			}
			break
		}

		hit, ok := sc.Intercept(ray)
		if !ok {
			break
		}
		p := hit.Point
		element := hit.Element
		back := ray.Direction.Negate()

		if useCache {
			if cached, ok := rc.Get(p, back, sampler); ok {
				radiance = cached
				break
			}
		}

		albedo := element.Color()
		if element.Emissive() {
			radiance = albedo
			if useCache {
				rc.Set(p, back, albedo)
			}
			break
		}

		next, aimed := core.Ray{}, false
		if pt.options.ImportanceSampling && sampler.Get1D() < pt.options.LightProbability {
			next, aimed = RayToLight(p, sc, sampler)
		}
		if !aimed {
			next = element.Material().Scatter(ray, p, element, sampler)
		}

		cosine := math.Abs(element.NormalAt(p).Dot(next.Direction))
		path = append(path, vertex{
			point:  p,
			back:   back,
			weight: albedo.Scale(diffuseCompensation * cosine),
		})

		ray = next
		bounces--
	}

	// Walk back toward the camera, storing the radiance leaving each vertex
	for i := len(path) - 1; i >= 0; i-- {
		radiance = path[i].weight.Mul(radiance)
		if useCache {
			rc.Set(path[i].point, path[i].back, radiance)
		}
	}
	return radiance
}
