package integrator

import (
	"github.com/df07/go-pathtracer/pkg/cache"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Trace estimates the radiance arriving along ray. rc may be nil when caching is off.
	Trace(ray core.Ray, sc *scene.Scene, rc *cache.RadianceCache, sampler core.Sampler) core.Color
}

// Options configures a PathTracer
type Options struct {
	Bounces            int     // Scattering events allowed after the primary hit
	ImportanceSampling bool    // Aim some bounces at lights and fall back to direct light when the budget runs out
	UseCache           bool    // Consult and fill the radiance cache
	LightProbability   float64 // Chance of aiming a bounce at a light when ImportanceSampling is set
}

// DefaultOptions returns the standard integrator settings
func DefaultOptions() Options {
	return Options{
		Bounces:            5,
		ImportanceSampling: true,
		UseCache:           false,
		LightProbability:   0.1,
	}
}
