package renderer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/df07/go-pathtracer/pkg/cache"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// ErrInvalidParams is returned when render parameters are out of range
var ErrInvalidParams = errors.New("invalid render parameters")

// Upper bounds on what a single render may ask for
const (
	MaxImageSize       = 2000
	MaxSamplesPerPixel = 10000
	MaxBounces         = 100
	MaxBudget          = MaxImageSize * MaxImageSize
)

// Params are the recognized render options. JSON names match the worker protocol.
type Params struct {
	SamplesPerPixel    int     `json:"samplesPerPxl"`      // Samples averaged per pixel
	Bounces            int     `json:"bounces"`            // Max path depth after the primary hit
	Variance           float64 `json:"variance"`           // Primary ray jitter
	Gamma              float64 `json:"gamma"`              // Exponent applied per channel before output
	ImportanceSampling bool    `json:"importanceSampling"` // Next-event estimation and direct-light fallback
	UseCache           bool    `json:"useCache"`           // Radiance memoization
	Budget             int     `json:"budget"`             // Total samples in budget mode
	Seed               int64   `json:"seed"`               // Base seed for per-band samplers
	CacheCell          float64 `json:"cacheCell"`          // Radiance cache grid spacing
	DirectionalCache   bool    `json:"directionalCache"`   // Key the cache on direction too
	LightProbability   float64 `json:"lightProbability"`   // Chance of aiming a bounce at a light
}

// DefaultParams returns the standard render settings
func DefaultParams() Params {
	return Params{
		SamplesPerPixel:    1,
		Bounces:            5,
		Variance:           0.001,
		Gamma:              0.5,
		ImportanceSampling: true,
		UseCache:           false,
		Budget:             10000,
		Seed:               42,
		CacheCell:          cache.DefaultConfig().CellSize,
		DirectionalCache:   true,
		LightProbability:   integrator.DefaultOptions().LightProbability,
	}
}

// Validate checks that every parameter is usable
func (p Params) Validate() error {
	switch {
	case p.SamplesPerPixel < 1 || p.SamplesPerPixel > MaxSamplesPerPixel:
		return fmt.Errorf("%w: samplesPerPxl must be between 1 and %d, got %d", ErrInvalidParams, MaxSamplesPerPixel, p.SamplesPerPixel)
	case p.Bounces < 0 || p.Bounces > MaxBounces:
		return fmt.Errorf("%w: bounces must be between 0 and %d, got %d", ErrInvalidParams, MaxBounces, p.Bounces)
	case p.Variance < 0:
		return fmt.Errorf("%w: variance must be non-negative, got %g", ErrInvalidParams, p.Variance)
	case p.Gamma <= 0:
		return fmt.Errorf("%w: gamma must be positive, got %g", ErrInvalidParams, p.Gamma)
	case p.Budget < 0 || p.Budget > MaxBudget:
		return fmt.Errorf("%w: budget must be between 0 and %d, got %d", ErrInvalidParams, MaxBudget, p.Budget)
	case p.UseCache && p.CacheCell <= 0:
		return fmt.Errorf("%w: cacheCell must be positive, got %g", ErrInvalidParams, p.CacheCell)
	case p.LightProbability < 0 || p.LightProbability > 1:
		return fmt.Errorf("%w: lightProbability must be in [0, 1], got %g", ErrInvalidParams, p.LightProbability)
	}
	return nil
}

// IntegratorOptions converts the params into path tracer options
func (p Params) IntegratorOptions() integrator.Options {
	return integrator.Options{
		Bounces:            p.Bounces,
		ImportanceSampling: p.ImportanceSampling,
		UseCache:           p.UseCache,
		LightProbability:   p.LightProbability,
	}
}

// CacheConfig converts the params into radiance cache settings
func (p Params) CacheConfig() cache.Config {
	config := cache.DefaultConfig()
	if p.CacheCell > 0 {
		config.CellSize = p.CacheCell
	}
	config.Directional = p.DirectionalCache
	return config
}

// LoadParams reads a JSON params file. Missing fields keep their defaults.
func LoadParams(path string) (Params, error) {
	params := DefaultParams()
	data, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("failed to read params file: %w", err)
	}
	if err := json.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("failed to parse params file %s: %w", path, err)
	}
	if err := params.Validate(); err != nil {
		return params, err
	}
	return params, nil
}
