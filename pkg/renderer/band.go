package renderer

import (
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/cache"
	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ErrInvalidRequest is returned when a request's image geometry is inconsistent
var ErrInvalidRequest = errors.New("invalid render request")

// RenderRequest asks a worker to render rows [StartRow, EndRow) of a Width×Height image.
// The scene and camera are serialized snapshots, so a request shares no mutable state.
type RenderRequest struct {
	StartRow int               `json:"startRow"`
	EndRow   int               `json:"endRow"`
	Width    int               `json:"width"`
	Height   int               `json:"height"`
	Scene    []geometry.Record `json:"scene"`
	Camera   camera.Record     `json:"camera"`
	Params   Params            `json:"params"`
}

// RenderResponse carries a band as row-major RGBA floats, 4 per pixel, after gamma
type RenderResponse struct {
	Image    []float32 `json:"image"`
	StartRow int       `json:"startRow"`
	EndRow   int       `json:"endRow"`
}

// validateSize checks that an image is non-empty and no larger than MaxImageSize on either side
func validateSize(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxImageSize || height > MaxImageSize {
		return fmt.Errorf("%w: image size %dx%d, each side must be between 1 and %d", ErrInvalidRequest, width, height, MaxImageSize)
	}
	return nil
}

// Validate checks the request's image geometry and params
func (r RenderRequest) Validate() error {
	if err := validateSize(r.Width, r.Height); err != nil {
		return err
	}
	if r.StartRow < 0 || r.EndRow < r.StartRow || r.EndRow > r.Height {
		return fmt.Errorf("%w: rows [%d, %d) outside image height %d", ErrInvalidRequest, r.StartRow, r.EndRow, r.Height)
	}
	return r.Params.Validate()
}

// RenderBand renders one band. It rebuilds the scene and camera from the request and owns
// its radiance cache. Each row gets a sampler seeded with Params.Seed plus the row index, so
// without the cache a pixel does not depend on how the image was split into bands.
func RenderBand(req RenderRequest) (RenderResponse, error) {
	if err := req.Validate(); err != nil {
		return RenderResponse{}, err
	}
	sc, err := scene.Deserialize(req.Scene)
	if err != nil {
		return RenderResponse{}, fmt.Errorf("failed to load scene: %w", err)
	}
	cam := camera.FromRecord(req.Camera)
	params := req.Params

	tracer := integrator.NewPathTracer(params.IntegratorOptions())
	var rc *cache.RadianceCache
	if params.UseCache {
		rc = cache.NewRadianceCache(params.CacheConfig())
	}

	image := make([]float32, 4*req.Width*(req.EndRow-req.StartRow))
	invSamples := 1.0 / float64(params.SamplesPerPixel)
	index := 0

	// Rows are written in order; consumers rely on the running index
	for y := req.StartRow; y < req.EndRow; y++ {
		sampler := core.NewSeededSampler(params.Seed + int64(y))
		for x := 0; x < req.Width; x++ {
			ray := cam.RayAt(float64(x), float64(req.Height-1-y), req.Width, req.Height)

			var c core.Color
			for i := 0; i < params.SamplesPerPixel; i++ {
				jittered := camera.Jitter(ray, params.Variance, sampler)
				c = c.Add(tracer.Trace(jittered, sc, rc, sampler))
			}
			c = c.Scale(invSamples).Gamma(params.Gamma)

			image[index] = float32(c.R)
			image[index+1] = float32(c.G)
			image[index+2] = float32(c.B)
			image[index+3] = 1.0
			index += 4
		}
	}

	return RenderResponse{Image: image, StartRow: req.StartRow, EndRow: req.EndRow}, nil
}
