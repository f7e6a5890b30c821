package renderer

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/df07/go-pathtracer/pkg/cache"
	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// BudgetRequest asks a worker for Samples radiance samples at random image positions
type BudgetRequest struct {
	Width   int               `json:"width"`
	Height  int               `json:"height"`
	Samples int               `json:"samples"`
	Seed    int64             `json:"seed"`
	Scene   []geometry.Record `json:"scene"`
	Camera  camera.Record     `json:"camera"`
	Params  Params            `json:"params"`
}

// BudgetResponse lists sample positions in image coordinates (y up) and their gamma-corrected colors
type BudgetResponse struct {
	Xs     []float64    `json:"xs"`
	Ys     []float64    `json:"ys"`
	Colors []core.Color `json:"colors"`
}

// RenderBudget traces samples through uniformly random points of the image plane
func RenderBudget(req BudgetRequest) (BudgetResponse, error) {
	if err := validateSize(req.Width, req.Height); err != nil {
		return BudgetResponse{}, err
	}
	if req.Samples < 0 || req.Samples > MaxBudget {
		return BudgetResponse{}, fmt.Errorf("%w: samples must be between 0 and %d, got %d", ErrInvalidRequest, MaxBudget, req.Samples)
	}
	if err := req.Params.Validate(); err != nil {
		return BudgetResponse{}, err
	}
	sc, err := scene.Deserialize(req.Scene)
	if err != nil {
		return BudgetResponse{}, fmt.Errorf("failed to load scene: %w", err)
	}
	cam := camera.FromRecord(req.Camera)
	params := req.Params

	sampler := core.NewSeededSampler(req.Seed)
	tracer := integrator.NewPathTracer(params.IntegratorOptions())
	var rc *cache.RadianceCache
	if params.UseCache {
		rc = cache.NewRadianceCache(params.CacheConfig())
	}

	resp := BudgetResponse{
		Xs:     make([]float64, 0, req.Samples),
		Ys:     make([]float64, 0, req.Samples),
		Colors: make([]core.Color, 0, req.Samples),
	}
	for i := 0; i < req.Samples; i++ {
		uv := sampler.Get2D()
		x := uv.X * float64(req.Width)
		y := uv.Y * float64(req.Height)

		ray := camera.Jitter(cam.RayAt(x, y, req.Width, req.Height), params.Variance, sampler)
		c := tracer.Trace(ray, sc, rc, sampler).Gamma(params.Gamma)

		resp.Xs = append(resp.Xs, x)
		resp.Ys = append(resp.Ys, y)
		resp.Colors = append(resp.Colors, c)
	}
	return resp, nil
}

// SquareSide returns the half-side of the squares that let budget samples tile the image
func SquareSide(width, height, budget int) float64 {
	if budget <= 0 {
		return 0
	}
	return math.Sqrt(float64(width*height) / float64(budget))
}

// CompositeSquares paints every sample as a square of half-side side on a black canvas.
// Sample y grows upward, so squares are flipped into image rows.
func CompositeSquares(width, height int, side float64, responses []BudgetResponse) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	for _, resp := range responses {
		for i := range resp.Colors {
			c := resp.Colors[i].Clamp(0, 1)
			dc.SetRGB(c.R, c.G, c.B)
			dc.DrawRectangle(resp.Xs[i]-side, float64(height)-resp.Ys[i]-side, 2*side, 2*side)
			dc.Fill()
		}
	}
	return dc.Image()
}
