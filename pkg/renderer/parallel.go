package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// BandUpdate reports a band composited into the frame, for progressive display
type BandUpdate struct {
	Band      Band
	Completed int    // Bands composited so far, including this one
	Total     int    // Bands in the frame
	Frame     *Frame // The frame being assembled
}

// ParallelRenderer scatters bands over a worker pool and gathers them into a frame
type ParallelRenderer struct {
	pool   *WorkerPool
	logger core.Logger
}

// NewParallelRenderer creates a renderer on top of a shared pool
func NewParallelRenderer(pool *WorkerPool, logger core.Logger) *ParallelRenderer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &ParallelRenderer{pool: pool, logger: logger}
}

// Pool returns the renderer's worker pool
func (pr *ParallelRenderer) Pool() *WorkerPool {
	return pr.pool
}

// Render renders a width×height frame. Each worker receives a snapshot of the scene and
// camera. Bands are composited as they arrive and onBand, if set, is called after each.
// Cancelling ctx stops waiting; bands already running are not interrupted.
func (pr *ParallelRenderer) Render(ctx context.Context, sc *scene.Scene, cam *camera.Camera, width, height int, params Params, onBand func(BandUpdate)) (*Frame, error) {
	if err := validateSize(width, height); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	records := sc.Serialize()
	camRecord := cam.Record()
	bands := Partition(height, pr.pool.NumWorkers())

	pr.logger.Printf("Rendering %dx%d: %d primitives, %d bands on %d workers\n",
		width, height, sc.Len(), len(bands), pr.pool.NumWorkers())

	results := make(chan TaskResult, len(bands))
	for i, band := range bands {
		req := RenderRequest{
			StartRow: band.StartRow,
			EndRow:   band.EndRow,
			Width:    width,
			Height:   height,
			Scene:    records,
			Camera:   camRecord,
			Params:   params,
		}
		if err := pr.pool.Submit(ctx, Task{ID: i, Band: &req}, results); err != nil {
			return nil, err
		}
	}

	frame := NewFrame(width, height)
	for completed := 1; completed <= len(bands); completed++ {
		var result TaskResult
		select {
		case result = <-results:
		case <-ctx.Done():
			pr.logger.Printf("Rendering cancelled after %d of %d bands\n", completed-1, len(bands))
			return nil, ctx.Err()
		}
		if result.Error != nil {
			return nil, fmt.Errorf("band %d: %w", result.ID, result.Error)
		}
		if err := frame.SetBand(result.Band); err != nil {
			return nil, err
		}
		if onBand != nil {
			onBand(BandUpdate{
				Band:      bands[result.ID],
				Completed: completed,
				Total:     len(bands),
				Frame:     frame,
			})
		}
	}

	frame.Stats = RenderStats{
		Width:        width,
		Height:       height,
		Bands:        len(bands),
		Workers:      pr.pool.NumWorkers(),
		TotalSamples: width * height * params.SamplesPerPixel,
		Duration:     time.Since(startTime),
		Luminance:    frame.AverageLuminance(),
	}
	pr.logger.Printf("Render completed: %s\n", frame.Stats)
	return frame, nil
}

// RenderBudget renders params.Budget samples at random image positions, split across the
// pool, and paints each as a square sized so the squares cover the image
func (pr *ParallelRenderer) RenderBudget(ctx context.Context, sc *scene.Scene, cam *camera.Camera, width, height int, params Params) (image.Image, RenderStats, error) {
	if err := validateSize(width, height); err != nil {
		return nil, RenderStats{}, err
	}
	if err := params.Validate(); err != nil {
		return nil, RenderStats{}, err
	}
	if params.Budget < 1 {
		return nil, RenderStats{}, fmt.Errorf("%w: budget mode needs a positive budget", ErrInvalidParams)
	}
	if err := ctx.Err(); err != nil {
		return nil, RenderStats{}, err
	}

	startTime := time.Now()
	records := sc.Serialize()
	camRecord := cam.Record()
	workers := min(pr.pool.NumWorkers(), params.Budget)

	pr.logger.Printf("Rendering %dx%d with a budget of %d samples on %d workers\n",
		width, height, params.Budget, workers)

	results := make(chan TaskResult, workers)
	for k := 0; k < workers; k++ {
		share := params.Budget / workers
		if k < params.Budget%workers {
			share++
		}
		req := BudgetRequest{
			Width:   width,
			Height:  height,
			Samples: share,
			Seed:    params.Seed + int64(k),
			Scene:   records,
			Camera:  camRecord,
			Params:  params,
		}
		if err := pr.pool.Submit(ctx, Task{ID: k, Budget: &req}, results); err != nil {
			return nil, RenderStats{}, err
		}
	}

	// Composite in worker order so the output does not depend on completion order
	responses := make([]BudgetResponse, workers)
	for i := 0; i < workers; i++ {
		select {
		case result := <-results:
			if result.Error != nil {
				return nil, RenderStats{}, fmt.Errorf("budget share %d: %w", result.ID, result.Error)
			}
			responses[result.ID] = result.Budget
		case <-ctx.Done():
			return nil, RenderStats{}, ctx.Err()
		}
	}

	img := CompositeSquares(width, height, SquareSide(width, height, params.Budget), responses)
	stats := RenderStats{
		Width:        width,
		Height:       height,
		Bands:        workers,
		Workers:      pr.pool.NumWorkers(),
		TotalSamples: params.Budget,
		Duration:     time.Since(startTime),
		Luminance:    AverageLuminance(img),
	}
	pr.logger.Printf("Budget render completed: %s\n", stats)
	return img, stats, nil
}
