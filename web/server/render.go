package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

const (
	modePixels = "pixels"
	modeBudget = "budget"
)

// RenderRequest represents a render request from the client.
// Either Scene names a scene or SceneFile carries one inline. Params overrides the
// scene's params field by field.
type RenderRequest struct {
	Scene     string          `json:"scene"`
	SceneFile json.RawMessage `json:"sceneFile,omitempty"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Mode      string          `json:"mode"`
	Params    json.RawMessage `json:"params,omitempty"`
}

// RenderResult is the response to a render request
type RenderResult struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	Bands            int     `json:"bands"`
	Workers          int     `json:"workers"`
	TotalSamples     int     `json:"totalSamples"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
}

// BandEvent is streamed each time a band is composited into the frame
type BandEvent struct {
	StartRow  int    `json:"startRow"`
	EndRow    int    `json:"endRow"`
	Width     int    `json:"width"`
	Completed int    `json:"completed"` // Bands composited so far (1-based)
	Total     int    `json:"total"`     // Bands in the frame
	ImageData string `json:"imageData"` // Base64 encoded PNG of just this band
}

// renderJob is a validated render request with its scene built
type renderJob struct {
	req    RenderRequest
	scene  *scene.Scene
	camera *camera.Camera
	params renderer.Params
}

// prepareRender binds and validates a render request and builds its scene
func (s *Server) prepareRender(c echo.Context) (*renderJob, error) {
	req := RenderRequest{Scene: "cornell", Width: 400, Height: 400, Mode: modePixels}
	if err := c.Bind(&req); err != nil {
		return nil, err
	}
	if err := validateRenderRequest(req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var file *loaders.SceneFile
	var err error
	if len(req.SceneFile) > 0 {
		if file, err = loaders.ParseSceneFile(req.SceneFile, "request"); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		file.Confine(s.scenesDir)
	} else if file, err = s.loadScene(req.Scene); err != nil {
		return nil, err
	}
	params := file.Params
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid params: %v", err))
		}
	}
	if err := params.Validate(); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sc, cam, err := file.Build()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return &renderJob{req: req, scene: sc, camera: cam, params: params}, nil
}

// handleRender renders a whole image and returns it as a PNG
func (s *Server) handleRender(c echo.Context) error {
	job, err := s.prepareRender(c)
	if err != nil {
		return err
	}
	req := job.req

	ctx := c.Request().Context()
	startTime := time.Now()

	var img image.Image
	var stats renderer.RenderStats
	switch req.Mode {
	case modeBudget:
		img, stats, err = s.renderer.RenderBudget(ctx, job.scene, job.camera, req.Width, req.Height, job.params)
	default:
		var frame *renderer.Frame
		frame, err = s.renderer.Render(ctx, job.scene, job.camera, req.Width, req.Height, job.params, nil)
		if err == nil {
			img, stats = frame.ToImage(), frame.Stats
		}
	}
	if err != nil {
		return renderError(err)
	}

	imageData, err := imageToBase64PNG(img)
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return c.JSON(http.StatusOK, RenderResult{
		ImageData: imageData,
		Stats:     newStats(stats),
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
}

// handleRenderStream renders in pixel mode and streams each band as a Server-Sent Event
// as soon as it is composited, followed by a "complete" event with the full image.
// Failures after the stream has started are reported as an "error" event.
func (s *Server) handleRenderStream(c echo.Context) error {
	job, err := s.prepareRender(c)
	if err != nil {
		return err
	}
	if job.req.Mode != modePixels {
		return echo.NewHTTPError(http.StatusBadRequest, "streaming is only available in pixels mode")
	}
	req := job.req

	setSSEHeaders(c.Response())
	c.Response().WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	startTime := time.Now()

	frame, err := s.renderer.Render(ctx, job.scene, job.camera, req.Width, req.Height, job.params, func(u renderer.BandUpdate) {
		if ctx.Err() != nil {
			return
		}
		data, err := imageToBase64PNG(u.Frame.BandImage(u.Band))
		if err != nil {
			s.logger.Printf("Error encoding band [%d, %d): %v\n", u.Band.StartRow, u.Band.EndRow, err)
			return
		}
		s.writeSSEEvent(c, "band", BandEvent{
			StartRow:  u.Band.StartRow,
			EndRow:    u.Band.EndRow,
			Width:     req.Width,
			Completed: u.Completed,
			Total:     u.Total,
			ImageData: data,
		})
	})
	if err != nil {
		if ctx.Err() == nil {
			s.writeSSEEvent(c, "error", map[string]string{"error": err.Error()})
		}
		return nil
	}

	imageData, err := imageToBase64PNG(frame.ToImage())
	if err != nil {
		s.writeSSEEvent(c, "error", map[string]string{"error": err.Error()})
		return nil
	}
	s.writeSSEEvent(c, "complete", RenderResult{
		ImageData: imageData,
		Stats:     newStats(frame.Stats),
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
	return nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// writeSSEEvent writes one event and flushes it to the client
func (s *Server) writeSSEEvent(c echo.Context, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Printf("Error marshaling %s event: %v\n", event, err)
		return
	}
	w := c.Response()
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		// Client disconnected during write
		return
	}
	w.Flush()
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		Width:            stats.Width,
		Height:           stats.Height,
		Bands:            stats.Bands,
		Workers:          stats.Workers,
		TotalSamples:     stats.TotalSamples,
		SamplesPerSecond: stats.SamplesPerSecond(),
	}
}

// handleBand serves the worker protocol: one band of one frame, as raw RGBA floats
func (s *Server) handleBand(c echo.Context) error {
	req := renderer.RenderRequest{Params: renderer.DefaultParams()}
	if err := c.Bind(&req); err != nil {
		return err
	}
	resp, err := renderer.RenderBand(req)
	if err != nil {
		return renderError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func validateRenderRequest(req RenderRequest) error {
	if req.Width < 1 || req.Width > renderer.MaxImageSize {
		return fmt.Errorf("width must be between 1 and %d, got: %d", renderer.MaxImageSize, req.Width)
	}
	if req.Height < 1 || req.Height > renderer.MaxImageSize {
		return fmt.Errorf("height must be between 1 and %d, got: %d", renderer.MaxImageSize, req.Height)
	}
	if req.Mode != modePixels && req.Mode != modeBudget {
		return fmt.Errorf("mode must be %q or %q, got: %q", modePixels, modeBudget, req.Mode)
	}
	return nil
}

// renderError maps renderer errors onto HTTP status codes
func renderError(err error) error {
	switch {
	case errors.Is(err, renderer.ErrInvalidParams), errors.Is(err, renderer.ErrInvalidRequest):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, renderer.ErrPoolStopped):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
