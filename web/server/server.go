package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Server exposes the path tracer over HTTP: scene listing, full renders and the
// single-band worker protocol
type Server struct {
	port      int
	scenesDir string
	echo      *echo.Echo
	renderer  *renderer.ParallelRenderer
	logger    core.Logger
}

// NewServer creates a server that renders on pool and lists scene files from scenesDir
func NewServer(port int, pool *renderer.WorkerPool, scenesDir string) *Server {
	e := echo.New()
	e.HideBanner = true
	logger := newEchoLogger(e.Logger)

	s := &Server{
		port:      port,
		scenesDir: scenesDir,
		echo:      e,
		renderer:  renderer.NewParallelRenderer(pool, logger),
		logger:    logger,
	}

	e.Use(s.recoverMiddleware)
	e.Use(corsMiddleware)
	e.Static("/", "static")

	e.GET("/api/health", s.handleHealth)
	e.GET("/api/scenes", s.handleScenes)
	e.GET("/api/scenes/:name", s.handleScene)
	e.POST("/api/render", s.handleRender)
	e.POST("/api/render/stream", s.handleRenderStream)
	e.POST("/api/band", s.handleBand)
	return s
}

// Handler returns the server's HTTP handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until the server is shut down
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Printf("Starting web server on http://localhost%s\n", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// recoverMiddleware turns a panicking handler into a 500 response
func (s *Server) recoverMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if r == http.ErrAbortHandler {
				panic(r)
			}
			s.logger.Printf("PANIC from %s %s: %v\n", c.Request().Method, c.Request().URL.Path, r)
			err = echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}()
		return next(c)
	}
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, POST")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}
		return next(c)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"workers": s.renderer.Pool().NumWorkers(),
	})
}

// handleScenes lists built-in scenes and scene files, grouped by category
func (s *Server) handleScenes(c echo.Context) error {
	files, err := loaders.DiscoverSceneFiles(s.scenesDir, func(path string, err error) {
		s.logger.Printf("Warning: skipping scene file %s: %v\n", path, err)
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	all := append(loaders.BuiltinScenes(), files...)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"groups": loaders.GroupScenes(all),
	})
}

// handleScene returns a scene in scene file form, ready to be edited and posted back
func (s *Server) handleScene(c echo.Context) error {
	file, err := s.loadScene(c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, file)
}

// loadScene resolves a scene id: a built-in name or "file:<name>" under the scenes directory
func (s *Server) loadScene(id string) (*loaders.SceneFile, error) {
	if name, ok := strings.CutPrefix(id, "file:"); ok {
		if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid scene file name: "+name)
		}
		file, err := loaders.LoadSceneFile(filepath.Join(s.scenesDir, name+loaders.SceneFileExt))
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		file.Confine(s.scenesDir)
		return file, nil
	}

	sc, cam, err := scene.Builtin(id)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	file := loaders.NewSceneFile(id, sc, cam, renderer.DefaultParams())
	return file, nil
}
