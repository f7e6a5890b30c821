package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// SceneFileExt is the extension recognized by DiscoverSceneFiles
const SceneFileExt = ".json"

// ErrMeshPath is returned when a confined scene file names a mesh outside its directory
var ErrMeshPath = errors.New("mesh path outside the scene directory")

// SceneFile is the on-disk form of a renderable scene: primitives, camera and default params
type SceneFile struct {
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
	Group       string            `json:"group,omitempty"`
	Scene       []geometry.Record `json:"scene"`
	Meshes      []MeshRef         `json:"meshes,omitempty"`
	Camera      camera.Record     `json:"camera"`
	Params      renderer.Params   `json:"params"`

	dir      string // Directory mesh paths are relative to
	confined bool   // Mesh paths must stay under dir
}

// MeshRef places the triangles of a PLY file in the scene
type MeshRef struct {
	File      string        `json:"file"`
	Name      string        `json:"name"`
	Color     core.Color    `json:"color"`
	Emissive  bool          `json:"emissive"`
	Material  material.Spec `json:"material"`
	Transform MeshTransform `json:"transform"`
}

// NewSceneFile captures a scene, camera and params for saving
func NewSceneFile(name string, sc *scene.Scene, cam *camera.Camera, params renderer.Params) *SceneFile {
	return &SceneFile{
		Name:   name,
		Scene:  sc.Serialize(),
		Camera: cam.Record(),
		Params: params,
	}
}

// LoadSceneFile reads and validates a scene file.
// Params absent from the file keep their defaults.
func LoadSceneFile(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	file, err := ParseSceneFile(data, path)
	if err != nil {
		return nil, err
	}
	file.dir = filepath.Dir(path)
	return file, nil
}

// ParseSceneFile decodes scene file contents. The source is only used in error messages.
func ParseSceneFile(data []byte, source string) (*SceneFile, error) {
	file := &SceneFile{Params: renderer.DefaultParams()}
	if err := json.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", source, err)
	}
	if err := file.Params.Validate(); err != nil {
		return nil, fmt.Errorf("scene file %s: %w", source, err)
	}
	if _, err := scene.Deserialize(file.Scene); err != nil {
		return nil, fmt.Errorf("scene file %s: %w", source, err)
	}
	for i, mesh := range file.Meshes {
		if mesh.File == "" || mesh.Name == "" {
			return nil, fmt.Errorf("scene file %s: mesh %d needs a file and a name", source, i)
		}
		if _, err := material.FromSpec(mesh.Material); err != nil {
			return nil, fmt.Errorf("scene file %s: mesh %s: %w", source, mesh.Name, err)
		}
	}
	return file, nil
}

// Confine restricts mesh files to dir: Build resolves them relative to it and rejects
// absolute paths and paths that climb out of it
func (f *SceneFile) Confine(dir string) {
	f.dir = dir
	f.confined = true
}

// meshPath resolves a mesh reference against the file's directory
func (f *SceneFile) meshPath(file string) (string, error) {
	if f.confined {
		if !filepath.IsLocal(file) {
			return "", fmt.Errorf("%w: %q", ErrMeshPath, file)
		}
		return filepath.Join(f.dir, file), nil
	}
	if !filepath.IsAbs(file) && f.dir != "" {
		return filepath.Join(f.dir, file), nil
	}
	return file, nil
}

// Build constructs the scene and camera described by the file, loading any meshes
func (f *SceneFile) Build() (*scene.Scene, *camera.Camera, error) {
	sc, err := scene.Deserialize(f.Scene)
	if err != nil {
		return nil, nil, err
	}
	for _, ref := range f.Meshes {
		path, err := f.meshPath(ref.File)
		if err != nil {
			return nil, nil, fmt.Errorf("mesh %s: %w", ref.Name, err)
		}
		mesh, err := LoadPLY(path)
		if err != nil {
			return nil, nil, err
		}
		mat, err := material.FromSpec(ref.Material)
		if err != nil {
			return nil, nil, fmt.Errorf("mesh %s: %w", ref.Name, err)
		}
		sc.Add(mesh.Triangles(ref.Name, ref.Color, mat, ref.Emissive, ref.Transform)...)
	}
	return sc, camera.FromRecord(f.Camera), nil
}

// SaveSceneFile writes the file as indented JSON, creating parent directories as needed
func SaveSceneFile(path string, file *SceneFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode scene file: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scene file: %w", err)
	}
	return nil
}

// IsSceneFile reports whether a scene argument names a file rather than a built-in
func IsSceneFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), SceneFileExt)
}

// Resolve returns the scene, camera and params for a built-in name or a scene file path.
// Built-ins come with DefaultParams.
func Resolve(name string) (*scene.Scene, *camera.Camera, renderer.Params, error) {
	if !IsSceneFile(name) {
		sc, cam, err := scene.Builtin(name)
		return sc, cam, renderer.DefaultParams(), err
	}
	file, err := LoadSceneFile(name)
	if err != nil {
		return nil, nil, renderer.Params{}, err
	}
	sc, cam, err := file.Build()
	if err != nil {
		return nil, nil, renderer.Params{}, err
	}
	return sc, cam, file.Params, nil
}
