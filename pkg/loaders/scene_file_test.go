package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func TestSceneFileRoundTrip(t *testing.T) {
	sc, cam := scene.NewCornellScene()
	params := renderer.DefaultParams()
	params.SamplesPerPixel = 7
	params.Bounces = 3

	path := filepath.Join(t.TempDir(), "nested", "cornell.json")
	if err := SaveSceneFile(path, NewSceneFile("Cornell", sc, cam, params)); err != nil {
		t.Fatalf("SaveSceneFile failed: %v", err)
	}

	file, err := LoadSceneFile(path)
	if err != nil {
		t.Fatalf("LoadSceneFile failed: %v", err)
	}
	if file.Name != "Cornell" {
		t.Errorf("Expected name Cornell, got %q", file.Name)
	}
	if file.Params != params {
		t.Errorf("Expected params %+v, got %+v", params, file.Params)
	}

	loaded, loadedCam, err := file.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if loaded.Len() != sc.Len() {
		t.Errorf("Expected %d elements, got %d", sc.Len(), loaded.Len())
	}
	if len(loaded.Lights()) != len(sc.Lights()) {
		t.Errorf("Expected %d lights, got %d", len(sc.Lights()), len(loaded.Lights()))
	}
	if d := loadedCam.Position.Subtract(cam.Position).Length(); d > 1e-9 {
		t.Errorf("Camera moved by %g after round trip", d)
	}
}

func TestParseSceneFileDefaults(t *testing.T) {
	data := []byte(`{
		"scene": [{"type": "Sphere", "name": "ball", "color": [1, 0, 0], "position": [0, 0, 0], "radius": 1,
		           "material": {"type": "Diffuse"}}],
		"camera": {"lookAt": [0, 0, 0], "distanceToPlane": 1, "position": [3, 0, 0], "orientCoords": [0, 0]},
		"params": {"bounces": 2}
	}`)

	file, err := ParseSceneFile(data, "inline")
	if err != nil {
		t.Fatalf("ParseSceneFile failed: %v", err)
	}
	expected := renderer.DefaultParams()
	expected.Bounces = 2
	if file.Params != expected {
		t.Errorf("Expected params %+v, got %+v", expected, file.Params)
	}
	if len(file.Scene) != 1 || file.Scene[0].Name != "ball" {
		t.Errorf("Expected a single sphere named ball, got %+v", file.Scene)
	}
}

func TestParseSceneFileErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		target error
	}{
		{"malformed json", `{"scene": [`, nil},
		{"invalid params", `{"scene": [], "params": {"gamma": -1}}`, renderer.ErrInvalidParams},
		{"unknown geometry", `{"scene": [{"type": "Torus", "name": "t", "material": {"type": "Diffuse"}}]}`, geometry.ErrUnknownType},
		{"incomplete sphere", `{"scene": [{"type": "Sphere", "name": "s", "material": {"type": "Diffuse"}}]}`, geometry.ErrIncomplete},
		{"unknown material", `{"scene": [{"type": "Sphere", "name": "s", "material": {"type": "Velvet"}}]}`, material.ErrUnknownMaterial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSceneFile([]byte(tt.data), tt.name)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestLoadSceneFileMissing(t *testing.T) {
	_, err := LoadSceneFile(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected a not-exist error, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	sc, _, params, err := Resolve("cornell")
	if err != nil {
		t.Fatalf("Resolve(cornell) failed: %v", err)
	}
	if sc.Len() == 0 {
		t.Error("Expected a populated built-in scene")
	}
	if params != renderer.DefaultParams() {
		t.Error("Expected default params for a built-in scene")
	}

	if _, _, _, err := Resolve("no-such-scene"); err == nil {
		t.Error("Expected an error for an unknown built-in")
	}

	def, cam := scene.NewDefaultScene()
	custom := renderer.DefaultParams()
	custom.Gamma = 1
	path := filepath.Join(t.TempDir(), "default.JSON")
	if err := SaveSceneFile(path, NewSceneFile("", def, cam, custom)); err != nil {
		t.Fatalf("SaveSceneFile failed: %v", err)
	}
	loaded, _, params, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve(%s) failed: %v", path, err)
	}
	if loaded.Len() != def.Len() {
		t.Errorf("Expected %d elements, got %d", def.Len(), loaded.Len())
	}
	if params.Gamma != 1 {
		t.Errorf("Expected gamma from file, got %g", params.Gamma)
	}
}

func TestBundledSceneFiles(t *testing.T) {
	scenes, err := DiscoverSceneFiles(filepath.Join("..", "..", "scenes"), func(path string, err error) {
		t.Errorf("Bundled scene %s does not load: %v", path, err)
	})
	if err != nil {
		t.Fatalf("DiscoverSceneFiles failed: %v", err)
	}
	if len(scenes) == 0 {
		t.Fatal("Expected bundled scene files")
	}
	for _, info := range scenes {
		file, err := LoadSceneFile(info.FilePath)
		if err != nil {
			t.Fatalf("LoadSceneFile(%s) failed: %v", info.FilePath, err)
		}
		sc, _, err := file.Build()
		if err != nil {
			t.Fatalf("Build(%s) failed: %v", info.FilePath, err)
		}
		if len(sc.Lights()) == 0 {
			t.Errorf("Scene %s has no lights", info.Name)
		}
	}
}
