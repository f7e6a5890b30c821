package scene

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

func sphere(name string, center core.Vec3, radius float64, emissive bool) *geometry.Sphere {
	return geometry.NewSphere(name, center, radius, core.NewColor(0.5, 0.5, 0.5), material.NewDiffuse(), emissive)
}

func TestSceneAdd(t *testing.T) {
	s := New()
	if !s.Bounds().IsEmpty() {
		t.Fatal("Empty scene should have empty bounds")
	}

	a := sphere("a", core.NewVec3(0, 0, 0), 1, false)
	b := sphere("b", core.NewVec3(3, 0, 0), 0.5, true)
	s.Add(a, b)

	if s.Len() != 2 {
		t.Errorf("Expected 2 elements, got %d", s.Len())
	}
	if got, ok := s.Get("b"); !ok || got != b {
		t.Errorf("Expected to find b, got %v", got)
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("Expected lookup of unknown name to fail")
	}
	if len(s.Lights()) != 1 || s.Lights()[0] != b {
		t.Errorf("Expected b as the only light, got %v", s.Lights())
	}

	expected := core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(3.5, 1, 1))
	if !s.Bounds().Equal(expected) {
		t.Errorf("Expected bounds %v, got %v", expected, s.Bounds())
	}

	s.Clear()
	if s.Len() != 0 || len(s.Lights()) != 0 || !s.Bounds().IsEmpty() {
		t.Error("Clear should remove everything")
	}
}

func TestSceneIntercept(t *testing.T) {
	s := New().Add(
		sphere("far", core.NewVec3(0, 0, -10), 1, false),
		sphere("near", core.NewVec3(0, 0, -4), 1, false),
		sphere("side", core.NewVec3(5, 0, -4), 1, false),
	)

	tests := []struct {
		name     string
		ray      core.Ray
		expected string
	}{
		{"nearest wins", core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), "near"},
		{"from behind", core.NewRay(core.NewVec3(0, 0, -20), core.NewVec3(0, 0, 1)), "far"},
		{"aimed sideways", core.NewRay(core.NewVec3(0, 0, -4), core.NewVec3(1, 0, 0)), "near"},
		{"miss", core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), ""},
		{"outside bounds", core.NewRay(core.NewVec3(0, 50, 0), core.NewVec3(0, 1, 0)), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := s.Intercept(tt.ray)
			if tt.expected == "" {
				if ok {
					t.Errorf("Expected miss, got %s", hit.Element.Name())
				}
				return
			}
			if !ok {
				t.Fatal("Expected hit, got miss")
			}
			if hit.Element.Name() != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, hit.Element.Name())
			}
		})
	}
}

func TestAddQuad(t *testing.T) {
	s := New()
	err := s.AddQuad("q", core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0),
		core.White, true, material.NewDiffuse())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Len() != 2 || len(s.Lights()) != 2 {
		t.Fatalf("Expected two emissive triangles, got %d elements and %d lights", s.Len(), len(s.Lights()))
	}

	for _, name := range []string{"q_0", "q_1"} {
		e, ok := s.Get(name)
		if !ok {
			t.Fatalf("Expected %s to exist", name)
		}
		if !e.NormalAt(core.Vec3{}).Equals(core.NewVec3(0, 0, 1), 1e-12) {
			t.Errorf("%s: expected normal along u×v, got %v", name, e.NormalAt(core.Vec3{}))
		}
	}

	// Points across the whole rectangle are covered
	sampler := core.NewSeededSampler(42)
	for i := 0; i < 100; i++ {
		uv := sampler.Get2D()
		target := core.NewVec3(0.02+1.96*uv.X, 0.01+0.98*uv.Y, 0)
		origin := core.NewVec3(1, 0.5, 3)
		hit, ok := s.Intercept(core.NewRay(origin, target.Subtract(origin)))
		if !ok {
			// Points exactly on the shared diagonal belong to neither triangle
			continue
		}
		if !hit.Point.Equals(target, 1e-9) {
			t.Fatalf("Expected hit at %v, got %v", target, hit.Point)
		}
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	source, _ := NewDefaultScene()
	data, err := json.Marshal(source.Serialize())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var records []geometry.Record
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	rebuilt, err := Deserialize(records)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	again, err := json.Marshal(rebuilt.Serialize())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(again) != string(data) {
		t.Errorf("Round trip mismatch:\n%s\n%s", data, again)
	}
	if !rebuilt.Bounds().Equal(source.Bounds()) {
		t.Errorf("Expected bounds %v, got %v", source.Bounds(), rebuilt.Bounds())
	}
	if len(rebuilt.Lights()) != len(source.Lights()) {
		t.Errorf("Expected %d lights, got %d", len(source.Lights()), len(rebuilt.Lights()))
	}
}

func TestDeserializeError(t *testing.T) {
	_, err := Deserialize([]geometry.Record{{Type: "Cube", Name: "c", Material: material.Spec{Type: material.TypeDiffuse}}})
	if err == nil {
		t.Fatal("Expected error for unknown primitive type")
	}
}

func TestCornellScene(t *testing.T) {
	s, cam := NewCornellScene()

	// 6 walls and the light as quads, plus the sphere
	if s.Len() != 15 {
		t.Errorf("Expected 15 primitives, got %d", s.Len())
	}
	if len(s.Lights()) != 2 {
		t.Errorf("Expected 2 light triangles, got %d", len(s.Lights()))
	}

	expected := core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))
	if !s.Bounds().Equal(expected) {
		t.Errorf("Expected bounds %v, got %v", expected, s.Bounds())
	}

	// The camera is inside the box looking at the back wall
	if s.Bounds().DistanceToPoint(cam.Position) >= 0 {
		t.Errorf("Camera %v should be inside the box", cam.Position)
	}
	// Slightly off center so the ray avoids the seam between the back wall's triangles
	hit, ok := s.Intercept(cam.RayAt(0.6, 0.45, 1, 1))
	if !ok {
		t.Fatal("Ray should hit the box")
	}
	if math.Abs(hit.Point.Y-1) > 1e-9 {
		t.Errorf("Ray should hit the back wall, got %v (%s)", hit.Point, hit.Element.Name())
	}
}

func TestBuiltin(t *testing.T) {
	for _, name := range BuiltinNames() {
		t.Run(name, func(t *testing.T) {
			s, cam, err := Builtin(name)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if s.Len() == 0 || cam == nil {
				t.Error("Expected a populated scene and a camera")
			}
			if len(s.Lights()) == 0 {
				t.Error("Expected at least one light")
			}
		})
	}

	if _, _, err := Builtin("nope"); err == nil {
		t.Error("Expected error for unknown scene")
	}
}
