package material

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

// slab is a test surface: the half-space z < 0 with outward normal +z
type slab struct{}

func (slab) NormalAt(p core.Vec3) core.Vec3 { return core.NewVec3(0, 0, 1) }
func (slab) IsInside(p core.Vec3) bool      { return p.Z < 0 }

func TestDiffuseScatterFacesIncomingSide(t *testing.T) {
	sampler := core.NewSeededSampler(42)
	d := NewDiffuse()
	origin := core.NewVec3(0, 0, 0)

	tests := []struct {
		name string
		dir  core.Vec3
		side float64 // expected sign of scattered z
	}{
		{"from above", core.NewVec3(0.3, 0, -1), 1},
		{"from below", core.NewVec3(0.3, 0, 1), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := core.NewRay(core.NewVec3(0, 0, 0).Subtract(tt.dir), tt.dir)
			for i := 0; i < 200; i++ {
				out := d.Scatter(in, origin, slab{}, sampler)
				if out.Origin != origin {
					t.Fatalf("Expected origin %v, got %v", origin, out.Origin)
				}
				if out.Direction.Z*tt.side < 0 {
					t.Fatalf("Scattered direction %v points into the wrong hemisphere", out.Direction)
				}
				if math.Abs(out.Direction.Length()-1) > 1e-9 {
					t.Fatalf("Expected unit direction, got length %f", out.Direction.Length())
				}
			}
		})
	}
}

func TestMetallicMirror(t *testing.T) {
	m := NewMetallic(0)
	in := core.NewRay(core.NewVec3(-1, 0, 1), core.NewVec3(1, 0, -1))
	out := m.Scatter(in, core.Vec3{}, slab{}, core.NewSeededSampler(1))

	expected := core.NewVec3(1, 0, 1).Normalize()
	if !out.Direction.Equals(expected, 1e-9) {
		t.Errorf("Expected %v, got %v", expected, out.Direction)
	}
}

func TestMetallicFuzzStaysNearMirror(t *testing.T) {
	m := NewMetallic(0.2)
	sampler := core.NewSeededSampler(7)
	in := core.NewRay(core.NewVec3(-1, 0, 1), core.NewVec3(1, 0, -1))
	mirror := core.NewVec3(1, 0, 1).Normalize()

	for i := 0; i < 100; i++ {
		out := m.Scatter(in, core.Vec3{}, slab{}, sampler)
		// |r + f·u| deviates from r by at most asin(f)
		if out.Direction.Dot(mirror) < math.Cos(math.Asin(0.2))-1e-9 {
			t.Fatalf("Fuzzed direction %v strays too far from %v", out.Direction, mirror)
		}
	}
}

func TestParameterClamping(t *testing.T) {
	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"fuzz above one", NewMetallic(3).Fuzz, 1},
		{"fuzz below zero", NewMetallic(-1).Fuzz, 0},
		{"alpha above one", NewAlpha(1.5).Alpha, 1},
		{"alpha below zero", NewAlpha(-0.5).Alpha, 0},
		{"alpha in range", NewAlpha(0.25).Alpha, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestAlphaZeroPassesThrough(t *testing.T) {
	a := NewAlpha(0)
	dir := core.NewVec3(0.2, 0.1, -1).Normalize()
	in := core.NewRay(core.NewVec3(0, 0, 1), dir)
	point := core.NewVec3(0.5, 0.5, 0)

	out := a.Scatter(in, point, slab{}, core.NewSeededSampler(3))
	if !out.Direction.Equals(dir, 1e-12) {
		t.Errorf("Expected unchanged direction %v, got %v", dir, out.Direction)
	}
	expectedOrigin := point.Add(dir.Multiply(surfaceEpsilon))
	if !out.Origin.Equals(expectedOrigin, 1e-12) {
		t.Errorf("Expected origin %v, got %v", expectedOrigin, out.Origin)
	}
}

func TestDielectricNormalIncidence(t *testing.T) {
	glass := NewDielectric(1.5)
	in := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	out := glass.Scatter(in, core.Vec3{}, slab{}, core.NewSeededSampler(1))

	if !out.Direction.Equals(core.NewVec3(0, 0, -1), 1e-9) {
		t.Errorf("Expected straight transmission, got %v", out.Direction)
	}
	if out.Origin.Z >= 0 {
		t.Errorf("Refracted ray should start past the surface, got origin %v", out.Origin)
	}
}

func TestDielectricSnellsLaw(t *testing.T) {
	glass := NewDielectric(1.5)
	angle := math.Pi / 6
	dir := core.NewVec3(math.Sin(angle), 0, -math.Cos(angle))
	in := core.NewRay(dir.Negate(), dir)

	out := glass.Scatter(in, core.Vec3{}, slab{}, core.NewSeededSampler(1))

	sinOut := math.Sqrt(out.Direction.X*out.Direction.X + out.Direction.Y*out.Direction.Y)
	expected := math.Sin(angle) / 1.5
	if math.Abs(sinOut-expected) > 1e-9 {
		t.Errorf("Expected sin(theta_t) %f, got %f", expected, sinOut)
	}
	if out.Direction.Z >= 0 {
		t.Errorf("Refracted ray should continue downward, got %v", out.Direction)
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)
	// Leaving the medium (travelling up from z < 0) beyond the critical angle
	angle := glass.CriticalAngle() + 0.1
	dir := core.NewVec3(math.Sin(angle), 0, math.Cos(angle))
	point := core.Vec3{}
	in := core.NewRay(point.Subtract(dir), dir)

	out := glass.Scatter(in, point, slab{}, core.NewSeededSampler(1))

	expected := core.NewVec3(dir.X, dir.Y, -dir.Z)
	if !out.Direction.Equals(expected, 1e-9) {
		t.Errorf("Expected mirror reflection %v, got %v", expected, out.Direction)
	}
	if out.Origin != point {
		t.Errorf("Reflected ray should start at the hit point, got %v", out.Origin)
	}
}

func TestFromSpecRoundTrip(t *testing.T) {
	materials := []Material{
		NewDiffuse(),
		NewMetallic(0.3),
		NewAlpha(0.6),
		NewDielectric(1.33),
	}
	for _, m := range materials {
		spec := m.Spec()
		t.Run(spec.Type, func(t *testing.T) {
			rebuilt, err := FromSpec(spec)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			got := rebuilt.Spec()
			if got.Type != spec.Type || len(got.Args) != len(spec.Args) {
				t.Fatalf("Expected %+v, got %+v", spec, got)
			}
			for i := range spec.Args {
				if got.Args[i] != spec.Args[i] {
					t.Errorf("Arg %d: expected %v, got %v", i, spec.Args[i], got.Args[i])
				}
			}
		})
	}
}

func TestFromSpecUnknownType(t *testing.T) {
	_, err := FromSpec(Spec{Type: "Velvet"})
	if !errors.Is(err, ErrUnknownMaterial) {
		t.Errorf("Expected ErrUnknownMaterial, got %v", err)
	}
}

func TestRegisterCustomMaterial(t *testing.T) {
	Register("Mirror", func(args ...float64) (Material, error) {
		return NewMetallic(0), nil
	})
	m, err := FromSpec(Spec{Type: "Mirror"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := m.(*Metallic); !ok {
		t.Errorf("Expected *Metallic, got %T", m)
	}
}
