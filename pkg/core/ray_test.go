package core

import (
	"math"
	"testing"
)

func TestNewRay_NormalizesDirection(t *testing.T) {
	ray := NewRay(NewVec3(1, 1, 1), NewVec3(0, 3, 4))
	if math.Abs(ray.Direction.Length()-1) > 1e-12 {
		t.Errorf("Expected unit direction, got length %f", ray.Direction.Length())
	}

	p := ray.At(5)
	expected := NewVec3(1, 4, 5)
	if !p.Equals(expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, p)
	}
}

func TestRay_ParallelAxesAreGuarded(t *testing.T) {
	ray := NewRay(Vec3{}, NewVec3(0, 0, 1))

	if !ray.IsParallel(0) || !ray.IsParallel(1) {
		t.Error("Expected X and Y axes to be flagged parallel")
	}
	if ray.IsParallel(2) {
		t.Error("Z axis should not be parallel")
	}

	inv := ray.InvDirection()
	for _, c := range []float64{inv.X, inv.Y, inv.Z} {
		if math.IsInf(c, 0) || math.IsNaN(c) {
			t.Fatalf("Inverse direction must stay finite, got %v", inv)
		}
	}
	if inv.Z != 1 {
		t.Errorf("Expected inverse Z of 1, got %f", inv.Z)
	}
}

func TestRay_ParamOf(t *testing.T) {
	tests := []struct {
		name      string
		direction Vec3
	}{
		{"axis aligned", NewVec3(1, 0, 0)},
		{"zero component", NewVec3(0, 1, 1)},
		{"oblique", NewVec3(1, -2, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := NewRay(NewVec3(0.5, -1, 2), tt.direction)
			got := ray.ParamOf(ray.At(2.75))
			if math.Abs(got-2.75) > 1e-12 {
				t.Errorf("Expected t=2.75, got %f", got)
			}
		})
	}
}
