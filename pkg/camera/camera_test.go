package camera

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestOrientBasisIsOrthonormal(t *testing.T) {
	tests := []struct {
		name       string
		theta, phi float64
	}{
		{"default", 0, 0},
		{"quarter turn", math.Pi / 2, 0},
		{"looking down", 0.3, math.Pi / 4},
		{"looking up", -2.1, -0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewCamera().Orient(tt.theta, tt.phi).Basis()
			for i := 0; i < 3; i++ {
				if math.Abs(b[i].Length()-1) > 1e-12 {
					t.Errorf("Axis %d has length %f", i, b[i].Length())
				}
				for j := i + 1; j < 3; j++ {
					if d := b[i].Dot(b[j]); math.Abs(d) > 1e-12 {
						t.Errorf("Axes %d and %d not orthogonal: %f", i, j, d)
					}
				}
			}
			// Right-handed: right × up = -forward
			if !b[0].Cross(b[1]).Equals(b[2].Negate(), 1e-12) {
				t.Errorf("Basis is not right-handed: %v", b)
			}
		})
	}
}

func TestOrbitFacesLookAt(t *testing.T) {
	c := NewCamera()
	c.LookAt = core.NewVec3(1, 2, 3)
	c.Orbit(4, 0.7, 0.2)

	if d := c.Position.Subtract(c.LookAt).Length(); math.Abs(d-4) > 1e-12 {
		t.Errorf("Expected distance 4 from lookAt, got %f", d)
	}
	toTarget := c.LookAt.Subtract(c.Position).Normalize()
	if !c.Basis()[2].Equals(toTarget, 1e-12) {
		t.Errorf("Expected forward %v, got %v", toTarget, c.Basis()[2])
	}
}

func TestLook(t *testing.T) {
	c := NewCamera()
	c.Position = core.NewVec3(2, -3, 1.5)
	target := core.NewVec3(-0.5, 0.25, 0)
	c.Look(target)

	expected := target.Subtract(c.Position).Normalize()
	if !c.Basis()[2].Equals(expected, 1e-9) {
		t.Errorf("Expected forward %v, got %v", expected, c.Basis()[2])
	}
	if !c.Position.Equals(core.NewVec3(2, -3, 1.5), 1e-9) {
		t.Errorf("Look should not move the camera, got %v", c.Position)
	}
	if c.LookAt != target {
		t.Errorf("Expected lookAt %v, got %v", target, c.LookAt)
	}
}

func TestRayAt(t *testing.T) {
	c := NewCamera()
	c.Orbit(2, 0, 0)

	center := c.RayAt(50, 50, 100, 100)
	if !center.Direction.Equals(c.Basis()[2], 1e-12) {
		t.Errorf("Center ray should look forward, got %v", center.Direction)
	}
	if center.Origin != c.Position {
		t.Errorf("Expected origin %v, got %v", c.Position, center.Origin)
	}

	// Larger y is higher in the image
	top := c.RayAt(50, 99, 100, 100)
	bottom := c.RayAt(50, 0, 100, 100)
	up := c.Basis()[1]
	if top.Direction.Dot(up) <= bottom.Direction.Dot(up) {
		t.Errorf("Expected y to grow upward: top %v bottom %v", top.Direction, bottom.Direction)
	}
}

func TestJitter(t *testing.T) {
	sampler := core.NewSeededSampler(42)
	ray := core.NewRay(core.Vec3{}, core.NewVec3(1, 1, 0))

	if got := Jitter(ray, 0, sampler); got.Direction != ray.Direction {
		t.Errorf("Zero variance should not change the ray, got %v", got.Direction)
	}

	const variance = 0.01
	for i := 0; i < 100; i++ {
		j := Jitter(ray, variance, sampler)
		angle := math.Acos(math.Min(1, j.Direction.Dot(ray.Direction)))
		if angle > math.Atan(variance)+1e-12 {
			t.Fatalf("Jitter angle %f exceeds bound", angle)
		}
	}
}

func TestRecordRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		camera *Camera
	}{
		{"oriented", NewCamera().Orient(0.4, -0.2)},
		{"orbiting", func() *Camera {
			c := NewCamera()
			c.LookAt = core.NewVec3(0, 0, 0.5)
			c.DistanceToPlane = 1.5
			return c.Orbit(3, -math.Pi/2, 0.1)
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.camera.Record())
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			var r Record
			if err := json.Unmarshal(data, &r); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			rebuilt := FromRecord(r)

			again, _ := json.Marshal(rebuilt.Record())
			if string(again) != string(data) {
				t.Errorf("Round trip mismatch:\n%s\n%s", data, again)
			}
			if rebuilt.Basis() != tt.camera.Basis() {
				t.Errorf("Expected basis %v, got %v", tt.camera.Basis(), rebuilt.Basis())
			}
		})
	}
}
