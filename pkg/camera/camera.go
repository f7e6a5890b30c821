package camera

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Camera generates rays from a position through an image plane at DistanceToPlane.
// The basis is right-handed and z-up: basis[2] looks forward, basis[1] is up and
// basis[0] is right in image space.
type Camera struct {
	LookAt          core.Vec3
	DistanceToPlane float64
	Position        core.Vec3

	basis  [3]core.Vec3
	orient core.Vec2  // (theta, phi)
	orbit  *core.Vec3 // (radius, theta, phi), nil unless the camera was placed by Orbit or Look
}

// NewCamera creates a camera at (3,0,0) with the default orientation
func NewCamera() *Camera {
	c := &Camera{
		LookAt:          core.NewVec3(0, 0, 0),
		DistanceToPlane: 1,
		Position:        core.NewVec3(3, 0, 0),
	}
	return c.Orient(0, 0)
}

// Orient sets the viewing direction from spherical angles without moving the camera.
// The camera looks along -(cosφ·cosθ, cosφ·sinθ, sinφ).
func (c *Camera) Orient(theta, phi float64) *Camera {
	c.orient = core.NewVec2(theta, phi)

	cosT, sinT := math.Cos(theta), math.Sin(theta)
	cosP, sinP := math.Cos(phi), math.Sin(phi)

	c.basis[2] = core.NewVec3(-cosP*cosT, -cosP*sinT, -sinP)
	c.basis[1] = core.NewVec3(-sinP*cosT, -sinP*sinT, cosP)
	c.basis[0] = core.NewVec3(-sinT, cosT, 0)
	return c
}

// Orbit places the camera on a sphere of the given radius around LookAt, facing it
func (c *Camera) Orbit(radius, theta, phi float64) *Camera {
	c.Orient(theta, phi)
	orbit := core.NewVec3(radius, theta, phi)
	c.orbit = &orbit

	cosT, sinT := math.Cos(theta), math.Sin(theta)
	cosP, sinP := math.Cos(phi), math.Sin(phi)
	c.Position = c.LookAt.Add(core.NewVec3(cosP*cosT, cosP*sinT, sinP).Multiply(radius))
	return c
}

// Look turns the camera toward a point, keeping its position.
// The result is expressed in orbit coordinates so that it serializes like any orbit.
func (c *Camera) Look(at core.Vec3) *Camera {
	offset := c.Position.Subtract(at)
	radius := offset.Length()
	if radius == 0 {
		c.LookAt = at
		return c
	}
	forward := offset.Multiply(-1 / radius)

	phi := math.Asin(max(-1, min(1, -forward.Z)))
	theta := math.Atan2(-forward.Y, -forward.X)

	c.LookAt = at
	return c.Orbit(radius, theta, phi)
}

// Basis returns the right, up and forward axes
func (c *Camera) Basis() [3]core.Vec3 {
	return c.basis
}

// RayAt returns the primary ray through image coordinates (x, y) of a width×height image.
// y grows upward; callers rendering top-down rows pass height-1-row.
func (c *Camera) RayAt(x, y float64, width, height int) core.Ray {
	lx := x/float64(width) - 0.5
	ly := y/float64(height) - 0.5

	dir := c.basis[0].Multiply(lx).
		Add(c.basis[1].Multiply(ly)).
		Add(c.basis[2].Multiply(c.DistanceToPlane))
	return core.NewRay(c.Position, dir)
}

// Jitter perturbs a ray's direction by a random offset of at most variance,
// restricted to the plane orthogonal to the direction
func Jitter(ray core.Ray, variance float64, sampler core.Sampler) core.Ray {
	if variance == 0 {
		return ray
	}
	eps := core.RandomInUnitBall(sampler).Multiply(variance)
	ortho := eps.Subtract(ray.Direction.Multiply(eps.Dot(ray.Direction)))
	return core.NewRay(ray.Origin, ray.Direction.Add(ortho))
}

// Record is the serialized form of a camera
type Record struct {
	LookAt          core.Vec3  `json:"lookAt"`
	DistanceToPlane float64    `json:"distanceToPlane"`
	Position        core.Vec3  `json:"position"`
	OrientCoords    core.Vec2  `json:"orientCoords"`
	OrbitCoords     *core.Vec3 `json:"orbitCoords,omitempty"`
}

// Record returns the serializable form of the camera
func (c *Camera) Record() Record {
	r := Record{
		LookAt:          c.LookAt,
		DistanceToPlane: c.DistanceToPlane,
		Position:        c.Position,
		OrientCoords:    c.orient,
	}
	if c.orbit != nil {
		orbit := *c.orbit
		r.OrbitCoords = &orbit
	}
	return r
}

// FromRecord rebuilds a camera. Orbit coordinates win over orient coordinates when present.
func FromRecord(r Record) *Camera {
	c := &Camera{
		LookAt:          r.LookAt,
		DistanceToPlane: r.DistanceToPlane,
		Position:        r.Position,
	}
	if c.DistanceToPlane == 0 {
		c.DistanceToPlane = 1
	}
	if r.OrbitCoords != nil {
		return c.Orbit(r.OrbitCoords.X, r.OrbitCoords.Y, r.OrbitCoords.Z)
	}
	return c.Orient(r.OrientCoords.X, r.OrientCoords.Y)
}
