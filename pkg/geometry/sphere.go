package geometry

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// DefaultRadius is the radius of spheres created without an explicit size
const DefaultRadius = 50.0

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
	Mat    material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
		Mat:    mat,
	}
}

// NewDefaultSphere creates a burgundy sphere of the default radius at the origin
func NewDefaultSphere() *Sphere {
	return DefaultSphereAt(core.NewVec3(0, 0, 0))
}

// DefaultSphereAt creates a burgundy sphere of the default radius at a point
func DefaultSphereAt(center core.Vec3) *Sphere {
	return NewSphere(center, DefaultRadius, material.Default())
}

// NewSphereWithColour creates a sphere with an 8-bit base color
func NewSphereWithColour(center core.Vec3, radius float64, color core.PixelColor) *Sphere {
	return NewSphere(center, radius, material.New(color))
}

// Intersect tests if a ray intersects with the sphere.
// A sphere with a non-positive radius is never hit.
func (s *Sphere) Intersect(ray core.Ray, light lights.PointLight) (Intersection, bool) {
	if s.Radius <= 0 {
		return Intersection{}, false
	}

	// Quadratic equation coefficients: at² + bt + c = 0
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	t, inside, ok := SolveQuadratic(a, b, c)
	if !ok {
		return Intersection{}, false
	}

	return Intersection{
		T:      t,
		Point:  ray.At(t),
		Shape:  s,
		Ray:    ray,
		Light:  light,
		Inside: inside,
	}, true
}

// SurfaceNormal returns the unit vector from the center through the point
func (s *Sphere) SurfaceNormal(point core.Vec3) core.Vec3 {
	normal := point.Subtract(s.Center)
	normal.Normalize()
	return normal
}

// Material returns a copy of the sphere's material
func (s *Sphere) Material() material.Material {
	return s.Mat
}

// SetX moves the sphere center along the X axis
func (s *Sphere) SetX(x float64) { s.Center.X = x }

// SetY moves the sphere center along the Y axis
func (s *Sphere) SetY(y float64) { s.Center.Y = y }

// SetZ moves the sphere center along the Z axis
func (s *Sphere) SetZ(z float64) { s.Center.Z = z }

// SetAxis sets one coordinate of the sphere center
func (s *Sphere) SetAxis(axis core.Axis, value float64) {
	s.Center = s.Center.WithAxis(axis, value)
}

// AdjustRadius grows or shrinks the sphere. The radius may end up non-positive,
// in which case the sphere simply stops being visible.
func (s *Sphere) AdjustRadius(delta float64) {
	s.Radius += delta
}

// AdjustSize implements Editable
func (s *Sphere) AdjustSize(delta float64) {
	s.AdjustRadius(delta)
}

// SetColourChannel changes one channel of the sphere's base color
func (s *Sphere) SetColourChannel(channel core.ColorChannel, value uint8) {
	s.Mat.SetColourChannel(channel, value)
}
