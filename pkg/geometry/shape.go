package geometry

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

// Intersection describes a single ray/shape hit. It only lives for the
// duration of one pixel's shading.
type Intersection struct {
	T      float64           // Distance along the ray
	Point  core.Vec3         // Point of intersection
	Shape  Shape             // Shape that was hit
	Ray    core.Ray          // Incoming ray
	Light  lights.PointLight // Copy of the scene light
	Inside bool              // Whether the ray started inside the shape
}

// Normal returns the surface normal at the hit point
func (h *Intersection) Normal() core.Vec3 {
	return h.Shape.SurfaceNormal(h.Point)
}

// SolveQuadratic finds the ray parameter for a·t² + b·t + c = 0.
// Only positive roots count as hits: when both roots are positive the nearer
// one is returned, when exactly one is positive the ray starts inside the
// surface and inside is true.
func SolveQuadratic(a, b, c float64) (t float64, inside bool, ok bool) {
	if a == 0 {
		return 0, false, false
	}

	discriminant := b*b - 4*a*c
	switch {
	case discriminant < 0:
		return 0, false, false
	case discriminant == 0:
		t = -b / (2 * a)
		return t, false, t > 0
	}

	// Avoid cancellation between -b and sqrt(discriminant)
	sqrtD := math.Sqrt(discriminant)
	q := -0.5 * (b + math.Copysign(sqrtD, b))
	t0 := q / a
	t1 := c / q
	if t0 > t1 {
		t0, t1 = t1, t0
	}

	switch {
	case t0 > 0:
		return t0, false, true
	case t1 > 0:
		return t1, true, true
	default:
		return 0, false, false
	}
}

// ClosestIntersection tests the ray against every shape and returns the hit
// with the smallest t. Ties keep the first shape encountered.
func ClosestIntersection(shapes []Shape, ray core.Ray, light lights.PointLight) (Intersection, bool) {
	var closest Intersection
	hitAnything := false

	for _, shape := range shapes {
		hit, isHit := shape.Intersect(ray, light)
		if !isHit {
			continue
		}
		if !hitAnything || hit.T < closest.T {
			closest = hit
			hitAnything = true
		}
	}

	return closest, hitAnything
}
