package integrator

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
)

// Integrator defines the interface for lighting models
type Integrator interface {
	// Shade computes the 8-bit color of a primary-ray hit
	Shade(hit *geometry.Intersection, ambientCoefficient float64) core.PixelColor
}
