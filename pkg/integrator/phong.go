package integrator

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// Phong evaluates ambient + diffuse (+ specular) lighting for a single point light.
// Each term is truncated to 8 bits before the terms are summed with saturation.
type Phong struct {
	Specular bool // Whether to add the specular highlight term
}

// NewPhong creates the full ambient + diffuse + specular model
func NewPhong() *Phong {
	return &Phong{Specular: true}
}

// NewDiffuseAmbient creates a model without the specular term
func NewDiffuseAmbient() *Phong {
	return &Phong{Specular: false}
}

// Shade implements Integrator
func (p *Phong) Shade(hit *geometry.Intersection, ambientCoefficient float64) core.PixelColor {
	mat := hit.Shape.Material()
	normal := hit.Normal()
	lightDir := LightDirection(hit.Light, hit.Point)
	nDotL := normal.Dot(lightDir)

	color := Diffuse(mat, hit.Light, nDotL).Add(Ambient(mat, hit.Light, ambientCoefficient, hit.Inside))
	if p.Specular {
		view := hit.Ray.Origin.Subtract(hit.Point)
		view.Normalize()
		color = color.Add(SpecularTerm(mat, hit.Light, normal, lightDir, view))
	}
	return color
}

// LightDirection returns the unit vector from a point toward the light
func LightDirection(light lights.PointLight, point core.Vec3) core.Vec3 {
	dir := light.Position.Subtract(point)
	dir.Normalize()
	return dir
}

// Diffuse returns light * base color * clamp(N·L) per channel.
// A light behind the surface contributes nothing.
func Diffuse(mat material.Material, light lights.PointLight, nDotL float64) core.PixelColor {
	intensity := max(0, min(1, nDotL))
	return core.LightColorToPixel(light.Color.MultiplyVec(mat.DiffuseK()).Multiply(intensity))
}

// Ambient returns light * ambient reflectance per channel. Hits from inside the
// surface get half the ambient light as a stand-in for self-shadowing.
func Ambient(mat material.Material, light lights.PointLight, ambientCoefficient float64, inside bool) core.PixelColor {
	ambient := core.LightColorToPixel(light.Color.MultiplyVec(mat.AmbientK(ambientCoefficient)))
	if inside {
		ambient = ambient.Divide(2)
	}
	return ambient
}

// SpecularTerm returns the Phong highlight for unit normal, light and view
// directions: specular_k * light * (R·V)^exponent per channel.
func SpecularTerm(mat material.Material, light lights.PointLight, normal, lightDir, view core.Vec3) core.PixelColor {
	nDotL := normal.Dot(lightDir)
	if nDotL < 0 {
		return core.PixelColor{}
	}

	reflected := normal.Multiply(2 * nDotL).Subtract(lightDir)
	reflected.Normalize()

	alignment := reflected.Dot(view)
	if alignment < 0 {
		return core.PixelColor{}
	}

	strength := math.Pow(alignment, mat.SpecularExponent)
	return core.LightColorToPixel(mat.SpecularK().MultiplyVec(light.Color).Multiply(strength))
}
