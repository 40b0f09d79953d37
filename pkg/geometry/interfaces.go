package geometry

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// Shape interface for objects that can be hit by rays
type Shape interface {
	// Intersect returns the nearest valid intersection of the ray with the shape
	Intersect(ray core.Ray, light lights.PointLight) (Intersection, bool)

	// SurfaceNormal returns the unit outward normal at a point on the surface
	SurfaceNormal(point core.Vec3) core.Vec3

	// Material returns a copy of the shape's material
	Material() material.Material
}

// Editable is implemented by shapes that accept scene-mutation intents
type Editable interface {
	Shape
	SetAxis(axis core.Axis, value float64)
	AdjustSize(delta float64)
	SetColourChannel(channel core.ColorChannel, value uint8)
}
