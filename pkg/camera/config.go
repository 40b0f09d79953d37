package camera

import "github.com/df07/go-phong-raytracer/pkg/core"

// Config contains the parameters a camera is created from
type Config struct {
	ViewReferencePoint core.Vec3 // Eye position before any orbit
	ApproxViewUp       core.Vec3 // Approximate up direction, usually world up
	FocalLength        float64   // Distance from the eye to the view plane
	FieldOfView        float64   // Field of view in degrees
	Scale              float64   // Multiplier on the world-space pixel size
	AmbientCoefficient float64   // Ambient light coefficient in [0,1]; 0 means unset, use NoAmbient for none
	Width              int       // Image width in pixels
	Height             int       // Image height in pixels
}

// NoAmbient requests an ambient coefficient of zero. A zero AmbientCoefficient
// is treated as unset and takes the default.
const NoAmbient = -1.0

// DefaultImageSize is the width and height of the default square image
const DefaultImageSize = 1000

// DefaultConfig returns the camera used by the interactive application
func DefaultConfig() Config {
	return Config{
		ViewReferencePoint: core.NewVec3(0, 0, -DefaultImageSize),
		ApproxViewUp:       core.NewVec3(0, 1, 0),
		FocalLength:        100,
		FieldOfView:        45,
		Scale:              1,
		AmbientCoefficient: 0.3,
		Width:              DefaultImageSize,
		Height:             DefaultImageSize,
	}
}

// MergeConfig returns base with every non-zero field of override applied.
// NoAmbient passes through and is clamped to zero by the camera.
func MergeConfig(base, override Config) Config {
	result := base

	if override.ViewReferencePoint != (core.Vec3{}) {
		result.ViewReferencePoint = override.ViewReferencePoint
	}
	if override.ApproxViewUp != (core.Vec3{}) {
		result.ApproxViewUp = override.ApproxViewUp
	}
	if override.FocalLength != 0 {
		result.FocalLength = override.FocalLength
	}
	if override.FieldOfView != 0 {
		result.FieldOfView = override.FieldOfView
	}
	if override.Scale != 0 {
		result.Scale = override.Scale
	}
	if override.AmbientCoefficient != 0 {
		result.AmbientCoefficient = override.AmbientCoefficient
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}

	return result
}
