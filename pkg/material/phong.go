package material

import "github.com/df07/go-phong-raytracer/pkg/core"

// Material describes how a surface responds to the Phong lighting terms.
// Only the base color is stored; the ambient and specular reflectances are
// derived from it on every call.
type Material struct {
	Color            core.Vec3 // Base (diffuse) color, 0.0-1.0 per channel
	SpecularExponent float64   // Phong shininess exponent
}

// New creates a material from an 8-bit base color
func New(color core.PixelColor) Material {
	return Material{
		Color:            color.ToLightColor(),
		SpecularExponent: DefaultSpecularExponent,
	}
}

// Default returns the burgundy material used by the default spheres
func Default() Material {
	return New(Burgundy)
}

// Colour returns the base diffuse color
func (m Material) Colour() core.Vec3 {
	return m.Color
}

// DiffuseK returns the diffuse reflectance
func (m Material) DiffuseK() core.Vec3 {
	return m.Color
}

// AmbientK returns the ambient reflectance for the given ambient coefficient
func (m Material) AmbientK(ambientCoefficient float64) core.Vec3 {
	return m.Color.Multiply(ambientCoefficient)
}

// SpecularK returns the specular reflectance, which follows the base color
func (m Material) SpecularK() core.Vec3 {
	return m.Color
}

// SetColour replaces all three channels of the base color
func (m *Material) SetColour(color core.PixelColor) {
	m.Color = color.ToLightColor()
}

// SetColourChannel stores value/255 into one channel of the base color
func (m *Material) SetColourChannel(channel core.ColorChannel, value uint8) {
	m.Color = m.Color.WithChannel(channel, core.ChannelToUnit(value))
}

// PixelColour returns the base color as 8-bit channels
func (m Material) PixelColour() core.PixelColor {
	return core.LightColorToPixel(m.Color)
}
