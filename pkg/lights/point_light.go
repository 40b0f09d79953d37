package lights

import "github.com/df07/go-phong-raytracer/pkg/core"

// PointLight is the single light source of a scene. It is copied by value into
// every intersection, so edits never race with an in-flight frame.
type PointLight struct {
	Position core.Vec3 // World-space position
	Color    core.Vec3 // Light intensity, 0.0-1.0 per channel
}

// NewPointLight creates a point light from an 8-bit color
func NewPointLight(position core.Vec3, color core.PixelColor) PointLight {
	return PointLight{Position: position, Color: color.ToLightColor()}
}

// Default returns a white light above and to the left of the default camera
func Default() PointLight {
	return PointLight{
		Position: core.NewVec3(-250, 250, -500),
		Color:    core.NewVec3(1, 1, 1),
	}
}

// SetX moves the light along the X axis
func (l *PointLight) SetX(x float64) { l.Position.X = x }

// SetY moves the light along the Y axis
func (l *PointLight) SetY(y float64) { l.Position.Y = y }

// SetZ moves the light along the Z axis
func (l *PointLight) SetZ(z float64) { l.Position.Z = z }

// SetAxis sets one coordinate of the light position
func (l *PointLight) SetAxis(axis core.Axis, value float64) {
	l.Position = l.Position.WithAxis(axis, value)
}

// SetPosition moves the light
func (l *PointLight) SetPosition(position core.Vec3) {
	l.Position = position
}

// SetColourChannel stores value/255 into one channel of the light color
func (l *PointLight) SetColourChannel(channel core.ColorChannel, value uint8) {
	l.Color = l.Color.WithChannel(channel, core.ChannelToUnit(value))
}

// PixelColour returns the light color as 8-bit channels
func (l PointLight) PixelColour() core.PixelColor {
	return core.LightColorToPixel(l.Color)
}
