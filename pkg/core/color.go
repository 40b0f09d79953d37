package core

import (
	"fmt"
	"strings"
)

// ColorChannel selects one component of a color vector
type ColorChannel int

const (
	Red ColorChannel = iota
	Green
	Blue
)

// String returns the lower-case channel name
func (c ColorChannel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// ParseColorChannel parses "red", "green" or "blue" (or r/g/b)
func ParseColorChannel(s string) (ColorChannel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return Red, nil
	case "green", "g":
		return Green, nil
	case "blue", "b":
		return Blue, nil
	}
	return 0, fmt.Errorf("unknown color channel %q", s)
}

// Channel returns the component selected by a color channel
func (v Vector[T]) Channel(channel ColorChannel) T {
	switch channel {
	case Red:
		return v.X
	case Green:
		return v.Y
	case Blue:
		return v.Z
	}
	panic(fmt.Sprintf("invalid color channel %d", int(channel)))
}

// WithChannel returns a copy of the vector with one channel replaced
func (v Vector[T]) WithChannel(channel ColorChannel, value T) Vector[T] {
	switch channel {
	case Red:
		v.X = value
	case Green:
		v.Y = value
	case Blue:
		v.Z = value
	default:
		panic(fmt.Sprintf("invalid color channel %d", int(channel)))
	}
	return v
}

// ToLightColor converts 0-255 channels into 0.0-1.0 light intensities
func (v Vector[T]) ToLightColor() Vec3 {
	return Vec3{
		X: float64(v.X) / 255.0,
		Y: float64(v.Y) / 255.0,
		Z: float64(v.Z) / 255.0,
	}
}

// LightColorToPixel converts 0.0-1.0 light intensities into truncated 8-bit channels
func LightColorToPixel(c Vec3) PixelColor {
	return PixelColor{
		X: fromFloat[uint8](c.X * 255.0),
		Y: fromFloat[uint8](c.Y * 255.0),
		Z: fromFloat[uint8](c.Z * 255.0),
	}
}

// ChannelToUnit converts one 0-255 channel value into 0.0-1.0
func ChannelToUnit(value uint8) float64 {
	return float64(value) / 255.0
}
