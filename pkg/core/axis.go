package core

import (
	"fmt"
	"strings"
)

// Axis names one of the world coordinate axes
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the lower-case axis name
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// ParseAxis parses "x", "y" or "z"
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

// WithAxis returns a copy of the vector with one coordinate replaced
func (v Vector[T]) WithAxis(axis Axis, value T) Vector[T] {
	switch axis {
	case AxisX:
		v.X = value
	case AxisY:
		v.Y = value
	case AxisZ:
		v.Z = value
	default:
		panic(fmt.Sprintf("invalid axis %d", int(axis)))
	}
	return v
}
