package scene

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// RotationAxis selects which camera angle an orbit or reset applies to
type RotationAxis int

const (
	Horizontal RotationAxis = iota
	Vertical
	Both
)

func (a RotationAxis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Both:
		return "both"
	default:
		return fmt.Sprintf("rotation(%d)", int(a))
	}
}

// ParseRotationAxis parses "horizontal", "vertical" or "both"
func ParseRotationAxis(s string) (RotationAxis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	case "both":
		return Both, nil
	}
	return 0, fmt.Errorf("unknown rotation axis %q", s)
}

// Intent is a single user edit of the scene. Intents are applied between
// frames, never while one is being rendered.
type Intent interface {
	Apply(s *Scene) error
}

// MoveShape sets one coordinate of a shape's center
type MoveShape struct {
	Index int
	Axis  core.Axis
	Value float64
}

func (m MoveShape) Apply(s *Scene) error {
	shape, err := s.editable(m.Index)
	if err != nil {
		return err
	}
	shape.SetAxis(m.Axis, m.Value)
	return nil
}

// ResizeShape grows or shrinks a shape by Delta
type ResizeShape struct {
	Index int
	Delta float64
}

func (r ResizeShape) Apply(s *Scene) error {
	shape, err := s.editable(r.Index)
	if err != nil {
		return err
	}
	shape.AdjustSize(r.Delta)
	return nil
}

// RecolorShape sets one channel of a shape's base color
type RecolorShape struct {
	Index   int
	Channel core.ColorChannel
	Value   uint8
}

func (r RecolorShape) Apply(s *Scene) error {
	shape, err := s.editable(r.Index)
	if err != nil {
		return err
	}
	shape.SetColourChannel(r.Channel, r.Value)
	return nil
}

// MoveLight sets one coordinate of the light position
type MoveLight struct {
	Axis  core.Axis
	Value float64
}

func (m MoveLight) Apply(s *Scene) error {
	s.Light().SetAxis(m.Axis, m.Value)
	return nil
}

// RecolorLight sets one channel of the light color
type RecolorLight struct {
	Channel core.ColorChannel
	Value   uint8
}

func (r RecolorLight) Apply(s *Scene) error {
	s.Light().SetColourChannel(r.Channel, r.Value)
	return nil
}

// Orbit rotates the camera around the look-at point
type Orbit struct {
	Axis    RotationAxis
	Degrees float64
}

func (o Orbit) Apply(s *Scene) error {
	switch o.Axis {
	case Horizontal:
		s.Camera.OrbitHorizontal(o.Degrees)
	case Vertical:
		s.Camera.OrbitVertical(o.Degrees)
	case Both:
		s.Camera.OrbitHorizontal(o.Degrees)
		s.Camera.OrbitVertical(o.Degrees)
	default:
		return fmt.Errorf("invalid rotation axis %d", int(o.Axis))
	}
	return nil
}

// ResetCamera returns one or both orbit angles to zero
type ResetCamera struct {
	Axis RotationAxis
}

func (r ResetCamera) Apply(s *Scene) error {
	switch r.Axis {
	case Horizontal:
		s.Camera.ResetHorizontal()
	case Vertical:
		s.Camera.ResetVertical()
	case Both:
		s.Camera.ResetBoth()
	default:
		return fmt.Errorf("invalid rotation axis %d", int(r.Axis))
	}
	return nil
}

// SetAmbient sets the ambient coefficient, clamped into [0, 1]
type SetAmbient struct {
	Value float64
}

func (a SetAmbient) Apply(s *Scene) error {
	s.Camera.SetAmbientCoefficient(a.Value)
	return nil
}

// intentEnvelope is the wire form of an intent: {"type": "...", ...}
type intentEnvelope struct {
	Type    string   `json:"type"`
	Index   *int     `json:"index"`
	Axis    string   `json:"axis"`
	Channel string   `json:"channel"`
	Value   *float64 `json:"value"`
	Delta   float64  `json:"delta"`
	Degrees float64  `json:"degrees"`
}

func (e intentEnvelope) index() (int, error) {
	if e.Index == nil {
		return 0, fmt.Errorf("%s intent requires an index", e.Type)
	}
	return *e.Index, nil
}

func (e intentEnvelope) value() (float64, error) {
	if e.Value == nil {
		return 0, fmt.Errorf("%s intent requires a value", e.Type)
	}
	return *e.Value, nil
}

func (e intentEnvelope) channelValue() (uint8, error) {
	v, err := e.value()
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("channel value %v outside [0, 255]", v)
	}
	return uint8(v), nil
}

// DecodeIntent decodes a JSON intent such as
// {"type": "move_shape", "index": 0, "axis": "x", "value": 120}
func DecodeIntent(data []byte) (Intent, error) {
	var e intentEnvelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("invalid intent: %w", err)
	}

	switch e.Type {
	case "move_shape":
		index, err := e.index()
		if err != nil {
			return nil, err
		}
		axis, err := core.ParseAxis(e.Axis)
		if err != nil {
			return nil, err
		}
		value, err := e.value()
		if err != nil {
			return nil, err
		}
		return MoveShape{Index: index, Axis: axis, Value: value}, nil

	case "resize_shape":
		index, err := e.index()
		if err != nil {
			return nil, err
		}
		return ResizeShape{Index: index, Delta: e.Delta}, nil

	case "recolor_shape":
		index, err := e.index()
		if err != nil {
			return nil, err
		}
		channel, err := core.ParseColorChannel(e.Channel)
		if err != nil {
			return nil, err
		}
		value, err := e.channelValue()
		if err != nil {
			return nil, err
		}
		return RecolorShape{Index: index, Channel: channel, Value: value}, nil

	case "move_light":
		axis, err := core.ParseAxis(e.Axis)
		if err != nil {
			return nil, err
		}
		value, err := e.value()
		if err != nil {
			return nil, err
		}
		return MoveLight{Axis: axis, Value: value}, nil

	case "recolor_light":
		channel, err := core.ParseColorChannel(e.Channel)
		if err != nil {
			return nil, err
		}
		value, err := e.channelValue()
		if err != nil {
			return nil, err
		}
		return RecolorLight{Channel: channel, Value: value}, nil

	case "orbit":
		axis, err := ParseRotationAxis(e.Axis)
		if err != nil {
			return nil, err
		}
		return Orbit{Axis: axis, Degrees: e.Degrees}, nil

	case "reset_camera":
		axis, err := ParseRotationAxis(e.Axis)
		if err != nil {
			return nil, err
		}
		return ResetCamera{Axis: axis}, nil

	case "set_ambient":
		value, err := e.value()
		if err != nil {
			return nil, err
		}
		return SetAmbient{Value: value}, nil
	}

	return nil, fmt.Errorf("unknown intent type %q", e.Type)
}
