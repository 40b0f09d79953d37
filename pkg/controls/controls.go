// Package controls turns key presses into scene intents. It knows nothing
// about windowing; front ends map their own key codes onto Key.
package controls

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// Key is a front-end independent key
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
	KeyResetHorizontal // H
	KeyResetVertical   // V
	KeyResetBoth       // R
	KeySelect1
	KeySelect2
	KeySelect3
	KeySelect4
	KeySelect5
	KeySelectLight // L
	KeyMoveLeft    // A
	KeyMoveRight   // D
	KeyMoveUp      // W
	KeyMoveDown    // S
	KeyMoveNear    // Q
	KeyMoveFar     // E
	KeyGrow        // +
	KeyShrink      // -
	KeyAmbientDown // [
	KeyAmbientUp   // ]
	KeyRedDown     // Z
	KeyRedUp       // X
	KeyGreenDown   // N
	KeyGreenUp     // M
	KeyBlueDown    // ,
	KeyBlueUp      // .
)

// LightSelected is the selection index of the scene light
const LightSelected = -1

// Controller tracks the selected object and the step sizes of each edit
type Controller struct {
	Selected    int     // Shape index, or LightSelected
	OrbitStep   float64 // Degrees per orbit key press
	MoveStep    float64 // World units per move key press
	ResizeStep  float64 // Radius change per resize key press
	AmbientStep float64 // Ambient coefficient change per key press
	ColourStep  int     // Colour channel change per key press, 0-255 scale
}

// NewController creates a controller with the first shape selected
func NewController() *Controller {
	return &Controller{
		Selected:    0,
		OrbitStep:   5,
		MoveStep:    10,
		ResizeStep:  5,
		AmbientStep: 0.05,
		ColourStep:  15,
	}
}

// Intent returns the intent for key given the current scene. Selection keys
// change the controller and return false, as do keys with nothing to act on.
func (c *Controller) Intent(key Key, s *scene.Scene) (scene.Intent, bool) {
	switch key {
	case KeyLeft:
		return scene.Orbit{Axis: scene.Horizontal, Degrees: -c.OrbitStep}, true
	case KeyRight:
		return scene.Orbit{Axis: scene.Horizontal, Degrees: c.OrbitStep}, true
	case KeyUp:
		return scene.Orbit{Axis: scene.Vertical, Degrees: c.OrbitStep}, true
	case KeyDown:
		return scene.Orbit{Axis: scene.Vertical, Degrees: -c.OrbitStep}, true

	case KeyResetHorizontal:
		return scene.ResetCamera{Axis: scene.Horizontal}, true
	case KeyResetVertical:
		return scene.ResetCamera{Axis: scene.Vertical}, true
	case KeyResetBoth:
		return scene.ResetCamera{Axis: scene.Both}, true

	case KeySelect1, KeySelect2, KeySelect3, KeySelect4, KeySelect5:
		if index := int(key - KeySelect1); index < len(s.Shapes) {
			c.Selected = index
		}
		return nil, false
	case KeySelectLight:
		c.Selected = LightSelected
		return nil, false

	case KeyMoveLeft:
		return c.move(s, core.AxisX, -c.MoveStep)
	case KeyMoveRight:
		return c.move(s, core.AxisX, c.MoveStep)
	case KeyMoveUp:
		return c.move(s, core.AxisY, c.MoveStep)
	case KeyMoveDown:
		return c.move(s, core.AxisY, -c.MoveStep)
	case KeyMoveNear:
		return c.move(s, core.AxisZ, -c.MoveStep)
	case KeyMoveFar:
		return c.move(s, core.AxisZ, c.MoveStep)

	case KeyGrow:
		return c.resize(s, c.ResizeStep)
	case KeyShrink:
		return c.resize(s, -c.ResizeStep)

	case KeyAmbientDown:
		return scene.SetAmbient{Value: max(0, s.Camera.AmbientCoefficient()-c.AmbientStep)}, true
	case KeyAmbientUp:
		return scene.SetAmbient{Value: min(1, s.Camera.AmbientCoefficient()+c.AmbientStep)}, true

	case KeyRedDown:
		return c.recolor(s, core.Red, -c.ColourStep)
	case KeyRedUp:
		return c.recolor(s, core.Red, c.ColourStep)
	case KeyGreenDown:
		return c.recolor(s, core.Green, -c.ColourStep)
	case KeyGreenUp:
		return c.recolor(s, core.Green, c.ColourStep)
	case KeyBlueDown:
		return c.recolor(s, core.Blue, -c.ColourStep)
	case KeyBlueUp:
		return c.recolor(s, core.Blue, c.ColourStep)
	}
	return nil, false
}

func (c *Controller) move(s *scene.Scene, axis core.Axis, delta float64) (scene.Intent, bool) {
	if c.Selected == LightSelected {
		position := s.Light().Position
		return scene.MoveLight{Axis: axis, Value: component(position, axis) + delta}, true
	}

	sphere, ok := c.sphere(s)
	if !ok {
		return nil, false
	}
	return scene.MoveShape{Index: c.Selected, Axis: axis, Value: component(sphere.Center, axis) + delta}, true
}

func (c *Controller) resize(s *scene.Scene, delta float64) (scene.Intent, bool) {
	if _, ok := c.sphere(s); !ok {
		return nil, false
	}
	return scene.ResizeShape{Index: c.Selected, Delta: delta}, true
}

// recolor steps one channel of the selection's color, saturating at 0 and 255
func (c *Controller) recolor(s *scene.Scene, channel core.ColorChannel, delta int) (scene.Intent, bool) {
	if c.Selected == LightSelected {
		current := unitToChannel(s.Light().Color.Channel(channel))
		return scene.RecolorLight{Channel: channel, Value: stepChannel(current, delta)}, true
	}

	sphere, ok := c.sphere(s)
	if !ok {
		return nil, false
	}
	current := unitToChannel(sphere.Material().Colour().Channel(channel))
	return scene.RecolorShape{Index: c.Selected, Channel: channel, Value: stepChannel(current, delta)}, true
}

func unitToChannel(unit float64) int {
	return int(math.Round(unit * 255))
}

func stepChannel(current, delta int) uint8 {
	return uint8(max(0, min(255, current+delta)))
}

func (c *Controller) sphere(s *scene.Scene) (*geometry.Sphere, bool) {
	if c.Selected < 0 || c.Selected >= len(s.Shapes) {
		return nil, false
	}
	sphere, ok := s.Shapes[c.Selected].(*geometry.Sphere)
	return sphere, ok
}

func component(v core.Vec3, axis core.Axis) float64 {
	switch axis {
	case core.AxisX:
		return v.X
	case core.AxisY:
		return v.Y
	default:
		return v.Z
	}
}
