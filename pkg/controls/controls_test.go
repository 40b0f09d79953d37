package controls

import (
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

func TestController_Intent(t *testing.T) {
	s := scene.NewDefaultScene()
	c := NewController()

	tests := []struct {
		key      Key
		expected scene.Intent
	}{
		{KeyLeft, scene.Orbit{Axis: scene.Horizontal, Degrees: -5}},
		{KeyRight, scene.Orbit{Axis: scene.Horizontal, Degrees: 5}},
		{KeyUp, scene.Orbit{Axis: scene.Vertical, Degrees: 5}},
		{KeyDown, scene.Orbit{Axis: scene.Vertical, Degrees: -5}},
		{KeyResetHorizontal, scene.ResetCamera{Axis: scene.Horizontal}},
		{KeyResetVertical, scene.ResetCamera{Axis: scene.Vertical}},
		{KeyResetBoth, scene.ResetCamera{Axis: scene.Both}},
		{KeyMoveRight, scene.MoveShape{Index: 0, Axis: core.AxisX, Value: 10}},
		{KeyMoveDown, scene.MoveShape{Index: 0, Axis: core.AxisY, Value: -10}},
		{KeyMoveFar, scene.MoveShape{Index: 0, Axis: core.AxisZ, Value: 10}},
		{KeyGrow, scene.ResizeShape{Index: 0, Delta: 5}},
		{KeyShrink, scene.ResizeShape{Index: 0, Delta: -5}},
		{KeyAmbientUp, scene.SetAmbient{Value: 0.35}},
		{KeyRedUp, scene.RecolorShape{Index: 0, Channel: core.Red, Value: 143}},
		{KeyRedDown, scene.RecolorShape{Index: 0, Channel: core.Red, Value: 113}},
		{KeyGreenDown, scene.RecolorShape{Index: 0, Channel: core.Green, Value: 0}},
		{KeyBlueUp, scene.RecolorShape{Index: 0, Channel: core.Blue, Value: 47}},
	}

	for _, tt := range tests {
		intent, ok := c.Intent(tt.key, s)
		if !ok {
			t.Errorf("Key %d: expected an intent", tt.key)
			continue
		}
		if got, want := intent, tt.expected; got != want {
			// SetAmbient values come from float arithmetic
			if a, isAmbient := got.(scene.SetAmbient); isAmbient {
				if diff := a.Value - want.(scene.SetAmbient).Value; diff > 1e-9 || diff < -1e-9 {
					t.Errorf("Key %d: expected %+v, got %+v", tt.key, want, got)
				}
				continue
			}
			t.Errorf("Key %d: expected %+v, got %+v", tt.key, want, got)
		}
	}
}

func TestController_Selection(t *testing.T) {
	s := scene.NewDefaultScene()
	c := NewController()

	if _, ok := c.Intent(KeySelect2, s); ok {
		t.Error("Selection keys should not produce an intent")
	}
	if c.Selected != 1 {
		t.Fatalf("Expected shape 1 selected, got %d", c.Selected)
	}

	// Shape 1 sits at (100, 100, 200)
	intent, _ := c.Intent(KeyMoveLeft, s)
	if want := (scene.MoveShape{Index: 1, Axis: core.AxisX, Value: 90}); intent != want {
		t.Errorf("Expected %+v, got %+v", want, intent)
	}

	c.Intent(KeySelectLight, s)
	if c.Selected != LightSelected {
		t.Fatalf("Expected the light selected, got %d", c.Selected)
	}
	light := s.Light().Position
	intent, _ = c.Intent(KeyMoveNear, s)
	if want := (scene.MoveLight{Axis: core.AxisZ, Value: light.Z - 10}); intent != want {
		t.Errorf("Expected %+v, got %+v", want, intent)
	}
	if _, ok := c.Intent(KeyGrow, s); ok {
		t.Error("The light cannot be resized")
	}

	// Selecting past the last shape keeps the current selection
	single := scene.NewSingleSphereScene()
	c.Intent(KeySelect1, single)
	c.Intent(KeySelect5, single)
	if c.Selected != 0 {
		t.Errorf("Expected selection to stay at 0, got %d", c.Selected)
	}
}

func TestController_Recolor(t *testing.T) {
	s := scene.NewDefaultScene()
	c := NewController()

	// Repeated steps saturate and the applied value is read back exactly
	for i := 0; i < 20; i++ {
		intent, ok := c.Intent(KeyRedUp, s)
		if !ok {
			t.Fatal("Expected a recolor intent")
		}
		if err := intent.Apply(s); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
	}
	if got := s.Shapes[0].Material().PixelColour(); got != core.NewPixelColor(255, 0, 32) {
		t.Errorf("Expected red to saturate at 255, got %v", got)
	}

	c.Intent(KeySelectLight, s)
	intent, _ := c.Intent(KeyBlueUp, s)
	if want := (scene.RecolorLight{Channel: core.Blue, Value: 255}); intent != want {
		t.Errorf("Expected %+v, got %+v", want, intent)
	}
	intent, _ = c.Intent(KeyBlueDown, s)
	if want := (scene.RecolorLight{Channel: core.Blue, Value: 240}); intent != want {
		t.Errorf("Expected %+v, got %+v", want, intent)
	}
	if err := intent.Apply(s); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got := s.Light().PixelColour(); got != core.NewPixelColor(255, 255, 240) {
		t.Errorf("Expected light (255,255,240), got %v", got)
	}
}

func TestController_AmbientClamp(t *testing.T) {
	s := scene.NewSingleSphereScene()
	c := NewController()

	s.Camera.SetAmbientCoefficient(1)
	intent, _ := c.Intent(KeyAmbientUp, s)
	if intent != (scene.SetAmbient{Value: 1}) {
		t.Errorf("Expected ambient to stay at 1, got %+v", intent)
	}

	s.Camera.SetAmbientCoefficient(0)
	intent, _ = c.Intent(KeyAmbientDown, s)
	if intent != (scene.SetAmbient{Value: 0}) {
		t.Errorf("Expected ambient to stay at 0, got %+v", intent)
	}
}

// TestController_AppliesCleanly checks every produced intent is accepted
func TestController_AppliesCleanly(t *testing.T) {
	s := scene.NewDefaultScene()
	c := NewController()

	for key := KeyLeft; key <= KeyBlueUp; key++ {
		intent, ok := c.Intent(key, s)
		if !ok {
			continue
		}
		if err := intent.Apply(s); err != nil {
			t.Errorf("Key %d: %v", key, err)
		}
	}
}
