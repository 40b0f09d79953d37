package scene

import (
	"fmt"

	"github.com/df07/go-phong-raytracer/pkg/camera"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

// Scene contains all the elements needed for rendering. The camera owns the
// scene's single light.
type Scene struct {
	Camera *camera.Camera
	Shapes []geometry.Shape
}

// New creates a scene from a camera and shapes
func New(cam *camera.Camera, shapes ...geometry.Shape) *Scene {
	return &Scene{Camera: cam, Shapes: shapes}
}

// Light returns the scene light for editing
func (s *Scene) Light() *lights.PointLight {
	return s.Camera.Light()
}

// Shape returns the shape at index. An index outside the scene panics.
func (s *Scene) Shape(index int) geometry.Shape {
	if index < 0 || index >= len(s.Shapes) {
		panic(fmt.Sprintf("shape index %d outside scene of %d shapes", index, len(s.Shapes)))
	}
	return s.Shapes[index]
}

// editable returns the shape at index if it exists and accepts edits
func (s *Scene) editable(index int) (geometry.Editable, error) {
	if index < 0 || index >= len(s.Shapes) {
		return nil, fmt.Errorf("shape index %d outside scene of %d shapes", index, len(s.Shapes))
	}
	shape, ok := s.Shapes[index].(geometry.Editable)
	if !ok {
		return nil, fmt.Errorf("shape %d (%T) cannot be edited", index, s.Shapes[index])
	}
	return shape, nil
}
