package loaders

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-phong-raytracer/pkg/camera"
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// SceneFile is the JSON form of a scene. Omitted camera fields keep their
// defaults and an omitted light is the default white light.
type SceneFile struct {
	Name        string       `json:"name,omitempty"`
	Variant     string       `json:"variant,omitempty"`
	Description string       `json:"description,omitempty"`
	Group       string       `json:"group,omitempty"`
	Camera      CameraFile   `json:"camera"`
	Light       *LightFile   `json:"light,omitempty"`
	Spheres     []SphereFile `json:"spheres"`
}

// CameraFile holds the camera settings of a scene file
type CameraFile struct {
	ViewReferencePoint *[3]float64 `json:"vrp,omitempty"`
	ApproxViewUp       *[3]float64 `json:"up,omitempty"`
	FocalLength        float64     `json:"focalLength,omitempty"`
	FieldOfView        float64     `json:"fieldOfView,omitempty"`
	Scale              float64     `json:"scale,omitempty"`
	Ambient            *float64    `json:"ambient,omitempty"`
	Width              int         `json:"width,omitempty"`
	Height             int         `json:"height,omitempty"`
}

// LightFile holds the point light of a scene file. A light without a color
// is white.
type LightFile struct {
	Position [3]float64 `json:"position"`
	Color    *[3]uint8  `json:"color,omitempty"`
}

// SphereFile holds one sphere of a scene file
type SphereFile struct {
	Center           [3]float64 `json:"center"`
	Radius           float64    `json:"radius"`
	Color            *[3]uint8  `json:"color,omitempty"`
	SpecularExponent float64    `json:"specularExponent,omitempty"`
}

// LoadScene reads a JSON scene file
func LoadScene(path string) (*scene.Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := DecodeScene(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return s, nil
}

// OpenScene creates a built-in scene or loads a discovered scene file by ID.
// A positive width and height in overrides resize a file scene's image.
func OpenScene(id string, overrides camera.Config) (*scene.Scene, error) {
	if !scene.IsFileScene(id) {
		return scene.Create(id, overrides)
	}

	info, err := scene.FindScene(id)
	if err != nil {
		return nil, err
	}
	s, err := LoadScene(info.FilePath)
	if err != nil {
		return nil, err
	}
	if overrides.Width > 0 && overrides.Height > 0 {
		s.Camera.Resize(overrides.Width, overrides.Height)
	}
	return s, nil
}

// DecodeScene decodes a JSON scene from r
func DecodeScene(r io.Reader) (*scene.Scene, error) {
	var sf SceneFile
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&sf); err != nil {
		return nil, fmt.Errorf("invalid scene JSON: %w", err)
	}
	return sf.Build()
}

// Build creates the scene described by the file
func (sf SceneFile) Build() (*scene.Scene, error) {
	cfg, err := sf.Camera.config()
	if err != nil {
		return nil, err
	}

	cam := camera.New(cfg)
	if sf.Camera.Ambient != nil {
		cam.SetAmbientCoefficient(*sf.Camera.Ambient)
	}
	if sf.Light != nil {
		light := lights.Default()
		if sf.Light.Color != nil {
			light = lights.NewPointLight(light.Position, core.VectorFromArray(*sf.Light.Color))
		}
		light.SetPosition(core.VectorFromArray(sf.Light.Position))
		cam.SetLight(light)
	}

	shapes := make([]geometry.Shape, 0, len(sf.Spheres))
	for i, sphere := range sf.Spheres {
		if sphere.Radius <= 0 {
			return nil, fmt.Errorf("sphere %d: radius must be positive, got %v", i, sphere.Radius)
		}

		mat := material.Default()
		if sphere.Color != nil {
			mat = material.New(core.VectorFromArray(*sphere.Color))
		}
		if sphere.SpecularExponent > 0 {
			mat.SpecularExponent = sphere.SpecularExponent
		}

		shapes = append(shapes, geometry.NewSphere(core.VectorFromArray(sphere.Center), sphere.Radius, mat))
	}

	return scene.New(cam, shapes...), nil
}

func (cf CameraFile) config() (camera.Config, error) {
	if cf.Width < 0 || cf.Height < 0 {
		return camera.Config{}, fmt.Errorf("invalid image size %dx%d", cf.Width, cf.Height)
	}
	if cf.FocalLength < 0 {
		return camera.Config{}, fmt.Errorf("focal length must be positive, got %v", cf.FocalLength)
	}

	cfg := camera.Config{
		FocalLength: cf.FocalLength,
		FieldOfView: cf.FieldOfView,
		Scale:       cf.Scale,
		Width:       cf.Width,
		Height:      cf.Height,
	}
	if cf.ViewReferencePoint != nil {
		cfg.ViewReferencePoint = core.VectorFromArray(*cf.ViewReferencePoint)
	}
	if cf.ApproxViewUp != nil {
		cfg.ApproxViewUp = core.VectorFromArray(*cf.ApproxViewUp)
	}
	return cfg, nil
}
