package scene

import (
	"github.com/df07/go-phong-raytracer/pkg/camera"
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

func newCamera(defaults camera.Config, overrides []camera.Config) *camera.Camera {
	cfg := defaults
	if len(overrides) > 0 {
		cfg = camera.MergeConfig(defaults, overrides[0])
	}
	return camera.New(cfg)
}

// NewDefaultScene creates the interactive scene: three burgundy spheres
// receding diagonally, a zima blue sphere to the left and a burnt orange one
// in front.
func NewDefaultScene(cameraOverrides ...camera.Config) *Scene {
	cam := newCamera(camera.DefaultConfig(), cameraOverrides)

	return New(cam,
		geometry.NewDefaultSphere(),
		geometry.DefaultSphereAt(core.NewVec3(100, 100, 200)),
		geometry.DefaultSphereAt(core.NewVec3(200, 200, 400)),
		geometry.NewSphereWithColour(core.NewVec3(-150, -50, 200), geometry.DefaultRadius, material.ZimaBlue),
		geometry.NewSphereWithColour(core.NewVec3(34, 100, -150), geometry.DefaultRadius, material.BurntOrange),
	)
}

// NewSingleSphereScene creates one sphere of radius 100 at the origin
func NewSingleSphereScene(cameraOverrides ...camera.Config) *Scene {
	cam := newCamera(camera.DefaultConfig(), cameraOverrides)
	return New(cam, geometry.NewSphere(core.NewVec3(0, 0, 0), 100, material.Default()))
}

// NewBenchmarkScene creates the frame-time benchmark: three burgundy spheres
// lit from below-left through a long lens.
func NewBenchmarkScene(cameraOverrides ...camera.Config) *Scene {
	defaults := camera.DefaultConfig()
	defaults.FocalLength = camera.DefaultImageSize
	defaults.Scale = 0.3

	cam := newCamera(defaults, cameraOverrides)
	cam.SetLight(lights.NewPointLight(core.NewVec3(-250, -250, -100), material.White))

	const radius = 49.0
	return New(cam,
		geometry.NewSphere(core.NewVec3(0, 0, 0), radius, material.Default()),
		geometry.NewSphere(core.NewVec3(50, 50, 150), radius, material.Default()),
		geometry.NewSphere(core.NewVec3(100, 100, 300), radius, material.Default()),
	)
}
