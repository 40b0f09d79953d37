package integrator

import (
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// hitFront fires a ray along +z at a sphere centered on the origin and returns
// the intersection on the surface facing the ray.
func hitFront(t *testing.T, sphere *geometry.Sphere, light lights.PointLight) geometry.Intersection {
	t.Helper()
	ray := core.NewRay(core.NewVec3(0, 0, -1000), core.NewVec3(0, 0, 1))
	hit, isHit := sphere.Intersect(ray, light)
	if !isHit {
		t.Fatal("Expected the ray to hit the sphere")
	}
	return hit
}

func TestPhong_HeadOnRed(t *testing.T) {
	sphere := geometry.NewSphereWithColour(core.NewVec3(0, 0, 0), 100, core.NewPixelColor(255, 0, 0))
	light := lights.NewPointLight(core.NewVec3(0, 0, -1000), material.White)
	hit := hitFront(t, sphere, light)

	tests := []struct {
		name       string
		integrator *Phong
	}{
		{"diffuse and ambient", NewDiffuseAmbient()},
		{"with specular", NewPhong()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color := tt.integrator.Shade(&hit, 0)
			if color.X < 254 {
				t.Errorf("Expected red channel near 255, got %d", color.X)
			}
			if color.Y > 1 || color.Z > 1 {
				t.Errorf("Expected green and blue near 0, got %d and %d", color.Y, color.Z)
			}
		})
	}
}

func TestDiffuse_ClampsNDotL(t *testing.T) {
	mat := material.New(core.NewPixelColor(255, 255, 255))
	light := lights.Default()

	tests := []struct {
		name     string
		nDotL    float64
		expected core.PixelColor
	}{
		{"light behind surface", -0.5, core.NewPixelColor(0, 0, 0)},
		{"grazing", 0, core.NewPixelColor(0, 0, 0)},
		{"half", 0.5, core.NewPixelColor(127, 127, 127)},
		{"head on", 1, core.NewPixelColor(255, 255, 255)},
		{"above one is clamped", 1.5, core.NewPixelColor(255, 255, 255)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Diffuse(mat, light, tt.nDotL); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAmbient_InsideIsHalved(t *testing.T) {
	mat := material.New(core.NewPixelColor(255, 255, 0))
	light := lights.Default()

	outside := Ambient(mat, light, 1, false)
	inside := Ambient(mat, light, 1, true)

	if outside != core.NewPixelColor(255, 255, 0) {
		t.Errorf("Expected full ambient (255,255,0), got %v", outside)
	}
	if inside != core.NewPixelColor(127, 127, 0) {
		t.Errorf("Expected halved ambient (127,127,0), got %v", inside)
	}
	if got := Ambient(mat, light, 0, false); got != (core.PixelColor{}) {
		t.Errorf("Expected no ambient with a zero coefficient, got %v", got)
	}
}

func TestSpecularTerm(t *testing.T) {
	mat := material.New(core.NewPixelColor(255, 255, 255))
	light := lights.Default()
	normal := core.NewVec3(0, 0, -1)

	tests := []struct {
		name     string
		lightDir core.Vec3
		view     core.Vec3
		expected core.PixelColor
	}{
		{"mirror alignment", core.NewVec3(0, 0, -1), core.NewVec3(0, 0, -1), core.NewPixelColor(255, 255, 255)},
		{"light behind surface", core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1), core.PixelColor{}},
		{"viewer opposite reflection", core.NewVec3(1, 0, -1).Normalized(), core.NewVec3(1, 0, 0), core.PixelColor{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpecularTerm(mat, light, normal, tt.lightDir, tt.view); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSpecularTerm_FollowsBaseColor(t *testing.T) {
	mat := material.New(core.NewPixelColor(0, 255, 0))
	normal := core.NewVec3(0, 0, -1)

	got := SpecularTerm(mat, lights.Default(), normal, normal, normal)
	if got != core.NewPixelColor(0, 255, 0) {
		t.Errorf("Expected highlight tinted by the base color, got %v", got)
	}
}

func TestPhong_SaturatingSum(t *testing.T) {
	sphere := geometry.NewSphereWithColour(core.NewVec3(0, 0, 0), 100, core.NewPixelColor(255, 255, 255))
	light := lights.NewPointLight(core.NewVec3(0, 0, -1000), material.White)
	hit := hitFront(t, sphere, light)

	color := NewPhong().Shade(&hit, 1)
	if color != core.NewPixelColor(255, 255, 255) {
		t.Errorf("Expected saturated white, got %v", color)
	}
}

func TestLightDirection(t *testing.T) {
	dir := LightDirection(lights.PointLight{Position: core.NewVec3(0, 10, 0)}, core.NewVec3(0, 0, 0))
	if dir != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected (0,1,0), got %v", dir)
	}
}
