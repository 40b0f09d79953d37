package renderer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/camera"
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/integrator"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *captureLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *captureLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// redSphereScene returns a 100x100 camera lit from the eye and a red sphere of
// radius 100 at the origin.
func redSphereScene(t *testing.T) (*camera.Camera, []geometry.Shape, *FrameBuffer) {
	t.Helper()
	cam := camera.New(camera.Config{Width: 100, Height: 100})
	cam.SetAmbientCoefficient(0)
	cam.SetLight(lights.NewPointLight(core.NewVec3(0, 0, -1000), material.White))

	shapes := []geometry.Shape{
		geometry.NewSphereWithColour(core.NewVec3(0, 0, 0), 100, core.NewPixelColor(255, 0, 0)),
	}

	buf, err := NewFrameBuffer(100, 100, 3)
	if err != nil {
		t.Fatalf("NewFrameBuffer failed: %v", err)
	}
	return cam, shapes, buf
}

func TestRender_RedSphere(t *testing.T) {
	cam, shapes, buf := redSphereScene(t)
	rt := New(DefaultConfig(), integrator.NewPhong(), nil)
	defer rt.Close()

	stats, err := rt.Render(context.Background(), buf, cam, shapes)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if got := buf.PixelAt(50, 50); got != core.NewPixelColor(255, 0, 0) {
		t.Errorf("Expected center pixel (255,0,0), got %v", got)
	}

	corners := [][2]int{{0, 0}, {99, 0}, {0, 99}, {99, 99}}
	for _, c := range corners {
		if got := buf.PixelAt(c[0], c[1]); got != (core.PixelColor{}) {
			t.Errorf("Expected background at corner %v, got %v", c, got)
		}
	}

	if stats.TotalPixels != 100*100 {
		t.Errorf("Expected 10000 pixels, got %d", stats.TotalPixels)
	}
	if stats.Rows != 100 {
		t.Errorf("Expected 100 rows, got %d", stats.Rows)
	}
	if stats.HitPixels == 0 || stats.HitPixels >= stats.TotalPixels {
		t.Errorf("Expected some but not all pixels to hit, got %d", stats.HitPixels)
	}
	if stats.ChangedPixels == 0 || stats.ChangedPixels > stats.HitPixels {
		t.Errorf("Expected changed pixels in (0, %d], got %d", stats.HitPixels, stats.ChangedPixels)
	}
}

func TestRender_OnlyChangedPixelsAreWritten(t *testing.T) {
	cam, shapes, buf := redSphereScene(t)
	rt := New(DefaultConfig(), integrator.NewPhong(), nil)
	defer rt.Close()

	if _, err := rt.Render(context.Background(), buf, cam, shapes); err != nil {
		t.Fatalf("First render failed: %v", err)
	}
	stats, err := rt.Render(context.Background(), buf, cam, shapes)
	if err != nil {
		t.Fatalf("Second render failed: %v", err)
	}
	if stats.ChangedPixels != 0 {
		t.Errorf("Rendering an unchanged scene should change nothing, got %d", stats.ChangedPixels)
	}
}

func TestRender_OrbitMovesEyeButNotLight(t *testing.T) {
	tests := []struct {
		name     string
		ambient  float64
		expected core.PixelColor
	}{
		{"unlit back face", 0, core.NewPixelColor(0, 0, 0)},
		{"ambient only", 1, core.NewPixelColor(255, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam, shapes, buf := redSphereScene(t)
			cam.OrbitHorizontal(180)
			cam.SetAmbientCoefficient(tt.ambient)

			rt := New(DefaultConfig(), integrator.NewPhong(), nil)
			defer rt.Close()

			if _, err := rt.Render(context.Background(), buf, cam, shapes); err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if got := buf.PixelAt(50, 50); got != tt.expected {
				t.Errorf("Expected %v at center, got %v", tt.expected, got)
			}
		})
	}
}

func TestRender_WorkerLayoutsAgree(t *testing.T) {
	configs := []Config{
		{NumWorkers: 1, RowsPerTask: 100},
		{NumWorkers: 4, RowsPerTask: 1},
		{NumWorkers: 3, RowsPerTask: 7},
		{NumWorkers: 8},
	}

	var reference *FrameBuffer
	for _, cfg := range configs {
		cam, shapes, buf := redSphereScene(t)
		cam.SetAmbientCoefficient(0.3)
		cam.OrbitVertical(20)

		rt := New(cfg, integrator.NewPhong(), nil)
		stats, err := rt.Render(context.Background(), buf, cam, shapes)
		rt.Close()
		if err != nil {
			t.Fatalf("Render with %+v failed: %v", cfg, err)
		}
		if stats.Workers != max(cfg.NumWorkers, 1) {
			t.Errorf("Expected %d workers, got %d", cfg.NumWorkers, stats.Workers)
		}

		if reference == nil {
			reference = buf
			continue
		}
		for k := range buf.Pix {
			if buf.Pix[k] != reference.Pix[k] {
				t.Fatalf("Config %+v differs from reference at byte %d", cfg, k)
			}
		}
	}
}

func TestRender_Cancelled(t *testing.T) {
	cam, shapes, buf := redSphereScene(t)
	logger := &captureLogger{}
	rt := New(Config{NumWorkers: 2, RowsPerTask: 10}, integrator.NewPhong(), logger)
	defer rt.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := rt.Render(ctx, buf, cam, shapes)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if stats.Rows != 0 {
		t.Errorf("Expected no rows rendered, got %d", stats.Rows)
	}
	for k, v := range buf.Pix {
		if v != 0 {
			t.Fatalf("Cancelled frame wrote byte %d", k)
		}
	}
	if !logger.contains("cancelled") {
		t.Error("Expected the cancellation to be logged")
	}

	// The pool survives a cancelled frame
	if _, err := rt.Render(context.Background(), buf, cam, shapes); err != nil {
		t.Fatalf("Render after cancel failed: %v", err)
	}
	if buf.PixelAt(50, 50) != core.NewPixelColor(255, 0, 0) {
		t.Error("Expected the next frame to render normally")
	}
}

func TestRender_AfterClose(t *testing.T) {
	cam, shapes, buf := redSphereScene(t)
	rt := New(Config{NumWorkers: 2}, nil, nil)

	if _, err := rt.Render(context.Background(), buf, cam, shapes); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	rt.Close()
	rt.Close()

	if _, err := rt.Render(context.Background(), buf, cam, shapes); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed after Close, got %v", err)
	}
	if rt.workerPool != nil {
		t.Error("Render after Close started a new worker pool")
	}
}

func TestRender_SizeMismatch(t *testing.T) {
	cam, shapes, _ := redSphereScene(t)
	buf, _ := NewFrameBuffer(10, 10, 4)
	rt := New(DefaultConfig(), nil, nil)
	defer rt.Close()

	if _, err := rt.Render(context.Background(), buf, cam, shapes); err == nil {
		t.Error("Expected error for mismatched frame buffer")
	}
}

func TestRender_BackgroundAndEmptyScene(t *testing.T) {
	cam, _, buf := redSphereScene(t)
	cfg := DefaultConfig()
	cfg.Background = core.NewPixelColor(10, 20, 30)
	rt := New(cfg, integrator.NewPhong(), nil)
	defer rt.Close()

	stats, err := rt.Render(context.Background(), buf, cam, nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if stats.HitPixels != 0 {
		t.Errorf("Expected no hits, got %d", stats.HitPixels)
	}
	if buf.PixelAt(50, 50) != cfg.Background {
		t.Errorf("Expected background %v, got %v", cfg.Background, buf.PixelAt(50, 50))
	}
}

func TestRender_LogsSlowFrames(t *testing.T) {
	cam, shapes, buf := redSphereScene(t)
	logger := &captureLogger{}
	rt := New(Config{WarnThreshold: time.Nanosecond}, integrator.NewPhong(), logger)
	defer rt.Close()

	if _, err := rt.Render(context.Background(), buf, cam, shapes); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !logger.contains("WARNING") {
		t.Errorf("Expected a slow-frame warning, got %v", logger.lines)
	}
}

func TestShadePixel(t *testing.T) {
	cam, shapes, _ := redSphereScene(t)
	rt := New(DefaultConfig(), integrator.NewDiffuseAmbient(), nil)
	view := cam.Snapshot()

	color, hit, isHit := rt.ShadePixel(view, shapes, 50, 50)
	if !isHit {
		t.Fatal("Expected the center pixel to hit")
	}
	if hit.Shape != shapes[0] {
		t.Error("Expected the hit to reference the sphere")
	}
	if hit.T != 800 {
		t.Errorf("Expected t=800, got %f", hit.T)
	}
	if color != core.NewPixelColor(255, 0, 0) {
		t.Errorf("Expected (255,0,0), got %v", color)
	}

	if _, _, isHit := rt.ShadePixel(view, shapes, 0, 0); isHit {
		t.Error("Expected the corner pixel to miss")
	}
}

func TestRenderStats(t *testing.T) {
	var total RenderStats
	total.Add(RenderStats{TotalPixels: 10, ChangedPixels: 3, HitPixels: 4, Rows: 1})
	total.Add(RenderStats{TotalPixels: 10, ChangedPixels: 1, HitPixels: 6, Rows: 1})

	expected := RenderStats{TotalPixels: 20, ChangedPixels: 4, HitPixels: 10, Rows: 2}
	if total != expected {
		t.Errorf("Expected %+v, got %+v", expected, total)
	}

	total.Duration = 40 * time.Millisecond
	if fps := total.FramesPerSecond(); fps != 25 {
		t.Errorf("Expected 25 fps, got %f", fps)
	}
	if (RenderStats{}).FramesPerSecond() != 0 {
		t.Error("Expected zero fps for an empty duration")
	}
}
