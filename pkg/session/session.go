package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// CameraWarnThreshold is the camera update time above which a warning is logged
const CameraWarnThreshold = time.Millisecond

// Frame is a rendered image and the stats of the render that produced it.
// Buffer is a private copy and may be read freely.
type Frame struct {
	Sequence uint64
	Buffer   *renderer.FrameBuffer
	Stats    renderer.RenderStats
}

// Inspection describes what a single pixel sees
type Inspection struct {
	Hit        bool
	ShapeIndex int // -1 when nothing is hit
	Shape      geometry.Shape
	Point      core.Vec3
	Normal     core.Vec3
	Distance   float64
	Inside     bool
	Color      core.PixelColor
}

// Session is the single control thread of an interactive scene. Every
// mutation and every render happens under one lock, so a frame never sees a
// half-applied edit.
type Session struct {
	mu        sync.Mutex
	scene     *scene.Scene
	raytracer *renderer.Raytracer
	buffer    *renderer.FrameBuffer // Last complete frame
	scratch   *renderer.FrameBuffer // Frame in progress, swapped in on success
	stats     renderer.RenderStats
	sequence  uint64
	logger    core.Logger

	subMu       sync.Mutex
	subscribers map[chan Frame]struct{}
}

// New creates a session for s rendered by rt into a 4-channel frame buffer
func New(s *scene.Scene, rt *renderer.Raytracer, logger core.Logger) (*Session, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}

	buffer, err := renderer.NewFrameBuffer(s.Camera.Width(), s.Camera.Height(), 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create frame buffer: %w", err)
	}

	return &Session{
		scene:       s,
		raytracer:   rt,
		buffer:      buffer,
		scratch:     buffer.Clone(),
		logger:      logger,
		subscribers: make(map[chan Frame]struct{}),
	}, nil
}

// Render draws the current scene and notifies subscribers
func (s *Session) Render(ctx context.Context) (renderer.RenderStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLocked(ctx)
}

// renderLocked draws into the scratch buffer, so a cancelled render never
// leaves a partly drawn frame behind.
func (s *Session) renderLocked(ctx context.Context) (renderer.RenderStats, error) {
	// Start from the last frame so changed pixel counts are relative to it
	copy(s.scratch.Pix, s.buffer.Pix)

	stats, err := s.raytracer.Render(ctx, s.scratch, s.scene.Camera, s.scene.Shapes)
	if err != nil {
		return stats, fmt.Errorf("render failed: %w", err)
	}

	s.buffer, s.scratch = s.scratch, s.buffer
	s.stats = stats
	s.sequence++
	s.publish(Frame{Sequence: s.sequence, Buffer: s.buffer.Clone(), Stats: stats})
	return stats, nil
}

// Apply applies one intent and re-renders
func (s *Session) Apply(ctx context.Context, intent scene.Intent) (renderer.RenderStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	if err := intent.Apply(s.scene); err != nil {
		return renderer.RenderStats{}, fmt.Errorf("failed to apply %T: %w", intent, err)
	}

	switch intent.(type) {
	case scene.Orbit, scene.ResetCamera:
		if elapsed := time.Since(start); elapsed > CameraWarnThreshold {
			s.logger.Printf("WARNING: camera update took %v\n", elapsed)
		}
	}

	return s.renderLocked(ctx)
}

// Frame returns a copy of the last rendered frame
func (s *Session) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Frame{Sequence: s.sequence, Buffer: s.buffer.Clone(), Stats: s.stats}
}

// View runs fn with the scene while no edit or render can run. fn must not
// keep the scene or modify it.
func (s *Session) View(fn func(*scene.Scene)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.scene)
}

// Inspect traces pixel (x, y) of the current view
func (s *Session) Inspect(x, y int) (Inspection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cam := s.scene.Camera
	if x < 0 || x >= cam.Width() || y < 0 || y >= cam.Height() {
		return Inspection{}, fmt.Errorf("pixel (%d, %d) outside %dx%d image", x, y, cam.Width(), cam.Height())
	}

	color, hit, isHit := s.raytracer.ShadePixel(cam.Snapshot(), s.scene.Shapes, x, y)
	result := Inspection{ShapeIndex: -1, Color: color}
	if !isHit {
		return result, nil
	}

	result.Hit = true
	result.Shape = hit.Shape
	result.Point = hit.Point
	result.Normal = hit.Normal()
	result.Distance = hit.T
	result.Inside = hit.Inside
	for i, shape := range s.scene.Shapes {
		if shape == hit.Shape {
			result.ShapeIndex = i
			break
		}
	}
	return result, nil
}

// Subscribe returns a channel that receives every new frame and a function
// that cancels the subscription. Slow subscribers miss frames instead of
// blocking the renderer.
func (s *Session) Subscribe() (<-chan Frame, func()) {
	ch := make(chan Frame, 1)

	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, ch)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Session) publish(frame Frame) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for ch := range s.subscribers {
		select {
		case ch <- frame:
		default:
			// Subscriber still busy with the previous frame, skip
		}
	}
}

// Close stops the render workers
func (s *Session) Close() {
	s.raytracer.Close()
}
