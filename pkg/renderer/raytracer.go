package renderer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/camera"
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/integrator"
)

// Config contains render driver configuration
type Config struct {
	NumWorkers    int             // Number of parallel workers (0 = use CPU count)
	RowsPerTask   int             // Rows per worker task (0 = split evenly across workers)
	Background    core.PixelColor // Color of pixels whose ray hits nothing
	WarnThreshold time.Duration   // Frame time above which a warning is logged
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		NumWorkers:    0,
		RowsPerTask:   0,
		Background:    core.PixelColor{},
		WarnThreshold: 40 * time.Millisecond, // 25 fps
	}
}

// ErrClosed is returned by Render after Close
var ErrClosed = errors.New("raytracer closed")

// Raytracer renders frames of a sphere scene in parallel row bands
type Raytracer struct {
	config     Config
	integrator integrator.Integrator
	logger     core.Logger

	poolOnce   sync.Once
	workerPool *WorkerPool
	renderMu   sync.Mutex // Frames are rendered one at a time
	closed     bool
}

// New creates a raytracer. The worker pool is started on the first render.
func New(config Config, integ integrator.Integrator, logger core.Logger) *Raytracer {
	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	if integ == nil {
		integ = integrator.NewPhong()
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Raytracer{
		config:     config,
		integrator: integ,
		logger:     logger,
	}
}

// Config returns the effective configuration
func (rt *Raytracer) Config() Config { return rt.config }

func (rt *Raytracer) pool() *WorkerPool {
	rt.poolOnce.Do(func() {
		rt.workerPool = NewWorkerPool(rt, rt.config.NumWorkers)
		rt.workerPool.Start()
	})
	return rt.workerPool
}

// Close stops the worker pool. Later renders fail with ErrClosed.
func (rt *Raytracer) Close() {
	rt.renderMu.Lock()
	defer rt.renderMu.Unlock()

	if rt.closed {
		return
	}
	rt.closed = true
	if rt.workerPool != nil {
		rt.workerPool.Stop()
		rt.workerPool = nil
	}
}

// rowsPerTask returns the band height for a frame of the given height
func (rt *Raytracer) rowsPerTask(height int) int {
	if rt.config.RowsPerTask > 0 {
		return rt.config.RowsPerTask
	}
	rows := (height + rt.config.NumWorkers - 1) / rt.config.NumWorkers
	return max(rows, 1)
}

// Render draws one frame of shapes as seen by cam into buf. The camera is
// snapshotted once, so the whole frame uses a single rotation and light.
// If ctx is cancelled, bands not yet started are skipped and ctx.Err() is
// returned.
func (rt *Raytracer) Render(ctx context.Context, buf *FrameBuffer, cam *camera.Camera, shapes []geometry.Shape) (RenderStats, error) {
	rt.renderMu.Lock()
	defer rt.renderMu.Unlock()

	if rt.closed {
		return RenderStats{}, ErrClosed
	}
	if buf.Width != cam.Width() || buf.Height != cam.Height() {
		return RenderStats{}, fmt.Errorf("frame buffer %dx%d does not match camera %dx%d",
			buf.Width, buf.Height, cam.Width(), cam.Height())
	}

	start := time.Now()
	view := cam.Snapshot()
	pool := rt.pool()

	bandRows := rt.rowsPerTask(buf.Height)
	numTasks := (buf.Height + bandRows - 1) / bandRows
	results := make(chan RowResult, numTasks)

	for taskID := 0; taskID < numTasks; taskID++ {
		startRow := taskID * bandRows
		pool.SubmitTask(RowTask{
			Ctx:      ctx,
			StartRow: startRow,
			EndRow:   min(startRow+bandRows, buf.Height),
			TaskID:   taskID,
			View:     view,
			Shapes:   shapes,
			Buffer:   buf,
			Results:  results,
		})
	}

	stats := RenderStats{Workers: pool.GetNumWorkers()}
	var renderErr error
	for i := 0; i < numTasks; i++ {
		result := <-results
		if result.Error != nil {
			renderErr = result.Error
			continue
		}
		stats.Add(result.Stats)
	}
	stats.Duration = time.Since(start)

	if renderErr != nil {
		rt.logger.Printf("Frame cancelled after %d/%d rows: %v\n", stats.Rows, buf.Height, renderErr)
		return stats, renderErr
	}

	if rt.config.WarnThreshold > 0 && stats.Duration > rt.config.WarnThreshold {
		rt.logger.Printf("WARNING: frame took %v, above the %v budget (%d/%d pixels changed)\n",
			stats.Duration, rt.config.WarnThreshold, stats.ChangedPixels, stats.TotalPixels)
	} else {
		rt.logger.Printf("Frame rendered in %v (%d/%d pixels changed)\n",
			stats.Duration, stats.ChangedPixels, stats.TotalPixels)
	}

	return stats, nil
}

// RenderRows renders rows [startRow, endRow) into buf. Rows are disjoint
// between tasks, so concurrent calls never touch the same pixel.
func (rt *Raytracer) RenderRows(view *camera.View, shapes []geometry.Shape, buf *FrameBuffer, startRow, endRow int) RenderStats {
	var stats RenderStats

	for j := startRow; j < endRow; j++ {
		for i := 0; i < buf.Width; i++ {
			color, _, isHit := rt.ShadePixel(view, shapes, i, j)
			if isHit {
				stats.HitPixels++
			}
			if buf.SetPixel(i, j, color) {
				stats.ChangedPixels++
			}
			stats.TotalPixels++
		}
		stats.Rows++
	}

	return stats
}

// ShadePixel traces the primary ray of pixel (i, j) and returns its color and
// the nearest hit, if any.
func (rt *Raytracer) ShadePixel(view *camera.View, shapes []geometry.Shape, i, j int) (core.PixelColor, geometry.Intersection, bool) {
	hit, isHit := geometry.ClosestIntersection(shapes, view.Ray(i, j), view.Light)
	if !isHit {
		return rt.config.Background, hit, false
	}
	return rt.integrator.Shade(&hit, view.AmbientCoefficient), hit, true
}
