package renderer

import (
	"context"
	"runtime"
	"sync"

	"github.com/df07/go-phong-raytracer/pkg/camera"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
)

// RowTask represents a band of rows for the worker pool
type RowTask struct {
	Ctx      context.Context
	StartRow int // First row, inclusive
	EndRow   int // Last row, exclusive
	TaskID   int
	View     *camera.View     // Frame snapshot shared by every task of a frame
	Shapes   []geometry.Shape // Read-only during the frame
	Buffer   *FrameBuffer     // Each task owns a disjoint set of rows
	Results  chan<- RowResult // Per-frame result channel
}

// RowResult contains the result from rendering a row band
type RowResult struct {
	TaskID int
	Stats  RenderStats
	Error  error
}

// WorkerPool manages parallel row rendering. It is started once and reused
// across frames.
type WorkerPool struct {
	taskQueue  chan RowTask
	workers    []*Worker
	numWorkers int
	wg         sync.WaitGroup
}

// Worker handles individual row tasks
type Worker struct {
	ID        int
	raytracer *Raytracer
	taskQueue chan RowTask
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(raytracer *Raytracer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:  make(chan RowTask, numWorkers*2),
		numWorkers: numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:        i,
			raytracer: raytracer,
			taskQueue: wp.taskQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		// A cancelled frame skips the remaining bands and leaves their rows untouched
		if err := task.Ctx.Err(); err != nil {
			task.Results <- RowResult{TaskID: task.TaskID, Error: err}
			continue
		}

		stats := w.raytracer.RenderRows(task.View, task.Shapes, task.Buffer, task.StartRow, task.EndRow)
		task.Results <- RowResult{TaskID: task.TaskID, Stats: stats}
	}
}
