package renderer

import (
	"runtime"
	"sync"
)

// tileRenderer renders one tile of the current frame
type tileRenderer interface {
	renderTile(tile *Tile) TileStats
}

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile   *Tile
	TaskID int // For deterministic ordering
	frame  tileRenderer
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  TileStats
}

// WorkerPool manages parallel tile rendering. Workers live for the lifetime
// of the pool and pick up tiles from every frame submitted to it.
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	numWorkers  int
	wg          sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		taskQueue:   make(chan TileTask, numWorkers*4),
		resultQueue: make(chan TileResult, numWorkers*4),
		numWorkers:  numWorkers,
	}
}

// Start begins all workers; calling it again is a no-op
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.started || wp.stopped {
		return
	}
	wp.started = true
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run()
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	wp.mu.Unlock()

	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// Stopped reports whether Stop has been called
func (wp *WorkerPool) Stopped() bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.stopped
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// RenderTiles renders every tile of frame and returns once all are done.
// Tiles have non-overlapping bounds, so workers write to the frame without locking.
func (wp *WorkerPool) RenderTiles(tiles []*Tile, frame tileRenderer) []TileStats {
	wp.Start()

	go func() {
		for i, tile := range tiles {
			wp.SubmitTask(TileTask{Tile: tile, TaskID: i, frame: frame})
		}
	}()

	stats := make([]TileStats, len(tiles))
	for range tiles {
		result, ok := wp.GetResult()
		if !ok {
			break
		}
		stats[result.TaskID] = result.Stats
	}
	return stats
}

// run is the main worker loop
func (wp *WorkerPool) run() {
	defer wp.wg.Done()
	for task := range wp.taskQueue {
		wp.resultQueue <- TileResult{TaskID: task.TaskID, Stats: task.frame.renderTile(task.Tile)}
	}
}
