package renderer

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"
)

// ErrPoolStopped is returned when submitting to a stopped pool
var ErrPoolStopped = errors.New("worker pool stopped")

// Task is one unit of work: either a band or a budget share
type Task struct {
	ID     int
	Band   *RenderRequest
	Budget *BudgetRequest

	results chan<- TaskResult
}

// TaskResult contains the result from rendering a task
type TaskResult struct {
	ID     int
	Band   RenderResponse
	Budget BudgetResponse
	Error  error
}

// WorkerPool runs render tasks on a fixed number of goroutines.
// Workers start on first use and are reused until Stop.
type WorkerPool struct {
	taskQueue  chan Task
	numWorkers int
	wg         sync.WaitGroup
	startOnce  sync.Once
	mu         sync.RWMutex
	stopped    bool
}

// DefaultWorkerCount returns the number of logical CPUs
func DefaultWorkerCount() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// NewWorkerPool creates a worker pool with the specified number of workers (0 = one per logical CPU)
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount()
	}
	return &WorkerPool{
		taskQueue:  make(chan Task, 2*numWorkers),
		numWorkers: numWorkers,
	}
}

// Start launches the workers. Only the first call has an effect.
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		for i := 0; i < wp.numWorkers; i++ {
			wp.wg.Add(1)
			go wp.run()
		}
	})
}

// Stop gracefully shuts down all workers after queued tasks finish
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	close(wp.taskQueue) // No more tasks
	wp.mu.Unlock()

	wp.wg.Wait()
}

// Submit queues a task whose result will be sent on results.
// It blocks while the queue is full, unless ctx is done first.
func (wp *WorkerPool) Submit(ctx context.Context, task Task, results chan<- TaskResult) error {
	wp.Start()

	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.stopped {
		return ErrPoolStopped
	}

	task.results = results
	select {
	case wp.taskQueue <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (wp *WorkerPool) run() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		result := TaskResult{ID: task.ID}
		switch {
		case task.Band != nil:
			result.Band, result.Error = RenderBand(*task.Band)
		case task.Budget != nil:
			result.Budget, result.Error = RenderBudget(*task.Budget)
		default:
			result.Error = errors.New("empty task")
		}
		task.results <- result
	}
}
