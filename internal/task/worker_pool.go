package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// ErrTaskPanicked is passed to the error handler when a task panics.
var ErrTaskPanicked = errors.New("task panicked")

// ErrPoolStarted is returned when Start is called more than once.
var ErrPoolStarted = errors.New("worker pool already started")

// WorkerPool manages a pool of worker goroutines that process tasks
// from a task queue. At most WorkerCount tasks execute at once.
//
// Workers exit when the queue is closed and drained, or when the pool is
// stopped. Wait is the barrier: closing the queue and then calling Wait
// returns once every queued task has finished.
type WorkerPool struct {
	// taskQueue provides read access to the tasks to be processed
	taskQueue TaskQueueReader

	// workerCount is the number of concurrent workers to start
	workerCount int

	// wg tracks active worker goroutines
	wg sync.WaitGroup

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc

	// logger for structured logging
	logger *slog.Logger

	// errorHandler is called when a task execution fails or panics.
	// If nil, errors are only logged
	errorHandler func(task Task, err error)
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start
	// If zero or negative, defaults to 1
	WorkerCount int
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount: 10,
	}
}

// NewWorkerPool creates a new worker pool with the specified configuration
func NewWorkerPool(taskQueue TaskQueueReader, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	return &WorkerPool{
		taskQueue:   taskQueue,
		workerCount: workerCount,
		logger:      logger,
	}
}

// SetErrorHandler sets the handler for task failures. It must be called
// before Start.
func (p *WorkerPool) SetErrorHandler(handler func(task Task, err error)) {
	p.errorHandler = handler
}

// WorkerCount returns the number of workers the pool runs.
func (p *WorkerPool) WorkerCount() int {
	return p.workerCount
}

// Start launches the workers. Tasks execute with a context derived from ctx;
// cancelling ctx stops workers after their current task.
func (p *WorkerPool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrPoolStarted
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	p.logger.Debug("worker pool started", "worker_count", p.workerCount)
	return nil
}

// Wait blocks until every worker has exited.
func (p *WorkerPool) Wait() {
	p.wg.Wait()

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()
}

// Stop cancels the workers and waits for in-flight tasks to return.
// Queued tasks that were not picked up are abandoned.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	tasks := p.taskQueue.GetChannel()
	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("stopping worker", "worker_id", id)
			return

		case task, ok := <-tasks:
			if !ok {
				p.logger.Debug("task channel closed, stopping worker", "worker_id", id)
				return
			}
			p.processTask(ctx, task, id)
		}
	}
}

// processTask handles execution of a single task
func (p *WorkerPool) processTask(ctx context.Context, task Task, workerID int) {
	logger := p.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
		"worker_id", workerID,
	)

	logger.Debug("processing task")
	if err := p.execute(ctx, task, logger); err != nil {
		logger.Error("task execution failed", "error", err)
		if p.errorHandler != nil {
			p.errorHandler(task, err)
		}
		return
	}
	logger.Debug("task completed")
}

func (p *WorkerPool) execute(ctx context.Context, task Task, logger *slog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("recovered from task panic",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	return task.Execute(ctx)
}
