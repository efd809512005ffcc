package task

import (
	"context"
	"fmt"
	"log/slog"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// TaskRunner processes tasks submitted at any time until it is stopped.
// Nothing is persisted: tasks still queued when the process exits are lost.
type TaskRunner struct {
	queue  *TaskQueue
	pool   *WorkerPool
	config TaskRunnerConfig
	logger *slog.Logger
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "task_runner")

	queue := NewTaskQueue(config.QueueSize, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: config.WorkerCount}, logger)
	pool.SetErrorHandler(func(task Task, err error) {
		logger.Error("task execution failed",
			"task_id", task.ID(),
			"task_type", task.Type(),
			"error", err)
	})

	return &TaskRunner{
		queue:  queue,
		pool:   pool,
		config: config,
		logger: logger,
	}
}

// SetErrorHandler allows setting a custom error handler function.
// It must be called before Start.
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.pool.SetErrorHandler(handler)
}

// Submit adds a new task to the queue
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to submit task: %w", err)
	}
	if err := r.queue.Enqueue(task); err != nil {
		return fmt.Errorf("failed to submit task: %w", err)
	}
	return nil
}

// Start begins processing tasks
func (r *TaskRunner) Start(ctx context.Context) error {
	if err := r.pool.Start(ctx); err != nil {
		return err
	}
	r.logger.Info("task runner started",
		"worker_count", r.pool.WorkerCount(),
		"queue_size", r.config.QueueSize)
	return nil
}

// Stop closes the queue and waits for queued tasks to finish. If ctx ends
// first, in-flight tasks are cancelled and ctx's error is returned.
func (r *TaskRunner) Stop(ctx context.Context) error {
	r.queue.Close()

	done := make(chan struct{})
	go func() {
		r.pool.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("task runner stopped")
		return nil
	case <-ctx.Done():
		r.logger.Warn("task runner stop timed out, cancelling tasks",
			"pending", r.queue.Len())
		r.pool.Stop()
		<-done
		return ctx.Err()
	}
}
