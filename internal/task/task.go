package task

import (
	"context"

	"github.com/google/uuid"
)

// Task type constants
const (
	// TaskTypeProcessAccount runs the daily workflow for one account during a fleet run
	TaskTypeProcessAccount = "process_account"

	// TaskTypeNetworkTest submits a single network test outside a fleet run
	TaskTypeNetworkTest = "network_test"
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// TaskQueueReader provides read-only access to the task channel
// allowing workers to consume tasks without the ability to enqueue
type TaskQueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks
	GetChannel() <-chan Task
}

// TaskQueueWriter provides write access to the task queue
// allowing services to enqueue tasks for processing
type TaskQueueWriter interface {
	// Enqueue adds a task to the queue for processing
	// Returns an error if the queue is full or closed
	Enqueue(task Task) error

	// Close closes the task queue, preventing further task submission
	Close()
}

// FuncTask adapts a function to the Task interface.
type FuncTask struct {
	id       uuid.UUID
	taskType string
	fn       func(ctx context.Context) error
}

// NewFuncTask creates a task of the given type that runs fn.
func NewFuncTask(taskType string, fn func(ctx context.Context) error) *FuncTask {
	return &FuncTask{
		id:       uuid.New(),
		taskType: taskType,
		fn:       fn,
	}
}

// ID returns the task's unique identifier
func (t *FuncTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *FuncTask) Type() string {
	return t.taskType
}

// Execute runs the wrapped function
func (t *FuncTask) Execute(ctx context.Context) error {
	return t.fn(ctx)
}

var _ Task = (*FuncTask)(nil)
