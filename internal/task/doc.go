// Package task runs units of work on a bounded pool of goroutines.
//
// WorkerPool is the building block: it drains a TaskQueue with a fixed number
// of workers, recovers panics and reports failures to an error handler. Fleet
// runs use a pool directly as a barrier; TaskRunner keeps a pool alive for
// the lifetime of the server to execute work triggered by events.
package task
