package fleet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/simfleet/internal/domain"
	"github.com/phrazzld/simfleet/internal/platform/logger"
	"github.com/phrazzld/simfleet/internal/task"
)

// DefaultConcurrency is the number of accounts processed at once.
const DefaultConcurrency = 10

// ErrNoAccounts is returned when a run finds no accounts to process.
var ErrNoAccounts = errors.New("no accounts to process")

// Store is the persistence the runner needs.
type Store interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	SaveSummary(ctx context.Context, s domain.RunSummary) error
}

// Processor brings a single account up to date for today.
type Processor interface {
	Process(ctx context.Context, phone string) (domain.ProcessResult, error)
}

// Config configures a Runner.
type Config struct {
	// Concurrency bounds how many accounts are processed at once.
	// Zero means DefaultConcurrency.
	Concurrency int
}

// RunResult describes one completed run.
type RunResult struct {
	RunID      uuid.UUID         `json:"run_id"`
	Summary    domain.RunSummary `json:"summary"`
	Dispatched int               `json:"dispatched"`
	Processed  int               `json:"processed"`
	Skipped    int               `json:"skipped"`
	Errored    int               `json:"errored"`
}

// Runner executes fleet runs. Concurrent runs are not coordinated; the last
// summary written wins.
type Runner struct {
	store       Store
	processor   Processor
	clock       *domain.Clock
	concurrency int
	logger      *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(store Store, processor Processor, clock *domain.Clock, cfg Config, logger *slog.Logger) (*Runner, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if processor == nil {
		return nil, errors.New("processor cannot be nil")
	}
	if clock == nil {
		return nil, errors.New("clock cannot be nil")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		store:       store,
		processor:   processor,
		clock:       clock,
		concurrency: cfg.Concurrency,
		logger:      logger.With(slog.String("component", "fleet_runner")),
	}, nil
}

// RunAll processes every account and stores the run summary. It returns only
// after every account task has finished. Cancelling ctx does not stop a run
// once it has started; per-account failures are counted, not returned.
func (r *Runner) RunAll(ctx context.Context) (*RunResult, error) {
	ctx = context.WithoutCancel(ctx)
	result := &RunResult{RunID: uuid.New()}

	log := logger.FromContextOrDefault(ctx, r.logger).With(slog.String("run_id", result.RunID.String()))
	ctx = logger.WithLogger(ctx, log)

	startedAt := r.clock.Now()

	accounts, err := r.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}

	log.Info("fleet run started",
		slog.Int("accounts", len(accounts)),
		slog.Int("concurrency", r.concurrency))

	var mu sync.Mutex
	queue := task.NewTaskQueue(len(accounts), log)
	pool := task.NewWorkerPool(queue, task.WorkerPoolConfig{WorkerCount: r.concurrency}, log)
	pool.SetErrorHandler(func(t task.Task, err error) {
		mu.Lock()
		result.Errored++
		mu.Unlock()
	})

	for _, a := range accounts {
		if err := queue.Enqueue(r.accountTask(a.PhoneNumber, result, &mu)); err != nil {
			queue.Close()
			return nil, fmt.Errorf("queueing account %s: %w", a.PhoneNumber, err)
		}
		result.Dispatched++
	}
	queue.Close()

	if err := pool.Start(ctx); err != nil {
		return nil, fmt.Errorf("starting worker pool: %w", err)
	}
	pool.Wait()

	finishedAt := r.clock.Now()

	accounts, err = r.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("re-reading accounts: %w", err)
	}
	result.Summary = domain.Summarize(accounts, startedAt, finishedAt)

	if err := r.store.SaveSummary(ctx, result.Summary); err != nil {
		return nil, fmt.Errorf("saving run summary: %w", err)
	}

	log.Info("fleet run finished",
		slog.Int("dispatched", result.Dispatched),
		slog.Int("processed", result.Processed),
		slog.Int("skipped", result.Skipped),
		slog.Int("errored", result.Errored),
		slog.Int("success", result.Summary.SuccessCount),
		slog.Int("fail", result.Summary.FailCount),
		slog.Duration("elapsed", finishedAt.Sub(startedAt)))
	return result, nil
}

func (r *Runner) accountTask(phone string, result *RunResult, mu *sync.Mutex) task.Task {
	return task.NewFuncTask(task.TaskTypeProcessAccount, func(ctx context.Context) error {
		outcome, err := r.processor.Process(ctx, phone)
		if err != nil {
			return fmt.Errorf("processing account %s: %w", phone, err)
		}

		mu.Lock()
		defer mu.Unlock()
		switch outcome {
		case domain.ProcessSkipped:
			result.Skipped++
		default:
			result.Processed++
		}
		return nil
	})
}
