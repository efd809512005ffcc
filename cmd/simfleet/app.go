package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/phrazzld/simfleet/internal/config"
	"github.com/phrazzld/simfleet/internal/domain"
	"github.com/phrazzld/simfleet/internal/events"
	"github.com/phrazzld/simfleet/internal/fleet"
	"github.com/phrazzld/simfleet/internal/platform/logger"
	"github.com/phrazzld/simfleet/internal/platform/upstream"
	"github.com/phrazzld/simfleet/internal/service"
	"github.com/phrazzld/simfleet/internal/store"
	"github.com/phrazzld/simfleet/internal/task"
)

// application holds the wired dependencies and releases them on cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	accounts *store.AccountRepository
	clock    *domain.Clock

	provisioning *service.ProvisioningService
	status       *service.StatusService
	fleetRunner  *fleet.Runner

	eventEmitter *events.Dispatcher
	taskRunner   *task.TaskRunner
}

// loadConfig loads configuration and installs the process logger.
func loadConfig(path string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return cfg, log, nil
}

// bootstrap loads configuration, opens the store and wires the application.
func bootstrap(ctx context.Context, configPath string) (*application, error) {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("store_driver", cfg.Store.Driver),
		slog.Int("concurrency", cfg.Fleet.Concurrency))

	tree, db, err := openTree(ctx, cfg.Store, log)
	if err != nil {
		return nil, err
	}
	app, err := newApplication(ctx, cfg, log, tree, nil)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}
	app.db = db
	return app, nil
}

// newApplication wires services over tree. opts customize the upstream
// client; tests use them to point it at a fake server.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	tree store.Tree,
	opts []upstream.Option,
) (*application, error) {
	loc, err := cfg.Fleet.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone: %w", err)
	}

	app := &application{
		config:   cfg,
		logger:   log,
		accounts: store.NewAccountRepository(tree),
		clock:    domain.NewClock(loc, nil),
	}

	client := upstream.NewClient(upstream.Config{
		Timeout:     cfg.Upstream.Timeout,
		MaxAttempts: cfg.Upstream.MaxAttempts,
		RetryDelay:  cfg.Upstream.RetryDelay,
		UserAgent:   cfg.Upstream.UserAgent,
	}, append([]upstream.Option{upstream.WithLogger(log)}, opts...)...)
	endpoints := upstream.Endpoints{BaseURL: cfg.Upstream.BaseURL}

	quests, err := service.NewQuestService(client, endpoints, app.accounts, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create quest service: %w", err)
	}
	networkTests, err := service.NewNetworkTestService(client, endpoints, cfg.Upstream.UserAgent, app.accounts, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create network test service: %w", err)
	}
	processor, err := service.NewAccountProcessor(app.accounts, quests, networkTests, app.clock, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create account processor: %w", err)
	}
	app.fleetRunner, err = fleet.NewRunner(app.accounts, processor, app.clock,
		fleet.Config{Concurrency: cfg.Fleet.Concurrency}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create fleet runner: %w", err)
	}
	app.status, err = service.NewStatusService(app.accounts, app.accounts, app.clock, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create status service: %w", err)
	}

	// New accounts get a network test in the background.
	app.taskRunner = task.NewTaskRunner(task.DefaultTaskRunnerConfig(), log)
	if err := app.taskRunner.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}
	app.eventEmitter = events.NewDispatcher(log)
	factory := task.NewNetworkTestTaskFactory(app.accounts, networkTests, log)
	app.eventEmitter.RegisterHandler(task.NewAccountAddedHandler(factory, app.taskRunner, log))

	app.provisioning, err = service.NewProvisioningService(app.accounts, app.eventEmitter, log)
	if err != nil {
		app.stopTasks()
		return nil, fmt.Errorf("failed to create provisioning service: %w", err)
	}

	log.Info("application initialized")
	return app, nil
}

// healthCheck pings the database when there is one.
func (app *application) healthCheck(ctx context.Context) error {
	if app.db == nil {
		return nil
	}
	return app.db.PingContext(ctx)
}

// runOnce performs one fleet run and writes the result as JSON to out.
func (app *application) runOnce(ctx context.Context, out io.Writer) error {
	result, err := app.fleetRunner.RunAll(ctx)
	if err != nil {
		return fmt.Errorf("fleet run failed: %w", err)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func (app *application) stopTasks() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.taskRunner.Stop(ctx); err != nil {
		app.logger.Error("task runner did not stop cleanly", slog.String("error", err.Error()))
	}
}

// cleanup waits for background tasks and closes the database.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.stopTasks()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}
}
