package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskmgmt-api/internal/config"
	"github.com/phrazzld/taskmgmt-api/internal/platform/memstore"
	"github.com/phrazzld/taskmgmt-api/internal/platform/postgres"
	"github.com/phrazzld/taskmgmt-api/internal/report"
	"github.com/phrazzld/taskmgmt-api/internal/service"
	"github.com/phrazzld/taskmgmt-api/internal/service/auth"
	"github.com/phrazzld/taskmgmt-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when running on the in-memory store.
	db    *sql.DB
	store store.Store

	jwtService     auth.JWTService
	projectService service.ProjectService
	taskService    service.TaskService
	commentService service.CommentService
	userService    service.UserService
	reportService  service.ReportService
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	switch cfg.Database.Driver {
	case config.DriverMemory:
		app.store = memstore.New(logger)
		logger.Warn("using in-memory store, data is lost on shutdown")
	case config.DriverPostgres:
		db, err := setupAppDatabase(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		app.db = db
		app.store = postgres.NewStore(db, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if err := app.initServices(cfg); err != nil {
		app.cleanup()
		return nil, err
	}
	return app, nil
}

// initServices builds the token validator and the domain services on top
// of app.store.
func (app *application) initServices(cfg *config.Config) error {
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	opts := []service.Option{service.WithLogger(app.logger)}

	if app.projectService, err = service.NewProjectService(app.store, opts...); err != nil {
		return fmt.Errorf("failed to create project service: %w", err)
	}
	if app.taskService, err = service.NewTaskService(app.store, opts...); err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}
	if app.commentService, err = service.NewCommentService(app.store, opts...); err != nil {
		return fmt.Errorf("failed to create comment service: %w", err)
	}
	if app.userService, err = service.NewUserService(app.store, opts...); err != nil {
		return fmt.Errorf("failed to create user service: %w", err)
	}

	engine := report.NewEngine(report.Config{Workers: cfg.Report.Workers}, app.logger)
	if app.reportService, err = service.NewReportService(app.store, engine, opts...); err != nil {
		return fmt.Errorf("failed to create report service: %w", err)
	}

	app.logger.Info("services initialized", slog.Int("report_workers", engine.Workers()))
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
		return
	}
	app.logger.Info("database connection closed")
}
