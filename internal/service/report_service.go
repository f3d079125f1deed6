package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/platform/logger"
	"github.com/phrazzld/taskmgmt-api/internal/report"
	"github.com/phrazzld/taskmgmt-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of a batch status update. Ids that matched
// no task are not reported.
type BatchResult struct {
	Success      bool `json:"success"`
	UpdatedCount int  `json:"updated_count"`
}

// ReportService builds performance reports and applies batch updates.
type ReportService interface {
	// GenerateProjectPerformanceReport summarises every project from one
	// consistent snapshot.
	GenerateProjectPerformanceReport(ctx context.Context) ([]report.ProjectPerformance, error)

	// BatchUpdateTaskStatus sets status on every existing task among ids
	// and commits all changes at once, or none of them.
	BatchUpdateTaskStatus(ctx context.Context, ids []int64, status string) (BatchResult, error)
}

// statusMutator applies a status to a task copy.
type statusMutator func(task *domain.Task, status domain.TaskStatus) error

type reportServiceImpl struct {
	store  store.Store
	engine *report.Engine
	options

	mutateStatus statusMutator
}

var _ ReportService = (*reportServiceImpl)(nil)

// NewReportService creates a ReportService.
// It returns an error if the store or engine is nil.
func NewReportService(st store.Store, engine *report.Engine, opts ...Option) (ReportService, error) {
	if st == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "store cannot be nil"}
	}
	if engine == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "report engine cannot be nil"}
	}
	return &reportServiceImpl{
		store:        st,
		engine:       engine,
		options:      buildOptions("report_service", opts),
		mutateStatus: (*domain.Task).SetStatus,
	}, nil
}

func (s *reportServiceImpl) GenerateProjectPerformanceReport(ctx context.Context) ([]report.ProjectPerformance, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var snaps []report.ProjectSnapshot
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		projects, err := repos.Projects.List(ctx)
		if err != nil {
			return err
		}
		tasks, err := repos.Tasks.List(ctx)
		if err != nil {
			return err
		}
		users, err := repos.Users.List(ctx)
		if err != nil {
			return err
		}
		snaps = report.Assemble(projects, tasks, users)
		return nil
	})
	if err != nil {
		return nil, NewServiceError("project_performance_report", "failed to load report data", err)
	}

	results, err := s.engine.Build(ctx, snaps, s.now())
	if err != nil {
		return nil, NewServiceError("project_performance_report", "failed to build report", err)
	}

	log.Info("project performance report generated", slog.Int("project_count", len(results)))
	return results, nil
}

func (s *reportServiceImpl) BatchUpdateTaskStatus(ctx context.Context, ids []int64, status string) (BatchResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	target, err := domain.ParseTaskStatus(status)
	if err != nil {
		return BatchResult{}, NewServiceError("batch_update_task_status", "invalid status", err)
	}
	if len(ids) == 0 {
		return BatchResult{}, NewServiceError("batch_update_task_status", "no tasks given", ErrEmptyBatch)
	}

	var updated int
	err = s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		tasks, err := repos.Tasks.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			return fmt.Errorf("%w: none of %d ids matched", store.ErrTaskNotFound, len(ids))
		}

		copies := make([]*domain.Task, len(tasks))
		g, gctx := errgroup.WithContext(ctx)
		for i, t := range tasks {
			i, t := i, t
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				c := *t
				if err := s.mutateStatus(&c, target); err != nil {
					return fmt.Errorf("task %d: %w", t.ID, err)
				}
				copies[i] = &c
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, c := range copies {
			if err := repos.Tasks.Update(ctx, c); err != nil {
				return err
			}
		}
		updated = len(copies)
		return nil
	})
	if err != nil {
		log.Warn("batch status update rolled back",
			slog.Int("requested", len(ids)),
			slog.String("status", string(target)),
			slog.String("error", err.Error()))
		return BatchResult{}, NewServiceError("batch_update_task_status", "batch update failed", err)
	}

	log.Info("batch status update committed",
		slog.Int("requested", len(ids)),
		slog.Int("updated", updated),
		slog.String("status", string(target)))
	return BatchResult{Success: true, UpdatedCount: updated}, nil
}
