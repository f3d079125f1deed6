package report

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"golang.org/x/sync/errgroup"
)

// TaskSnapshot is a task together with its resolved assignee, if any.
type TaskSnapshot struct {
	Task     domain.Task
	Assignee *domain.User
}

// ProjectSnapshot is a project with all of its tasks loaded.
type ProjectSnapshot struct {
	Project domain.Project
	Tasks   []TaskSnapshot
}

// AssigneeDistribution counts the tasks of one assignee within a project.
type AssigneeDistribution struct {
	AssigneeName       string `json:"assignee_name"`
	TaskCount          int    `json:"task_count"`
	CompletedTaskCount int    `json:"completed_task_count"`
}

// ProjectPerformance summarises one project.
type ProjectPerformance struct {
	ProjectID                  int64                  `json:"project_id"`
	ProjectName                string                 `json:"project_name"`
	TotalTasks                 int                    `json:"total_tasks"`
	CompletedTasks             int                    `json:"completed_tasks"`
	InProgressTasks            int                    `json:"in_progress_tasks"`
	OverdueTasks               int                    `json:"overdue_tasks"`
	CompletionRate             float64                `json:"completion_rate"`
	TaskDistributionByAssignee []AssigneeDistribution `json:"task_distribution_by_assignee"`
}

// Config holds configuration options for the engine.
type Config struct {
	// Workers bounds how many projects are summarised at once.
	// If zero or negative, defaults to 1.
	Workers int
}

// Engine builds performance reports.
type Engine struct {
	workers int
	logger  *slog.Logger
}

// NewEngine creates an Engine. If logger is nil the default logger is used.
func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "report_engine"))

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
		logger.Warn("invalid worker count specified, using default",
			slog.Int("specified_count", cfg.Workers),
			slog.Int("default_count", 1))
	}
	return &Engine{workers: workers, logger: logger}
}

// Workers returns the effective concurrency bound.
func (e *Engine) Workers() int {
	return e.workers
}

// Build summarises every project in the snapshot against the same now.
// The result is sorted by project name, ties broken by project ID. Build
// returns ctx.Err() if the context is cancelled before all projects are
// summarised.
func (e *Engine) Build(ctx context.Context, projects []ProjectSnapshot, now time.Time) ([]ProjectPerformance, error) {
	results := make([]ProjectPerformance, len(projects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range projects {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Summarize(projects[i], now)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.logger.Warn("report build aborted",
			slog.String("error", err.Error()),
			slog.Int("project_count", len(projects)))
		return nil, err
	}

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].ProjectName != results[b].ProjectName {
			return results[a].ProjectName < results[b].ProjectName
		}
		return results[a].ProjectID < results[b].ProjectID
	})

	e.logger.Debug("report built",
		slog.Int("project_count", len(results)),
		slog.Int("workers", e.workers))
	return results, nil
}

// Summarize computes the performance of a single project.
func Summarize(p ProjectSnapshot, now time.Time) ProjectPerformance {
	out := ProjectPerformance{
		ProjectID:   p.Project.ID,
		ProjectName: p.Project.Name,
		TotalTasks:  len(p.Tasks),
	}

	groups := make(map[string]*AssigneeDistribution)
	for _, ts := range p.Tasks {
		done := ts.Task.Status == domain.TaskStatusDone
		switch ts.Task.Status {
		case domain.TaskStatusDone:
			out.CompletedTasks++
		case domain.TaskStatusInProgress:
			out.InProgressTasks++
		}
		if ts.Task.IsOverdue(now) {
			out.OverdueTasks++
		}

		name := AssigneeLabel(ts.Assignee)
		g, ok := groups[name]
		if !ok {
			g = &AssigneeDistribution{AssigneeName: name}
			groups[name] = g
		}
		g.TaskCount++
		if done {
			g.CompletedTaskCount++
		}
	}

	if out.TotalTasks > 0 {
		out.CompletionRate = float64(out.CompletedTasks) / float64(out.TotalTasks) * 100
	}

	out.TaskDistributionByAssignee = make([]AssigneeDistribution, 0, len(groups))
	for _, g := range groups {
		out.TaskDistributionByAssignee = append(out.TaskDistributionByAssignee, *g)
	}
	sort.Slice(out.TaskDistributionByAssignee, func(a, b int) bool {
		return out.TaskDistributionByAssignee[a].AssigneeName < out.TaskDistributionByAssignee[b].AssigneeName
	})
	return out
}

// AssigneeLabel returns the display name of the assignee, or the
// Unassigned label when there is none.
func AssigneeLabel(u *domain.User) string {
	if u == nil {
		return domain.UnassignedLabel
	}
	if name := u.DisplayName(); name != "" {
		return name
	}
	return domain.UnassignedLabel
}

// Assemble groups loaded rows into snapshots. Tasks whose project is not
// in projects are ignored, and assignees missing from users are treated
// as unassigned.
func Assemble(projects []*domain.Project, tasks []*domain.Task, users []*domain.User) []ProjectSnapshot {
	byUser := make(map[uuid.UUID]*domain.User, len(users))
	for _, u := range users {
		byUser[u.ID] = u
	}

	index := make(map[int64]int, len(projects))
	out := make([]ProjectSnapshot, len(projects))
	for i, p := range projects {
		out[i] = ProjectSnapshot{Project: *p}
		index[p.ID] = i
	}

	for _, t := range tasks {
		i, ok := index[t.ProjectID]
		if !ok {
			continue
		}
		ts := TaskSnapshot{Task: *t}
		if t.AssigneeID != nil {
			ts.Assignee = byUser[*t.AssigneeID]
		}
		out[i].Tasks = append(out[i].Tasks, ts)
	}
	return out
}
