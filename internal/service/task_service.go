package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/integrity"
	"github.com/phrazzld/taskmgmt-api/internal/platform/logger"
	"github.com/phrazzld/taskmgmt-api/internal/store"
)

// TaskInput carries caller-supplied task fields. Status and Priority are
// symbolic names matched case-insensitively. On create, empty names
// default to ToDo and Medium. ProjectID is ignored on update.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	ProjectID   int64
	AssigneeID  *uuid.UUID
}

func (in TaskInput) fields(applyDefaults bool) (domain.TaskFields, error) {
	f := domain.TaskFields{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		AssigneeID:  in.AssigneeID,
	}

	statusName, priorityName := in.Status, in.Priority
	if applyDefaults && strings.TrimSpace(statusName) == "" {
		statusName = string(domain.TaskStatusToDo)
	}
	if applyDefaults && strings.TrimSpace(priorityName) == "" {
		priorityName = string(domain.TaskPriorityMedium)
	}

	var err error
	if f.Status, err = domain.ParseTaskStatus(statusName); err != nil {
		return f, err
	}
	if f.Priority, err = domain.ParseTaskPriority(priorityName); err != nil {
		return f, err
	}
	return f, nil
}

// TaskService provides task operations.
type TaskService interface {
	// ListTasks returns every task with project and assignee names.
	ListTasks(ctx context.Context) ([]TaskView, error)

	// GetTask returns the task with its comments.
	GetTask(ctx context.Context, id int64) (*TaskView, error)

	// CreateTask stores a new task in an existing project.
	CreateTask(ctx context.Context, in TaskInput) (*domain.Task, error)

	// UpdateTask replaces every mutable field of the task.
	UpdateTask(ctx context.Context, id int64, in TaskInput) (*domain.Task, error)

	// DeleteTask removes the task and all of its comments.
	DeleteTask(ctx context.Context, id int64) error
}

type taskServiceImpl struct {
	store store.Store
	options
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a TaskService.
// It returns an error if the store is nil.
func NewTaskService(st store.Store, opts ...Option) (TaskService, error) {
	if st == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "store cannot be nil"}
	}
	return &taskServiceImpl{store: st, options: buildOptions("task_service", opts)}, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]TaskView, error) {
	var views []TaskView
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		tasks, err := repos.Tasks.List(ctx)
		if err != nil {
			return err
		}
		projects, err := repos.Projects.List(ctx)
		if err != nil {
			return err
		}
		users, err := repos.Users.List(ctx)
		if err != nil {
			return err
		}

		names := make(map[int64]string, len(projects))
		for _, p := range projects {
			names[p.ID] = p.Name
		}
		idx := indexUsers(users)
		views = make([]TaskView, 0, len(tasks))
		for _, t := range tasks {
			views = append(views, idx.taskView(t, names[t.ProjectID]))
		}
		return nil
	})
	if err != nil {
		return nil, NewServiceError("list_tasks", "failed to load tasks", err)
	}
	return views, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*TaskView, error) {
	var view *TaskView
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		t, err := repos.Tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		p, err := repos.Projects.GetByID(ctx, t.ProjectID)
		if err != nil {
			return err
		}
		comments, err := repos.Comments.ListByTask(ctx, id)
		if err != nil {
			return err
		}
		users, err := repos.Users.List(ctx)
		if err != nil {
			return err
		}

		idx := indexUsers(users)
		v := idx.taskView(t, p.Name)
		v.Comments = make([]CommentView, 0, len(comments))
		for _, c := range comments {
			author := c.AuthorID
			v.Comments = append(v.Comments, CommentView{Comment: c, AuthorName: idx.name(&author, "")})
		}
		view = &v
		return nil
	})
	if err != nil {
		return nil, NewServiceError("get_task", fmt.Sprintf("failed to load task %d", id), err)
	}
	return view, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, in TaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	fields, err := in.fields(true)
	if err != nil {
		return nil, NewServiceError("create_task", "invalid task", err)
	}
	task, err := domain.NewTask(in.ProjectID, fields, s.now())
	if err != nil {
		return nil, NewServiceError("create_task", "invalid task", err)
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if _, err := repos.Projects.GetByID(ctx, task.ProjectID); err != nil {
			return err
		}
		if err := requireUser(ctx, repos, task.AssigneeID); err != nil {
			return err
		}
		return repos.Tasks.Create(ctx, task)
	})
	if err != nil {
		log.Warn("failed to create task",
			slog.Int64("project_id", in.ProjectID),
			slog.String("error", err.Error()))
		return nil, NewServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("project_id", task.ProjectID))
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, id int64, in TaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	fields, err := in.fields(false)
	if err != nil {
		return nil, NewServiceError("update_task", "invalid task", err)
	}

	var updated *domain.Task
	err = s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		task, err := repos.Tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := task.Replace(fields); err != nil {
			return err
		}
		if err := requireUser(ctx, repos, task.AssigneeID); err != nil {
			return err
		}
		if err := repos.Tasks.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, NewServiceError("update_task", fmt.Sprintf("failed to update task %d", id), err)
	}

	log.Info("task updated", slog.Int64("task_id", id), slog.String("status", string(updated.Status)))
	return updated, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var effects []integrity.Effect
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		var err error
		effects, err = integrity.DeleteTask(ctx, repos, id)
		return err
	})
	if err != nil {
		return NewServiceError("delete_task", fmt.Sprintf("failed to delete task %d", id), err)
	}

	logEffects(log, "delete_task", effects)
	log.Info("task deleted", slog.Int64("task_id", id))
	return nil
}
