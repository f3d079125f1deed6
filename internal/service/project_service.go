package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/integrity"
	"github.com/phrazzld/taskmgmt-api/internal/platform/logger"
	"github.com/phrazzld/taskmgmt-api/internal/store"
)

// ProjectService provides project and team membership operations.
type ProjectService interface {
	// ListProjects returns every project with its manager name.
	ListProjects(ctx context.Context) ([]ProjectView, error)

	// GetProject returns the project with its tasks and team members.
	GetProject(ctx context.Context, id int64) (*ProjectView, error)

	// CreateProject validates and stores a new project. A manager, when
	// given, must be a known user.
	CreateProject(ctx context.Context, fields domain.ProjectFields) (*domain.Project, error)

	// UpdateProject replaces every mutable field of the project.
	UpdateProject(ctx context.Context, id int64, fields domain.ProjectFields) (*domain.Project, error)

	// DeleteProject removes a project that owns no tasks.
	DeleteProject(ctx context.Context, id int64) error

	// AddTeamMember links a user to the project team.
	AddTeamMember(ctx context.Context, projectID int64, userID uuid.UUID) error

	// RemoveTeamMember unlinks a user from the project team.
	RemoveTeamMember(ctx context.Context, projectID int64, userID uuid.UUID) error
}

type projectServiceImpl struct {
	store store.Store
	options
}

var _ ProjectService = (*projectServiceImpl)(nil)

// NewProjectService creates a ProjectService.
// It returns an error if the store is nil.
func NewProjectService(st store.Store, opts ...Option) (ProjectService, error) {
	if st == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "store cannot be nil"}
	}
	return &projectServiceImpl{store: st, options: buildOptions("project_service", opts)}, nil
}

func (s *projectServiceImpl) ListProjects(ctx context.Context) ([]ProjectView, error) {
	var views []ProjectView
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		projects, err := repos.Projects.List(ctx)
		if err != nil {
			return err
		}
		users, err := repos.Users.List(ctx)
		if err != nil {
			return err
		}
		idx := indexUsers(users)
		views = make([]ProjectView, 0, len(projects))
		for _, p := range projects {
			views = append(views, ProjectView{Project: p, ManagerName: idx.name(p.ManagerID, NotAvailableLabel)})
		}
		return nil
	})
	if err != nil {
		return nil, NewServiceError("list_projects", "failed to load projects", err)
	}
	return views, nil
}

func (s *projectServiceImpl) GetProject(ctx context.Context, id int64) (*ProjectView, error) {
	var view *ProjectView
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		p, err := repos.Projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		tasks, err := repos.Tasks.ListByProject(ctx, id)
		if err != nil {
			return err
		}
		members, err := repos.Members.ListByProject(ctx, id)
		if err != nil {
			return err
		}
		users, err := repos.Users.List(ctx)
		if err != nil {
			return err
		}

		idx := indexUsers(users)
		view = &ProjectView{
			Project:     p,
			ManagerName: idx.name(p.ManagerID, NotAvailableLabel),
			Tasks:       make([]TaskView, 0, len(tasks)),
			TeamMembers: make([]*domain.User, 0, len(members)),
		}
		for _, t := range tasks {
			view.Tasks = append(view.Tasks, idx.taskView(t, p.Name))
		}
		for _, m := range members {
			if u, ok := idx[m.UserID]; ok {
				view.TeamMembers = append(view.TeamMembers, u)
			}
		}
		return nil
	})
	if err != nil {
		return nil, NewServiceError("get_project", fmt.Sprintf("failed to load project %d", id), err)
	}
	return view, nil
}

func (s *projectServiceImpl) CreateProject(ctx context.Context, fields domain.ProjectFields) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	project, err := domain.NewProject(fields, s.now())
	if err != nil {
		return nil, NewServiceError("create_project", "invalid project", err)
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if err := requireUser(ctx, repos, project.ManagerID); err != nil {
			return err
		}
		return repos.Projects.Create(ctx, project)
	})
	if err != nil {
		log.Warn("failed to create project", slog.String("error", err.Error()))
		return nil, NewServiceError("create_project", "failed to save project", err)
	}

	log.Info("project created", slog.Int64("project_id", project.ID))
	return project, nil
}

func (s *projectServiceImpl) UpdateProject(ctx context.Context, id int64, fields domain.ProjectFields) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Project
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		project, err := repos.Projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := project.Replace(fields); err != nil {
			return err
		}
		if err := requireUser(ctx, repos, project.ManagerID); err != nil {
			return err
		}
		if err := repos.Projects.Update(ctx, project); err != nil {
			return err
		}
		updated = project
		return nil
	})
	if err != nil {
		return nil, NewServiceError("update_project", fmt.Sprintf("failed to update project %d", id), err)
	}

	log.Info("project updated", slog.Int64("project_id", id))
	return updated, nil
}

func (s *projectServiceImpl) DeleteProject(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var effects []integrity.Effect
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		var err error
		effects, err = integrity.DeleteProject(ctx, repos, id)
		return err
	})
	logEffects(log, "delete_project", effects)
	if err != nil {
		return NewServiceError("delete_project", fmt.Sprintf("failed to delete project %d", id), err)
	}

	log.Info("project deleted", slog.Int64("project_id", id))
	return nil
}

func (s *projectServiceImpl) AddTeamMember(ctx context.Context, projectID int64, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		return integrity.AddTeamMember(ctx, repos, projectID, userID)
	})
	if err != nil {
		return NewServiceError("add_team_member", "failed to add team member", err)
	}

	log.Info("team member added",
		slog.Int64("project_id", projectID),
		slog.String("user_id", userID.String()))
	return nil
}

func (s *projectServiceImpl) RemoveTeamMember(ctx context.Context, projectID int64, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		return integrity.RemoveTeamMember(ctx, repos, projectID, userID)
	})
	if err != nil {
		return NewServiceError("remove_team_member", "failed to remove team member", err)
	}

	log.Info("team member removed",
		slog.Int64("project_id", projectID),
		slog.String("user_id", userID.String()))
	return nil
}

// requireUser checks that an optional user reference resolves.
func requireUser(ctx context.Context, repos store.Repositories, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	_, err := repos.Users.GetByID(ctx, *id)
	return err
}

func logEffects(log *slog.Logger, operation string, effects []integrity.Effect) {
	for _, e := range effects {
		log.Info("consistency rule applied",
			slog.String("operation", operation),
			slog.String("outcome", string(e.Outcome)),
			slog.String("entity", e.Entity),
			slog.Int("count", e.Count))
	}
}
