package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/store"
)

type projectRepo struct {
	access access
}

var _ store.ProjectStore = (*projectRepo)(nil)

func (r *projectRepo) Create(ctx context.Context, project *domain.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}
	return r.access(func(st *state) error {
		if project.ManagerID != nil {
			if _, ok := st.users[*project.ManagerID]; !ok {
				return fmt.Errorf("%w: manager %s not found", store.ErrInvalidEntity, project.ManagerID)
			}
		}
		project.ID = st.nextProjectID
		st.nextProjectID++
		st.projects[project.ID] = copyProject(project)
		return nil
	})
}

func (r *projectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	var out *domain.Project
	err := r.access(func(st *state) error {
		p, ok := st.projects[id]
		if !ok {
			return store.ErrProjectNotFound
		}
		out = copyProject(p)
		return nil
	})
	return out, err
}

func (r *projectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	var out []*domain.Project
	err := r.access(func(st *state) error {
		out = make([]*domain.Project, 0, len(st.projects))
		for _, p := range st.projects {
			out = append(out, copyProject(p))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *projectRepo) Update(ctx context.Context, project *domain.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}
	return r.access(func(st *state) error {
		current, ok := st.projects[project.ID]
		if !ok {
			return store.ErrProjectNotFound
		}
		if project.ManagerID != nil {
			if _, ok := st.users[*project.ManagerID]; !ok {
				return fmt.Errorf("%w: manager %s not found", store.ErrInvalidEntity, project.ManagerID)
			}
		}
		next := copyProject(project)
		next.CreatedAt = current.CreatedAt
		st.projects[project.ID] = next
		return nil
	})
}

func (r *projectRepo) Delete(ctx context.Context, id int64) error {
	return r.access(func(st *state) error {
		if _, ok := st.projects[id]; !ok {
			return store.ErrProjectNotFound
		}
		for _, t := range st.tasks {
			if t.ProjectID == id {
				return fmt.Errorf("%w: project %d owns tasks", store.ErrReferenced, id)
			}
		}
		for m := range st.members {
			if m.ProjectID == id {
				delete(st.members, m)
			}
		}
		delete(st.projects, id)
		return nil
	})
}

func (r *projectRepo) ClearManager(ctx context.Context, userID uuid.UUID) (int, error) {
	n := 0
	err := r.access(func(st *state) error {
		for _, p := range st.projects {
			if p.ManagerID != nil && *p.ManagerID == userID {
				p.ManagerID = nil
				n++
			}
		}
		return nil
	})
	return n, err
}
