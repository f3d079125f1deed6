package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/store"
)

type taskRepo struct {
	access access
}

var _ store.TaskStore = (*taskRepo)(nil)

func checkTaskRefs(st *state, task *domain.Task) error {
	if _, ok := st.projects[task.ProjectID]; !ok {
		return fmt.Errorf("%w: project %d not found", store.ErrInvalidEntity, task.ProjectID)
	}
	if task.AssigneeID != nil {
		if _, ok := st.users[*task.AssigneeID]; !ok {
			return fmt.Errorf("%w: assignee %s not found", store.ErrInvalidEntity, task.AssigneeID)
		}
	}
	return nil
}

func sortTasks(tasks []*domain.Task) {
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
}

func (r *taskRepo) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	return r.access(func(st *state) error {
		if err := checkTaskRefs(st, task); err != nil {
			return err
		}
		task.ID = st.nextTaskID
		st.nextTaskID++
		st.tasks[task.ID] = copyTask(task)
		return nil
	})
}

func (r *taskRepo) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	var out *domain.Task
	err := r.access(func(st *state) error {
		t, ok := st.tasks[id]
		if !ok {
			return store.ErrTaskNotFound
		}
		out = copyTask(t)
		return nil
	})
	return out, err
}

func (r *taskRepo) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Task, error) {
	var out []*domain.Task
	err := r.access(func(st *state) error {
		seen := make(map[int64]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			if t, ok := st.tasks[id]; ok {
				out = append(out, copyTask(t))
			}
		}
		return nil
	})
	sortTasks(out)
	return out, err
}

func (r *taskRepo) List(ctx context.Context) ([]*domain.Task, error) {
	return r.filter(func(*domain.Task) bool { return true })
}

func (r *taskRepo) ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	return r.filter(func(t *domain.Task) bool { return t.ProjectID == projectID })
}

func (r *taskRepo) filter(keep func(*domain.Task) bool) ([]*domain.Task, error) {
	out := []*domain.Task{}
	err := r.access(func(st *state) error {
		for _, t := range st.tasks {
			if keep(t) {
				out = append(out, copyTask(t))
			}
		}
		return nil
	})
	sortTasks(out)
	return out, err
}

func (r *taskRepo) CountByProject(ctx context.Context, projectID int64) (int, error) {
	tasks, err := r.ListByProject(ctx, projectID)
	return len(tasks), err
}

func (r *taskRepo) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	return r.access(func(st *state) error {
		current, ok := st.tasks[task.ID]
		if !ok {
			return store.ErrTaskNotFound
		}
		next := copyTask(task)
		next.CreatedAt = current.CreatedAt
		next.ProjectID = current.ProjectID
		if err := checkTaskRefs(st, next); err != nil {
			return err
		}
		st.tasks[task.ID] = next
		return nil
	})
}

func (r *taskRepo) Delete(ctx context.Context, id int64) error {
	return r.access(func(st *state) error {
		if _, ok := st.tasks[id]; !ok {
			return store.ErrTaskNotFound
		}
		for cid, c := range st.comments {
			if c.TaskID == id {
				delete(st.comments, cid)
			}
		}
		delete(st.tasks, id)
		return nil
	})
}

func (r *taskRepo) ClearAssignee(ctx context.Context, userID uuid.UUID) (int, error) {
	n := 0
	err := r.access(func(st *state) error {
		for _, t := range st.tasks {
			if t.AssigneeID != nil && *t.AssigneeID == userID {
				t.AssigneeID = nil
				n++
			}
		}
		return nil
	})
	return n, err
}
