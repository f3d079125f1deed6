package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/store"
)

type userRepo struct {
	access access
}

var _ store.UserStore = (*userRepo)(nil)

func (r *userRepo) Upsert(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	return r.access(func(st *state) error {
		v := *user
		st.users[user.ID] = &v
		return nil
	})
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var out *domain.User
	err := r.access(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return store.ErrUserNotFound
		}
		v := *u
		out = &v
		return nil
	})
	return out, err
}

func (r *userRepo) List(ctx context.Context) ([]*domain.User, error) {
	out := []*domain.User{}
	err := r.access(func(st *state) error {
		for _, u := range st.users {
			v := *u
			out = append(out, &v)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserName == out[j].UserName {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].UserName < out[j].UserName
	})
	return out, err
}

// Delete applies the same reference rules as the relational schema:
// authored comments block the delete, assignments and project manager
// references are cleared, and memberships are removed.
func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.access(func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return store.ErrUserNotFound
		}
		for _, c := range st.comments {
			if c.AuthorID == id {
				return fmt.Errorf("%w: user %s authored comments", store.ErrReferenced, id)
			}
		}
		for _, t := range st.tasks {
			if t.AssigneeID != nil && *t.AssigneeID == id {
				t.AssigneeID = nil
			}
		}
		for _, p := range st.projects {
			if p.ManagerID != nil && *p.ManagerID == id {
				p.ManagerID = nil
			}
		}
		for m := range st.members {
			if m.UserID == id {
				delete(st.members, m)
			}
		}
		delete(st.users, id)
		return nil
	})
}
