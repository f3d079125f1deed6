package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/store"
)

type memberRepo struct {
	access access
}

var _ store.TeamMemberStore = (*memberRepo)(nil)

func (r *memberRepo) Add(ctx context.Context, member domain.TeamMember) error {
	return r.access(func(st *state) error {
		if _, ok := st.projects[member.ProjectID]; !ok {
			return fmt.Errorf("%w: project %d not found", store.ErrInvalidEntity, member.ProjectID)
		}
		if _, ok := st.users[member.UserID]; !ok {
			return fmt.Errorf("%w: user %s not found", store.ErrInvalidEntity, member.UserID)
		}
		if _, ok := st.members[member]; ok {
			return store.ErrMemberExists
		}
		st.members[member] = struct{}{}
		return nil
	})
}

func (r *memberRepo) Remove(ctx context.Context, projectID int64, userID uuid.UUID) error {
	key := domain.TeamMember{ProjectID: projectID, UserID: userID}
	return r.access(func(st *state) error {
		if _, ok := st.members[key]; !ok {
			return store.ErrMemberNotFound
		}
		delete(st.members, key)
		return nil
	})
}

func (r *memberRepo) Exists(ctx context.Context, projectID int64, userID uuid.UUID) (bool, error) {
	key := domain.TeamMember{ProjectID: projectID, UserID: userID}
	found := false
	err := r.access(func(st *state) error {
		_, found = st.members[key]
		return nil
	})
	return found, err
}

func (r *memberRepo) ListByProject(ctx context.Context, projectID int64) ([]domain.TeamMember, error) {
	out := []domain.TeamMember{}
	err := r.access(func(st *state) error {
		for m := range st.members {
			if m.ProjectID == projectID {
				out = append(out, m)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].UserID.String() < out[j].UserID.String() })
	return out, err
}

func (r *memberRepo) DeleteByProject(ctx context.Context, projectID int64) (int, error) {
	return r.deleteWhere(func(m domain.TeamMember) bool { return m.ProjectID == projectID })
}

func (r *memberRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.deleteWhere(func(m domain.TeamMember) bool { return m.UserID == userID })
}

func (r *memberRepo) deleteWhere(match func(domain.TeamMember) bool) (int, error) {
	n := 0
	err := r.access(func(st *state) error {
		for m := range st.members {
			if match(m) {
				delete(st.members, m)
				n++
			}
		}
		return nil
	})
	return n, err
}
