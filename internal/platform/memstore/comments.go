package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/store"
)

type commentRepo struct {
	access access
}

var _ store.CommentStore = (*commentRepo)(nil)

func (r *commentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}
	return r.access(func(st *state) error {
		if _, ok := st.tasks[comment.TaskID]; !ok {
			return fmt.Errorf("%w: task %d not found", store.ErrInvalidEntity, comment.TaskID)
		}
		if _, ok := st.users[comment.AuthorID]; !ok {
			return fmt.Errorf("%w: author %s not found", store.ErrInvalidEntity, comment.AuthorID)
		}
		comment.ID = st.nextCommentID
		st.nextCommentID++
		v := *comment
		st.comments[comment.ID] = &v
		return nil
	})
}

func (r *commentRepo) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var out *domain.Comment
	err := r.access(func(st *state) error {
		c, ok := st.comments[id]
		if !ok {
			return store.ErrCommentNotFound
		}
		v := *c
		out = &v
		return nil
	})
	return out, err
}

func (r *commentRepo) ListByTask(ctx context.Context, taskID int64) ([]*domain.Comment, error) {
	out := []*domain.Comment{}
	err := r.access(func(st *state) error {
		for _, c := range st.comments {
			if c.TaskID == taskID {
				v := *c
				out = append(out, &v)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, err
}

func (r *commentRepo) Update(ctx context.Context, comment *domain.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}
	return r.access(func(st *state) error {
		current, ok := st.comments[comment.ID]
		if !ok {
			return store.ErrCommentNotFound
		}
		current.Content = comment.Content
		return nil
	})
}

func (r *commentRepo) Delete(ctx context.Context, id int64) error {
	return r.access(func(st *state) error {
		if _, ok := st.comments[id]; !ok {
			return store.ErrCommentNotFound
		}
		delete(st.comments, id)
		return nil
	})
}

func (r *commentRepo) DeleteByTask(ctx context.Context, taskID int64) (int, error) {
	n := 0
	err := r.access(func(st *state) error {
		for id, c := range st.comments {
			if c.TaskID == taskID {
				delete(st.comments, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *commentRepo) CountByAuthor(ctx context.Context, userID uuid.UUID) (int, error) {
	n := 0
	err := r.access(func(st *state) error {
		for _, c := range st.comments {
			if c.AuthorID == userID {
				n++
			}
		}
		return nil
	})
	return n, err
}
