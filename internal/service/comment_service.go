package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/platform/logger"
	"github.com/phrazzld/taskmgmt-api/internal/store"
)

// CommentService provides task comment operations.
type CommentService interface {
	// ListComments returns the task's comments oldest first.
	ListComments(ctx context.Context, taskID int64) ([]CommentView, error)

	// GetComment returns a single comment.
	GetComment(ctx context.Context, id int64) (*CommentView, error)

	// AddComment stores a comment written by authorID on an existing task.
	AddComment(ctx context.Context, taskID int64, authorID uuid.UUID, content string) (*domain.Comment, error)

	// EditComment replaces the comment's content.
	EditComment(ctx context.Context, id int64, content string) (*domain.Comment, error)

	// DeleteComment removes a single comment.
	DeleteComment(ctx context.Context, id int64) error
}

type commentServiceImpl struct {
	store store.Store
	options
}

var _ CommentService = (*commentServiceImpl)(nil)

// NewCommentService creates a CommentService.
// It returns an error if the store is nil.
func NewCommentService(st store.Store, opts ...Option) (CommentService, error) {
	if st == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "store cannot be nil"}
	}
	return &commentServiceImpl{store: st, options: buildOptions("comment_service", opts)}, nil
}

func (s *commentServiceImpl) ListComments(ctx context.Context, taskID int64) ([]CommentView, error) {
	var views []CommentView
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if _, err := repos.Tasks.GetByID(ctx, taskID); err != nil {
			return err
		}
		comments, err := repos.Comments.ListByTask(ctx, taskID)
		if err != nil {
			return err
		}
		users, err := repos.Users.List(ctx)
		if err != nil {
			return err
		}
		idx := indexUsers(users)
		views = make([]CommentView, 0, len(comments))
		for _, c := range comments {
			author := c.AuthorID
			views = append(views, CommentView{Comment: c, AuthorName: idx.name(&author, "")})
		}
		return nil
	})
	if err != nil {
		return nil, NewServiceError("list_comments", fmt.Sprintf("failed to load comments of task %d", taskID), err)
	}
	return views, nil
}

func (s *commentServiceImpl) GetComment(ctx context.Context, id int64) (*CommentView, error) {
	var view *CommentView
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		c, err := repos.Comments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		v := CommentView{Comment: c}
		if u, err := repos.Users.GetByID(ctx, c.AuthorID); err == nil {
			v.AuthorName = u.DisplayName()
		} else if !store.IsNotFoundError(err) {
			return err
		}
		view = &v
		return nil
	})
	if err != nil {
		return nil, NewServiceError("get_comment", fmt.Sprintf("failed to load comment %d", id), err)
	}
	return view, nil
}

func (s *commentServiceImpl) AddComment(ctx context.Context, taskID int64, authorID uuid.UUID, content string) (*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	comment, err := domain.NewComment(taskID, authorID, content, s.now())
	if err != nil {
		return nil, NewServiceError("add_comment", "invalid comment", err)
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if _, err := repos.Tasks.GetByID(ctx, taskID); err != nil {
			return err
		}
		if _, err := repos.Users.GetByID(ctx, authorID); err != nil {
			return err
		}
		return repos.Comments.Create(ctx, comment)
	})
	if err != nil {
		return nil, NewServiceError("add_comment", fmt.Sprintf("failed to comment on task %d", taskID), err)
	}

	log.Info("comment added",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("task_id", taskID))
	return comment, nil
}

func (s *commentServiceImpl) EditComment(ctx context.Context, id int64, content string) (*domain.Comment, error) {
	var edited *domain.Comment
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		c, err := repos.Comments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := c.Edit(content); err != nil {
			return err
		}
		if err := repos.Comments.Update(ctx, c); err != nil {
			return err
		}
		edited = c
		return nil
	})
	if err != nil {
		return nil, NewServiceError("edit_comment", fmt.Sprintf("failed to edit comment %d", id), err)
	}
	return edited, nil
}

func (s *commentServiceImpl) DeleteComment(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if _, err := repos.Comments.GetByID(ctx, id); err != nil {
			return err
		}
		return repos.Comments.Delete(ctx, id)
	})
	if err != nil {
		return NewServiceError("delete_comment", fmt.Sprintf("failed to delete comment %d", id), err)
	}

	log.Info("comment deleted", slog.Int64("comment_id", id))
	return nil
}
