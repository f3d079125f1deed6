package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/platform/logger"
	"github.com/phrazzld/taskmgmt-api/internal/store"
)

// PostgresCommentStore implements the store.CommentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCommentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCommentStore creates a PostgresCommentStore on a connection
// or transaction. If logger is nil, a default logger will be used.
func NewPostgresCommentStore(db store.DBTX, logger *slog.Logger) *PostgresCommentStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCommentStore{
		db:     db,
		logger: logger.With(slog.String("component", "comment_store")),
	}
}

var _ store.CommentStore = (*PostgresCommentStore)(nil)

func scanComment(row rowScanner) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(&c.ID, &c.Content, &c.CreatedAt, &c.AuthorID, &c.TaskID); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

// Create implements store.CommentStore.Create.
// Returns store.ErrInvalidEntity if the task or author does not exist.
func (s *PostgresCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO comments (content, created_at, author_id, task_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		comment.Content,
		comment.CreatedAt,
		comment.AuthorID,
		comment.TaskID,
	).Scan(&comment.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create comment",
			slog.String("error", err.Error()),
			slog.Int64("task_id", comment.TaskID))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.CommentStore.GetByID
func (s *PostgresCommentStore) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	query := `SELECT id, content, created_at, author_id, task_id FROM comments WHERE id = $1`

	c, err := scanComment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCommentNotFound
		}
		return nil, MapError(err)
	}
	return c, nil
}

// ListByTask implements store.CommentStore.ListByTask
func (s *PostgresCommentStore) ListByTask(ctx context.Context, taskID int64) ([]*domain.Comment, error) {
	query := `
		SELECT id, content, created_at, author_id, task_id
		FROM comments
		WHERE task_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	out := []*domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return out, nil
}

// Update implements store.CommentStore.Update
func (s *PostgresCommentStore) Update(ctx context.Context, comment *domain.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `UPDATE comments SET content = $1 WHERE id = $2`, comment.Content, comment.ID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCommentNotFound)
}

// Delete implements store.CommentStore.Delete
func (s *PostgresCommentStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return MapDeleteError(err)
	}
	return CheckRowsAffected(result, store.ErrCommentNotFound)
}

// DeleteByTask implements store.CommentStore.DeleteByTask
func (s *PostgresCommentStore) DeleteByTask(ctx context.Context, taskID int64) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE task_id = $1`, taskID)
	if err != nil {
		return 0, MapDeleteError(err)
	}
	return rowsAffected(result)
}

// CountByAuthor implements store.CommentStore.CountByAuthor
func (s *PostgresCommentStore) CountByAuthor(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE author_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, MapError(err)
	}
	return n, nil
}
