package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/store"
)

// PostgresTeamMemberStore implements the store.TeamMemberStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTeamMemberStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTeamMemberStore creates a PostgresTeamMemberStore on a
// connection or transaction. If logger is nil, a default logger will be used.
func NewPostgresTeamMemberStore(db store.DBTX, logger *slog.Logger) *PostgresTeamMemberStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTeamMemberStore{
		db:     db,
		logger: logger.With(slog.String("component", "team_member_store")),
	}
}

var _ store.TeamMemberStore = (*PostgresTeamMemberStore)(nil)

// Add implements store.TeamMemberStore.Add
func (s *PostgresTeamMemberStore) Add(ctx context.Context, member domain.TeamMember) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO project_team_members (project_id, user_id) VALUES ($1, $2)`,
		member.ProjectID, member.UserID)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %w", store.ErrMemberExists, err)
		}
		return MapError(err)
	}
	return nil
}

// Remove implements store.TeamMemberStore.Remove
func (s *PostgresTeamMemberStore) Remove(ctx context.Context, projectID int64, userID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM project_team_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID)
	if err != nil {
		return MapDeleteError(err)
	}
	return CheckRowsAffected(result, store.ErrMemberNotFound)
}

// Exists implements store.TeamMemberStore.Exists
func (s *PostgresTeamMemberStore) Exists(ctx context.Context, projectID int64, userID uuid.UUID) (bool, error) {
	var found bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM project_team_members WHERE project_id = $1 AND user_id = $2)`,
		projectID, userID).Scan(&found)
	if err != nil {
		return false, MapError(err)
	}
	return found, nil
}

// ListByProject implements store.TeamMemberStore.ListByProject
func (s *PostgresTeamMemberStore) ListByProject(ctx context.Context, projectID int64) ([]domain.TeamMember, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT project_id, user_id FROM project_team_members WHERE project_id = $1 ORDER BY user_id`,
		projectID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	out := []domain.TeamMember{}
	for rows.Next() {
		var m domain.TeamMember
		if err := rows.Scan(&m.ProjectID, &m.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan team member row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team member rows: %w", err)
	}
	return out, nil
}

// DeleteByProject implements store.TeamMemberStore.DeleteByProject
func (s *PostgresTeamMemberStore) DeleteByProject(ctx context.Context, projectID int64) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM project_team_members WHERE project_id = $1`, projectID)
	if err != nil {
		return 0, MapDeleteError(err)
	}
	return rowsAffected(result)
}

// DeleteByUser implements store.TeamMemberStore.DeleteByUser
func (s *PostgresTeamMemberStore) DeleteByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM project_team_members WHERE user_id = $1`, userID)
	if err != nil {
		return 0, MapDeleteError(err)
	}
	return rowsAffected(result)
}
