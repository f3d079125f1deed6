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

const projectColumns = `id, name, description, created_at, due_date, manager_id`

// PostgresProjectStore implements the store.ProjectStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProjectStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProjectStore creates a PostgresProjectStore on a connection
// or transaction. If logger is nil, a default logger will be used.
func NewPostgresProjectStore(db store.DBTX, logger *slog.Logger) *PostgresProjectStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProjectStore{
		db:     db,
		logger: logger.With(slog.String("component", "project_store")),
	}
}

var _ store.ProjectStore = (*PostgresProjectStore)(nil)

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p       domain.Project
		due     sql.NullTime
		manager uuid.NullUUID
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &due, &manager); err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.DueDate = timePtr(due)
	p.ManagerID = uuidPtr(manager)
	return &p, nil
}

// Create implements store.ProjectStore.Create.
// Returns store.ErrInvalidEntity if the manager does not exist.
func (s *PostgresProjectStore) Create(ctx context.Context, project *domain.Project) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := project.Validate(); err != nil {
		log.Warn("project validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO projects (name, description, created_at, due_date, manager_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		project.Name,
		project.Description,
		project.CreatedAt,
		project.DueDate,
		project.ManagerID,
	).Scan(&project.ID)
	if err != nil {
		log.Error("failed to create project", slog.String("error", err.Error()))
		return MapError(err)
	}

	log.Debug("project created", slog.Int64("project_id", project.ID))
	return nil
}

// GetByID implements store.ProjectStore.GetByID
func (s *PostgresProjectStore) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProjectNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get project by ID",
			slog.String("error", err.Error()),
			slog.Int64("project_id", id))
		return nil, MapError(err)
	}
	return p, nil
}

// List implements store.ProjectStore.List
func (s *PostgresProjectStore) List(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	out := []*domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return out, nil
}

// Update implements store.ProjectStore.Update
func (s *PostgresProjectStore) Update(ctx context.Context, project *domain.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE projects
		SET name = $1, description = $2, due_date = $3, manager_id = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(ctx, query,
		project.Name,
		project.Description,
		project.DueDate,
		project.ManagerID,
		project.ID,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update project",
			slog.String("error", err.Error()),
			slog.Int64("project_id", project.ID))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrProjectNotFound)
}

// Delete implements store.ProjectStore.Delete.
// Returns store.ErrReferenced while tasks still belong to the project.
func (s *PostgresProjectStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return MapDeleteError(err)
	}
	return CheckRowsAffected(result, store.ErrProjectNotFound)
}

// ClearManager implements store.ProjectStore.ClearManager
func (s *PostgresProjectStore) ClearManager(ctx context.Context, userID uuid.UUID) (int, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE projects SET manager_id = NULL WHERE manager_id = $1`, userID)
	if err != nil {
		return 0, MapError(err)
	}
	return rowsAffected(result)
}
