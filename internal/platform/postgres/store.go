package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/store"
)

// Store implements store.Store on a PostgreSQL connection pool.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.Store = (*Store)(nil)

// NewStore creates a Store. The caller owns db and closes it.
// If logger is nil, a default logger will be used.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Repos returns repositories that run each statement in autocommit mode.
func (s *Store) Repos() store.Repositories {
	return s.bind(s.db)
}

// RunInTx runs fn with repositories bound to a single transaction.
func (s *Store) RunInTx(ctx context.Context, fn store.RepoFn) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.bind(tx))
	})
}

func (s *Store) bind(db store.DBTX) store.Repositories {
	return store.Repositories{
		Projects: NewPostgresProjectStore(db, s.logger),
		Tasks:    NewPostgresTaskStore(db, s.logger),
		Comments: NewPostgresCommentStore(db, s.logger),
		Members:  NewPostgresTeamMemberStore(db, s.logger),
		Users:    NewPostgresUserStore(db, s.logger),
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func uuidPtr(u uuid.NullUUID) *uuid.UUID {
	if !u.Valid {
		return nil
	}
	v := u.UUID
	return &v
}

// placeholders returns "$start, $start+1, ..." for n arguments.
func placeholders(start, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("$")
		b.WriteString(strconv.Itoa(start + i))
	}
	return b.String()
}
