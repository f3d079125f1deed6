package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
)

// ProjectStore persists projects.
type ProjectStore interface {
	// Create inserts the project and sets its ID.
	Create(ctx context.Context, project *domain.Project) error

	// GetByID returns ErrProjectNotFound if the project does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Project, error)

	// List returns every project ordered by ID.
	List(ctx context.Context) ([]*domain.Project, error)

	// Update overwrites all mutable columns. CreatedAt is never written.
	// Returns ErrProjectNotFound if the project does not exist.
	Update(ctx context.Context, project *domain.Project) error

	// Delete removes the project row only. Callers are responsible for
	// the consistency rules around tasks and memberships.
	Delete(ctx context.Context, id int64) error

	// ClearManager sets ManagerID to nil on every project managed by the
	// user and returns how many projects changed.
	ClearManager(ctx context.Context, userID uuid.UUID) (int, error)
}

// TaskStore persists tasks.
type TaskStore interface {
	// Create inserts the task and sets its ID.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// GetByIDs returns the tasks that exist among ids, ordered by ID.
	// Unknown ids are skipped and duplicates collapse to one task.
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Task, error)

	// List returns every task ordered by ID.
	List(ctx context.Context) ([]*domain.Task, error)

	// ListByProject returns the project's tasks ordered by ID.
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error)

	// CountByProject returns how many tasks the project owns.
	CountByProject(ctx context.Context, projectID int64) (int, error)

	// Update overwrites all mutable columns. CreatedAt and ProjectID are
	// never written. Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the task row only.
	Delete(ctx context.Context, id int64) error

	// ClearAssignee sets AssigneeID to nil on every task assigned to the
	// user and returns how many tasks changed.
	ClearAssignee(ctx context.Context, userID uuid.UUID) (int, error)
}

// CommentStore persists task comments.
type CommentStore interface {
	// Create inserts the comment and sets its ID.
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID returns ErrCommentNotFound if the comment does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)

	// ListByTask returns the task's comments oldest first.
	ListByTask(ctx context.Context, taskID int64) ([]*domain.Comment, error)

	// Update overwrites the content. Returns ErrCommentNotFound if the
	// comment does not exist.
	Update(ctx context.Context, comment *domain.Comment) error

	// Delete removes a single comment.
	Delete(ctx context.Context, id int64) error

	// DeleteByTask removes every comment on the task and returns the count.
	DeleteByTask(ctx context.Context, taskID int64) (int, error)

	// CountByAuthor returns how many comments the user wrote.
	CountByAuthor(ctx context.Context, userID uuid.UUID) (int, error)
}

// TeamMemberStore persists (project, user) memberships.
type TeamMemberStore interface {
	// Add returns ErrMemberExists if the pair is already present.
	Add(ctx context.Context, member domain.TeamMember) error

	// Remove returns ErrMemberNotFound if the pair is absent.
	Remove(ctx context.Context, projectID int64, userID uuid.UUID) error

	// Exists reports whether the pair is present.
	Exists(ctx context.Context, projectID int64, userID uuid.UUID) (bool, error)

	// ListByProject returns the project's memberships.
	ListByProject(ctx context.Context, projectID int64) ([]domain.TeamMember, error)

	// DeleteByProject removes every membership of the project and returns the count.
	DeleteByProject(ctx context.Context, projectID int64) (int, error)

	// DeleteByUser removes every membership of the user and returns the count.
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

// UserStore persists the user references synced from the identity provider.
type UserStore interface {
	// Upsert inserts the user or replaces the stored fields.
	Upsert(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// List returns every user ordered by user name.
	List(ctx context.Context) ([]*domain.User, error)

	// Delete removes the user row only.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repositories bundles one store per entity. A bundle obtained inside
// RunInTx is bound to that transaction.
type Repositories struct {
	Projects ProjectStore
	Tasks    TaskStore
	Comments CommentStore
	Members  TeamMemberStore
	Users    UserStore
}

// RepoFn is a unit of work executed against transaction-bound repositories.
type RepoFn func(ctx context.Context, repos Repositories) error

// Store is the entry point into a persistence backend.
type Store interface {
	// Repos returns repositories that run each call on its own.
	Repos() Repositories

	// RunInTx runs fn inside one transaction. The transaction commits
	// when fn returns nil and rolls back otherwise, including on panic.
	RunInTx(ctx context.Context, fn RepoFn) error
}
