package memstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/platform/logger"
	"github.com/phrazzld/taskmgmt-api/internal/store"
)

// state is one complete copy of the data set.
type state struct {
	projects map[int64]*domain.Project
	tasks    map[int64]*domain.Task
	comments map[int64]*domain.Comment
	members  map[domain.TeamMember]struct{}
	users    map[uuid.UUID]*domain.User

	nextProjectID int64
	nextTaskID    int64
	nextCommentID int64
}

func newState() *state {
	return &state{
		projects:      make(map[int64]*domain.Project),
		tasks:         make(map[int64]*domain.Task),
		comments:      make(map[int64]*domain.Comment),
		members:       make(map[domain.TeamMember]struct{}),
		users:         make(map[uuid.UUID]*domain.User),
		nextProjectID: 1,
		nextTaskID:    1,
		nextCommentID: 1,
	}
}

func (st *state) clone() *state {
	c := &state{
		projects:      make(map[int64]*domain.Project, len(st.projects)),
		tasks:         make(map[int64]*domain.Task, len(st.tasks)),
		comments:      make(map[int64]*domain.Comment, len(st.comments)),
		members:       make(map[domain.TeamMember]struct{}, len(st.members)),
		users:         make(map[uuid.UUID]*domain.User, len(st.users)),
		nextProjectID: st.nextProjectID,
		nextTaskID:    st.nextTaskID,
		nextCommentID: st.nextCommentID,
	}
	for id, p := range st.projects {
		c.projects[id] = copyProject(p)
	}
	for id, t := range st.tasks {
		c.tasks[id] = copyTask(t)
	}
	for id, cm := range st.comments {
		v := *cm
		c.comments[id] = &v
	}
	for m := range st.members {
		c.members[m] = struct{}{}
	}
	for id, u := range st.users {
		v := *u
		c.users[id] = &v
	}
	return c
}

// access runs fn against a state. Outside a transaction it takes the
// store lock for the duration of one call.
type access func(fn func(st *state) error) error

// Store keeps all data in memory. It is safe for concurrent use; a
// transaction holds the store lock until it commits or rolls back, so
// repositories from Repos must not be used inside RunInTx.
type Store struct {
	mu        sync.Mutex
	data      *state
	failNext  error
	logger    *slog.Logger
	committed int
}

var _ store.Store = (*Store)(nil)

// New creates an empty Store. If logger is nil the default logger is used.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		data:   newState(),
		logger: logger.With(slog.String("component", "memstore")),
	}
}

// Repos returns repositories that each run as their own unit of work.
func (s *Store) Repos() store.Repositories {
	return bind(func(fn func(st *state) error) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(s.data)
	})
}

// RunInTx runs fn against a private copy of the data. The copy replaces
// the live data only when fn succeeds and the commit is not failed by
// FailNextCommit. A panic in fn discards the copy and is re-raised.
func (s *Store) RunInTx(ctx context.Context, fn store.RepoFn) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	work := s.data.clone()
	repos := bind(func(f func(st *state) error) error { return f(work) })

	if err := fn(ctx, repos); err != nil {
		log.Debug("rolled back transaction due to error", slog.String("error", err.Error()))
		return err
	}

	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		log.Error("failed to commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: commit: %v", store.ErrTransactionFailed, err)
	}

	s.data = work
	s.committed++
	log.Debug("transaction committed")
	return nil
}

// FailNextCommit makes the next transaction that reaches commit fail
// with err and discard its writes.
func (s *Store) FailNextCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// Commits returns how many transactions have committed.
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

func bind(a access) store.Repositories {
	return store.Repositories{
		Projects: &projectRepo{access: a},
		Tasks:    &taskRepo{access: a},
		Comments: &commentRepo{access: a},
		Members:  &memberRepo{access: a},
		Users:    &userRepo{access: a},
	}
}

func copyProject(p *domain.Project) *domain.Project {
	v := *p
	if p.DueDate != nil {
		d := *p.DueDate
		v.DueDate = &d
	}
	if p.ManagerID != nil {
		m := *p.ManagerID
		v.ManagerID = &m
	}
	return &v
}

func copyTask(t *domain.Task) *domain.Task {
	v := *t
	if t.DueDate != nil {
		d := *t.DueDate
		v.DueDate = &d
	}
	if t.AssigneeID != nil {
		a := *t.AssigneeID
		v.AssigneeID = &a
	}
	return &v
}
