package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/integrity"
	"github.com/phrazzld/taskmgmt-api/internal/platform/logger"
	"github.com/phrazzld/taskmgmt-api/internal/store"
)

// UserService manages the user references synced from the identity provider.
type UserService interface {
	// UpsertUser stores or refreshes a user reference.
	UpsertUser(ctx context.Context, user domain.User) (*domain.User, error)

	// GetUser returns a single user reference.
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// ListUsers returns every user reference ordered by user name.
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// DeleteUser removes a user reference. It fails with ErrUserHasComments
	// while the user authored comments; otherwise assignments and manager
	// references are cleared and memberships removed.
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userServiceImpl struct {
	store store.Store
	options
}

var _ UserService = (*userServiceImpl)(nil)

// NewUserService creates a UserService.
// It returns an error if the store is nil.
func NewUserService(st store.Store, opts ...Option) (UserService, error) {
	if st == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "store cannot be nil"}
	}
	return &userServiceImpl{store: st, options: buildOptions("user_service", opts)}, nil
}

func (s *userServiceImpl) UpsertUser(ctx context.Context, user domain.User) (*domain.User, error) {
	if err := user.Validate(); err != nil {
		return nil, NewServiceError("upsert_user", "invalid user", err)
	}
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		return repos.Users.Upsert(ctx, &user)
	})
	if err != nil {
		return nil, NewServiceError("upsert_user", "failed to save user", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("user reference stored",
		slog.String("user_id", user.ID.String()))
	return &user, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.store.Repos().Users.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("get_user", "failed to load user", err)
	}
	return u, nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.store.Repos().Users.List(ctx)
	if err != nil {
		return nil, NewServiceError("list_users", "failed to load users", err)
	}
	return users, nil
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var effects []integrity.Effect
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		var err error
		effects, err = integrity.DeleteUser(ctx, repos, id)
		return err
	})
	logEffects(log, "delete_user", effects)
	if err != nil {
		return NewServiceError("delete_user", "failed to delete user", err)
	}

	log.Info("user reference deleted", slog.String("user_id", id.String()))
	return nil
}
