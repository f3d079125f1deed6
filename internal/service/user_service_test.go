package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	u := env.user(t, "ada", "Ada", "")
	u.LastName = "Lovelace"
	_, err := env.users.UpsertUser(env.ctx, *u)
	require.NoError(t, err)

	got, err := env.users.GetUser(env.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.DisplayName())

	_, err = env.users.UpsertUser(env.ctx, domain.User{ID: uuid.New()})
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	_, err = env.users.GetUser(env.ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestListUsersOrderedByUserName(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.user(t, "zed", "", "")
	env.user(t, "amy", "", "")

	users, err := env.users.ListUsers(env.ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "amy", users[0].UserName)
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	t.Run("rejected while user authored comments", func(t *testing.T) {
		env := newTestEnv(t)
		ada := env.user(t, "ada", "", "")
		p := env.project(t, "Apollo", nil)
		task := env.task(t, p.ID, "design", "", &ada.ID)
		_, err := env.comments.AddComment(env.ctx, task.ID, ada.ID, "note")
		require.NoError(t, err)

		err = env.users.DeleteUser(env.ctx, ada.ID)
		assert.ErrorIs(t, err, ErrUserHasComments)
		assert.Equal(t, KindConflict, KindOf(err))

		view, err := env.tasks.GetTask(env.ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, &ada.ID, view.Task.AssigneeID, "rejected delete leaves assignments intact")
	})

	t.Run("clears references", func(t *testing.T) {
		env := newTestEnv(t)
		ada := env.user(t, "ada", "", "")
		p := env.project(t, "Apollo", &ada.ID)
		task := env.task(t, p.ID, "design", "", &ada.ID)
		require.NoError(t, env.projects.AddTeamMember(env.ctx, p.ID, ada.ID))

		require.NoError(t, env.users.DeleteUser(env.ctx, ada.ID))

		view, err := env.tasks.GetTask(env.ctx, task.ID)
		require.NoError(t, err)
		assert.Nil(t, view.Task.AssigneeID)
		assert.Equal(t, domain.UnassignedLabel, view.AssigneeName)

		pv, err := env.projects.GetProject(env.ctx, p.ID)
		require.NoError(t, err)
		assert.Nil(t, pv.Project.ManagerID)
		assert.Empty(t, pv.TeamMembers)

		_, err = env.users.GetUser(env.ctx, ada.ID)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("missing user", func(t *testing.T) {
		env := newTestEnv(t)
		assert.Equal(t, KindNotFound, KindOf(env.users.DeleteUser(env.ctx, uuid.New())))
	})
}
