package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddComment(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	ada := env.user(t, "ada", "", "")
	p := env.project(t, "Apollo", nil)
	task := env.task(t, p.ID, "design", "", nil)

	c, err := env.comments.AddComment(env.ctx, task.ID, ada.ID, "  looks good  ")
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, fixedNow, c.CreatedAt)

	_, err = env.comments.AddComment(env.ctx, 999, ada.ID, "x")
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	_, err = env.comments.AddComment(env.ctx, task.ID, uuid.New(), "x")
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	_, err = env.comments.AddComment(env.ctx, task.ID, ada.ID, " ")
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestCommentLifecycle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	ada := env.user(t, "ada", "Ada", "")
	p := env.project(t, "Apollo", nil)
	task := env.task(t, p.ID, "design", "", nil)

	first, err := env.comments.AddComment(env.ctx, task.ID, ada.ID, "first")
	require.NoError(t, err)
	_, err = env.comments.AddComment(env.ctx, task.ID, ada.ID, "second")
	require.NoError(t, err)

	list, err := env.comments.ListComments(env.ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Comment.Content)
	assert.Equal(t, "Ada", list[0].AuthorName)

	edited, err := env.comments.EditComment(env.ctx, first.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Content)
	assert.Equal(t, first.CreatedAt, edited.CreatedAt)

	require.NoError(t, env.comments.DeleteComment(env.ctx, first.ID))
	assert.Equal(t, KindNotFound, KindOf(env.comments.DeleteComment(env.ctx, first.ID)))

	_, err = env.comments.ListComments(env.ctx, 999)
	assert.Equal(t, KindNotFound, KindOf(err))
}
