package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProject(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 2, 2, 10, 0, 0, 0, time.FixedZone("X", 3600))
	manager := uuid.New()

	p, err := NewProject(ProjectFields{Name: " Apollo ", Description: "moon", ManagerID: &manager}, now)
	require.NoError(t, err)
	assert.Equal(t, "Apollo", p.Name)
	assert.Equal(t, now.UTC(), p.CreatedAt)
	assert.Equal(t, &manager, p.ManagerID)

	_, err = NewProject(ProjectFields{Name: ""}, now)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewProject(ProjectFields{Name: strings.Repeat("n", MaxProjectNameLength+1)}, now)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestProjectReplaceKeepsIdentity(t *testing.T) {
	t.Parallel()

	created := time.Date(2023, 12, 24, 0, 0, 0, 0, time.UTC)
	p := &Project{ID: 11, Name: "Old", CreatedAt: created}
	due := created.Add(24 * time.Hour)

	require.NoError(t, p.Replace(ProjectFields{Name: "New", Description: "d", DueDate: &due}))
	assert.Equal(t, int64(11), p.ID)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, "New", p.Name)
	assert.Equal(t, due, *p.DueDate)
}

func TestCommentValidate(t *testing.T) {
	t.Parallel()

	now := time.Now()
	_, err := NewComment(1, uuid.New(), "looks good", now)
	require.NoError(t, err)

	_, err = NewComment(1, uuid.New(), "  ", now)
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = NewComment(1, uuid.Nil, "hi", now)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = NewComment(0, uuid.New(), "hi", now)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestUserDisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace", UserName: "ada"}).DisplayName())
	assert.Equal(t, "Ada", (&User{FirstName: "Ada", UserName: "ada"}).DisplayName())
	assert.Equal(t, "ada@example.com", (&User{UserName: "ada@example.com"}).DisplayName())
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewValidationError("name", "cannot be empty", nil)
	assert.Equal(t, "name cannot be empty", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
}
