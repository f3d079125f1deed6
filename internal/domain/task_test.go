package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    TaskStatus
		wantErr bool
	}{
		{name: "canonical", input: "Done", want: TaskStatusDone},
		{name: "lower case", input: "inprogress", want: TaskStatusInProgress},
		{name: "padded", input: "  ToDo ", want: TaskStatusToDo},
		{name: "blocked", input: "BLOCKED", want: TaskStatusBlocked},
		{name: "unknown", input: "Finished", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTaskStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidStatus))
				assert.True(t, errors.Is(err, ErrInvalidArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTaskPriority(t *testing.T) {
	t.Parallel()

	p, err := ParseTaskPriority("critical")
	require.NoError(t, err)
	assert.Equal(t, TaskPriorityCritical, p)

	_, err = ParseTaskPriority("Urgent")
	assert.ErrorIs(t, err, ErrInvalidPriority)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("defaults status and priority", func(t *testing.T) {
		task, err := NewTask(7, TaskFields{Title: "Write docs"}, now)
		require.NoError(t, err)
		assert.Equal(t, TaskStatusToDo, task.Status)
		assert.Equal(t, TaskPriorityMedium, task.Priority)
		assert.Equal(t, int64(7), task.ProjectID)
		assert.Equal(t, now, task.CreatedAt)
	})

	t.Run("requires project", func(t *testing.T) {
		_, err := NewTask(0, TaskFields{Title: "x"}, now)
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewTask(1, TaskFields{Title: "   "}, now)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "title", vErr.Field)
	})

	t.Run("rejects long title", func(t *testing.T) {
		_, err := NewTask(1, TaskFields{Title: strings.Repeat("a", MaxTaskTitleLength+1)}, now)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("accepts title at limit", func(t *testing.T) {
		_, err := NewTask(1, TaskFields{Title: strings.Repeat("é", MaxTaskTitleLength)}, now)
		assert.NoError(t, err)
	})

	t.Run("rejects nil assignee uuid", func(t *testing.T) {
		nilID := uuid.Nil
		_, err := NewTask(1, TaskFields{Title: "x", AssigneeID: &nilID}, now)
		assert.ErrorIs(t, err, ErrInvalidID)
	})
}

func TestTaskReplace(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assignee := uuid.New()
	due := created.Add(48 * time.Hour)
	task := &Task{
		ID:          3,
		Title:       "old",
		Description: "old description",
		Status:      TaskStatusToDo,
		Priority:    TaskPriorityLow,
		CreatedAt:   created,
		DueDate:     &due,
		ProjectID:   9,
		AssigneeID:  &assignee,
	}

	err := task.Replace(TaskFields{
		Title:    "new",
		Status:   TaskStatusInProgress,
		Priority: TaskPriorityHigh,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), task.ID)
	assert.Equal(t, int64(9), task.ProjectID)
	assert.Equal(t, created, task.CreatedAt)
	assert.Equal(t, "new", task.Title)
	assert.Equal(t, "", task.Description)
	assert.Nil(t, task.DueDate, "full replacement clears omitted due date")
	assert.Nil(t, task.AssigneeID, "full replacement clears omitted assignee")

	before := *task
	err = task.Replace(TaskFields{Title: "", Status: TaskStatusDone, Priority: TaskPriorityLow})
	require.Error(t, err)
	assert.Equal(t, before, *task, "failed replace leaves the task untouched")
}

func TestTaskIsOverdue(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name   string
		status TaskStatus
		due    *time.Time
		want   bool
	}{
		{"past due and open", TaskStatusInProgress, &past, true},
		{"past due but done", TaskStatusDone, &past, false},
		{"future due", TaskStatusToDo, &future, false},
		{"exactly now", TaskStatusToDo, &now, false},
		{"no due date", TaskStatusBlocked, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{Status: tt.status, DueDate: tt.due}
			assert.Equal(t, tt.want, task.IsOverdue(now))
		})
	}
}
