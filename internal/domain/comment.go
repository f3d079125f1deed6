package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Comment is a note left on a task by a user.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	AuthorID  uuid.UUID `json:"author_id"`
	TaskID    int64     `json:"task_id"`
}

// NewComment creates a Comment on the given task.
func NewComment(taskID int64, authorID uuid.UUID, content string, now time.Time) (*Comment, error) {
	c := &Comment{
		Content:   content,
		CreatedAt: now.UTC(),
		AuthorID:  authorID,
		TaskID:    taskID,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Edit replaces the content of the comment.
func (c *Comment) Edit(content string) error {
	if strings.TrimSpace(content) == "" {
		return NewValidationError("content", "cannot be empty", ErrEmptyContent)
	}
	c.Content = content
	return nil
}

// Validate checks if the Comment has valid data.
func (c *Comment) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return NewValidationError("content", "cannot be empty", ErrEmptyContent)
	}
	if c.AuthorID == uuid.Nil {
		return NewValidationError("author_id", "is required", ErrInvalidID)
	}
	if c.TaskID <= 0 {
		return NewValidationError("task_id", "is required", ErrInvalidID)
	}
	return nil
}
