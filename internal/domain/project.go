package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxProjectNameLength is the maximum number of characters in a project name.
const MaxProjectNameLength = 100

// Project groups tasks and the users working on them.
type Project struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ManagerID   *uuid.UUID `json:"manager_id,omitempty"`
}

// ProjectFields holds every caller-controlled field of a project.
// It is used both for creation and for full-replacement updates.
type ProjectFields struct {
	Name        string
	Description string
	DueDate     *time.Time
	ManagerID   *uuid.UUID
}

// NewProject creates a Project from the given fields. The creation
// timestamp is taken from now and never changes afterwards. The ID is
// assigned by the store on insert.
func NewProject(fields ProjectFields, now time.Time) (*Project, error) {
	p := &Project{CreatedAt: now.UTC()}
	if err := p.Replace(fields); err != nil {
		return nil, err
	}
	return p, nil
}

// Replace overwrites every mutable field with the given values.
// ID and CreatedAt are left untouched. On validation failure the
// project is not modified.
func (p *Project) Replace(fields ProjectFields) error {
	next := *p
	next.Name = strings.TrimSpace(fields.Name)
	next.Description = fields.Description
	next.DueDate = utcPtr(fields.DueDate)
	next.ManagerID = fields.ManagerID
	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}

// Validate checks if the Project has valid data.
func (p *Project) Validate() error {
	if p.Name == "" {
		return NewValidationError("name", "cannot be empty", ErrValidation)
	}
	if utf8.RuneCountInString(p.Name) > MaxProjectNameLength {
		return NewValidationError("name", "must be at most 100 characters", ErrValidation)
	}
	if p.ManagerID != nil && *p.ManagerID == uuid.Nil {
		return NewValidationError("manager_id", "has invalid format", ErrInvalidID)
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
