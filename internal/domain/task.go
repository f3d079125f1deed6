package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTaskTitleLength is the maximum number of characters in a task title.
const MaxTaskTitleLength = 200

// TaskStatus is the workflow state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusToDo       TaskStatus = "ToDo"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusDone       TaskStatus = "Done"
	TaskStatusBlocked    TaskStatus = "Blocked"
)

var taskStatuses = []TaskStatus{
	TaskStatusToDo,
	TaskStatusInProgress,
	TaskStatusDone,
	TaskStatusBlocked,
}

// ParseTaskStatus resolves a symbolic status name, ignoring case.
// Unknown names return ErrInvalidStatus.
func ParseTaskStatus(name string) (TaskStatus, error) {
	for _, s := range taskStatuses {
		if strings.EqualFold(string(s), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return "", NewValidationError("status", "must be one of ToDo, InProgress, Done, Blocked", ErrInvalidStatus)
}

// Valid reports whether s is one of the defined statuses.
func (s TaskStatus) Valid() bool {
	for _, known := range taskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// TaskPriority ranks how urgent a task is.
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow      TaskPriority = "Low"
	TaskPriorityMedium   TaskPriority = "Medium"
	TaskPriorityHigh     TaskPriority = "High"
	TaskPriorityCritical TaskPriority = "Critical"
)

var taskPriorities = []TaskPriority{
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
	TaskPriorityCritical,
}

// ParseTaskPriority resolves a symbolic priority name, ignoring case.
// Unknown names return ErrInvalidPriority.
func ParseTaskPriority(name string) (TaskPriority, error) {
	for _, p := range taskPriorities {
		if strings.EqualFold(string(p), strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return "", NewValidationError("priority", "must be one of Low, Medium, High, Critical", ErrInvalidPriority)
}

// Valid reports whether p is one of the defined priorities.
func (p TaskPriority) Valid() bool {
	for _, known := range taskPriorities {
		if p == known {
			return true
		}
	}
	return false
}

// Task is a unit of work inside a project.
type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	CreatedAt   time.Time    `json:"created_at"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	ProjectID   int64        `json:"project_id"`
	AssigneeID  *uuid.UUID   `json:"assignee_id,omitempty"`
}

// TaskFields holds every caller-controlled field of a task. The owning
// project is fixed at creation and is not part of the replaceable set.
type TaskFields struct {
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	AssigneeID  *uuid.UUID
}

// NewTask creates a Task in the given project. Empty status and priority
// default to ToDo and Medium.
func NewTask(projectID int64, fields TaskFields, now time.Time) (*Task, error) {
	if projectID <= 0 {
		return nil, NewValidationError("project_id", "is required", ErrInvalidID)
	}
	if fields.Status == "" {
		fields.Status = TaskStatusToDo
	}
	if fields.Priority == "" {
		fields.Priority = TaskPriorityMedium
	}

	t := &Task{ProjectID: projectID, CreatedAt: now.UTC()}
	if err := t.Replace(fields); err != nil {
		return nil, err
	}
	return t, nil
}

// Replace overwrites every mutable field with the given values.
// ID, ProjectID and CreatedAt are left untouched. On validation failure
// the task is not modified.
func (t *Task) Replace(fields TaskFields) error {
	next := *t
	next.Title = strings.TrimSpace(fields.Title)
	next.Description = fields.Description
	next.Status = fields.Status
	next.Priority = fields.Priority
	next.DueDate = utcPtr(fields.DueDate)
	next.AssigneeID = fields.AssigneeID
	if err := next.Validate(); err != nil {
		return err
	}
	*t = next
	return nil
}

// SetStatus changes only the status of the task.
func (t *Task) SetStatus(status TaskStatus) error {
	if !status.Valid() {
		return NewValidationError("status", "must be one of ToDo, InProgress, Done, Blocked", ErrInvalidStatus)
	}
	t.Status = status
	return nil
}

// IsOverdue reports whether the task is unfinished and its due date lies
// before now.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status != TaskStatusDone && t.DueDate != nil && t.DueDate.Before(now)
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.Title == "" {
		return NewValidationError("title", "cannot be empty", ErrValidation)
	}
	if utf8.RuneCountInString(t.Title) > MaxTaskTitleLength {
		return NewValidationError("title", "must be at most 200 characters", ErrValidation)
	}
	if !t.Status.Valid() {
		return NewValidationError("status", "must be one of ToDo, InProgress, Done, Blocked", ErrInvalidStatus)
	}
	if !t.Priority.Valid() {
		return NewValidationError("priority", "must be one of Low, Medium, High, Critical", ErrInvalidPriority)
	}
	if t.ProjectID <= 0 {
		return NewValidationError("project_id", "is required", ErrInvalidID)
	}
	if t.AssigneeID != nil && *t.AssigneeID == uuid.Nil {
		return NewValidationError("assignee_id", "has invalid format", ErrInvalidID)
	}
	return nil
}
