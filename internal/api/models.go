package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/service"
)

// Common request/response structures

// ProjectRequest is the payload for creating or replacing a project.
type ProjectRequest struct {
	Name        string     `json:"name"                 validate:"required,max=100"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ManagerID   *uuid.UUID `json:"manager_id,omitempty"`
}

func (req ProjectRequest) fields() domain.ProjectFields {
	return domain.ProjectFields{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate,
		ManagerID:   req.ManagerID,
	}
}

// AddTeamMemberRequest is the payload for adding a user to a project team.
type AddTeamMemberRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// CreateTaskRequest is the payload for creating a task. Status and
// priority are symbolic names and default to ToDo and Medium.
type CreateTaskRequest struct {
	Title       string     `json:"title"                 validate:"required,max=200"`
	Description string     `json:"description"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ProjectID   int64      `json:"project_id"            validate:"required,gt=0"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
}

// UpdateTaskRequest is the payload for replacing a task. The owning
// project cannot be changed.
type UpdateTaskRequest struct {
	Title       string     `json:"title"                 validate:"required,max=200"`
	Description string     `json:"description"`
	Status      string     `json:"status"                validate:"required"`
	Priority    string     `json:"priority"              validate:"required"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
}

// CommentRequest is the payload for adding or editing a comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// BatchUpdateTaskStatusRequest is the payload for the batch status update.
type BatchUpdateTaskStatusRequest struct {
	TaskIDs []int64 `json:"task_ids" validate:"dive,gt=0"`
	Status  string  `json:"status"   validate:"required"`
}

// UpsertUserRequest is the payload for mirroring an identity provider user.
type UpsertUserRequest struct {
	UserName  string `json:"user_name"  validate:"required,max=256"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name"  validate:"max=100"`
	Email     string `json:"email"      validate:"omitempty,email"`
}

// ProjectResponse is a project with resolved names. Tasks and TeamMembers
// are only present on the detail view.
type ProjectResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	ManagerID   *uuid.UUID     `json:"manager_id,omitempty"`
	ManagerName string         `json:"manager_name,omitempty"`
	Tasks       []TaskResponse `json:"tasks,omitempty"`
	TeamMembers []UserResponse `json:"team_members,omitempty"`
}

// TaskResponse is a task with resolved names. Comments are only present
// on the detail view.
type TaskResponse struct {
	ID           int64             `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Status       string            `json:"status"`
	Priority     string            `json:"priority"`
	CreatedAt    time.Time         `json:"created_at"`
	DueDate      *time.Time        `json:"due_date,omitempty"`
	ProjectID    int64             `json:"project_id"`
	ProjectName  string            `json:"project_name,omitempty"`
	AssigneeID   *uuid.UUID        `json:"assignee_id,omitempty"`
	AssigneeName string            `json:"assignee_name,omitempty"`
	Comments     []CommentResponse `json:"comments,omitempty"`
}

// CommentResponse is a comment with its author's name.
type CommentResponse struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	TaskID     int64     `json:"task_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	UserName    string    `json:"user_name"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name"`
}

// BatchUpdateTaskStatusResponse reports the outcome of a batch update.
type BatchUpdateTaskStatusResponse struct {
	Success      bool   `json:"success"`
	UpdatedCount int    `json:"updated_count"`
	Message      string `json:"message"`
}

// MessageResponse carries a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

func projectToResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		DueDate:     p.DueDate,
		ManagerID:   p.ManagerID,
	}
}

func projectViewToResponse(v service.ProjectView) ProjectResponse {
	resp := projectToResponse(v.Project)
	resp.ManagerName = v.ManagerName
	for _, t := range v.Tasks {
		resp.Tasks = append(resp.Tasks, taskViewToResponse(t))
	}
	for _, u := range v.TeamMembers {
		resp.TeamMembers = append(resp.TeamMembers, userToResponse(u))
	}
	return resp
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt,
		DueDate:     t.DueDate,
		ProjectID:   t.ProjectID,
		AssigneeID:  t.AssigneeID,
	}
}

func taskViewToResponse(v service.TaskView) TaskResponse {
	resp := taskToResponse(v.Task)
	resp.ProjectName = v.ProjectName
	resp.AssigneeName = v.AssigneeName
	for _, c := range v.Comments {
		resp.Comments = append(resp.Comments, commentViewToResponse(c))
	}
	return resp
}

func commentToResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		TaskID:    c.TaskID,
		AuthorID:  c.AuthorID,
	}
}

func commentViewToResponse(v service.CommentView) CommentResponse {
	resp := commentToResponse(v.Comment)
	resp.AuthorName = v.AuthorName
	return resp
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		UserName:    u.UserName,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		DisplayName: u.DisplayName(),
	}
}
