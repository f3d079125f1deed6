package service

import (
	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
)

// NotAvailableLabel is shown for a project without a manager.
const NotAvailableLabel = "N/A"

// ProjectView is a project with the names of the users it references.
// Tasks and TeamMembers are only filled by GetProject.
type ProjectView struct {
	Project     *domain.Project
	ManagerName string
	Tasks       []TaskView
	TeamMembers []*domain.User
}

// TaskView is a task with its project and assignee names. Comments are
// only filled by GetTask.
type TaskView struct {
	Task         *domain.Task
	ProjectName  string
	AssigneeName string
	Comments     []CommentView
}

// CommentView is a comment with its author's name.
type CommentView struct {
	Comment    *domain.Comment
	AuthorName string
}

// userIndex resolves user references to display names.
type userIndex map[uuid.UUID]*domain.User

func indexUsers(users []*domain.User) userIndex {
	idx := make(userIndex, len(users))
	for _, u := range users {
		idx[u.ID] = u
	}
	return idx
}

func (idx userIndex) name(id *uuid.UUID, fallback string) string {
	if id == nil {
		return fallback
	}
	u, ok := idx[*id]
	if !ok {
		return fallback
	}
	return u.DisplayName()
}

func (idx userIndex) taskView(t *domain.Task, projectName string) TaskView {
	return TaskView{
		Task:         t,
		ProjectName:  projectName,
		AssigneeName: idx.name(t.AssigneeID, domain.UnassignedLabel),
	}
}
