package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/platform/memstore"
	"github.com/phrazzld/taskmgmt-api/internal/report"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	ctx      context.Context
	store    *memstore.Store
	projects ProjectService
	tasks    TaskService
	comments CommentService
	users    UserService
	reports  ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := memstore.New(nil)
	clock := WithClock(func() time.Time { return fixedNow })

	projects, err := NewProjectService(st, clock)
	require.NoError(t, err)
	tasks, err := NewTaskService(st, clock)
	require.NoError(t, err)
	comments, err := NewCommentService(st, clock)
	require.NoError(t, err)
	users, err := NewUserService(st, clock)
	require.NoError(t, err)
	reports, err := NewReportService(st, report.NewEngine(report.Config{Workers: 2}, nil), clock)
	require.NoError(t, err)

	return &testEnv{
		ctx:      context.Background(),
		store:    st,
		projects: projects,
		tasks:    tasks,
		comments: comments,
		users:    users,
		reports:  reports,
	}
}

func (e *testEnv) user(t *testing.T, userName, first, last string) *domain.User {
	t.Helper()
	u, err := e.users.UpsertUser(e.ctx, domain.User{
		ID:        uuid.New(),
		UserName:  userName,
		FirstName: first,
		LastName:  last,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) project(t *testing.T, name string, manager *uuid.UUID) *domain.Project {
	t.Helper()
	p, err := e.projects.CreateProject(e.ctx, domain.ProjectFields{Name: name, ManagerID: manager})
	require.NoError(t, err)
	return p
}

func (e *testEnv) task(t *testing.T, projectID int64, title, status string, assignee *uuid.UUID) *domain.Task {
	t.Helper()
	task, err := e.tasks.CreateTask(e.ctx, TaskInput{
		Title:      title,
		Status:     status,
		ProjectID:  projectID,
		AssigneeID: assignee,
	})
	require.NoError(t, err)
	return task
}

func ptr[T any](v T) *T {
	return &v
}
