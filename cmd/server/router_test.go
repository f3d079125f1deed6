package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/config"
	"github.com/phrazzld/taskmgmt-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "router-test-secret-long-enough-for-hs256"

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "error"},
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		Auth:     config.AuthConfig{JWTSecret: testJWTSecret},
		Report:   config.ReportConfig{Workers: 2},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	app, err := newApplication(context.Background(), cfg, log)
	require.NoError(t, err)
	return &testServer{t: t, handler: app.setupRouter()}
}

func signedToken(t *testing.T, userID uuid.UUID, roles ...auth.Role) string {
	t.Helper()
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	now := time.Now()
	claims := auth.TokenClaims{
		Roles: names,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := srv.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRoutePolicies(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	member := signedToken(t, uuid.New(), auth.RoleTeamMember)
	manager := signedToken(t, uuid.New(), auth.RoleProjectManager)
	noRoles := signedToken(t, uuid.New())

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{"missing token", http.MethodGet, "/api/projects", "", nil, http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/projects", "not-a-jwt", nil, http.StatusUnauthorized},
		{"no roles", http.MethodGet, "/api/projects", noRoles, nil, http.StatusForbidden},
		{"member lists projects", http.MethodGet, "/api/projects", member, nil, http.StatusOK},
		{"member cannot create project", http.MethodPost, "/api/projects", member, map[string]string{"name": "x"}, http.StatusForbidden},
		{"manager cannot delete project", http.MethodDelete, "/api/projects/1", manager, nil, http.StatusForbidden},
		{"member cannot read reports", http.MethodGet, "/api/reports/project-performance", member, nil, http.StatusForbidden},
		{"manager reads reports", http.MethodGet, "/api/reports/project-performance", manager, nil, http.StatusOK},
		{"manager cannot upsert users", http.MethodPut, "/api/users/" + uuid.NewString(), manager, map[string]string{"user_name": "x"}, http.StatusForbidden},
		{"member cannot delete comments", http.MethodDelete, "/api/comments/1", member, nil, http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := srv.do(tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestEndToEndWorkflow(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	adminID, managerID, memberID := uuid.New(), uuid.New(), uuid.New()
	admin := signedToken(t, adminID, auth.RoleAdmin)
	manager := signedToken(t, managerID, auth.RoleProjectManager)
	member := signedToken(t, memberID, auth.RoleTeamMember)

	for id, name := range map[uuid.UUID][]string{
		adminID:   {"root", "Grace", "Hopper"},
		managerID: {"pm", "Ada", "Lovelace"},
		memberID:  {"dev", "", ""},
	} {
		rec := srv.do(http.MethodPut, "/api/users/"+id.String(), admin, map[string]string{
			"user_name":  name[0],
			"first_name": name[1],
			"last_name":  name[2],
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	// Project defaults its manager to the caller.
	rec := srv.do(http.MethodPost, "/api/projects", manager, map[string]string{"name": "Apollo"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	project := decodeBody[map[string]interface{}](t, rec)
	projectID := int64(project["id"].(float64))
	assert.Equal(t, managerID.String(), project["manager_id"])

	rec = srv.do(http.MethodPost, fmt.Sprintf("/api/projects/%d/team-members", projectID), manager,
		map[string]string{"user_id": memberID.String()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(http.MethodPost, fmt.Sprintf("/api/projects/%d/team-members", projectID), manager,
		map[string]string{"user_id": memberID.String()})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(http.MethodPost, "/api/tasks", manager, map[string]interface{}{
		"title":       "Build launch pad",
		"priority":    "high",
		"project_id":  projectID,
		"assignee_id": memberID.String(),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decodeBody[map[string]interface{}](t, rec)
	taskID := int64(task["id"].(float64))
	assert.Equal(t, "ToDo", task["status"])
	assert.Equal(t, "High", task["priority"])

	rec = srv.do(http.MethodPost, fmt.Sprintf("/api/tasks/%d/comments", taskID), member,
		map[string]string{"content": "on it"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = srv.do(http.MethodGet, fmt.Sprintf("/api/tasks/%d", taskID), member, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeBody[map[string]interface{}](t, rec)
	assert.Equal(t, "Apollo", detail["project_name"])
	assert.Equal(t, "dev", detail["assignee_name"])
	comments := detail["comments"].([]interface{})
	require.Len(t, comments, 1)
	assert.Equal(t, "dev", comments[0].(map[string]interface{})["author_name"])

	rec = srv.do(http.MethodGet, fmt.Sprintf("/api/projects/%d", projectID), member, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	projectDetail := decodeBody[map[string]interface{}](t, rec)
	assert.Equal(t, "Ada Lovelace", projectDetail["manager_name"])
	assert.Len(t, projectDetail["tasks"], 1)
	assert.Len(t, projectDetail["team_members"], 1)

	rec = srv.do(http.MethodPost, "/api/reports/batch-update-task-status", manager, map[string]interface{}{
		"task_ids": []int64{taskID, 9999},
		"status":   "done",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	batch := decodeBody[map[string]interface{}](t, rec)
	assert.Equal(t, true, batch["success"])
	assert.Equal(t, float64(1), batch["updated_count"])

	rec = srv.do(http.MethodGet, "/api/reports/project-performance", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	reports := decodeBody[[]map[string]interface{}](t, rec)
	require.Len(t, reports, 1)
	assert.Equal(t, float64(1), reports[0]["total_tasks"])
	assert.Equal(t, float64(1), reports[0]["completed_tasks"])
	assert.Equal(t, float64(100), reports[0]["completion_rate"])

	// Referenced entities are protected.
	rec = srv.do(http.MethodDelete, fmt.Sprintf("/api/projects/%d", projectID), admin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = srv.do(http.MethodDelete, "/api/users/"+memberID.String(), admin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Deleting the task takes its comments along and frees the project.
	rec = srv.do(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", taskID), manager, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.do(http.MethodGet, fmt.Sprintf("/api/tasks/%d", taskID), member, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = srv.do(http.MethodDelete, fmt.Sprintf("/api/projects/%d", projectID), admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequestErrors(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	admin := signedToken(t, uuid.New(), auth.RoleAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"non numeric id", http.MethodGet, "/api/tasks/abc", nil, http.StatusBadRequest},
		{"zero id", http.MethodGet, "/api/projects/0", nil, http.StatusBadRequest},
		{"unknown task", http.MethodGet, "/api/tasks/42", nil, http.StatusNotFound},
		{"bad user id", http.MethodDelete, "/api/users/not-a-uuid", nil, http.StatusBadRequest},
		{"missing title", http.MethodPost, "/api/tasks", map[string]interface{}{"project_id": 1}, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/projects", map[string]interface{}{"name": "x", "owner": "y"}, http.StatusBadRequest},
		{"bad status", http.MethodPost, "/api/reports/batch-update-task-status",
			map[string]interface{}{"task_ids": []int64{1}, "status": "Archived"}, http.StatusBadRequest},
		{"empty batch", http.MethodPost, "/api/reports/batch-update-task-status",
			map[string]interface{}{"task_ids": []int64{}, "status": "Done"}, http.StatusBadRequest},
		{"no matching tasks", http.MethodPost, "/api/reports/batch-update-task-status",
			map[string]interface{}{"task_ids": []int64{7, 8}, "status": "Done"}, http.StatusNotFound},
		{"comment on missing task", http.MethodPost, "/api/tasks/5/comments",
			map[string]string{"content": "hi"}, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := srv.do(tc.method, tc.path, admin, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
			body := decodeBody[map[string]interface{}](t, rec)
			assert.NotEmpty(t, body["error"])
			assert.NotEmpty(t, body["trace_id"])
		})
	}
}
