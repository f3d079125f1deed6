package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmgmt-api/internal/platform/logger"
	"github.com/phrazzld/taskmgmt-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))

	ctx := SetTraceID(context.Background())
	id := GetTraceID(ctx)
	assert.Len(t, id, 2*TraceIDLength)
	assert.NotEqual(t, id, GetTraceID(SetTraceID(context.Background())))
	assert.Len(t, generateFallbackTraceID(), 2*TraceIDLength)
}

func TestClaimsContext(t *testing.T) {
	t.Parallel()

	_, ok := GetClaims(context.Background())
	assert.False(t, ok)
	_, ok = GetUserID(context.Background())
	assert.False(t, ok)

	claims := &auth.Claims{UserID: uuid.New(), Roles: []auth.Role{auth.RoleAdmin}}
	ctx := WithClaims(context.Background(), claims)

	got, ok := GetClaims(ctx)
	require.True(t, ok)
	assert.Same(t, claims, got)

	userID, ok := GetUserID(ctx)
	require.True(t, ok)
	assert.Equal(t, claims.UserID, userID)
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name" validate:"required,max=5"`
	}

	tests := []struct {
		name        string
		body        string
		wantErr     error
		wantAnyErr  bool
		wantInvalid bool
	}{
		{name: "valid", body: `{"name":"abc"}`},
		{name: "empty body", body: "", wantErr: ErrEmptyBody},
		{name: "malformed", body: `{"name":`, wantAnyErr: true},
		{name: "unknown field", body: `{"name":"abc","extra":1}`, wantAnyErr: true},
		{name: "fails validation", body: `{"name":"toolong"}`, wantInvalid: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))

			var p payload
			err := DecodeJSON(req, &p)
			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
				return
			case tc.wantAnyErr:
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			if tc.wantInvalid {
				assert.Error(t, ValidateRequest(&p))
			} else {
				assert.NoError(t, ValidateRequest(&p))
			}
		})
	}
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/1", nil)
	req = req.WithContext(SetTraceID(req.Context()))
	rec := httptest.NewRecorder()

	RespondWithError(rec, req, http.StatusNotFound, "Task not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Task not found", body["error"])
	assert.Equal(t, GetTraceID(req.Context()), body["trace_id"])
	assert.NotContains(t, body, "Code")
}

func TestRespondWithErrorAndLogRedacts(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	req := httptest.NewRequest(http.MethodDelete, "/api/projects/3", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), log))
	rec := httptest.NewRecorder()

	cause := errors.New("query failed: postgres://admin:hunter2@db:5432/tasks")
	RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "Failed to delete project", cause)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.Contains(t, rec.Body.String(), "Failed to delete project")

	assert.Contains(t, logs.String(), `"level":"ERROR"`)
	assert.Contains(t, logs.String(), "Failed to delete project")
	assert.NotContains(t, logs.String(), "hunter2")
}

func TestRespondWithErrorAndLogClientErrorsAtDebug(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/9", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), log))

	RespondWithErrorAndLog(httptest.NewRecorder(), req, http.StatusNotFound, "Task not found", errors.New("missing"))

	assert.Contains(t, logs.String(), `"level":"DEBUG"`)
	assert.NotContains(t, logs.String(), `"level":"ERROR"`)
}
