package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskmgmt-api/internal/domain"
	"github.com/phrazzld/taskmgmt-api/internal/service"
	"github.com/phrazzld/taskmgmt-api/internal/service/auth"
	"github.com/phrazzld/taskmgmt-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusInternalServerError},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid subject", auth.ErrInvalidSubject, http.StatusUnauthorized},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"wrapped not found", service.NewServiceError("get_task", "failed", store.ErrTaskNotFound), http.StatusNotFound},
		{"project has tasks", service.ErrProjectHasTasks, http.StatusConflict},
		{"member exists", store.ErrMemberExists, http.StatusConflict},
		{"referenced", fmt.Errorf("%w: fk", store.ErrReferenced), http.StatusConflict},
		{"validation", domain.NewValidationError("name", "cannot be empty", nil), http.StatusBadRequest},
		{"invalid status", domain.ErrInvalidStatus, http.StatusBadRequest},
		{"empty batch", service.ErrEmptyBatch, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"unauthorized operation", domain.ErrUnauthorized, http.StatusForbidden},
		{"transaction failed", store.ErrTransactionFailed, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"expired", auth.ErrExpiredToken, "Token expired"},
		{"project", store.ErrProjectNotFound, "Project not found"},
		{"task", fmt.Errorf("load: %w", store.ErrTaskNotFound), "Task not found"},
		{"comment", store.ErrCommentNotFound, "Comment not found"},
		{"user", store.ErrUserNotFound, "User not found"},
		{"member", store.ErrMemberNotFound, "Team member not found"},
		{"has tasks", service.ErrProjectHasTasks, "Project still has tasks"},
		{"has comments", service.ErrUserHasComments, "User has authored comments"},
		{"member exists", service.ErrMemberExists, "User is already a team member"},
		{"empty batch", service.ErrEmptyBatch, "Task id list cannot be empty"},
		{"status", domain.ErrInvalidStatus, "Invalid task status"},
		{"priority", domain.ErrInvalidPriority, "Invalid task priority"},
		{"validation", domain.NewValidationError("title", "cannot be empty", nil), "Invalid title: cannot be empty"},
		{"internal details hidden", errors.New("pq: relation tasks does not exist"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	v := validator.New()

	type sample struct {
		Title string `validate:"required"`
		Email string `validate:"omitempty,email"`
		Count int    `validate:"gt=0"`
	}

	tests := []struct {
		name  string
		input sample
		want  string
	}{
		{"required", sample{Count: 1}, "Invalid Title: required field"},
		{"email", sample{Title: "x", Email: "nope", Count: 1}, "Invalid Email: invalid email format"},
		{"gt", sample{Title: "x"}, "Invalid Count: must be positive"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := v.Struct(tc.input)
			assert.Equal(t, tc.want, SanitizeValidationError(err))
		})
	}

	assert.Equal(t, "Invalid Name: too long",
		SanitizeValidationError(errors.New("Key: 'ProjectRequest.Name' Error:Field validation for 'Name' failed on the 'max' tag")))
	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
