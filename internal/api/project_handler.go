package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskmgmt-api/internal/api/shared"
	"github.com/phrazzld/taskmgmt-api/internal/platform/logger"
	"github.com/phrazzld/taskmgmt-api/internal/service"
)

// ProjectHandler handles project and team membership requests.
type ProjectHandler struct {
	projects service.ProjectService
	logger   *slog.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projects service.ProjectService, logger *slog.Logger) *ProjectHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProjectHandler")
	}
	return &ProjectHandler{
		projects: projects,
		logger:   logger.With(slog.String("component", "project_handler")),
	}
}

// ListProjects handles GET /projects.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	views, err := h.projects.ListProjects(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list projects")
		return
	}

	resp := make([]ProjectResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, projectViewToResponse(v))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetProject handles GET /projects/{id} and returns the detail view.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	view, err := h.projects.GetProject(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get project")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, projectViewToResponse(*view))
}

// CreateProject handles POST /projects. The caller becomes the manager
// when the request names none.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.ManagerID == nil {
		req.ManagerID = &userID
	}

	project, err := h.projects.CreateProject(r.Context(), req.fields())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create project")
		return
	}

	log.Info("project created",
		slog.Int64("project_id", project.ID),
		slog.String("user_id", userID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, projectToResponse(project))
}

// UpdateProject handles PUT /projects/{id}.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req ProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.projects.UpdateProject(r.Context(), id, req.fields()); err != nil {
		HandleAPIError(w, r, err, "Failed to update project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteProject handles DELETE /projects/{id}.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.projects.DeleteProject(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddTeamMember handles POST /projects/{projectId}/team-members.
func (h *ProjectHandler) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathInt64OrError(w, r, "projectId")
	if !ok {
		return
	}

	var req AddTeamMemberRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.projects.AddTeamMember(r.Context(), projectID, req.UserID); err != nil {
		HandleAPIError(w, r, err, "Failed to add team member")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Team member added successfully."})
}

// RemoveTeamMember handles DELETE /projects/{projectId}/team-members/{userId}.
func (h *ProjectHandler) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathInt64OrError(w, r, "projectId")
	if !ok {
		return
	}
	userID, ok := pathUUIDOrError(w, r, "userId")
	if !ok {
		return
	}

	if err := h.projects.RemoveTeamMember(r.Context(), projectID, userID); err != nil {
		HandleAPIError(w, r, err, "Failed to remove team member")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
