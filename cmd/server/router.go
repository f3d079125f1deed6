package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskmgmt-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskmgmt-api/internal/api/middleware"
	"github.com/phrazzld/taskmgmt-api/internal/service/auth"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	teamMember := apiMiddleware.RequirePolicy(auth.TeamMemberOrHigher)
	manager := apiMiddleware.RequirePolicy(auth.ProjectManagerOrAdmin)
	admin := apiMiddleware.RequirePolicy(auth.AdminOnly)

	projectHandler := api.NewProjectHandler(app.projectService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	commentHandler := api.NewCommentHandler(app.commentService, app.logger)
	reportHandler := api.NewReportHandler(app.reportService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/projects", func(r chi.Router) {
			r.With(teamMember).Get("/", projectHandler.ListProjects)
			r.With(teamMember).Get("/{id}", projectHandler.GetProject)
			r.With(manager).Post("/", projectHandler.CreateProject)
			r.With(manager).Put("/{id}", projectHandler.UpdateProject)
			r.With(admin).Delete("/{id}", projectHandler.DeleteProject)

			r.With(manager).Post("/{projectId}/team-members", projectHandler.AddTeamMember)
			r.With(manager).Delete("/{projectId}/team-members/{userId}", projectHandler.RemoveTeamMember)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.With(teamMember).Get("/", taskHandler.ListTasks)
			r.With(teamMember).Get("/{id}", taskHandler.GetTask)
			r.With(manager).Post("/", taskHandler.CreateTask)
			r.With(teamMember).Put("/{id}", taskHandler.UpdateTask)
			r.With(manager).Delete("/{id}", taskHandler.DeleteTask)

			r.With(teamMember).Get("/{taskId}/comments", commentHandler.ListComments)
			r.With(teamMember).Post("/{taskId}/comments", commentHandler.AddComment)
		})

		r.Route("/comments", func(r chi.Router) {
			r.With(teamMember).Get("/{id}", commentHandler.GetComment)
			r.With(teamMember).Put("/{id}", commentHandler.EditComment)
			r.With(manager).Delete("/{id}", commentHandler.DeleteComment)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(manager)
			r.Get("/project-performance", reportHandler.GetProjectPerformance)
			r.Post("/batch-update-task-status", reportHandler.BatchUpdateTaskStatus)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(teamMember).Get("/", userHandler.ListUsers)
			r.With(teamMember).Get("/{id}", userHandler.GetUser)
			r.With(admin).Put("/{id}", userHandler.UpsertUser)
			r.With(admin).Delete("/{id}", userHandler.DeleteUser)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
