package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tthornvik/task-api/internal/api"
	apiMiddleware "github.com/tthornvik/task-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	userHandler := api.NewUserHandler(app.userService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.tokenStore)

	// Account endpoints (public)
	r.Post("/users", userHandler.Register)
	r.Post("/users/login", userHandler.Login)
	r.Get("/users/{id}/avatar", userHandler.GetAvatar)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		// Session endpoints
		r.Post("/users/logout", userHandler.Logout)
		r.Post("/users/logoutAll", userHandler.LogoutAll)

		// Profile endpoints
		r.Get("/users/me", userHandler.GetMe)
		r.Patch("/users/me", userHandler.UpdateMe)
		r.Delete("/users/me", userHandler.DeleteMe)
		r.Post("/users/me/avatar", userHandler.UploadAvatar)
		r.Delete("/users/me/avatar", userHandler.DeleteAvatar)

		// Task endpoints
		r.Post("/tasks", taskHandler.Create)
		r.Get("/tasks", taskHandler.List)
		r.Get("/tasks/{id}", taskHandler.Get)
		r.Patch("/tasks/{id}", taskHandler.Update)
		r.Delete("/tasks/{id}", taskHandler.Delete)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
