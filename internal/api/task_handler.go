package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tthornvik/task-api/internal/api/shared"
	"github.com/tthornvik/task-api/internal/domain"
	"github.com/tthornvik/task-api/internal/service"
	"github.com/tthornvik/task-api/internal/store"
)

// taskSortFields maps the sort names accepted in the sortBy query
// parameter to the store's sort field constants. Both the JSON field
// names and their camelCase spellings are accepted.
var taskSortFields = map[string]string{
	"created_at":  store.TaskSortCreatedAt,
	"createdAt":   store.TaskSortCreatedAt,
	"updated_at":  store.TaskSortUpdatedAt,
	"updatedAt":   store.TaskSortUpdatedAt,
	"completed":   store.TaskSortCompleted,
	"description": store.TaskSortDescription,
}

// TaskHandler handles task API requests. Every route runs behind the
// auth middleware, so handlers always operate on the caller's tasks.
type TaskHandler struct {
	taskService *service.TaskService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
// If logger is nil, a default logger will be used.
func NewTaskHandler(taskService *service.TaskService, logger *slog.Logger) *TaskHandler {
	if taskService == nil {
		panic("task service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, req.Description, req.Completed)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// List handles GET /tasks with optional completed, limit, skip and
// sortBy query parameters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	filter, err := parseTaskFilter(r.URL.Query())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.taskService.List(r.Context(), userID, filter)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Update handles PATCH /tasks/{id}. The payload may only carry the
// updatable task fields; anything else is rejected.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSONStrict(r, &req); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid update: "+err.Error())
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.Update(r.Context(), userID, taskID, service.TaskUpdate{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Delete handles DELETE /tasks/{id}. The response echoes the deleted
// task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	task, err := h.taskService.Delete(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// parseTaskFilter converts the listing query parameters into a store
// filter, validating each value.
func parseTaskFilter(query url.Values) (store.TaskFilter, error) {
	var filter store.TaskFilter

	if raw := query.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return store.TaskFilter{}, domain.NewValidationError(
				"completed", "must be true or false", domain.ErrValidation)
		}
		filter.Completed = &completed
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return store.TaskFilter{}, domain.NewValidationError(
				"limit", "must be a non-negative integer", domain.ErrValidation)
		}
		filter.Limit = limit
	}

	if raw := query.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return store.TaskFilter{}, domain.NewValidationError(
				"skip", "must be a non-negative integer", domain.ErrValidation)
		}
		filter.Offset = skip
	}

	if raw := query.Get("sortBy"); raw != "" {
		field, direction, found := strings.Cut(raw, ":")

		sortField, ok := taskSortFields[field]
		if !ok {
			return store.TaskFilter{}, domain.NewValidationError(
				"sortBy", "unsupported sort field", domain.ErrValidation)
		}
		filter.SortField = sortField

		if found {
			switch direction {
			case "asc":
			case "desc":
				filter.SortDesc = true
			default:
				return store.TaskFilter{}, domain.NewValidationError(
					"sortBy", "direction must be asc or desc", domain.ErrValidation)
			}
		}
	}

	return filter, nil
}
