package todo

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chronos-hq/chronos/internal/domain"
	"github.com/chronos-hq/chronos/internal/http/middleware"
	"github.com/chronos-hq/chronos/internal/httputil"
	"github.com/chronos-hq/chronos/internal/task"
)

// Handler handles todo CRUD endpoints.
type Handler struct {
	logger *slog.Logger
	todos  *task.TodoService
}

// NewHandler creates a new todo handler.
func NewHandler(logger *slog.Logger, todos *task.TodoService) *Handler {
	return &Handler{logger: logger, todos: todos}
}

// CreateRequest is the todo creation payload.
type CreateRequest struct {
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	IsCompleted *bool           `json:"is_completed"`
	DueDate     *time.Time      `json:"due_date"`
	Priority    domain.Priority `json:"priority"`
	CategoryID  *uuid.UUID      `json:"category_id"`
}

// UpdateRequest is the partial todo update payload. Absent keys leave fields
// untouched; explicit nulls clear the nullable ones.
type UpdateRequest struct {
	Title       *string               `json:"title"`
	Description domain.OptionalString `json:"description"`
	IsCompleted *bool                 `json:"is_completed"`
	DueDate     domain.OptionalTime   `json:"due_date"`
	Priority    *domain.Priority      `json:"priority"`
	CategoryID  domain.OptionalUUID   `json:"category_id"`
}

// Create creates a todo owned by the caller.
// POST /api/todos
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.IsCompleted == nil {
		httputil.ValidationError(w, domain.FieldErrors{
			{Path: "is_completed", Message: "is_completed is required"},
		})
		return
	}

	created, err := h.todos.Create(r.Context(), identity, task.CreateTodoParams{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: *req.IsCompleted,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"todo":    created,
	})
}

// List returns the caller's todos, newest first.
// GET /api/todos
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	todos, err := h.todos.List(r.Context(), identity)
	if err != nil {
		httputil.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if todos == nil {
		todos = []*domain.Todo{}
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"todos":   todos,
	})
}

// Get returns a single todo owned by the caller.
// GET /api/todos/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusNotFound, "todo not found")
		return
	}

	found, err := h.todos.Get(r.Context(), identity, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"todo":    found,
	})
}

// Update applies a partial update to a todo owned by the caller.
// PUT /api/todos/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusNotFound, "todo not found")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.todos.Update(r.Context(), identity, id, task.UpdateTodoParams{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"todo":    updated,
	})
}

// Delete removes a todo. Admin-gated at the route; tenant-scoped, not
// owner-scoped.
// DELETE /api/todos/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusNotFound, "todo not found")
		return
	}

	if err := h.todos.Delete(r.Context(), identity, id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.logger.Info("todo deleted", "todo_id", id, "tenant_id", identity.TenantID, "deleted_by", identity.UserID)

	httputil.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "todo deleted",
	})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if issues, ok := domain.AsFieldErrors(err); ok {
		httputil.ValidationError(w, issues)
		return
	}
	switch {
	case errors.Is(err, domain.ErrTodoNotFound):
		httputil.Error(w, http.StatusNotFound, "todo not found")
	case errors.Is(err, domain.ErrNotTenantMember):
		httputil.Error(w, http.StatusForbidden, "User does not belong to this tenant")
	case errors.Is(err, domain.ErrForbidden):
		httputil.Error(w, http.StatusForbidden, "insufficient permissions")
	default:
		httputil.Error(w, http.StatusInternalServerError, err.Error())
	}
}
