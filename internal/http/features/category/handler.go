package category

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chronos-hq/chronos/internal/domain"
	"github.com/chronos-hq/chronos/internal/http/middleware"
	"github.com/chronos-hq/chronos/internal/httputil"
	"github.com/chronos-hq/chronos/internal/task"
)

// Handler handles category CRUD endpoints.
type Handler struct {
	logger     *slog.Logger
	categories *task.CategoryService
}

// NewHandler creates a new category handler.
func NewHandler(logger *slog.Logger, categories *task.CategoryService) *Handler {
	return &Handler{logger: logger, categories: categories}
}

// CreateRequest is the category creation payload.
type CreateRequest struct {
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Icon  *string `json:"icon"`
}

// UpdateRequest is the partial category update payload.
type UpdateRequest struct {
	Name  *string               `json:"name"`
	Color *string               `json:"color"`
	Icon  domain.OptionalString `json:"icon"`
}

// Create creates a category owned by the caller.
// POST /api/categories
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

	created, err := h.categories.Create(r.Context(), identity, task.CreateCategoryParams{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"category": created,
	})
}

// List returns the caller's categories, newest first.
// GET /api/categories
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	categories, err := h.categories.List(r.Context(), identity)
	if err != nil {
		httputil.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if categories == nil {
		categories = []*domain.Category{}
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"categories": categories,
	})
}

// Get returns a single category owned by the caller.
// GET /api/categories/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusNotFound, "category not found")
		return
	}

	found, err := h.categories.Get(r.Context(), identity, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"category": found,
	})
}

// Update applies a partial update to a category owned by the caller.
// PUT /api/categories/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusNotFound, "category not found")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.categories.Update(r.Context(), identity, id, task.UpdateCategoryParams{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"category": updated,
	})
}

// Delete removes a category owned by the caller, clearing every todo
// reference to it first.
// DELETE /api/categories/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusNotFound, "category not found")
		return
	}

	if err := h.categories.Delete(r.Context(), identity, id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.logger.Info("category deleted", "category_id", id, "tenant_id", identity.TenantID, "deleted_by", identity.UserID)

	httputil.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "category deleted",
	})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if issues, ok := domain.AsFieldErrors(err); ok {
		httputil.ValidationError(w, issues)
		return
	}
	switch {
	case errors.Is(err, domain.ErrCategoryNotFound):
		httputil.Error(w, http.StatusNotFound, "category not found")
	case errors.Is(err, domain.ErrNotTenantMember):
		httputil.Error(w, http.StatusForbidden, "User does not belong to this tenant")
	case errors.Is(err, domain.ErrForbidden):
		httputil.Error(w, http.StatusForbidden, "insufficient permissions")
	default:
		httputil.Error(w, http.StatusInternalServerError, err.Error())
	}
}
