package tenant

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/chronos-hq/chronos/internal/domain"
	"github.com/chronos-hq/chronos/internal/httputil"
	"github.com/chronos-hq/chronos/internal/tenant"
)

// Handler handles tenant resolution and provisioning endpoints. Both run
// pre-login and require no authentication.
type Handler struct {
	logger  *slog.Logger
	tenants *tenant.Service
}

// NewHandler creates a new tenant handler.
func NewHandler(logger *slog.Logger, tenants *tenant.Service) *Handler {
	return &Handler{logger: logger, tenants: tenants}
}

// LookupRequest is the tenant lookup payload.
type LookupRequest struct {
	TenantName string `json:"tenantName"`
}

// Lookup resolves a tenant by exact name or slug.
// POST /api/tenant/lookup
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req LookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.TenantName == "" {
		httputil.ValidationError(w, domain.FieldErrors{
			{Path: "tenantName", Message: "tenantName is required"},
		})
		return
	}

	result, err := h.tenants.Lookup(r.Context(), req.TenantName)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			httputil.Error(w, http.StatusNotFound, "tenant not found")
			return
		}
		httputil.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"tenantId":   result.TenantID,
		"redirectTo": result.RedirectTo,
	})
}

// CreateRequest is the tenant provisioning payload.
type CreateRequest struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	Password  string `json:"password"`
	InviteKey string `json:"inviteKey"`
}

// Create provisions a tenant plus its admin user, consuming an invite key.
// POST /api/tenant/create
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, u, err := h.tenants.Provision(r.Context(), tenant.ProvisionParams{
		Name:      req.Name,
		Slug:      req.Slug,
		Email:     req.Email,
		FullName:  req.FullName,
		Password:  req.Password,
		InviteKey: req.InviteKey,
	})
	if err != nil {
		if issues, ok := domain.AsFieldErrors(err); ok {
			httputil.ValidationError(w, issues)
			return
		}
		switch {
		case errors.Is(err, domain.ErrSlugTaken):
			httputil.Error(w, http.StatusBadRequest, "a workspace with this slug already exists")
		case errors.Is(err, domain.ErrEmailTaken):
			httputil.Error(w, http.StatusBadRequest, "a user with this email already exists")
		case errors.Is(err, domain.ErrInviteKeyInvalid):
			httputil.Error(w, http.StatusBadRequest, "invalid or already used invite key")
		default:
			httputil.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.logger.Info("tenant provisioned", "tenant_id", t.ID, "slug", t.Slug, "admin_id", u.ID)

	httputil.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"tenant": map[string]any{
			"id":   t.ID,
			"name": t.Name,
			"slug": t.Slug,
		},
		"user": map[string]any{
			"id":    u.ID,
			"email": u.Email,
			"role":  u.Role,
		},
	})
}
