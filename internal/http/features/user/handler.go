package user

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/chronos-hq/chronos/internal/auth"
	"github.com/chronos-hq/chronos/internal/domain"
	"github.com/chronos-hq/chronos/internal/http/middleware"
	"github.com/chronos-hq/chronos/internal/httputil"
	"github.com/chronos-hq/chronos/internal/user"
)

// Handler handles user creation and login endpoints.
type Handler struct {
	logger *slog.Logger
	users  *user.Service
	tokens *auth.TokenService
}

// NewHandler creates a new user handler.
func NewHandler(logger *slog.Logger, users *user.Service, tokens *auth.TokenService) *Handler {
	return &Handler{logger: logger, users: users, tokens: tokens}
}

// CreateRequest is the admin user-creation payload.
type CreateRequest struct {
	Email    string      `json:"email"`
	FullName string      `json:"fullName"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// Create adds a user to the caller's tenant.
// POST /api/user/create (admin only)
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

	u, err := h.users.Create(r.Context(), identity.TenantID, user.CreateParams{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		if issues, ok := domain.AsFieldErrors(err); ok {
			httputil.ValidationError(w, issues)
			return
		}
		switch {
		case errors.Is(err, domain.ErrTenantNotFound):
			httputil.Error(w, http.StatusNotFound, "tenant not found")
		case errors.Is(err, domain.ErrEmailTaken):
			httputil.Error(w, http.StatusBadRequest, "a user with this email already exists")
		default:
			httputil.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.logger.Info("user created", "user_id", u.ID, "tenant_id", u.TenantID, "role", u.Role)

	httputil.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    u,
	})
}

// LoginRequest is the tenant-scoped login payload.
type LoginRequest struct {
	TenantID string `json:"tenantId"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user within a tenant and issues a session token.
// POST /api/user/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var issues domain.FieldErrors
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		issues = append(issues, domain.FieldError{Path: "tenantId", Message: "tenantId must be a valid id"})
	}
	if req.Email == "" {
		issues = append(issues, domain.FieldError{Path: "email", Message: "email is required"})
	}
	if req.Password == "" {
		issues = append(issues, domain.FieldError{Path: "password", Message: "password is required"})
	}
	if len(issues) > 0 {
		httputil.ValidationError(w, issues)
		return
	}

	u, err := h.users.Authenticate(r.Context(), tenantID, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			httputil.Error(w, http.StatusNotFound, "user not found in this workspace")
		case errors.Is(err, domain.ErrInvalidCredentials):
			httputil.Error(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			httputil.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	token, err := h.tokens.Issue(u.ID, u.TenantID, u.Role)
	if err != nil {
		httputil.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user":    u,
	})
}
