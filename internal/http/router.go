package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chronos-hq/chronos/internal/auth"
	categoryhandler "github.com/chronos-hq/chronos/internal/http/features/category"
	tenanthandler "github.com/chronos-hq/chronos/internal/http/features/tenant"
	todohandler "github.com/chronos-hq/chronos/internal/http/features/todo"
	userhandler "github.com/chronos-hq/chronos/internal/http/features/user"
	"github.com/chronos-hq/chronos/internal/http/middleware"
	"github.com/chronos-hq/chronos/internal/httputil"
	"github.com/chronos-hq/chronos/internal/task"
	"github.com/chronos-hq/chronos/internal/tenant"
	"github.com/chronos-hq/chronos/internal/user"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger             *slog.Logger
	Tokens             *auth.TokenService
	Tenants            *tenant.Service
	Users              *user.Service
	Todos              *task.TodoService
	Categories         *task.CategoryService
	MaxRequestBodySize int64
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.RequestSizeLimit(cfg.MaxRequestBodySize))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	tenantH := tenanthandler.NewHandler(cfg.Logger, cfg.Tenants)
	userH := userhandler.NewHandler(cfg.Logger, cfg.Users, cfg.Tokens)
	todoH := todohandler.NewHandler(cfg.Logger, cfg.Todos)
	categoryH := categoryhandler.NewHandler(cfg.Logger, cfg.Categories)

	r.Route("/api", func(r chi.Router) {
		// Pre-login routes
		r.Post("/tenant/lookup", tenantH.Lookup)
		r.Post("/tenant/create", tenantH.Create)
		r.Post("/user/login", userH.Login)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Tokens))

			// Admin-gated routes take their role requirement from the
			// access policy table rather than hardcoding it per route.
			userCreateRole := auth.RuleFor(auth.ResourceUser, auth.OpCreate).Role
			todoDeleteRole := auth.RuleFor(auth.ResourceTodo, auth.OpDelete).Role

			r.With(middleware.RequireRole(userCreateRole)).Post("/user/create", userH.Create)

			r.Route("/todos", func(r chi.Router) {
				r.Post("/", todoH.Create)
				r.Get("/", todoH.List)
				r.Get("/{id}", todoH.Get)
				r.Put("/{id}", todoH.Update)
				r.With(middleware.RequireRole(todoDeleteRole)).Delete("/{id}", todoH.Delete)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", categoryH.Create)
				r.Get("/", categoryH.List)
				r.Get("/{id}", categoryH.Get)
				r.Put("/{id}", categoryH.Update)
				r.Delete("/{id}", categoryH.Delete)
			})
		})
	})

	return r
}
