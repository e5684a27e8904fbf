package user

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chronos-hq/chronos/internal/auth"
	"github.com/chronos-hq/chronos/internal/domain"
	"github.com/chronos-hq/chronos/internal/repository"
)

// Service creates users within a tenant and authenticates logins.
type Service struct {
	tenants *repository.TenantsRepository
	users   *repository.UsersRepository
}

// NewService creates a new user service.
func NewService(tenants *repository.TenantsRepository, users *repository.UsersRepository) *Service {
	return &Service{tenants: tenants, users: users}
}

// CreateParams holds an admin's user-creation request.
type CreateParams struct {
	Email    string
	FullName string
	Password string
	Role     domain.Role
}

func (p CreateParams) validate() domain.FieldErrors {
	var issues domain.FieldErrors
	if !domain.ValidEmail(p.Email) {
		issues = append(issues, domain.FieldError{Path: "email", Message: "email must be a valid address"})
	}
	if p.FullName == "" {
		issues = append(issues, domain.FieldError{Path: "fullName", Message: "fullName is required"})
	}
	if !domain.ValidPassword(p.Password) {
		issues = append(issues, domain.FieldError{Path: "password", Message: "password must be at least 8 characters"})
	}
	if !p.Role.Valid() {
		issues = append(issues, domain.FieldError{Path: "role", Message: "role must be admin or member"})
	}
	return issues
}

// Create adds a user to the tenant. Callers are admin-gated at the route;
// email uniqueness is global, not per-tenant.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, params CreateParams) (*domain.User, error) {
	if issues := params.validate(); len(issues) > 0 {
		return nil, issues
	}

	// The claimed tenant must exist; a token for a deleted tenant must not
	// create dangling users.
	if _, err := s.tenants.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByEmail(ctx, params.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Username:     domain.UsernameFromEmail(params.Email),
		Email:        params.Email,
		FullName:     params.FullName,
		PasswordHash: hash,
		Role:         params.Role,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		if repository.IsUniqueViolation(err, "users_email_key") {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Authenticate verifies a tenant-scoped email/password pair. A user that
// exists in a different tenant is indistinguishable from one that does not
// exist at all.
func (s *Service) Authenticate(ctx context.Context, tenantID uuid.UUID, email, password string) (*domain.User, error) {
	u, err := s.users.GetByEmailInTenant(ctx, tenantID, email)
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}
