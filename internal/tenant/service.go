package tenant

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/chronos-hq/chronos/internal/auth"
	"github.com/chronos-hq/chronos/internal/domain"
	"github.com/chronos-hq/chronos/internal/repository"
)

// Service resolves tenants by name or slug and provisions new ones gated by
// single-use invite keys.
type Service struct {
	db         *sql.DB
	tenants    *repository.TenantsRepository
	users      *repository.UsersRepository
	inviteKeys *repository.InviteKeysRepository
}

// NewService creates a new tenant service.
func NewService(db *sql.DB, tenants *repository.TenantsRepository, users *repository.UsersRepository, inviteKeys *repository.InviteKeysRepository) *Service {
	return &Service{
		db:         db,
		tenants:    tenants,
		users:      users,
		inviteKeys: inviteKeys,
	}
}

// LookupResult is the pre-login tenant resolution response.
type LookupResult struct {
	TenantID   uuid.UUID `json:"tenantId"`
	RedirectTo string    `json:"redirectTo"`
}

// Lookup matches an active tenant by exact name or slug. Runs before login,
// so it requires no authentication.
func (s *Service) Lookup(ctx context.Context, nameOrSlug string) (*LookupResult, error) {
	t, err := s.tenants.GetActiveByNameOrSlug(ctx, nameOrSlug)
	if err != nil {
		return nil, err
	}
	return &LookupResult{
		TenantID:   t.ID,
		RedirectTo: "/" + t.Slug,
	}, nil
}

// ProvisionParams holds the tenant provisioning request.
type ProvisionParams struct {
	Name      string
	Slug      string
	Email     string
	FullName  string
	Password  string
	InviteKey string
}

func (p ProvisionParams) validate() domain.FieldErrors {
	var issues domain.FieldErrors
	if p.Name == "" {
		issues = append(issues, domain.FieldError{Path: "name", Message: "name is required"})
	}
	if !domain.ValidSlug(p.Slug) {
		issues = append(issues, domain.FieldError{Path: "slug", Message: "slug must contain only lowercase letters, digits, and hyphens"})
	}
	if !domain.ValidEmail(p.Email) {
		issues = append(issues, domain.FieldError{Path: "email", Message: "email must be a valid address"})
	}
	if p.FullName == "" {
		issues = append(issues, domain.FieldError{Path: "fullName", Message: "fullName is required"})
	}
	if !domain.ValidPassword(p.Password) {
		issues = append(issues, domain.FieldError{Path: "password", Message: "password must be at least 8 characters"})
	}
	if p.InviteKey == "" {
		issues = append(issues, domain.FieldError{Path: "inviteKey", Message: "inviteKey is required"})
	}
	return issues
}

// Provision creates a tenant and its admin user, consuming the invite key.
// The tenant insert, user insert, and key consumption run in one transaction:
// a failure at any step leaves no orphaned tenant and no consumed key.
func (s *Service) Provision(ctx context.Context, params ProvisionParams) (*domain.Tenant, *domain.User, error) {
	if issues := params.validate(); len(issues) > 0 {
		return nil, nil, issues
	}

	taken, err := s.tenants.ExistsBySlug(ctx, params.Slug)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, domain.ErrSlugTaken
	}

	taken, err = s.users.ExistsByEmail(ctx, params.Email)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, domain.ErrEmailTaken
	}

	key, err := s.inviteKeys.GetByKey(ctx, params.InviteKey)
	if err != nil {
		return nil, nil, err
	}
	if key.IsUsed {
		return nil, nil, domain.ErrInviteKeyInvalid
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	t := &domain.Tenant{
		ID:        uuid.New(),
		Name:      params.Name,
		Slug:      params.Slug,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	u := &domain.User{
		ID:           uuid.New(),
		TenantID:     t.ID,
		Username:     domain.UsernameFromEmail(params.Email),
		Email:        params.Email,
		FullName:     params.FullName,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
	}

	err = repository.Tx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tenants.CreateTx(ctx, tx, t); err != nil {
			return err
		}
		if err := s.users.CreateTx(ctx, tx, u); err != nil {
			return err
		}
		// Conditional consume closes the lookup-then-consume race: a
		// concurrent provision that won the key loses here and rolls back.
		return s.inviteKeys.ConsumeTx(ctx, tx, params.InviteKey, u.ID, t.ID)
	})
	if err != nil {
		// Uniqueness races between the pre-checks and the insert surface as
		// constraint violations inside the transaction.
		switch {
		case repository.IsUniqueViolation(err, "tenants_slug_key"):
			return nil, nil, domain.ErrSlugTaken
		case repository.IsUniqueViolation(err, "users_email_key"):
			return nil, nil, domain.ErrEmailTaken
		case errors.Is(err, domain.ErrInviteKeyInvalid):
			return nil, nil, domain.ErrInviteKeyInvalid
		}
		return nil, nil, err
	}

	return t, u, nil
}
