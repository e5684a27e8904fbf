package task

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/chronos-hq/chronos/internal/auth"
	"github.com/chronos-hq/chronos/internal/domain"
	"github.com/chronos-hq/chronos/internal/repository"
)

// CategoryService manages categories scoped by tenant and owner.
type CategoryService struct {
	db         *sql.DB
	categories *repository.CategoriesRepository
	todos      *repository.TodosRepository
	membership *auth.MembershipVerifier
}

// NewCategoryService creates a new category service.
func NewCategoryService(db *sql.DB, categories *repository.CategoriesRepository, todos *repository.TodosRepository, membership *auth.MembershipVerifier) *CategoryService {
	return &CategoryService{
		db:         db,
		categories: categories,
		todos:      todos,
		membership: membership,
	}
}

// CreateCategoryParams holds a category creation request.
type CreateCategoryParams struct {
	Name  string
	Color string
	Icon  *string
}

// Create creates a category owned by the caller.
func (s *CategoryService) Create(ctx context.Context, identity domain.Identity, params CreateCategoryParams) (*domain.Category, error) {
	member, err := s.membership.Verify(ctx, identity.TenantID, identity.UserID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotTenantMember
	}

	var issues domain.FieldErrors
	if params.Name == "" {
		issues = append(issues, domain.FieldError{Path: "name", Message: "name is required"})
	}
	if !domain.ValidColor(params.Color) {
		issues = append(issues, domain.FieldError{Path: "color", Message: "color must be a hex code like #3b82f6"})
	}
	if len(issues) > 0 {
		return nil, issues
	}

	category := &domain.Category{
		ID:        uuid.New(),
		UserID:    identity.UserID,
		TenantID:  identity.TenantID,
		Name:      params.Name,
		Color:     params.Color,
		Icon:      params.Icon,
		CreatedAt: time.Now(),
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// List returns the caller's categories within the tenant, newest first.
func (s *CategoryService) List(ctx context.Context, identity domain.Identity) ([]*domain.Category, error) {
	return s.categories.ListByOwner(ctx, identity.TenantID, identity.UserID)
}

// Get returns a single category owned by the caller within the tenant.
func (s *CategoryService) Get(ctx context.Context, identity domain.Identity, id uuid.UUID) (*domain.Category, error) {
	return s.categories.GetByOwner(ctx, identity.TenantID, identity.UserID, id)
}

// UpdateCategoryParams is a partial update: only set fields are modified.
type UpdateCategoryParams struct {
	Name  *string
	Color *string
	Icon  domain.OptionalString
}

// Update applies a partial update to a category owned by the caller.
func (s *CategoryService) Update(ctx context.Context, identity domain.Identity, id uuid.UUID, params UpdateCategoryParams) (*domain.Category, error) {
	category, err := s.categories.GetByOwner(ctx, identity.TenantID, identity.UserID, id)
	if err != nil {
		return nil, err
	}

	var issues domain.FieldErrors
	if params.Name != nil {
		if *params.Name == "" {
			issues = append(issues, domain.FieldError{Path: "name", Message: "name must not be empty"})
		} else {
			category.Name = *params.Name
		}
	}
	if params.Color != nil {
		if !domain.ValidColor(*params.Color) {
			issues = append(issues, domain.FieldError{Path: "color", Message: "color must be a hex code like #3b82f6"})
		} else {
			category.Color = *params.Color
		}
	}
	if len(issues) > 0 {
		return nil, issues
	}

	if params.Icon.Set {
		category.Icon = params.Icon.Ptr()
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category owned by the caller. The cascade and the delete
// run in one transaction: first every referencing todo (wherever it lives,
// the sweep is by category_id only) has its reference cleared, then the
// category row is deleted. When the owner+tenant scope matches nothing the
// transaction rolls back, undoing the cascade, and NotFound is returned.
func (s *CategoryService) Delete(ctx context.Context, identity domain.Identity, id uuid.UUID) error {
	rule := auth.RuleFor(auth.ResourceCategory, auth.OpDelete)
	if !rule.Allows(identity.Role) {
		return domain.ErrForbidden
	}

	return repository.Tx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.todos.ClearCategoryTx(ctx, tx, id); err != nil {
			return err
		}
		return s.categories.DeleteByOwnerTx(ctx, tx, identity.TenantID, identity.UserID, id)
	})
}
