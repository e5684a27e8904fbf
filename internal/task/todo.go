// Package task implements the tenant+owner scoped resource managers for
// todos and categories.
package task

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chronos-hq/chronos/internal/auth"
	"github.com/chronos-hq/chronos/internal/domain"
	"github.com/chronos-hq/chronos/internal/repository"
)

// TodoService manages todos scoped by tenant and owner.
type TodoService struct {
	todos      *repository.TodosRepository
	categories *repository.CategoriesRepository
	membership *auth.MembershipVerifier
}

// NewTodoService creates a new todo service.
func NewTodoService(todos *repository.TodosRepository, categories *repository.CategoriesRepository, membership *auth.MembershipVerifier) *TodoService {
	return &TodoService{
		todos:      todos,
		categories: categories,
		membership: membership,
	}
}

// CreateTodoParams holds a todo creation request.
type CreateTodoParams struct {
	Title       string
	Description *string
	IsCompleted bool
	DueDate     *time.Time
	Priority    domain.Priority
	CategoryID  *uuid.UUID
}

// Create creates a todo owned by the caller. The membership check runs
// against the store regardless of token claims, and a non-null category
// reference must exist in the caller's tenant.
func (s *TodoService) Create(ctx context.Context, identity domain.Identity, params CreateTodoParams) (*domain.Todo, error) {
	member, err := s.membership.Verify(ctx, identity.TenantID, identity.UserID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotTenantMember
	}

	var issues domain.FieldErrors
	if params.Title == "" {
		issues = append(issues, domain.FieldError{Path: "title", Message: "title is required"})
	}
	if !params.Priority.Valid() {
		issues = append(issues, domain.FieldError{Path: "priority", Message: "priority must be low, medium, or high"})
	}
	if params.CategoryID != nil {
		if err := s.checkCategoryRef(ctx, identity.TenantID, *params.CategoryID, &issues); err != nil {
			return nil, err
		}
	}
	if len(issues) > 0 {
		return nil, issues
	}

	now := time.Now()
	todo := &domain.Todo{
		ID:          uuid.New(),
		UserID:      identity.UserID,
		TenantID:    identity.TenantID,
		CategoryID:  params.CategoryID,
		Title:       params.Title,
		Description: params.Description,
		DueDate:     params.DueDate,
		Priority:    params.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	todo.SetCompleted(params.IsCompleted, now)

	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// List returns the caller's todos within the tenant, newest first.
func (s *TodoService) List(ctx context.Context, identity domain.Identity) ([]*domain.Todo, error) {
	return s.todos.ListByOwner(ctx, identity.TenantID, identity.UserID)
}

// Get returns a single todo owned by the caller within the tenant.
func (s *TodoService) Get(ctx context.Context, identity domain.Identity, id uuid.UUID) (*domain.Todo, error) {
	return s.todos.GetByOwner(ctx, identity.TenantID, identity.UserID, id)
}

// UpdateTodoParams is a partial update: only set fields are modified.
// Description, DueDate, and CategoryID are tri-state so an explicit null
// clears the column while absence leaves it untouched.
type UpdateTodoParams struct {
	Title       *string
	Description domain.OptionalString
	IsCompleted *bool
	DueDate     domain.OptionalTime
	Priority    *domain.Priority
	CategoryID  domain.OptionalUUID
}

// Update applies a partial update to a todo owned by the caller. A
// completion transition maintains completed_at; a present category_id clears
// the existing link and, when non-null, must reference a category in the
// caller's tenant.
func (s *TodoService) Update(ctx context.Context, identity domain.Identity, id uuid.UUID, params UpdateTodoParams) (*domain.Todo, error) {
	todo, err := s.todos.GetByOwner(ctx, identity.TenantID, identity.UserID, id)
	if err != nil {
		return nil, err
	}

	var issues domain.FieldErrors
	if params.Title != nil {
		if *params.Title == "" {
			issues = append(issues, domain.FieldError{Path: "title", Message: "title must not be empty"})
		} else {
			todo.Title = *params.Title
		}
	}
	if params.Priority != nil {
		if !params.Priority.Valid() {
			issues = append(issues, domain.FieldError{Path: "priority", Message: "priority must be low, medium, or high"})
		} else {
			todo.Priority = *params.Priority
		}
	}
	if params.CategoryID.Set {
		if params.CategoryID.Valid {
			if err := s.checkCategoryRef(ctx, identity.TenantID, params.CategoryID.Value, &issues); err != nil {
				return nil, err
			}
		}
		todo.CategoryID = params.CategoryID.Ptr()
	}
	if len(issues) > 0 {
		return nil, issues
	}

	if params.Description.Set {
		todo.Description = params.Description.Ptr()
	}
	if params.DueDate.Set {
		todo.DueDate = params.DueDate.Ptr()
	}

	now := time.Now()
	if params.IsCompleted != nil {
		todo.SetCompleted(*params.IsCompleted, now)
	}
	todo.UpdatedAt = now

	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// Delete removes a todo. Per the access policy this is admin-only and
// tenant-scoped rather than owner-scoped: any admin may delete any todo in
// their tenant.
func (s *TodoService) Delete(ctx context.Context, identity domain.Identity, id uuid.UUID) error {
	rule := auth.RuleFor(auth.ResourceTodo, auth.OpDelete)
	if !rule.Allows(identity.Role) {
		return domain.ErrForbidden
	}
	if rule.OwnerScoped {
		if _, err := s.todos.GetByOwner(ctx, identity.TenantID, identity.UserID, id); err != nil {
			return err
		}
	}
	return s.todos.DeleteInTenant(ctx, identity.TenantID, id)
}

func (s *TodoService) checkCategoryRef(ctx context.Context, tenantID, categoryID uuid.UUID, issues *domain.FieldErrors) error {
	exists, err := s.categories.ExistsInTenant(ctx, tenantID, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		*issues = append(*issues, domain.FieldError{Path: "category_id", Message: "category does not exist in this workspace"})
	}
	return nil
}
