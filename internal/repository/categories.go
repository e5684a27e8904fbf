package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/chronos-hq/chronos/internal/domain"
)

// CategoriesRepository handles category persistence.
type CategoriesRepository struct {
	db *sql.DB
}

// NewCategoriesRepository creates a new categories repository.
func NewCategoriesRepository(db *sql.DB) *CategoriesRepository {
	return &CategoriesRepository{db: db}
}

const categoryColumns = "id, user_id, tenant_id, name, color, icon, created_at"

// Create creates a new category.
func (r *CategoriesRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, user_id, tenant_id, name, color, icon, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.UserID,
		category.TenantID,
		category.Name,
		category.Color,
		category.Icon,
		category.CreatedAt,
	)
	return err
}

// ListByOwner retrieves all categories owned by the user within the tenant,
// newest first.
func (r *CategoriesRepository) ListByOwner(ctx context.Context, tenantID, userID uuid.UUID) ([]*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE tenant_id = $1 AND user_id = $2
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var category domain.Category
		err := rows.Scan(
			&category.ID,
			&category.UserID,
			&category.TenantID,
			&category.Name,
			&category.Color,
			&category.Icon,
			&category.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}
	return categories, rows.Err()
}

// GetByOwner retrieves a single category by ID, scoped to its owner and tenant.
func (r *CategoriesRepository) GetByOwner(ctx context.Context, tenantID, userID, id uuid.UUID) (*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE id = $1 AND tenant_id = $2 AND user_id = $3
	`
	var category domain.Category
	err := r.db.QueryRowContext(ctx, query, id, tenantID, userID).Scan(
		&category.ID,
		&category.UserID,
		&category.TenantID,
		&category.Name,
		&category.Color,
		&category.Icon,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Update writes back the mutable fields of a category, scoped to owner and
// tenant.
func (r *CategoriesRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $4, color = $5, icon = $6
		WHERE id = $1 AND tenant_id = $2 AND user_id = $3
	`
	result, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.TenantID,
		category.UserID,
		category.Name,
		category.Color,
		category.Icon,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// DeleteByOwnerTx deletes a category scoped to owner and tenant within a
// transaction. Returns ErrCategoryNotFound when nothing matched so the
// caller can roll back the cascade that preceded it.
func (r *CategoriesRepository) DeleteByOwnerTx(ctx context.Context, q Querier, tenantID, userID, id uuid.UUID) error {
	query := `DELETE FROM categories WHERE id = $1 AND tenant_id = $2 AND user_id = $3`
	result, err := q.ExecContext(ctx, query, id, tenantID, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// ExistsInTenant checks that a category exists within the tenant. Todo
// create/update validate category references through this before linking.
func (r *CategoriesRepository) ExistsInTenant(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1 AND tenant_id = $2)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(&exists)
	return exists, err
}
