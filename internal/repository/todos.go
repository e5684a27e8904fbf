package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/chronos-hq/chronos/internal/domain"
)

// TodosRepository handles todo persistence.
type TodosRepository struct {
	db *sql.DB
}

// NewTodosRepository creates a new todos repository.
func NewTodosRepository(db *sql.DB) *TodosRepository {
	return &TodosRepository{db: db}
}

const todoColumns = "id, user_id, tenant_id, category_id, title, description, is_completed, due_date, completed_at, priority, created_at, updated_at"

// Create creates a new todo.
func (r *TodosRepository) Create(ctx context.Context, todo *domain.Todo) error {
	query := `
		INSERT INTO todos (id, user_id, tenant_id, category_id, title, description, is_completed, due_date, completed_at, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		todo.ID,
		todo.UserID,
		todo.TenantID,
		todo.CategoryID,
		todo.Title,
		todo.Description,
		todo.IsCompleted,
		todo.DueDate,
		todo.CompletedAt,
		todo.Priority,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	return err
}

// ListByOwner retrieves all todos owned by the user within the tenant,
// newest first. Listing is owner-scoped, not tenant-wide.
func (r *TodosRepository) ListByOwner(ctx context.Context, tenantID, userID uuid.UUID) ([]*domain.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE tenant_id = $1 AND user_id = $2
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []*domain.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

// GetByOwner retrieves a single todo by ID, scoped to its owner and tenant.
func (r *TodosRepository) GetByOwner(ctx context.Context, tenantID, userID, id uuid.UUID) (*domain.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE id = $1 AND tenant_id = $2 AND user_id = $3
	`
	row := r.db.QueryRowContext(ctx, query, id, tenantID, userID)
	todo, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

// Update writes back the mutable fields of a todo, scoped to owner and
// tenant. The service merges partial payloads before calling this.
func (r *TodosRepository) Update(ctx context.Context, todo *domain.Todo) error {
	query := `
		UPDATE todos
		SET category_id = $4, title = $5, description = $6, is_completed = $7,
		    due_date = $8, completed_at = $9, priority = $10, updated_at = $11
		WHERE id = $1 AND tenant_id = $2 AND user_id = $3
	`
	result, err := r.db.ExecContext(ctx, query,
		todo.ID,
		todo.TenantID,
		todo.UserID,
		todo.CategoryID,
		todo.Title,
		todo.Description,
		todo.IsCompleted,
		todo.DueDate,
		todo.CompletedAt,
		todo.Priority,
		todo.UpdatedAt,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

// DeleteInTenant deletes a todo scoped to the tenant only. Deletion is
// admin-gated and any admin may delete any todo in their tenant, so there is
// no owner filter here.
func (r *TodosRepository) DeleteInTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM todos WHERE id = $1 AND tenant_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

// ClearCategoryTx nulls out every reference to the category. The sweep is by
// category_id only, not tenant-scoped: no referencing todo may be left
// dangling, wherever it lives.
func (r *TodosRepository) ClearCategoryTx(ctx context.Context, q Querier, categoryID uuid.UUID) error {
	query := `UPDATE todos SET category_id = NULL, updated_at = NOW() WHERE category_id = $1`
	_, err := q.ExecContext(ctx, query, categoryID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*domain.Todo, error) {
	var todo domain.Todo
	err := row.Scan(
		&todo.ID,
		&todo.UserID,
		&todo.TenantID,
		&todo.CategoryID,
		&todo.Title,
		&todo.Description,
		&todo.IsCompleted,
		&todo.DueDate,
		&todo.CompletedAt,
		&todo.Priority,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &todo, nil
}
