package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/chronos-hq/chronos/internal/domain"
)

// InviteKeysRepository handles invite key persistence.
type InviteKeysRepository struct {
	db *sql.DB
}

// NewInviteKeysRepository creates a new invite keys repository.
func NewInviteKeysRepository(db *sql.DB) *InviteKeysRepository {
	return &InviteKeysRepository{db: db}
}

// GetByKey retrieves an invite key.
func (r *InviteKeysRepository) GetByKey(ctx context.Context, key string) (*domain.InviteKey, error) {
	query := `
		SELECT key, is_used, used_at, used_by, tenant_id, created_at
		FROM invite_keys
		WHERE key = $1
	`
	var ik domain.InviteKey
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&ik.Key,
		&ik.IsUsed,
		&ik.UsedAt,
		&ik.UsedBy,
		&ik.TenantID,
		&ik.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInviteKeyInvalid
		}
		return nil, err
	}
	return &ik, nil
}

// ConsumeTx marks an unused invite key as used, recording the consumer and
// the tenant it provisioned. The WHERE clause enforces at-most-once: when two
// provisions race on the same key they serialize at the row lock and exactly
// one sees is_used = FALSE. Returns ErrInviteKeyInvalid when the key is
// missing or already used.
func (r *InviteKeysRepository) ConsumeTx(ctx context.Context, q Querier, key string, usedBy, tenantID uuid.UUID) error {
	query := `
		UPDATE invite_keys
		SET is_used = TRUE, used_at = NOW(), used_by = $2, tenant_id = $3
		WHERE key = $1 AND is_used = FALSE
	`
	result, err := q.ExecContext(ctx, query, key, usedBy, tenantID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrInviteKeyInvalid
	}
	return nil
}
