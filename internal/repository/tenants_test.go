package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/chronos-hq/chronos/internal/domain"
)

var tenantRowColumns = []string{"id", "name", "slug", "is_active", "created_at", "updated_at"}

func TestTenantsGetActiveByNameOrSlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE (name = $1 OR slug = $1) AND is_active = TRUE`)).
		WithArgs("Acme Corp").
		WillReturnRows(sqlmock.NewRows(tenantRowColumns).
			AddRow(id, "Acme Corp", "acme", true, now, now))

	repo := NewTenantsRepository(db)
	tenant, err := repo.GetActiveByNameOrSlug(context.Background(), "Acme Corp")
	require.NoError(t, err)
	require.Equal(t, id, tenant.ID)
	require.Equal(t, "acme", tenant.Slug)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantsGetActiveByNameOrSlugMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// An inactive tenant is filtered by the query and indistinguishable
	// from an absent one.
	mock.ExpectQuery(regexp.QuoteMeta(`AND is_active = TRUE`)).
		WillReturnRows(sqlmock.NewRows(tenantRowColumns))

	repo := NewTenantsRepository(db)
	_, err = repo.GetActiveByNameOrSlug(context.Background(), "dormant")
	require.ErrorIs(t, err, domain.ErrTenantNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantsExistsBySlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM tenants WHERE slug = $1)`)).
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewTenantsRepository(db)
	exists, err := repo.ExistsBySlug(context.Background(), "acme")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}
