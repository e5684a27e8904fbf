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

var inviteKeyColumns = []string{"key", "is_used", "used_at", "used_by", "tenant_id", "created_at"}

func TestInviteKeysGetByKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM invite_keys WHERE key = $1`)).
		WithArgs("chronos-beta").
		WillReturnRows(sqlmock.NewRows(inviteKeyColumns).
			AddRow("chronos-beta", false, nil, nil, nil, time.Now()))

	repo := NewInviteKeysRepository(db)
	key, err := repo.GetByKey(context.Background(), "chronos-beta")
	require.NoError(t, err)
	require.Equal(t, "chronos-beta", key.Key)
	require.False(t, key.IsUsed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInviteKeysGetByKeyMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM invite_keys`)).
		WillReturnRows(sqlmock.NewRows(inviteKeyColumns))

	repo := NewInviteKeysRepository(db)
	_, err = repo.GetByKey(context.Background(), "no-such-key")
	require.ErrorIs(t, err, domain.ErrInviteKeyInvalid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInviteKeysConsume(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	usedBy, tenantID := uuid.New(), uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`WHERE key = $1 AND is_used = FALSE`)).
		WithArgs("chronos-beta", usedBy, tenantID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewInviteKeysRepository(db)
	require.NoError(t, repo.ConsumeTx(context.Background(), db, "chronos-beta", usedBy, tenantID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInviteKeysConsumeAlreadyUsed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// The conditional WHERE matched nothing: either the key does not exist
	// or a concurrent provision consumed it first.
	mock.ExpectExec(regexp.QuoteMeta(`WHERE key = $1 AND is_used = FALSE`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewInviteKeysRepository(db)
	err = repo.ConsumeTx(context.Background(), db, "chronos-beta", uuid.New(), uuid.New())
	require.ErrorIs(t, err, domain.ErrInviteKeyInvalid)
	require.NoError(t, mock.ExpectationsWereMet())
}
