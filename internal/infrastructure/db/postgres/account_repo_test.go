package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/AnishBandal/deforestation-monitoring-tool/internal/domain"
)

func newMockRepo(t *testing.T) (*AccountRepo, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewAccountRepo(db), mock
}

func accountRows(id, email, hash string, createdAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
		AddRow(id, email, hash, createdAt)
}

func TestAccountRepo_GetByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, email, password_hash, created_at\s+FROM users\s+WHERE email = \$1`).
		WithArgs("a@x.com").
		WillReturnRows(accountRows("acc-1", "a@x.com", "hash", now))

	a, err := repo.GetByEmail(context.Background(), "  A@X.com ")
	require.NoError(t, err)
	require.Equal(t, "acc-1", a.ID)
	require.Equal(t, "a@x.com", a.Email)
	require.Equal(t, "hash", a.PasswordHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, email, password_hash, created_at\s+FROM users\s+WHERE email = \$1`).
		WithArgs("nobody@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@x.com")
	require.True(t, domain.Is(err, "account_not_found"), "got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByEmail_Empty(t *testing.T) {
	repo, _ := newMockRepo(t)

	_, err := repo.GetByEmail(context.Background(), "   ")
	require.True(t, domain.Is(err, "invalid_field"), "got %v", err)
}

func TestAccountRepo_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, email, password_hash, created_at\s+FROM users\s+WHERE id = \$1`).
		WithArgs("acc-1").
		WillReturnRows(accountRows("acc-1", "a@x.com", "hash", now))

	a, err := repo.GetByID(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", a.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users \(id, email, password_hash\)`).
		WithArgs("acc-1", "a@x.com", "hash").
		WillReturnRows(accountRows("acc-1", "a@x.com", "hash", now))

	a, err := repo.Create(context.Background(), domain.Account{
		ID:           "acc-1",
		Email:        "A@X.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.Equal(t, "a@x.com", a.Email)
	require.WithinDuration(t, now, a.CreatedAt, time.Second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_Create_UniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO users \(id, email, password_hash\)`).
		WithArgs("acc-2", "a@x.com", "hash").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), domain.Account{
		ID:           "acc-2",
		Email:        "a@x.com",
		PasswordHash: "hash",
	})
	require.True(t, domain.Is(err, "email_taken"), "got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_Create_StoreError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO users \(id, email, password_hash\)`).
		WithArgs("acc-1", "a@x.com", "hash").
		WillReturnError(sql.ErrConnDone)

	_, err := repo.Create(context.Background(), domain.Account{
		ID:           "acc-1",
		Email:        "a@x.com",
		PasswordHash: "hash",
	})
	require.True(t, domain.Is(err, "store_unavailable"), "got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_Create_RejectsIncompleteRow(t *testing.T) {
	repo, _ := newMockRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.Account{Email: "a@x.com", PasswordHash: "hash"})
	require.True(t, domain.Is(err, "invalid_field"), "got %v", err)

	_, err = repo.Create(ctx, domain.Account{ID: "acc-1", PasswordHash: "hash"})
	require.True(t, domain.Is(err, "invalid_field"), "got %v", err)

	_, err = repo.Create(ctx, domain.Account{ID: "acc-1", Email: "a@x.com"})
	require.True(t, domain.Is(err, "invalid_field"), "got %v", err)
}
