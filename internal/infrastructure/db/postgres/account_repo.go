package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AnishBandal/deforestation-monitoring-tool/internal/domain"
)

type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// ---------- helpers ----------

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *AccountRepo) scanAccountRow(row *sql.Row) (accountRow, error) {
	var ar accountRow
	err := row.Scan(
		&ar.ID,
		&ar.Email,
		&ar.PasswordHash,
		&ar.CreatedAt,
	)
	return ar, err
}

func toDomainAccount(ar accountRow) domain.Account {
	return domain.Account{
		ID:           ar.ID,
		Email:        ar.Email,
		PasswordHash: ar.PasswordHash,
		CreatedAt:    ar.CreatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// ---------- account.AccountRepo ----------

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.Account{}, domain.ErrInvalidField("email", "empty")
	}

	const q = `
SELECT id, email, password_hash, created_at
FROM users
WHERE email = $1
LIMIT 1;
`
	ar, err := r.scanAccountRow(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound()
		}
		return domain.Account{}, domain.ErrStoreUnavailable(err)
	}
	return toDomainAccount(ar), nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Account{}, domain.ErrInvalidField("id", "empty")
	}

	const q = `
SELECT id, email, password_hash, created_at
FROM users
WHERE id = $1
LIMIT 1;
`
	ar, err := r.scanAccountRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound()
		}
		return domain.Account{}, domain.ErrStoreUnavailable(err)
	}
	return toDomainAccount(ar), nil
}

// Create inserts a new account. The unique index on email makes concurrent
// inserts of the same address safe; the loser gets ErrEmailTaken.
func (r *AccountRepo) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	a.Email = normalizeEmail(a.Email)
	if a.ID == "" {
		return domain.Account{}, domain.ErrInvalidField("id", "empty")
	}
	if a.Email == "" {
		return domain.Account{}, domain.ErrInvalidField("email", "empty")
	}
	if a.PasswordHash == "" {
		return domain.Account{}, domain.ErrInvalidField("password_hash", "empty")
	}

	const q = `
INSERT INTO users (id, email, password_hash)
VALUES ($1,$2,$3)
RETURNING id, email, password_hash, created_at;
`

	var ar accountRow
	err := r.db.QueryRowContext(ctx, q, a.ID, a.Email, a.PasswordHash).Scan(
		&ar.ID,
		&ar.Email,
		&ar.PasswordHash,
		&ar.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Account{}, domain.ErrEmailTaken()
		}
		return domain.Account{}, domain.ErrStoreUnavailable(err)
	}
	return toDomainAccount(ar), nil
}
