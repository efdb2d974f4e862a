package customers

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres. Email uniqueness is enforced by the
// customers_email_key index, so concurrent registrations cannot both succeed.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new customer.
func (r *PGRepo) Create(ctx context.Context, customer Customer) error {
	const query = `
INSERT INTO customers (id, name, email, api_key, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.APIKey,
		customer.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "customers_email_key") {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// GetByAPIKey returns the customer owning the given API key.
func (r *PGRepo) GetByAPIKey(ctx context.Context, apiKey string) (Customer, error) {
	const query = `
SELECT id, name, email, api_key, created_at
FROM customers
WHERE api_key = $1
LIMIT 1`
	var customer Customer
	err := r.DB.QueryRowContext(ctx, query, apiKey).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.APIKey,
		&customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Customer{}, ErrNotFound
		}
		return Customer{}, err
	}
	return customer, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || strings.Contains(pgErr.ConstraintName, constraint)
}

var _ Repo = (*PGRepo)(nil)
