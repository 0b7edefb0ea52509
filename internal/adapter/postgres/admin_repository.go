package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"mailtrack/internal/core/domain"
	"mailtrack/internal/core/port"
)

const uniqueViolation = "23505"

// AdminRepository implements port.AdminRepository.
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a new repository instance.
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// CountAdmins returns the number of provisioned admins.
func (r *AdminRepository) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM admins`).Scan(&n)
	return n, err
}

// GetAdminByUsername returns the admin or nil when the username is unknown.
func (r *AdminRepository) GetAdminByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	var a domain.Admin
	err := r.pool.QueryRow(ctx, `SELECT id, username, password_hash, created_at FROM admins WHERE username = $1`, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAdmin inserts an admin. A taken username returns port.ErrAdminExists.
func (r *AdminRepository) CreateAdmin(ctx context.Context, a *domain.Admin) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO admins (username, password_hash) VALUES ($1, $2) RETURNING id, created_at`,
		a.Username, a.PasswordHash,
	).Scan(&a.ID, &a.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return port.ErrAdminExists
	}
	return err
}
