package tenant

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/strata-erp/strata-reports/internal/shared"
)

// Repository defines persistence operations for the tenant module.
type Repository interface {
	ListForUser(ctx context.Context, userID int64) ([]Company, error)
	GetForUser(ctx context.Context, userID, companyID int64) (*Company, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListForUser returns the active companies granted to a user, ordered by name.
func (r *PGRepository) ListForUser(ctx context.Context, userID int64) ([]Company, error) {
	const q = `
		SELECT c.id, c.code, c.name, c.api_base_url, c.api_token, c.is_active, c.created_at
		FROM companies c
		JOIN company_users cu ON cu.company_id = c.id
		WHERE cu.user_id = $1 AND c.is_active
		ORDER BY c.name`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.APIBaseURL, &c.APIToken, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetForUser fetches one company, verifying the user's grant.
func (r *PGRepository) GetForUser(ctx context.Context, userID, companyID int64) (*Company, error) {
	const q = `
		SELECT c.id, c.code, c.name, c.api_base_url, c.api_token, c.is_active, c.created_at
		FROM companies c
		JOIN company_users cu ON cu.company_id = c.id
		WHERE cu.user_id = $1 AND c.id = $2 AND c.is_active`
	var c Company
	err := r.pool.QueryRow(ctx, q, userID, companyID).Scan(
		&c.ID, &c.Code, &c.Name, &c.APIBaseURL, &c.APIToken, &c.IsActive, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

var _ Repository = (*PGRepository)(nil)
