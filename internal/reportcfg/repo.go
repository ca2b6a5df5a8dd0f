package reportcfg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/strata-erp/strata-reports/internal/shared"
)

// Repository defines persistence operations for report configurations.
type Repository interface {
	GetByName(ctx context.Context, companyID int64, name string) (*ReportConfig, error)
	ListNames(ctx context.Context, companyID int64) ([]string, error)
	CompanyIDs(ctx context.Context) ([]int64, error)
	Upsert(ctx context.Context, companyID int64, name string, cfg ReportConfig) error
}

// PGRepository implements Repository using PostgreSQL. Configurations are
// stored as JSONB documents keyed by company and report name.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// GetByName fetches the configuration for one report screen.
func (r *PGRepository) GetByName(ctx context.Context, companyID int64, name string) (*ReportConfig, error) {
	const q = `
		SELECT config, updated_at
		FROM report_configs
		WHERE company_id = $1 AND name = $2`
	var (
		raw []byte
		cfg ReportConfig
	)
	err := r.pool.QueryRow(ctx, q, companyID, name).Scan(&raw, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("reportcfg: decode %s: %w", name, err)
	}
	return &cfg, nil
}

// ListNames returns the report names configured for a company.
func (r *PGRepository) ListNames(ctx context.Context, companyID int64) ([]string, error) {
	const q = `SELECT name FROM report_configs WHERE company_id = $1 ORDER BY name`
	rows, err := r.pool.Query(ctx, q, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CompanyIDs returns every company with at least one configured report.
func (r *PGRepository) CompanyIDs(ctx context.Context) ([]int64, error) {
	const q = `SELECT DISTINCT company_id FROM report_configs ORDER BY company_id`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Upsert stores a configuration document for a report screen.
func (r *PGRepository) Upsert(ctx context.Context, companyID int64, name string, cfg ReportConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("reportcfg: encode %s: %w", name, err)
	}
	const q = `
		INSERT INTO report_configs (company_id, name, config, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (company_id, name)
		DO UPDATE SET config = EXCLUDED.config, updated_at = now()`
	_, err = r.pool.Exec(ctx, q, companyID, name, raw)
	return err
}

var _ Repository = (*PGRepository)(nil)
