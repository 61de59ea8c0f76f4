package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tenant-provisioning-service/internal/core/domain"
	output "tenant-provisioning-service/internal/core/ports/output"
)

type tenantRepo struct {
	pool *pgxpool.Pool
}

// NewTenantRepository creates a TenantRepository. The aggregate is stored as
// a jsonb document with the filterable columns lifted out.
func NewTenantRepository(pool *pgxpool.Pool) output.TenantRepository {
	return &tenantRepo{pool: pool}
}

func (r *tenantRepo) Create(ctx context.Context, tenant *domain.TenantConfig) error {
	doc, err := json.Marshal(tenant)
	if err != nil {
		return fmt.Errorf("encode tenant: %w", err)
	}

	query := `
		INSERT INTO tenant_config (id, created_at, updated_at, name, environment, provider, document)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.pool.Exec(ctx, query,
		tenant.ID, tenant.CreatedAt, tenant.UpdatedAt,
		tenant.Name, tenant.Environment, tenant.Provider, doc,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrTenantNameConflict
		}
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TenantConfig, error) {
	query := `SELECT document FROM tenant_config WHERE id = $1`

	var doc []byte
	if err := r.pool.QueryRow(ctx, query, id).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("get tenant by id: %w", err)
	}

	return decodeTenant(doc)
}

func (r *tenantRepo) Update(ctx context.Context, tenant *domain.TenantConfig) error {
	doc, err := json.Marshal(tenant)
	if err != nil {
		return fmt.Errorf("encode tenant: %w", err)
	}

	query := `
		UPDATE tenant_config
		SET updated_at = $1, name = $2, environment = $3, provider = $4, document = $5
		WHERE id = $6
	`

	result, err := r.pool.Exec(ctx, query,
		tenant.UpdatedAt, tenant.Name, tenant.Environment, tenant.Provider, doc, tenant.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrTenantNameConflict
		}
		return fmt.Errorf("update tenant: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

func (r *tenantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM tenant_config WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

func (r *tenantRepo) List(ctx context.Context, filter output.TenantListFilter) ([]*domain.TenantConfig, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	arg := 1

	if filter.Environment != "" {
		where += fmt.Sprintf(" AND environment = $%d", arg)
		args = append(args, filter.Environment)
		arg++
	}
	if filter.Provider != "" {
		where += fmt.Sprintf(" AND provider = $%d", arg)
		args = append(args, filter.Provider)
		arg++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", arg)
		args = append(args, "%"+filter.Search+"%")
		arg++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM tenant_config"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tenants: %w", err)
	}

	query := "SELECT document FROM tenant_config" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", arg, arg+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*domain.TenantConfig
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, 0, fmt.Errorf("scan tenant: %w", err)
		}
		tenant, err := decodeTenant(doc)
		if err != nil {
			return nil, 0, err
		}
		tenants = append(tenants, tenant)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list tenants: %w", err)
	}

	return tenants, total, nil
}

func decodeTenant(doc []byte) (*domain.TenantConfig, error) {
	var tenant domain.TenantConfig
	if err := json.Unmarshal(doc, &tenant); err != nil {
		return nil, fmt.Errorf("decode tenant document: %w", err)
	}
	return &tenant, nil
}
