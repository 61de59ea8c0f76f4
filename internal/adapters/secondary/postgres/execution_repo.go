package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tenant-provisioning-service/internal/core/domain"
	output "tenant-provisioning-service/internal/core/ports/output"
)

type executionRepo struct {
	pool *pgxpool.Pool
}

// NewExecutionRepository creates an ExecutionRepository. Executions are
// audit history: inserted once, updated in place while running, never
// deleted.
func NewExecutionRepository(pool *pgxpool.Pool) output.ExecutionRepository {
	return &executionRepo{pool: pool}
}

func (r *executionRepo) Create(ctx context.Context, execution *domain.DeploymentExecution) error {
	doc, err := json.Marshal(execution)
	if err != nil {
		return fmt.Errorf("encode execution: %w", err)
	}

	query := `
		INSERT INTO deployment_execution (id, tenant_id, started_at, status, progress, document)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.pool.Exec(ctx, query,
		execution.ID, execution.TenantID, execution.StartedAt,
		execution.Status, execution.Progress, doc,
	)
	if err != nil {
		return fmt.Errorf("create execution: %w", err)
	}
	return nil
}

func (r *executionRepo) Update(ctx context.Context, execution *domain.DeploymentExecution) error {
	doc, err := json.Marshal(execution)
	if err != nil {
		return fmt.Errorf("encode execution: %w", err)
	}

	query := `
		UPDATE deployment_execution
		SET status = $1, progress = $2, document = $3
		WHERE id = $4
	`

	result, err := r.pool.Exec(ctx, query, execution.Status, execution.Progress, doc, execution.ID)
	if err != nil {
		return fmt.Errorf("update execution: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrExecutionNotFound
	}
	return nil
}

func (r *executionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeploymentExecution, error) {
	query := `SELECT document FROM deployment_execution WHERE id = $1`

	var doc []byte
	if err := r.pool.QueryRow(ctx, query, id).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExecutionNotFound
		}
		return nil, fmt.Errorf("get execution by id: %w", err)
	}

	return decodeExecution(doc)
}

func (r *executionRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.DeploymentExecution, error) {
	query := `
		SELECT document FROM deployment_execution
		WHERE tenant_id = $1
		ORDER BY started_at DESC
	`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()

	var executions []*domain.DeploymentExecution
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan execution: %w", err)
		}
		execution, err := decodeExecution(doc)
		if err != nil {
			return nil, err
		}
		executions = append(executions, execution)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}

	return executions, nil
}

func decodeExecution(doc []byte) (*domain.DeploymentExecution, error) {
	var execution domain.DeploymentExecution
	if err := json.Unmarshal(doc, &execution); err != nil {
		return nil, fmt.Errorf("decode execution document: %w", err)
	}
	return &execution, nil
}
