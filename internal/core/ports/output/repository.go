package ports

import (
	"context"

	"github.com/google/uuid"

	"tenant-provisioning-service/internal/core/domain"
)

// TenantListFilter narrows and pages tenant listings.
type TenantListFilter struct {
	Environment string
	Provider    string
	Search      string
	Limit       int
	Offset      int
}

// TenantRepository persists tenant configuration aggregates.
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.TenantConfig) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TenantConfig, error)
	Update(ctx context.Context, tenant *domain.TenantConfig) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter TenantListFilter) ([]*domain.TenantConfig, int, error)
}

// ExecutionRepository persists deployment executions. Executions are
// append-only history: rows are inserted and updated in place while running,
// never deleted.
type ExecutionRepository interface {
	Create(ctx context.Context, execution *domain.DeploymentExecution) error
	Update(ctx context.Context, execution *domain.DeploymentExecution) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DeploymentExecution, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.DeploymentExecution, error)
}
