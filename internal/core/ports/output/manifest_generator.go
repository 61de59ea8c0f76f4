package ports

import (
	"context"

	"tenant-provisioning-service/internal/core/domain"
)

// ManifestGenerator renders declarative deployment artifacts from a tenant
// configuration and its plan, keyed by file name. The engine only consumes
// the artifact names for its summary log.
type ManifestGenerator interface {
	Generate(ctx context.Context, tenant *domain.TenantConfig, plan *domain.ResourcePlan) (map[string]string, error)
}
