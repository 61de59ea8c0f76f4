package services

import (
	"context"

	"github.com/google/uuid"

	"tenant-provisioning-service/internal/core/domain"
	output "tenant-provisioning-service/internal/core/ports/output"
)

// TenantService exposes the wizard-facing operations on the tenant
// configuration aggregate. Every mutation goes through the aggregate's With*
// operations so the stored document is always a validated value.
type TenantService struct {
	repo output.TenantRepository
}

// NewTenantService creates a TenantService.
func NewTenantService(repo output.TenantRepository) *TenantService {
	return &TenantService{repo: repo}
}

// Create registers a new tenant aggregate.
func (s *TenantService) Create(ctx context.Context, name, description string, env domain.Environment, provider domain.CloudProvider, region string) (*domain.TenantConfig, error) {
	tenant, err := domain.NewTenantConfig(name, description, env, provider, region)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// Get loads a tenant aggregate.
func (s *TenantService) Get(ctx context.Context, id uuid.UUID) (*domain.TenantConfig, error) {
	return s.repo.GetByID(ctx, id)
}

// List pages through tenant aggregates.
func (s *TenantService) List(ctx context.Context, filter output.TenantListFilter) ([]*domain.TenantConfig, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

// Delete removes a tenant aggregate.
func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Apply loads the tenant, applies a transformation built from With*
// operations and persists the result. The update function receives the
// current value and returns the next one.
func (s *TenantService) Apply(ctx context.Context, id uuid.UUID, update func(*domain.TenantConfig) (*domain.TenantConfig, error)) (*domain.TenantConfig, error) {
	tenant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := update(tenant)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// SetSizingMode switches the tenant's authoritative sizing input.
func (s *TenantService) SetSizingMode(ctx context.Context, id uuid.UUID, mode domain.SizingMode) (*domain.TenantConfig, error) {
	return s.Apply(ctx, id, func(t *domain.TenantConfig) (*domain.TenantConfig, error) {
		return t.WithSizingMode(mode)
	})
}

// SetChannels updates the requested channel count for one service.
func (s *TenantService) SetChannels(ctx context.Context, id uuid.UUID, service domain.ServiceType, channels int) (*domain.TenantConfig, error) {
	return s.Apply(ctx, id, func(t *domain.TenantConfig) (*domain.TenantConfig, error) {
		return t.WithChannels(service, channels)
	})
}

// AddCustomServer appends a custom server spec.
func (s *TenantService) AddCustomServer(ctx context.Context, id uuid.UUID, spec domain.CustomServerSpec) (*domain.TenantConfig, error) {
	return s.Apply(ctx, id, func(t *domain.TenantConfig) (*domain.TenantConfig, error) {
		return t.WithCustomServer(spec)
	})
}

// RemoveCustomServer drops a custom server spec by name.
func (s *TenantService) RemoveCustomServer(ctx context.Context, id uuid.UUID, name string) (*domain.TenantConfig, error) {
	return s.Apply(ctx, id, func(t *domain.TenantConfig) (*domain.TenantConfig, error) {
		return t.WithoutCustomServer(name), nil
	})
}

// AddGPUSelection adds or re-quantifies an ad-hoc GPU selection. The model
// is snapshotted from the catalog at selection time.
func (s *TenantService) AddGPUSelection(ctx context.Context, id uuid.UUID, catalog *GPUCatalog, modelID domain.GPUModelID, quantity int) (*domain.TenantConfig, error) {
	model, err := catalog.Lookup(modelID)
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, id, func(t *domain.TenantConfig) (*domain.TenantConfig, error) {
		return t.WithGPUSelection(domain.GPUSelection{Model: model, Quantity: quantity})
	})
}

// RemoveGPUSelection drops the selection of the given model.
func (s *TenantService) RemoveGPUSelection(ctx context.Context, id uuid.UUID, modelID domain.GPUModelID) (*domain.TenantConfig, error) {
	return s.Apply(ctx, id, func(t *domain.TenantConfig) (*domain.TenantConfig, error) {
		return t.WithoutGPUSelection(modelID), nil
	})
}

// SetSettings replaces the deployment settings.
func (s *TenantService) SetSettings(ctx context.Context, id uuid.UUID, settings domain.DeploymentSettings) (*domain.TenantConfig, error) {
	return s.Apply(ctx, id, func(t *domain.TenantConfig) (*domain.TenantConfig, error) {
		return t.WithSettings(settings)
	})
}

// SetPlan attaches a freshly built resource plan to the tenant.
func (s *TenantService) SetPlan(ctx context.Context, id uuid.UUID, plan *domain.ResourcePlan) (*domain.TenantConfig, error) {
	return s.Apply(ctx, id, func(t *domain.TenantConfig) (*domain.TenantConfig, error) {
		return t.WithPlan(plan), nil
	})
}
