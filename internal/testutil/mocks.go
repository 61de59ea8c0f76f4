package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"tenant-provisioning-service/internal/core/domain"
	output "tenant-provisioning-service/internal/core/ports/output"
)

// MockTenantRepo is a mock of TenantRepository.
type MockTenantRepo struct {
	mock.Mock
}

func (m *MockTenantRepo) Create(ctx context.Context, tenant *domain.TenantConfig) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TenantConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantConfig), args.Error(1)
}

func (m *MockTenantRepo) Update(ctx context.Context, tenant *domain.TenantConfig) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTenantRepo) List(ctx context.Context, filter output.TenantListFilter) ([]*domain.TenantConfig, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.TenantConfig), args.Int(1), args.Error(2)
}

// MockExecutionRepo is a mock of ExecutionRepository.
type MockExecutionRepo struct {
	mock.Mock
}

func (m *MockExecutionRepo) Create(ctx context.Context, execution *domain.DeploymentExecution) error {
	args := m.Called(ctx, execution)
	return args.Error(0)
}

func (m *MockExecutionRepo) Update(ctx context.Context, execution *domain.DeploymentExecution) error {
	args := m.Called(ctx, execution)
	return args.Error(0)
}

func (m *MockExecutionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeploymentExecution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeploymentExecution), args.Error(1)
}

func (m *MockExecutionRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.DeploymentExecution, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DeploymentExecution), args.Error(1)
}

// MockSizingClient is a mock of SizingClient.
type MockSizingClient struct {
	mock.Mock
}

func (m *MockSizingClient) ComputeResources(ctx context.Context, requirement domain.ServiceRequirement) (*output.SizingResult, error) {
	args := m.Called(ctx, requirement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*output.SizingResult), args.Error(1)
}

// MockDirectory is a mock of InfrastructureDirectory.
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) ListCandidates(ctx context.Context) ([]*domain.InfrastructureCandidate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InfrastructureCandidate), args.Error(1)
}

func (m *MockDirectory) GetCandidate(ctx context.Context, id string) (*domain.InfrastructureCandidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InfrastructureCandidate), args.Error(1)
}

// MockManifestGenerator is a mock of ManifestGenerator.
type MockManifestGenerator struct {
	mock.Mock
}

func (m *MockManifestGenerator) Generate(ctx context.Context, tenant *domain.TenantConfig, plan *domain.ResourcePlan) (map[string]string, error) {
	args := m.Called(ctx, tenant, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockStageRunner is a mock of StageRunner.
type MockStageRunner struct {
	mock.Mock
}

func (m *MockStageRunner) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockStageRunner) RunStage(ctx context.Context, stage domain.Stage, execution *domain.DeploymentExecution, manifests map[string]string) error {
	args := m.Called(ctx, stage, execution, manifests)
	return args.Error(0)
}
