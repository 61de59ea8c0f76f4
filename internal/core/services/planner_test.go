package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tenant-provisioning-service/internal/core/domain"
	output "tenant-provisioning-service/internal/core/ports/output"
	"tenant-provisioning-service/internal/testutil"
)

func autoTenant(t *testing.T, channels map[domain.ServiceType]int) *domain.TenantConfig {
	t.Helper()
	tenant, err := domain.NewTenantConfig("acme-corp", "", domain.EnvProduction, domain.ProviderAWS, "us-east-1")
	assert.NoError(t, err)
	for service, n := range channels {
		tenant, err = tenant.WithChannels(service, n)
		assert.NoError(t, err)
	}
	return tenant
}

func customTenant(t *testing.T, specs ...domain.CustomServerSpec) *domain.TenantConfig {
	t.Helper()
	tenant, err := domain.NewTenantConfig("acme-corp", "", domain.EnvProduction, domain.ProviderAWS, "us-east-1")
	assert.NoError(t, err)
	tenant, err = tenant.WithSizingMode(domain.SizingCustomSpecs)
	assert.NoError(t, err)
	for _, spec := range specs {
		tenant, err = tenant.WithCustomServer(spec)
		assert.NoError(t, err)
	}
	return tenant
}

func TestBuildPlan_AutoCalculated(t *testing.T) {
	sizing := new(testutil.MockSizingClient)
	svc := NewPlanService(sizing)

	tenant := autoTenant(t, map[domain.ServiceType]int{domain.ServiceCallbot: 10})
	sizing.On("ComputeResources", mock.Anything, tenant.Requirement).Return(&output.SizingResult{
		CPU:       3.1,
		MemoryGB:  5.9,
		GPU:       0,
		StorageTB: 0.001,
		CostByProvider: map[domain.CloudProvider]float64{
			domain.ProviderAWS: 210.0,
			domain.ProviderGCP: 195.5,
		},
	}, nil)

	plan, err := svc.BuildPlan(context.Background(), tenant)
	assert.NoError(t, err)
	assert.Equal(t, domain.SizingAutoCalculate, plan.Source)
	assert.Equal(t, 4, plan.CPUCores)
	assert.Equal(t, 6, plan.MemoryGB)
	assert.Equal(t, 0, plan.GPUUnits)
	assert.Equal(t, 1, plan.StorageGB)
	assert.Equal(t, 210.0, plan.MonthlyCost[domain.ProviderAWS])
	assert.Equal(t, 195.5, plan.MonthlyCost[domain.ProviderGCP])
	assert.Equal(t, 0.0, plan.MonthlyCost[domain.ProviderAzure], "absent providers read as zero")
	sizing.AssertExpectations(t)
}

func TestBuildPlan_FractionalCPURoundsUp(t *testing.T) {
	sizing := new(testutil.MockSizingClient)
	svc := NewPlanService(sizing)

	tenant := autoTenant(t, map[domain.ServiceType]int{domain.ServiceChatbot: 50})
	sizing.On("ComputeResources", mock.Anything, mock.Anything).Return(&output.SizingResult{
		CPU: 7.2, MemoryGB: 16, GPU: 0.5, StorageTB: 0.5,
	}, nil)

	plan, err := svc.BuildPlan(context.Background(), tenant)
	assert.NoError(t, err)
	assert.Equal(t, 8, plan.CPUCores)
	assert.Equal(t, 1, plan.GPUUnits)
	assert.Equal(t, 512, plan.StorageGB)
}

func TestBuildPlan_EmptyRequirement(t *testing.T) {
	sizing := new(testutil.MockSizingClient)
	svc := NewPlanService(sizing)

	tenant := autoTenant(t, nil)

	_, err := svc.BuildPlan(context.Background(), tenant)
	assert.ErrorIs(t, err, domain.ErrEmptyServiceRequirement)
	sizing.AssertNotCalled(t, "ComputeResources")
}

func TestBuildPlan_SizingFailure(t *testing.T) {
	sizing := new(testutil.MockSizingClient)
	svc := NewPlanService(sizing)

	tenant := autoTenant(t, map[domain.ServiceType]int{domain.ServiceSTT: 20})
	sizing.On("ComputeResources", mock.Anything, mock.Anything).Return(nil, errors.New("upstream unavailable"))

	plan, err := svc.BuildPlan(context.Background(), tenant)
	assert.Nil(t, plan, "no partial plan on failure")

	var planErr *domain.PlanningError
	assert.ErrorAs(t, err, &planErr)
	assert.Contains(t, planErr.Error(), "upstream unavailable")
}

func TestBuildPlan_NegativeSizingResponse(t *testing.T) {
	sizing := new(testutil.MockSizingClient)
	svc := NewPlanService(sizing)

	tenant := autoTenant(t, map[domain.ServiceType]int{domain.ServiceQA: 5})
	sizing.On("ComputeResources", mock.Anything, mock.Anything).Return(&output.SizingResult{CPU: -1}, nil)

	plan, err := svc.BuildPlan(context.Background(), tenant)
	assert.Nil(t, plan)

	var planErr *domain.PlanningError
	assert.ErrorAs(t, err, &planErr)
}

func TestBuildPlan_LastRequestWins(t *testing.T) {
	client := &blockingSizingClient{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := NewPlanService(client)

	tenant := autoTenant(t, map[domain.ServiceType]int{domain.ServiceCallbot: 10})

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = svc.BuildPlan(context.Background(), tenant)
	}()

	// Wait until the first delegation is in flight, then supersede it.
	<-client.started

	plan, err := svc.BuildPlan(context.Background(), tenant)
	assert.NoError(t, err)
	assert.Equal(t, 4, plan.CPUCores)

	close(client.release)
	wg.Wait()
	assert.ErrorIs(t, firstErr, domain.ErrPlanSuperseded)
}

// blockingSizingClient parks the first call until released so a second call
// can overtake it. Later calls return immediately.
type blockingSizingClient struct {
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (c *blockingSizingClient) ComputeResources(ctx context.Context, requirement domain.ServiceRequirement) (*output.SizingResult, error) {
	first := false
	c.once.Do(func() { first = true })
	if first {
		close(c.started)
		<-c.release
	}
	return &output.SizingResult{CPU: 3.5, MemoryGB: 8, GPU: 0, StorageTB: 0.1}, nil
}

func TestBuildPlan_CustomSpecs(t *testing.T) {
	svc := NewPlanService(nil)

	tenant := customTenant(t,
		domain.CustomServerSpec{Name: "web", Class: domain.ServerClassCPUOnly, CPUCores: 4, MemoryGB: 16, StorageGB: 100, Replicas: 3},
		domain.CustomServerSpec{Name: "inference", Class: domain.ServerClassGPU, CPUCores: 8, MemoryGB: 32, GPUUnits: 2, StorageGB: 200, Replicas: 2},
	)

	plan, err := svc.BuildPlan(context.Background(), tenant)
	assert.NoError(t, err)
	assert.Equal(t, domain.SizingCustomSpecs, plan.Source)

	// Per-server totals are summed flat; replicas are display-only.
	assert.Equal(t, 12, plan.CPUCores)
	assert.Equal(t, 48, plan.MemoryGB)
	assert.Equal(t, 2, plan.GPUUnits)
	assert.Equal(t, 300, plan.StorageGB)
}

func TestBuildPlan_CustomSpecsNoGPU(t *testing.T) {
	svc := NewPlanService(nil)

	tenant := customTenant(t,
		domain.CustomServerSpec{Name: "web", Class: domain.ServerClassCPUOnly, CPUCores: 4, MemoryGB: 8},
		domain.CustomServerSpec{Name: "worker", Class: domain.ServerClassCPUOnly, CPUCores: 2, MemoryGB: 4},
	)

	plan, err := svc.BuildPlan(context.Background(), tenant)
	assert.NoError(t, err)
	assert.Equal(t, 0, plan.GPUUnits, "no GPU class servers and no selections means zero GPUs")
	assert.Empty(t, plan.MonthlyCost)
}

func TestBuildPlan_CustomSpecsWithGPUSelections(t *testing.T) {
	svc := NewPlanService(nil)

	tenant := customTenant(t,
		domain.CustomServerSpec{Name: "web", Class: domain.ServerClassCPUOnly, CPUCores: 4, MemoryGB: 8},
	)
	tenant, err := tenant.WithGPUSelection(domain.GPUSelection{
		Model:    domain.GPUModel{ID: domain.GPUModelT4, HourlyPriceUSD: 0.35},
		Quantity: 2,
	})
	assert.NoError(t, err)
	tenant, err = tenant.WithGPUSelection(domain.GPUSelection{
		Model:    domain.GPUModel{ID: domain.GPUModelA100, HourlyPriceUSD: 3.67},
		Quantity: 1,
	})
	assert.NoError(t, err)

	plan, err := svc.BuildPlan(context.Background(), tenant)
	assert.NoError(t, err)
	assert.Equal(t, 3, plan.GPUUnits)

	wantCost := 0.35*2*domain.HoursPerMonth + 3.67*1*domain.HoursPerMonth
	assert.InDelta(t, wantCost, plan.MonthlyCost[domain.ProviderAWS], 1e-9)
}

func TestBuildPlan_CustomSpecsNoServers(t *testing.T) {
	svc := NewPlanService(nil)

	tenant, err := domain.NewTenantConfig("acme-corp", "", domain.EnvProduction, domain.ProviderAWS, "us-east-1")
	assert.NoError(t, err)
	tenant, err = tenant.WithSizingMode(domain.SizingCustomSpecs)
	assert.NoError(t, err)

	_, err = svc.BuildPlan(context.Background(), tenant)
	assert.ErrorIs(t, err, domain.ErrNoCustomServerSpecs)
}
