package services

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/samber/lo"

	"tenant-provisioning-service/internal/core/domain"
	output "tenant-provisioning-service/internal/core/ports/output"
)

// PlanService derives the normalized resource plan from a tenant
// configuration. Auto-calculate mode delegates the numeric sizing to the
// external sizing service; custom-specs mode aggregates the explicit server
// specs locally. Either way the output shape is the same ResourcePlan.
type PlanService struct {
	sizing output.SizingClient

	// Guards the in-flight sizing delegation: rapid re-invocations race on
	// the upstream call, and a stale response must never become the plan.
	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// NewPlanService creates a PlanService.
func NewPlanService(sizing output.SizingClient) *PlanService {
	return &PlanService{sizing: sizing}
}

// BuildPlan computes the resource plan for the tenant's active sizing mode.
// It is a pure function of the tenant and the (pinned) sizing response:
// unchanged inputs yield an identical plan. On any failure no partial plan is
// returned.
func (s *PlanService) BuildPlan(ctx context.Context, tenant *domain.TenantConfig) (*domain.ResourcePlan, error) {
	if err := tenant.ValidateForPlanning(); err != nil {
		return nil, err
	}

	switch tenant.SizingMode {
	case domain.SizingAutoCalculate:
		return s.buildAutoCalculated(ctx, tenant)
	case domain.SizingCustomSpecs:
		return buildFromCustomSpecs(tenant), nil
	}
	return nil, domain.ErrInvalidSizingMode
}

// buildAutoCalculated delegates to the sizing service with last-request-wins
// semantics: starting a new delegation cancels the previous in-flight call,
// and a response that raced with a newer request is discarded.
func (s *PlanService) buildAutoCalculated(ctx context.Context, tenant *domain.TenantConfig) (*domain.ResourcePlan, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	if s.cancel != nil {
		s.cancel()
	}
	callCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	result, err := s.sizing.ComputeResources(callCtx, tenant.Requirement)

	s.mu.Lock()
	superseded := gen != s.generation
	if !superseded {
		s.cancel = nil
	}
	s.mu.Unlock()
	cancel()

	if superseded {
		return nil, domain.ErrPlanSuperseded
	}
	if err != nil {
		return nil, &domain.PlanningError{Op: "sizing delegation", Err: err}
	}
	if result.CPU < 0 || result.MemoryGB < 0 || result.GPU < 0 || result.StorageTB < 0 {
		return nil, &domain.PlanningError{Op: "sizing response validation", Err: fmt.Errorf("negative resource figure in sizing response")}
	}

	// CPU, memory and GPU round up: under-provisioning is the failure mode
	// to avoid. Storage rounds to nearest after the TB->GB conversion,
	// since storage headroom is cheap.
	plan := &domain.ResourcePlan{
		Source:      domain.SizingAutoCalculate,
		CPUCores:    int(math.Ceil(result.CPU)),
		MemoryGB:    int(math.Ceil(result.MemoryGB)),
		GPUUnits:    int(math.Ceil(result.GPU)),
		StorageGB:   int(math.Round(result.StorageTB * 1024)),
		MonthlyCost: domain.CostBreakdown{},
	}
	for _, provider := range domain.CloudProviders {
		plan.MonthlyCost[provider] = result.CostByProvider[provider]
	}
	return plan, nil
}

// buildFromCustomSpecs flat-sums the per-server totals across all specs and
// merges any ad-hoc GPU selections on top. Replicas is intentionally not a
// multiplier here; the stored fields already represent per-server totals.
func buildFromCustomSpecs(tenant *domain.TenantConfig) *domain.ResourcePlan {
	plan := &domain.ResourcePlan{
		Source:      domain.SizingCustomSpecs,
		CPUCores:    lo.SumBy(tenant.CustomServers, func(s domain.CustomServerSpec) int { return s.CPUCores }),
		MemoryGB:    lo.SumBy(tenant.CustomServers, func(s domain.CustomServerSpec) int { return s.MemoryGB }),
		GPUUnits:    lo.SumBy(tenant.CustomServers, func(s domain.CustomServerSpec) int { return s.GPUUnits }),
		StorageGB:   lo.SumBy(tenant.CustomServers, func(s domain.CustomServerSpec) int { return s.StorageGB }),
		MonthlyCost: domain.CostBreakdown{},
	}

	for _, selection := range tenant.GPUSelections {
		plan.GPUUnits += selection.Quantity
		plan.MonthlyCost[tenant.Provider] += selection.MonthlyCost()
	}
	return plan
}
