package services

import (
	"fmt"

	"tenant-provisioning-service/internal/core/domain"
)

// CompatibilityService decides whether a candidate infrastructure can host a
// resource plan. Pure and total: nil plans or candidates read as zero on
// every kind, nothing panics or throws.
type CompatibilityService struct{}

// NewCompatibilityService creates a CompatibilityService.
func NewCompatibilityService() *CompatibilityService {
	return &CompatibilityService{}
}

// Check compares a plan against a candidate. Shortfalls are reported in the
// fixed kind order (cpu, memory, gpu, storage). A candidate that is not
// active is never compatible, reported via StatusReason rather than a
// capacity shortfall.
func (s *CompatibilityService) Check(plan *domain.ResourcePlan, candidate *domain.InfrastructureCandidate) domain.Compatibility {
	result := domain.Compatibility{Compatible: true, Shortfalls: []domain.ResourceKind{}}

	if candidate == nil || candidate.Status != domain.InfraStatusActive {
		result.Compatible = false
		status := "unknown"
		if candidate != nil {
			status = string(candidate.Status)
		}
		result.StatusReason = fmt.Sprintf("infrastructure is not active (status: %s)", status)
	}

	for _, kind := range domain.ResourceKinds {
		if candidate.Capacity(kind) < plan.Total(kind) {
			result.Compatible = false
			result.Shortfalls = append(result.Shortfalls, kind)
		}
	}

	return result
}
