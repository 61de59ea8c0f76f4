package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tenant-provisioning-service/internal/core/domain"
)

func activeCandidate(cpu, mem, gpu, storage int) *domain.InfrastructureCandidate {
	return &domain.InfrastructureCandidate{
		ID:        "cluster-a",
		Name:      "cluster-a",
		Provider:  domain.ProviderAWS,
		Region:    "us-east-1",
		Status:    domain.InfraStatusActive,
		CPUCores:  cpu,
		MemoryGB:  mem,
		GPUUnits:  gpu,
		StorageGB: storage,
	}
}

func TestCheck_ExactMatchIsCompatible(t *testing.T) {
	svc := NewCompatibilityService()
	plan := &domain.ResourcePlan{CPUCores: 4, MemoryGB: 6, GPUUnits: 0, StorageGB: 1}

	verdict := svc.Check(plan, activeCandidate(4, 6, 0, 1))
	assert.True(t, verdict.Compatible)
	assert.Empty(t, verdict.Shortfalls)
	assert.Empty(t, verdict.StatusReason)
}

func TestCheck_SingleShortfallFlipsVerdict(t *testing.T) {
	svc := NewCompatibilityService()
	plan := &domain.ResourcePlan{CPUCores: 4, MemoryGB: 6, GPUUnits: 0, StorageGB: 1}

	// One core short on an otherwise oversized candidate.
	verdict := svc.Check(plan, activeCandidate(3, 64, 8, 1000))
	assert.False(t, verdict.Compatible)
	assert.Equal(t, []domain.ResourceKind{domain.ResourceCPU}, verdict.Shortfalls)
}

func TestCheck_ShortfallsInFixedOrder(t *testing.T) {
	svc := NewCompatibilityService()
	plan := &domain.ResourcePlan{CPUCores: 16, MemoryGB: 64, GPUUnits: 4, StorageGB: 500}

	verdict := svc.Check(plan, activeCandidate(8, 32, 2, 100))
	assert.False(t, verdict.Compatible)
	assert.Equal(t, []domain.ResourceKind{
		domain.ResourceCPU,
		domain.ResourceMemory,
		domain.ResourceGPU,
		domain.ResourceStorage,
	}, verdict.Shortfalls)
}

func TestCheck_NonActiveCandidate(t *testing.T) {
	svc := NewCompatibilityService()
	plan := &domain.ResourcePlan{CPUCores: 4, MemoryGB: 6}

	candidate := activeCandidate(64, 256, 8, 1000)
	candidate.Status = domain.InfraStatusMaintenance

	verdict := svc.Check(plan, candidate)
	assert.False(t, verdict.Compatible)
	assert.Empty(t, verdict.Shortfalls, "status problems are not capacity shortfalls")
	assert.Contains(t, verdict.StatusReason, "maintenance")
}

func TestCheck_NilCandidate(t *testing.T) {
	svc := NewCompatibilityService()
	plan := &domain.ResourcePlan{CPUCores: 4}

	verdict := svc.Check(plan, nil)
	assert.False(t, verdict.Compatible)
	assert.Contains(t, verdict.StatusReason, "unknown")
	assert.Equal(t, []domain.ResourceKind{domain.ResourceCPU}, verdict.Shortfalls)
}

func TestCheck_NilPlanReadsAsZero(t *testing.T) {
	svc := NewCompatibilityService()

	verdict := svc.Check(nil, activeCandidate(0, 0, 0, 0))
	assert.True(t, verdict.Compatible)
	assert.Empty(t, verdict.Shortfalls)
}
