package ports

import (
	"context"

	"tenant-provisioning-service/internal/core/domain"
)

// SizingResult is the raw figure set returned by the external sizing API.
// Values are unrounded; the plan builder owns the rounding policy.
type SizingResult struct {
	CPU            float64
	MemoryGB       float64
	GPU            float64
	StorageTB      float64
	CostByProvider map[domain.CloudProvider]float64
}

// SizingClient delegates channel-count sizing to the external sizing service.
// A failure must surface as an error, never as a default-zero result.
type SizingClient interface {
	ComputeResources(ctx context.Context, requirement domain.ServiceRequirement) (*SizingResult, error)
}
