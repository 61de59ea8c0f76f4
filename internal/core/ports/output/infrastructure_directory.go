package ports

import (
	"context"

	"tenant-provisioning-service/internal/core/domain"
)

// InfrastructureDirectory lists candidate clusters a plan may target.
// Read-only; candidates are owned by the platform, not by this service.
type InfrastructureDirectory interface {
	ListCandidates(ctx context.Context) ([]*domain.InfrastructureCandidate, error)
	GetCandidate(ctx context.Context, id string) (*domain.InfrastructureCandidate, error)
}
