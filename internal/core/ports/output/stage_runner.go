package ports

import (
	"context"

	"tenant-provisioning-service/internal/core/domain"
)

// StageRunner performs the external provisioning work of one stage. The
// engine only sequences stages and records outcomes; the runner owns the
// actual cluster calls. When no runner is available the engine records
// stages as succeeded without side effects.
type StageRunner interface {
	// IsAvailable reports whether the runner can reach its backing cluster.
	IsAvailable() bool

	// RunStage executes one stage. The context carries the per-stage
	// timeout; a context error is reported as a stage failure.
	RunStage(ctx context.Context, stage domain.Stage, execution *domain.DeploymentExecution, manifests map[string]string) error
}
