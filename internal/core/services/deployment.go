package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"tenant-provisioning-service/internal/core/domain"
	output "tenant-provisioning-service/internal/core/ports/output"
)

// ExecutionEvent is emitted on every state-machine transition. Consumers
// (the UI adapter) subscribe instead of polling the engine.
type ExecutionEvent struct {
	ExecutionID uuid.UUID              `json:"execution_id"`
	Status      domain.ExecutionStatus `json:"status"`
	Stage       string                 `json:"stage"`
	Progress    int                    `json:"progress"`
	Log         domain.LogEntry        `json:"log"`
}

// DeploymentService drives deployment executions through their staged state
// machine. It sequences stages, records outcomes and emits events; the actual
// provisioning work belongs to the StageRunner.
type DeploymentService struct {
	tenants    output.TenantRepository
	executions output.ExecutionRepository
	directory  output.InfrastructureDirectory
	manifests  output.ManifestGenerator
	runner     output.StageRunner
	compat     *CompatibilityService

	stages       []domain.Stage
	stageTimeout time.Duration

	mu       sync.Mutex
	byTenant map[uuid.UUID]*runningExecution
	byID     map[uuid.UUID]*runningExecution
}

type runningExecution struct {
	mu     sync.Mutex
	exec   *domain.DeploymentExecution
	cancel context.CancelFunc
	events chan ExecutionEvent
	done   chan struct{}
}

func (r *runningExecution) snapshot() *domain.DeploymentExecution {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *r.exec
	copied.Logs = append([]domain.LogEntry(nil), r.exec.Logs...)
	copied.Stages = append([]domain.Stage(nil), r.exec.Stages...)
	copied.Artifacts = append([]string(nil), r.exec.Artifacts...)
	return &copied
}

// NewDeploymentService creates a DeploymentService. A nil or unavailable
// runner puts the engine in record-only mode: stages succeed without cluster
// side effects, which is how development installs run.
func NewDeploymentService(
	tenants output.TenantRepository,
	executions output.ExecutionRepository,
	directory output.InfrastructureDirectory,
	manifests output.ManifestGenerator,
	runner output.StageRunner,
	compat *CompatibilityService,
	stages []domain.Stage,
	stageTimeout time.Duration,
) *DeploymentService {
	if len(stages) == 0 {
		stages = domain.DefaultStages()
	}
	if stageTimeout <= 0 {
		stageTimeout = 2 * time.Minute
	}
	return &DeploymentService{
		tenants:      tenants,
		executions:   executions,
		directory:    directory,
		manifests:    manifests,
		runner:       runner,
		compat:       compat,
		stages:       stages,
		stageTimeout: stageTimeout,
		byTenant:     make(map[uuid.UUID]*runningExecution),
		byID:         make(map[uuid.UUID]*runningExecution),
	}
}

// Start validates and launches a deployment execution for the tenant against
// the chosen infrastructure. Validation and compatibility failures return
// before any state is created; a second start while one runs is rejected with
// ErrDeploymentInProgress, never queued.
func (s *DeploymentService) Start(ctx context.Context, tenantID uuid.UUID, infrastructureID string) (*domain.DeploymentExecution, error) {
	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.Plan == nil {
		return nil, domain.ErrPlanNotComputed
	}

	candidate, err := s.directory.GetCandidate(ctx, infrastructureID)
	if err != nil {
		return nil, err
	}

	// Checked here defensively, not only in the UI.
	verdict := s.compat.Check(tenant.Plan, candidate)
	if !verdict.Compatible {
		return nil, &domain.IncompatibleInfrastructureError{
			CandidateID:  candidate.ID,
			Shortfalls:   verdict.Shortfalls,
			StatusReason: verdict.StatusReason,
		}
	}

	manifests, err := s.manifests.Generate(ctx, tenant, tenant.Plan)
	if err != nil {
		return nil, fmt.Errorf("generate manifests: %w", err)
	}

	s.mu.Lock()
	if _, busy := s.byTenant[tenantID]; busy {
		s.mu.Unlock()
		return nil, domain.ErrDeploymentInProgress
	}

	exec, err := domain.NewDeploymentExecution(tenant, candidate, s.stages)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	exec.SetArtifacts(sortedKeys(manifests))

	runCtx, cancel := context.WithCancel(context.Background())
	r := &runningExecution{
		exec:   exec,
		cancel: cancel,
		events: make(chan ExecutionEvent, 16),
		done:   make(chan struct{}),
	}
	s.byTenant[tenantID] = r
	s.byID[exec.ID] = r
	s.mu.Unlock()

	if err := s.executions.Create(ctx, exec); err != nil {
		s.release(r)
		cancel()
		return nil, fmt.Errorf("create execution: %w", err)
	}

	go s.run(runCtx, r, manifests)

	return r.snapshot(), nil
}

// run is the engine loop: execute the current stage, feed its outcome into
// the state machine, persist and emit, until a terminal state is reached.
func (s *DeploymentService) run(ctx context.Context, r *runningExecution, manifests map[string]string) {
	defer close(r.done)
	defer close(r.events)
	defer s.release(r)

	for {
		r.mu.Lock()
		if r.exec.Status.IsTerminal() {
			r.mu.Unlock()
			break
		}
		stage, ok := r.exec.CurrentStage()
		r.mu.Unlock()
		if !ok {
			break
		}

		outcome := s.runStage(ctx, stage, r, manifests)

		r.mu.Lock()
		if r.exec.Status.IsTerminal() {
			// Cancelled while the stage was in flight; the stage result
			// is abandoned best-effort.
			r.mu.Unlock()
			break
		}
		if err := r.exec.Advance(outcome); err != nil {
			r.mu.Unlock()
			break
		}
		event := transitionEvent(r.exec)
		r.mu.Unlock()

		s.persist(r)
		s.emit(r, event)
	}

	// A cancelled transition happens outside the loop body; surface it to
	// subscribers before the stream closes.
	r.mu.Lock()
	cancelled := r.exec.Status == domain.ExecStatusCancelled
	final := transitionEvent(r.exec)
	r.mu.Unlock()
	if cancelled {
		s.emit(r, final)
	}

	s.persist(r)
}

func (s *DeploymentService) runStage(ctx context.Context, stage domain.Stage, r *runningExecution, manifests map[string]string) domain.StageOutcome {
	if s.runner == nil || !s.runner.IsAvailable() {
		return domain.StageSucceeded()
	}

	stageCtx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	err := s.runner.RunStage(stageCtx, stage, r.snapshot(), manifests)
	if err != nil {
		// Timeouts feed the normal failure transition, they are not a
		// separate state.
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.StageErrored(errors.New("timeout"))
		}
		return domain.StageErrored(err)
	}
	return domain.StageSucceeded()
}

// Cancel cooperatively stops a running execution: state flips to cancelled
// immediately and no further stages are issued, without waiting for the
// in-flight external call.
func (s *DeploymentService) Cancel(ctx context.Context, executionID uuid.UUID) (*domain.DeploymentExecution, error) {
	s.mu.Lock()
	r := s.byID[executionID]
	s.mu.Unlock()

	if r != nil {
		r.mu.Lock()
		err := r.exec.Cancel()
		r.mu.Unlock()
		if err != nil {
			return nil, err
		}
		// The run loop observes the terminal state, emits the final
		// event and persists on its way out.
		r.cancel()
		return r.snapshot(), nil
	}

	// Not running in this process; only archived executions remain and
	// those are terminal by definition.
	exec, err := s.executions.GetByID(ctx, executionID)
	if err != nil {
		return nil, err
	}
	if err := exec.Cancel(); err != nil {
		return nil, err
	}
	if err := s.executions.Update(ctx, exec); err != nil {
		return nil, fmt.Errorf("update execution: %w", err)
	}
	return exec, nil
}

// Get returns a point-in-time view of an execution, live or archived.
func (s *DeploymentService) Get(ctx context.Context, executionID uuid.UUID) (*domain.DeploymentExecution, error) {
	s.mu.Lock()
	r := s.byID[executionID]
	s.mu.Unlock()

	if r != nil {
		return r.snapshot(), nil
	}
	return s.executions.GetByID(ctx, executionID)
}

// ListByTenant returns the execution history of a tenant, newest first.
func (s *DeploymentService) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.DeploymentExecution, error) {
	return s.executions.ListByTenant(ctx, tenantID)
}

// Watch returns the transition event stream of a running execution. The
// channel closes when the execution reaches a terminal state. False when the
// execution is not running in this process.
func (s *DeploymentService) Watch(executionID uuid.UUID) (<-chan ExecutionEvent, bool) {
	s.mu.Lock()
	r := s.byID[executionID]
	s.mu.Unlock()

	if r == nil {
		return nil, false
	}
	return r.events, true
}

func (s *DeploymentService) release(r *runningExecution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byTenant, r.exec.TenantID)
	delete(s.byID, r.exec.ID)
}

func (s *DeploymentService) persist(r *runningExecution) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.executions.Update(ctx, r.snapshot()); err != nil {
		log.WithError(err).WithField("execution_id", r.exec.ID).Error("persist execution state failed")
	}
}

func (s *DeploymentService) emit(r *runningExecution, event ExecutionEvent) {
	select {
	case r.events <- event:
	default:
		// Slow subscriber; transitions are persisted regardless.
	}
}

func transitionEvent(exec *domain.DeploymentExecution) ExecutionEvent {
	event := ExecutionEvent{
		ExecutionID: exec.ID,
		Status:      exec.Status,
		Progress:    exec.Progress,
	}
	if stage, ok := exec.CurrentStage(); ok {
		event.Stage = stage.Name
	}
	if len(exec.Logs) > 0 {
		event.Log = exec.Logs[len(exec.Logs)-1]
	}
	return event
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
