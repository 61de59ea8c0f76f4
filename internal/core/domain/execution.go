package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Value Objects
// ============================================================================

// ExecutionStatus is the state of a deployment execution.
type ExecutionStatus string

const (
	ExecStatusPreparing  ExecutionStatus = "preparing"
	ExecStatusBuilding   ExecutionStatus = "building"
	ExecStatusValidating ExecutionStatus = "validating"
	ExecStatusPushing    ExecutionStatus = "pushing"
	ExecStatusDeploying  ExecutionStatus = "deploying"
	ExecStatusCompleted  ExecutionStatus = "completed"
	ExecStatusFailed     ExecutionStatus = "failed"
	ExecStatusCancelled  ExecutionStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are permitted.
func (s ExecutionStatus) IsTerminal() bool {
	return s == ExecStatusCompleted || s == ExecStatusFailed || s == ExecStatusCancelled
}

// LogLevel is the severity of an execution log entry.
type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogWarning LogLevel = "warning"
	LogError   LogLevel = "error"
)

// LogEntry is one line of the append-only, ordered execution log.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Stage     string    `json:"stage"`
	Level     LogLevel  `json:"level"`
	Message   string    `json:"message"`
}

// Stage is one ordered unit of work within an execution. ExpectedDuration is
// a hint for progress interpolation only, never a timeout.
type Stage struct {
	Name             string          `json:"name"`
	Status           ExecutionStatus `json:"status"`
	ExpectedDuration time.Duration   `json:"expected_duration"`
}

// DefaultStages returns the standard deployment pipeline.
func DefaultStages() []Stage {
	return []Stage{
		{Name: "namespace creation", Status: ExecStatusPreparing, ExpectedDuration: 5 * time.Second},
		{Name: "manifest validation", Status: ExecStatusValidating, ExpectedDuration: 5 * time.Second},
		{Name: "manifest apply", Status: ExecStatusPushing, ExpectedDuration: 10 * time.Second},
		{Name: "service rollout", Status: ExecStatusDeploying, ExpectedDuration: 30 * time.Second},
		{Name: "health check", Status: ExecStatusDeploying, ExpectedDuration: 15 * time.Second},
	}
}

// StageOutcome is the result of a just-finished stage. A nil Err means
// success.
type StageOutcome struct {
	Err error
}

// StageSucceeded is the success outcome.
func StageSucceeded() StageOutcome { return StageOutcome{} }

// StageErrored is the failure outcome with the given reason.
func StageErrored(err error) StageOutcome { return StageOutcome{Err: err} }

// ============================================================================
// Entity
// ============================================================================

// DeploymentExecution is a single attempt to realize a tenant configuration
// against a chosen infrastructure. It is mutated only by its own transition
// methods and retained append-only after completion for audit.
type DeploymentExecution struct {
	ID               uuid.UUID       `json:"id"`
	TenantID         uuid.UUID       `json:"tenant_id"`
	TenantName       string          `json:"tenant_name"`
	InfrastructureID string          `json:"infrastructure_id"`
	Provider         CloudProvider   `json:"provider"`
	Region           string          `json:"region"`
	Strategy         DeployStrategy  `json:"strategy"`
	Plan             ResourcePlan    `json:"plan"`
	Stages           []Stage         `json:"stages"`
	StageIndex       int             `json:"stage_index"`
	Status           ExecutionStatus `json:"status"`
	Progress         int             `json:"progress"`
	Logs             []LogEntry      `json:"logs"`
	Artifacts        []string        `json:"artifacts,omitempty"`
	FailureReason    string          `json:"failure_reason,omitempty"`
	StartedAt        time.Time       `json:"started_at"`
	FinishedAt       *time.Time      `json:"finished_at,omitempty"`
}

// NewDeploymentExecution starts an execution in the first stage's status with
// zero progress. The plan is snapshotted so later tenant edits cannot change
// a running or archived execution.
func NewDeploymentExecution(tenant *TenantConfig, candidate *InfrastructureCandidate, stages []Stage) (*DeploymentExecution, error) {
	if tenant.Plan == nil {
		return nil, ErrPlanNotComputed
	}
	if len(stages) == 0 {
		stages = DefaultStages()
	}

	e := &DeploymentExecution{
		ID:               uuid.New(),
		TenantID:         tenant.ID,
		TenantName:       tenant.Name,
		InfrastructureID: candidate.ID,
		Provider:         tenant.Provider,
		Region:           tenant.Region,
		Strategy:         tenant.Settings.Strategy,
		Plan:             *tenant.Plan.clone(),
		Stages:           append([]Stage(nil), stages...),
		StageIndex:       0,
		Status:           stages[0].Status,
		Progress:         0,
		StartedAt:        time.Now(),
	}
	e.appendLog(LogInfo, stages[0].Name, fmt.Sprintf("deployment started for tenant %s on %s/%s", tenant.Name, tenant.Provider, tenant.Region))
	return e, nil
}

// CurrentStage returns the stage in flight, or false once all stages ran.
func (e *DeploymentExecution) CurrentStage() (Stage, bool) {
	if e.StageIndex >= len(e.Stages) {
		return Stage{}, false
	}
	return e.Stages[e.StageIndex], true
}

// Advance applies the outcome of the just-finished stage. Calling it on a
// terminal execution is a programmer error and returns ErrExecutionTerminal
// without mutating anything.
func (e *DeploymentExecution) Advance(outcome StageOutcome) error {
	if e.Status.IsTerminal() {
		return ErrExecutionTerminal
	}

	stage, ok := e.CurrentStage()
	if !ok {
		return ErrExecutionTerminal
	}

	if outcome.Err != nil {
		e.Status = ExecStatusFailed
		e.FailureReason = fmt.Sprintf("stage %q: %v", stage.Name, outcome.Err)
		e.appendLog(LogError, stage.Name, fmt.Sprintf("stage failed: %v", outcome.Err))
		e.finish()
		return nil
	}

	e.StageIndex++
	e.Progress = progressPercent(e.StageIndex, len(e.Stages))

	if e.StageIndex >= len(e.Stages) {
		e.Status = ExecStatusCompleted
		e.Progress = 100
		e.appendLog(LogInfo, stage.Name, e.summary())
		e.finish()
		return nil
	}

	next := e.Stages[e.StageIndex]
	e.Status = next.Status
	e.appendLog(LogInfo, stage.Name, fmt.Sprintf("stage completed, starting %q", next.Name))
	return nil
}

// Cancel transitions a running execution to cancelled with progress frozen.
// In-flight work for the current stage is abandoned best-effort by the engine.
func (e *DeploymentExecution) Cancel() error {
	if e.Status.IsTerminal() {
		return ErrExecutionNotCancelable
	}

	stageName := ""
	if stage, ok := e.CurrentStage(); ok {
		stageName = stage.Name
	}

	e.Status = ExecStatusCancelled
	e.appendLog(LogWarning, stageName, "deployment cancelled by operator")
	e.finish()
	return nil
}

// SetArtifacts records the generated manifest names for the summary log.
func (e *DeploymentExecution) SetArtifacts(names []string) {
	e.Artifacts = append([]string(nil), names...)
}

func (e *DeploymentExecution) appendLog(level LogLevel, stage, message string) {
	e.Logs = append(e.Logs, LogEntry{
		Timestamp: time.Now(),
		Stage:     stage,
		Level:     level,
		Message:   message,
	})
}

func (e *DeploymentExecution) finish() {
	now := time.Now()
	e.FinishedAt = &now
}

// summary is the final info line: tenant identity, cloud target and the cost
// recap surfaced to the operator at deployment time.
func (e *DeploymentExecution) summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "deployment completed: tenant %s (%s) on %s/%s", e.TenantName, e.TenantID, e.Provider, e.Region)
	fmt.Fprintf(&b, ", resources cpu=%d memory=%dGB gpu=%d storage=%dGB", e.Plan.CPUCores, e.Plan.MemoryGB, e.Plan.GPUUnits, e.Plan.StorageGB)
	if recap := costRecap(e.Plan.MonthlyCost); recap != "" {
		fmt.Fprintf(&b, ", monthly cost %s", recap)
	}
	if len(e.Artifacts) > 0 {
		fmt.Fprintf(&b, ", %d artifacts applied", len(e.Artifacts))
	}
	return b.String()
}

func costRecap(costs CostBreakdown) string {
	if len(costs) == 0 {
		return ""
	}
	providers := make([]string, 0, len(costs))
	for provider := range costs {
		providers = append(providers, string(provider))
	}
	sort.Strings(providers)

	parts := make([]string, 0, len(providers))
	for _, provider := range providers {
		parts = append(parts, fmt.Sprintf("%s=%.2f", provider, costs[CloudProvider(provider)]))
	}
	return strings.Join(parts, " ")
}

func progressPercent(completed, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
