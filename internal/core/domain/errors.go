package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// Not Found Errors
// ============================================================================

var (
	ErrTenantNotFound         = errors.New("tenant not found")
	ErrExecutionNotFound      = errors.New("deployment execution not found")
	ErrInfrastructureNotFound = errors.New("infrastructure candidate not found")
	ErrGPUModelNotFound       = errors.New("gpu model not found in catalog")
)

// ============================================================================
// Validation Errors
// ============================================================================

var (
	ErrTenantNameRequired      = errors.New("tenant name is required")
	ErrInvalidEnvironment      = errors.New("environment must be development, staging or production")
	ErrInvalidCloudProvider    = errors.New("unknown cloud provider")
	ErrInvalidSizingMode       = errors.New("sizing mode must be auto-calculate or custom-specs")
	ErrInvalidDeployStrategy   = errors.New("deploy strategy must be rolling, blue-green or canary")
	ErrUnknownServiceType      = errors.New("unknown service type")
	ErrNegativeChannels        = errors.New("service channel count cannot be negative")
	ErrNegativeServerResources = errors.New("server cpu, memory, gpu, storage and replicas cannot be negative")
	ErrServerNameRequired      = errors.New("custom server name is required")
	ErrDuplicateServerName     = errors.New("custom server name already used in this tenant")
	ErrGPUOnCPUOnlyServer      = errors.New("cpu-only server class cannot carry gpus")
	ErrNoCustomServerSpecs     = errors.New("custom-specs sizing mode requires at least one server spec")
	ErrEmptyServiceRequirement = errors.New("all service channel counts are zero, nothing to size")
	ErrInvalidGPUQuantity      = errors.New("gpu selection quantity must be at least 1")
	ErrPlanNotComputed         = errors.New("tenant has no computed resource plan")
)

// ============================================================================
// Conflict / State Errors
// ============================================================================

var (
	ErrTenantNameConflict     = errors.New("tenant with this name already exists")
	ErrDeploymentInProgress   = errors.New("a deployment is already running for this tenant")
	ErrExecutionTerminal      = errors.New("deployment execution is in a terminal state")
	ErrExecutionNotCancelable = errors.New("deployment execution is not running")
)

// ErrPlanSuperseded marks a sizing result discarded because a newer planning
// attempt started while this one was in flight.
var ErrPlanSuperseded = errors.New("planning attempt superseded by a newer request")

// PlanningError reports a failed or malformed sizing delegation. The plan is
// left unset when this is returned; callers must not proceed with a stale one.
type PlanningError struct {
	Op  string
	Err error
}

func (e *PlanningError) Error() string {
	return fmt.Sprintf("planning failed during %s: %v", e.Op, e.Err)
}

func (e *PlanningError) Unwrap() error { return e.Err }

// IncompatibleInfrastructureError rejects an execution start against a
// candidate that fails the compatibility check. It carries the itemized
// shortfalls so the operator sees the proximate cause, never a bare failure.
type IncompatibleInfrastructureError struct {
	CandidateID  string
	Shortfalls   []ResourceKind
	StatusReason string
}

func (e *IncompatibleInfrastructureError) Error() string {
	if e.StatusReason != "" {
		return fmt.Sprintf("infrastructure %s is not deployable: %s", e.CandidateID, e.StatusReason)
	}
	kinds := make([]string, 0, len(e.Shortfalls))
	for _, k := range e.Shortfalls {
		kinds = append(kinds, string(k))
	}
	return fmt.Sprintf("infrastructure %s has insufficient capacity: %s", e.CandidateID, strings.Join(kinds, ", "))
}
