package dto

import (
	"time"

	"github.com/google/uuid"

	"tenant-provisioning-service/internal/core/domain"
)

// ============================================================================
// Deployment DTOs
// ============================================================================

type StartDeploymentRequest struct {
	TenantID         uuid.UUID `json:"tenant_id" binding:"required"`
	InfrastructureID string    `json:"infrastructure_id" binding:"required"`
}

type ExecutionResponse struct {
	ID               uuid.UUID              `json:"id"`
	TenantID         uuid.UUID              `json:"tenant_id"`
	TenantName       string                 `json:"tenant_name"`
	InfrastructureID string                 `json:"infrastructure_id"`
	Provider         domain.CloudProvider   `json:"provider"`
	Region           string                 `json:"region"`
	Strategy         domain.DeployStrategy  `json:"strategy"`
	Status           domain.ExecutionStatus `json:"status"`
	Stage            string                 `json:"stage,omitempty"`
	StageIndex       int                    `json:"stage_index"`
	TotalStages      int                    `json:"total_stages"`
	Progress         int                    `json:"progress"`
	Plan             domain.ResourcePlan    `json:"plan"`
	Artifacts        []string               `json:"artifacts,omitempty"`
	FailureReason    string                 `json:"failure_reason,omitempty"`
	StartedAt        time.Time              `json:"started_at"`
	FinishedAt       *time.Time             `json:"finished_at,omitempty"`
}

func ToExecutionResponse(execution *domain.DeploymentExecution) ExecutionResponse {
	resp := ExecutionResponse{
		ID:               execution.ID,
		TenantID:         execution.TenantID,
		TenantName:       execution.TenantName,
		InfrastructureID: execution.InfrastructureID,
		Provider:         execution.Provider,
		Region:           execution.Region,
		Strategy:         execution.Strategy,
		Status:           execution.Status,
		StageIndex:       execution.StageIndex,
		TotalStages:      len(execution.Stages),
		Progress:         execution.Progress,
		Plan:             execution.Plan,
		Artifacts:        execution.Artifacts,
		FailureReason:    execution.FailureReason,
		StartedAt:        execution.StartedAt,
		FinishedAt:       execution.FinishedAt,
	}
	if stage, ok := execution.CurrentStage(); ok {
		resp.Stage = stage.Name
	}
	return resp
}

type ExecutionLogsResponse struct {
	ExecutionID uuid.UUID         `json:"execution_id"`
	Logs        []domain.LogEntry `json:"logs"`
}

type ListExecutionsResponse struct {
	Items []ExecutionResponse `json:"items"`
	Total int                 `json:"total"`
}
