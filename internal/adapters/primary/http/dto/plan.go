package dto

import (
	"tenant-provisioning-service/internal/core/domain"
)

// ============================================================================
// Plan / Compatibility / Catalog DTOs
// ============================================================================

type PlanResponse struct {
	Plan domain.ResourcePlan `json:"plan"`
}

type CompatibilityResponse struct {
	InfrastructureID string               `json:"infrastructure_id"`
	Verdict          domain.Compatibility `json:"verdict"`
}

type InfrastructureResponse struct {
	Items []domain.InfrastructureCandidate `json:"items"`
	Total int                              `json:"total"`
}

type GPUCatalogResponse struct {
	Items []domain.GPUModel `json:"items"`
	Total int               `json:"total"`
}
