package dto

import (
	"time"

	"github.com/google/uuid"

	"tenant-provisioning-service/internal/core/domain"
)

// ============================================================================
// Tenant DTOs
// ============================================================================

type CreateTenantRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Environment string `json:"environment" binding:"required"`
	Provider    string `json:"provider" binding:"required"`
	Region      string `json:"region" binding:"required"`
}

type SetSizingModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

type SetChannelsRequest struct {
	Service  string `json:"service" binding:"required"`
	Channels *int   `json:"channels" binding:"required"`
}

type AddCustomServerRequest struct {
	Name      string   `json:"name" binding:"required,max=100"`
	Class     string   `json:"class" binding:"required"`
	CPUCores  int      `json:"cpu_cores"`
	MemoryGB  int      `json:"memory_gb"`
	GPUUnits  int      `json:"gpu_units"`
	StorageGB int      `json:"storage_gb"`
	Replicas  int      `json:"replicas"`
	Services  []string `json:"services"`
}

func (r AddCustomServerRequest) ToSpec() domain.CustomServerSpec {
	services := make([]domain.ServiceType, 0, len(r.Services))
	for _, service := range r.Services {
		services = append(services, domain.ServiceType(service))
	}
	return domain.CustomServerSpec{
		Name:      r.Name,
		Class:     domain.ServerClass(r.Class),
		CPUCores:  r.CPUCores,
		MemoryGB:  r.MemoryGB,
		GPUUnits:  r.GPUUnits,
		StorageGB: r.StorageGB,
		Replicas:  r.Replicas,
		Services:  services,
	}
}

type AddGPUSelectionRequest struct {
	ModelID  string `json:"model_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type SetSettingsRequest struct {
	Strategy    string `json:"strategy" binding:"required"`
	AutoScaling bool   `json:"auto_scaling"`
	Monitoring  bool   `json:"monitoring"`
}

type TenantResponse struct {
	ID            uuid.UUID                 `json:"id"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
	Name          string                    `json:"name"`
	Description   string                    `json:"description"`
	Environment   domain.Environment        `json:"environment"`
	Provider      domain.CloudProvider      `json:"provider"`
	Region        string                    `json:"region"`
	SizingMode    domain.SizingMode         `json:"sizing_mode"`
	Requirement   domain.ServiceRequirement `json:"requirement,omitempty"`
	CustomServers []domain.CustomServerSpec `json:"custom_servers,omitempty"`
	GPUSelections []domain.GPUSelection     `json:"gpu_selections,omitempty"`
	Plan          *domain.ResourcePlan      `json:"plan,omitempty"`
	Settings      domain.DeploymentSettings `json:"settings"`
}

func ToTenantResponse(tenant *domain.TenantConfig) TenantResponse {
	return TenantResponse{
		ID:            tenant.ID,
		CreatedAt:     tenant.CreatedAt,
		UpdatedAt:     tenant.UpdatedAt,
		Name:          tenant.Name,
		Description:   tenant.Description,
		Environment:   tenant.Environment,
		Provider:      tenant.Provider,
		Region:        tenant.Region,
		SizingMode:    tenant.SizingMode,
		Requirement:   tenant.Requirement,
		CustomServers: tenant.CustomServers,
		GPUSelections: tenant.GPUSelections,
		Plan:          tenant.Plan,
		Settings:      tenant.Settings,
	}
}

type ListTenantsResponse struct {
	Items      []TenantResponse `json:"items"`
	Total      int              `json:"total"`
	PageSize   int              `json:"page_size"`
	NextOffset int              `json:"next_offset"`
}
