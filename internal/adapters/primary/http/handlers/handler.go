package handlers

import (
	"github.com/gin-gonic/gin"

	output "tenant-provisioning-service/internal/core/ports/output"
	"tenant-provisioning-service/internal/core/services"
)

type Handler struct {
	tenantSvc *services.TenantService
	planSvc   *services.PlanService
	compatSvc *services.CompatibilityService
	deploySvc *services.DeploymentService
	catalog   *services.GPUCatalog
	directory output.InfrastructureDirectory
}

func New(
	tenantSvc *services.TenantService,
	planSvc *services.PlanService,
	compatSvc *services.CompatibilityService,
	deploySvc *services.DeploymentService,
	catalog *services.GPUCatalog,
	directory output.InfrastructureDirectory,
) *Handler {
	return &Handler{
		tenantSvc: tenantSvc,
		planSvc:   planSvc,
		compatSvc: compatSvc,
		deploySvc: deploySvc,
		catalog:   catalog,
		directory: directory,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Tenants (wizard session aggregate)
	r.GET("/tenants", h.ListTenants)
	r.GET("/tenants/:id", h.GetTenant)
	r.POST("/tenants", h.CreateTenant)
	r.DELETE("/tenants/:id", h.DeleteTenant)

	// Wizard mutations
	r.PUT("/tenants/:id/sizing_mode", h.SetSizingMode)
	r.PUT("/tenants/:id/channels", h.SetChannels)
	r.POST("/tenants/:id/servers", h.AddCustomServer)
	r.DELETE("/tenants/:id/servers/:name", h.RemoveCustomServer)
	r.POST("/tenants/:id/gpus", h.AddGPUSelection)
	r.DELETE("/tenants/:id/gpus/:model", h.RemoveGPUSelection)
	r.PUT("/tenants/:id/settings", h.SetSettings)

	// Planning & compatibility
	r.POST("/tenants/:id/plan", h.BuildPlan)
	r.GET("/infrastructures", h.ListInfrastructures)
	r.POST("/tenants/:id/compatibility/:infra_id", h.CheckCompatibility)

	// Deployment executions
	r.POST("/deployments", h.StartDeployment)
	r.GET("/deployments/:id", h.GetDeployment)
	r.GET("/deployments/:id/logs", h.GetDeploymentLogs)
	r.POST("/deployments/:id/cancel", h.CancelDeployment)
	r.GET("/tenants/:id/deployments", h.ListTenantDeployments)

	// GPU catalog
	r.GET("/gpu-catalog", h.ListGPUCatalog)
}
