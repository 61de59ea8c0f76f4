package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"tenant-provisioning-service/internal/adapters/primary/http/dto"
	"tenant-provisioning-service/internal/core/domain"
	output "tenant-provisioning-service/internal/core/ports/output"
)

func (h *Handler) CreateTenant(c *gin.Context) {
	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tenant, err := h.tenantSvc.Create(c.Request.Context(),
		req.Name, req.Description,
		domain.Environment(req.Environment),
		domain.CloudProvider(req.Provider),
		req.Region,
	)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTenantResponse(tenant))
}

func (h *Handler) GetTenant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
		return
	}

	tenant, err := h.tenantSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

func (h *Handler) ListTenants(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := output.TenantListFilter{
		Environment: c.Query("environment"),
		Provider:    c.Query("provider"),
		Search:      c.Query("search"),
		Limit:       limit,
		Offset:      offset,
	}

	tenants, total, err := h.tenantSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list tenants failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.TenantResponse, 0, len(tenants))
	for _, tenant := range tenants {
		items = append(items, dto.ToTenantResponse(tenant))
	}

	c.JSON(http.StatusOK, dto.ListTenantsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) DeleteTenant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
		return
	}

	if err := h.tenantSvc.Delete(c.Request.Context(), id); err != nil {
		mapDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) SetSizingMode(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
		return
	}

	var req dto.SetSizingModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tenant, err := h.tenantSvc.SetSizingMode(c.Request.Context(), id, domain.SizingMode(req.Mode))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

func (h *Handler) SetChannels(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
		return
	}

	var req dto.SetChannelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tenant, err := h.tenantSvc.SetChannels(c.Request.Context(), id, domain.ServiceType(req.Service), *req.Channels)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

func (h *Handler) AddCustomServer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
		return
	}

	var req dto.AddCustomServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tenant, err := h.tenantSvc.AddCustomServer(c.Request.Context(), id, req.ToSpec())
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

func (h *Handler) RemoveCustomServer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
		return
	}

	tenant, err := h.tenantSvc.RemoveCustomServer(c.Request.Context(), id, c.Param("name"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

func (h *Handler) AddGPUSelection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
		return
	}

	var req dto.AddGPUSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tenant, err := h.tenantSvc.AddGPUSelection(c.Request.Context(), id, h.catalog, domain.GPUModelID(req.ModelID), req.Quantity)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

func (h *Handler) RemoveGPUSelection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
		return
	}

	tenant, err := h.tenantSvc.RemoveGPUSelection(c.Request.Context(), id, domain.GPUModelID(c.Param("model")))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

func (h *Handler) SetSettings(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
		return
	}

	var req dto.SetSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tenant, err := h.tenantSvc.SetSettings(c.Request.Context(), id, domain.DeploymentSettings{
		Strategy:    domain.DeployStrategy(req.Strategy),
		AutoScaling: req.AutoScaling,
		Monitoring:  req.Monitoring,
	})
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}
