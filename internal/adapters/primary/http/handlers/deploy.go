package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"tenant-provisioning-service/internal/adapters/primary/http/dto"
)

func (h *Handler) StartDeployment(c *gin.Context) {
	var req dto.StartDeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	execution, err := h.deploySvc.Start(c.Request.Context(), req.TenantID, req.InfrastructureID)
	if err != nil {
		log.WithError(err).WithField("tenant_id", req.TenantID).Error("start deployment failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.ToExecutionResponse(execution))
}

func (h *Handler) GetDeployment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid execution id"})
		return
	}

	execution, err := h.deploySvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExecutionResponse(execution))
}

func (h *Handler) GetDeploymentLogs(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid execution id"})
		return
	}

	execution, err := h.deploySvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ExecutionLogsResponse{
		ExecutionID: execution.ID,
		Logs:        execution.Logs,
	})
}

func (h *Handler) CancelDeployment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid execution id"})
		return
	}

	execution, err := h.deploySvc.Cancel(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExecutionResponse(execution))
}

func (h *Handler) ListTenantDeployments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
		return
	}

	executions, err := h.deploySvc.ListByTenant(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	resp := dto.ListExecutionsResponse{Total: len(executions)}
	for _, execution := range executions {
		resp.Items = append(resp.Items, dto.ToExecutionResponse(execution))
	}
	c.JSON(http.StatusOK, resp)
}
