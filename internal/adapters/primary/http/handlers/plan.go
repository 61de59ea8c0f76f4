package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"tenant-provisioning-service/internal/adapters/primary/http/dto"
)

// BuildPlan derives the resource plan for the tenant's active sizing mode
// and persists it on the aggregate.
func (h *Handler) BuildPlan(c *gin.Context) {
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

	plan, err := h.planSvc.BuildPlan(c.Request.Context(), tenant)
	if err != nil {
		log.WithError(err).WithField("tenant_id", id).Error("build plan failed")
		mapDomainError(c, err)
		return
	}

	if _, err := h.tenantSvc.SetPlan(c.Request.Context(), id, plan); err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PlanResponse{Plan: *plan})
}

func (h *Handler) ListInfrastructures(c *gin.Context) {
	candidates, err := h.directory.ListCandidates(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("list infrastructures failed")
		mapDomainError(c, err)
		return
	}

	resp := dto.InfrastructureResponse{Total: len(candidates)}
	for _, candidate := range candidates {
		resp.Items = append(resp.Items, *candidate)
	}
	c.JSON(http.StatusOK, resp)
}

// CheckCompatibility gates whether execution may start against a candidate.
func (h *Handler) CheckCompatibility(c *gin.Context) {
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

	candidate, err := h.directory.GetCandidate(c.Request.Context(), c.Param("infra_id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	verdict := h.compatSvc.Check(tenant.Plan, candidate)

	c.JSON(http.StatusOK, dto.CompatibilityResponse{
		InfrastructureID: candidate.ID,
		Verdict:          verdict,
	})
}

func (h *Handler) ListGPUCatalog(c *gin.Context) {
	models := h.catalog.List()
	c.JSON(http.StatusOK, dto.GPUCatalogResponse{Items: models, Total: len(models)})
}
