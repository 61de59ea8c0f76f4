package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tenant-provisioning-service/internal/core/domain"
)

func mapDomainError(c *gin.Context, err error) {
	var planningErr *domain.PlanningError
	var incompatErr *domain.IncompatibleInfrastructureError

	switch {
	// Not found errors
	case errors.Is(err, domain.ErrTenantNotFound),
		errors.Is(err, domain.ErrExecutionNotFound),
		errors.Is(err, domain.ErrInfrastructureNotFound),
		errors.Is(err, domain.ErrGPUModelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrTenantNameConflict),
		errors.Is(err, domain.ErrDeploymentInProgress),
		errors.Is(err, domain.ErrDuplicateServerName):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Incompatibility carries its itemized shortfalls to the operator.
	case errors.As(err, &incompatErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         incompatErr.Error(),
			"shortfalls":    incompatErr.Shortfalls,
			"status_reason": incompatErr.StatusReason,
		})

	// Planning delegation failures surface the upstream message.
	case errors.As(err, &planningErr),
		errors.Is(err, domain.ErrPlanSuperseded):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrTenantNameRequired),
		errors.Is(err, domain.ErrInvalidEnvironment),
		errors.Is(err, domain.ErrInvalidCloudProvider),
		errors.Is(err, domain.ErrInvalidSizingMode),
		errors.Is(err, domain.ErrInvalidDeployStrategy),
		errors.Is(err, domain.ErrUnknownServiceType),
		errors.Is(err, domain.ErrNegativeChannels),
		errors.Is(err, domain.ErrNegativeServerResources),
		errors.Is(err, domain.ErrServerNameRequired),
		errors.Is(err, domain.ErrGPUOnCPUOnlyServer),
		errors.Is(err, domain.ErrNoCustomServerSpecs),
		errors.Is(err, domain.ErrEmptyServiceRequirement),
		errors.Is(err, domain.ErrInvalidGPUQuantity),
		errors.Is(err, domain.ErrPlanNotComputed),
		errors.Is(err, domain.ErrExecutionTerminal),
		errors.Is(err, domain.ErrExecutionNotCancelable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
