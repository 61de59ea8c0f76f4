package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tenant-provisioning-service/internal/core/domain"
	output "tenant-provisioning-service/internal/core/ports/output"
)

func TestBuildPlan(t *testing.T) {
	f := setupRouter()
	tenant := storedTenant()
	tenant, err := tenant.WithChannels(domain.ServiceCallbot, 10)
	assert.NoError(t, err)

	f.tenants.On("GetByID", mock.Anything, tenant.ID).Return(tenant, nil)
	f.tenants.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.sizing.On("ComputeResources", mock.Anything, mock.Anything).Return(&output.SizingResult{
		CPU: 3.1, MemoryGB: 5.9, GPU: 0, StorageTB: 0.001,
		CostByProvider: map[domain.CloudProvider]float64{domain.ProviderAWS: 210},
	}, nil)

	req, _ := http.NewRequest("POST", "/api/v1/provisioning/tenants/"+tenant.ID.String()+"/plan", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Plan domain.ResourcePlan `json:"plan"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Plan.CPUCores)
	assert.Equal(t, 6, resp.Plan.MemoryGB)
	assert.Equal(t, 0, resp.Plan.GPUUnits)
	assert.Equal(t, 1, resp.Plan.StorageGB)
}

func TestBuildPlan_EmptyRequirement(t *testing.T) {
	f := setupRouter()
	tenant := storedTenant()
	f.tenants.On("GetByID", mock.Anything, tenant.ID).Return(tenant, nil)

	req, _ := http.NewRequest("POST", "/api/v1/provisioning/tenants/"+tenant.ID.String()+"/plan", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuildPlan_SizingUnavailable(t *testing.T) {
	f := setupRouter()
	tenant := storedTenant()
	tenant, err := tenant.WithChannels(domain.ServiceCallbot, 10)
	assert.NoError(t, err)

	f.tenants.On("GetByID", mock.Anything, tenant.ID).Return(tenant, nil)
	f.sizing.On("ComputeResources", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	req, _ := http.NewRequest("POST", "/api/v1/provisioning/tenants/"+tenant.ID.String()+"/plan", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCheckCompatibility(t *testing.T) {
	f := setupRouter()
	tenant := storedTenant().WithPlan(&domain.ResourcePlan{CPUCores: 4, MemoryGB: 6, StorageGB: 1})
	f.tenants.On("GetByID", mock.Anything, tenant.ID).Return(tenant, nil)

	candidate := &domain.InfrastructureCandidate{
		ID: "cluster-a", Status: domain.InfraStatusActive,
		CPUCores: 4, MemoryGB: 6, GPUUnits: 0, StorageGB: 1,
	}
	f.directory.On("GetCandidate", mock.Anything, "cluster-a").Return(candidate, nil)

	req, _ := http.NewRequest("POST", "/api/v1/provisioning/tenants/"+tenant.ID.String()+"/compatibility/cluster-a", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		InfrastructureID string               `json:"infrastructure_id"`
		Verdict          domain.Compatibility `json:"verdict"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Verdict.Compatible)
	assert.Empty(t, resp.Verdict.Shortfalls)
}

func TestCheckCompatibility_Shortfall(t *testing.T) {
	f := setupRouter()
	tenant := storedTenant().WithPlan(&domain.ResourcePlan{CPUCores: 16, MemoryGB: 6})
	f.tenants.On("GetByID", mock.Anything, tenant.ID).Return(tenant, nil)

	candidate := &domain.InfrastructureCandidate{
		ID: "cluster-a", Status: domain.InfraStatusActive,
		CPUCores: 8, MemoryGB: 64, GPUUnits: 2, StorageGB: 500,
	}
	f.directory.On("GetCandidate", mock.Anything, "cluster-a").Return(candidate, nil)

	req, _ := http.NewRequest("POST", "/api/v1/provisioning/tenants/"+tenant.ID.String()+"/compatibility/cluster-a", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Verdict domain.Compatibility `json:"verdict"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Verdict.Compatible)
	assert.Equal(t, []domain.ResourceKind{domain.ResourceCPU}, resp.Verdict.Shortfalls)
}

func TestStartDeployment_Incompatible(t *testing.T) {
	f := setupRouter()
	tenant := storedTenant().WithPlan(&domain.ResourcePlan{CPUCores: 16})
	f.tenants.On("GetByID", mock.Anything, tenant.ID).Return(tenant, nil)

	candidate := &domain.InfrastructureCandidate{
		ID: "cluster-a", Status: domain.InfraStatusMaintenance,
		CPUCores: 64, MemoryGB: 256, GPUUnits: 8, StorageGB: 1000,
	}
	f.directory.On("GetCandidate", mock.Anything, "cluster-a").Return(candidate, nil)

	body, _ := json.Marshal(map[string]any{"tenant_id": tenant.ID, "infrastructure_id": "cluster-a"})
	req, _ := http.NewRequest("POST", "/api/v1/provisioning/deployments", bytes.NewReader(body))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Contains(t, resp["status_reason"], "maintenance")
}

func TestStartDeployment(t *testing.T) {
	f := setupRouter()
	tenant := storedTenant().WithPlan(&domain.ResourcePlan{CPUCores: 4, MemoryGB: 6, StorageGB: 1})
	f.tenants.On("GetByID", mock.Anything, tenant.ID).Return(tenant, nil)
	f.executions.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.executions.On("Update", mock.Anything, mock.Anything).Return(nil)

	candidate := &domain.InfrastructureCandidate{
		ID: "cluster-a", Status: domain.InfraStatusActive,
		CPUCores: 64, MemoryGB: 256, GPUUnits: 8, StorageGB: 1000,
	}
	f.directory.On("GetCandidate", mock.Anything, "cluster-a").Return(candidate, nil)

	body, _ := json.Marshal(map[string]any{"tenant_id": tenant.ID, "infrastructure_id": "cluster-a"})
	req, _ := http.NewRequest("POST", "/api/v1/provisioning/deployments", bytes.NewReader(body))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, string(domain.ExecStatusPreparing), resp["status"])
	assert.Equal(t, float64(0), resp["progress"])
}

func TestGetDeployment_NotFound(t *testing.T) {
	f := setupRouter()
	id := storedTenant().ID
	f.executions.On("GetByID", mock.Anything, id).Return(nil, domain.ErrExecutionNotFound)

	req, _ := http.NewRequest("GET", "/api/v1/provisioning/deployments/"+id.String(), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
