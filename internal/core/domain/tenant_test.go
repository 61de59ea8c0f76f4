package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestTenant(t *testing.T) *TenantConfig {
	t.Helper()
	tenant, err := NewTenantConfig("acme-corp", "test", EnvStaging, ProviderGCP, "europe-west1")
	assert.NoError(t, err)
	return tenant
}

func TestNewTenantConfig(t *testing.T) {
	tenant := newTestTenant(t)

	assert.Equal(t, "acme-corp", tenant.Name)
	assert.Equal(t, SizingAutoCalculate, tenant.SizingMode)
	assert.Equal(t, StrategyRolling, tenant.Settings.Strategy)
	assert.True(t, tenant.Settings.Monitoring)
	assert.Nil(t, tenant.Plan)
}

func TestNewTenantConfig_Validation(t *testing.T) {
	_, err := NewTenantConfig("", "", EnvStaging, ProviderGCP, "europe-west1")
	assert.ErrorIs(t, err, ErrTenantNameRequired)

	_, err = NewTenantConfig("acme", "", "qa-env", ProviderGCP, "europe-west1")
	assert.ErrorIs(t, err, ErrInvalidEnvironment)

	_, err = NewTenantConfig("acme", "", EnvStaging, "oracle", "europe-west1")
	assert.ErrorIs(t, err, ErrInvalidCloudProvider)
}

func TestWithChannels(t *testing.T) {
	tenant := newTestTenant(t)

	updated, err := tenant.WithChannels(ServiceCallbot, 10)
	assert.NoError(t, err)
	assert.Equal(t, 10, updated.Requirement[ServiceCallbot])
	assert.NotContains(t, tenant.Requirement, ServiceCallbot, "original value must stay untouched")
}

func TestWithChannels_Validation(t *testing.T) {
	tenant := newTestTenant(t)

	_, err := tenant.WithChannels("mailbot", 10)
	assert.ErrorIs(t, err, ErrUnknownServiceType)

	_, err = tenant.WithChannels(ServiceChatbot, -1)
	assert.ErrorIs(t, err, ErrNegativeChannels)
}

func TestWithSizingMode_DropsPlan(t *testing.T) {
	tenant := newTestTenant(t).WithPlan(&ResourcePlan{Source: SizingAutoCalculate, CPUCores: 4})

	updated, err := tenant.WithSizingMode(SizingCustomSpecs)
	assert.NoError(t, err)
	assert.Nil(t, updated.Plan, "derived plan must not survive a sizing mode switch")
	assert.NotNil(t, tenant.Plan)
}

func TestWithChannels_DropsPlan(t *testing.T) {
	tenant := newTestTenant(t).WithPlan(&ResourcePlan{Source: SizingAutoCalculate, CPUCores: 4})

	updated, err := tenant.WithChannels(ServiceTTS, 5)
	assert.NoError(t, err)
	assert.Nil(t, updated.Plan)
}

func TestWithSettings_KeepsPlan(t *testing.T) {
	tenant := newTestTenant(t).WithPlan(&ResourcePlan{Source: SizingAutoCalculate, CPUCores: 4})

	updated, err := tenant.WithSettings(DeploymentSettings{Strategy: StrategyCanary, Monitoring: true})
	assert.NoError(t, err)
	assert.NotNil(t, updated.Plan, "settings do not affect sizing")
	assert.Equal(t, StrategyCanary, updated.Settings.Strategy)

	_, err = tenant.WithSettings(DeploymentSettings{Strategy: "recreate"})
	assert.ErrorIs(t, err, ErrInvalidDeployStrategy)
}

func TestWithCustomServer(t *testing.T) {
	tenant := newTestTenant(t)
	spec := CustomServerSpec{Name: "inference-1", Class: ServerClassGPU, CPUCores: 8, MemoryGB: 32, GPUUnits: 1, StorageGB: 100, Replicas: 2}

	updated, err := tenant.WithCustomServer(spec)
	assert.NoError(t, err)
	assert.Len(t, updated.CustomServers, 1)
	assert.Empty(t, tenant.CustomServers)

	_, err = updated.WithCustomServer(spec)
	assert.ErrorIs(t, err, ErrDuplicateServerName)
}

func TestWithCustomServer_Validation(t *testing.T) {
	tenant := newTestTenant(t)

	_, err := tenant.WithCustomServer(CustomServerSpec{Name: "", Class: ServerClassCPUOnly})
	assert.ErrorIs(t, err, ErrServerNameRequired)

	_, err = tenant.WithCustomServer(CustomServerSpec{Name: "web", Class: ServerClassCPUOnly, CPUCores: -2})
	assert.ErrorIs(t, err, ErrNegativeServerResources)

	_, err = tenant.WithCustomServer(CustomServerSpec{Name: "web", Class: ServerClassCPUOnly, GPUUnits: 1})
	assert.ErrorIs(t, err, ErrGPUOnCPUOnlyServer)
}

func TestWithoutCustomServer(t *testing.T) {
	tenant := newTestTenant(t)
	tenant, err := tenant.WithCustomServer(CustomServerSpec{Name: "web", Class: ServerClassCPUOnly, CPUCores: 4})
	assert.NoError(t, err)
	tenant, err = tenant.WithCustomServer(CustomServerSpec{Name: "gpu-1", Class: ServerClassGPU, GPUUnits: 1})
	assert.NoError(t, err)

	updated := tenant.WithoutCustomServer("web")
	assert.Len(t, updated.CustomServers, 1)
	assert.Equal(t, "gpu-1", updated.CustomServers[0].Name)

	// Removing a name that does not exist is a no-op.
	same := updated.WithoutCustomServer("missing")
	assert.Len(t, same.CustomServers, 1)
}

func TestWithGPUSelection(t *testing.T) {
	tenant := newTestTenant(t)
	model := GPUModel{ID: GPUModelT4, Name: "NVIDIA T4", HourlyPriceUSD: 0.35}

	tenant, err := tenant.WithGPUSelection(GPUSelection{Model: model, Quantity: 2})
	assert.NoError(t, err)
	assert.Len(t, tenant.GPUSelections, 1)

	// Re-selecting the same model replaces the quantity, never duplicates.
	tenant, err = tenant.WithGPUSelection(GPUSelection{Model: model, Quantity: 4})
	assert.NoError(t, err)
	assert.Len(t, tenant.GPUSelections, 1)
	assert.Equal(t, 4, tenant.GPUSelections[0].Quantity)

	_, err = tenant.WithGPUSelection(GPUSelection{Model: model, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidGPUQuantity)
}

func TestValidateForPlanning(t *testing.T) {
	tenant := newTestTenant(t)
	assert.ErrorIs(t, tenant.ValidateForPlanning(), ErrEmptyServiceRequirement)

	withChannels, err := tenant.WithChannels(ServiceCallbot, 10)
	assert.NoError(t, err)
	assert.NoError(t, withChannels.ValidateForPlanning())

	// Zero channels everywhere still reads as empty.
	zeroed, err := withChannels.WithChannels(ServiceCallbot, 0)
	assert.NoError(t, err)
	assert.ErrorIs(t, zeroed.ValidateForPlanning(), ErrEmptyServiceRequirement)

	customMode, err := tenant.WithSizingMode(SizingCustomSpecs)
	assert.NoError(t, err)
	assert.ErrorIs(t, customMode.ValidateForPlanning(), ErrNoCustomServerSpecs)

	withServer, err := customMode.WithCustomServer(CustomServerSpec{Name: "web", Class: ServerClassCPUOnly, CPUCores: 4})
	assert.NoError(t, err)
	assert.NoError(t, withServer.ValidateForPlanning())
}

func TestGPUSelection_MonthlyCost(t *testing.T) {
	selection := GPUSelection{
		Model:    GPUModel{ID: GPUModelA10, HourlyPriceUSD: 0.90},
		Quantity: 3,
	}
	assert.InDelta(t, 0.90*3*720, selection.MonthlyCost(), 1e-9)
}
