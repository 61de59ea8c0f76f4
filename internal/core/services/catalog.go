package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tenant-provisioning-service/internal/core/domain"
)

// GPUCatalog is the read-only reference table of GPU models. Entries are
// fixed at construction; selections embed snapshots, so later catalog edits
// never rewrite saved plans.
type GPUCatalog struct {
	models map[domain.GPUModelID]domain.GPUModel
	order  []domain.GPUModelID
}

var builtinGPUModels = []domain.GPUModel{
	{
		ID: domain.GPUModelT4, Name: "NVIDIA T4", VRAMGB: 16, ComputeUnits: 40, HourlyPriceUSD: 0.35,
		InstanceAliases: map[domain.CloudProvider]string{
			domain.ProviderAWS:   "g4dn.xlarge",
			domain.ProviderGCP:   "n1-standard-4+t4",
			domain.ProviderAzure: "Standard_NC4as_T4_v3",
		},
	},
	{
		ID: domain.GPUModelA10, Name: "NVIDIA A10", VRAMGB: 24, ComputeUnits: 72, HourlyPriceUSD: 0.90,
		InstanceAliases: map[domain.CloudProvider]string{
			domain.ProviderAWS:   "g5.xlarge",
			domain.ProviderGCP:   "g2-standard-8",
			domain.ProviderAzure: "Standard_NV36ads_A10_v5",
		},
	},
	{
		ID: domain.GPUModelV100, Name: "NVIDIA V100", VRAMGB: 32, ComputeUnits: 80, HourlyPriceUSD: 2.48,
		InstanceAliases: map[domain.CloudProvider]string{
			domain.ProviderAWS:   "p3.2xlarge",
			domain.ProviderGCP:   "n1-standard-8+v100",
			domain.ProviderAzure: "Standard_NC6s_v3",
		},
	},
	{
		ID: domain.GPUModelL40S, Name: "NVIDIA L40S", VRAMGB: 48, ComputeUnits: 142, HourlyPriceUSD: 1.98,
		InstanceAliases: map[domain.CloudProvider]string{
			domain.ProviderAWS:   "g6e.xlarge",
			domain.ProviderGCP:   "g2-standard-16",
			domain.ProviderAzure: "Standard_NC24ads_L40S",
		},
	},
	{
		ID: domain.GPUModelA100, Name: "NVIDIA A100 80GB", VRAMGB: 80, ComputeUnits: 108, HourlyPriceUSD: 3.67,
		InstanceAliases: map[domain.CloudProvider]string{
			domain.ProviderAWS:   "p4d.24xlarge",
			domain.ProviderGCP:   "a2-ultragpu-1g",
			domain.ProviderAzure: "Standard_NC24ads_A100_v4",
		},
	},
	{
		ID: domain.GPUModelH100, Name: "NVIDIA H100 80GB", VRAMGB: 80, ComputeUnits: 132, HourlyPriceUSD: 6.98,
		InstanceAliases: map[domain.CloudProvider]string{
			domain.ProviderAWS:   "p5.48xlarge",
			domain.ProviderGCP:   "a3-highgpu-1g",
			domain.ProviderAzure: "Standard_ND96isr_H100_v5",
		},
	},
}

// NewGPUCatalog creates the catalog from the built-in reference table.
func NewGPUCatalog() *GPUCatalog {
	return newCatalog(builtinGPUModels)
}

// NewGPUCatalogFromFile creates the catalog from a YAML file, for installs
// that maintain their own price sheet.
func NewGPUCatalogFromFile(path string) (*GPUCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gpu catalog file: %w", err)
	}

	var models []domain.GPUModel
	if err := yaml.Unmarshal(data, &models); err != nil {
		return nil, fmt.Errorf("parse gpu catalog file: %w", err)
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("gpu catalog file %s contains no models", path)
	}

	return newCatalog(models), nil
}

func newCatalog(models []domain.GPUModel) *GPUCatalog {
	c := &GPUCatalog{models: make(map[domain.GPUModelID]domain.GPUModel, len(models))}
	for _, model := range models {
		if _, exists := c.models[model.ID]; exists {
			continue
		}
		c.models[model.ID] = model
		c.order = append(c.order, model.ID)
	}
	return c
}

// Lookup returns the model for the given id or ErrGPUModelNotFound.
func (c *GPUCatalog) Lookup(id domain.GPUModelID) (domain.GPUModel, error) {
	model, ok := c.models[id]
	if !ok {
		return domain.GPUModel{}, domain.ErrGPUModelNotFound
	}
	return model, nil
}

// List returns every model in catalog order.
func (c *GPUCatalog) List() []domain.GPUModel {
	models := make([]domain.GPUModel, 0, len(c.order))
	for _, id := range c.order {
		models = append(models, c.models[id])
	}
	return models
}
