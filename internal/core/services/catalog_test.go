package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"tenant-provisioning-service/internal/core/domain"
)

func TestGPUCatalog_Lookup(t *testing.T) {
	catalog := NewGPUCatalog()

	model, err := catalog.Lookup(domain.GPUModelT4)
	assert.NoError(t, err)
	assert.Equal(t, "NVIDIA T4", model.Name)
	assert.Greater(t, model.HourlyPriceUSD, 0.0)
	assert.Contains(t, model.InstanceAliases, domain.ProviderAWS)

	_, err = catalog.Lookup("nvidia-b200")
	assert.ErrorIs(t, err, domain.ErrGPUModelNotFound)
}

func TestGPUCatalog_List(t *testing.T) {
	catalog := NewGPUCatalog()

	models := catalog.List()
	assert.Len(t, models, 6)
	assert.Equal(t, domain.GPUModelT4, models[0].ID, "catalog order is stable")
}

func TestNewGPUCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `
- id: nvidia-t4
  name: NVIDIA T4
  vram_gb: 16
  compute_units: 40
  hourly_price_usd: 0.40
  instance_aliases:
    aws: g4dn.xlarge
- id: nvidia-a10
  name: NVIDIA A10
  vram_gb: 24
  compute_units: 72
  hourly_price_usd: 1.10
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	catalog, err := NewGPUCatalogFromFile(path)
	assert.NoError(t, err)
	assert.Len(t, catalog.List(), 2)

	model, err := catalog.Lookup(domain.GPUModelT4)
	assert.NoError(t, err)
	assert.Equal(t, 0.40, model.HourlyPriceUSD)
}

func TestNewGPUCatalogFromFile_Missing(t *testing.T) {
	_, err := NewGPUCatalogFromFile("/does/not/exist.yaml")
	assert.Error(t, err)
}
