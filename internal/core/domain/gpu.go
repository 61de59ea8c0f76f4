package domain

// CloudProvider identifies a supported cloud target.
type CloudProvider string

const (
	ProviderAWS   CloudProvider = "aws"
	ProviderGCP   CloudProvider = "gcp"
	ProviderAzure CloudProvider = "azure"
)

// CloudProviders lists every supported provider in display order.
var CloudProviders = []CloudProvider{ProviderAWS, ProviderGCP, ProviderAzure}

// IsValid checks if the provider is supported.
func (p CloudProvider) IsValid() bool {
	return p == ProviderAWS || p == ProviderGCP || p == ProviderAzure
}

// GPUModelID is the closed set of catalog keys. Unknown ids are rejected at
// the boundary instead of flowing through cost arithmetic.
type GPUModelID string

const (
	GPUModelT4   GPUModelID = "nvidia-t4"
	GPUModelA10  GPUModelID = "nvidia-a10"
	GPUModelV100 GPUModelID = "nvidia-v100"
	GPUModelA100 GPUModelID = "nvidia-a100"
	GPUModelH100 GPUModelID = "nvidia-h100"
	GPUModelL40S GPUModelID = "nvidia-l40s"
)

// GPUModel is one catalog entry: capacity and price attributes plus the
// per-provider instance type that carries this GPU.
type GPUModel struct {
	ID              GPUModelID               `json:"id" yaml:"id"`
	Name            string                   `json:"name" yaml:"name"`
	VRAMGB          int                      `json:"vram_gb" yaml:"vram_gb"`
	ComputeUnits    int                      `json:"compute_units" yaml:"compute_units"`
	HourlyPriceUSD  float64                  `json:"hourly_price_usd" yaml:"hourly_price_usd"`
	InstanceAliases map[CloudProvider]string `json:"instance_aliases" yaml:"instance_aliases"`
}

// HoursPerMonth is the fixed billing convention: a 30-day month.
const HoursPerMonth = 24 * 30

// GPUSelection is a catalog snapshot plus a chosen quantity. The embedded
// model is a copy; later catalog edits do not retroactively change it.
type GPUSelection struct {
	Model    GPUModel `json:"model"`
	Quantity int      `json:"quantity"`
}

// Validate checks the selection invariants.
func (s GPUSelection) Validate() error {
	if s.Quantity < 1 {
		return ErrInvalidGPUQuantity
	}
	return nil
}

// MonthlyCost returns the monthly cost of this selection in USD.
func (s GPUSelection) MonthlyCost() float64 {
	return s.Model.HourlyPriceUSD * float64(s.Quantity) * HoursPerMonth
}
