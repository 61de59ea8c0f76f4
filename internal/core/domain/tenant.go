package domain

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Value Objects
// ============================================================================

// ServiceType identifies one deployable capability of a tenant. The member set
// is closed; unknown keys are rejected at the boundary.
type ServiceType string

const (
	ServiceCallbot   ServiceType = "callbot"
	ServiceChatbot   ServiceType = "chatbot"
	ServiceVoicebot  ServiceType = "voicebot"
	ServiceTTS       ServiceType = "tts"
	ServiceSTT       ServiceType = "stt"
	ServiceAnalytics ServiceType = "analytics"
	ServiceQA        ServiceType = "qa"
)

// ServiceTypes lists every known service type in display order.
var ServiceTypes = []ServiceType{
	ServiceCallbot,
	ServiceChatbot,
	ServiceVoicebot,
	ServiceTTS,
	ServiceSTT,
	ServiceAnalytics,
	ServiceQA,
}

// IsValid checks if the service type is a known member.
func (s ServiceType) IsValid() bool {
	for _, known := range ServiceTypes {
		if s == known {
			return true
		}
	}
	return false
}

// ServiceRequirement maps each service to its requested capacity in channels.
type ServiceRequirement map[ServiceType]int

// IsEmpty reports whether every channel count is zero. An empty requirement
// yields no resource plan.
func (r ServiceRequirement) IsEmpty() bool {
	for _, channels := range r {
		if channels > 0 {
			return false
		}
	}
	return true
}

// Validate rejects unknown service keys and negative channel counts.
func (r ServiceRequirement) Validate() error {
	for service, channels := range r {
		if !service.IsValid() {
			return ErrUnknownServiceType
		}
		if channels < 0 {
			return ErrNegativeChannels
		}
	}
	return nil
}

// ServerClass categorizes a custom server spec by its hardware profile.
type ServerClass string

const (
	ServerClassCPUOnly ServerClass = "cpu-only"
	ServerClassGPU     ServerClass = "gpu"
	ServerClassMixed   ServerClass = "mixed"
)

// IsValid checks if the server class is valid.
func (c ServerClass) IsValid() bool {
	return c == ServerClassCPUOnly || c == ServerClassGPU || c == ServerClassMixed
}

// CustomServerSpec is one explicitly-defined server in custom-specs mode.
// CPU, memory, GPU and storage are per-server totals; Replicas is informational
// for display and is not multiplied into plan aggregation.
type CustomServerSpec struct {
	Name      string        `json:"name"`
	Class     ServerClass   `json:"class"`
	CPUCores  int           `json:"cpu_cores"`
	MemoryGB  int           `json:"memory_gb"`
	GPUUnits  int           `json:"gpu_units"`
	StorageGB int           `json:"storage_gb"`
	Replicas  int           `json:"replicas"`
	Services  []ServiceType `json:"services"`
}

// Validate checks the spec invariants.
func (s CustomServerSpec) Validate() error {
	if s.Name == "" {
		return ErrServerNameRequired
	}
	if s.CPUCores < 0 || s.MemoryGB < 0 || s.GPUUnits < 0 || s.StorageGB < 0 || s.Replicas < 0 {
		return ErrNegativeServerResources
	}
	if s.Class == ServerClassCPUOnly && s.GPUUnits > 0 {
		return ErrGPUOnCPUOnlyServer
	}
	for _, service := range s.Services {
		if !service.IsValid() {
			return ErrUnknownServiceType
		}
	}
	return nil
}

// SizingMode selects which sizing input is authoritative for a tenant.
type SizingMode string

const (
	SizingAutoCalculate SizingMode = "auto-calculate"
	SizingCustomSpecs   SizingMode = "custom-specs"
)

// IsValid checks if the sizing mode is valid.
func (m SizingMode) IsValid() bool {
	return m == SizingAutoCalculate || m == SizingCustomSpecs
}

// Environment tags the deployment target tier.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// IsValid checks if the environment is valid.
func (e Environment) IsValid() bool {
	return e == EnvDevelopment || e == EnvStaging || e == EnvProduction
}

// DeployStrategy selects how workloads are rolled out during execution.
type DeployStrategy string

const (
	StrategyRolling   DeployStrategy = "rolling"
	StrategyBlueGreen DeployStrategy = "blue-green"
	StrategyCanary    DeployStrategy = "canary"
)

// IsValid checks if the strategy is valid.
func (s DeployStrategy) IsValid() bool {
	return s == StrategyRolling || s == StrategyBlueGreen || s == StrategyCanary
}

// DeploymentSettings carries the execution-time knobs of a tenant.
type DeploymentSettings struct {
	Strategy    DeployStrategy `json:"strategy"`
	AutoScaling bool           `json:"auto_scaling"`
	Monitoring  bool           `json:"monitoring"`
}

// ============================================================================
// Aggregate Root
// ============================================================================

// TenantConfig is the aggregate a wizard session edits. It is treated as an
// immutable value: every mutation goes through a With* operation returning an
// updated copy, so each step of the wizard is a traceable transformation.
type TenantConfig struct {
	ID            uuid.UUID          `json:"id"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Environment   Environment        `json:"environment"`
	Provider      CloudProvider      `json:"provider"`
	Region        string             `json:"region"`
	SizingMode    SizingMode         `json:"sizing_mode"`
	Requirement   ServiceRequirement `json:"requirement,omitempty"`
	CustomServers []CustomServerSpec `json:"custom_servers,omitempty"`
	GPUSelections []GPUSelection     `json:"gpu_selections,omitempty"`
	Plan          *ResourcePlan      `json:"plan,omitempty"`
	Settings      DeploymentSettings `json:"settings"`
}

// NewTenantConfig creates a tenant aggregate with validation and defaults.
func NewTenantConfig(name, description string, env Environment, provider CloudProvider, region string) (*TenantConfig, error) {
	if name == "" {
		return nil, ErrTenantNameRequired
	}
	if !env.IsValid() {
		return nil, ErrInvalidEnvironment
	}
	if !provider.IsValid() {
		return nil, ErrInvalidCloudProvider
	}

	now := time.Now()
	return &TenantConfig{
		ID:          uuid.New(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        name,
		Description: description,
		Environment: env,
		Provider:    provider,
		Region:      region,
		SizingMode:  SizingAutoCalculate,
		Requirement: ServiceRequirement{},
		Settings: DeploymentSettings{
			Strategy:    StrategyRolling,
			AutoScaling: false,
			Monitoring:  true,
		},
	}, nil
}

func (t *TenantConfig) clone() *TenantConfig {
	copied := *t

	if t.Requirement != nil {
		copied.Requirement = make(ServiceRequirement, len(t.Requirement))
		for k, v := range t.Requirement {
			copied.Requirement[k] = v
		}
	}
	copied.CustomServers = append([]CustomServerSpec(nil), t.CustomServers...)
	copied.GPUSelections = append([]GPUSelection(nil), t.GPUSelections...)
	if t.Plan != nil {
		plan := t.Plan.clone()
		copied.Plan = plan
	}

	copied.UpdatedAt = time.Now()
	return &copied
}

// WithSizingMode switches the authoritative sizing input. The derived plan is
// dropped because it no longer reflects the active mode.
func (t *TenantConfig) WithSizingMode(mode SizingMode) (*TenantConfig, error) {
	if !mode.IsValid() {
		return nil, ErrInvalidSizingMode
	}
	copied := t.clone()
	copied.SizingMode = mode
	copied.Plan = nil
	return copied, nil
}

// WithChannels sets the requested channel count for one service.
func (t *TenantConfig) WithChannels(service ServiceType, channels int) (*TenantConfig, error) {
	if !service.IsValid() {
		return nil, ErrUnknownServiceType
	}
	if channels < 0 {
		return nil, ErrNegativeChannels
	}
	copied := t.clone()
	if copied.Requirement == nil {
		copied.Requirement = ServiceRequirement{}
	}
	copied.Requirement[service] = channels
	copied.Plan = nil
	return copied, nil
}

// WithCustomServer appends a custom server spec, enforcing name uniqueness.
func (t *TenantConfig) WithCustomServer(spec CustomServerSpec) (*TenantConfig, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	for _, existing := range t.CustomServers {
		if existing.Name == spec.Name {
			return nil, ErrDuplicateServerName
		}
	}
	copied := t.clone()
	copied.CustomServers = append(copied.CustomServers, spec)
	copied.Plan = nil
	return copied, nil
}

// WithoutCustomServer removes a custom server spec by name.
func (t *TenantConfig) WithoutCustomServer(name string) *TenantConfig {
	copied := t.clone()
	servers := copied.CustomServers[:0]
	for _, spec := range copied.CustomServers {
		if spec.Name != name {
			servers = append(servers, spec)
		}
	}
	copied.CustomServers = servers
	copied.Plan = nil
	return copied
}

// WithGPUSelection adds an ad-hoc GPU selection or bumps the quantity of an
// existing selection of the same model.
func (t *TenantConfig) WithGPUSelection(selection GPUSelection) (*TenantConfig, error) {
	if err := selection.Validate(); err != nil {
		return nil, err
	}
	copied := t.clone()
	for i, existing := range copied.GPUSelections {
		if existing.Model.ID == selection.Model.ID {
			copied.GPUSelections[i].Quantity = selection.Quantity
			copied.Plan = nil
			return copied, nil
		}
	}
	copied.GPUSelections = append(copied.GPUSelections, selection)
	copied.Plan = nil
	return copied, nil
}

// WithoutGPUSelection removes the selection of the given model.
func (t *TenantConfig) WithoutGPUSelection(modelID GPUModelID) *TenantConfig {
	copied := t.clone()
	selections := copied.GPUSelections[:0]
	for _, selection := range copied.GPUSelections {
		if selection.Model.ID != modelID {
			selections = append(selections, selection)
		}
	}
	copied.GPUSelections = selections
	copied.Plan = nil
	return copied
}

// WithPlan attaches the derived resource plan.
func (t *TenantConfig) WithPlan(plan *ResourcePlan) *TenantConfig {
	copied := t.clone()
	copied.Plan = plan
	return copied
}

// WithSettings replaces the deployment settings.
func (t *TenantConfig) WithSettings(settings DeploymentSettings) (*TenantConfig, error) {
	if !settings.Strategy.IsValid() {
		return nil, ErrInvalidDeployStrategy
	}
	copied := t.clone()
	copied.Settings = settings
	return copied, nil
}

// ValidateForPlanning checks that the active sizing mode has usable input.
func (t *TenantConfig) ValidateForPlanning() error {
	switch t.SizingMode {
	case SizingAutoCalculate:
		if err := t.Requirement.Validate(); err != nil {
			return err
		}
		if t.Requirement.IsEmpty() {
			return ErrEmptyServiceRequirement
		}
	case SizingCustomSpecs:
		if len(t.CustomServers) == 0 {
			return ErrNoCustomServerSpecs
		}
		for _, spec := range t.CustomServers {
			if err := spec.Validate(); err != nil {
				return err
			}
		}
	default:
		return ErrInvalidSizingMode
	}
	return nil
}
