package domain

// InfrastructureStatus is the operational status of a candidate cluster.
type InfrastructureStatus string

const (
	InfraStatusActive      InfrastructureStatus = "active"
	InfraStatusInactive    InfrastructureStatus = "inactive"
	InfraStatusMaintenance InfrastructureStatus = "maintenance"
)

// IsValid checks if the status is valid.
func (s InfrastructureStatus) IsValid() bool {
	return s == InfraStatusActive || s == InfraStatusInactive || s == InfraStatusMaintenance
}

// InfrastructureCandidate describes a target cluster. Read-only from the
// planning engine's perspective; the directory adapter owns its lifecycle.
type InfrastructureCandidate struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Provider  CloudProvider        `json:"provider"`
	Region    string               `json:"region"`
	Status    InfrastructureStatus `json:"status"`
	CPUCores  int                  `json:"cpu_cores"`
	MemoryGB  int                  `json:"memory_gb"`
	GPUUnits  int                  `json:"gpu_units"`
	StorageGB int                  `json:"storage_gb"`
}

// Capacity returns the candidate capacity for one resource kind. A nil
// candidate reads as zero, which blocks any nonzero requirement.
func (c *InfrastructureCandidate) Capacity(kind ResourceKind) int {
	if c == nil {
		return 0
	}
	switch kind {
	case ResourceCPU:
		return c.CPUCores
	case ResourceMemory:
		return c.MemoryGB
	case ResourceGPU:
		return c.GPUUnits
	case ResourceStorage:
		return c.StorageGB
	}
	return 0
}

// Compatibility is the verdict of matching a plan against a candidate.
// Shortfalls follows the ResourceKinds order; StatusReason is set when the
// candidate is rejected for not being active, distinct from any capacity
// shortfall.
type Compatibility struct {
	Compatible   bool           `json:"compatible"`
	Shortfalls   []ResourceKind `json:"shortfalls"`
	StatusReason string         `json:"status_reason,omitempty"`
}
