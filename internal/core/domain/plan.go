package domain

// ResourceKind enumerates the four capacity dimensions a plan and a candidate
// are compared on. ResourceKinds fixes the evaluation and display order.
type ResourceKind string

const (
	ResourceCPU     ResourceKind = "cpu"
	ResourceMemory  ResourceKind = "memory"
	ResourceGPU     ResourceKind = "gpu"
	ResourceStorage ResourceKind = "storage"
)

// ResourceKinds is the fixed enumeration order for deterministic output.
var ResourceKinds = []ResourceKind{ResourceCPU, ResourceMemory, ResourceGPU, ResourceStorage}

// CostBreakdown maps a cloud provider to a monthly figure in that provider's
// currency.
type CostBreakdown map[CloudProvider]float64

// ResourcePlan is the normalized planning output, independent of which sizing
// mode produced it. Source records the producing mode so consumers never read
// inputs that do not apply.
type ResourcePlan struct {
	Source      SizingMode    `json:"source"`
	CPUCores    int           `json:"cpu_cores"`
	MemoryGB    int           `json:"memory_gb"`
	GPUUnits    int           `json:"gpu_units"`
	StorageGB   int           `json:"storage_gb"`
	MonthlyCost CostBreakdown `json:"monthly_cost"`
}

// Total returns the plan total for one resource kind. A nil plan reads as
// zero on every kind.
func (p *ResourcePlan) Total(kind ResourceKind) int {
	if p == nil {
		return 0
	}
	switch kind {
	case ResourceCPU:
		return p.CPUCores
	case ResourceMemory:
		return p.MemoryGB
	case ResourceGPU:
		return p.GPUUnits
	case ResourceStorage:
		return p.StorageGB
	}
	return 0
}

func (p *ResourcePlan) clone() *ResourcePlan {
	copied := *p
	if p.MonthlyCost != nil {
		copied.MonthlyCost = make(CostBreakdown, len(p.MonthlyCost))
		for provider, cost := range p.MonthlyCost {
			copied.MonthlyCost[provider] = cost
		}
	}
	return &copied
}
