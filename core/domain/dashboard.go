package domain

// AnomalyType names a spending pattern worth a closer look.
type AnomalyType string

const (
	AnomalyContractSplitting AnomalyType = "contract_splitting"
	AnomalyThresholdGaming   AnomalyType = "threshold_gaming"
	AnomalyConcentration     AnomalyType = "concentration"
)

// Severity orders anomalies for display; high sorts first.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank returns the sort position of s.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// Anomaly is one flagged row with a human-readable summary.
type Anomaly struct {
	Type        AnomalyType    `json:"type"`
	Severity    Severity       `json:"severity"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data"`
}

// NetworkNode is an organization or a contractor in the spending graph.
type NetworkNode struct {
	ID    string  `json:"id"`
	Type  string  `json:"type"`
	Total float64 `json:"total"`
}

// NetworkEdge is the aggregated spending from one organization to one contractor.
type NetworkEdge struct {
	Source    string  `json:"source"`
	Target    string  `json:"target"`
	Amount    float64 `json:"amount"`
	Contracts int64   `json:"contracts"`
}

// NetworkStats counts the graph's parts.
type NetworkStats struct {
	OrgCount        int `json:"org_count"`
	ContractorCount int `json:"contractor_count"`
	EdgeCount       int `json:"edge_count"`
}

// Network is the organization to contractor spending graph.
type Network struct {
	Nodes []NetworkNode `json:"nodes"`
	Edges []NetworkEdge `json:"edges"`
	Stats NetworkStats  `json:"stats"`
}
