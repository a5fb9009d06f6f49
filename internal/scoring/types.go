// Package scoring is the risk scoring engine for on-chain tokens. It turns a
// FactSnapshot into a weighted composite risk score with a categorical label
// and per-component justifications. All scoring is pure and request-scoped.
package scoring

import "github.com/tokensentry/tokensentry/internal/snapshot"

// RiskLabel is the discrete risk bucket derived from the global score.
type RiskLabel string

const (
	LabelVeryLow  RiskLabel = "very_low"
	LabelLow      RiskLabel = "low"
	LabelMedium   RiskLabel = "medium"
	LabelHigh     RiskLabel = "high"
	LabelCritical RiskLabel = "critical"
)

// SubScore is one component's bounded risk contribution. Value is clamped to
// [0,100]; 0 is safe, 100 is maximally risky. Reasons are ordered and human
// readable.
type SubScore struct {
	Name    string   `json:"name"`
	Value   float64  `json:"score"`
	Weight  float64  `json:"weight"`
	Reasons []string `json:"reasons"`
}

// RiskResult is the complete outcome of one scan request. It is created
// once, never stored and never updated.
type RiskResult struct {
	Chain           snapshot.Chain `json:"chain"`
	ContractAddress string         `json:"contract_address"`
	ProjectName     *string        `json:"project_name,omitempty"`
	Symbol          *string        `json:"symbol,omitempty"`

	GlobalScore float64   `json:"global_score"`
	Label       RiskLabel `json:"label"`

	Components []SubScore `json:"components"`

	ReputationLinks *snapshot.ReputationLinks `json:"reputation_links,omitempty"`
}

// Weights holds the advisory component weights. They need not sum to 1; the
// aggregator normalizes by the actual weight sum.
type Weights struct {
	Contract   float64 `yaml:"contract" json:"contract"`
	Market     float64 `yaml:"market" json:"market"`
	Reputation float64 `yaml:"reputation" json:"reputation"`
	Advanced   float64 `yaml:"advanced" json:"advanced"`
}

// DefaultWeights returns the advisory default component weights.
func DefaultWeights() Weights {
	return Weights{
		Contract:   0.4,
		Market:     0.25,
		Reputation: 0.15,
		Advanced:   0.2,
	}
}

// clamp bounds a score to [0,100]. Applied exactly once per component, after
// the raw delta sum is accumulated.
func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
