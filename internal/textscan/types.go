// Package textscan is the keyword-heuristic scoring pipeline. It evaluates an
// unstructured query string when no on-chain lookup is available, and is kept
// deliberately separate from the typed snapshot pipeline: the two share only
// clamping and reason-aggregation conventions, not weight tables.
package textscan

// EntityType classifies what kind of thing the query looks like.
type EntityType string

const (
	EntityEVMContract EntityType = "evm_contract"
	EntityDomain      EntityType = "domain"
	EntityWallet      EntityType = "wallet"
	EntityProject     EntityType = "project"
)

// KnownProject identifies a recognized project alias with an alternate
// baseline risk profile.
type KnownProject string

const (
	ProjectNaoris   KnownProject = "naoris"
	ProjectQANX     KnownProject = "qanx"
	ProjectBitcoin  KnownProject = "btc"
	ProjectEthereum KnownProject = "eth"
)

// RiskLevel is the coarse bucket for the final text-scan score.
type RiskLevel string

const (
	LevelLow    RiskLevel = "LOW"
	LevelMedium RiskLevel = "MEDIUM"
	LevelHigh   RiskLevel = "HIGH"
)

// SubScore is one heuristic module's raw risk output with its explanations.
type SubScore struct {
	Value   int      `json:"value"`
	Reasons []string `json:"reasons"`
}

// Result is the flat outcome of the text pipeline. Score is 0-100 where
// higher is safer; the two risk values are 0-100 where higher is riskier.
type Result struct {
	Score       int       `json:"score"`
	HackRisk    int       `json:"hack_risk"`
	QuantumRisk int       `json:"quantum_risk"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Message     string    `json:"message"`
}

// clampInt forces a value into [0,100].
func clampInt(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
