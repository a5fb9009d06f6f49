package textscan

import (
	"fmt"
	"strings"
)

// Hack-risk blend weights across the first four heuristic modules. These are
// intentionally distinct from the typed pipeline's weight table.
const (
	hackWeightContract     = 0.4
	hackWeightLiquidity    = 0.25
	hackWeightDistribution = 0.2
	hackWeightReputation   = 0.15

	globalWeightHack    = 0.7
	globalWeightQuantum = 0.3
)

// Evaluate runs the full keyword pipeline against a free-text query:
// entity/known-project detection, five independent keyword scorers, the
// hack-risk blend, and the final safety score and bucket.
func Evaluate(query string) Result {
	normalized := strings.ToLower(strings.TrimSpace(query))

	entityType, known, globalReasons := detectEntity(normalized)

	contract := scoreContractAndCode(normalized, entityType, known)
	liquidity := scoreLiquidityAndMarket(normalized)
	distribution := scoreDistributionAndHolders(normalized)
	reputation := scoreOffchainReputation(normalized)
	quantum := scoreQuantumProfile(normalized, known)

	for _, sub := range []SubScore{contract, liquidity, distribution, reputation, quantum} {
		globalReasons = append(globalReasons, sub.Reasons...)
	}

	hackRisk := clampInt(
		float64(contract.Value)*hackWeightContract +
			float64(liquidity.Value)*hackWeightLiquidity +
			float64(distribution.Value)*hackWeightDistribution +
			float64(reputation.Value)*hackWeightReputation)

	quantumRisk := quantum.Value

	totalRisk := float64(hackRisk)*globalWeightHack + float64(quantumRisk)*globalWeightQuantum
	score := clampInt(100 - totalRisk)

	var level RiskLevel
	switch {
	case score >= 70:
		level = LevelLow
	case score >= 40:
		level = LevelMedium
	default:
		level = LevelHigh
	}

	if len(globalReasons) == 0 {
		globalReasons = append(globalReasons, "No strong signal detected, generic risk profile applied.")
	}

	message := fmt.Sprintf(
		"Analysis of '%s': score=%d/100, overall risk level=%s. (hack_risk=%d, quantum_risk=%d). %s",
		query, score, level, hackRisk, quantumRisk, strings.Join(globalReasons, " "))

	return Result{
		Score:       score,
		HackRisk:    hackRisk,
		QuantumRisk: quantumRisk,
		RiskLevel:   level,
		Message:     message,
	}
}
