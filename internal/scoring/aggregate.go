package scoring

// Aggregate combines component sub-scores into one global score via a
// weighted average normalized by the actual weight sum. An absent component
// (weight 0 for that call) therefore cannot bias the result. A zero weight
// sum is degenerate; the divisor falls back to 1.
func Aggregate(components []SubScore) (float64, RiskLabel) {
	var weightedSum, weightTotal float64
	for _, c := range components {
		weightedSum += c.Value * c.Weight
		weightTotal += c.Weight
	}
	if weightTotal == 0 {
		weightTotal = 1
	}

	global := clamp(weightedSum / weightTotal)
	return global, LabelFromScore(global)
}

// LabelFromScore maps a global score to its risk bucket. Each test is a
// strict less-than, so a boundary value belongs to the upper bracket.
func LabelFromScore(score float64) RiskLabel {
	switch {
	case score < 20:
		return LabelVeryLow
	case score < 40:
		return LabelLow
	case score < 60:
		return LabelMedium
	case score < 80:
		return LabelHigh
	default:
		return LabelCritical
	}
}
