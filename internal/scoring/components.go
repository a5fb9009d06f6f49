package scoring

import (
	"fmt"

	"github.com/tokensentry/tokensentry/internal/rules"
	"github.com/tokensentry/tokensentry/internal/snapshot"
)

// Fallback values returned when a component's facet is entirely absent.
// Unknown is risky: an unreachable data source scores high, not neutral.
const (
	fallbackContract   = 80.0
	fallbackMarket     = 75.0
	fallbackReputation = 80.0
	fallbackAdvanced   = 70.0
)

// ScoreContract scores the on-chain contract facet: verification, supply
// transparency and holder distribution.
func ScoreContract(onchain *snapshot.OnchainFacts, weight float64) SubScore {
	name := "On-chain contract risk"

	if onchain == nil {
		return SubScore{
			Name:    name,
			Value:   fallbackContract,
			Weight:  weight,
			Reasons: []string{"Could not retrieve on-chain data (explorer unavailable)."},
		}
	}

	score := 20.0 // neutral baseline
	var reasons []string

	if onchain.IsContractVerified != nil && *onchain.IsContractVerified {
		score -= 10
		reasons = append(reasons, "Contract source verified on the explorer.")
	} else {
		score += 25
		reasons = append(reasons, "Contract source NOT verified (possible hidden code or backdoor).")
	}

	if onchain.TotalSupplyNormalized == nil {
		score += 10
		reasons = append(reasons, "Total supply unknown (lack of transparency).")
	} else {
		reasons = append(reasons, fmt.Sprintf("Total supply detected: %g.", *onchain.TotalSupplyNormalized))
	}

	if onchain.HoldersCount != nil {
		switch holders := *onchain.HoldersCount; {
		case holders < 100:
			score += 30
			reasons = append(reasons, "Fewer than 100 holders (high manipulation risk).")
		case holders < 1000:
			score += 15
			reasons = append(reasons, "Fewer than 1000 holders (centralization risk).")
		default:
			score -= 5
			reasons = append(reasons, "Significant holder community.")
		}
	} else {
		score += 5
		reasons = append(reasons, "Holder count unknown.")
	}

	return SubScore{Name: name, Value: clamp(score), Weight: weight, Reasons: reasons}
}

// ScoreMarket scores the market facet: liquidity depth, trading volume,
// volatility and FDV-to-liquidity ratio of the best pool.
func ScoreMarket(market *snapshot.MarketFacts, weight float64) SubScore {
	name := "Market & liquidity risk"

	if market == nil || market.BestPool == nil {
		return SubScore{
			Name:    name,
			Value:   fallbackMarket,
			Weight:  weight,
			Reasons: []string{"No DEX pool found for this token (potentially illiquid or opaque)."},
		}
	}

	pool := market.BestPool
	score := 40.0 // starting point
	var reasons []string

	if pool.LiquidityUSD == nil {
		score += 20
		reasons = append(reasons, "Liquidity unknown (incomplete data).")
	} else {
		switch liq := *pool.LiquidityUSD; {
		case liq < 20_000:
			score += 35
			reasons = append(reasons, "Liquidity below $20k (very risky, heavy slippage likely).")
		case liq < 100_000:
			score += 20
			reasons = append(reasons, "Liquidity between $20k and $100k (high risk).")
		case liq < 500_000:
			score += 10
			reasons = append(reasons, "Liquidity between $100k and $500k (moderate risk).")
		case liq < 5_000_000:
			reasons = append(reasons, "Liquidity above $500k (fairly comfortable).")
		default:
			score -= 10
			reasons = append(reasons, "Very deep liquidity (good for stability).")
		}
	}

	if pool.Volume24hUSD == nil {
		score += 10
		reasons = append(reasons, "24h volume unknown.")
	} else {
		switch vol := *pool.Volume24hUSD; {
		case vol < 10_000:
			score += 25
			reasons = append(reasons, "24h volume below $10k (barely traded, inactive market).")
		case vol < 100_000:
			score += 10
			reasons = append(reasons, "24h volume between $10k and $100k (moderate activity).")
		case vol > 1_000_000:
			score -= 10
			reasons = append(reasons, "24h volume above $1M (strong activity, good sign).")
		}
	}

	if pool.PriceChange24h != nil {
		change := *pool.PriceChange24h
		abs := change
		if abs < 0 {
			abs = -abs
		}
		switch {
		case abs > 40:
			score += 15
			reasons = append(reasons, fmt.Sprintf("Extreme 24h price move (%g%%), possible pump & dump.", change))
		case abs > 20:
			score += 5
			reasons = append(reasons, fmt.Sprintf("Significant 24h price move (%g%%), volatility to watch.", change))
		case abs < 5:
			score -= 5
			reasons = append(reasons, "Price fairly stable over 24h (reassuring).")
		}
	}

	if pool.FDVUSD != nil && pool.LiquidityUSD != nil && *pool.LiquidityUSD > 0 {
		ratio := *pool.FDVUSD / *pool.LiquidityUSD
		if ratio > 100 {
			score += 10
			reasons = append(reasons, fmt.Sprintf("Very high FDV/liquidity ratio (~%.1f): token may be overvalued.", ratio))
		} else if ratio < 10 {
			score -= 5
			reasons = append(reasons, fmt.Sprintf("Reasonable FDV/liquidity ratio (~%.1f): saner valuation.", ratio))
		}
	}

	return SubScore{Name: name, Value: clamp(score), Weight: weight, Reasons: reasons}
}

// reputationScoreByLinkCount maps the number of official links present
// (0 through 4) to a fixed risk value.
var reputationScoreByLinkCount = [5]float64{85, 70, 50, 35, 20}

// ScoreReputation scores the reputation facet by counting which official
// links (website, Twitter/X, Discord, Github) are present.
func ScoreReputation(links *snapshot.ReputationLinks, weight float64) SubScore {
	name := "Reputation risk (official links)"

	if links == nil {
		return SubScore{
			Name:    name,
			Value:   fallbackReputation,
			Weight:  weight,
			Reasons: []string{"Could not retrieve official links (source unavailable)."},
		}
	}

	type linkEntry struct {
		label string
		value *string
	}
	entries := []linkEntry{
		{"Website", links.Website},
		{"Twitter / X", links.Twitter},
		{"Discord", links.Discord},
		{"Github", links.Github},
	}

	var present, missing []string
	for _, e := range entries {
		if e.value != nil && *e.value != "" {
			present = append(present, e.label)
		} else {
			missing = append(missing, e.label)
		}
	}

	score := reputationScoreByLinkCount[len(present)]
	var reasons []string

	switch len(present) {
	case 0:
		reasons = append(reasons, "No official link (website, Twitter, Discord, Github) was found.")
	case 1:
		reasons = append(reasons, fmt.Sprintf("Only one official link detected (%s). Very limited public presence.", present[0]))
	case 2:
		reasons = append(reasons, fmt.Sprintf("Two official links detected (%s). Average reputation.", joinList(present)))
	case 3:
		reasons = append(reasons, fmt.Sprintf("Several official links detected (%s). Publicly committed project.", joinList(present)))
	default:
		reasons = append(reasons, "Full presence (website, Twitter, Discord, Github). Good reputation signal.")
	}

	if len(present) > 0 {
		reasons = append(reasons, "Links found: "+joinList(present)+".")
	}
	if len(missing) > 0 {
		reasons = append(reasons, "Links missing: "+joinList(missing)+".")
	}

	return SubScore{Name: name, Value: clamp(score), Weight: weight, Reasons: reasons}
}

func joinList(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}

// severityDeltas maps a flag severity to its additive contribution to the
// advanced component.
var severityDeltas = map[rules.Severity]float64{
	rules.SeverityLow:      5,
	rules.SeverityMedium:   10,
	rules.SeverityHigh:     20,
	rules.SeverityCritical: 30,
}

// ScoreAdvanced delegates to the pattern detector and converts its flags
// into a bounded sub-score: one additive delta and one reason line per flag.
func ScoreAdvanced(onchain *snapshot.OnchainFacts, weight float64) SubScore {
	name := "Advanced contract risks"

	if onchain == nil {
		return SubScore{
			Name:    name,
			Value:   fallbackAdvanced,
			Weight:  weight,
			Reasons: []string{"Could not analyze the contract source (no on-chain data)."},
		}
	}

	contractName := ""
	if onchain.Name != nil {
		contractName = *onchain.Name
	}

	flags := rules.Detect(onchain.SourceCode, contractName)
	if len(flags) == 0 {
		return SubScore{
			Name:    name,
			Value:   20,
			Weight:  weight,
			Reasons: []string{"No advanced risk pattern detected in the source (basic heuristic analysis)."},
		}
	}

	score := 40.0 // neutral baseline
	var reasons []string
	for _, flag := range flags {
		score += severityDeltas[flag.Severity]
		reasons = append(reasons, fmt.Sprintf("%s: %s", flag.Name, flag.Reason))
	}

	return SubScore{Name: name, Value: clamp(score), Weight: weight, Reasons: reasons}
}
