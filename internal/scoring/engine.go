package scoring

import (
	"context"
	"log/slog"
	"time"

	"github.com/tokensentry/tokensentry/internal/snapshot"
)

// Engine evaluates scan requests against the component scorers. It holds no
// mutable state, so concurrent scans need no coordination.
type Engine struct {
	builder *snapshot.Builder
	weights Weights
}

// NewEngine creates a scoring engine over the given snapshot builder.
func NewEngine(builder *snapshot.Builder, weights Weights) *Engine {
	return &Engine{builder: builder, weights: weights}
}

// ScoreToken builds a fact snapshot for the token and scores it. It always
// returns a complete RiskResult: upstream failures degrade to fallback
// sub-scores instead of propagating.
func (e *Engine) ScoreToken(ctx context.Context, chain snapshot.Chain, contractAddress string) *RiskResult {
	start := time.Now()

	snap := e.builder.Build(ctx, chain, contractAddress)
	result := e.ScoreSnapshot(snap)

	slog.Info("Token scan completed",
		"chain", chain,
		"address", contractAddress,
		"global_score", result.GlobalScore,
		"label", result.Label,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result
}

// ScoreSnapshot runs every component scorer against an already-built
// snapshot and aggregates the sub-scores. Component order is fixed and
// preserved in the result breakdown.
func (e *Engine) ScoreSnapshot(snap *snapshot.FactSnapshot) *RiskResult {
	components := []SubScore{
		ScoreContract(snap.Onchain, e.weights.Contract),
		ScoreMarket(snap.Market, e.weights.Market),
		ScoreReputation(snap.Reputation, e.weights.Reputation),
		ScoreAdvanced(snap.Onchain, e.weights.Advanced),
	}

	global, label := Aggregate(components)

	return &RiskResult{
		Chain:           snap.Chain,
		ContractAddress: snap.ContractAddress,
		ProjectName:     resolveField(marketName(snap.Market), onchainName(snap.Onchain)),
		Symbol:          resolveField(marketSymbol(snap.Market), onchainSymbol(snap.Onchain)),
		GlobalScore:     global,
		Label:           label,
		Components:      components,
		ReputationLinks: snap.Reputation,
	}
}

// resolveField picks the first non-empty value across sources, in priority
// order: market data first, then the explorer.
func resolveField(candidates ...*string) *string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return c
		}
	}
	return nil
}

func marketName(m *snapshot.MarketFacts) *string {
	if m == nil {
		return nil
	}
	return m.Name
}

func marketSymbol(m *snapshot.MarketFacts) *string {
	if m == nil {
		return nil
	}
	return m.Symbol
}

func onchainName(o *snapshot.OnchainFacts) *string {
	if o == nil {
		return nil
	}
	return o.Name
}

func onchainSymbol(o *snapshot.OnchainFacts) *string {
	if o == nil {
		return nil
	}
	return o.Symbol
}
