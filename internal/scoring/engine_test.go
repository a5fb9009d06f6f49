package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokensentry/tokensentry/internal/snapshot"
)

type fixedOnchain struct {
	facts *snapshot.OnchainFacts
	err   error
}

func (f fixedOnchain) FetchOnchain(ctx context.Context, chain snapshot.Chain, addr string) (*snapshot.OnchainFacts, error) {
	return f.facts, f.err
}

type fixedMarket struct {
	facts *snapshot.MarketFacts
	err   error
}

func (f fixedMarket) FetchMarket(ctx context.Context, chain snapshot.Chain, addr string) (*snapshot.MarketFacts, error) {
	return f.facts, f.err
}

func TestScoreSnapshotComponentOrder(t *testing.T) {
	engine := NewEngine(nil, DefaultWeights())

	snap := &snapshot.FactSnapshot{
		Chain:           snapshot.ChainEthereum,
		ContractAddress: "0xabc",
	}
	result := engine.ScoreSnapshot(snap)

	require.Len(t, result.Components, 4)
	assert.Equal(t, "On-chain contract risk", result.Components[0].Name)
	assert.Equal(t, "Market & liquidity risk", result.Components[1].Name)
	assert.Equal(t, "Reputation risk (official links)", result.Components[2].Name)
	assert.Equal(t, "Advanced contract risks", result.Components[3].Name)
}

func TestScoreSnapshotAllFacetsAbsent(t *testing.T) {
	engine := NewEngine(nil, DefaultWeights())

	result := engine.ScoreSnapshot(&snapshot.FactSnapshot{
		Chain:           snapshot.ChainBSC,
		ContractAddress: "0xdef",
	})

	// Fallbacks: 80*0.4 + 75*0.25 + 80*0.15 + 70*0.2 = 76.75
	assert.InDelta(t, 76.75, result.GlobalScore, 1e-9)
	assert.Equal(t, LabelHigh, result.Label)
	assert.Nil(t, result.ProjectName)
	assert.Nil(t, result.ReputationLinks)
}

func TestScoreSnapshotNameResolutionPrefersMarket(t *testing.T) {
	engine := NewEngine(nil, DefaultWeights())

	snap := &snapshot.FactSnapshot{
		Onchain: &snapshot.OnchainFacts{
			Name:   snapshot.StringPtr("ExplorerName"),
			Symbol: snapshot.StringPtr("EXP"),
		},
		Market: &snapshot.MarketFacts{
			Name: snapshot.StringPtr("MarketName"),
		},
	}
	result := engine.ScoreSnapshot(snap)

	require.NotNil(t, result.ProjectName)
	assert.Equal(t, "MarketName", *result.ProjectName)
	// Market has no symbol; the explorer fills the gap.
	require.NotNil(t, result.Symbol)
	assert.Equal(t, "EXP", *result.Symbol)
}

func TestScoreTokenEndToEnd(t *testing.T) {
	onchain := fixedOnchain{facts: &snapshot.OnchainFacts{
		Chain:                 snapshot.ChainEthereum,
		ContractAddress:       "0xabc",
		Name:                  snapshot.StringPtr("Solid Token"),
		IsContractVerified:    snapshot.BoolPtr(true),
		TotalSupplyNormalized: snapshot.Float64Ptr(1_000_000),
		HoldersCount:          snapshot.IntPtr(20_000),
		Website:               snapshot.StringPtr("https://solid.example"),
		Twitter:               snapshot.StringPtr("https://x.com/solid"),
		Discord:               snapshot.StringPtr("https://discord.gg/solid"),
		Github:                snapshot.StringPtr("https://github.com/solid"),
	}}
	market := fixedMarket{facts: &snapshot.MarketFacts{
		Chain:           snapshot.ChainEthereum,
		ContractAddress: "0xabc",
		BestPool: &snapshot.PoolSummary{
			LiquidityUSD:   snapshot.Float64Ptr(10_000_000),
			Volume24hUSD:   snapshot.Float64Ptr(5_000_000),
			PriceChange24h: snapshot.Float64Ptr(0.5),
			FDVUSD:         snapshot.Float64Ptr(50_000_000),
		},
	}}

	builder := snapshot.NewBuilder(onchain, market)
	engine := NewEngine(builder, DefaultWeights())

	result := engine.ScoreToken(context.Background(), snapshot.ChainEthereum, "0xabc")

	// contract 5*0.4 + market 10*0.25 + reputation 20*0.15 + advanced 20*0.2 = 11.5
	assert.InDelta(t, 11.5, result.GlobalScore, 1e-9)
	assert.Equal(t, LabelVeryLow, result.Label)
	require.NotNil(t, result.ReputationLinks)
	assert.Equal(t, "https://solid.example", *result.ReputationLinks.Website)
}

func TestScoreTokenOnePartialFailure(t *testing.T) {
	onchain := fixedOnchain{err: assert.AnError}
	market := fixedMarket{facts: &snapshot.MarketFacts{
		BestPool: &snapshot.PoolSummary{
			LiquidityUSD: snapshot.Float64Ptr(1_000_000),
		},
	}}

	builder := snapshot.NewBuilder(onchain, market)
	engine := NewEngine(builder, DefaultWeights())

	result := engine.ScoreToken(context.Background(), snapshot.ChainBase, "0xabc")

	require.Len(t, result.Components, 4)
	// Contract, reputation and advanced degrade to fallbacks, market scores
	// normally: 40 (base) + 0 (liq) + 10 (volume unknown) = 50.
	assert.Equal(t, 80.0, result.Components[0].Value)
	assert.Equal(t, 50.0, result.Components[1].Value)
	assert.Equal(t, 80.0, result.Components[2].Value)
	assert.Equal(t, 70.0, result.Components[3].Value)
}

func TestCustomWeightsChangeAggregate(t *testing.T) {
	snap := &snapshot.FactSnapshot{}

	defaultResult := NewEngine(nil, DefaultWeights()).ScoreSnapshot(snap)
	contractHeavy := NewEngine(nil, Weights{Contract: 1, Market: 0.01, Reputation: 0.01, Advanced: 0.01}).ScoreSnapshot(snap)

	// With contract dominating, the global score moves toward the contract
	// fallback of 80.
	assert.Greater(t, contractHeavy.GlobalScore, defaultResult.GlobalScore)
}
