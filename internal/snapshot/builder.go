package snapshot

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// OnchainFetcher retrieves the on-chain facet for a token from a block
// explorer.
type OnchainFetcher interface {
	FetchOnchain(ctx context.Context, chain Chain, contractAddress string) (*OnchainFacts, error)
}

// MarketFetcher retrieves the market facet for a token from a DEX data
// aggregator.
type MarketFetcher interface {
	FetchMarket(ctx context.Context, chain Chain, contractAddress string) (*MarketFacts, error)
}

// Builder gathers every external facet into a single FactSnapshot. Fetcher
// failures are absorbed here: a failed facet becomes a nil pointer, never an
// error surfaced to the scoring engine.
type Builder struct {
	onchain OnchainFetcher
	market  MarketFetcher
}

// NewBuilder creates a snapshot builder over the given fetchers.
func NewBuilder(onchain OnchainFetcher, market MarketFetcher) *Builder {
	return &Builder{onchain: onchain, market: market}
}

// Build fetches the on-chain and market facets concurrently, then derives the
// reputation facet by fusing links from both sources. The returned snapshot
// is always complete; missing facets are nil.
func (b *Builder) Build(ctx context.Context, chain Chain, contractAddress string) *FactSnapshot {
	contractAddress = strings.TrimSpace(contractAddress)

	snap := &FactSnapshot{
		Chain:           chain,
		ContractAddress: contractAddress,
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		facts, err := b.onchain.FetchOnchain(ctx, chain, contractAddress)
		if err != nil {
			slog.Warn("On-chain fetch failed, facet absent",
				"chain", chain, "address", contractAddress, "error", err)
			snap.OnchainErr = err.Error()
			return
		}
		snap.Onchain = facts
	}()

	go func() {
		defer wg.Done()
		facts, err := b.market.FetchMarket(ctx, chain, contractAddress)
		if err != nil {
			slog.Warn("Market fetch failed, facet absent",
				"chain", chain, "address", contractAddress, "error", err)
			snap.MarketErr = err.Error()
			return
		}
		snap.Market = facts
	}()

	wg.Wait()

	snap.Reputation = FuseReputationLinks(snap.Onchain, snap.Market)

	return snap
}

// linkSource exposes the four official links of one upstream source. Sources
// are consulted in priority order during fusion.
type linkSource interface {
	links() ReputationLinks
}

type explorerSource struct{ facts *OnchainFacts }

func (s explorerSource) links() ReputationLinks {
	return ReputationLinks{
		Website: s.facts.Website,
		Twitter: s.facts.Twitter,
		Discord: s.facts.Discord,
		Github:  s.facts.Github,
	}
}

type dexScreenerSource struct{ facts *MarketFacts }

func (s dexScreenerSource) links() ReputationLinks {
	if s.facts.Links == nil {
		return ReputationLinks{}
	}
	return *s.facts.Links
}

// FuseReputationLinks merges official links from every available source with
// a fixed precedence: block explorer first, DexScreener second. Per field,
// the first non-empty value wins. The facet is absent (nil) only when the
// explorer facet itself is absent, since the explorer is the primary source
// of record for official links.
func FuseReputationLinks(onchain *OnchainFacts, market *MarketFacts) *ReputationLinks {
	if onchain == nil {
		return nil
	}

	sources := []linkSource{explorerSource{onchain}}
	if market != nil {
		sources = append(sources, dexScreenerSource{market})
	}

	fused := &ReputationLinks{}
	for _, src := range sources {
		l := src.links()
		fused.Website = firstNonEmpty(fused.Website, l.Website)
		fused.Twitter = firstNonEmpty(fused.Twitter, l.Twitter)
		fused.Discord = firstNonEmpty(fused.Discord, l.Discord)
		fused.Github = firstNonEmpty(fused.Github, l.Github)
	}

	return fused
}

func firstNonEmpty(current, candidate *string) *string {
	if current != nil && *current != "" {
		return current
	}
	if candidate != nil && *candidate != "" {
		return candidate
	}
	return current
}
