package snapshot

import (
	"strings"

	"github.com/tokensentry/tokensentry/internal/errors"
)

// Chain identifies an EVM blockchain supported by the scanner.
type Chain string

const (
	ChainEthereum Chain = "ethereum"
	ChainBSC      Chain = "bsc"
	ChainBase     Chain = "base"
)

// explorerChainIDs maps a Chain to the Etherscan v2 chainid parameter.
var explorerChainIDs = map[Chain]int{
	ChainEthereum: 1,
	ChainBSC:      56,
	ChainBase:     8453,
}

// dexScreenerChainIDs maps a Chain to the chainId values DexScreener uses
// in its pair payloads.
var dexScreenerChainIDs = map[Chain]string{
	ChainEthereum: "ethereum",
	ChainBSC:      "bsc",
	ChainBase:     "base",
}

// ParseChain normalizes and validates a chain identifier supplied by a
// caller. Unknown chains are a client-input error, not a scan failure.
func ParseChain(raw string) (Chain, error) {
	c := Chain(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := explorerChainIDs[c]; !ok {
		return "", errors.NewValidationError("Unsupported chain", raw)
	}
	return c, nil
}

// ExplorerChainID returns the Etherscan v2 chainid for the chain.
func (c Chain) ExplorerChainID() (int, bool) {
	id, ok := explorerChainIDs[c]
	return id, ok
}

// DexScreenerChainID returns the chainId DexScreener reports for the chain.
func (c Chain) DexScreenerChainID() (string, bool) {
	id, ok := dexScreenerChainIDs[c]
	return id, ok
}

// SupportedChains lists every chain the scanner accepts.
func SupportedChains() []Chain {
	return []Chain{ChainEthereum, ChainBSC, ChainBase}
}
