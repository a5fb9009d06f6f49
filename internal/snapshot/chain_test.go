package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChain(t *testing.T) {
	tests := []struct {
		raw      string
		expected Chain
		wantErr  bool
	}{
		{"ethereum", ChainEthereum, false},
		{"bsc", ChainBSC, false},
		{"base", ChainBase, false},
		{"Ethereum", ChainEthereum, false},
		{"  BSC  ", ChainBSC, false},
		{"solana", "", true},
		{"", "", true},
		{"eth", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			chain, err := ParseChain(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, chain)
		})
	}
}

func TestExplorerChainIDs(t *testing.T) {
	tests := []struct {
		chain    Chain
		expected int
	}{
		{ChainEthereum, 1},
		{ChainBSC, 56},
		{ChainBase, 8453},
	}

	for _, tt := range tests {
		id, ok := tt.chain.ExplorerChainID()
		require.True(t, ok)
		assert.Equal(t, tt.expected, id)
	}

	_, ok := Chain("solana").ExplorerChainID()
	assert.False(t, ok)
}

func TestSupportedChains(t *testing.T) {
	chains := SupportedChains()
	require.Len(t, chains, 3)
	for _, c := range chains {
		_, ok := c.DexScreenerChainID()
		assert.True(t, ok, "chain %s must have a DexScreener mapping", c)
	}
}
