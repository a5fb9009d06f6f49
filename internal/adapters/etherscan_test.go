package adapters

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokensentry/tokensentry/internal/snapshot"
)

const testContract = "0x1234567890abcdef1234567890abcdef12345678"

func newExplorerServer(t *testing.T, tokenInfoStatus int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "1", r.URL.Query().Get("chainid"))

		switch r.URL.Query().Get("action") {
		case "getsourcecode":
			fmt.Fprint(w, `{"status":"1","message":"OK","result":[{
				"SourceCode":"contract Token is Ownable { function mint(address to) external onlyOwner {} }",
				"ContractName":"Token",
				"Symbol":"TKN",
				"ContractCreator":"0xcreator",
				"TxHash":"0xdeadbeef",
				"Website":"https://token.example"
			}]}`)
		case "tokensupply":
			fmt.Fprint(w, `{"status":"1","message":"OK","result":"1000000000000000000000000"}`)
		case "tokeninfo":
			if tokenInfoStatus != http.StatusOK {
				w.WriteHeader(tokenInfoStatus)
				return
			}
			fmt.Fprint(w, `{"status":"1","message":"OK","result":[{
				"tokenName":"Token Official",
				"tokenSymbol":"TKN",
				"divisor":"18",
				"tokenHolderCount":"4321",
				"twitter":"https://x.com/token"
			}]}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func TestFetchOnchain(t *testing.T) {
	srv := newExplorerServer(t, http.StatusOK)
	defer srv.Close()

	client := NewEtherscanClient("test-key", nil)
	client.SetBaseURL(srv.URL)

	facts, err := client.FetchOnchain(context.Background(), snapshot.ChainEthereum, testContract)
	require.NoError(t, err)

	assert.Equal(t, snapshot.ChainEthereum, facts.Chain)
	assert.Equal(t, testContract, facts.ContractAddress)

	require.NotNil(t, facts.Name)
	assert.Equal(t, "Token", *facts.Name)
	require.NotNil(t, facts.IsContractVerified)
	assert.True(t, *facts.IsContractVerified)
	assert.Contains(t, facts.SourceCode, "function mint")

	require.NotNil(t, facts.TotalSupplyRaw)
	assert.Equal(t, "1000000000000000000000000", *facts.TotalSupplyRaw)
	require.NotNil(t, facts.Decimals)
	assert.Equal(t, 18, *facts.Decimals)
	require.NotNil(t, facts.TotalSupplyNormalized)
	assert.InDelta(t, 1_000_000, *facts.TotalSupplyNormalized, 1e-6)

	require.NotNil(t, facts.HoldersCount)
	assert.Equal(t, 4321, *facts.HoldersCount)

	// getsourcecode links win; tokeninfo fills gaps.
	assert.Equal(t, "https://token.example", *facts.Website)
	assert.Equal(t, "https://x.com/token", *facts.Twitter)
	assert.Equal(t, "0xcreator", *facts.ContractCreator)
}

func TestFetchOnchainTokenInfoFailureTolerated(t *testing.T) {
	// tokeninfo is plan-gated on Etherscan; its failure must not sink the
	// whole fetch.
	srv := newExplorerServer(t, http.StatusForbidden)
	defer srv.Close()

	client := NewEtherscanClient("test-key", nil)
	client.SetBaseURL(srv.URL)

	facts, err := client.FetchOnchain(context.Background(), snapshot.ChainEthereum, testContract)
	require.NoError(t, err)

	require.NotNil(t, facts.IsContractVerified)
	assert.True(t, *facts.IsContractVerified)
	assert.Nil(t, facts.Decimals)
	assert.Nil(t, facts.HoldersCount)
	// Without decimals the supply stays raw only.
	assert.NotNil(t, facts.TotalSupplyRaw)
	assert.Nil(t, facts.TotalSupplyNormalized)
}

func TestFetchOnchainMissingAPIKey(t *testing.T) {
	client := NewEtherscanClient("", nil)
	_, err := client.FetchOnchain(context.Background(), snapshot.ChainEthereum, testContract)
	require.Error(t, err)
}

func TestFetchOnchainUnsupportedChain(t *testing.T) {
	client := NewEtherscanClient("test-key", nil)
	_, err := client.FetchOnchain(context.Background(), snapshot.Chain("solana"), testContract)
	require.Error(t, err)
}

func TestSafeIntMalformedIsAbsent(t *testing.T) {
	assert.Nil(t, safeInt("", "not-a-number"))
	require.NotNil(t, safeInt("", "42"))
	assert.Equal(t, 42, *safeInt("", "42"))
	// First parsable candidate wins.
	assert.Equal(t, 7, *safeInt("7", "42"))
}

func TestNormalizeSupply(t *testing.T) {
	assert.Nil(t, normalizeSupply(nil, snapshot.IntPtr(18)))
	assert.Nil(t, normalizeSupply(snapshot.StringPtr("100"), nil))
	assert.Nil(t, normalizeSupply(snapshot.StringPtr("abc"), snapshot.IntPtr(18)))

	v := normalizeSupply(snapshot.StringPtr("5000000"), snapshot.IntPtr(6))
	require.NotNil(t, v)
	assert.InDelta(t, 5.0, *v, 1e-9)
}
