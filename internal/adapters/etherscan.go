// Package adapters contains the clients for external fact sources. They are
// glue: every failure is returned as a typed error that the snapshot builder
// converts to an absent facet before scoring.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tokensentry/tokensentry/internal/errors"
	"github.com/tokensentry/tokensentry/internal/monitoring"
	"github.com/tokensentry/tokensentry/internal/resilience"
	"github.com/tokensentry/tokensentry/internal/snapshot"
)

const etherscanBaseURL = "https://api.etherscan.io/v2/api"

// EtherscanClient fetches on-chain token facts from the Etherscan v2 API,
// which serves multiple EVM chains through a chainid parameter.
type EtherscanClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
	metrics *monitoring.Metrics
}

// NewEtherscanClient creates an explorer client. The free Etherscan tier
// allows 5 requests per second, which the limiter enforces.
func NewEtherscanClient(apiKey string, metrics *monitoring.Metrics) *EtherscanClient {
	return &EtherscanClient{
		apiKey:  apiKey,
		baseURL: etherscanBaseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			FailureThreshold: 5,
			RecoveryTimeout:  30 * time.Second,
			SuccessThreshold: 3,
		}),
		metrics: metrics,
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (c *EtherscanClient) SetBaseURL(u string) { c.baseURL = u }

// explorerEnvelope is the common Etherscan response wrapper. Result can be a
// list, an object or a plain string depending on the action.
type explorerEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// sourceCodeRecord is one entry of the getsourcecode result list.
type sourceCodeRecord struct {
	SourceCode      string `json:"SourceCode"`
	ContractName    string `json:"ContractName"`
	TokenName       string `json:"TokenName"`
	Symbol          string `json:"Symbol"`
	TokenSymbol     string `json:"TokenSymbol"`
	ContractCreator string `json:"ContractCreator"`
	TxHash          string `json:"TxHash"`
	Website         string `json:"Website"`
	Twitter         string `json:"Twitter"`
	Discord         string `json:"Discord"`
	Github          string `json:"Github"`
}

// tokenInfoRecord is one entry of the tokeninfo result list. Etherscan is
// inconsistent about field names across plans, hence the aliases resolved in
// code.
type tokenInfoRecord struct {
	TokenName        string `json:"tokenName"`
	Name             string `json:"name"`
	TokenSymbol      string `json:"tokenSymbol"`
	Symbol           string `json:"symbol"`
	Divisor          string `json:"divisor"`
	Decimals         string `json:"decimals"`
	TokenHolderCount string `json:"tokenHolderCount"`
	Holders          string `json:"holders"`
	Website          string `json:"website"`
	Twitter          string `json:"twitter"`
	Discord          string `json:"discord"`
	Github           string `json:"github"`
}

// FetchOnchain retrieves and normalizes the on-chain facet for a token.
// Mandatory calls are getsourcecode and tokensupply; tokeninfo is
// plan-dependent and its failure is tolerated.
func (c *EtherscanClient) FetchOnchain(ctx context.Context, chain snapshot.Chain, contractAddress string) (*snapshot.OnchainFacts, error) {
	if c.apiKey == "" {
		return nil, errors.NewExternalAPIError("Etherscan", fmt.Errorf("missing API key"))
	}

	chainID, ok := chain.ExplorerChainID()
	if !ok {
		return nil, errors.NewValidationError("Unsupported chain", string(chain))
	}

	contractAddress = strings.TrimSpace(contractAddress)

	facts := &snapshot.OnchainFacts{
		Chain:           chain,
		ContractAddress: contractAddress,
	}

	// 1) Contract source and verification metadata.
	var srcEnv explorerEnvelope
	err := c.call(ctx, map[string]string{
		"chainid": strconv.Itoa(chainID),
		"module":  "contract",
		"action":  "getsourcecode",
		"address": contractAddress,
	}, &srcEnv)
	if err != nil {
		return nil, err
	}

	var srcRecords []sourceCodeRecord
	if err := json.Unmarshal(srcEnv.Result, &srcRecords); err != nil {
		var single sourceCodeRecord
		if err := json.Unmarshal(srcEnv.Result, &single); err == nil {
			srcRecords = []sourceCodeRecord{single}
		}
	}

	if len(srcRecords) > 0 {
		src := srcRecords[0]
		facts.SourceCode = src.SourceCode
		facts.IsContractVerified = snapshot.BoolPtr(src.SourceCode != "")
		setIfPresent(&facts.Name, src.ContractName, src.TokenName)
		setIfPresent(&facts.Symbol, src.Symbol, src.TokenSymbol)
		setIfPresent(&facts.ContractCreator, src.ContractCreator)
		setIfPresent(&facts.CreationTxHash, src.TxHash)
		setIfPresent(&facts.Website, src.Website)
		setIfPresent(&facts.Twitter, src.Twitter)
		setIfPresent(&facts.Discord, src.Discord)
		setIfPresent(&facts.Github, src.Github)
	}

	// 2) Raw total supply.
	var supplyEnv explorerEnvelope
	err = c.call(ctx, map[string]string{
		"chainid":         strconv.Itoa(chainID),
		"module":          "stats",
		"action":          "tokensupply",
		"contractaddress": contractAddress,
	}, &supplyEnv)
	if err != nil {
		return nil, err
	}

	var supplyRaw string
	if err := json.Unmarshal(supplyEnv.Result, &supplyRaw); err == nil && supplyRaw != "" {
		facts.TotalSupplyRaw = snapshot.StringPtr(supplyRaw)
	}

	// 3) Token info is optional; some API plans reject the action.
	var infoEnv explorerEnvelope
	infoErr := c.call(ctx, map[string]string{
		"chainid":         strconv.Itoa(chainID),
		"module":          "token",
		"action":          "tokeninfo",
		"contractaddress": contractAddress,
	}, &infoEnv)

	if infoErr == nil {
		var infoRecords []tokenInfoRecord
		if err := json.Unmarshal(infoEnv.Result, &infoRecords); err != nil {
			var single tokenInfoRecord
			if err := json.Unmarshal(infoEnv.Result, &single); err == nil {
				infoRecords = []tokenInfoRecord{single}
			}
		}

		if len(infoRecords) > 0 {
			info := infoRecords[0]
			if facts.Name == nil {
				setIfPresent(&facts.Name, info.TokenName, info.Name)
			}
			if facts.Symbol == nil {
				setIfPresent(&facts.Symbol, info.TokenSymbol, info.Symbol)
			}
			facts.Decimals = safeInt(info.Divisor, info.Decimals)
			facts.HoldersCount = safeInt(info.TokenHolderCount, info.Holders)
			if facts.Website == nil {
				setIfPresent(&facts.Website, info.Website)
			}
			if facts.Twitter == nil {
				setIfPresent(&facts.Twitter, info.Twitter)
			}
			if facts.Discord == nil {
				setIfPresent(&facts.Discord, info.Discord)
			}
			if facts.Github == nil {
				setIfPresent(&facts.Github, info.Github)
			}
		}
	}

	facts.TotalSupplyNormalized = normalizeSupply(facts.TotalSupplyRaw, facts.Decimals)

	return facts, nil
}

// call performs one rate-limited, breaker-protected, retried GET against the
// explorer and decodes its envelope.
func (c *EtherscanClient) call(ctx context.Context, params map[string]string, out *explorerEnvelope) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.NewTimeoutError("Etherscan rate limiter wait cancelled", err)
	}

	q := url.Values{}
	q.Set("apikey", c.apiKey)
	for k, v := range params {
		q.Set(k, v)
	}
	endpoint := c.baseURL + "?" + q.Encode()

	var body []byte
	callErr := c.breaker.Call(func() error {
		resp, err := resilience.RetryHTTP(ctx, resilience.DefaultRetryConfig(), func() (*http.Response, error) {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if reqErr != nil {
				return nil, reqErr
			}
			if c.metrics != nil {
				c.metrics.IncrementExplorerCalls()
			}
			return c.client.Do(req)
		})
		if err != nil {
			if c.metrics != nil {
				c.metrics.RecordExternalAPIRequest("etherscan", false)
			}
			return errors.NewExternalAPIError("Etherscan", err)
		}
		defer resp.Body.Close()

		if c.metrics != nil {
			c.metrics.RecordExternalAPIRequest("etherscan", resp.StatusCode == http.StatusOK)
		}

		if resp.StatusCode != http.StatusOK {
			return errors.NewExternalAPIError("Etherscan",
				fmt.Errorf("unexpected status %d", resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return errors.NewExternalAPIError("Etherscan", err)
		}
		return nil
	})
	if callErr != nil {
		return errors.ToAppError(callErr)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.NewExternalAPIError("Etherscan", fmt.Errorf("malformed response: %w", err))
	}

	// Etherscan reports status "1" with message OK on success. "NOTOK" with
	// an informative result is an API-level failure.
	if out.Status != "" && out.Status != "1" && out.Message != "OK" {
		return errors.NewExternalAPIError("Etherscan",
			fmt.Errorf("API error: status=%s message=%s", out.Status, out.Message))
	}

	return nil
}

// setIfPresent assigns the first non-empty candidate to dst.
func setIfPresent(dst **string, candidates ...string) {
	for _, c := range candidates {
		if c != "" {
			*dst = snapshot.StringPtr(c)
			return
		}
	}
}

// safeInt parses the first parsable candidate, treating malformed values as
// absent rather than failing.
func safeInt(candidates ...string) *int {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if v, err := strconv.Atoi(c); err == nil {
			return snapshot.IntPtr(v)
		}
	}
	return nil
}

// normalizeSupply converts the raw supply into token units. Either input
// missing means the normalized supply stays unknown.
func normalizeSupply(raw *string, decimals *int) *float64 {
	if raw == nil || decimals == nil {
		return nil
	}
	v, err := strconv.ParseFloat(*raw, 64)
	if err != nil {
		return nil
	}
	div := 1.0
	for i := 0; i < *decimals; i++ {
		div *= 10
	}
	return snapshot.Float64Ptr(v / div)
}
