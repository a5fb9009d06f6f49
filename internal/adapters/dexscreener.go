package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tokensentry/tokensentry/internal/errors"
	"github.com/tokensentry/tokensentry/internal/monitoring"
	"github.com/tokensentry/tokensentry/internal/resilience"
	"github.com/tokensentry/tokensentry/internal/snapshot"
)

const dexScreenerBaseURL = "https://api.dexscreener.com/latest/dex"

// DexScreenerClient fetches market facts from the public DexScreener API.
// No API key is required; the documented limit is 300 requests per minute.
type DexScreenerClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
	metrics *monitoring.Metrics
}

// NewDexScreenerClient creates a market data client.
func NewDexScreenerClient(metrics *monitoring.Metrics) *DexScreenerClient {
	return &DexScreenerClient{
		baseURL: dexScreenerBaseURL,
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
func (c *DexScreenerClient) SetBaseURL(u string) { c.baseURL = u }

type dexPairToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type dexPairLiquidity struct {
	USD json.Number `json:"usd"`
}

type dexPairInfoWebsite struct {
	URL string `json:"url"`
}

type dexPairInfoSocial struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type dexPairInfo struct {
	Websites []dexPairInfoWebsite `json:"websites"`
	Socials  []dexPairInfoSocial  `json:"socials"`
}

type dexPair struct {
	ChainID     string `json:"chainId"`
	DexID       string `json:"dexId"`
	URL         string `json:"url"`
	PairAddress string `json:"pairAddress"`

	BaseToken  dexPairToken `json:"baseToken"`
	QuoteToken dexPairToken `json:"quoteToken"`

	PriceUSD    string                 `json:"priceUsd"`
	Liquidity   *dexPairLiquidity      `json:"liquidity"`
	FDV         *float64               `json:"fdv"`
	Volume      map[string]json.Number `json:"volume"`
	PriceChange map[string]json.Number `json:"priceChange"`

	Info *dexPairInfo `json:"info"`
}

type dexScreenerResponse struct {
	Pairs []dexPair `json:"pairs"`
}

// FetchMarket retrieves the market facet for a token: the most liquid pair on
// the requested chain plus any social links DexScreener carries for it. A
// token with no pair on the chain yields facts with a nil BestPool, not an
// error.
func (c *DexScreenerClient) FetchMarket(ctx context.Context, chain snapshot.Chain, contractAddress string) (*snapshot.MarketFacts, error) {
	dexChainID, ok := chain.DexScreenerChainID()
	if !ok {
		return nil, errors.NewValidationError("Unsupported chain", string(chain))
	}

	contractAddress = strings.TrimSpace(contractAddress)
	endpoint := c.baseURL + "/tokens/" + contractAddress

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.NewTimeoutError("DexScreener rate limiter wait cancelled", err)
	}

	var payload dexScreenerResponse
	callErr := c.breaker.Call(func() error {
		resp, err := resilience.RetryHTTP(ctx, resilience.DefaultRetryConfig(), func() (*http.Response, error) {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if reqErr != nil {
				return nil, reqErr
			}
			if c.metrics != nil {
				c.metrics.IncrementDexScreenerCalls()
			}
			return c.client.Do(req)
		})
		if err != nil {
			if c.metrics != nil {
				c.metrics.RecordExternalAPIRequest("dexscreener", false)
			}
			return errors.NewExternalAPIError("DexScreener", err)
		}
		defer resp.Body.Close()

		if c.metrics != nil {
			c.metrics.RecordExternalAPIRequest("dexscreener", resp.StatusCode == http.StatusOK)
		}

		if resp.StatusCode != http.StatusOK {
			return errors.NewExternalAPIError("DexScreener",
				fmt.Errorf("unexpected status %d", resp.StatusCode))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return errors.NewExternalAPIError("DexScreener", err)
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return errors.NewExternalAPIError("DexScreener", fmt.Errorf("malformed response: %w", err))
		}
		return nil
	})
	if callErr != nil {
		return nil, errors.ToAppError(callErr)
	}

	facts := &snapshot.MarketFacts{
		Chain:           chain,
		ContractAddress: contractAddress,
	}

	best := selectBestPair(payload.Pairs, dexChainID)
	if best == nil {
		return facts, nil
	}

	if best.BaseToken.Name != "" {
		facts.Name = snapshot.StringPtr(best.BaseToken.Name)
	}
	if best.BaseToken.Symbol != "" {
		facts.Symbol = snapshot.StringPtr(best.BaseToken.Symbol)
	}

	facts.BestPool = summarizePair(best)
	facts.Links = scrapeLinks(best.Info)

	return facts, nil
}

// selectBestPair returns the pair with the deepest USD liquidity among those
// on the requested chain, or nil when none match.
func selectBestPair(pairs []dexPair, dexChainID string) *dexPair {
	var best *dexPair
	bestLiq := -1.0
	for i := range pairs {
		p := &pairs[i]
		if p.ChainID != dexChainID {
			continue
		}
		liq := 0.0
		if p.Liquidity != nil {
			liq = numberOrZero(p.Liquidity.USD)
		}
		if liq > bestLiq {
			best = p
			bestLiq = liq
		}
	}
	return best
}

func summarizePair(p *dexPair) *snapshot.PoolSummary {
	summary := &snapshot.PoolSummary{
		DexID:       p.DexID,
		Chain:       p.ChainID,
		PairAddress: p.PairAddress,
	}

	if p.BaseToken.Symbol != "" && p.QuoteToken.Symbol != "" {
		summary.PairName = snapshot.StringPtr(p.BaseToken.Symbol + "/" + p.QuoteToken.Symbol)
	}
	if p.URL != "" {
		summary.URL = snapshot.StringPtr(p.URL)
	}

	if v, err := strconv.ParseFloat(p.PriceUSD, 64); err == nil {
		summary.PriceUSD = snapshot.Float64Ptr(v)
	}
	if p.Liquidity != nil {
		if v, err := p.Liquidity.USD.Float64(); err == nil {
			summary.LiquidityUSD = snapshot.Float64Ptr(v)
		}
	}
	if p.FDV != nil {
		summary.FDVUSD = snapshot.Float64Ptr(*p.FDV)
	}
	if n, ok := p.Volume["h24"]; ok {
		if v, err := n.Float64(); err == nil {
			summary.Volume24hUSD = snapshot.Float64Ptr(v)
		}
	}
	if n, ok := p.PriceChange["h24"]; ok {
		if v, err := n.Float64(); err == nil {
			summary.PriceChange24h = snapshot.Float64Ptr(v)
		}
	}

	return summary
}

// scrapeLinks extracts official links from DexScreener pair metadata. The
// first website listed and the first social of each recognized type win.
func scrapeLinks(info *dexPairInfo) *snapshot.ReputationLinks {
	if info == nil {
		return nil
	}

	links := &snapshot.ReputationLinks{}
	found := false

	if len(info.Websites) > 0 && info.Websites[0].URL != "" {
		links.Website = snapshot.StringPtr(info.Websites[0].URL)
		found = true
	}

	for _, s := range info.Socials {
		if s.URL == "" {
			continue
		}
		switch strings.ToLower(s.Type) {
		case "twitter", "x":
			if links.Twitter == nil {
				links.Twitter = snapshot.StringPtr(s.URL)
				found = true
			}
		case "discord":
			if links.Discord == nil {
				links.Discord = snapshot.StringPtr(s.URL)
				found = true
			}
		case "github":
			if links.Github == nil {
				links.Github = snapshot.StringPtr(s.URL)
				found = true
			}
		}
	}

	if !found {
		return nil
	}
	return links
}

func numberOrZero(n json.Number) float64 {
	v, err := n.Float64()
	if err != nil {
		return 0
	}
	return v
}
