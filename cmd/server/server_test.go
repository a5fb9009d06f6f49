package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokensentry/tokensentry/internal/monitoring"
	"github.com/tokensentry/tokensentry/internal/scoring"
	"github.com/tokensentry/tokensentry/internal/snapshot"
)

const testAddress = "0x1234567890abcdef1234567890abcdef12345678"

// stubOnchainFetcher returns canned facts or a fixed error.
type stubOnchainFetcher struct {
	facts *snapshot.OnchainFacts
	err   error
}

func (s *stubOnchainFetcher) FetchOnchain(ctx context.Context, chain snapshot.Chain, addr string) (*snapshot.OnchainFacts, error) {
	return s.facts, s.err
}

type stubMarketFetcher struct {
	facts *snapshot.MarketFacts
	err   error
}

func (s *stubMarketFetcher) FetchMarket(ctx context.Context, chain snapshot.Chain, addr string) (*snapshot.MarketFacts, error) {
	return s.facts, s.err
}

func newTestRouter(onchain snapshot.OnchainFetcher, market snapshot.MarketFetcher) *gin.Engine {
	gin.SetMode(gin.TestMode)

	builder := snapshot.NewBuilder(onchain, market)
	engine := scoring.NewEngine(builder, scoring.DefaultWeights())

	return setupRouter(serverDeps{
		engine:  engine,
		builder: builder,
		metrics: monitoring.NewMetrics(),
		logger:  monitoring.NewLogger(),
	})
}

func defaultStubRouter() *gin.Engine {
	onchain := &stubOnchainFetcher{facts: &snapshot.OnchainFacts{
		Chain:              snapshot.ChainEthereum,
		ContractAddress:    testAddress,
		Name:               snapshot.StringPtr("Test Token"),
		Symbol:             snapshot.StringPtr("TST"),
		IsContractVerified: snapshot.BoolPtr(true),
		HoldersCount:       snapshot.IntPtr(5000),
		Website:            snapshot.StringPtr("https://test.example"),
	}}
	market := &stubMarketFetcher{facts: &snapshot.MarketFacts{
		Chain:           snapshot.ChainEthereum,
		ContractAddress: testAddress,
		BestPool: &snapshot.PoolSummary{
			DexID:        "uniswap",
			LiquidityUSD: snapshot.Float64Ptr(800000),
			Volume24hUSD: snapshot.Float64Ptr(250000),
		},
	}}
	return newTestRouter(onchain, market)
}

func TestHealthEndpoint(t *testing.T) {
	r := defaultStubRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Len(t, body["chains"], 3)
}

func TestScanEndpoint_Validation(t *testing.T) {
	r := defaultStubRouter()

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "missing body fields",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unsupported chain",
			body:           fmt.Sprintf(`{"chain":"solana","address":"%s"}`, testAddress),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed address",
			body:           `{"chain":"ethereum","address":"not-an-address"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "valid request",
			body:           fmt.Sprintf(`{"chain":"ethereum","address":"%s"}`, testAddress),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "chain is case-insensitive",
			body:           fmt.Sprintf(`{"chain":"Ethereum","address":"%s"}`, testAddress),
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/api/scan", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestScanEndpoint_ResultShape(t *testing.T) {
	r := defaultStubRouter()

	body := fmt.Sprintf(`{"chain":"ethereum","address":"%s"}`, testAddress)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/scan", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result scoring.RiskResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.Equal(t, snapshot.ChainEthereum, result.Chain)
	assert.Equal(t, testAddress, result.ContractAddress)
	assert.Len(t, result.Components, 4)
	assert.GreaterOrEqual(t, result.GlobalScore, 0.0)
	assert.LessOrEqual(t, result.GlobalScore, 100.0)
	assert.NotEmpty(t, result.Label)
}

func TestScanEndpoint_UpstreamFailuresDegrade(t *testing.T) {
	// Both fetchers fail; the scan must still succeed on fallback scores.
	onchain := &stubOnchainFetcher{err: fmt.Errorf("explorer down")}
	market := &stubMarketFetcher{err: fmt.Errorf("dexscreener down")}
	r := newTestRouter(onchain, market)

	body := fmt.Sprintf(`{"chain":"bsc","address":"%s"}`, testAddress)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/scan", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result scoring.RiskResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	require.Len(t, result.Components, 4)
	assert.Equal(t, 80.0, result.Components[0].Value)
	assert.Equal(t, 75.0, result.Components[1].Value)
	assert.Equal(t, 80.0, result.Components[2].Value)
	assert.Equal(t, 70.0, result.Components[3].Value)
}

func TestAnalyzeEndpoint(t *testing.T) {
	r := defaultStubRouter()

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "missing query",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "blank query",
			body:           `{"query":"   "}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "plain project query",
			body:           `{"query":"naoris audited multisig"}`,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestOnchainTokenEndpoint(t *testing.T) {
	r := defaultStubRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/onchain/token?chain=ethereum&address="+testAddress, nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var snap snapshot.FactSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.NotNil(t, snap.Onchain)
	assert.Equal(t, "Test Token", *snap.Onchain.Name)
	require.NotNil(t, snap.Reputation)
	assert.Equal(t, "https://test.example", *snap.Reputation.Website)
}

func TestMetricsEndpoint(t *testing.T) {
	r := defaultStubRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidateScanTarget(t *testing.T) {
	chain, addr, appErr := validateScanTarget("BASE", " "+testAddress+" ")
	require.Nil(t, appErr)
	assert.Equal(t, snapshot.ChainBase, chain)
	assert.Equal(t, testAddress, addr)

	_, _, appErr = validateScanTarget("tron", testAddress)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)

	_, _, appErr = validateScanTarget("ethereum", "0x123")
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
}
