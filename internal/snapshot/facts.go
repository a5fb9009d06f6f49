package snapshot

// OnchainFacts is the standardized on-chain facet for a token. Every field
// other than the identifying pair is optional: a nil pointer means the
// explorer did not report that value, which scorers must treat as a
// first-class branch rather than an error.
type OnchainFacts struct {
	Chain           Chain  `json:"chain"`
	ContractAddress string `json:"contract_address"`

	Name     *string `json:"name,omitempty"`
	Symbol   *string `json:"symbol,omitempty"`
	Decimals *int    `json:"decimals,omitempty"`

	TotalSupplyRaw        *string  `json:"total_supply_raw,omitempty"`
	TotalSupplyNormalized *float64 `json:"total_supply_normalized,omitempty"`

	// Official links as reported by the block explorer.
	Website *string `json:"website,omitempty"`
	Twitter *string `json:"twitter,omitempty"`
	Discord *string `json:"discord,omitempty"`
	Github  *string `json:"github,omitempty"`

	IsContractVerified *bool   `json:"is_contract_verified,omitempty"`
	ContractCreator    *string `json:"contract_creator,omitempty"`
	CreationTxHash     *string `json:"creation_tx_hash,omitempty"`

	HoldersCount *int `json:"holders_count,omitempty"`

	// Verified contract source text, empty when unavailable.
	SourceCode string `json:"-"`
}

// PoolSummary describes the most liquid DEX pair found for a token.
type PoolSummary struct {
	DexID       string  `json:"dex_id"`
	Chain       string  `json:"chain"`
	PairAddress string  `json:"pair_address"`
	PairName    *string `json:"pair_name,omitempty"`

	PriceUSD       *float64 `json:"price_usd,omitempty"`
	LiquidityUSD   *float64 `json:"liquidity_usd,omitempty"`
	FDVUSD         *float64 `json:"fdv_usd,omitempty"`
	Volume24hUSD   *float64 `json:"volume_24h_usd,omitempty"`
	PriceChange24h *float64 `json:"price_change_24h,omitempty"`

	URL *string `json:"url,omitempty"`
}

// MarketFacts is the market facet for a token. BestPool is nil when no DEX
// pair exists on the requested chain (a CEX-only token, for example).
type MarketFacts struct {
	Chain           Chain  `json:"chain"`
	ContractAddress string `json:"contract_address"`

	Name   *string `json:"name,omitempty"`
	Symbol *string `json:"symbol,omitempty"`

	BestPool *PoolSummary `json:"best_pool,omitempty"`

	// Social links scraped from DexScreener pair metadata, used as a
	// lower-priority source during reputation fusion.
	Links *ReputationLinks `json:"links,omitempty"`
}

// ReputationLinks holds the official links of a project, fused from every
// available source.
type ReputationLinks struct {
	Website *string `json:"website,omitempty"`
	Twitter *string `json:"twitter,omitempty"`
	Discord *string `json:"discord,omitempty"`
	Github  *string `json:"github,omitempty"`
}

// FactSnapshot bundles every facet gathered for one scan request. Each facet
// pointer is independently nil when its upstream source failed; the per-facet
// error strings record why, for diagnostics only.
type FactSnapshot struct {
	Chain           Chain  `json:"chain"`
	ContractAddress string `json:"contract_address"`

	Onchain    *OnchainFacts    `json:"onchain,omitempty"`
	Market     *MarketFacts     `json:"market,omitempty"`
	Reputation *ReputationLinks `json:"reputation,omitempty"`

	OnchainErr string `json:"onchain_error,omitempty"`
	MarketErr  string `json:"market_error,omitempty"`
}

// StringPtr is a small helper for building optional fields.
func StringPtr(s string) *string { return &s }

// IntPtr is a small helper for building optional fields.
func IntPtr(i int) *int { return &i }

// Float64Ptr is a small helper for building optional fields.
func Float64Ptr(f float64) *float64 { return &f }

// BoolPtr is a small helper for building optional fields.
func BoolPtr(b bool) *bool { return &b }
