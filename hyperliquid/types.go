package hyperliquid

// Upstream payload types. Field names mirror the provider's camelCase JSON;
// prices and volumes arrive as decimal strings and are passed through
// verbatim rather than parsed.

// PerpMarket is one perpetual market's metadata entry.
type PerpMarket struct {
	Name         string `json:"name"`
	SzDecimals   int    `json:"szDecimals"`
	MaxLeverage  int    `json:"maxLeverage"`
	OnlyIsolated bool   `json:"onlyIsolated"`
}

// PerpMeta is the metadata half of a metaAndAssetCtxs response.
type PerpMeta struct {
	Universe []PerpMarket `json:"universe"`
}

// PerpAssetContext is the per-market pricing context, co-indexed with
// PerpMeta.Universe.
type PerpAssetContext struct {
	Funding      string   `json:"funding"`
	OpenInterest string   `json:"openInterest"`
	PrevDayPx    string   `json:"prevDayPx"`
	DayNtlVlm    string   `json:"dayNtlVlm"`
	Premium      *string  `json:"premium"`
	OraclePx     string   `json:"oraclePx"`
	MarkPx       string   `json:"markPx"`
	MidPx        *string  `json:"midPx"`
	ImpactPxs    []string `json:"impactPxs"`
	DayBaseVlm   string   `json:"dayBaseVlm"`
}

// SpotToken is one token's metadata entry.
type SpotToken struct {
	Name        string  `json:"name"`
	SzDecimals  int     `json:"szDecimals"`
	WeiDecimals int     `json:"weiDecimals"`
	Index       int     `json:"index"`
	TokenID     string  `json:"tokenId"`
	IsCanonical bool    `json:"isCanonical"`
	EvmContract *string `json:"evmContract"`
	FullName    *string `json:"fullName"`
}

// SpotMarket is one spot trading pair; Name is a composite "BASE/QUOTE" and
// Tokens references token indices.
type SpotMarket struct {
	Name        string `json:"name"`
	Tokens      []int  `json:"tokens"`
	Index       int    `json:"index"`
	IsCanonical bool   `json:"isCanonical"`
}

// SpotMeta is the metadata half of a spotMetaAndAssetCtxs response.
type SpotMeta struct {
	Tokens   []SpotToken  `json:"tokens"`
	Universe []SpotMarket `json:"universe"`
}

// SpotAssetContext is the per-pair pricing context; Coin carries the
// market's composite name.
type SpotAssetContext struct {
	DayNtlVlm         string  `json:"dayNtlVlm"`
	MarkPx            string  `json:"markPx"`
	MidPx             *string `json:"midPx"`
	PrevDayPx         string  `json:"prevDayPx"`
	Coin              string  `json:"coin"`
	CirculatingSupply string  `json:"circulatingSupply"`
	TotalSupply       string  `json:"totalSupply"`
	DayBaseVlm        string  `json:"dayBaseVlm"`
}
