package hyperliquid

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ragrelay/ragrelay/logging"
)

// Kind selects the market venue a symbol is resolved against.
type Kind int

const (
	// Spot resolves via the token → market → context nominal join.
	Spot Kind = iota
	// Perp resolves via the positional metadata ↔ context correspondence.
	Perp
)

// String returns the venue name.
func (k Kind) String() string {
	if k == Perp {
		return "perp"
	}
	return "spot"
}

// ResolverOptions configure a Resolver.
type ResolverOptions struct {
	Logger logging.Logger
}

// Resolver joins the co-fetched metadata and context collections to answer a
// symbol lookup. It holds no cross-request state; each Resolve call is a
// self-contained upstream read.
type Resolver struct {
	client *Client
	logger logging.Logger
}

// NewResolver creates a resolver over the given client.
func NewResolver(client *Client, optFns ...func(o *ResolverOptions)) *Resolver {
	opts := ResolverOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Resolver{client: client, logger: opts.Logger}
}

// Resolve looks up symbol on the given venue and returns the formatted
// market summary. Identical upstream data yields byte-identical output.
func (r *Resolver) Resolve(ctx context.Context, kind Kind, symbol string) (string, error) {
	r.logger.Debug("resolver.resolve.start", "kind", kind.String(), "symbol", symbol)

	var (
		out string
		err error
	)
	switch kind {
	case Perp:
		out, err = r.resolvePerp(ctx, symbol)
	default:
		out, err = r.resolveSpot(ctx, symbol)
	}
	if err != nil {
		r.logger.Warn("resolver.resolve.error", "kind", kind.String(), "symbol", symbol, "error", err.Error())
		return "", err
	}
	return out, nil
}

// perpPair is the joined view for one perpetual market, built at decode time
// so a metadata/context mismatch fails loudly instead of indexing blind.
type perpPair struct {
	market  PerpMarket
	context PerpAssetContext
}

func (r *Resolver) resolvePerp(ctx context.Context, symbol string) (string, error) {
	metaRaw, ctxsRaw, err := r.client.fetchPair(ctx, requestTypePerp)
	if err != nil {
		return "", err
	}

	var meta PerpMeta
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		return "", fmt.Errorf("%w: decoding perp metadata: %v", ErrInvalidResponse, err)
	}
	var contexts []PerpAssetContext
	if err := json.Unmarshal(ctxsRaw, &contexts); err != nil {
		return "", fmt.Errorf("%w: decoding perp asset contexts: %v", ErrInvalidResponse, err)
	}

	// The collections are only meaningful as a matched pair; verify
	// cardinality before any lookup is attempted.
	if len(meta.Universe) != len(contexts) {
		return "", fmt.Errorf("%w: %d markets vs %d contexts", ErrInvalidResponse, len(meta.Universe), len(contexts))
	}

	pairs := make(map[string]perpPair, len(meta.Universe))
	for i, market := range meta.Universe {
		pairs[market.Name] = perpPair{market: market, context: contexts[i]}
	}

	pair, ok := pairs[symbol] // case-sensitive exact match
	if !ok {
		return "", &SymbolNotFoundError{Symbol: symbol}
	}

	return formatPerp(pair.market, pair.context), nil
}

func (r *Resolver) resolveSpot(ctx context.Context, symbol string) (string, error) {
	metaRaw, ctxsRaw, err := r.client.fetchPair(ctx, requestTypeSpot)
	if err != nil {
		return "", err
	}

	var meta SpotMeta
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		return "", fmt.Errorf("%w: decoding spot metadata: %v", ErrInvalidResponse, err)
	}
	var contexts []SpotAssetContext
	if err := json.Unmarshal(ctxsRaw, &contexts); err != nil {
		return "", fmt.Errorf("%w: decoding spot asset contexts: %v", ErrInvalidResponse, err)
	}

	// Token names are uppercase upstream.
	wanted := strings.ToUpper(symbol)
	var token *SpotToken
	for i := range meta.Tokens {
		if meta.Tokens[i].Name == wanted {
			token = &meta.Tokens[i]
			break
		}
	}
	if token == nil {
		return "", &SymbolNotFoundError{Symbol: symbol}
	}

	// Market whose base component (before "/") is this token.
	var market *SpotMarket
	for i := range meta.Universe {
		base, _, _ := strings.Cut(meta.Universe[i].Name, "/")
		if base == token.Name {
			market = &meta.Universe[i]
			break
		}
	}
	if market == nil {
		return "", &SymbolNotFoundError{Symbol: symbol}
	}

	// Context keyed by the market's full composite name.
	var assetCtx *SpotAssetContext
	for i := range contexts {
		if contexts[i].Coin == market.Name {
			assetCtx = &contexts[i]
			break
		}
	}
	if assetCtx == nil {
		return "", &SymbolNotFoundError{Symbol: symbol}
	}

	return formatSpot(*token, *assetCtx), nil
}

// formatPerp renders the joined perpetual record with deterministic field
// order; optional fields appear only when present upstream.
func formatPerp(market PerpMarket, ctx PerpAssetContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** Perpetual Futures Information:\n\n", market.Name)
	fmt.Fprintf(&b, "Mark Price: $%s\n", ctx.MarkPx)
	if ctx.MidPx != nil {
		fmt.Fprintf(&b, "Mid Price: $%s\n", *ctx.MidPx)
	}
	fmt.Fprintf(&b, "Oracle Price: $%s\n", ctx.OraclePx)
	fmt.Fprintf(&b, "Previous Day Price: $%s\n", ctx.PrevDayPx)
	fmt.Fprintf(&b, "24h Volume: %s\n", ctx.DayBaseVlm)
	fmt.Fprintf(&b, "Open Interest: %s\n", ctx.OpenInterest)
	fmt.Fprintf(&b, "Current Funding Rate: %s\n", ctx.Funding)
	if ctx.Premium != nil {
		fmt.Fprintf(&b, "Premium: %s\n", *ctx.Premium)
	}
	if len(ctx.ImpactPxs) >= 2 {
		fmt.Fprintf(&b, "Impact Prices (Buy/Sell): $%s / $%s\n", ctx.ImpactPxs[0], ctx.ImpactPxs[1])
	}
	fmt.Fprintf(&b, "Max Leverage: %dx\n", market.MaxLeverage)
	fmt.Fprintf(&b, "Size Decimals: %d\n", market.SzDecimals)
	fmt.Fprintf(&b, "Isolated Only: %t\n", market.OnlyIsolated)
	return b.String()
}

// formatSpot renders the joined spot record with deterministic field order.
func formatSpot(token SpotToken, ctx SpotAssetContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** Spot Information:\n\n", token.Name)
	fmt.Fprintf(&b, "Mark Price: $%s\n", ctx.MarkPx)
	if ctx.MidPx != nil {
		fmt.Fprintf(&b, "Mid Price: $%s\n", *ctx.MidPx)
	}
	fmt.Fprintf(&b, "Previous Day Price: $%s\n", ctx.PrevDayPx)
	fmt.Fprintf(&b, "24h Volume: $%s\n", ctx.DayNtlVlm)
	fmt.Fprintf(&b, "24h Base Volume: %s\n", ctx.DayBaseVlm)
	fmt.Fprintf(&b, "Circulating Supply: %s\n", ctx.CirculatingSupply)
	fmt.Fprintf(&b, "Total Supply: %s\n", ctx.TotalSupply)
	if token.FullName != nil {
		fmt.Fprintf(&b, "Full Name: %s\n", *token.FullName)
	}
	return b.String()
}
