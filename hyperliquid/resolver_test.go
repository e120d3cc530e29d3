package hyperliquid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const perpPayload = `[
  {"universe": [
    {"name": "BTC", "szDecimals": 5, "maxLeverage": 50, "onlyIsolated": false},
    {"name": "SOL", "szDecimals": 2, "maxLeverage": 20, "onlyIsolated": true}
  ]},
  [
    {"funding": "0.0000125", "openInterest": "8451.2", "prevDayPx": "67123.0",
     "dayNtlVlm": "1500000000.0", "premium": "0.00002", "oraclePx": "67890.0",
     "markPx": "67900.5", "midPx": "67899.0", "impactPxs": ["67898.0", "67902.0"],
     "dayBaseVlm": "22000.5"},
    {"funding": "-0.0000031", "openInterest": "91200.0", "prevDayPx": "141.2",
     "dayNtlVlm": "320000000.0", "premium": null, "oraclePx": "144.1",
     "markPx": "144.3", "midPx": null, "impactPxs": null, "dayBaseVlm": "410000.0"}
  ]
]`

const spotPayload = `[
  {"tokens": [
    {"name": "PURR", "szDecimals": 0, "weiDecimals": 5, "index": 1,
     "tokenId": "0xc1fb593aeffbeb02f85e0308e9956a90", "isCanonical": true,
     "evmContract": null, "fullName": "Purr"},
    {"name": "USDC", "szDecimals": 2, "weiDecimals": 8, "index": 0,
     "tokenId": "0x6d1e7cde53ba9467b783cb7c530ce054", "isCanonical": true,
     "evmContract": null, "fullName": null}
  ],
  "universe": [
    {"name": "PURR/USDC", "tokens": [1, 0], "index": 0, "isCanonical": true}
  ]},
  [
    {"dayNtlVlm": "812345.1", "markPx": "0.2145", "midPx": "0.2146",
     "prevDayPx": "0.1985", "coin": "PURR/USDC", "circulatingSupply": "599760000.0",
     "totalSupply": "1000000000.0", "dayBaseVlm": "3800000.0"}
  ]
]`

// newTestResolver serves the given body for every info request and returns a
// resolver pointed at the test server.
func newTestResolver(t *testing.T, status int, body string) (*Resolver, *int) {
	t.Helper()
	requests := new(int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, []string{requestTypePerp, requestTypeSpot}, req["type"])
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	client := NewClient(func(o *ClientOptions) { o.Endpoint = srv.URL })
	return NewResolver(client), requests
}

func TestResolvePerpSuccess(t *testing.T) {
	r, _ := newTestResolver(t, http.StatusOK, perpPayload)

	out, err := r.Resolve(context.Background(), Perp, "BTC")
	require.NoError(t, err)
	assert.Contains(t, out, "**BTC** Perpetual Futures Information:")
	assert.Contains(t, out, "Mark Price: $67900.5\n")
	assert.Contains(t, out, "Mid Price: $67899.0\n")
	assert.Contains(t, out, "Oracle Price: $67890.0\n")
	assert.Contains(t, out, "Open Interest: 8451.2\n")
	assert.Contains(t, out, "Current Funding Rate: 0.0000125\n")
	assert.Contains(t, out, "Impact Prices (Buy/Sell): $67898.0 / $67902.0\n")
	assert.Contains(t, out, "Max Leverage: 50x\n")
}

func TestResolvePerpOptionalFieldsOmitted(t *testing.T) {
	r, _ := newTestResolver(t, http.StatusOK, perpPayload)

	out, err := r.Resolve(context.Background(), Perp, "SOL")
	require.NoError(t, err)
	assert.NotContains(t, out, "Mid Price")
	assert.NotContains(t, out, "Premium")
	assert.NotContains(t, out, "Impact Prices")
	assert.Contains(t, out, "Isolated Only: true\n")
}

func TestResolvePerpSymbolNotFound(t *testing.T) {
	r, _ := newTestResolver(t, http.StatusOK, perpPayload)

	_, err := r.Resolve(context.Background(), Perp, "ETH")
	var nf *SymbolNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "ETH", nf.Symbol)
}

func TestResolvePerpCaseSensitive(t *testing.T) {
	r, _ := newTestResolver(t, http.StatusOK, perpPayload)

	_, err := r.Resolve(context.Background(), Perp, "btc")
	var nf *SymbolNotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestResolvePerpCardinalityMismatch(t *testing.T) {
	mismatched := `[
	  {"universe": [{"name": "BTC", "szDecimals": 5, "maxLeverage": 50, "onlyIsolated": false}]},
	  []
	]`
	r, _ := newTestResolver(t, http.StatusOK, mismatched)

	// Every symbol fails structurally, including ones that are present in
	// the metadata; the mismatch is detected before any lookup.
	for _, symbol := range []string{"BTC", "ETH"} {
		_, err := r.Resolve(context.Background(), Perp, symbol)
		assert.ErrorIs(t, err, ErrInvalidResponse)
		var nf *SymbolNotFoundError
		assert.False(t, errors.As(err, &nf))
	}
}

func TestResolveSpotNominalJoin(t *testing.T) {
	r, _ := newTestResolver(t, http.StatusOK, spotPayload)

	// Lowercase input resolves; token names are uppercased upstream.
	out, err := r.Resolve(context.Background(), Spot, "purr")
	require.NoError(t, err)
	assert.Contains(t, out, "**PURR** Spot Information:")
	assert.Contains(t, out, "Mark Price: $0.2145\n")
	assert.Contains(t, out, "Mid Price: $0.2146\n")
	assert.Contains(t, out, "24h Volume: $812345.1\n")
	assert.Contains(t, out, "Circulating Supply: 599760000.0\n")
	assert.Contains(t, out, "Total Supply: 1000000000.0\n")
	assert.Contains(t, out, "Full Name: Purr\n")
}

func TestResolveSpotSymbolNotFound(t *testing.T) {
	r, _ := newTestResolver(t, http.StatusOK, spotPayload)

	_, err := r.Resolve(context.Background(), Spot, "DOGE")
	var nf *SymbolNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "DOGE", nf.Symbol)
}

func TestResolveSpotNoMarketForToken(t *testing.T) {
	// USDC exists as a token but no market has it as the base component.
	r, _ := newTestResolver(t, http.StatusOK, spotPayload)

	_, err := r.Resolve(context.Background(), Spot, "USDC")
	var nf *SymbolNotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestResolveIdempotentOutput(t *testing.T) {
	r, requests := newTestResolver(t, http.StatusOK, perpPayload)

	first, err := r.Resolve(context.Background(), Perp, "BTC")
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), Perp, "BTC")
	require.NoError(t, err)
	assert.Equal(t, first, second, "identical upstream data formats identically")
	assert.Equal(t, 2, *requests, "no caching across calls")
}

func TestResolveUpstreamStatusError(t *testing.T) {
	r, _ := newTestResolver(t, http.StatusTooManyRequests, `rate limited`)

	_, err := r.Resolve(context.Background(), Perp, "BTC")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Status)
	assert.Equal(t, "rate limited", statusErr.Body)
}

func TestResolveNonArrayResponse(t *testing.T) {
	r, _ := newTestResolver(t, http.StatusOK, `{"universe": []}`)

	_, err := r.Resolve(context.Background(), Perp, "BTC")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestResolveWrongElementCount(t *testing.T) {
	r, _ := newTestResolver(t, http.StatusOK, `[{"universe": []}]`)

	_, err := r.Resolve(context.Background(), Spot, "PURR")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestResolveTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := NewClient(func(o *ClientOptions) { o.Endpoint = srv.URL })
	srv.Close() // refuse connections

	r := NewResolver(client)
	_, err := r.Resolve(context.Background(), Perp, "BTC")
	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}
