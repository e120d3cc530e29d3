// Package hyperliquid resolves trading symbols against the Hyperliquid info
// endpoint. One upstream request yields a matched pair of metadata and asset
// context collections; the resolver joins them (positionally for perpetual
// markets, nominally for spot) and renders a deterministic text summary.
// Each resolution is a fresh upstream read; nothing is cached across calls.
package hyperliquid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ragrelay/ragrelay/logging"
)

// DefaultEndpoint is the production info endpoint.
const DefaultEndpoint = "https://api.hyperliquid.xyz/info"

// Request types understood by the info endpoint.
const (
	requestTypePerp = "metaAndAssetCtxs"
	requestTypeSpot = "spotMetaAndAssetCtxs"
)

// ClientOptions configure a Client.
type ClientOptions struct {
	Endpoint   string
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Client issues info requests and enforces the two-element response shape
// before any payload decoding happens.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     logging.Logger
}

// NewClient creates a client against the production endpoint; override
// Endpoint in tests to point at a local server.
func NewClient(optFns ...func(o *ClientOptions)) *Client {
	opts := ClientOptions{
		Endpoint:   DefaultEndpoint,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{endpoint: opts.Endpoint, httpClient: opts.HTTPClient, logger: opts.Logger}
}

// fetchPair POSTs {"type": requestType} and splits the two-element array
// response into its raw metadata and contexts halves.
func (c *Client) fetchPair(ctx context.Context, requestType string) (json.RawMessage, json.RawMessage, error) {
	body, err := json.Marshal(map[string]string{"type": requestType})
	if err != nil {
		return nil, nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("hyperliquid.request.start", "type", requestType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, nil, &StatusError{Status: resp.StatusCode, Body: string(errBody)}
	}

	var elements []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&elements); err != nil {
		return nil, nil, fmt.Errorf("%w: decoding response array: %v", ErrInvalidResponse, err)
	}
	if len(elements) != 2 {
		return nil, nil, fmt.Errorf("%w: expected [metadata, contexts], got %d elements", ErrInvalidResponse, len(elements))
	}

	c.logger.Debug("hyperliquid.request.complete", "type", requestType)

	return elements[0], elements[1], nil
}
