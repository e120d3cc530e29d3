package hyperliquid

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse marks structural or schema decode failures from the
// upstream. Non-retryable; wrap with fmt.Errorf("%w: ...") for detail.
var ErrInvalidResponse = errors.New("invalid response structure")

// TransportError reports a connection-level failure reaching the upstream.
// The core does not retry; retry policy is a caller concern.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("HTTP request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-success HTTP status from the upstream, carrying
// the response body for diagnostics.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status: %d - %s", e.Status, e.Body)
}

// SymbolNotFoundError reports a lookup miss for the requested symbol.
type SymbolNotFoundError struct {
	Symbol string
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("symbol not found: %s", e.Symbol)
}
