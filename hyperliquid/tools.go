package hyperliquid

import (
	"context"

	"github.com/ragrelay/ragrelay/tool"
)

// Tool names registered with the agent.
const (
	PerpToolName = "search_hyperliquid_perp"
	SpotToolName = "search_hyperliquid_spot"
)

func symbolSchema(example string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"symbol": map[string]any{
				"type":        "string",
				"description": "Trading symbol to search for (e.g., " + example + ")",
			},
		},
		"required": []string{"symbol"},
	}
}

// NewPerpSearchTool exposes perpetual futures lookups as an agent tool.
// Every invocation performs a fresh upstream read.
func NewPerpSearchTool(r *Resolver) tool.Tool {
	return tool.NewFunctionTool(
		PerpToolName,
		"Search for perpetual futures prices and data on Hyperliquid exchange",
		symbolSchema("'BTC', 'ETH'"),
		func(ctx context.Context, args map[string]any) (string, error) {
			symbol, _ := args["symbol"].(string)
			return r.Resolve(ctx, Perp, symbol)
		},
	)
}

// NewSpotSearchTool exposes spot market lookups as an agent tool.
func NewSpotSearchTool(r *Resolver) tool.Tool {
	return tool.NewFunctionTool(
		SpotToolName,
		"Search for spot prices on Hyperliquid exchange",
		symbolSchema("'PURR', 'SPH'"),
		func(ctx context.Context, args map[string]any) (string, error) {
			symbol, _ := args["symbol"].(string)
			return r.Resolve(ctx, Spot, symbol)
		},
	)
}
