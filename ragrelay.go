// Package ragrelay provides a high-level façade over the gateway core. Most
// applications interact with this package by:
//  1. Creating a Gateway via New() with a completer, an embedder, the
//     document corpus and a channel binding
//  2. Routing inbound commands through Router() (one goroutine per inbound
//     event), or calling Prompt directly for non-deferred surfaces
//
// The façade wires the context store, the tool registry (Hyperliquid spot
// and perp search by default), the agent and the deferred responder. All
// defaults are safe for local development; production deployments supply a
// structured logger and their real channel transport.
package ragrelay

import (
	"context"
	"fmt"

	"github.com/ragrelay/ragrelay/agent"
	"github.com/ragrelay/ragrelay/hyperliquid"
	"github.com/ragrelay/ragrelay/logging"
	"github.com/ragrelay/ragrelay/model"
	"github.com/ragrelay/ragrelay/responder"
	"github.com/ragrelay/ragrelay/store"
	"github.com/ragrelay/ragrelay/tool"
)

// Options configures the Gateway instance.
type Options struct {
	// Documents is the raw corpus embedded at construction time.
	Documents []string

	// HyperliquidEndpoint overrides the market-data upstream (tests, proxies).
	HyperliquidEndpoint string

	// ExtraTools are registered after the built-in market tools.
	ExtraTools []tool.Tool

	// AgentOptions tune the prompt cycle (top-K, iteration cap, char limit).
	AgentOptions []func(o *agent.Options)

	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Gateway aggregates the assembled core components.
type Gateway struct {
	store     *store.Store
	registry  *tool.Registry
	agent     *agent.Agent
	responder *responder.Responder
	router    *responder.Router
}

// New embeds the corpus and wires the full request path. Any embedding
// failure or duplicate tool name aborts construction.
func New(
	ctx context.Context,
	completer model.Completer,
	embedder model.Embedder,
	channel responder.Channel,
	optFns ...func(o *Options),
) (*Gateway, error) {
	opts := Options{
		HyperliquidEndpoint: hyperliquid.DefaultEndpoint,
		Logger:              logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s, err := store.New(ctx, opts.Documents, embedder, func(o *store.Options) {
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, fmt.Errorf("building context store: %w", err)
	}

	client := hyperliquid.NewClient(func(o *hyperliquid.ClientOptions) {
		o.Endpoint = opts.HyperliquidEndpoint
		o.Logger = opts.Logger
	})
	resolver := hyperliquid.NewResolver(client, func(o *hyperliquid.ResolverOptions) {
		o.Logger = opts.Logger
	})

	registry := tool.NewRegistry(func(o *tool.RegistryOptions) { o.Logger = opts.Logger })
	for _, t := range append([]tool.Tool{
		hyperliquid.NewPerpSearchTool(resolver),
		hyperliquid.NewSpotSearchTool(resolver),
	}, opts.ExtraTools...) {
		if err := registry.Register(t); err != nil {
			return nil, fmt.Errorf("registering tools: %w", err)
		}
	}

	agentOpts := append([]func(o *agent.Options){func(o *agent.Options) {
		o.Logger = opts.Logger
	}}, opts.AgentOptions...)
	a := agent.New(s, registry, completer, agentOpts...)

	r := responder.New(channel, a, func(o *responder.Options) { o.Logger = opts.Logger })
	router := responder.NewRouter(r, channel, func(o *responder.RouterOptions) { o.Logger = opts.Logger })

	return &Gateway{store: s, registry: registry, agent: a, responder: r, router: router}, nil
}

// Router returns the command router for the channel binding.
func (g *Gateway) Router() *responder.Router { return g.router }

// Prompt runs one prompt-answer cycle directly, bypassing the deferred flow.
func (g *Gateway) Prompt(ctx context.Context, q agent.Query) (agent.Response, error) {
	return g.agent.Prompt(ctx, q)
}

// Tools returns the registered tool names in registration order.
func (g *Gateway) Tools() []string { return g.registry.Names() }
