package responder

import (
	"context"

	"github.com/ragrelay/ragrelay/agent"
	"github.com/ragrelay/ragrelay/logging"
)

// Inbound command names. The gateway consumes two shapes: a zero-argument
// greeting and a one-argument query.
const (
	CommandHello = "hello"
	CommandAsk   = "ask"
)

// Greeting is the static reply to the zero-argument command.
const Greeting = "Hello! I'm your knowledge-base assistant. How can I assist you today?"

// FallbackQuery substitutes for an ask command whose query argument arrived
// empty despite being required at the gateway.
const FallbackQuery = "What would you like to ask?"

// Command is one inbound gateway command, already stripped of transport
// framing.
type Command struct {
	Name      string
	ChannelID string
	Query     string
}

// RouterOptions configure a Router.
type RouterOptions struct {
	Logger logging.Logger
}

// Router maps inbound commands onto the responder and the channel.
type Router struct {
	responder *Responder
	channel   Channel
	logger    logging.Logger
}

// NewRouter builds a Router dispatching to the given responder.
func NewRouter(r *Responder, channel Channel, optFns ...func(o *RouterOptions)) *Router {
	opts := RouterOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Router{responder: r, channel: channel, logger: opts.Logger}
}

// Route handles one command. The greeting finalizes immediately through the
// same ack/edit pair; ask defers to the responder; anything else gets a
// not-implemented reply. Route never returns an error: command handling
// failures are logged and the request is done.
func (r *Router) Route(ctx context.Context, cmd Command) {
	switch cmd.Name {
	case CommandHello:
		handle, err := r.channel.SendAck(ctx, cmd.ChannelID)
		if err != nil {
			r.logger.Error("router.hello.ack_failed", "channel_id", cmd.ChannelID, "error", err.Error())
			return
		}
		if err := r.channel.Edit(ctx, handle, Greeting); err != nil {
			r.logger.Error("router.hello.edit_failed", "channel_id", cmd.ChannelID, "error", err.Error())
		}
	case CommandAsk:
		query := cmd.Query
		if query == "" {
			query = FallbackQuery
		}
		r.responder.Handle(ctx, cmd.ChannelID, agent.Query{Text: query})
	default:
		if err := r.channel.SendError(ctx, cmd.ChannelID, "Not implemented :("); err != nil {
			r.logger.Error("router.unknown.send_failed",
				"command", cmd.Name, "channel_id", cmd.ChannelID, "error", err.Error())
		}
	}
}
