// Package responder implements the deferred-acknowledgement pattern required
// by interactive channels with strict response deadlines: acknowledge
// immediately, run the agent, finalize the placeholder via an idempotent
// edit. The concrete channel transport stays behind the Channel interface.
package responder

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ragrelay/ragrelay/agent"
	"github.com/ragrelay/ragrelay/logging"
)

// Channel is the chat-channel collaborator. SendAck must return before the
// channel's hard response deadline elapses; callers must not perform
// blocking work before calling it.
type Channel interface {
	// SendAck posts the placeholder message and returns a handle for editing it.
	SendAck(ctx context.Context, channelID string) (handle string, err error)

	// Edit replaces the placeholder identified by handle with text.
	Edit(ctx context.Context, handle, text string) error

	// SendError posts text directly to the channel, outside the ack/edit pair.
	SendError(ctx context.Context, channelID, text string) error
}

// Prompter runs one prompt-answer cycle. *agent.Agent satisfies it.
type Prompter interface {
	Prompt(ctx context.Context, q agent.Query) (agent.Response, error)
}

// Options configure a Responder.
type Options struct {
	Logger logging.Logger
}

// Responder wraps agent invocations for deferred channels. It is stateless
// across requests; callers typically run Handle on one goroutine per inbound
// event.
type Responder struct {
	channel  Channel
	prompter Prompter
	logger   logging.Logger
}

// New builds a Responder over the given channel and prompter.
func New(channel Channel, prompter Prompter, optFns ...func(o *Options)) *Responder {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Responder{channel: channel, prompter: prompter, logger: opts.Logger}
}

// Handle processes one inbound query. The acknowledgement is sent before any
// retrieval, model or tool work begins; if it fails the request is logged
// and abandoned with no user-visible output. Agent failures finalize the
// placeholder with formatted error text; a failed finalizing edit is logged
// and dropped. Handle never panics and never returns an error to the caller:
// the request is considered complete either way.
func (r *Responder) Handle(ctx context.Context, channelID string, q agent.Query) {
	requestID := uuid.NewString()

	handle, err := r.channel.SendAck(ctx, channelID)
	if err != nil {
		r.logger.Error("responder.ack.failed",
			"request_id", requestID, "channel_id", channelID, "error", err.Error())
		return
	}

	r.logger.Debug("responder.ack.sent", "request_id", requestID, "channel_id", channelID)

	text, failed := r.run(ctx, q)
	if failed {
		r.logger.Warn("responder.prompt.failed", "request_id", requestID, "channel_id", channelID)
	}

	if err := r.channel.Edit(ctx, handle, text); err != nil {
		r.logger.Error("responder.edit.failed",
			"request_id", requestID, "channel_id", channelID, "error", err.Error())
		return
	}

	r.logger.Info("responder.request.complete", "request_id", requestID, "channel_id", channelID)
}

// run invokes the agent exactly once and maps the outcome to the text that
// finalizes the placeholder.
func (r *Responder) run(ctx context.Context, q agent.Query) (text string, failed bool) {
	resp, err := r.prompter.Prompt(ctx, q)
	if err != nil {
		return fmt.Sprintf("Error processing request: %v", err), true
	}
	return resp.Text, false
}
