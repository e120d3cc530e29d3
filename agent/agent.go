// Package agent composes the context store, the tool registry and a model
// completer into a single prompt-answer cycle: retrieve, complete, dispatch
// requested tools back through the model, truncate to the transport limit.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ragrelay/ragrelay/core"
	"github.com/ragrelay/ragrelay/logging"
	"github.com/ragrelay/ragrelay/model"
	"github.com/ragrelay/ragrelay/store"
	"github.com/ragrelay/ragrelay/tool"
)

// Defaults for the prompt cycle. CharLimit leaves headroom under the common
// 2000-character chat message cap.
const (
	DefaultTopK              = 2
	DefaultMaxToolIterations = 5
	DefaultCharLimit         = 1900
)

// TruncationMarker terminates every truncated response. The cut point is
// always CharLimit minus the marker length, so truncated output is exactly
// CharLimit characters.
const TruncationMarker = "... [truncated]"

// DefaultPreamble grounds the model in the retrieved knowledge base and the
// available market tools.
const DefaultPreamble = `You are a knowledgeable assistant for a developer community.
Answer using the reference passages below when they are relevant, and use the
available tools for live market data instead of guessing prices. Keep answers
short and concise; use bullet points for complex information and fenced code
blocks for code.`

// ToolLoopExceededError reports that the model kept requesting tools past
// the configured iteration budget without producing a final answer.
type ToolLoopExceededError struct {
	Limit int
}

func (e *ToolLoopExceededError) Error() string {
	return fmt.Sprintf("tool loop exceeded: no final answer after %d iterations", e.Limit)
}

// Query is one inbound natural-language request.
type Query struct {
	Text string
}

// Response is the final answer, flagged when cut to the transport limit.
type Response struct {
	Text      string
	Truncated bool
}

// Options configure an Agent.
type Options struct {
	Preamble          string
	TopK              int
	MaxToolIterations int
	CharLimit         int
	Logger            logging.Logger
}

// Agent is the orchestration core. It is read-only after New and safe to
// share across concurrent request handlers.
type Agent struct {
	store             *store.Store
	registry          *tool.Registry
	completer         model.Completer
	preamble          string
	topK              int
	maxToolIterations int
	charLimit         int
	logger            logging.Logger
}

// New builds an Agent over the given store, registry and completer.
func New(s *store.Store, registry *tool.Registry, completer model.Completer, optFns ...func(o *Options)) *Agent {
	opts := Options{
		Preamble:          DefaultPreamble,
		TopK:              DefaultTopK,
		MaxToolIterations: DefaultMaxToolIterations,
		CharLimit:         DefaultCharLimit,
		Logger:            logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	// The truncation cut is CharLimit minus the marker; a limit below the
	// marker length would make it negative.
	if minLimit := len([]rune(TruncationMarker)); opts.CharLimit < minLimit {
		opts.CharLimit = minLimit
	}
	return &Agent{
		store:             s,
		registry:          registry,
		completer:         completer,
		preamble:          opts.Preamble,
		topK:              opts.TopK,
		maxToolIterations: opts.MaxToolIterations,
		charLimit:         opts.CharLimit,
		logger:            opts.Logger,
	}
}

// Prompt runs one full prompt-answer cycle for the query. Retrieval and
// model errors abort the cycle; tool outcomes (success or stringified
// failure) are fed back to the model as the tool turn.
func (a *Agent) Prompt(ctx context.Context, q Query) (Response, error) {
	docs, err := a.store.Query(ctx, q.Text, a.topK)
	if err != nil {
		return Response{}, fmt.Errorf("retrieving context: %w", err)
	}

	req := model.Request{
		Instructions: a.buildInstructions(docs),
		Contents:     []core.Content{core.NewUserContent(q.Text)},
		Tools:        a.registry.Definitions(),
	}

	a.logger.Debug("agent.prompt.start", "model", a.completer.Info().Name, "context_docs", len(docs))

	for i := 0; i < a.maxToolIterations; i++ {
		completion, err := a.completer.Complete(ctx, req)
		if err != nil {
			return Response{}, fmt.Errorf("completion failed: %w", err)
		}

		calls := completion.Content.FunctionCalls()
		if len(calls) == 0 {
			resp := a.truncate(completion.Content.Text())
			a.logger.Info("agent.prompt.complete",
				"iterations", i+1, "truncated", resp.Truncated, "chars", len([]rune(resp.Text)))
			return resp, nil
		}

		req.Contents = append(req.Contents, completion.Content)

		// Every call in the assistant turn gets exactly one matching
		// tool turn; both provider APIs reject unanswered calls.
		// Dispatch stays serial within a cycle.
		for _, call := range calls {
			out, err := a.registry.Dispatch(ctx, call.Name, json.RawMessage(call.Arguments))
			if err != nil {
				out = err.Error()
			}
			req.Contents = append(req.Contents, core.NewToolContent(core.FunctionResponse{
				ID:       call.ID,
				Name:     call.Name,
				Response: out,
			}))
		}
	}

	return Response{}, &ToolLoopExceededError{Limit: a.maxToolIterations}
}

// buildInstructions folds the retrieved passages into the system preamble.
func (a *Agent) buildInstructions(docs []store.Document) string {
	if len(docs) == 0 {
		return a.preamble
	}
	var b strings.Builder
	b.WriteString(a.preamble)
	b.WriteString("\n\nReference passages:\n")
	for _, doc := range docs {
		fmt.Fprintf(&b, "\n<passage id=\"%d\">\n%s\n</passage>\n", doc.ID, doc.Text)
	}
	return b.String()
}

// truncate applies the hard character cut: text longer than the limit keeps
// its first limit-len(marker) characters followed by the marker. The cut is
// not word-boundary-aware.
func (a *Agent) truncate(text string) Response {
	runes := []rune(text)
	if len(runes) <= a.charLimit {
		return Response{Text: text}
	}
	marker := []rune(TruncationMarker)
	cut := a.charLimit - len(marker)
	return Response{Text: string(runes[:cut]) + TruncationMarker, Truncated: true}
}
