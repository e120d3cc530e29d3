package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragrelay/ragrelay/core"
	"github.com/ragrelay/ragrelay/model"
	"github.com/ragrelay/ragrelay/store"
	"github.com/ragrelay/ragrelay/tool"
)

func newTestStore(t *testing.T, texts ...string) *store.Store {
	t.Helper()
	s, err := store.New(context.Background(), texts, &model.MockEmbedder{})
	require.NoError(t, err)
	return s
}

func echoTool(t *testing.T) tool.Tool {
	t.Helper()
	return tool.NewFunctionTool("echo_symbol", "Echo the symbol",
		map[string]any{
			"type":       "object",
			"properties": map[string]any{"symbol": map[string]any{"type": "string"}},
			"required":   []string{"symbol"},
		},
		func(_ context.Context, args map[string]any) (string, error) {
			return "echo: " + args["symbol"].(string), nil
		})
}

func TestPromptFinalTextNoTools(t *testing.T) {
	completer := &model.MockCompleter{Script: []model.Completion{
		model.TextCompletion("plain answer"),
	}}
	a := New(newTestStore(t, "doc one", "doc two"), tool.NewRegistry(), completer)

	resp, err := a.Prompt(context.Background(), Query{Text: "question"})
	require.NoError(t, err)
	assert.Equal(t, "plain answer", resp.Text)
	assert.False(t, resp.Truncated)
}

func TestPromptInjectsRetrievedContextAndTools(t *testing.T) {
	completer := &model.MockCompleter{Script: []model.Completion{
		model.TextCompletion("ok"),
	}}
	registry := tool.NewRegistry()
	registry.MustRegister(echoTool(t))
	a := New(newTestStore(t, "alpha passage", "beta passage", "gamma passage"), registry, completer,
		func(o *Options) { o.TopK = 2 })

	_, err := a.Prompt(context.Background(), Query{Text: "anything"})
	require.NoError(t, err)

	require.Len(t, completer.Requests, 1)
	req := completer.Requests[0]
	assert.Contains(t, req.Instructions, DefaultPreamble)
	assert.Equal(t, 2, strings.Count(req.Instructions, "<passage id="), "top-K passages folded in")
	require.Len(t, req.Tools, 1)
	assert.Equal(t, "echo_symbol", req.Tools[0].Name)
	require.Len(t, req.Contents, 1)
	assert.Equal(t, "anything", req.Contents[0].Text())
}

func TestPromptToolCallRoundTrip(t *testing.T) {
	completer := &model.MockCompleter{Script: []model.Completion{
		model.ToolCallCompletion("fc1", "echo_symbol", `{"symbol":"BTC"}`),
		model.TextCompletion("final answer using tool output"),
	}}
	registry := tool.NewRegistry()
	registry.MustRegister(echoTool(t))
	a := New(newTestStore(t, "doc"), registry, completer)

	resp, err := a.Prompt(context.Background(), Query{Text: "price?"})
	require.NoError(t, err)
	assert.Equal(t, "final answer using tool output", resp.Text)

	// Second request carries the assistant call turn and the tool turn.
	require.Len(t, completer.Requests, 2)
	second := completer.Requests[1]
	require.Len(t, second.Contents, 3)
	assert.Len(t, second.Contents[1].FunctionCalls(), 1)
	assert.Contains(t, contentToolResponse(t, second), "echo: BTC")
}

func TestPromptAnswersEveryCallInTurn(t *testing.T) {
	// One assistant turn carrying two calls must produce two tool turns;
	// the providers reject conversations with unanswered calls.
	multiCall := model.Completion{
		Content: core.Content{Role: core.RoleAssistant, Parts: []core.Part{
			core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: "fc1", Name: "echo_symbol", Arguments: `{"symbol":"BTC"}`}},
			core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: "fc2", Name: "echo_symbol", Arguments: `{"symbol":"SOL"}`}},
		}},
		FinishReason: model.FinishToolCalls,
	}
	completer := &model.MockCompleter{Script: []model.Completion{
		multiCall,
		model.TextCompletion("both resolved"),
	}}
	registry := tool.NewRegistry()
	registry.MustRegister(echoTool(t))
	a := New(newTestStore(t, "doc"), registry, completer)

	resp, err := a.Prompt(context.Background(), Query{Text: "BTC and SOL?"})
	require.NoError(t, err)
	assert.Equal(t, "both resolved", resp.Text)

	require.Len(t, completer.Requests, 2)
	second := completer.Requests[1]
	require.Len(t, second.Contents, 4, "user turn, assistant turn, one tool turn per call")

	var responses []core.FunctionResponse
	for _, c := range second.Contents {
		for _, p := range c.Parts {
			if fr, ok := p.(core.FunctionResponsePart); ok {
				responses = append(responses, fr.FunctionResponse)
			}
		}
	}
	require.Len(t, responses, len(second.Contents[1].FunctionCalls()))
	assert.Equal(t, "fc1", responses[0].ID)
	assert.Equal(t, "echo: BTC", responses[0].Response)
	assert.Equal(t, "fc2", responses[1].ID)
	assert.Equal(t, "echo: SOL", responses[1].Response)
}

func TestPromptToolErrorFedBackAsTurn(t *testing.T) {
	completer := &model.MockCompleter{Script: []model.Completion{
		model.ToolCallCompletion("fc1", "no_such_tool", `{}`),
		model.TextCompletion("recovered"),
	}}
	a := New(newTestStore(t, "doc"), tool.NewRegistry(), completer)

	resp, err := a.Prompt(context.Background(), Query{Text: "q"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Text)
	assert.Contains(t, contentToolResponse(t, completer.Requests[1]), "tool not found: no_such_tool")
}

func TestPromptToolLoopExceeded(t *testing.T) {
	// The model asks for the tool on every turn and never finishes.
	script := make([]model.Completion, 10)
	for i := range script {
		script[i] = model.ToolCallCompletion("fc", "echo_symbol", `{"symbol":"BTC"}`)
	}
	registry := tool.NewRegistry()
	registry.MustRegister(echoTool(t))
	a := New(newTestStore(t, "doc"), registry, &model.MockCompleter{Script: script},
		func(o *Options) { o.MaxToolIterations = 3 })

	_, err := a.Prompt(context.Background(), Query{Text: "q"})
	var loopErr *ToolLoopExceededError
	require.ErrorAs(t, err, &loopErr)
	assert.Equal(t, 3, loopErr.Limit)
}

func TestPromptCompletionErrorAborts(t *testing.T) {
	completer := &model.MockCompleter{Err: errors.New("provider down")}
	a := New(newTestStore(t, "doc"), tool.NewRegistry(), completer)

	_, err := a.Prompt(context.Background(), Query{Text: "q"})
	assert.ErrorContains(t, err, "completion failed")
}

func TestPromptRetrievalErrorAborts(t *testing.T) {
	embedder := &model.MockEmbedder{}
	s, err := store.New(context.Background(), []string{"doc"}, embedder)
	require.NoError(t, err)
	embedder.Err = errors.New("embed down")

	completer := &model.MockCompleter{Script: []model.Completion{model.TextCompletion("never")}}
	a := New(s, tool.NewRegistry(), completer)

	_, err = a.Prompt(context.Background(), Query{Text: "q"})
	assert.ErrorContains(t, err, "retrieving context")
	assert.Empty(t, completer.Requests, "no model call after failed retrieval")
}

func TestTruncationExactCut(t *testing.T) {
	const limit = 40
	long := strings.Repeat("abcde", 20) // 100 chars
	completer := &model.MockCompleter{Script: []model.Completion{model.TextCompletion(long)}}
	a := New(newTestStore(t, "doc"), tool.NewRegistry(), completer,
		func(o *Options) { o.CharLimit = limit })

	resp, err := a.Prompt(context.Background(), Query{Text: "q"})
	require.NoError(t, err)
	assert.True(t, resp.Truncated)

	runes := []rune(resp.Text)
	assert.Len(t, runes, limit, "output length equals the limit exactly")
	assert.True(t, strings.HasSuffix(resp.Text, TruncationMarker))
	prefixLen := limit - len([]rune(TruncationMarker))
	assert.Equal(t, long[:prefixLen], string(runes[:prefixLen]), "hard cut, no word-boundary adjustment")
}

func TestTruncationLimitFlooredAtMarkerLength(t *testing.T) {
	// A limit below the marker length is raised to it instead of driving
	// the cut index negative.
	completer := &model.MockCompleter{Script: []model.Completion{
		model.TextCompletion(strings.Repeat("x", 100)),
	}}
	a := New(newTestStore(t, "doc"), tool.NewRegistry(), completer,
		func(o *Options) { o.CharLimit = 1 })

	resp, err := a.Prompt(context.Background(), Query{Text: "q"})
	require.NoError(t, err)
	assert.True(t, resp.Truncated)
	assert.Equal(t, TruncationMarker, resp.Text)
}

func TestTruncationNotAppliedUnderLimit(t *testing.T) {
	completer := &model.MockCompleter{Script: []model.Completion{model.TextCompletion("short")}}
	a := New(newTestStore(t, "doc"), tool.NewRegistry(), completer)

	resp, err := a.Prompt(context.Background(), Query{Text: "q"})
	require.NoError(t, err)
	assert.False(t, resp.Truncated)
	assert.Equal(t, "short", resp.Text)
}

// contentToolResponse extracts the tool-turn response text from the last
// content of a request; the tool turn is appended last by construction.
func contentToolResponse(t *testing.T, req model.Request) string {
	t.Helper()
	require.NotEmpty(t, req.Contents)
	last := req.Contents[len(req.Contents)-1]
	for _, p := range last.Parts {
		if fr, ok := p.(core.FunctionResponsePart); ok {
			return fr.FunctionResponse.Response
		}
	}
	t.Fatal("no tool response in request")
	return ""
}
