package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingTool records invocations so tests can assert it was never run.
type countingTool struct {
	name  string
	calls int
}

func (t *countingTool) Name() string        { return t.name }
func (t *countingTool) Description() string { return "counts calls" }
func (t *countingTool) Parameters() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

func (t *countingTool) Call(context.Context, map[string]any) (string, error) {
	t.calls++
	return "counted", nil
}

func TestRegistryRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&countingTool{name: "alpha"}))
	err := r.Register(&countingTool{name: "alpha"})
	assert.ErrorContains(t, err, "already registered")
	assert.Equal(t, []string{"alpha"}, r.Names())
}

func TestRegistryDispatchNotFound(t *testing.T) {
	registered := &countingTool{name: "alpha"}
	r := NewRegistry()
	require.NoError(t, r.Register(registered))

	_, err := r.Dispatch(context.Background(), "missing", nil)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.Name)
	assert.Zero(t, registered.calls, "no registered tool logic may run")
}

func TestRegistryDispatchInvokesTool(t *testing.T) {
	registered := &countingTool{name: "alpha"}
	r := NewRegistry()
	require.NoError(t, r.Register(registered))

	out, err := r.Dispatch(context.Background(), "alpha", json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "counted", out)
	assert.Equal(t, 1, registered.calls)
}

func TestRegistryDispatchMalformedArgs(t *testing.T) {
	registered := &countingTool{name: "alpha"}
	r := NewRegistry()
	require.NoError(t, r.Register(registered))

	_, err := r.Dispatch(context.Background(), "alpha", json.RawMessage(`{not json`))
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
	assert.Zero(t, registered.calls)
}

func TestRegistryDefinitionsKeepRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&countingTool{name: "beta"}, &countingTool{name: "alpha"})

	defs := r.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "beta", defs[0].Name)
	assert.Equal(t, "alpha", defs[1].Name)
	assert.Equal(t, "counts calls", defs[0].Description)
	assert.NotNil(t, defs[0].Parameters)
}
