package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ragrelay/ragrelay/logging"
	"github.com/ragrelay/ragrelay/model"
)

// RegistryOptions configure a Registry.
type RegistryOptions struct {
	Logger logging.Logger
}

// Registry holds the fixed, named tool set. Registration happens at startup;
// afterwards the registry is read-only and holds no request-scoped state, so
// concurrent Dispatch calls need no synchronization.
type Registry struct {
	tools  map[string]Tool
	order  []string
	logger logging.Logger
}

// NewRegistry creates an empty tool registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{tools: make(map[string]Tool), logger: opts.Logger}
}

// Register adds a tool. Names are unique process-wide; registering a second
// tool under an existing name is an error.
func (r *Registry) Register(t Tool) error {
	name := t.Name()
	if name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool already registered: %s", name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// MustRegister is Register for startup wiring; it panics on error.
func (r *Registry) MustRegister(tools ...Tool) {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Definitions returns the declared tool set in registration order, in the
// shape handed to the model.
func (r *Registry) Definitions() []model.ToolDefinition {
	defs := make([]model.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// Dispatch decodes rawArgs and invokes the named tool. An unregistered name
// fails with *NotFoundError without invoking anything; malformed argument
// JSON fails with a VALIDATION_ERROR ToolError before the tool runs.
func (r *Registry) Dispatch(ctx context.Context, name string, rawArgs json.RawMessage) (string, error) {
	t, exists := r.tools[name]
	if !exists {
		return "", &NotFoundError{Name: name}
	}

	args := make(map[string]any)
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return "", &ToolError{
				Tool:    name,
				Message: fmt.Sprintf("decoding arguments: %v", err),
				Code:    CodeValidation,
			}
		}
	}

	start := time.Now()
	r.logger.Debug("tool.dispatch.start", "tool", name)

	out, err := t.Call(ctx, args)
	if err != nil {
		r.logger.Error("tool.dispatch.error", "tool", name, "error", err.Error())
		return "", err
	}

	r.logger.Info("tool.dispatch.success", "tool", name, "duration_ms", time.Since(start).Milliseconds())

	return out, nil
}
