// Package tools defines the catalog of read-only operations the model may
// request. Tools are registered once at startup and shared read-only across
// conversations; the request's bearer token is injected at execution time.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/user/growthagent/pkg/llm"
)

// Tool defines the interface for an executable tool. token is the
// request-scoped data-service credential; tools that do not reach a data
// service ignore it.
type Tool interface {
	Name() string
	Description() string
	Parameters() json.RawMessage
	Execute(ctx context.Context, args json.RawMessage, token string) (string, error)
}

// missingTokenResult is the fixed reply a data tool gives when no credential
// reached it. The model relays it to the user instead of the request failing.
const missingTokenResult = "Error: Authentication token was not provided to the tool."

// Registry holds registered tools and provides lookup. Registration order is
// preserved so the catalog sent to the model is deterministic.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry. Duplicate names are a configuration
// error and abort startup.
func (r *Registry) Register(t Tool) error {
	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("duplicate tool name %q", t.Name())
	}
	r.tools[t.Name()] = t
	r.order = append(r.order, t.Name())
	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// All returns all registered tools in registration order.
func (r *Registry) All() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// AsLLMTools converts registered tools to the LLM provider format.
func (r *Registry) AsLLMTools() []llm.Tool {
	out := make([]llm.Tool, 0, len(r.order))
	for _, t := range r.All() {
		out = append(out, llm.Tool{
			Type: "function",
			Function: llm.Function{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return out
}

// Run resolves and executes one tool call. It never fails: unknown tools,
// validation errors, and execution errors all become the result text, since
// the model expects a tool result for every call it issued.
func (r *Registry) Run(ctx context.Context, call llm.ToolCall, token string) string {
	tool, ok := r.Get(call.Function.Name)
	if !ok {
		return fmt.Sprintf("Error: unknown tool %q", call.Function.Name)
	}
	result, err := tool.Execute(ctx, call.Function.Arguments, token)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return result
}
