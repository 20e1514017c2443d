package tools

import (
	"encoding/json"
	"fmt"

	"thinkboard-be/pkg/llm"
	"thinkboard-be/pkg/whiteboard"
)

// Registry holds the fixed tool set. Registration happens once at
// startup; dispatch is read-only, so no locking is needed afterwards.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// NewDefaultRegistry builds the registry with the five whiteboard query
// tools.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&SearchNotesTool{})
	r.Register(&GetNoteTool{})
	r.Register(&SearchGroupsTool{})
	r.Register(&GetGroupTool{})
	r.Register(&OverviewTool{})
	return r
}

func (r *Registry) Register(tool Tool) error {
	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool '%s' already registered", name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

func (r *Registry) Get(name string) (Tool, bool) {
	tool, exists := r.tools[name]
	return tool, exists
}

// Definitions returns the tool schemas in registration order for the
// model call.
func (r *Registry) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		defs = append(defs, llm.ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return defs
}

// Dispatch resolves and executes a requested tool. Every failure mode
// (unknown tool, bad arguments, entity not found) comes back as a
// structured payload so the orchestration loop always continues.
func (r *Registry) Dispatch(snapshot *whiteboard.Snapshot, name string, args json.RawMessage) Result {
	tool, exists := r.tools[name]
	if !exists {
		return errorResult("Unknown tool: %s", name)
	}

	payload, err := tool.Execute(snapshot, args)
	if err != nil {
		return errorResult("%s: %v", name, err)
	}

	output, err := json.Marshal(payload)
	if err != nil {
		return errorResult("%s: failed to encode result: %v", name, err)
	}
	return Result{Output: string(output)}
}
