package stream

import "encoding/json"

// EventType identifies one frame in the agent's live trace.
type EventType string

const (
	EventAnalyzingIntent EventType = "analyzing_intent"
	EventContextSummary  EventType = "context_summary"
	EventToolCallStart   EventType = "tool_call_start"
	EventToolCallResult  EventType = "tool_call_result"
	EventReflecting      EventType = "reflecting"
	EventDecision        EventType = "decision"
	EventResponseStart   EventType = "response_start"
	EventResponseChunk   EventType = "response_chunk"
	EventDone            EventType = "done"
	EventError           EventType = "error"
)

// Event is one typed frame of the agent trace. Clients render these as
// a live "thinking" view, so emission order must match the causal order
// of the loop's state transitions.
type Event struct {
	Type EventType `json:"type"`

	// Tool call fields
	Tool      string          `json:"tool,omitempty"`
	Attempt   int             `json:"attempt,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`

	// Free-form content: intent description, reflection reason,
	// response chunk text
	Content string `json:"content,omitempty"`

	// Decision fields (reflection outcome)
	Continue   *bool   `json:"continue,omitempty"`
	Confidence float32 `json:"confidence,omitempty"`

	// Terminal error message
	Error string `json:"error,omitempty"`
}

// Emitter receives events in causal order. Implementations must be safe
// for use from a single goroutine only; the loop is sequential.
type Emitter interface {
	Emit(event Event) error
}

// Collector buffers events in memory. Used by the non-streaming chat
// variant and by tests.
type Collector struct {
	Events []Event
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Emit(event Event) error {
	c.Events = append(c.Events, event)
	return nil
}

// callTracker correlates tool_call_start/result pairs within one turn
// by (tool name, attempt index). It is request-scoped and discarded at
// turn end; never a process-wide singleton.
type callTracker struct {
	attempts map[string]int
}

func newCallTracker() *callTracker {
	return &callTracker{attempts: make(map[string]int)}
}

// next returns the 1-based attempt index for the tool.
func (t *callTracker) next(tool string) int {
	t.attempts[tool]++
	return t.attempts[tool]
}
