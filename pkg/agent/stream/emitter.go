package stream

import (
	"bufio"
	"encoding/json"
	"fmt"
)

// TurnEmitter wraps an Emitter with the request-scoped state one agent
// turn needs: the (tool, attempt) correlation map for start/result
// pairing. Create one per turn and discard it.
type TurnEmitter struct {
	emitter Emitter
	tracker *callTracker
}

func NewTurnEmitter(emitter Emitter) *TurnEmitter {
	return &TurnEmitter{
		emitter: emitter,
		tracker: newCallTracker(),
	}
}

func (t *TurnEmitter) Emit(event Event) error {
	return t.emitter.Emit(event)
}

// ToolCallStart emits the start frame and returns the attempt index the
// matching result frame must carry.
func (t *TurnEmitter) ToolCallStart(tool string, args json.RawMessage) int {
	attempt := t.tracker.next(tool)
	t.emitter.Emit(Event{
		Type:      EventToolCallStart,
		Tool:      tool,
		Attempt:   attempt,
		Arguments: args,
	})
	return attempt
}

func (t *TurnEmitter) ToolCallResult(tool string, attempt int, result string, isError bool) {
	t.emitter.Emit(Event{
		Type:    EventToolCallResult,
		Tool:    tool,
		Attempt: attempt,
		Result:  json.RawMessage(result),
		IsError: isError,
	})
}

// SSEWriter emits events as server-sent event frames:
//
//	data: {json}\n\n
//
// over a buffered writer. Each frame is flushed immediately so clients
// see the thinking trace live. A write or flush error means the client
// went away; it is returned so the loop can abort in-flight work
// instead of burning provider spend on a closed connection.
type SSEWriter struct {
	w *bufio.Writer
}

func NewSSEWriter(w *bufio.Writer) *SSEWriter {
	return &SSEWriter{w: w}
}

func (s *SSEWriter) Emit(event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := s.w.WriteString("data: "); err != nil {
		return err
	}
	if _, err := s.w.Write(payload); err != nil {
		return err
	}
	if _, err := s.w.WriteString("\n\n"); err != nil {
		return err
	}
	return s.w.Flush()
}
