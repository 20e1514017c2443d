package stream

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestSSEWriterFraming(t *testing.T) {
	var buf bytes.Buffer
	writer := NewSSEWriter(bufio.NewWriter(&buf))

	if err := writer.Emit(Event{Type: EventResponseChunk, Content: "hello"}); err != nil {
		t.Fatalf("Emit error = %v", err)
	}
	if err := writer.Emit(Event{Type: EventDone}); err != nil {
		t.Fatalf("Emit error = %v", err)
	}

	frames := strings.Split(strings.TrimSuffix(buf.String(), "\n\n"), "\n\n")
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2: %q", len(frames), buf.String())
	}

	for _, frame := range frames {
		if !strings.HasPrefix(frame, "data: ") {
			t.Fatalf("frame missing data prefix: %q", frame)
		}
		var event Event
		if err := json.Unmarshal([]byte(strings.TrimPrefix(frame, "data: ")), &event); err != nil {
			t.Fatalf("frame payload is not JSON: %v", err)
		}
	}

	var first Event
	json.Unmarshal([]byte(strings.TrimPrefix(frames[0], "data: ")), &first)
	if first.Type != EventResponseChunk || first.Content != "hello" {
		t.Errorf("first frame = %+v, want response_chunk 'hello'", first)
	}
}

func TestTurnEmitterAttemptTracking(t *testing.T) {
	collector := NewCollector()
	emitter := NewTurnEmitter(collector)

	if got := emitter.ToolCallStart("search_notes", nil); got != 1 {
		t.Errorf("first attempt = %d, want 1", got)
	}
	if got := emitter.ToolCallStart("search_notes", nil); got != 2 {
		t.Errorf("second attempt = %d, want 2", got)
	}
	if got := emitter.ToolCallStart("get_note_by_id", nil); got != 1 {
		t.Errorf("other tool attempt = %d, want independent counter at 1", got)
	}

	// A fresh emitter starts counting from scratch; tracking is
	// request-scoped.
	fresh := NewTurnEmitter(NewCollector())
	if got := fresh.ToolCallStart("search_notes", nil); got != 1 {
		t.Errorf("fresh emitter attempt = %d, want 1", got)
	}
}

func TestToolCallResultEvent(t *testing.T) {
	collector := NewCollector()
	emitter := NewTurnEmitter(collector)

	emitter.ToolCallResult("search_notes", 2, `{"totalMatches":0}`, false)

	if len(collector.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(collector.Events))
	}
	event := collector.Events[0]
	if event.Type != EventToolCallResult || event.Tool != "search_notes" || event.Attempt != 2 {
		t.Errorf("event = %+v, want tool_call_result search_notes attempt 2", event)
	}
}
