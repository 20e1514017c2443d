package store

import (
	"time"

	"thinkboard-be/pkg/agent/loop"
)

// TurnTrace is the replayable record of the most recent agent turn for
// a chat session: what was asked, what tools ran, what came back.
type TurnTrace struct {
	SessionID string                `json:"session_id"`
	Message   string                `json:"message"`
	Reply     string                `json:"reply"`
	ToolCalls []loop.ToolCallRecord `json:"tool_calls"`
	CreatedAt time.Time             `json:"created_at"`
}
