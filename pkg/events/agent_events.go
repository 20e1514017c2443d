package events

import "time"

const EventAgentTurnCompleted = "AGENT_TURN_COMPLETED"

// NewAgentTurnCompleted records one finished agent turn for downstream
// usage analytics.
func NewAgentTurnCompleted(sessionID string, toolCallCount, iterations, totalTokens int, durationMs int64) Event {
	return BaseEvent{
		Type: EventAgentTurnCompleted,
		Data: map[string]interface{}{
			"session_id":      sessionID,
			"tool_call_count": toolCallCount,
			"iterations":      iterations,
			"total_tokens":    totalTokens,
			"duration_ms":     durationMs,
		},
		OccurredAt: time.Now(),
	}
}
