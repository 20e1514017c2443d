package dto

import (
	"encoding/json"
	"time"

	"thinkboard-be/pkg/whiteboard"
)

// ConversationTurn is one prior message of the client-owned
// conversation. History lives in the client (local storage); the server
// never stores it between turns.
type ConversationTurn struct {
	Role       string `json:"role" validate:"required,oneof=user assistant system tool"`
	Content    string `json:"content"`
	ToolCallID string `json:"tool_call_id,omitempty"`
}

type AgentChatRequest struct {
	Message             string               `json:"message" validate:"required,max=4000"`
	WhiteboardData      *whiteboard.Snapshot `json:"whiteboard_data" validate:"required"`
	ConversationHistory []ConversationTurn   `json:"conversation_history" validate:"omitempty,max=200,dive"`
	SessionID           string               `json:"session_id,omitempty"`
}

// ToolCallDTO mirrors one executed tool call for replay.
type ToolCallDTO struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments"`
	Result    json.RawMessage `json:"result"`
	Attempt   int             `json:"attempt"`
	IsError   bool            `json:"is_error,omitempty"`
}

// AgentChatResponse is the non-streaming variant's reply.
type AgentChatResponse struct {
	Reply      string        `json:"reply"`
	ToolCalls  []ToolCallDTO `json:"tool_calls"`
	Iterations int           `json:"iterations"`
	CreatedAt  time.Time     `json:"created_at"`
}

// AgentTraceResponse is the replay of the most recent turn for a
// session.
type AgentTraceResponse struct {
	SessionID string        `json:"session_id"`
	Message   string        `json:"message"`
	Reply     string        `json:"reply"`
	ToolCalls []ToolCallDTO `json:"tool_calls"`
	CreatedAt time.Time     `json:"created_at"`
}
