package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AgentTurn archives one completed agent turn for audit and UI replay.
// Tool calls are stored as a JSONB blob; they are replayed verbatim,
// never queried field-by-field.
type AgentTurn struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId     string         `gorm:"type:varchar(100);not null;index"`
	Message       string         `gorm:"type:text;not null"`
	Reply         string         `gorm:"type:text;not null"`
	ToolCalls     datatypes.JSON `gorm:"type:jsonb"`
	ToolCallCount int            `gorm:"not null"`
	TotalTokens   int            `gorm:"not null"`
	DurationMs    int64          `gorm:"not null"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
}

func (AgentTurn) TableName() string {
	return "agent_turns"
}
