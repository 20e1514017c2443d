package archive

import (
	"context"
	"encoding/json"

	"thinkboard-be/internal/model"
	"thinkboard-be/pkg/agent/loop"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TurnArchiveRepository persists completed agent turns when a database
// is configured. The archive is append-only; nothing in the request
// path reads it.
type TurnArchiveRepository struct {
	db *gorm.DB
}

func NewTurnArchiveRepository(db *gorm.DB) *TurnArchiveRepository {
	return &TurnArchiveRepository{db: db}
}

// Migrate ensures the agent_turns table exists.
func (r *TurnArchiveRepository) Migrate() error {
	return r.db.AutoMigrate(&model.AgentTurn{})
}

func (r *TurnArchiveRepository) Archive(ctx context.Context, sessionID, message string, result *loop.TurnResult, durationMs int64) error {
	toolCalls, err := json.Marshal(result.ToolCalls)
	if err != nil {
		return err
	}

	turn := model.AgentTurn{
		Id:            uuid.New(),
		SessionId:     sessionID,
		Message:       message,
		Reply:         result.Reply,
		ToolCalls:     toolCalls,
		ToolCallCount: len(result.ToolCalls),
		TotalTokens:   result.Usage.TotalTokens,
		DurationMs:    durationMs,
	}
	return r.db.WithContext(ctx).Create(&turn).Error
}

// RecentBySession returns the latest archived turns for a session,
// newest first.
func (r *TurnArchiveRepository) RecentBySession(ctx context.Context, sessionID string, limit int) ([]model.AgentTurn, error) {
	var turns []model.AgentTurn
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&turns).Error
	return turns, err
}
