package service

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"thinkboard-be/internal/dto"
	"thinkboard-be/internal/pkg/logger"
	"thinkboard-be/internal/repository/archive"
	"thinkboard-be/internal/repository/memory"
	"thinkboard-be/pkg/agent/loop"
	"thinkboard-be/pkg/agent/stream"
	"thinkboard-be/pkg/agent/tools"
	"thinkboard-be/pkg/events"
	"thinkboard-be/pkg/llm"
	pkgNats "thinkboard-be/pkg/nats"
	"thinkboard-be/pkg/store"

	"github.com/google/uuid"
)

// ErrClientGone marks a turn aborted by client disconnect. Not a
// failure: it is neither logged as an error nor surfaced to anyone.
var ErrClientGone = errors.New("client disconnected")

// IAgentService defines the agent service interface
type IAgentService interface {
	Chat(ctx context.Context, request *dto.AgentChatRequest) (*dto.AgentChatResponse, error)
	StreamChat(ctx context.Context, request *dto.AgentChatRequest, emitter stream.Emitter) error
	GetTrace(ctx context.Context, sessionID string) (*dto.AgentTraceResponse, error)
}

// agentService coordinates the orchestration loop with the surrounding
// plumbing: trace store, optional archive, usage events.
type agentService struct {
	orchestrator *loop.Orchestrator
	traceRepo    *memory.TraceRepository
	archiveRepo  *archive.TurnArchiveRepository // nil when no DB configured
	publisher    *pkgNats.Publisher             // nil when NATS unavailable
	sysLogger    logger.ILogger
	agentLogger  *log.Logger
}

// NewAgentService creates the agent service with its own orchestrator.
func NewAgentService(
	llmProvider llm.LLMProvider,
	loopConfig loop.Config,
	traceRepo *memory.TraceRepository,
	archiveRepo *archive.TurnArchiveRepository,
	publisher *pkgNats.Publisher,
	sysLogger logger.ILogger,
) IAgentService {
	agentLogger := initAgentLogger()
	registry := tools.NewDefaultRegistry()

	return &agentService{
		orchestrator: loop.NewOrchestrator(llmProvider, registry, loopConfig, agentLogger),
		traceRepo:    traceRepo,
		archiveRepo:  archiveRepo,
		publisher:    publisher,
		sysLogger:    sysLogger,
		agentLogger:  agentLogger,
	}
}

// initAgentLogger writes the verbose loop trace to its own file so the
// main application log stays readable.
func initAgentLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "agent_loop.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[AGENT] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// Chat runs one agent turn and returns the final answer in a single
// response. Events are collected instead of streamed.
func (s *agentService) Chat(ctx context.Context, request *dto.AgentChatRequest) (*dto.AgentChatResponse, error) {
	collector := stream.NewCollector()
	result, err := s.runTurn(ctx, request, collector)
	if err != nil {
		return nil, err
	}

	response := &dto.AgentChatResponse{
		Reply:      result.Reply,
		ToolCalls:  toolCallDTOs(result.ToolCalls),
		Iterations: result.Iterations,
		CreatedAt:  time.Now(),
	}
	return response, nil
}

// StreamChat runs one agent turn emitting events to the client as they
// happen. A terminal error event is emitted for real failures; client
// disconnects end the turn silently.
func (s *agentService) StreamChat(ctx context.Context, request *dto.AgentChatRequest, emitter stream.Emitter) error {
	_, err := s.runTurn(ctx, request, emitter)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrClientGone) || errors.Is(err, context.Canceled) {
		return nil
	}

	s.sysLogger.Error("agent", "Agent turn failed", map[string]interface{}{"error": err.Error()})
	emitter.Emit(stream.Event{Type: stream.EventError, Error: err.Error()})
	return nil
}

func (s *agentService) runTurn(ctx context.Context, request *dto.AgentChatRequest, emitter stream.Emitter) (*loop.TurnResult, error) {
	sessionID := request.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	started := time.Now()
	turnEmitter := stream.NewTurnEmitter(emitter)

	result, err := s.orchestrator.Run(ctx, request.Message, request.WhiteboardData, toMessages(request.ConversationHistory), turnEmitter)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.agentLogger.Printf("[SERVICE] Turn aborted by client (session %s)", sessionID)
			return nil, ErrClientGone
		}
		return nil, err
	}

	duration := time.Since(started).Milliseconds()
	s.persistTurn(sessionID, request.Message, result, duration)

	return result, nil
}

// persistTurn records the finished turn in the trace store, the
// optional archive, and the event bus. None of these can fail the turn:
// the reply already reached the client.
func (s *agentService) persistTurn(sessionID, message string, result *loop.TurnResult, durationMs int64) {
	s.traceRepo.Save(&store.TurnTrace{
		SessionID: sessionID,
		Message:   message,
		Reply:     result.Reply,
		ToolCalls: result.ToolCalls,
		CreatedAt: time.Now(),
	})

	// Persistence and publishing get their own timeout; the request
	// context may already be closing.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.archiveRepo != nil {
		if err := s.archiveRepo.Archive(ctx, sessionID, message, result, durationMs); err != nil {
			s.sysLogger.Warn("agent", "Failed to archive turn", map[string]interface{}{"error": err.Error()})
		}
	}

	if s.publisher != nil {
		event := events.NewAgentTurnCompleted(sessionID, len(result.ToolCalls), result.Iterations, result.Usage.TotalTokens, durationMs)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.sysLogger.Warn("agent", "Failed to publish usage event", map[string]interface{}{"error": err.Error()})
		}
	}
}

// GetTrace returns the most recent turn trace for a session.
func (s *agentService) GetTrace(ctx context.Context, sessionID string) (*dto.AgentTraceResponse, error) {
	trace, found := s.traceRepo.Get(sessionID)
	if !found {
		return nil, nil
	}

	return &dto.AgentTraceResponse{
		SessionID: trace.SessionID,
		Message:   trace.Message,
		Reply:     trace.Reply,
		ToolCalls: toolCallDTOs(trace.ToolCalls),
		CreatedAt: trace.CreatedAt,
	}, nil
}

func toMessages(history []dto.ConversationTurn) []llm.Message {
	messages := make([]llm.Message, 0, len(history))
	for _, turn := range history {
		messages = append(messages, llm.Message{
			Role:       turn.Role,
			Content:    turn.Content,
			ToolCallID: turn.ToolCallID,
		})
	}
	return messages
}

func toolCallDTOs(records []loop.ToolCallRecord) []dto.ToolCallDTO {
	dtos := make([]dto.ToolCallDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, dto.ToolCallDTO{
			Tool:      record.Tool,
			Arguments: record.Arguments,
			Result:    record.Result,
			Attempt:   record.Attempt,
			IsError:   record.IsError,
		})
	}
	return dtos
}
