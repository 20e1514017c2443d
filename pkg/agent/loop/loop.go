package loop

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"thinkboard-be/pkg/agent/history"
	"thinkboard-be/pkg/agent/intent"
	"thinkboard-be/pkg/agent/stream"
	"thinkboard-be/pkg/agent/summary"
	"thinkboard-be/pkg/agent/tools"
	"thinkboard-be/pkg/llm"
	"thinkboard-be/pkg/whiteboard"
)

// Config bounds one agent turn.
type Config struct {
	MaxToolCalls       int // Global cap on executed tool calls per turn
	HistoryTokenBudget int // Token budget for each model call
}

func DefaultConfig() Config {
	return Config{
		MaxToolCalls:       10,
		HistoryTokenBudget: 8000,
	}
}

// Orchestrator runs the agent state machine for one turn:
//
//	ANALYZING_INTENT -> SUMMARIZING_CONTEXT -> AWAITING_MODEL_DECISION
//	-> EXECUTING_TOOLS -> REFLECTING -> (back or) STREAMING_FINAL_ANSWER
//	-> DONE
//
// Strictly sequential: one outstanding model call or tool execution at
// a time. The snapshot is immutable for the turn, so no locking.
type Orchestrator struct {
	llmProvider llm.LLMProvider
	registry    *tools.Registry
	analyzer    *intent.Analyzer
	config      Config
	logger      *log.Logger
}

// NewOrchestrator creates an orchestrator with its own intent analyzer.
func NewOrchestrator(llmProvider llm.LLMProvider, registry *tools.Registry, config Config, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		llmProvider: llmProvider,
		registry:    registry,
		analyzer:    intent.NewAnalyzer(llmProvider, logger),
		config:      config,
		logger:      logger,
	}
}

// ToolCallRecord is the trace of one executed tool call. Ephemeral
// within the loop, but persisted into the event stream and trace store
// for UI replay.
type ToolCallRecord struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments"`
	Result    json.RawMessage `json:"result"`
	Attempt   int             `json:"attempt"`
	IsError   bool            `json:"is_error"`
}

// TurnResult is the terminal outcome of one agent turn.
type TurnResult struct {
	Reply      string
	ToolCalls  []ToolCallRecord
	Iterations int
	Usage      llm.TokenUsage
}

// Run executes one full agent turn, emitting events in causal order.
// An emitter error means the client disconnected: the turn aborts and
// the context error is returned so callers can distinguish cancellation
// from real failures.
func (o *Orchestrator) Run(
	ctx context.Context,
	message string,
	snapshot *whiteboard.Snapshot,
	conversation []llm.Message,
	emitter *stream.TurnEmitter,
) (*TurnResult, error) {

	result := &TurnResult{}

	// ═══════════════════════════════════════════════════════════════
	// ANALYZING_INTENT
	// ═══════════════════════════════════════════════════════════════
	if err := emitter.Emit(stream.Event{Type: stream.EventAnalyzingIntent}); err != nil {
		return nil, context.Canceled
	}

	classification, err := o.analyzer.Analyze(ctx, message, snapshot)
	if err != nil {
		// Analyze only errors on context cancellation
		return nil, err
	}
	o.logger.Printf("[LOOP] Intent: %s (keywords: %v)", classification.IntentType, classification.SearchKeywords)

	// ═══════════════════════════════════════════════════════════════
	// SUMMARIZING_CONTEXT
	// ═══════════════════════════════════════════════════════════════
	boardSummary := summary.Summarize(snapshot)
	if err := emitter.Emit(stream.Event{Type: stream.EventContextSummary, Content: boardSummary}); err != nil {
		return nil, context.Canceled
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: o.buildSystemPrompt(boardSummary, classification)},
	}
	messages = append(messages, conversation...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	// ═══════════════════════════════════════════════════════════════
	// AWAITING_MODEL_DECISION <-> EXECUTING_TOOLS <-> REFLECTING
	// ═══════════════════════════════════════════════════════════════
	toolCallCount := 0
	definitions := o.registry.Definitions()

	for {
		result.Iterations++
		messages = history.Truncate(messages, o.config.HistoryTokenBudget)

		response, err := o.llmProvider.ChatWithTools(ctx, messages, definitions)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("model decision failed: %w", err)
		}
		o.accumulateUsage(result, response.Usage)

		// Zero tool calls: the model is ready to answer.
		if len(response.ToolCalls) == 0 {
			o.logger.Printf("[LOOP] Iteration %d: no tool calls requested, moving to final answer", result.Iterations)
			break
		}

		// EXECUTING_TOOLS: sequential, in requested order. Each result
		// is appended before the next call is issued.
		assistantMsg := llm.Message{Role: llm.RoleAssistant, Content: response.Content, ToolCalls: response.ToolCalls}
		messages = append(messages, assistantMsg)

		for _, tc := range response.ToolCalls {
			// Every requested call id must get a tool response or the
			// provider protocol breaks, so calls over the cap are
			// answered with a refusal payload instead of being skipped.
			if toolCallCount >= o.config.MaxToolCalls {
				refusal := `{"error": "tool call limit reached"}`
				messages = append(messages, llm.Message{Role: llm.RoleTool, Content: refusal, ToolCallID: tc.ID})
				continue
			}

			attempt := emitter.ToolCallStart(tc.Name, tc.Arguments)
			toolResult := o.registry.Dispatch(snapshot, tc.Name, tc.Arguments)
			toolCallCount++

			o.logger.Printf("[LOOP] Tool %s (attempt %d): error=%v", tc.Name, attempt, toolResult.IsError)
			emitter.ToolCallResult(tc.Name, attempt, toolResult.Output, toolResult.IsError)

			result.ToolCalls = append(result.ToolCalls, ToolCallRecord{
				Tool:      tc.Name,
				Arguments: tc.Arguments,
				Result:    json.RawMessage(toolResult.Output),
				Attempt:   attempt,
				IsError:   toolResult.IsError,
			})
			messages = append(messages, llm.Message{Role: llm.RoleTool, Content: toolResult.Output, ToolCallID: tc.ID})
		}

		if toolCallCount >= o.config.MaxToolCalls {
			o.logger.Printf("[LOOP] Tool call cap reached (%d), forcing final answer", o.config.MaxToolCalls)
			break
		}

		// REFLECTING
		if err := emitter.Emit(stream.Event{Type: stream.EventReflecting}); err != nil {
			return nil, context.Canceled
		}

		reflection := o.reflect(ctx, message, messages)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		cont := reflection.Continue
		if err := emitter.Emit(stream.Event{
			Type:       stream.EventDecision,
			Content:    reflection.Reason,
			Continue:   &cont,
			Confidence: reflection.Confidence,
		}); err != nil {
			return nil, context.Canceled
		}

		if !reflection.Continue {
			o.logger.Printf("[LOOP] Reflection: stop (%s)", reflection.Reason)
			break
		}

		o.logger.Printf("[LOOP] Reflection: continue (%s)", reflection.NextAction)
		messages = append(messages, llm.Message{
			Role:    llm.RoleAssistant,
			Content: fmt.Sprintf("Reflection: more information is needed. %s Next: %s", reflection.Reason, reflection.NextAction),
		})
	}

	// ═══════════════════════════════════════════════════════════════
	// STREAMING_FINAL_ANSWER
	// ═══════════════════════════════════════════════════════════════
	reply, err := o.streamFinalAnswer(ctx, messages, emitter)
	if err != nil {
		return nil, err
	}
	result.Reply = reply

	if err := emitter.Emit(stream.Event{Type: stream.EventDone}); err != nil {
		return nil, context.Canceled
	}

	o.logger.Printf("[LOOP] Done: %d iterations, %d tool calls, %d tokens",
		result.Iterations, toolCallCount, result.Usage.TotalTokens)
	return result, nil
}

// streamFinalAnswer issues the terminal model call with no tool access
// and forwards chunks to the emitter. An emitter failure cancels the
// provider stream promptly so spend stops with the client.
func (o *Orchestrator) streamFinalAnswer(ctx context.Context, messages []llm.Message, emitter *stream.TurnEmitter) (string, error) {
	if err := emitter.Emit(stream.Event{Type: stream.EventResponseStart}); err != nil {
		return "", context.Canceled
	}

	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: "Answer the user's original question now, based on everything gathered above. Do not request any more tools.",
	})

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		errCh <- o.llmProvider.StreamChat(streamCtx, messages, chunks)
		close(chunks)
	}()

	var reply strings.Builder
	clientGone := false
	for chunk := range chunks {
		if clientGone {
			continue // drain
		}
		reply.WriteString(chunk)
		if err := emitter.Emit(stream.Event{Type: stream.EventResponseChunk, Content: chunk}); err != nil {
			clientGone = true
			cancel()
		}
	}

	if err := <-errCh; err != nil {
		if streamCtx.Err() != nil {
			return "", context.Canceled
		}
		return "", fmt.Errorf("final answer stream failed: %w", err)
	}
	if clientGone {
		return "", context.Canceled
	}

	return reply.String(), nil
}

func (o *Orchestrator) buildSystemPrompt(boardSummary string, classification *intent.Classification) string {
	var prompt strings.Builder

	prompt.WriteString("You are the ThinkBoard assistant. You answer questions about the user's whiteboard.\n\n")

	prompt.WriteString("<board_summary>\n")
	prompt.WriteString(boardSummary)
	prompt.WriteString("</board_summary>\n\n")

	prompt.WriteString("<question_analysis>\n")
	prompt.WriteString(classification.Describe())
	prompt.WriteString("</question_analysis>\n\n")

	prompt.WriteString("<rules>\n")
	prompt.WriteString("1. Use the query tools to look up board content before answering anything the summary does not cover.\n")
	prompt.WriteString("2. If a search returns nothing, retry with the alternative keywords before giving up.\n")
	prompt.WriteString("3. Answer ONLY from board content. Never invent notes that are not there.\n")
	prompt.WriteString("4. When you have enough information, answer directly without requesting more tools.\n")
	prompt.WriteString("</rules>")

	return prompt.String()
}

func (o *Orchestrator) accumulateUsage(result *TurnResult, usage *llm.TokenUsage) {
	if usage == nil {
		return
	}
	result.Usage.PromptTokens += usage.PromptTokens
	result.Usage.CompletionTokens += usage.CompletionTokens
	result.Usage.TotalTokens += usage.TotalTokens
}
