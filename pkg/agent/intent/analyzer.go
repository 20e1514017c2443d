package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"thinkboard-be/pkg/llm"
	"thinkboard-be/pkg/whiteboard"
)

// Classification represents the resolved reading of a user question.
// It is derived once per turn, read-only afterwards, and discarded at
// turn end. The classification is advisory context for the loop's
// system prompt; it never gates which tools may be called.
type Classification struct {
	IntentType          string   `json:"intent_type"`          // search, analysis, overview, specific, comparison
	KeyEntities         []string `json:"key_entities"`         // Entities the question is about
	ExpectedAnswerType  string   `json:"expected_answer_type"` // list, detail, summary, relationship, count
	SearchKeywords      []string `json:"search_keywords"`      // Primary keywords for tool calls
	AlternativeKeywords []string `json:"alternative_keywords"` // Synonyms/expansions (e.g. "TA" -> "target audience")
	Confidence          float32  `json:"confidence"`           // 0.0-1.0
}

// Intent type constants
const (
	IntentSearch     = "search"
	IntentAnalysis   = "analysis"
	IntentOverview   = "overview"
	IntentSpecific   = "specific"
	IntentComparison = "comparison"
)

// Expected answer type constants
const (
	AnswerList         = "list"
	AnswerDetail       = "detail"
	AnswerSummary      = "summary"
	AnswerRelationship = "relationship"
	AnswerCount        = "count"
)

// Analyzer performs pure LLM-based intent classification.
// This runs once per turn - NO tool access, just understanding.
type Analyzer struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

// NewAnalyzer creates a new intent analyzer
func NewAnalyzer(llmProvider llm.LLMProvider, logger *log.Logger) *Analyzer {
	return &Analyzer{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Analyze classifies the user message. Failures never block the turn:
// on LLM or parse errors a heuristic fallback classification is used.
func (a *Analyzer) Analyze(ctx context.Context, message string, snapshot *whiteboard.Snapshot) (*Classification, error) {
	prompt := a.buildPrompt(message, snapshot)

	// Temperature 0 for deterministic classification output
	response, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0), llm.WithJSONOutput())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.logger.Printf("[ERROR] Intent analysis failed: %v", err)
		return a.fallbackClassification(message), nil
	}

	classification, err := a.parseClassification(response)
	if err != nil {
		a.logger.Printf("[WARN] Intent parsing failed, using fallback: %v", err)
		return a.fallbackClassification(message), nil
	}

	a.logger.Printf("[INTENT] Classified: %s (Answer: %s, Keywords: %v, Confidence: %.2f)",
		classification.IntentType, classification.ExpectedAnswerType, classification.SearchKeywords, classification.Confidence)

	return classification, nil
}

func (a *Analyzer) buildPrompt(message string, snapshot *whiteboard.Snapshot) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are an intent analyzer for a whiteboard assistant. Your ONLY job is to classify what the user wants.\n")
	prompt.WriteString("You do NOT answer questions. You only classify intent and propose search keywords.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<board_state>\n")
	prompt.WriteString(fmt.Sprintf("The whiteboard has %d notes and %d groups.\n", len(snapshot.Notes), len(snapshot.Groups)))
	prompt.WriteString("</board_state>\n\n")

	prompt.WriteString("<user_query>\n")
	prompt.WriteString(message)
	prompt.WriteString("\n</user_query>\n\n")

	prompt.WriteString("<intent_definitions>\n")
	prompt.WriteString("Choose ONE intent_type that best matches the question:\n\n")
	prompt.WriteString("search: User wants to find notes or groups about a topic\n")
	prompt.WriteString("analysis: User wants conclusions drawn from the board content\n")
	prompt.WriteString("overview: User asks what is on the board as a whole\n")
	prompt.WriteString("specific: User asks about one particular note or group\n")
	prompt.WriteString("comparison: User asks how two or more things relate or differ\n")
	prompt.WriteString("</intent_definitions>\n\n")

	prompt.WriteString("<keyword_rules>\n")
	prompt.WriteString("search_keywords: the literal terms from the question worth searching for.\n")
	prompt.WriteString("alternative_keywords: synonyms and expansions the board might use instead.\n")
	prompt.WriteString("Expand abbreviations: 'TA' -> 'target audience', 'MVP' -> 'minimum viable product'.\n")
	prompt.WriteString("</keyword_rules>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"intent_type\": \"search|analysis|overview|specific|comparison\",\n")
	prompt.WriteString("  \"key_entities\": [\"entity\"],\n")
	prompt.WriteString("  \"expected_answer_type\": \"list|detail|summary|relationship|count\",\n")
	prompt.WriteString("  \"search_keywords\": [\"keyword\"],\n")
	prompt.WriteString("  \"alternative_keywords\": [\"synonym\"],\n")
	prompt.WriteString("  \"confidence\": 0.95\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func (a *Analyzer) parseClassification(response string) (*Classification, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var classification Classification
	if err := json.Unmarshal([]byte(jsonContent), &classification); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	// Validate and normalize
	classification.IntentType = strings.ToLower(classification.IntentType)
	switch classification.IntentType {
	case IntentSearch, IntentAnalysis, IntentOverview, IntentSpecific, IntentComparison:
	default:
		classification.IntentType = IntentSearch
	}

	classification.ExpectedAnswerType = strings.ToLower(classification.ExpectedAnswerType)
	switch classification.ExpectedAnswerType {
	case AnswerList, AnswerDetail, AnswerSummary, AnswerRelationship, AnswerCount:
	default:
		classification.ExpectedAnswerType = AnswerSummary
	}

	return &classification, nil
}

// fallbackClassification builds a keyword-only classification from the
// raw message when the model is unavailable.
func (a *Analyzer) fallbackClassification(message string) *Classification {
	var keywords []string
	for _, word := range strings.Fields(message) {
		word = strings.Trim(strings.ToLower(word), ".,!?\"'")
		if len(word) > 3 {
			keywords = append(keywords, word)
		}
		if len(keywords) == 5 {
			break
		}
	}

	return &Classification{
		IntentType:         IntentSearch,
		ExpectedAnswerType: AnswerSummary,
		SearchKeywords:     keywords,
		Confidence:         0.3,
	}
}

// Describe renders the classification as prompt context for the loop.
func (c *Classification) Describe() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Intent: %s (expected answer: %s, confidence %.2f)\n", c.IntentType, c.ExpectedAnswerType, c.Confidence))
	if len(c.KeyEntities) > 0 {
		sb.WriteString(fmt.Sprintf("Key entities: %s\n", strings.Join(c.KeyEntities, ", ")))
	}
	if len(c.SearchKeywords) > 0 {
		sb.WriteString(fmt.Sprintf("Suggested search keywords: %s\n", strings.Join(c.SearchKeywords, ", ")))
	}
	if len(c.AlternativeKeywords) > 0 {
		sb.WriteString(fmt.Sprintf("Alternative keywords (synonyms worth trying if a search comes back empty): %s\n", strings.Join(c.AlternativeKeywords, ", ")))
	}
	return sb.String()
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
