package loop

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"thinkboard-be/pkg/llm"
)

// Reflection is the model's own assessment of whether enough
// information has been gathered to answer the original question.
type Reflection struct {
	Continue         bool    `json:"continue"`
	Reason           string  `json:"reason"`
	NextAction       string  `json:"next_action"`
	Confidence       float32 `json:"confidence"`
	AnsweredOriginal bool    `json:"answered_original"`
}

// reflect asks the model to decide whether to keep gathering. Fails
// safe: any model or parse failure is treated as an implicit stop, so
// the loop can never crash or spin on a misbehaving reflection.
func (o *Orchestrator) reflect(ctx context.Context, question string, messages []llm.Message) *Reflection {
	prompt := buildReflectionPrompt(question)

	reflectionHistory := append(append([]llm.Message{}, messages...), llm.Message{
		Role:    llm.RoleUser,
		Content: prompt,
	})

	// Lower temperature for a deterministic yes/no style decision
	response, err := o.llmProvider.Chat(ctx, reflectionHistory, llm.WithTemperature(0.1), llm.WithJSONOutput())
	if err != nil {
		o.logger.Printf("[WARN] Reflection call failed, stopping: %v", err)
		return &Reflection{Continue: false, Reason: "reflection unavailable"}
	}

	reflection, err := parseReflection(response)
	if err != nil {
		o.logger.Printf("[WARN] Reflection parse failed, stopping: %v", err)
		return &Reflection{Continue: false, Reason: "reflection unparseable"}
	}

	return reflection
}

func buildReflectionPrompt(question string) string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("Review the tool results gathered so far and decide whether you now have enough ")
	prompt.WriteString("information to answer the user's ORIGINAL question:\n\n")
	prompt.WriteString(fmt.Sprintf("  %q\n", question))
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"continue\": false,\n")
	prompt.WriteString("  \"reason\": \"why gathering should continue or stop\",\n")
	prompt.WriteString("  \"next_action\": \"what to look up next if continuing, otherwise empty\",\n")
	prompt.WriteString("  \"confidence\": 0.9,\n")
	prompt.WriteString("  \"answered_original\": true\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func parseReflection(response string) (*Reflection, error) {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var reflection Reflection
	if err := json.Unmarshal([]byte(response[startIdx:endIdx+1]), &reflection); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}
	return &reflection, nil
}
