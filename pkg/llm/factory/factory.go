package factory

import (
	"fmt"

	"thinkboard-be/pkg/llm"
	"thinkboard-be/pkg/llm/ollama"
	"thinkboard-be/pkg/llm/openai"
)

// NewLLMProvider builds the configured provider. "openai" needs an API
// key; "ollama" needs a reachable base URL. An OpenAI-compatible base
// URL routes through the openai client against a custom endpoint.
func NewLLMProvider(provider, model, ollamaBaseURL, openaiAPIKey, openaiBaseURL string) (llm.LLMProvider, error) {
	switch provider {
	case "openai":
		if openaiAPIKey == "" {
			return nil, fmt.Errorf("openai provider requires OPENAI_API_KEY")
		}
		if openaiBaseURL != "" {
			return openai.NewOpenAICompatibleProvider(openaiAPIKey, openaiBaseURL, model), nil
		}
		return openai.NewOpenAIProvider(openaiAPIKey, model), nil
	case "ollama":
		return ollama.NewOllamaProvider(ollamaBaseURL, model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", provider)
	}
}
