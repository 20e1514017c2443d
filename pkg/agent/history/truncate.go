package history

import "thinkboard-be/pkg/llm"

// estimateTokens is the usual chars/4 heuristic. It only needs to be
// consistent, not exact: the budget is a safety margin, not the
// provider's real context window.
func estimateTokens(msg llm.Message) int {
	tokens := len(msg.Content)/4 + 4
	for _, tc := range msg.ToolCalls {
		tokens += (len(tc.Name) + len(tc.Arguments)) / 4
	}
	return tokens
}

// Truncate drops the oldest messages until the history fits the token
// budget. A leading system message is always kept. An assistant
// message carrying tool calls and the tool messages answering it form
// one atomic block: the provider protocol breaks if a tool response
// survives without its request (or the reverse), so blocks are kept or
// dropped whole.
func Truncate(messages []llm.Message, tokenBudget int) []llm.Message {
	if len(messages) == 0 {
		return messages
	}

	var system *llm.Message
	rest := messages
	if messages[0].Role == llm.RoleSystem {
		system = &messages[0]
		rest = messages[1:]
	}

	blocks := groupBlocks(rest)

	budget := tokenBudget
	if system != nil {
		budget -= estimateTokens(*system)
	}

	// Walk blocks from the tail; newest context matters most.
	kept := len(blocks)
	used := 0
	for i := len(blocks) - 1; i >= 0; i-- {
		cost := 0
		for _, msg := range blocks[i] {
			cost += estimateTokens(msg)
		}
		if used+cost > budget && used > 0 {
			break
		}
		used += cost
		kept = i
		if used > budget {
			// A single oversized block still gets kept so the turn is
			// never empty.
			break
		}
	}

	var result []llm.Message
	if system != nil {
		result = append(result, *system)
	}
	for _, block := range blocks[kept:] {
		result = append(result, block...)
	}
	return result
}

// groupBlocks splits the history into atomic units: [assistant tool
// request + its tool responses] or single messages.
func groupBlocks(messages []llm.Message) [][]llm.Message {
	var blocks [][]llm.Message
	i := 0
	for i < len(messages) {
		msg := messages[i]
		if msg.Role == llm.RoleAssistant && len(msg.ToolCalls) > 0 {
			block := []llm.Message{msg}
			j := i + 1
			for j < len(messages) && messages[j].Role == llm.RoleTool {
				block = append(block, messages[j])
				j++
			}
			blocks = append(blocks, block)
			i = j
			continue
		}
		if msg.Role == llm.RoleTool {
			// Orphaned tool response (its request was never recorded).
			// Dropping it here keeps the invariant for every caller.
			i++
			continue
		}
		blocks = append(blocks, []llm.Message{msg})
		i++
	}
	return blocks
}
