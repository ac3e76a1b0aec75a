package agent

import "github.com/user/growthagent/pkg/llm"

// Filter projects the full internal history onto what is safe to return to
// the external caller: system instructions, tool results, and pure
// tool-dispatch assistant messages are internal plumbing and are dropped.
// Retained messages carry role and content only, so filtering an already
// filtered history is a no-op.
func Filter(history []llm.Message) []llm.Message {
	public := make([]llm.Message, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case llm.RoleSystem, llm.RoleTool:
			continue
		case llm.RoleAssistant:
			if len(msg.ToolCalls) > 0 && msg.Content == "" {
				continue
			}
			public = append(public, llm.Message{Role: msg.Role, Content: msg.Content})
		case llm.RoleUser:
			public = append(public, llm.Message{Role: msg.Role, Content: msg.Content})
		default:
			// Unknown roles are rejected before the loop runs; anything
			// slipping through stays internal.
			continue
		}
	}
	return public
}
