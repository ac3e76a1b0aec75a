// Package agent implements the tool-calling orchestration loop: it alternates
// between asking the model for its next action and executing the tool calls
// the model requested, until the model answers in plain text.
package agent

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/user/growthagent/internal/audit"
	"github.com/user/growthagent/internal/tools"
	"github.com/user/growthagent/pkg/llm"
)

// maxParallelTools bounds concurrent tool executions within one model turn.
const maxParallelTools = 4

// maxRoundsReply is the best-effort answer appended when the model keeps
// requesting tools past the round cap.
const maxRoundsReply = "I wasn't able to finish gathering the data for this question. Please try again with a narrower request."

// Loop owns one conversation at a time: callers hand it the full message
// history per request and get the augmented internal history back. It holds
// no per-conversation state, so one Loop is shared across requests.
type Loop struct {
	provider  llm.Provider
	registry  *tools.Registry
	recorder  *audit.Recorder
	maxRounds int
	now       func() time.Time
}

// New creates a Loop with the given dependencies.
func New(provider llm.Provider, registry *tools.Registry, recorder *audit.Recorder, maxRounds int) *Loop {
	return &Loop{
		provider:  provider,
		registry:  registry,
		recorder:  recorder,
		maxRounds: maxRounds,
		now:       time.Now,
	}
}

// Run executes the turn loop for one conversation. history is the
// caller-supplied message list; token is the request-scoped data-service
// credential, threaded into tool execution and nowhere else. The returned
// slice is the full internal history including the seeded system prompt,
// tool-dispatch messages, and tool results; callers apply Filter before
// exposing it.
func (l *Loop) Run(ctx context.Context, history []llm.Message, token string) ([]llm.Message, error) {
	for i, msg := range history {
		if !llm.KnownRole(msg.Role) {
			return nil, fmt.Errorf("message %d has unknown role %q", i, msg.Role)
		}
	}

	msgs := make([]llm.Message, 0, len(history)+1)
	msgs = append(msgs, llm.Message{
		Role:    llm.RoleSystem,
		Content: systemPrompt(l.now(), l.registry.Names()),
	})
	msgs = append(msgs, history...)

	corr := audit.NewCorrelationID()
	llmTools := l.registry.AsLLMTools()

	for round := 0; round < l.maxRounds; round++ {
		started := l.recorder.LLMStart(corr, round, msgs)
		resp, err := l.provider.Complete(ctx, msgs, llmTools)
		if err != nil {
			return nil, fmt.Errorf("LLM call: %w", err)
		}
		l.recorder.LLMEnd(corr, round, msgs, resp, started)

		// The model's message goes into history first, tool calls included,
		// even when its content is empty.
		msgs = append(msgs, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		if len(resp.ToolCalls) == 0 {
			return msgs, nil
		}

		msgs = append(msgs, l.executeToolCalls(ctx, corr, resp.ToolCalls, token)...)
	}

	// Round cap hit: force completion with a best-effort reply instead of
	// failing the whole request.
	l.recorder.MaxRounds(corr, l.maxRounds)
	msgs = append(msgs, llm.Message{Role: llm.RoleAssistant, Content: maxRoundsReply})
	return msgs, nil
}

// executeToolCalls runs every tool call from one model turn. Calls execute
// concurrently, but the returned tool messages follow the order the model
// issued them in, each tagged with its originating call id.
func (l *Loop) executeToolCalls(ctx context.Context, corr string, calls []llm.ToolCall, token string) []llm.Message {
	results := make([]string, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelTools)
	for i, call := range calls {
		g.Go(func() error {
			started := l.recorder.ToolStart(corr, call)
			results[i] = l.registry.Run(gctx, call, token)
			l.recorder.ToolEnd(corr, call, results[i], started)
			return nil
		})
	}
	// Workers only write their own slot and never return errors.
	g.Wait()

	out := make([]llm.Message, len(calls))
	for i, call := range calls {
		out[i] = llm.Message{
			Role:       llm.RoleTool,
			Content:    results[i],
			ToolCallID: call.ID,
		}
	}
	return out
}
