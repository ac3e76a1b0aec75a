// Package audit emits structured log events for every model turn and tool
// execution: start/end pairs with durations, truncated inputs/outputs, and
// token usage. Bearer credentials never reach these logs.
package audit

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkoukk/tiktoken-go"

	"github.com/user/growthagent/pkg/llm"
)

// maxField caps logged inputs/outputs so audit lines stay one screen wide.
const maxField = 260

// Recorder writes audit events through slog. When the provider reports no
// usage, token counts are estimated with the model's tokenizer.
type Recorder struct {
	log       *slog.Logger
	tokenizer *tiktoken.Tiktoken
}

// New creates a Recorder for the given model. Unknown models fall back to
// the cl100k_base encoding.
func New(model string) (*Recorder, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}
	return &Recorder{log: slog.Default(), tokenizer: enc}, nil
}

// Discard returns a Recorder whose events go nowhere. Tests that exercise
// the loop without asserting on audit output use it.
func Discard() *Recorder {
	return &Recorder{log: slog.New(slog.DiscardHandler)}
}

// NewCorrelationID returns an id that ties one conversation's audit events
// together.
func NewCorrelationID() string {
	return uuid.New().String()
}

func truncate(s string) string {
	if len(s) <= maxField {
		return s
	}
	return s[:maxField] + "…"
}

func (r *Recorder) countTokens(text string) int {
	if r.tokenizer == nil {
		return 0
	}
	return len(r.tokenizer.Encode(text, nil, nil))
}

// estimateInput totals tokens over the prompt messages.
func (r *Recorder) estimateInput(messages []llm.Message) int {
	total := 0
	for _, m := range messages {
		total += r.countTokens(m.Content)
	}
	return total
}

// LLMStart records a model turn beginning and returns its start time.
func (r *Recorder) LLMStart(corr string, round int, messages []llm.Message) time.Time {
	r.log.Info("llm.start", "corr", corr, "round", round, "messages", len(messages))
	return time.Now()
}

// LLMEnd records a model turn completing. Provider-reported usage wins;
// otherwise counts are estimated from the texts.
func (r *Recorder) LLMEnd(corr string, round int, messages []llm.Message, resp *llm.Response, started time.Time) {
	usage := resp.Usage
	if usage.TotalTokens == 0 {
		usage.InputTokens = r.estimateInput(messages)
		usage.OutputTokens = r.countTokens(resp.Content)
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	r.log.Info("llm.end",
		"corr", corr,
		"round", round,
		"text", truncate(resp.Content),
		"tool_calls", len(resp.ToolCalls),
		"tokens_in", usage.InputTokens,
		"tokens_out", usage.OutputTokens,
		"duration_ms", time.Since(started).Milliseconds(),
	)
}

// ToolStart records a tool execution beginning and returns its start time.
func (r *Recorder) ToolStart(corr string, call llm.ToolCall) time.Time {
	r.log.Info("tool.start",
		"corr", corr,
		"tool", call.Function.Name,
		"call_id", call.ID,
		"inputs", truncate(string(call.Function.Arguments)),
	)
	return time.Now()
}

// MaxRounds records a conversation hitting the round cap before the model
// produced a plain-text answer.
func (r *Recorder) MaxRounds(corr string, rounds int) {
	r.log.Warn("loop.max_rounds", "corr", corr, "rounds", rounds)
}

// ToolEnd records a tool execution completing.
func (r *Recorder) ToolEnd(corr string, call llm.ToolCall, result string, started time.Time) {
	r.log.Info("tool.end",
		"corr", corr,
		"tool", call.Function.Name,
		"call_id", call.ID,
		"outputs", truncate(result),
		"duration_ms", time.Since(started).Milliseconds(),
	)
}
