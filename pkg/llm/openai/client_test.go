package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/user/growthagent/pkg/llm"
)

func TestOpenAIClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("missing or invalid auth header")
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{
					"message": map[string]any{
						"role":    "assistant",
						"content": "test response",
					},
				},
			},
			"usage": map[string]any{
				"prompt_tokens":     10,
				"completion_tokens": 5,
				"total_tokens":      15,
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	config := &llm.Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
	}
	client := New(config)

	ctx := context.Background()
	messages := []llm.Message{
		{Role: "user", Content: "hello"},
	}

	resp, err := client.Complete(ctx, messages, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "test response" {
		t.Errorf("expected 'test response', got %s", resp.Content)
	}
	if resp.Usage.InputTokens != 10 {
		t.Errorf("expected 10 input tokens, got %d", resp.Usage.InputTokens)
	}
	if resp.Usage.OutputTokens != 5 {
		t.Errorf("expected 5 output tokens, got %d", resp.Usage.OutputTokens)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("expected 15 total tokens, got %d", resp.Usage.TotalTokens)
	}
}

func TestOpenAIClientToolCallRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var reqBody struct {
			Messages []map[string]any `json:"messages"`
			Tools    []map[string]any `json:"tools"`
		}
		if err := json.Unmarshal(body, &reqBody); err != nil {
			t.Fatal(err)
		}

		if len(reqBody.Tools) != 1 {
			t.Errorf("expected 1 tool, got %d", len(reqBody.Tools))
		}

		// The tool-result message must carry its tool_call_id, and the
		// assistant message must carry its tool_calls.
		if len(reqBody.Messages) != 3 {
			t.Fatalf("expected 3 messages, got %d", len(reqBody.Messages))
		}
		if calls, ok := reqBody.Messages[1]["tool_calls"].([]any); !ok || len(calls) != 1 {
			t.Error("assistant message lost its tool_calls")
		} else {
			fn := calls[0].(map[string]any)["function"].(map[string]any)
			// Arguments travel as a JSON-encoded string on the wire.
			if args, ok := fn["arguments"].(string); !ok || args != "{}" {
				t.Errorf("expected string arguments %q, got %v", "{}", fn["arguments"])
			}
		}
		if got := reqBody.Messages[2]["tool_call_id"]; got != "call-1" {
			t.Errorf("expected tool_call_id 'call-1', got %v", got)
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{
					"role":    "assistant",
					"content": "",
					"tool_calls": []map[string]any{
						{
							"id":   "call-2",
							"type": "function",
							"function": map[string]any{
								"name":      "get_current_datetime",
								"arguments": "{}",
							},
						},
					},
				}},
			},
			"usage": map[string]any{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := New(&llm.Config{BaseURL: server.URL, APIKey: "key", Model: "gpt-4o-mini"})

	messages := []llm.Message{
		{Role: "user", Content: "what time is it"},
		{Role: "assistant", ToolCalls: []llm.ToolCall{{
			ID:       "call-1",
			Type:     "function",
			Function: llm.FunctionCall{Name: "get_current_datetime", Arguments: json.RawMessage(`{}`)},
		}}},
		{Role: "tool", Content: "2025-01-15T10:00:00Z", ToolCallID: "call-1"},
	}
	tools := []llm.Tool{{
		Type: "function",
		Function: llm.Function{
			Name:        "get_current_datetime",
			Description: "time",
			Parameters:  json.RawMessage(`{"type":"object","properties":{}}`),
		},
	}}

	resp, err := client.Complete(context.Background(), messages, tools)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call in response, got %d", len(resp.ToolCalls))
	}
	if resp.ToolCalls[0].ID != "call-2" {
		t.Errorf("expected call id 'call-2', got %q", resp.ToolCalls[0].ID)
	}
	if resp.ToolCalls[0].Function.Name != "get_current_datetime" {
		t.Errorf("unexpected function name %q", resp.ToolCalls[0].Function.Name)
	}
	// The string-encoded arguments come back as a decodable JSON object.
	var decoded map[string]any
	if err := json.Unmarshal(resp.ToolCalls[0].Function.Arguments, &decoded); err != nil {
		t.Errorf("arguments not decodable: %v", err)
	}
}

func TestOpenAIClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	client := New(&llm.Config{BaseURL: server.URL, APIKey: "key", Model: "gpt-4o-mini"})

	_, err := client.Complete(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, nil)
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestOpenAIClientNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client := New(&llm.Config{BaseURL: server.URL, APIKey: "key", Model: "gpt-4o-mini"})

	_, err := client.Complete(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, nil)
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}
