package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/user/growthagent/pkg/llm"
)

// stubAgent records its inputs and returns a canned internal history.
type stubAgent struct {
	history []llm.Message
	err     error

	gotHistory []llm.Message
	gotToken   string
}

func (a *stubAgent) Run(_ context.Context, history []llm.Message, token string) ([]llm.Message, error) {
	a.gotHistory = history
	a.gotToken = token
	if a.err != nil {
		return nil, a.err
	}
	return a.history, nil
}

func postChat(t *testing.T, srv *Server, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decodeErrors(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var payload struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not an error payload: %v\n%s", err, w.Body.String())
	}
	return payload.Errors
}

func TestChatHappyPath(t *testing.T) {
	agent := &stubAgent{history: []llm.Message{
		{Role: llm.RoleSystem, Content: "internal prompt"},
		{Role: llm.RoleUser, Content: "top pages?"},
		{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{{ID: "c1"}}},
		{Role: llm.RoleTool, Content: "rows", ToolCallID: "c1"},
		{Role: llm.RoleAssistant, Content: "Your top page was /home."},
	}}
	srv := New(agent, 4)

	w := postChat(t, srv, "secret", `{"messages":[{"role":"user","content":"top pages?"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if agent.gotToken != "secret" {
		t.Errorf("token not threaded to the agent, got %q", agent.gotToken)
	}

	var resp struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// Internal plumbing filtered: only the user turn and the final answer.
	if len(resp.Messages) != 2 {
		t.Fatalf("expected 2 public messages, got %+v", resp.Messages)
	}
	if resp.Messages[0].Role != "user" || resp.Messages[1].Content != "Your top page was /home." {
		t.Errorf("unexpected public history %+v", resp.Messages)
	}
}

func TestChatTrailingSlash(t *testing.T) {
	agent := &stubAgent{history: []llm.Message{{Role: llm.RoleAssistant, Content: "ok"}}}
	srv := New(agent, 4)

	req := httptest.NewRequest(http.MethodPost, "/chat/", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for /chat/, got %d", w.Code)
	}
}

func TestChatMissingToken(t *testing.T) {
	srv := New(&stubAgent{}, 4)

	for name, header := range map[string]string{
		"absent":       "",
		"wrong scheme": "Basic dXNlcjpwYXNz",
		"bare bearer":  "Bearer",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			errs := decodeErrors(t, w)
			if len(errs) != 1 || errs[0] != "Unauthorized: Missing or invalid authentication token." {
				t.Errorf("unexpected errors %v", errs)
			}
		})
	}
}

func TestChatCaseInsensitiveBearer(t *testing.T) {
	agent := &stubAgent{history: []llm.Message{{Role: llm.RoleAssistant, Content: "ok"}}}
	srv := New(agent, 4)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	req.Header.Set("Authorization", "bearer secret")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if agent.gotToken != "secret" {
		t.Errorf("expected token 'secret', got %q", agent.gotToken)
	}
}

func TestChatValidation(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"malformed json", `{"messages": [`, "Validation Error: The request data is invalid."},
		{"empty messages", `{"messages": []}`, "messages: at least one message is required"},
		{"missing messages", `{}`, "messages: at least one message is required"},
		{"bad role", `{"messages":[{"role":"tool","content":"x"}]}`, "messages[0].role: must be one of system, user, assistant"},
		{"blank content", `{"messages":[{"role":"user","content":"   "}]}`, "messages[0].content: must not be empty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := New(&stubAgent{}, 4)
			w := postChat(t, srv, "tok", tc.body)
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
			}
			errs := decodeErrors(t, w)
			found := false
			for _, e := range errs {
				if e == tc.wantErr {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error %q in %v", tc.wantErr, errs)
			}
		})
	}
}

func TestChatValidationCollectsAllErrors(t *testing.T) {
	srv := New(&stubAgent{}, 4)
	w := postChat(t, srv, "tok",
		`{"messages":[{"role":"robot","content":"x"},{"role":"user","content":""}]}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	errs := decodeErrors(t, w)
	if len(errs) != 2 {
		t.Errorf("expected 2 validation errors, got %v", errs)
	}
}

func TestChatAgentFailure(t *testing.T) {
	srv := New(&stubAgent{err: errors.New("provider down")}, 4)
	w := postChat(t, srv, "tok", `{"messages":[{"role":"user","content":"hi"}]}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	errs := decodeErrors(t, w)
	if len(errs) != 1 || !strings.Contains(errs[0], "currently unavailable") {
		t.Errorf("unexpected errors %v", errs)
	}
}

func TestRootLiveness(t *testing.T) {
	srv := New(&stubAgent{}, 4)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload["message"] != "AI Growth Analyst Agent is running" {
		t.Errorf("unexpected liveness payload %v", payload)
	}
}
