// Package server exposes the inbound HTTP surface: POST /chat runs one
// conversation through the orchestration loop, GET / is a liveness check.
// Errors that occur before the loop starts (bad credentials, malformed
// bodies) surface as HTTP errors; everything inside the loop is the model's
// to explain.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/semaphore"

	"github.com/user/growthagent/internal/agent"
	"github.com/user/growthagent/pkg/llm"
)

// Agent runs one conversation and returns the full internal history.
type Agent interface {
	Run(ctx context.Context, history []llm.Message, token string) ([]llm.Message, error)
}

// Server is the HTTP handler for the chat API.
type Server struct {
	agent Agent
	sem   *semaphore.Weighted
	mux   *http.ServeMux
}

// New creates a Server. maxConcurrent caps simultaneously processed chats.
func New(a Agent, maxConcurrent int64) *Server {
	s := &Server{
		agent: a,
		sem:   semaphore.NewWeighted(maxConcurrent),
		mux:   http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /chat", s.handleChat)
	s.mux.HandleFunc("POST /chat/{$}", s.handleChat)
	s.mux.HandleFunc("GET /", s.handleRoot)
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// turn is one {role, content} pair of the public wire format.
type turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []turn `json:"messages"`
}

type chatResponse struct {
	Messages []turn `json:"messages"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeErrors(w http.ResponseWriter, status int, errs ...string) {
	writeJSON(w, status, map[string][]string{"errors": errs})
}

// bearerToken extracts the credential from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// validateTurns normalizes and checks the caller-supplied history. Callers
// may send system, user, and assistant turns; tool turns are internal
// scaffolding and are rejected along with unknown roles.
func validateTurns(turns []turn) ([]llm.Message, []string) {
	var errs []string
	if len(turns) == 0 {
		errs = append(errs, "messages: at least one message is required")
		return nil, errs
	}
	msgs := make([]llm.Message, 0, len(turns))
	for i, t := range turns {
		switch t.Role {
		case llm.RoleSystem, llm.RoleUser, llm.RoleAssistant:
		default:
			errs = append(errs, fmt.Sprintf("messages[%d].role: must be one of system, user, assistant", i))
			continue
		}
		if strings.TrimSpace(t.Content) == "" {
			errs = append(errs, fmt.Sprintf("messages[%d].content: must not be empty", i))
			continue
		}
		msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Content})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return msgs, nil
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeErrors(w, http.StatusUnauthorized, "Unauthorized: Missing or invalid authentication token.")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, http.StatusUnprocessableEntity, "Validation Error: The request data is invalid.")
		return
	}
	history, errs := validateTurns(req.Messages)
	if len(errs) > 0 {
		writeErrors(w, http.StatusUnprocessableEntity, errs...)
		return
	}

	if err := s.sem.Acquire(r.Context(), 1); err != nil {
		writeErrors(w, http.StatusServiceUnavailable, "Request canceled while waiting for capacity.")
		return
	}
	defer s.sem.Release(1)

	full, err := s.agent.Run(r.Context(), history, token)
	if err != nil {
		slog.Error("chat request failed", "error", err)
		writeErrors(w, http.StatusBadGateway, "The assistant is currently unavailable. Please try again.")
		return
	}

	public := agent.Filter(full)
	out := make([]turn, len(public))
	for i, msg := range public {
		out[i] = turn{Role: msg.Role, Content: msg.Content}
	}
	writeJSON(w, http.StatusOK, chatResponse{Messages: out})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "AI Growth Analyst Agent is running"})
}
