package webui

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/agentcoder/agentcoder/pkg/providers"
	"github.com/agentcoder/agentcoder/pkg/providers/llm"
	"github.com/agentcoder/agentcoder/pkg/types"
)

// ChatRequest is the wire shape accepted by POST /api/chat and the
// WebSocket chat frames.
type ChatRequest struct {
	Message  string          `json:"message"`
	History  []types.Message `json:"history"`
	Provider string          `json:"provider"`
	Model    string          `json:"model"`
	APIKey   string          `json:"api_key"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleChat dispatches one chat request to the configured provider.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Message == "" {
		writeJSONError(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.Provider == "" {
		req.Provider = "openai"
	}
	if req.Model == "" {
		req.Model = "gpt-4-turbo-preview"
	}

	s.mutex.Lock()
	s.chatCount++
	s.mutex.Unlock()

	s.logger.LogChatRequest(req.Provider, req.Model, len(req.History))

	resp, err := s.service.Send(r.Context(), providers.SendRequest{
		Prompt:   req.Message,
		History:  req.History,
		Provider: req.Provider,
		Model:    req.Model,
		APIKey:   req.APIKey,
	})
	if err != nil {
		s.logger.LogError(err)
		writeJSONError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleModels returns the provider -> models map.
func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.service.AvailableModels())
}

// handleHealth reports server liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mutex.RLock()
	uptime := time.Since(s.startTime)
	chats := s.chatCount
	s.mutex.RUnlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"services":       []string{"ai_providers"},
		"uptime_seconds": int(uptime.Seconds()),
		"chat_requests":  chats,
	})
}

// statusForError maps the error taxonomy onto HTTP statuses: an unknown
// provider id or a config the factory rejects (e.g. no api_key in the
// request) is the caller's mistake, everything else is an upstream failure.
func statusForError(err error) int {
	if errors.Is(err, llm.ErrUnsupportedProvider) || errors.Is(err, llm.ErrInvalidConfig) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
