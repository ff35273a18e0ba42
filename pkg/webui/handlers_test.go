package webui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcoder/agentcoder/pkg/parser"
	"github.com/agentcoder/agentcoder/pkg/providers"
	"github.com/agentcoder/agentcoder/pkg/providers/llm"
	"github.com/agentcoder/agentcoder/pkg/types"
)

// stubService answers chat requests without touching the network. The mutex
// matters for the WebSocket tests, where Send runs on the server goroutine.
type stubService struct {
	mu      sync.Mutex
	reply   string
	err     error
	lastReq providers.SendRequest
	calls   int
}

func (s *stubService) Send(ctx context.Context, req providers.SendRequest) (*types.AIResponse, error) {
	s.mu.Lock()
	s.calls++
	s.lastReq = req
	reply, err := s.reply, s.err
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return &types.AIResponse{
		Content:    reply,
		CodeBlocks: parser.ExtractCodeBlocks(reply),
		Metadata:   &types.ResponseMetadata{Provider: req.Provider, Model: req.Model},
	}, nil
}

func (s *stubService) snapshot() (providers.SendRequest, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReq, s.calls
}

func (s *stubService) AvailableModels() map[string][]string {
	return map[string][]string{
		"openai": {"gpt-4-turbo-preview", "gpt-4"},
		"gemini": {"gemini-pro"},
		"claude": {"claude-3-opus-20240229"},
	}
}

func postChat(t *testing.T, handler http.Handler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleChat(t *testing.T) {
	service := &stubService{reply: "Try this:\n```python\nprint('hi')\n```"}
	server := NewServer(service, 0)

	rec := postChat(t, server.Routes(), ChatRequest{
		Message:  "how do I print?",
		History:  []types.Message{{Role: types.RoleUser, Content: "earlier"}},
		Provider: "openai",
		Model:    "gpt-4",
		APIKey:   "k",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.AIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Content, "print('hi')")
	require.Len(t, resp.CodeBlocks, 1)
	assert.Equal(t, "python", resp.CodeBlocks[0].Language)
	assert.Equal(t, "example.py", resp.CodeBlocks[0].Filename)

	assert.Equal(t, "how do I print?", service.lastReq.Prompt)
	assert.Equal(t, "k", service.lastReq.APIKey)
}

func TestHandleChat_Defaults(t *testing.T) {
	service := &stubService{reply: "ok"}
	server := NewServer(service, 0)

	rec := postChat(t, server.Routes(), ChatRequest{Message: "hi", APIKey: "k"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "openai", service.lastReq.Provider)
	assert.Equal(t, "gpt-4-turbo-preview", service.lastReq.Model)
}

func TestHandleChat_EmptyMessage(t *testing.T) {
	service := &stubService{reply: "ok"}
	server := NewServer(service, 0)

	rec := postChat(t, server.Routes(), ChatRequest{Provider: "openai"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, service.calls)
}

func TestHandleChat_UnsupportedProvider(t *testing.T) {
	service := &stubService{err: fmt.Errorf("%w: deepseek", llm.ErrUnsupportedProvider)}
	server := NewServer(service, 0)

	rec := postChat(t, server.Routes(), ChatRequest{Message: "hi", Provider: "deepseek"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Error, "deepseek")
}

func TestHandleChat_MissingAPIKey(t *testing.T) {
	// A request without api_key fails factory validation; that is the
	// caller's mistake, not an upstream failure.
	service := &stubService{err: fmt.Errorf("%w: API key is required for OpenAI provider", llm.ErrInvalidConfig)}
	server := NewServer(service, 0)

	rec := postChat(t, server.Routes(), ChatRequest{Message: "hi", Provider: "openai"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Error, "API key is required")
}

func TestHandleChat_ProviderFailure(t *testing.T) {
	service := &stubService{err: &llm.ProviderError{Provider: "OpenAI", StatusCode: 401, Message: "invalid api key"}}
	server := NewServer(service, 0)

	rec := postChat(t, server.Routes(), ChatRequest{Message: "hi", Provider: "openai"})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var errResp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Error, "OpenAI")
}

func TestHandleChat_MethodNotAllowed(t *testing.T) {
	server := NewServer(&stubService{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleModels(t *testing.T) {
	server := NewServer(&stubService{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var models map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &models))
	assert.Contains(t, models["openai"], "gpt-4")
	assert.Contains(t, models["claude"], "claude-3-opus-20240229")
}

func TestHandleHealth(t *testing.T) {
	server := NewServer(&stubService{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
}
