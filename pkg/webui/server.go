// Package webui serves the chat backend HTTP and WebSocket API.
package webui

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/agentcoder/agentcoder/pkg/providers"
	"github.com/agentcoder/agentcoder/pkg/types"
	"github.com/agentcoder/agentcoder/pkg/utils"
)

// ChatService is the slice of the dispatcher the web server needs.
type ChatService interface {
	Send(ctx context.Context, req providers.SendRequest) (*types.AIResponse, error)
	AvailableModels() map[string][]string
}

// Server exposes the chat backend over HTTP and WebSocket.
type Server struct {
	service   ChatService
	logger    *utils.Logger
	port      int
	server    *http.Server
	upgrader  websocket.Upgrader
	mutex     sync.RWMutex
	isRunning bool
	startTime time.Time
	chatCount int
}

// NewServer creates a new backend server.
func NewServer(service ChatService, port int) *Server {
	if port == 0 {
		port = 8000
	}

	return &Server{
		service: service,
		logger:  utils.GetLogger(false),
		port:    port,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow localhost connections from any port (for development)
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1")
			},
		},
		startTime: time.Now(),
	}
}

// Routes returns the handler tree; split out so tests can drive it with
// httptest without binding a port.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/models", s.handleModels)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	s.mutex.Lock()
	if s.isRunning {
		s.mutex.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Routes(),
	}
	s.mutex.Unlock()

	s.logger.Logf("Backend server listening on :%d", s.port)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isRunning || s.server == nil {
		return nil
	}
	s.isRunning = false
	return s.server.Shutdown(ctx)
}
