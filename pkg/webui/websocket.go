package webui

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/agentcoder/agentcoder/pkg/providers"
)

// SafeConn wraps a WebSocket connection with a write mutex so the chat
// handler and connection-status writes never interleave frames.
type SafeConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	closed  bool
}

// NewSafeConn creates a new safe connection wrapper
func NewSafeConn(conn *websocket.Conn) *SafeConn {
	return &SafeConn{conn: conn}
}

// WriteJSON safely writes JSON to the WebSocket connection
func (sc *SafeConn) WriteJSON(v interface{}) error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()

	if sc.closed {
		return nil
	}
	return sc.conn.WriteJSON(v)
}

// Close closes the underlying connection
func (sc *SafeConn) Close() error {
	sc.writeMu.Lock()
	sc.closed = true
	sc.writeMu.Unlock()
	return sc.conn.Close()
}

// wsFrame is the envelope for every frame the server sends.
type wsFrame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// handleWebSocket runs a chat conversation over one WebSocket connection.
// Each inbound frame is a ChatRequest; each reply is a chat_response or
// error frame.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Logf("WebSocket upgrade error: %v", err)
		return
	}

	safeConn := NewSafeConn(conn)
	defer safeConn.Close()

	sessionID := uuid.NewString()
	s.logger.Logf("WebSocket client connected: %s", sessionID)

	_ = safeConn.WriteJSON(wsFrame{
		Type: "connection_status",
		Data: map[string]interface{}{"connected": true, "session_id": sessionID},
	})

	conn.SetReadLimit(512 * 1024) // 512KB max message size

	for {
		var req ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Logf("WebSocket %s read error: %v", sessionID, err)
			}
			return
		}

		if req.Message == "" {
			_ = safeConn.WriteJSON(wsFrame{Type: "error", Data: "message is required"})
			continue
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
			_ = safeConn.WriteJSON(wsFrame{Type: "error", Data: err.Error()})
			continue
		}

		_ = safeConn.WriteJSON(wsFrame{Type: "chat_response", Data: resp})
	}
}
