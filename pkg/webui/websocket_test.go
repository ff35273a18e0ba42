package webui

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcoder/agentcoder/pkg/types"
)

func dialWS(t *testing.T, server *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(server.Routes())
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHandleWebSocket_ChatFlow(t *testing.T) {
	service := &stubService{reply: "Try this:\n```python\nprint('hi')\n```"}
	conn := dialWS(t, NewServer(service, 0))

	// The server greets with a connection_status frame carrying a session id.
	var status wsFrame
	require.NoError(t, conn.ReadJSON(&status))
	assert.Equal(t, "connection_status", status.Type)
	statusData, ok := status.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, statusData["connected"])
	assert.NotEmpty(t, statusData["session_id"])

	require.NoError(t, conn.WriteJSON(ChatRequest{
		Message:  "how do I print?",
		History:  []types.Message{{Role: types.RoleUser, Content: "earlier"}},
		Provider: "openai",
		Model:    "gpt-4",
		APIKey:   "k",
	}))

	var reply wsFrame
	require.NoError(t, conn.ReadJSON(&reply))
	require.Equal(t, "chat_response", reply.Type)
	replyData, ok := reply.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, replyData["content"], "print('hi')")

	lastReq, calls := service.snapshot()
	assert.Equal(t, "how do I print?", lastReq.Prompt)
	assert.Equal(t, "k", lastReq.APIKey)
	assert.Equal(t, 1, calls)
}

func TestHandleWebSocket_EmptyMessage(t *testing.T) {
	service := &stubService{reply: "ok"}
	conn := dialWS(t, NewServer(service, 0))

	var status wsFrame
	require.NoError(t, conn.ReadJSON(&status))
	require.Equal(t, "connection_status", status.Type)

	// An empty message yields an error frame and never reaches the service.
	require.NoError(t, conn.WriteJSON(ChatRequest{Provider: "openai", APIKey: "k"}))

	var errFrame wsFrame
	require.NoError(t, conn.ReadJSON(&errFrame))
	assert.Equal(t, "error", errFrame.Type)
	assert.Equal(t, "message is required", errFrame.Data)

	_, calls := service.snapshot()
	assert.Zero(t, calls)
}

func TestHandleWebSocket_Defaults(t *testing.T) {
	service := &stubService{reply: "ok"}
	conn := dialWS(t, NewServer(service, 0))

	var status wsFrame
	require.NoError(t, conn.ReadJSON(&status))
	require.Equal(t, "connection_status", status.Type)

	require.NoError(t, conn.WriteJSON(ChatRequest{Message: "hi", APIKey: "k"}))

	var reply wsFrame
	require.NoError(t, conn.ReadJSON(&reply))
	require.Equal(t, "chat_response", reply.Type)

	lastReq, _ := service.snapshot()
	assert.Equal(t, "openai", lastReq.Provider)
	assert.Equal(t, "gpt-4-turbo-preview", lastReq.Model)
}

func TestHandleWebSocket_ServiceError(t *testing.T) {
	service := &stubService{err: assert.AnError}
	conn := dialWS(t, NewServer(service, 0))

	var status wsFrame
	require.NoError(t, conn.ReadJSON(&status))
	require.Equal(t, "connection_status", status.Type)

	require.NoError(t, conn.WriteJSON(ChatRequest{Message: "hi", Provider: "openai", APIKey: "k"}))

	// The connection survives a failed dispatch; the error arrives as a frame.
	var errFrame wsFrame
	require.NoError(t, conn.ReadJSON(&errFrame))
	assert.Equal(t, "error", errFrame.Type)

	require.NoError(t, conn.WriteJSON(ChatRequest{Message: "again", Provider: "openai", APIKey: "k"}))
	require.NoError(t, conn.ReadJSON(&errFrame))
	assert.Equal(t, "error", errFrame.Type)

	_, calls := service.snapshot()
	assert.Equal(t, 2, calls)
}
