package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/papergraph/papergraph/models"
)

func dialSession(t *testing.T) *websocket.Conn {
	t.Helper()
	srv := New(Config{}, zaptest.NewLogger(t))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/session"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

// readUntil drains messages until one with the wanted op arrives.
func readUntil(t *testing.T, conn *websocket.Conn, op string) serverMsg {
	t.Helper()
	for {
		var msg serverMsg
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Op == op {
			return msg
		}
	}
}

func testGraphPayload(t *testing.T) json.RawMessage {
	t.Helper()
	g := models.Graph{
		ID: "paper-1",
		Nodes: []models.GraphNode{
			{ID: "p", Label: "low-resource QA", Type: "research_problem", Size: 3},
			{ID: "m", Label: "BERT", Type: "method", Size: 2.5},
		},
		Edges: []models.GraphEdge{
			{Source: "p", Target: "m", Relation: "uses", Weight: 0.8},
		},
	}
	raw, err := json.Marshal(g)
	require.NoError(t, err)
	return raw
}

func TestHealthz(t *testing.T) {
	srv := New(Config{}, zaptest.NewLogger(t))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionGreetsWithID(t *testing.T) {
	conn := dialSession(t)
	msg := readUntil(t, conn, "session")
	assert.NotEmpty(t, msg.Session)
}

func TestSessionLoadStreamsFrames(t *testing.T) {
	conn := dialSession(t)
	readUntil(t, conn, "session")

	require.NoError(t, conn.WriteJSON(clientMsg{Op: "load", Graph: testGraphPayload(t)}))

	msg := readUntil(t, conn, "frame")
	require.NotNil(t, msg.Frame)
	assert.False(t, msg.Frame.Empty)
	assert.Len(t, msg.Frame.Nodes, 2)
	assert.Len(t, msg.Frame.Edges, 1)
	assert.Greater(t, msg.Frame.Alpha, 0.0)
}

func TestSessionRejectsOpsBeforeLoad(t *testing.T) {
	conn := dialSession(t)
	readUntil(t, conn, "session")

	require.NoError(t, conn.WriteJSON(clientMsg{Op: "hover", X: 10, Y: 10}))
	msg := readUntil(t, conn, "error")
	assert.Equal(t, "no graph loaded", msg.Error)
}

func TestSessionRejectsMalformedGraph(t *testing.T) {
	conn := dialSession(t)
	readUntil(t, conn, "session")

	require.NoError(t, conn.WriteJSON(clientMsg{Op: "load", Graph: json.RawMessage(`{"nodes": 12}`)}))
	msg := readUntil(t, conn, "error")
	assert.Contains(t, msg.Error, "decoding graph payload")
}

func TestSessionEmitsToggleEvents(t *testing.T) {
	conn := dialSession(t)
	readUntil(t, conn, "session")
	require.NoError(t, conn.WriteJSON(clientMsg{Op: "load", Graph: testGraphPayload(t)}))
	readUntil(t, conn, "frame")

	require.NoError(t, conn.WriteJSON(clientMsg{Op: "toggle", Type: "method"}))
	msg := readUntil(t, conn, "event")
	assert.Equal(t, "toggled", msg.Kind)
	assert.Equal(t, "method", msg.Type)
	assert.False(t, msg.Active)

	msg = readUntil(t, conn, "frame")
	require.NotNil(t, msg.Frame)
	assert.Len(t, msg.Frame.Nodes, 1, "filtered type drops out of the next frame")
}

func TestSessionStopClosesConnection(t *testing.T) {
	conn := dialSession(t)
	readUntil(t, conn, "session")

	require.NoError(t, conn.WriteJSON(clientMsg{Op: "stop"}))
	deadline := time.Now().Add(5 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))
	for {
		var msg serverMsg
		if err := conn.ReadJSON(&msg); err != nil {
			return // server closed the connection
		}
		require.True(t, time.Now().Before(deadline))
	}
}
