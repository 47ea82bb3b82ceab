package gateway

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/mockdraft/go/internal/draft/events"
)

func dialSession(t *testing.T, s testServer, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(s.url, "http") + "/ws/drafts/" + id
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) events.Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var env events.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func TestWebSocketStreamsSessionEvents(t *testing.T) {
	s := newTestServer(t)
	id := s.createSession(t)
	conn := dialSession(t, s, id)

	first := readEnvelope(t, conn)
	assert.Equal(t, EventTypeSnapshot, first.Type)
	assert.Equal(t, id, first.SessionID.String())
	var snap map[string]any
	require.NoError(t, json.Unmarshal(first.Payload, &snap))
	assert.Equal(t, "SETUP", snap["state"])

	require.Eventually(t, func() bool {
		return s.cm.GetConnectionStats().SessionConnections[id] == 1
	}, time.Second, 10*time.Millisecond)

	status, _ := s.do(t, http.MethodPost, "/api/drafts/"+id+"/start", `{"num_teams":4}`)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, events.EventTypeDraftStarted, readEnvelope(t, conn).Type)
	started := readEnvelope(t, conn)
	require.Equal(t, events.EventTypePickStarted, started.Type)
	var payload events.PickStartedPayload
	require.NoError(t, json.Unmarshal(started.Payload, &payload))
	assert.Equal(t, 1, payload.OverallPick)
	assert.True(t, payload.UserTurn)

	status, _ = s.do(t, http.MethodPost, "/api/drafts/"+id+"/picks", `{"player_id":6}`)
	require.Equal(t, http.StatusOK, status)

	made := readEnvelope(t, conn)
	require.Equal(t, events.EventTypePickMade, made.Type)
	var madePayload events.PickMadePayload
	require.NoError(t, json.Unmarshal(made.Payload, &madePayload))
	assert.Equal(t, "Christian McCaffrey", madePayload.PlayerName)
	assert.False(t, madePayload.Auto)
}

func TestWebSocketSessionsAreIsolated(t *testing.T) {
	s := newTestServer(t)
	watched := s.createSession(t)
	other := s.createSession(t)
	conn := dialSession(t, s, watched)
	readEnvelope(t, conn)

	status, _ := s.do(t, http.MethodPost, "/api/drafts/"+other+"/start", `{"num_teams":4}`)
	require.Equal(t, http.StatusOK, status)
	status, _ = s.do(t, http.MethodPost, "/api/drafts/"+watched+"/start", `{"num_teams":4}`)
	require.Equal(t, http.StatusOK, status)

	env := readEnvelope(t, conn)
	assert.Equal(t, watched, env.SessionID.String())
	assert.Equal(t, events.EventTypeDraftStarted, env.Type)
}

func TestWebSocketClosedOnDelete(t *testing.T) {
	s := newTestServer(t)
	id := s.createSession(t)
	conn := dialSession(t, s, id)
	readEnvelope(t, conn)

	status, _ := s.do(t, http.MethodDelete, "/api/drafts/"+id, "")
	require.Equal(t, http.StatusNoContent, status)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var err error
	for err == nil {
		_, _, err = conn.ReadMessage()
	}
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived), "got %v", err)
}

func TestWebSocketUnknownSession(t *testing.T) {
	s := newTestServer(t)
	url := "ws" + strings.TrimPrefix(s.url, "http") + "/ws/drafts/" + uuid.NewString()

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
