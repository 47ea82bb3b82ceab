package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/mockdraft/go/internal/draft"
	"github.com/mcdev12/mockdraft/go/internal/draft/orchestrator"
	"github.com/mcdev12/mockdraft/go/internal/models"
	"github.com/mcdev12/mockdraft/go/internal/player"
)

// nopScheduler never fires, so automated teams wait for manual picks.
type nopScheduler struct{}

func (nopScheduler) Schedule(orchestrator.Task) {}
func (nopScheduler) Cancel(uuid.UUID)           {}

type testServer struct {
	url string
	cm  *ConnectionManager
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	catalog := player.NewApp(player.NewMemoryRepository(player.DefaultPool()))
	cm := NewConnectionManager(DefaultConnectionConfig())
	app := draft.NewApp(catalog, nopScheduler{}, cm, draft.DefaultEngineConfig())

	cfg := DefaultConfig()
	cfg.Health = func() map[string]any { return map[string]any{"sessions": "tracked"} }
	svc, err := NewService(ctx, cfg, cm, app, catalog)
	require.NoError(t, err)
	go func() { _ = svc.Start(ctx) }()

	mux := http.NewServeMux()
	svc.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return testServer{url: srv.URL, cm: cm}
}

func (s testServer) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, s.url+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if buf.Len() > 0 {
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out), buf.String())
	}
	return resp.StatusCode, out
}

func (s testServer) createSession(t *testing.T) string {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/drafts", "")
	require.Equal(t, http.StatusCreated, status)
	id, _ := body["session_id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestAPIDraftLifecycle(t *testing.T) {
	s := newTestServer(t)
	id := s.createSession(t)
	base := "/api/drafts/" + id

	status, snap := s.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "SETUP", snap["state"])

	status, snap = s.do(t, http.MethodPost, base+"/start", `{"draft_type":"standard","num_teams":8,"draft_position":1}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "IN_PROGRESS", snap["state"])
	params := snap["parameters"].(map[string]any)
	assert.Equal(t, "STANDARD", params["draft_type"])
	assert.Equal(t, float64(8), params["num_teams"])
	clock := snap["clock"].(map[string]any)
	assert.Equal(t, true, clock["user_turn"])
	assert.Equal(t, float64(8*15), clock["total_picks"])

	status, made := s.do(t, http.MethodPost, base+"/picks", `{"player_id":1}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), made["overall_pick"])
	assert.Equal(t, "Patrick Mahomes", made["player"].(map[string]any)["name"])

	status, roster := s.do(t, http.MethodGet, base+"/teams/1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, roster["players"], 1)

	status, avail := s.do(t, http.MethodGet, base+"/players?position=QB", "")
	require.Equal(t, http.StatusOK, status)
	qbs := avail["players"].([]any)
	require.NotEmpty(t, qbs)
	assert.Equal(t, "Josh Allen", qbs[0].(map[string]any)["name"])

	status, _ = s.do(t, http.MethodPost, base+"/stop", "")
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = s.do(t, http.MethodPost, base+"/picks", `{"player_id":2}`)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = s.do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = s.do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPIErrors(t *testing.T) {
	s := newTestServer(t)
	id := s.createSession(t)
	base := "/api/drafts/" + id

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"invalid session id", http.MethodGet, "/api/drafts/nope", "", http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/api/drafts/" + uuid.NewString(), "", http.StatusNotFound},
		{"pick before start", http.MethodPost, base + "/picks", `{"player_id":1}`, http.StatusConflict},
		{"too few teams", http.MethodPost, base + "/start", `{"num_teams":2}`, http.StatusBadRequest},
		{"short roster", http.MethodPost, base + "/start", `{"lineup":{"qb":1,"rb":0,"wr":0,"te":0,"flex":0,"def":0,"k":0,"bench":1}}`, http.StatusBadRequest},
		{"bad body", http.MethodPost, base + "/start", `{"num_teams":`, http.StatusBadRequest},
		{"start", http.MethodPost, base + "/start", `{"num_teams":10}`, http.StatusOK},
		{"missing player", http.MethodPost, base + "/picks", `{}`, http.StatusBadRequest},
		{"kicker in round one", http.MethodPost, base + "/picks", `{"player_id":26}`, http.StatusBadRequest},
		{"unknown player", http.MethodPost, base + "/picks", `{"player_id":99999}`, http.StatusConflict},
		{"bad position filter", http.MethodGet, base + "/players?position=LB", "", http.StatusBadRequest},
		{"team out of range", http.MethodGet, base + "/teams/11", "", http.StatusBadRequest},
		{"team not a number", http.MethodGet, base + "/teams/abc", "", http.StatusBadRequest},
		{"delete unknown", http.MethodDelete, "/api/drafts/" + uuid.NewString(), "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestAPIPicksOutOfTurn(t *testing.T) {
	s := newTestServer(t)
	id := s.createSession(t)
	base := "/api/drafts/" + id

	status, _ := s.do(t, http.MethodPost, base+"/start", `{"num_teams":4,"draft_position":3}`)
	require.Equal(t, http.StatusOK, status)

	status, body := s.do(t, http.MethodPost, base+"/picks", `{"player_id":1}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body["error"], draft.ErrNotUserTurn.Error())

	status, body = s.do(t, http.MethodPost, base+"/picks/force", `{"player_id":1}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body["error"], draft.ErrNoStall.Error())

	status, _ = s.do(t, http.MethodPost, base+"/picks/force", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, snap := s.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), snap["clock"].(map[string]any)["current_pick"])
}

func TestAPIPlayersAndPositions(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/players?position=k", "")
	require.Equal(t, http.StatusOK, status)
	kickers := body["players"].([]any)
	require.NotEmpty(t, kickers)
	for _, k := range kickers {
		assert.Equal(t, string(models.PositionK), k.(map[string]any)["position"])
	}

	status, _ = s.do(t, http.MethodGet, "/api/players?position=LB", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.do(t, http.MethodGet, "/api/players", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["players"], len(player.DefaultPool()))

	status, body = s.do(t, http.MethodGet, "/api/positions", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"QB", "RB", "WR", "TE", "DEF", "K"}, body["positions"])
}

func TestAPIHealth(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "tracked", body["sessions"])
	assert.Contains(t, body, "connections")
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(draft.ErrIneligiblePosition))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(draft.ErrSessionNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(draft.ErrPickInProgress))
	assert.Equal(t, http.StatusConflict, HTTPStatus(draft.ErrDraftComplete))
	assert.Equal(t, http.StatusConflict, HTTPStatus(draft.ErrNotUserTurn))
	assert.Equal(t, http.StatusConflict, HTTPStatus(draft.ErrNoStall))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(assert.AnError))
}
