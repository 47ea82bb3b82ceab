package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mcdev12/mockdraft/go/internal/config"
	"github.com/mcdev12/mockdraft/go/internal/draft"
	"github.com/mcdev12/mockdraft/go/internal/player"
)

func testEnv() config.Env {
	return config.Env{
		Port:             "0",
		LogLevel:         "error",
		AutoPickDelay:    time.Millisecond,
		SchedulerWorkers: 1,
		StallPolicy:      "block",
		PlayerSource:     "memory",
	}
}

func TestSetupPlayerRepositorySQLiteSeedsOnce(t *testing.T) {
	ctx := context.Background()
	env := testEnv()
	env.PlayerSource = "sqlite"
	env.SQLitePath = filepath.Join(t.TempDir(), "players.db")

	repo, closeRepo, err := setupPlayerRepository(ctx, env)
	require.NoError(t, err)
	players, err := repo.ListPlayers(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, players, len(player.DefaultPool()))
	require.NoError(t, closeRepo())

	repo, closeRepo, err = setupPlayerRepository(ctx, env)
	require.NoError(t, err)
	defer closeRepo()
	players, err = repo.ListPlayers(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, players, len(player.DefaultPool()))
}

func TestServerRoutes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settings := config.DefaultSettings()
	settings.NumTeams = 6

	services, err := setupServices(ctx, testEnv(), settings)
	require.NoError(t, err)
	defer services.Close()
	go func() { _ = services.Scheduler.Run(ctx) }()
	defer services.Drafts.Close(context.Background())

	server := setupServer("0", services)
	ts := httptest.NewServer(server.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// JSON gateway
	resp, err = http.Post(ts.URL+"/api/drafts", "application/json", nil)
	require.NoError(t, err)
	var created struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Connect, with the configured defaults filling in the request
	createSession := connect.NewClient[emptypb.Empty, structpb.Struct](
		ts.Client(), ts.URL+draft.DraftServiceCreateSessionProcedure)
	startDraft := connect.NewClient[structpb.Struct, structpb.Struct](
		ts.Client(), ts.URL+draft.DraftServiceStartDraftProcedure)

	session, err := createSession.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	require.NoError(t, err)
	id := session.Msg.GetFields()["session_id"].GetStringValue()
	require.NotEmpty(t, id)

	req, err := structpb.NewStruct(map[string]any{"session_id": id})
	require.NoError(t, err)
	snap, err := startDraft.CallUnary(ctx, connect.NewRequest(req))
	require.NoError(t, err)
	params := snap.Msg.GetFields()["parameters"].GetStructValue().GetFields()
	assert.Equal(t, float64(6), params["num_teams"].GetNumberValue())

	// CORS preflight
	preflight, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/drafts", nil)
	require.NoError(t, err)
	preflight.Header.Set("Origin", "http://localhost:3000")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err = http.DefaultClient.Do(preflight)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost))
}
