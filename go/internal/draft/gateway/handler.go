package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/mockdraft/go/internal/config"
	"github.com/mcdev12/mockdraft/go/internal/draft"
	"github.com/mcdev12/mockdraft/go/internal/models"
)

// DraftApp is the session API the HTTP gateway serves.
type DraftApp interface {
	CreateSession(ctx context.Context) uuid.UUID
	StartDraft(ctx context.Context, id uuid.UUID, spec models.RosterSpec, params models.DraftParameters) (draft.Snapshot, error)
	MakePick(ctx context.Context, id uuid.UUID, playerID int64) (models.Pick, error)
	ForcePick(ctx context.Context, id uuid.UUID, playerID int64) (models.Pick, error)
	GetSnapshot(ctx context.Context, id uuid.UUID) (draft.Snapshot, error)
	ListAvailablePlayers(ctx context.Context, id uuid.UUID, filter draft.AvailableFilter) ([]draft.AvailablePlayer, error)
	GetTeamRoster(ctx context.Context, id uuid.UUID, team int) ([]models.Player, error)
	StopDraft(ctx context.Context, id uuid.UUID) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

// PlayerCatalog is the read side of the player pool.
type PlayerCatalog interface {
	Fetch(ctx context.Context, position *models.Position) ([]models.Player, error)
	Positions(ctx context.Context) ([]models.Position, error)
}

// HealthFunc reports extra fields for the health endpoint.
type HealthFunc func() map[string]any

// APIHandler serves the JSON draft API.
type APIHandler struct {
	app      DraftApp
	players  PlayerCatalog
	cm       *ConnectionManager
	health   HealthFunc
	defaults config.Settings
	intn     func(n int) int
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(app DraftApp, players PlayerCatalog, cm *ConnectionManager, health HealthFunc) *APIHandler {
	return &APIHandler{
		app:      app,
		players:  players,
		cm:       cm,
		health:   health,
		defaults: config.DefaultSettings(),
		intn:     rand.IntN,
	}
}

// RegisterRoutes registers the API routes with an HTTP mux
func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/drafts", h.handleCreateSession)
	mux.HandleFunc("GET /api/drafts/{id}", h.handleGetSnapshot)
	mux.HandleFunc("DELETE /api/drafts/{id}", h.handleDeleteSession)
	mux.HandleFunc("POST /api/drafts/{id}/start", h.handleStartDraft)
	mux.HandleFunc("POST /api/drafts/{id}/stop", h.handleStopDraft)
	mux.HandleFunc("POST /api/drafts/{id}/picks", h.handleMakePick)
	mux.HandleFunc("POST /api/drafts/{id}/picks/force", h.handleForcePick)
	mux.HandleFunc("GET /api/drafts/{id}/players", h.handleListAvailable)
	mux.HandleFunc("GET /api/drafts/{id}/teams/{team}", h.handleTeamRoster)
	mux.HandleFunc("GET /api/players", h.handleListPlayers)
	mux.HandleFunc("GET /api/positions", h.handleListPositions)
	mux.HandleFunc("GET /api/health", h.handleHealth)
}

func (h *APIHandler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := h.app.CreateSession(r.Context())
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": id.String()})
}

func (h *APIHandler) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	snap, err := h.app.GetSnapshot(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *APIHandler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := h.app.DeleteSession(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	h.cm.DisconnectSession(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) handleStartDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	settings := h.defaults
	if err := decodeBody(r, &settings); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	spec, params, err := settings.Resolve(h.intn)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", draft.ErrInvalidConfiguration, err))
		return
	}

	snap, err := h.app.StartDraft(r.Context(), id, spec, params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *APIHandler) handleStopDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := h.app.StopDraft(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type makePickBody struct {
	PlayerID int64 `json:"player_id"`
}

// pickRequest reads the session id and player of a pick request, writing a
// 400 and returning false when either is missing.
func pickRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, int64, bool) {
	id, ok := sessionID(w, r)
	if !ok {
		return uuid.Nil, 0, false
	}

	var body makePickBody
	if err := decodeBody(r, &body); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return uuid.Nil, 0, false
	}
	if body.PlayerID == 0 {
		writeJSONError(w, http.StatusBadRequest, "player_id is required")
		return uuid.Nil, 0, false
	}
	return id, body.PlayerID, true
}

func (h *APIHandler) handleMakePick(w http.ResponseWriter, r *http.Request) {
	id, playerID, ok := pickRequest(w, r)
	if !ok {
		return
	}

	made, err := h.app.MakePick(r.Context(), id, playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, made)
}

func (h *APIHandler) handleForcePick(w http.ResponseWriter, r *http.Request) {
	id, playerID, ok := pickRequest(w, r)
	if !ok {
		return
	}

	made, err := h.app.ForcePick(r.Context(), id, playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, made)
}

func (h *APIHandler) handleListAvailable(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter, err := draft.ParseAvailableFilter(q.Get("position"), q.Get("search"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	players, err := h.app.ListAvailablePlayers(r.Context(), id, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": players})
}

func (h *APIHandler) handleTeamRoster(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	team, err := strconv.Atoi(r.PathValue("team"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid team")
		return
	}

	roster, err := h.app.GetTeamRoster(r.Context(), id, team)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"team": team, "players": roster})
}

func (h *APIHandler) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	var position *models.Position
	if raw := r.URL.Query().Get("position"); raw != "" && raw != "ALL" {
		pos, err := models.ParsePosition(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		position = &pos
	}

	players, err := h.players.Fetch(r.Context(), position)
	if err != nil {
		log.Error().Err(err).Msg("failed to list players")
		writeJSONError(w, http.StatusInternalServerError, "failed to list players")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": players})
}

func (h *APIHandler) handleListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.players.Positions(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list positions")
		writeJSONError(w, http.StatusInternalServerError, "failed to list positions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"positions": positions})
}

func (h *APIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":      "healthy",
		"connections": h.cm.GetConnectionStats(),
	}
	if h.health != nil {
		for k, v := range h.health() {
			body[k] = v
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

// decodeBody decodes a JSON body into v. An empty body leaves v unchanged.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// HTTPStatus maps draft errors onto HTTP status codes.
func HTTPStatus(err error) int {
	switch draft.ErrorCode(err) {
	case connect.CodeInvalidArgument:
		return http.StatusBadRequest
	case connect.CodeNotFound:
		return http.StatusNotFound
	case connect.CodeFailedPrecondition, connect.CodeAborted:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("draft request failed")
	}
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  draft.ErrorCode(err).String(),
	})
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
