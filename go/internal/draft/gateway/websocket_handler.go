package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/mockdraft/go/internal/draft"
	"github.com/mcdev12/mockdraft/go/internal/draft/events"
)

// EventTypeSnapshot is the first frame on every connection: the full
// session snapshot, so clients never start from a partial view.
const EventTypeSnapshot events.EventType = "Snapshot"

// WebSocketHandler handles WebSocket upgrade requests for draft sessions
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	app               DraftApp
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cm *ConnectionManager, app DraftApp) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		app:               app,
	}
}

// HandleDraftConnection handles GET /ws/drafts/{id}
func (h *WebSocketHandler) HandleDraftConnection(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}

	snap, err := h.app.GetSnapshot(r.Context(), sessionID)
	if errors.Is(err, draft.ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}

	env, err := events.New(sessionID, EventTypeSnapshot, time.Now(), snap)
	if err != nil {
		http.Error(w, "failed to encode snapshot", http.StatusInternalServerError)
		return
	}
	initial, err := json.Marshal(env)
	if err != nil {
		http.Error(w, "failed to encode snapshot", http.StatusInternalServerError)
		return
	}

	// The upgrader has already written an error response on failure
	if err := h.connectionManager.UpgradeConnection(w, r, sessionID, initial); err != nil {
		log.Error().
			Err(err).
			Str("session_id", sessionID.String()).
			Msg("failed to upgrade WebSocket connection")
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.connectionManager.GetConnectionStats())
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/drafts/{id}", h.HandleDraftConnection)
	mux.HandleFunc("GET /ws/stats", h.HandleConnectionStats)
}
