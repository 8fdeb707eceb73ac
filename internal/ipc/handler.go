// Package ipc provides the HTTP API the presentation layer drives the pea with.
package ipc

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/peagarden/peaengine/internal/domain"
	"github.com/peagarden/peaengine/internal/lifecycle"
	"github.com/peagarden/peaengine/internal/minigame"
	"github.com/peagarden/peaengine/internal/store"
)

// Handler holds all dependencies for the HTTP handlers.
type Handler struct {
	Engine  *lifecycle.Engine
	Journal *store.Journal // nil when the backend keeps no journal

	mu      sync.Mutex
	session *minigame.Session
}

// CareResponse is returned by the care endpoints.
type CareResponse struct {
	Applied  bool            `json:"applied"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// PlayResponse is returned by POST /api/v1/pea/play.
type PlayResponse struct {
	Allowed  bool            `json:"allowed"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// WakeRequest is the body for POST /api/v1/pea/wake.
type WakeRequest struct {
	Early *bool `json:"early"`
}

// StartGameRequest is the body for POST /api/v1/pea/games/{kind}/start.
type StartGameRequest struct {
	Message string `json:"message"`
}

// StartGameResponse reports whether the game was launched.
type StartGameResponse struct {
	Started  bool            `json:"started"`
	Game     minigame.Kind   `json:"game"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// FinishGameRequest is the body for POST /api/v1/pea/games/finish.
type FinishGameRequest struct {
	Score *int `json:"score"`
}

// FinishGameResponse carries the result message of a finished game.
type FinishGameResponse struct {
	Message  string          `json:"message"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// APIError is a structured error response.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"loaded": h.Engine.Snapshot().Loaded,
	})
}

// GetPea handles GET /api/v1/pea.
func (h *Handler) GetPea(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.Snapshot())
}

// Water handles POST /api/v1/pea/water.
func (h *Handler) Water(w http.ResponseWriter, r *http.Request) {
	h.care(w, h.Engine.GiveWater)
}

// Sun handles POST /api/v1/pea/sun.
func (h *Handler) Sun(w http.ResponseWriter, r *http.Request) {
	h.care(w, h.Engine.GiveSun)
}

// Soil handles POST /api/v1/pea/soil.
func (h *Handler) Soil(w http.ResponseWriter, r *http.Request) {
	h.care(w, h.Engine.GiveSoil)
}

func (h *Handler) care(w http.ResponseWriter, give func() bool) {
	applied := give()
	writeJSON(w, http.StatusOK, CareResponse{Applied: applied, Snapshot: h.Engine.Snapshot()})
}

// ToggleSleep handles POST /api/v1/pea/sleep.
func (h *Handler) ToggleSleep(w http.ResponseWriter, r *http.Request) {
	h.Engine.ToggleSleep()
	writeJSON(w, http.StatusOK, h.Engine.Snapshot())
}

// Wake handles POST /api/v1/pea/wake. A wake requested by the user is early
// unless the body says otherwise.
func (h *Handler) Wake(w http.ResponseWriter, r *http.Request) {
	var req WakeRequest
	if err := decodeOptional(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIError{Code: 400, Message: "invalid request body"})
		return
	}
	early := true
	if req.Early != nil {
		early = *req.Early
	}
	h.Engine.Wake(early)
	writeJSON(w, http.StatusOK, h.Engine.Snapshot())
}

// Play handles POST /api/v1/pea/play.
func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	allowed := h.Engine.TryPlay()
	writeJSON(w, http.StatusOK, PlayResponse{Allowed: allowed, Snapshot: h.Engine.Snapshot()})
}

// StartGame handles POST /api/v1/pea/games/{kind}/start.
func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	kind, err := minigame.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req StartGameRequest
	if err := decodeOptional(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIError{Code: 400, Message: "invalid request body"})
		return
	}

	// Launch retires any earlier session; its late Finish gets ErrGameNotOpen.
	h.mu.Lock()
	session, ok := h.Engine.Launch(kind, req.Message)
	if ok {
		h.session = session
	}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, StartGameResponse{Started: ok, Game: kind, Snapshot: h.Engine.Snapshot()})
}

// FinishGame handles POST /api/v1/pea/games/finish.
func (h *Handler) FinishGame(w http.ResponseWriter, r *http.Request) {
	var req FinishGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIError{Code: 400, Message: "invalid request body"})
		return
	}
	if req.Score == nil {
		writeJSON(w, http.StatusBadRequest, APIError{Code: 400, Message: "score is required"})
		return
	}

	h.mu.Lock()
	session := h.session
	h.session = nil
	h.mu.Unlock()
	if session == nil {
		writeError(w, domain.ErrGameNotOpen)
		return
	}

	msg, err := session.Finish(r.Context(), *req.Score)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FinishGameResponse{Message: msg, Snapshot: h.Engine.Snapshot()})
}

// CloseGame handles POST /api/v1/pea/games/close.
func (h *Handler) CloseGame(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	session := h.session
	h.session = nil
	h.mu.Unlock()
	if session != nil {
		session.Close()
	}
	h.Engine.CloseGame()
	writeJSON(w, http.StatusOK, h.Engine.Snapshot())
}

// ListEvents handles GET /api/v1/pea/events?since_seq=N. With visit_id the
// cursor is that visit's sequence number; otherwise it is the event id.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	sinceSeq := queryInt(r, "since_seq", 0)
	limit := int(queryInt(r, "limit", 0))
	visitID := r.URL.Query().Get("visit_id")

	events := []domain.LifecycleEvent{}
	if h.Journal != nil {
		var got []domain.LifecycleEvent
		var err error
		if visitID != "" {
			got, err = h.Journal.ListVisitEvents(r.Context(), visitID, sinceSeq)
		} else {
			got, err = h.Journal.ListEvents(r.Context(), sinceSeq, limit)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		if got != nil {
			events = got
		}
	}
	writeJSON(w, http.StatusOK, events)
}

// ListVisits handles GET /api/v1/pea/visits?limit=N.
func (h *Handler) ListVisits(w http.ResponseWriter, r *http.Request) {
	limit := int(queryInt(r, "limit", 0))

	visits := []domain.Visit{}
	if h.Journal != nil {
		got, err := h.Journal.ListVisits(r.Context(), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		if got != nil {
			visits = got
		}
	}
	writeJSON(w, http.StatusOK, visits)
}

// GetVisit handles GET /api/v1/pea/visits/{visitID}.
func (h *Handler) GetVisit(w http.ResponseWriter, r *http.Request) {
	if h.Journal == nil {
		writeError(w, domain.ErrVisitNotFound)
		return
	}
	v, err := h.Journal.GetVisit(r.Context(), r.PathValue("visitID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func queryInt(r *http.Request, key string, def int64) int64 {
	if s := r.URL.Query().Get(key); s != "" {
		if parsed, err := strconv.ParseInt(s, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

// decodeOptional decodes a JSON body, treating an empty body as zero value.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var engErr *domain.EngineError
	if errors.As(err, &engErr) {
		status := http.StatusInternalServerError
		switch engErr.Code {
		case domain.ErrUnknownGame.Code, domain.ErrVisitNotFound.Code:
			status = http.StatusNotFound
		case domain.ErrGameNotOpen.Code, domain.ErrSessionFinished.Code:
			status = http.StatusConflict
		}
		writeJSON(w, status, APIError{Code: engErr.Code, Message: engErr.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, APIError{Code: -1, Message: err.Error()})
}
