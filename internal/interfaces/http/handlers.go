package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/sawpanic/courtside/internal/domain"
	"github.com/sawpanic/courtside/internal/metrics"
)

// Handlers bundles the HTTP endpoint handlers and their dependencies.
type Handlers struct {
	processor DeltaProcessor
	signals   SignalSource
	games     GameSource
	metrics   *metrics.Registry
	startTime time.Time
	version   string
}

// NewHandlers creates the handler set.
func NewHandlers(processor DeltaProcessor, signals SignalSource, games GameSource, reg *metrics.Registry, version string) *Handlers {
	return &Handlers{
		processor: processor,
		signals:   signals,
		games:     games,
		metrics:   reg,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string     `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
	Uptime    string     `json:"uptime"`
	Version   string     `json:"version"`
	System    SystemInfo `json:"system"`
}

// SystemInfo provides system-level information.
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	MemAlloc      uint64 `json:"mem_alloc_bytes"`
	NumGC         uint32 `json:"num_gc"`
}

// Health implements the health check endpoint.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		System: SystemInfo{
			GoVersion:     runtime.Version(),
			NumGoroutines: runtime.NumGoroutine(),
			MemAlloc:      mem.Alloc,
			NumGC:         mem.NumGC,
		},
	}
	writeJSON(w, http.StatusOK, resp)
}

// ingestResponse is returned after a delta is merged.
type ingestResponse struct {
	GameID      string `json:"game_id"`
	Version     int64  `json:"version"`
	Status      string `json:"status"`
	Quarter     int    `json:"quarter"`
	Corrections int    `json:"corrections"`
}

// IngestDelta accepts a partial game update, merges it and runs the
// evaluation cycle.
func (h *Handlers) IngestDelta(w http.ResponseWriter, r *http.Request) {
	var delta domain.GameDelta
	if err := json.NewDecoder(r.Body).Decode(&delta); err != nil {
		writeError(w, http.StatusBadRequest, "invalid delta payload")
		return
	}
	if delta.GameID == "" {
		writeError(w, http.StatusBadRequest, "game_id is required")
		return
	}

	snap, notes, err := h.processor.HandleDelta(r.Context(), delta)
	if err != nil {
		log.Error().Err(err).Str("game_id", delta.GameID).Msg("delta ingest failed")
		writeError(w, http.StatusInternalServerError, "delta processing failed")
		return
	}

	writeJSON(w, http.StatusOK, ingestResponse{
		GameID:      snap.GameID,
		Version:     snap.Version,
		Status:      string(snap.Status),
		Quarter:     snap.Quarter,
		Corrections: len(notes),
	})
}

// ActiveSignals lists open signals across all strategies.
func (h *Handlers) ActiveSignals(w http.ResponseWriter, r *http.Request) {
	active := h.signals.AllActive()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(active),
		"signals": active,
	})
}

// Games lists all tracked game snapshots.
func (h *Handlers) Games(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "game store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(games),
		"games": games,
	})
}

// Game returns one game snapshot by ID.
func (h *Handlers) Game(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]
	snap, err := h.games.Get(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown game")
			return
		}
		writeError(w, http.StatusInternalServerError, "game store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// NotFound handles unknown routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeError(w, http.StatusNotFound, "not found")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
