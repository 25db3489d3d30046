package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/courtside/internal/domain"
	"github.com/sawpanic/courtside/internal/metrics"
)

type stubBackend struct {
	snap    *domain.GameSnapshot
	notes   []domain.CorrectionNote
	err     error
	signals []*domain.Signal
}

func (s *stubBackend) HandleDelta(_ context.Context, _ domain.GameDelta) (*domain.GameSnapshot, []domain.CorrectionNote, error) {
	return s.snap, s.notes, s.err
}

func (s *stubBackend) AllActive() []*domain.Signal { return s.signals }

func (s *stubBackend) Get(_ context.Context, gameID string) (*domain.GameSnapshot, error) {
	if s.snap != nil && s.snap.GameID == gameID {
		return s.snap, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubBackend) List(_ context.Context) ([]*domain.GameSnapshot, error) {
	if s.snap == nil {
		return nil, nil
	}
	return []*domain.GameSnapshot{s.snap}, nil
}

func testRouter(backend *stubBackend) http.Handler {
	handlers := NewHandlers(backend, backend, backend, metrics.NewRegistry(), "test")
	r := mux.NewRouter()
	r.HandleFunc("/ingest/delta", handlers.IngestDelta).Methods("POST")
	r.HandleFunc("/signals/active", handlers.ActiveSignals).Methods("GET")
	r.HandleFunc("/games/{gameID}", handlers.Game).Methods("GET")
	r.HandleFunc("/health", handlers.Health).Methods("GET")
	return r
}

func TestIngestDelta_OK(t *testing.T) {
	backend := &stubBackend{
		snap: &domain.GameSnapshot{GameID: "g1", Status: domain.StatusLive, Quarter: 2, Version: 5},
		notes: []domain.CorrectionNote{
			{Field: "home_score"},
		},
	}
	router := testRouter(backend)

	body := bytes.NewBufferString(`{"game_id":"g1","home_score":40}`)
	req := httptest.NewRequest(http.MethodPost, "/ingest/delta", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ingestResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "g1", resp.GameID)
	assert.Equal(t, int64(5), resp.Version)
	assert.Equal(t, "live", resp.Status)
	assert.Equal(t, 1, resp.Corrections)
}

func TestIngestDelta_BadRequests(t *testing.T) {
	router := testRouter(&stubBackend{})

	req := httptest.NewRequest(http.MethodPost, "/ingest/delta", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/ingest/delta", bytes.NewBufferString(`{"home_score":40}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "game_id required")
}

func TestActiveSignals(t *testing.T) {
	backend := &stubBackend{signals: []*domain.Signal{
		{ID: "sig1", StrategyID: "s1", GameID: "g1", Status: domain.SignalActive},
	}}
	router := testRouter(backend)

	req := httptest.NewRequest(http.MethodGet, "/signals/active", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Count   int              `json:"count"`
		Signals []*domain.Signal `json:"signals"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "sig1", resp.Signals[0].ID)
}

func TestGame_NotFound(t *testing.T) {
	router := testRouter(&stubBackend{})

	req := httptest.NewRequest(http.MethodGet, "/games/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	router := testRouter(&stubBackend{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "test", resp.Version)
}

func TestRateLimitMiddleware(t *testing.T) {
	limited := rateLimitMiddleware(1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Burst of 2 passes, the third is rejected.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/ingest/delta", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	req := httptest.NewRequest(http.MethodPost, "/ingest/delta", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client has its own bucket.
	req = httptest.NewRequest(http.MethodPost, "/ingest/delta", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
