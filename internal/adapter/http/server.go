package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/render"
	"github.com/couchcryptid/quake-map-service/internal/store"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxSelectionBody bounds the size of a PUT /api/selection body.
const maxSelectionBody = 1 << 10

// SelectionStore is the subset of *store.Store the API reads and writes.
type SelectionStore interface {
	Filtered() []domain.Quake
	Snapshot() store.Snapshot
	SetRange(lo, hi float64)
	Location() *time.Location
}

// Server exposes health, readiness, metrics, and the map data API.
type Server struct {
	httpServer *http.Server
	store      SelectionStore
	step       time.Duration
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and /api routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, st SelectionStore, step time.Duration, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:  st,
		step:   step,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/quakes", s.handleQuakes)
	mux.HandleFunc("GET /api/selection", s.handleGetSelection)
	mux.HandleFunc("PUT /api/selection", s.handlePutSelection)
	mux.HandleFunc("GET /api/map", s.handleMap)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// selectionResponse is the range-control state. Range fields are absent until
// a non-empty record set is loaded.
type selectionResponse struct {
	Loaded      bool     `json:"loaded"`
	SelectedMin float64  `json:"selected_min"`
	SelectedMax float64  `json:"selected_max"`
	RangeMin    *float64 `json:"range_min,omitempty"`
	RangeMax    *float64 `json:"range_max,omitempty"`
	Step        float64  `json:"step"`
	Total       int      `json:"total"`
	Visible     int      `json:"visible"`
}

func (s *Server) selection() selectionResponse {
	snap := s.store.Snapshot()
	resp := selectionResponse{
		Loaded:      snap.Loaded,
		SelectedMin: snap.SelectedMin,
		SelectedMax: snap.SelectedMax,
		Step:        s.step.Seconds(),
		Total:       snap.Total,
		Visible:     snap.Visible,
	}
	if snap.Total > 0 {
		lo, hi := snap.RangeMin, snap.RangeMax
		resp.RangeMin, resp.RangeMax = &lo, &hi
	}
	return resp
}

func (s *Server) handleQuakes(w http.ResponseWriter, _ *http.Request) {
	fc := render.FeatureCollection(s.store.Filtered(), s.store.Location())
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(fc) //nolint:errcheck // client may have gone away
}

func (s *Server) handleGetSelection(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.selection())
}

// handlePutSelection applies one range-control interaction. A [min, max] pair
// updates both bounds; a single number is discarded. The body must hold
// exactly one JSON value.
func (s *Server) handlePutSelection(w http.ResponseWriter, r *http.Request) {
	if !s.store.Snapshot().Loaded {
		writeError(w, http.StatusConflict, store.ErrNotLoaded.Error())
		return
	}

	var raw json.RawMessage
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSelectionBody))
	if err := dec.Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid selection body: "+err.Error())
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid selection body: trailing data")
		return
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		writeError(w, http.StatusBadRequest, "selection must be a [min, max] pair")
		return
	}

	var single float64
	if err := json.Unmarshal(raw, &single); err == nil {
		s.logger.Debug("single-value selection discarded", "value", single)
		sharedobs.WriteJSON(w, http.StatusOK, s.selection())
		return
	}

	var pair []*float64
	if err := json.Unmarshal(raw, &pair); err != nil || len(pair) != 2 || pair[0] == nil || pair[1] == nil {
		writeError(w, http.StatusBadRequest, "selection must be a [min, max] pair")
		return
	}

	s.store.SetRange(*pair[0], *pair[1])
	sharedobs.WriteJSON(w, http.StatusOK, s.selection())
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, render.DefaultMapView)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
