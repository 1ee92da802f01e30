// Package server hosts the interactive dashboard: event and occurrence
// selects, the release figures header, and the rendered chart. It drives
// the core only through the session selection interface.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"macromood/internal/config"
	"macromood/internal/pricedata"
	"macromood/internal/render"
	"macromood/internal/session"
)

// Server serves the dashboard UI and its JSON/PNG endpoints.
type Server struct {
	cfg      config.ServerConfig
	session  *session.Session
	renderer *render.Renderer
	symbol   string
	logger   zerolog.Logger
}

// New constructs a dashboard server around an initialized session.
func New(cfg config.ServerConfig, sess *session.Session, renderer *render.Renderer, symbol string, logger zerolog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		session:  sess,
		renderer: renderer,
		symbol:   symbol,
		logger:   logger.With().Str("component", "server").Logger(),
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/chart.png", s.handleChart).Methods(http.MethodGet)
	router.HandleFunc("/api/titles", s.handleTitles).Methods(http.MethodGet)
	router.HandleFunc("/api/occurrences", s.handleOccurrences).Methods(http.MethodGet)
	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("dashboard listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("dashboard server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dashboard shutdown: %w", err)
	}
	s.logger.Info().Msg("dashboard stopped")
	return nil
}

func (s *Server) handleTitles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.session.ListEventTitles())
}

type occurrenceDTO struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Date      string `json:"date"`
}

func (s *Server) handleOccurrences(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		http.Error(w, "title query parameter is required", http.StatusBadRequest)
		return
	}

	refs := s.session.ListOccurrences(title)
	dtos := make([]occurrenceDTO, len(refs))
	for i, ref := range refs {
		dtos[i] = occurrenceDTO{
			ID:        ref.ID,
			Timestamp: ref.Timestamp.Format(time.RFC3339),
			Date:      ref.Timestamp.UTC().Format("2006-01-02"),
		}
	}
	writeJSON(w, dtos)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		symbol = s.symbol
	}

	occ, err := s.session.SelectOccurrence(id)
	if err != nil {
		http.Error(w, "unknown occurrence id", http.StatusNotFound)
		return
	}

	bars, err := s.session.LoadDaySlice(occ, symbol)
	if err != nil && !errors.Is(err, pricedata.ErrDataUnavailable) {
		s.logger.Error().Err(err).Str("id", id).Msg("day slice load failed")
		http.Error(w, "failed to load price data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")

	// A missing (symbol, year) file is a displayable "no data" state, not
	// a failure; the chart pane must stay visible either way.
	if errors.Is(err, pricedata.ErrDataUnavailable) {
		msg := fmt.Sprintf("no minute data for %s in %d", symbol, occ.Timestamp.UTC().Year())
		if renderErr := s.renderer.RenderMessagePNG(w, occ, msg); renderErr != nil {
			s.logger.Error().Err(renderErr).Msg("placeholder render failed")
		}
		return
	}

	if renderErr := s.renderer.RenderPNG(w, occ, bars); renderErr != nil {
		s.logger.Error().Err(renderErr).Msg("chart render failed")
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
