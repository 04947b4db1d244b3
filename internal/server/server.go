// Package server exposes a running simulation over HTTP: prometheus
// metrics, the current snapshot as JSON, and a websocket snapshot stream.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/runner"
)

type Server struct {
	runner     *runner.Runner
	registry   *prometheus.Registry
	hub        *Hub
	logger     *log.Logger
	httpServer *http.Server

	broadcastEvery int
}

type Option func(*Server)

func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithBroadcastEvery sets how many ticks pass between websocket frames.
func WithBroadcastEvery(n int) Option {
	return func(s *Server) { s.broadcastEvery = n }
}

// New registers a metrics collector and the websocket hub as observers on r.
func New(r *runner.Runner, opts ...Option) *Server {
	s := &Server{
		runner:         r,
		registry:       prometheus.NewRegistry(),
		logger:         log.Default(),
		broadcastEvery: 10,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.AddObserver(metrics.NewCollector(s.registry))
	s.hub = NewHub(s.broadcastEvery, r.Snapshot, s.logger)
	r.AddObserver(s.hub)
	return s
}

func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/state", s.handleState)
	mux.Handle("/ws", s.hub)
	return mux
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.runner.Snapshot()); err != nil {
		s.logger.Error("encode state", "err", err)
	}
}

// ListenAndServe blocks until the server is shut down.
func (s *Server) ListenAndServe(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.logger.Info("serving", "addr", addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
