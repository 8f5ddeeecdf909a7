// SPDX-License-Identifier: MIT

// Package server exposes the catalog and the analysis pipeline over HTTP and
// pushes every analysis result to WebSocket subscribers.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"signallab/internal/analysis"
	"signallab/internal/catalog"
	"signallab/internal/config"
	"signallab/internal/log"
	"signallab/internal/transport"
)

const shutdownTimeout = 5 * time.Second

// Server wires HTTP routes to a catalog and a pipeline.
type Server struct {
	cfg      config.ServerConfig
	pipeline config.PipelineConfig
	catalog  *catalog.Catalog
	runner   analysis.Pipeline
	ws       *transport.WebSocketTransport
	mux      *http.ServeMux
}

// New builds a Server. Results of every analysis are published to pub (if
// non-nil) and to the server's own WebSocket stream.
func New(cfg *config.Config, cat *catalog.Catalog, pub transport.Transport) *Server {
	s := &Server{
		cfg:      cfg.Server,
		pipeline: cfg.Pipeline,
		catalog:  cat,
		mux:      http.NewServeMux(),
	}
	s.ws = transport.NewWebSocketTransport(cfg.Server.WSQueue, s.originAllowed)

	runner := cfg.Pipeline.Runner()
	if pub != nil {
		runner.Transport = transport.Multi{s.ws, pub}
	} else {
		runner.Transport = s.ws
	}
	s.runner = runner

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/signal/datasets", s.handleListDatasets)
	s.mux.HandleFunc("GET /api/signal/datasets/{id}", s.handleGetDataset)
	s.mux.HandleFunc("POST /api/signal/upload", s.handleUpload)
	s.mux.HandleFunc("POST /api/signal/analyze", s.handleAnalyze)
	s.mux.Handle("GET /ws", s.ws.Handler())
}

// Handler returns the root handler with CORS applied.
func (s *Server) Handler() http.Handler {
	return s.withCORS(s.mux)
}

// Close stops the WebSocket stream.
func (s *Server) Close() error {
	return s.ws.Close()
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			log.Warnf("Server: shutdown: %v", err)
		}
		s.Close()
	}()

	log.Infof("Server: listening on %s", s.cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
