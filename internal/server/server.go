package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"policyqa/internal/adapter/store"
	"policyqa/internal/port"
	"policyqa/internal/usecase"
)

// Server exposes the answering pipeline over HTTP. It mirrors the CLI
// surface: /api/query runs the full pipeline, /api/complete proxies a raw
// completion so external tooling shares one provider configuration.
type Server struct {
	pipeline *usecase.Pipeline
	llm      port.LLM
	store    *store.BoltStore
	log      *zap.Logger
}

func NewServer(pipeline *usecase.Pipeline, llm port.LLM, st *store.BoltStore, log *zap.Logger) *Server {
	return &Server{
		pipeline: pipeline,
		llm:      llm,
		store:    st,
		log:      log,
	}
}

// Handler builds the route table. Exposed separately from Run so tests can
// drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/query", s.handleQuery)
	mux.HandleFunc("/api/complete", s.handleComplete)
	mux.HandleFunc("/api/health", s.handleHealth)
	return s.withLogging(mux)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, host string, port int) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	err := <-errCh
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
