// Package httpserver exposes the gateway over HTTP: the JSON-RPC endpoint
// with buffered or single-event SSE delivery, plus the REST convenience
// routes and health check.
package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tedpecoulas/claude-skills-mcp/internal/domain"
	"github.com/tedpecoulas/claude-skills-mcp/internal/infra/router"
)

type Options struct {
	Addr   string
	Logger *zap.Logger
}

type Server struct {
	dispatcher *router.Dispatcher
	catalog    *domain.Catalog
	fetcher    router.ContentFetcher
	addr       string
	logger     *zap.Logger
}

func New(dispatcher *router.Dispatcher, catalog *domain.Catalog, fetcher router.ContentFetcher, opts Options) *Server {
	addr := opts.Addr
	if addr == "" {
		addr = domain.DefaultListenAddress
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		dispatcher: dispatcher,
		catalog:    catalog,
		fetcher:    fetcher,
		addr:       addr,
		logger:     logger.Named("httpserver"),
	}
}

// Handler returns the full route table behind the CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /mcp", s.handleRPC)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /skills", s.handleListSkills)
	mux.HandleFunc("GET /skills/{name}", s.handleGetSkill)
	return withCORS(mux)
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("gateway listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("gateway server failed to start: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), domain.DefaultShutdownTimeoutSeconds*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("gateway server shutdown error", zap.Error(err))
			return err
		}
		s.logger.Info("gateway server stopped")
		return nil
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
