package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/travelrag/internal/logger"
)

const (
	// maxUploadBytes caps a single /ingest request body.
	maxUploadBytes = 64 << 20
	// maxMemoryBytes is the multipart size kept in memory before spilling to disk.
	maxMemoryBytes = 32 << 20
	// maxJSONBytes caps JSON request bodies.
	maxJSONBytes = 1 << 20

	shutdownTimeout = 5 * time.Second
)

// Server is the HTTP server for the travel assistant API.
type Server struct {
	ports *Ports
	addr  string
}

// NewServer creates a server listening on addr once Run is called.
func NewServer(ports *Ports, addr string) (*Server, error) {
	if ports == nil {
		return nil, ErrMissingPort
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	return &Server{ports: ports, addr: addr}, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the routed API wrapped in the CORS and logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("POST /reindex", s.handleReindex)
	mux.HandleFunc("POST /ask", s.handleAsk)

	return corsMiddleware(loggingMiddleware(mux))
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		// Ingest rebuilds the index inline, so responses can take a while.
		WriteTimeout: 10 * time.Minute,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("api: shutdown: %v", err)
		}
	}()

	logger.Info("api: listening on %s", s.addr)
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("%s %s %d %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
