// Package web is the UI collaborator boundary: a JSON API over the
// resolver, the saved-product store and the scan session. Responses reuse
// the food-database service's {success, data|error} envelope.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/volumate/volumate/internal/resolver"
	"github.com/volumate/volumate/internal/scan"
)

// healthProber is the subset of foodapi.Client the server needs for the
// liveness endpoint.
type healthProber interface {
	Health(ctx context.Context) bool
}

type Server struct {
	resolver *resolver.Resolver
	session  *scan.Session
	remote   healthProber
	mux      *http.ServeMux
	logger   *slog.Logger

	// resolutions holds the latest resolution per barcode so a later
	// save(barcode) call can find it. Single-user deployment: the map is
	// the service rendition of the result screen's in-memory state.
	mu          sync.Mutex
	resolutions map[string]*resolver.Resolution
}

func NewServer(res *resolver.Resolver, session *scan.Session, remote healthProber, logger *slog.Logger) *Server {
	s := &Server{
		resolver:    res,
		session:     session,
		remote:      remote,
		mux:         http.NewServeMux(),
		logger:      logger,
		resolutions: make(map[string]*resolver.Resolution),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/scan", s.handleScanEvent)
	s.mux.HandleFunc("POST /api/scan/reset", s.handleScanReset)
	s.mux.HandleFunc("GET /api/products", s.handleListSaved)
	s.mux.HandleFunc("GET /api/products/{barcode}", s.handleResolve)
	s.mux.HandleFunc("POST /api/products/{barcode}/save", s.handleSave)
	s.mux.HandleFunc("DELETE /api/products/{barcode}", s.handleDeleteSaved)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		rec.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// rememberResolution records the latest resolution for a barcode so the
// save endpoint can reach it. Last write wins, matching the UI rule for
// concurrent resolutions of the same barcode.
func (s *Server) rememberResolution(res *resolver.Resolution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolutions[res.Barcode] = res
}

func (s *Server) lookupResolution(barcode string) *resolver.Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolutions[barcode]
}

func (s *Server) writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data}); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg}); err != nil {
		s.logger.Error("failed to encode error response", "error", err)
	}
}
