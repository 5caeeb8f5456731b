package web

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/blobstore"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/chat"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/service"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/upload"
)

type Server struct {
	listings   *service.ListingService
	configs    *service.ConfigService
	uploader   *upload.Uploader
	blobs      blobstore.BlobStore
	mux        *http.ServeMux
	logger     *slog.Logger
	chatTiming chat.Timing
	corsOrigin string
}

type Option func(*Server)

// WithChatTiming overrides the assistant's typing, pause, idle and auto-open
// durations.
func WithChatTiming(t chat.Timing) Option {
	return func(s *Server) { s.chatTiming = t }
}

// WithCORSOrigin sets the Access-Control-Allow-Origin value. An empty origin
// disables CORS headers.
func WithCORSOrigin(origin string) Option {
	return func(s *Server) { s.corsOrigin = origin }
}

func NewServer(listings *service.ListingService, configs *service.ConfigService, uploader *upload.Uploader, blobs blobstore.BlobStore, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		listings:   listings,
		configs:    configs,
		uploader:   uploader,
		blobs:      blobs,
		mux:        http.NewServeMux(),
		logger:     logger,
		chatTiming: chat.DefaultTiming(),
		corsOrigin: "*",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("GET /api/site-config", s.handleGetSiteConfig)
	s.mux.HandleFunc("POST /api/site-config", s.handleSaveSiteConfig)
	s.mux.HandleFunc("DELETE /api/cleanup-config", s.handleCleanupConfig)
	s.mux.HandleFunc("GET /api/debug-configs", s.handleDebugConfigs)

	s.mux.HandleFunc("POST /api/upload", s.handleUpload)
	s.mux.HandleFunc("POST /api/upload-banners", s.handleUploadBanners)

	s.mux.HandleFunc("GET /api/imoveis", s.handleListListings)
	s.mux.HandleFunc("POST /api/imoveis", s.handleCreateListing)
	s.mux.HandleFunc("GET /api/imoveis/{id}", s.handleGetListing)
	s.mux.HandleFunc("PUT /api/imoveis/{id}", s.handleUpdateListing)
	s.mux.HandleFunc("DELETE /api/imoveis/{id}", s.handleDeleteListing)

	s.mux.HandleFunc("GET /api/chat", s.handleChat)
	s.mux.HandleFunc("GET /storage/{key...}", s.handleGetBlob)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"message":   "API Lobianco funcionando",
		"timestamp": time.Now().UTC(),
	})
}

// securityHeaders adds hardening headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// cors allows the public site and the admin panel to be served from another
// origin. Preflight requests are answered here.
func cors(origin string, next http.Handler) http.Handler {
	if origin == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
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

// Hijack lets the chat endpoint upgrade to a WebSocket through the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, cors(s.corsOrigin, securityHeaders(s.mux))).ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
