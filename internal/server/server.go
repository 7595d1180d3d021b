package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/metrics"
	"github.com/jonathan/resume-builder/internal/persistence"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/summarize"
	"github.com/jonathan/resume-builder/internal/wizard"
)

// StatusReporter reports whether document saves are currently reaching storage
type StatusReporter interface {
	Status() (persistence.Status, error)
}

// Options wires the server to the editing session
type Options struct {
	Config      config.ServerConfig
	JWT         *config.JWTConfig
	Controller  *wizard.Controller
	Exporter    *export.Exporter
	Summarizer  summarize.Summarizer
	Persistence StatusReporter
	Hub         *Hub
	Logger      *slog.Logger
}

// Server serves one editing session over HTTP
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	controller  *wizard.Controller
	exporter    *export.Exporter
	summarizer  summarize.Summarizer
	persistence StatusReporter
	hub         *Hub
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	sessionID   uuid.UUID
	logger      *slog.Logger
}

// New creates a server for the session. The controller should publish previews to
// opts.Hub so that stream clients see every edit.
func New(opts Options) (*Server, error) {
	if opts.Controller == nil {
		return nil, errors.New("server needs a wizard controller")
	}
	if opts.JWT == nil {
		return nil, errors.New("server needs a JWT configuration")
	}

	s := &Server{
		controller:  opts.Controller,
		exporter:    opts.Exporter,
		summarizer:  opts.Summarizer,
		persistence: opts.Persistence,
		hub:         opts.Hub,
		rateLimiter: ratelimit.NewLimiter(ratelimit.FromConfig(opts.Config.RateLimit)),
		jwtService:  NewJWTService(opts.JWT),
		sessionID:   uuid.New(),
		logger:      opts.Logger,
	}
	if s.exporter == nil {
		s.exporter = export.NewExporter(export.Options{Logger: opts.Logger})
	}
	if s.summarizer == nil {
		s.summarizer = summarize.Disabled{}
	}
	if s.hub == nil {
		s.hub = NewHub()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	api := http.NewServeMux()
	api.HandleFunc("GET /api/session", s.handleSession)
	api.HandleFunc("GET /api/document", s.handleGetDocument)
	api.HandleFunc("GET /api/state", s.handleGetState)
	api.HandleFunc("POST /api/mutations", s.handleMutation)
	api.HandleFunc("POST /api/next", s.handleNext)
	api.HandleFunc("POST /api/previous", s.handlePrevious)
	api.HandleFunc("POST /api/goto", s.handleGoTo)
	api.HandleFunc("GET /api/errors", s.handleErrors)
	api.HandleFunc("POST /api/blur", s.handleBlur)
	api.HandleFunc("POST /api/reset", s.handleReset)
	api.HandleFunc("GET /api/preview", s.handlePreview)
	api.HandleFunc("GET /api/preview/stream", s.handlePreviewStream)
	api.HandleFunc("GET /api/export/formats", s.handleExportFormats)
	api.HandleFunc("POST /api/export", s.handleExport)
	api.HandleFunc("POST /api/summarize", s.handleSummarize)

	mux := http.NewServeMux()
	mux.Handle("GET /health", metrics.Middleware(http.HandlerFunc(s.handleHealth)))
	mux.Handle("GET /metrics", metrics.Handler())
	// metrics sit inside auth so the api mux's route pattern labels each request
	mux.Handle("/api/", middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(s.requireSession(metrics.Middleware(api))))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: opts.Config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Export-Pages", "X-Export-Location", "Retry-After"},
	})
	s.handler = corsHandler.Handler(s.withLogging(s.withRateLimit(mux)))

	addr := opts.Config.Addr
	if addr == "" {
		addr = ":8080"
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the full middleware chain, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.handler
}

// SessionID identifies the editing session this server was started for
func (s *Server) SessionID() uuid.UUID {
	return s.sessionID
}

// Token issues a bearer token for the session
func (s *Server) Token() (string, error) {
	return s.jwtService.GenerateToken(s.sessionID)
}

// Run serves until ctx is cancelled, then shuts down and flushes any pending save
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("preview server listening", slog.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.logger.Info("shutting down preview server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.rateLimiter.Stop()

		var errs []error
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown failed: %w", err))
		}
		if err := s.controller.Flush(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("final save failed: %w", err))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

// requireSession rejects tokens issued for a different session, such as one from a
// previous run of the server with the same secret
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := middleware.GetSessionID(r)
		if err != nil || id != s.sessionID {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit limits requests per client address
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
			slog.Duration("elapsed", time.Since(start)))
	})
}

// clientID is the request's remote IP, or the raw address when it has no port
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Rate limit exceeded. Please try again later.",
		"code":      "rate_limit_exceeded",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}
	s.logger.Warn("rate limit exceeded", slog.Int("limit", info.Limit), slog.Time("reset", info.ResetTime))
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", slog.Any("error", err))
	}
}

// errorResponse writes err with the status and body for its kind
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.Int("status", status), slog.Any("error", err))
	}
	s.jsonResponse(w, status, errorBody(err))
}
