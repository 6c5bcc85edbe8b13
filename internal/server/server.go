// Package server provides the HTTP REST API for the interview coach.
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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jonathan/interview-coach/internal/server/middleware"
	"github.com/jonathan/interview-coach/internal/server/ratelimit"
	"github.com/jonathan/interview-coach/internal/types"
)

// FeedbackService creates and reads interview feedback.
type FeedbackService interface {
	CreateFeedback(ctx context.Context, req types.CreateFeedbackRequest) types.CreateFeedbackResult
	GetFeedbackView(ctx context.Context, interviewID, userID string) (*types.FeedbackView, error)
}

// InterviewService generates and reads interviews.
type InterviewService interface {
	GenerateQuestions(ctx context.Context, req types.GenerateQuestionsRequest) (*types.Interview, error)
	GetInterviewByID(ctx context.Context, id string) (*types.Interview, error)
	GetInterviewsByUserID(ctx context.Context, userID string) ([]types.Interview, error)
	GetLatestInterviews(ctx context.Context, userID string, limit int) ([]types.Interview, error)
	Dashboard(ctx context.Context, userID string, limit int) (*types.Dashboard, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds server configuration
type Config struct {
	Port           int
	AllowedOrigins []string
	RateLimit      *ratelimit.Config
	// RequestTimeout bounds each request; it must exceed the model timeout.
	RequestTimeout time.Duration
	// VAPISecret guards POST /vapi/generate. Empty rejects every call.
	VAPISecret     string
	TokenValidator middleware.TokenValidator
	Logger         *slog.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	router      chi.Router
	feedback    FeedbackService
	interviews  InterviewService
	readiness   []Pinger
	rateLimiter *ratelimit.Limiter
	logger      *slog.Logger
}

// New creates a new server instance. readiness lists the stores checked by GET /ready.
func New(cfg Config, feedback FeedbackService, interviews InterviewService, readiness ...Pinger) (*Server, error) {
	if feedback == nil || interviews == nil {
		return nil, fmt.Errorf("feedback and interview services are required")
	}
	if cfg.TokenValidator == nil {
		return nil, fmt.Errorf("token validator is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 90 * time.Second
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		feedback:    feedback,
		interviews:  interviews,
		readiness:   readiness,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		logger:      logger.With("component", "http"),
	}
	s.setupRouter(cfg)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter(cfg Config) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(s.withRateLimit)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/vapi/generate", func(r chi.Router) {
		r.Get("/", s.handleGenerateLiveness)
		r.With(middleware.BearerSecret(cfg.VAPISecret)).Post("/", s.handleGenerate)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.TokenValidator))

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/users/me/interviews", s.handleListMyInterviews)
		r.Get("/interviews/latest", s.handleLatestInterviews)
		r.Route("/interviews/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetInterview)
			r.Get("/feedback", s.handleGetFeedback)
			r.Post("/feedback", s.handleCreateFeedback)
		})
	})

	s.router = r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	defer s.rateLimiter.Stop()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withRateLimit applies per-client token buckets.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	for _, p := range s.readiness {
		if err := p.Ping(ctx); err != nil {
			s.logger.Warn("readiness check failed", "error", err)
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ready"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]any{"success": false, "error": message})
}

// failure maps a service error to its status code. Store and model failures are logged;
// the cause never reaches the caller.
func (s *Server) failure(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"op", op,
			"error", err,
			"request_id", chimw.GetReqID(r.Context()),
		)
	}
	s.errorResponse(w, status, PublicMessage(err))
}

// extractClientID returns the caller's IP. RealIP has already applied proxy headers.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"success":   false,
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		"client", extractClientID(r),
		"path", r.URL.Path,
		"limit", info.Limit,
		"reset", info.ResetTime.Format(time.RFC3339),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
