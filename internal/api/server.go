// Package api exposes the advisory engine over HTTP for the mobile and
// web frontends.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/krishisetu/krishi-cli/internal/advisor"
	"github.com/krishisetu/krishi-cli/internal/record"
	"github.com/krishisetu/krishi-cli/pkg/anthropic"
	"github.com/krishisetu/krishi-cli/pkg/weather"
)

// Server serves the krishi HTTP API.
type Server struct {
	advisor   *advisor.Service
	records   record.Store
	weather   weather.Client
	llm       anthropic.Client
	model     string
	maxTokens int64
	port      int
	log       *zap.Logger
}

// Config collects the server's collaborators. Weather and llm may be nil
// when their keys are not configured; the affected routes return 503.
type Config struct {
	Advisor   *advisor.Service
	Records   record.Store
	Weather   weather.Client
	LLM       anthropic.Client
	Model     string
	MaxTokens int64
	Port      int
	Logger    *zap.Logger
}

// NewServer builds the API server from its collaborators.
func NewServer(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = zap.L()
	}
	return &Server{
		advisor:   cfg.Advisor,
		records:   cfg.Records,
		weather:   cfg.Weather,
		llm:       cfg.LLM,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		port:      cfg.Port,
		log:       log,
	}
}

// Handler assembles the router. Exposed separately from Serve so tests
// can drive it with httptest.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		s.requestLogger,
		middleware.Recoverer,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/records", func(r chi.Router) {
			r.Get("/", s.handleListRecords)
			r.Post("/", s.handleCreateRecord)
			r.Put("/{id}", s.handleUpdateRecord)
			r.Delete("/{id}", s.handleDeleteRecord)
		})

		r.Route("/weather", func(r chi.Router) {
			r.Get("/current", s.handleWeatherCurrent)
			r.Get("/advice", s.handleWeatherAdvice)
		})

		r.Post("/chat/message", s.handleChatMessage)

		r.Route("/advisor", func(r chi.Router) {
			r.Post("/message", s.handleAdvisorMessage)
			r.Get("/context", s.handleAdvisorContext)
		})
	})

	return r
}

// Serve runs the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.log.Info("api: listening", zap.String("addr", addr))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "api: listen")
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.log.Info("api: shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// requestLogger logs each request with zap once the response is written.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"success":   true,
		"service":   "krishi",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if s.records != nil {
		if err := s.records.Ping(r.Context()); err != nil {
			status["success"] = false
			status["store"] = "unreachable"
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["store"] = "ok"
	}
	writeJSON(w, http.StatusOK, status)
}
