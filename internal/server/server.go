package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/llm-workbench/internal/pipeline"
	"github.com/jonathan/llm-workbench/internal/server/ratelimit"
)

// Runner is the pipeline surface the server drives. A fresh runner is built
// per request so each one can carry its own progress callback.
type Runner interface {
	CoverLetter(ctx context.Context, req pipeline.CoverLetterRequest) (*pipeline.Output, error)
	Minutes(ctx context.Context, req pipeline.MinutesRequest) (*pipeline.Output, error)
	Summarize(ctx context.Context, req pipeline.SummarizeRequest) (*pipeline.Output, error)
	Tutor(ctx context.Context, req pipeline.TutorRequest) (*pipeline.Output, error)
}

// RunnerFactory builds a runner wired to a progress callback. cb may be nil
// for non-streaming requests.
type RunnerFactory func(cb pipeline.ProgressCallback) Runner

// Config holds server configuration
type Config struct {
	Port      int
	NewRunner RunnerFactory
	RateLimit ratelimit.Config
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	newRunner   RunnerFactory
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
}

// New creates a new server instance
func New(cfg Config) *Server {
	s := &Server{
		newRunner:   cfg.NewRunner,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		validate:    validator.New(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /coverletter", s.handleCoverLetter)
	mux.HandleFunc("POST /coverletter/stream", s.handleCoverLetterStream)
	mux.HandleFunc("POST /minutes", s.handleMinutes)
	mux.HandleFunc("POST /minutes/stream", s.handleMinutesStream)
	mux.HandleFunc("POST /summarize", s.handleSummarize)
	mux.HandleFunc("POST /tutor", s.handleTutor)
	mux.HandleFunc("POST /tutor/stream", s.handleTutorStream)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 300 * time.Second, // long timeout for generation runs
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the configured handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-stop
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	log.Println("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients that exceed their token bucket.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		allowed, info := s.rateLimiter.Allow(clientID(r))
		if !allowed {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())+1))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "rate limit exceeded, try again later",
			})
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
		log.Printf("[%s] %s %s in %v", r.Method, r.URL.Path, r.RemoteAddr, time.Since(start))
	})
}

func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
