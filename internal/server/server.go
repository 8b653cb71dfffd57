// Package server wires the application together: it owns the router, the
// database connection, and the dependency graph from store to handler,
// and runs the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nayeem/foodjudge/internal/auth"
	"github.com/nayeem/foodjudge/internal/handler"
	"github.com/nayeem/foodjudge/internal/middleware"
	"github.com/nayeem/foodjudge/internal/reasoner"
	sqliteRepo "github.com/nayeem/foodjudge/internal/repository/sqlite"
	"github.com/nayeem/foodjudge/internal/service"
)

// maxBodyBytes caps request bodies at 50 MB. Judge requests can carry a
// base64-encoded label photo, which is why the limit is this generous.
const maxBodyBytes = 50 << 20

// Config holds server configuration.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
}

// Server owns the router and the resources that need a clean shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → AuthService/JudgeService → handlers → routes
//
// The reasoning service is injected rather than constructed here so that
// main can decide the provider and tests can substitute a stub.
func New(cfg Config, ai reasoner.Reasoner, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(ai); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table:
//
//	POST /auth/signup        → register + token
//	POST /auth/login         → authenticate + token
//	GET  /judge/context      → stored persona        (bearer)
//	POST /judge              → verdict analysis       (bearer)
//	POST /judge/chat         → follow-up conversation (bearer)
//	GET  /healthz            → liveness probe
func (s *Server) setupRoutes(ai reasoner.Reasoner) error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.RequestSize(maxBodyBytes))
	s.router.Use(middleware.Logger(s.logger))

	// The browser client sends the bearer token from another origin.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	judgeService := service.NewJudgeService(s.db, ai, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	judgeHandler := handler.NewJudgeHandler(judgeService, s.logger)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/login", authHandler.HandleLogin)
	})

	s.router.Route("/judge", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/context", judgeHandler.HandleContext)
		r.Post("/", judgeHandler.HandleJudge)
		r.Post("/chat", judgeHandler.HandleChat)
	})

	return nil
}

// Handler exposes the assembled router, mainly for HTTP-level tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
