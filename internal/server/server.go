// Package server wires handlers, middleware, and routes, and owns the
// HTTP server lifecycle. It is the composition root: every dependency
// is assembled in New, and each layer receives only what it needs —
// services get repository interfaces, handlers get services.
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

	"github.com/mkarim/pettrack/internal/auth"
	"github.com/mkarim/pettrack/internal/config"
	"github.com/mkarim/pettrack/internal/handler"
	"github.com/mkarim/pettrack/internal/middleware"
	sqliteRepo "github.com/mkarim/pettrack/internal/repository/sqlite"
	"github.com/mkarim/pettrack/internal/service"
)

// Server holds the router and the resources it owns. The database
// connection is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency graph: database, token and
// password services, domain services, handlers, and routes.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and every route.
//
// Route map:
//
//	POST /auth/signup                  register
//	POST /auth/login                   login (form credentials)
//	POST /auth/login/json              login (JSON credentials)
//	POST /auth/refresh                 exchange refresh token
//	GET  /auth/me                      current user          [auth]
//	POST /pets                         register pet          [auth]
//	GET  /pets                         list pets             [auth]
//	POST /activities                   log activity          [auth]
//	GET  /activities                   list activities       [auth]
//	GET  /stats/daily                  daily stats           [auth]
//	GET  /stats/weekly                 weekly report         [auth]
//	GET  /export/weekly-report.png     rendered report       [auth]
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	tokens, err := auth.NewTokenService(s.config.SecretKey, s.config.AccessTokenTTL, s.config.RefreshTokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	petService := service.NewPetService(s.db, s.logger)
	activityService := service.NewActivityService(s.db, s.db, s.logger)
	statsService := service.NewStatsService(s.db, s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	petHandler := handler.NewPetHandler(petService, s.logger)
	activityHandler := handler.NewActivityHandler(activityService, s.logger)
	statsHandler := handler.NewStatsHandler(statsService, s.logger)
	reportHandler := handler.NewReportHandler(statsService, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/login/json", authHandler.HandleLoginJSON)
		r.Post("/refresh", authHandler.HandleRefresh)
		r.With(requireAuth).Get("/me", authHandler.HandleMe)
	})

	s.router.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/pets", petHandler.HandleCreate)
		r.Get("/pets", petHandler.HandleList)
		r.Post("/activities", activityHandler.HandleCreate)
		r.Get("/activities", activityHandler.HandleList)
		r.Get("/stats/daily", statsHandler.HandleDaily)
		r.Get("/stats/weekly", statsHandler.HandleWeekly)
		r.Get("/export/weekly-report.png", reportHandler.HandleWeeklyReport)
	})

	return nil
}

// Handler exposes the configured router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without serving. Start closes
// them itself; call this only when Start was never reached.
func (s *Server) Close() error {
	return s.db.Close()
}

// allowedOrigins always includes the local dev frontend alongside the
// configured origin.
func (s *Server) allowedOrigins() []string {
	origins := []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	for _, o := range origins {
		if o == s.config.FrontendOrigin {
			return origins
		}
	}
	return append([]string{s.config.FrontendOrigin}, origins...)
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains
// in-flight requests for up to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DatabasePath),
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
