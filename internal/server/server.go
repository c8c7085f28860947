// Package server is the composition root: it builds the dependency chain,
// registers middleware and routes, and runs the HTTP server.
//
//	sqlite.DB → repositories → services → handlers → chi router
//
// Each layer only receives what it needs. Services get repository
// interfaces, handlers get services, and nothing below this package knows
// about routing.
package server

import (
	"context"
	"errors"
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

	"github.com/sakif/message-board/internal/auth"
	"github.com/sakif/message-board/internal/config"
	"github.com/sakif/message-board/internal/handler"
	"github.com/sakif/message-board/internal/middleware"
	sqliteRepo "github.com/sakif/message-board/internal/repository/sqlite"
	"github.com/sakif/message-board/internal/service"
)

// Server owns the router and the database connection. The database is
// closed when Start returns.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database, creates the schema and wires every route.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
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

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the fully wired router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Start calls it on the way out; tests that
// never call Start close the server themselves.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures middleware and routes.
//
// ROUTES:
//
//	POST   /register            public
//	POST   /login               public, sets the auth cookie
//	POST   /logout              public, clears the auth cookie
//	GET    /hello/{name}        public
//	GET    /bye/{name}          public
//	GET    /healthz             public
//	GET    /me                  RequireAuth
//	GET    /messages            RequireAuth
//	GET    /messages/{id}       RequireAuth
//	POST   /add                 RequireAuth
//	PUT    /update/{id}         RequireAuth
//	PATCH  /patchdone/{id}      RequireAuth
//	DELETE /delete/{id}         RequireAuth
//	DELETE /delete              RequireAuth
//
// Middleware runs in registration order: request ID first so every later
// layer (including the logger) can see it, Recoverer last so a panicking
// handler still produces a logged 500.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordServiceWithCost(s.config.BcryptCost)

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	messageService := service.NewMessageService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, handler.CookieOptions{
		MaxAge: tokens.TTL(),
		Secure: s.config.CookieSecure,
	}, s.logger)
	messageHandler := handler.NewMessageHandler(messageService, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Get("/hello/{name}", handler.HandleHello)
	s.router.Get("/bye/{name}", handler.HandleBye)
	s.router.Get("/healthz", handler.HandleHealth(s.db, s.logger))

	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Post("/logout", authHandler.HandleLogout)

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/me", authHandler.HandleMe)
		r.Get("/messages", messageHandler.HandleList)
		r.Get("/messages/{id}", messageHandler.HandleGet)
		r.Post("/add", messageHandler.HandleCreate)
		r.Put("/update/{id}", messageHandler.HandleUpdate)
		r.Patch("/patchdone/{id}", messageHandler.HandlePatchDone)
		r.Delete("/delete/{id}", messageHandler.HandleDelete)
		r.Delete("/delete", messageHandler.HandleDeleteAll)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the database.
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
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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
