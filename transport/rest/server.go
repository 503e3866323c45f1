package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger *slog.Logger
	router chi.Router
}

func New(logger *slog.Logger, games gameManager, users userUseCase, auth authService, checks ...HealthCheck) *Server {
	log := logger.With("component", "rest")

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(10 * time.Second))

	ping := NewPingHandler(checks...)
	session := newSessionHandler(log, users, auth)
	queries := newQueryHandler(log, games, users)

	router.Get("/ping", ping.PingHandler)
	router.Post("/session", session.Issue)
	router.Get("/time-controls", queries.TimeControls)
	router.Get("/games/{id}", queries.Game)
	router.Get("/players/{username}", queries.Player)
	router.Get("/players/{username}/games/active", queries.ActiveGames)
	router.Get("/players/{username}/games/recent", queries.RecentGames)

	return &Server{logger: log, router: router}
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	that.logger.Info("Starting HTTP server", "port", port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
