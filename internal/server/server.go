// Package server wires the application together: storage, services, the
// authorization dispatcher, routes, and the HTTP server lifecycle.
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

	"github.com/nwhite/newswire/internal/auth"
	"github.com/nwhite/newswire/internal/dispatch"
	"github.com/nwhite/newswire/internal/handler"
	"github.com/nwhite/newswire/internal/middleware"
	"github.com/nwhite/newswire/internal/policy"
	"github.com/nwhite/newswire/internal/repository/sqlite"
	"github.com/nwhite/newswire/internal/service"
	"github.com/nwhite/newswire/internal/session"
	"github.com/nwhite/newswire/internal/validation"
)

// Config holds the server's runtime settings.
type Config struct {
	Port         string
	DBPath       string
	Secret       string
	PageSize     int
	DefaultOrder string
}

// Server is the assembled application.
type Server struct {
	httpServer *http.Server
	db         *sqlite.DB
	logger     *slog.Logger
}

// New builds the full dependency graph and the router.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("server: opening database: %w", err)
	}

	remember, err := auth.NewRememberCodec(cfg.Secret)
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokenService(cfg.Secret)
	if err != nil {
		return nil, err
	}
	passwords := auth.NewPasswordService()
	validate := validation.New()
	sessions := session.NewManager()

	accounts := service.NewAccountService(db.Users, db.Follows, passwords, validate, logger)
	topics := service.NewTopicService(db.Topics, db.Follows, validate, logger)
	votes := service.NewVoteService(db.Votes, db.Updates, logger)
	updates := service.NewUpdateService(db.Updates, db.Topics, db.Votes, validate, logger)
	feeds := service.NewFeedService(db.Updates, db.Follows, service.FeedConfig{
		PageSize:     cfg.PageSize,
		DefaultOrder: cfg.DefaultOrder,
	}, logger)

	d := dispatch.New(db.Users, sessions, remember, tokens, policy.Default(), logger)

	accountHandler := handler.NewAccountHandler(accounts, remember, tokens, logger)
	feedHandler := handler.NewFeedHandler(feeds, topics, logger)
	topicHandler := handler.NewTopicHandler(topics, logger)
	updateHandler := handler.NewUpdateHandler(updates, votes, logger)
	profileHandler := handler.NewProfileHandler(accounts, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)

	loginLimit := middleware.LoginRateLimit()

	// Feeds.
	r.Get("/", d.Dispatch(policy.ActionHomeIndex, feedHandler.Home))
	r.Get("/everyone", d.Dispatch(policy.ActionFeedEveryone, feedHandler.Everyone))
	r.Get("/you", d.Dispatch(policy.ActionFeedYou, feedHandler.You))
	r.Post("/mobile", d.Dispatch(policy.ActionMobileToggle, feedHandler.MobileToggle))

	// Accounts.
	r.Get("/login", d.Dispatch(policy.ActionLoginForm, accountHandler.LoginForm))
	r.With(loginLimit).Post("/login", d.Dispatch(policy.ActionLogin, accountHandler.Login))
	r.Get("/register", d.Dispatch(policy.ActionRegisterForm, accountHandler.RegisterForm))
	r.With(loginLimit).Post("/register", d.Dispatch(policy.ActionRegister, accountHandler.Register))
	r.Post("/logout", d.Dispatch(policy.ActionLogout, accountHandler.Logout))
	r.Get("/settings", d.Dispatch(policy.ActionSettingsForm, accountHandler.SettingsForm))
	r.Post("/settings", d.Dispatch(policy.ActionSettings, accountHandler.Settings))
	r.Post("/profile", d.Dispatch(policy.ActionProfileEdit, accountHandler.ProfileEdit))

	// Profiles.
	r.Get("/u/{id}", d.Dispatch(policy.ActionProfileView, profileHandler.View))
	r.Get("/u/{id}/topics", d.Dispatch(policy.ActionProfileTopics, profileHandler.Topics))

	// Topics.
	r.Get("/topics", d.Dispatch(policy.ActionTopicList, topicHandler.List))
	r.Get("/topics/new", d.Dispatch(policy.ActionTopicNewForm, topicHandler.NewForm))
	r.Post("/topics", d.Dispatch(policy.ActionTopicCreate, topicHandler.Create))
	r.Get("/t/{topic}", d.Dispatch(policy.ActionTopicView, feedHandler.Topic))
	r.Post("/t/{topic}/follow", d.Dispatch(policy.ActionTopicFollow, topicHandler.Follow))
	r.Post("/t/{topic}/unfollow", d.Dispatch(policy.ActionTopicUnfollow, topicHandler.Unfollow))
	r.Get("/search", d.Dispatch(policy.ActionSearch, topicHandler.Search))

	// Updates and votes.
	r.Post("/t/{topic}/updates", d.Dispatch(policy.ActionUpdatePost, updateHandler.Post))
	r.Post("/updates/{id}/delete", d.Dispatch(policy.ActionUpdateDelete, updateHandler.Delete))
	r.Post("/updates/{id}/vote", d.Dispatch(policy.ActionVoteToggle, updateHandler.VoteToggle))

	// JSON API for script clients; bearer tokens instead of cookies.
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))

		r.With(loginLimit).Post("/token", d.Dispatch(policy.ActionAPIToken, accountHandler.APIToken))
		r.Get("/feed/everyone", d.Dispatch(policy.ActionFeedEveryone, feedHandler.Everyone))
		r.Get("/feed/you", d.Dispatch(policy.ActionFeedYou, feedHandler.You))
		r.Get("/feed/t/{topic}", d.Dispatch(policy.ActionTopicView, feedHandler.Topic))
		r.Post("/updates/{id}/vote", d.Dispatch(policy.ActionVoteToggle, updateHandler.APIVoteToggle))
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		db:     db,
		logger: logger,
	}, nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listening: %w", err)
	case sig := <-stop:
		s.logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("server: closing database: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
