// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer. It is the composition root: every
// repository, service, and handler is constructed here and nowhere else,
// so the dependency graph of the whole application is readable in one
// file. main.go stays minimal: parse config, build a Server, Start it.
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

	"github.com/lenb209/PhotoApp/internal/auth"
	"github.com/lenb209/PhotoApp/internal/handler"
	"github.com/lenb209/PhotoApp/internal/media"
	"github.com/lenb209/PhotoApp/internal/middleware"
	sqliteRepo "github.com/lenb209/PhotoApp/internal/repository/sqlite"
	"github.com/lenb209/PhotoApp/internal/service"
)

// Config holds server configuration, loaded from the environment by
// main.go. A struct (instead of individual parameters) keeps the
// signature stable as options grow.
type Config struct {
	Port               int
	DBPath             string
	UploadDir          string
	JWTSecret          string
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router and the resources that need closing on
// shutdown. The database connection is closed in Start() after graceful
// shutdown so the WAL is flushed and the file lock released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency chain:
//
//	sqlite.DB → per-entity repositories → services → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete DB), handlers get services (not
// repositories). The sqlite package is aliased to sqliteRepo so it can't
// be confused with the driver.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
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

// setupRoutes wires middleware, handlers, and routes.
//
// MIDDLEWARE ORDER MATTERS. Ours:
//  1. RequestID — assigns a unique ID to each request (for tracing)
//  2. RealIP — rewrites RemoteAddr from X-Forwarded-For behind a proxy;
//     must run before anything that reads the client IP (anonymous likes)
//  3. Logger — logs each request with timing info
//  4. Recoverer — catches panics and returns 500 instead of crashing
//
// Route-level auth comes in two flavours: RequireAuth rejects requests
// without a valid session cookie, OptionalAuth decodes the cookie if
// present and lets the request through either way. Reads that render for
// everyone but adapt to the viewer (private clubs, likedByMe) use
// OptionalAuth; writes that need an account use RequireAuth.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	// === Shared infrastructure ===
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	github := auth.NewGitHubProvider(s.config.GitHubClientID, s.config.GitHubClientSecret, s.config.GitHubCallbackURL)

	images, err := media.NewProcessor(s.config.UploadDir)
	if err != nil {
		return fmt.Errorf("creating media processor: %w", err)
	}

	// === Services ===
	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	userService := service.NewUserService(s.db.Users(), s.db.Photos(), s.logger)
	photoService := service.NewPhotoService(s.db.Photos(), s.db.Likes(), s.db.Comments(), images, s.logger)
	clubService := service.NewClubService(s.db.Clubs(), s.db.Photos(), s.logger)
	engagementService := service.NewEngagementService(s.db.Photos(), s.db.Likes(), s.db.Comments(), s.db.Users(), s.logger)
	contestService := service.NewContestService(s.db.Contests(), s.db.Clubs(), images, s.logger)

	// === Handlers ===
	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	photoHandler := handler.NewPhotoHandler(photoService, s.logger)
	clubHandler := handler.NewClubHandler(clubService, s.logger)
	engagementHandler := handler.NewEngagementHandler(engagementService, s.logger)
	contestHandler := handler.NewContestHandler(contestService, s.logger)

	requireAuth := auth.RequireAuth(tokens)
	optionalAuth := auth.OptionalAuth(tokens)

	// === Uploaded images ===
	// Originals and thumbnails are served straight off disk. The media
	// processor already confined every stored name to its directory, so a
	// plain FileServer is safe here.
	fileServer := http.FileServer(http.Dir(images.Dir()))
	s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// === API Routes ===
	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)
			r.With(optionalAuth).Get("/status", authHandler.HandleStatus)
			r.Get("/github", authHandler.HandleGitHubLogin)
			r.Get("/github/callback", authHandler.HandleGitHubCallback)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.HandleList)
			r.Get("/count", userHandler.HandleCount)
			r.With(requireAuth).Put("/me", userHandler.HandleUpdateProfile)
			r.Get("/{username}", userHandler.HandleProfile)
		})

		r.Route("/photos", func(r chi.Router) {
			r.Get("/", photoHandler.HandleList)
			r.Get("/featured", photoHandler.HandleListFeatured)
			r.With(requireAuth).Post("/", photoHandler.HandleUpload)
			r.With(optionalAuth).Get("/{id}", photoHandler.HandleGet)
			r.With(requireAuth).Put("/{id}", photoHandler.HandleUpdate)
			r.With(requireAuth).Delete("/{id}", photoHandler.HandleDelete)

			r.With(optionalAuth).Get("/{id}/like", engagementHandler.HandleLikeStatus)
			r.With(optionalAuth).Post("/{id}/like", engagementHandler.HandleToggleLike)
			r.Get("/{id}/comments", engagementHandler.HandleComments)
			r.Get("/{id}/comments/count", engagementHandler.HandleCommentCount)
			r.With(optionalAuth).Post("/{id}/comments", engagementHandler.HandleAddComment)
		})

		r.Route("/clubs", func(r chi.Router) {
			r.Get("/", clubHandler.HandleList)
			r.With(requireAuth).Post("/", clubHandler.HandleCreate)
			r.With(requireAuth).Get("/mine", clubHandler.HandleListMine)
			r.Get("/user/{userId}", clubHandler.HandleListByUser)
			r.With(optionalAuth).Get("/{id}", clubHandler.HandleGet)
			r.With(requireAuth).Put("/{id}", clubHandler.HandleUpdate)
			r.With(requireAuth).Delete("/{id}", clubHandler.HandleDelete)
			r.With(requireAuth).Post("/{id}/join", clubHandler.HandleJoin)
			r.With(requireAuth).Post("/{id}/leave", clubHandler.HandleLeave)
			r.With(optionalAuth).Get("/{id}/members", clubHandler.HandleMembers)
			r.With(requireAuth).Post("/{id}/promote", clubHandler.HandlePromote)
			r.With(optionalAuth).Get("/{id}/photos", clubHandler.HandlePhotos)
			r.With(requireAuth).Post("/{id}/photos", clubHandler.HandlePostPhoto)
			r.With(optionalAuth).Get("/{id}/contests", contestHandler.HandleListByClub)
		})

		r.Route("/contests", func(r chi.Router) {
			r.Get("/", contestHandler.HandleList)
			r.With(requireAuth).Post("/", contestHandler.HandleCreate)
			r.With(requireAuth).Get("/entries/mine", contestHandler.HandleMyEntries)
			r.With(optionalAuth).Get("/{id}", contestHandler.HandleGet)
			r.With(optionalAuth).Get("/{id}/entries", contestHandler.HandleEntries)
			r.With(requireAuth).Post("/{id}/entries", contestHandler.HandleEnter)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds to finish, close the database.
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
			slog.String("database", s.config.DBPath),
			slog.String("uploads", s.config.UploadDir),
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

// Router exposes the configured router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
