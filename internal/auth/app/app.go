package app

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

	httpapi "github.com/aussiebroadwan/gymgate/internal/auth/http"
	"github.com/aussiebroadwan/gymgate/internal/auth/identity"
	"github.com/aussiebroadwan/gymgate/internal/auth/service"
	"github.com/aussiebroadwan/gymgate/internal/auth/store"
	"github.com/aussiebroadwan/gymgate/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/gymgate/pkg/httpx"
	"github.com/aussiebroadwan/gymgate/pkg/jwtx"
	"github.com/aussiebroadwan/gymgate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the gymgate service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	keyManager *jwtx.KeyManager
	providers  *identity.Registry

	// Services
	inviteService       *service.InviteService
	linkerService       *service.LinkerService
	sessionService      *service.SessionService
	accountService      *service.AccountService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "gymgate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Initialize database first (required for persistent keys)
	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	keyManager, err := InitSessionKeys(ctx, app.cfg, app.db, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize session keys: %w", err)
	}
	app.keyManager = keyManager

	app.initProviders()
	app.initServices()

	if err := app.bootstrapOwner(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("gymgate starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"providers", app.providers.Names(),
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down gymgate...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("gymgate stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initProviders registers every OAuth provider that has a client ID.
func (app *Application) initProviders() {
	redirect := func(name string) string {
		return app.cfg.BaseURL + "/auth/" + name + "/callback"
	}

	var providers []identity.Provider
	if app.cfg.GitHubClientID != "" {
		providers = append(providers, identity.NewGitHub(identity.Config{
			ClientID:     app.cfg.GitHubClientID,
			ClientSecret: app.cfg.GitHubClientSecret,
			RedirectURL:  redirect("github"),
		}))
	}
	if app.cfg.GoogleClientID != "" {
		providers = append(providers, identity.NewGoogle(identity.Config{
			ClientID:     app.cfg.GoogleClientID,
			ClientSecret: app.cfg.GoogleClientSecret,
			RedirectURL:  redirect("google"),
		}))
	}

	app.providers = identity.NewRegistry(providers...)
	if app.providers.Len() == 0 {
		app.logger.Warn("no OAuth providers configured, nobody can sign in")
	}
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.inviteService = &service.InviteService{Store: app.db}
	app.linkerService = &service.LinkerService{
		Store:   app.db,
		Invites: app.inviteService,
	}
	app.sessionService = &service.SessionService{
		Store:         app.db,
		Signer:        app.keyManager,
		Verifier:      app.keyManager.Verifier,
		Issuer:        app.cfg.Issuer,
		TTL:           app.cfg.SessionTTL,
		RefreshWindow: app.cfg.RefreshWindow,
	}
	app.accountService = &service.AccountService{Store: app.db}

	// Ephemeral keys never reach storage, so there is nothing to purge.
	var retention time.Duration
	if app.cfg.KeyStorageMode == "persistent" {
		retention = app.cfg.KeyRetention()
	}
	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.ReconcileInterval,
		retention,
	)
}

func (app *Application) bootstrapOwner(ctx context.Context) error {
	if app.cfg.OwnerEmail == "" {
		return nil
	}
	ctx = slogx.WithContext(ctx, app.logger)
	if err := app.accountService.BootstrapOwner(ctx, app.cfg.OwnerEmail); err != nil {
		return fmt.Errorf("failed to bootstrap owner: %w", err)
	}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	httpx.StrictLimit = httpx.ParseRateLimitFromEnv("STRICT", httpx.StrictLimit)
	httpx.ModerateLimit = httpx.ParseRateLimitFromEnv("MODERATE", httpx.ModerateLimit)
	httpx.PublicLimit = httpx.ParseRateLimitFromEnv("PUBLIC", httpx.PublicLimit)

	router := httpapi.NewRouter(
		app.keyManager,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.InviteService = app.inviteService
	router.LinkerService = app.linkerService
	router.SessionService = app.sessionService
	router.AccountService = app.accountService
	router.Providers = app.providers
	router.CookieSecure = app.cfg.CookieSecure
	router.DefaultInviteHours = app.cfg.DefaultInviteHours
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
