package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pressroomhq/pressroom/internal/press/assets"
	httpapi "github.com/pressroomhq/pressroom/internal/press/http"
	"github.com/pressroomhq/pressroom/internal/press/mail"
	"github.com/pressroomhq/pressroom/internal/press/service"
	"github.com/pressroomhq/pressroom/internal/press/store"
	"github.com/pressroomhq/pressroom/internal/press/store/drivers/sqlite"
	"github.com/pressroomhq/pressroom/pkg/cryptox"
	"github.com/pressroomhq/pressroom/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the publishing service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db    store.Store
	files *assets.Store

	// Services
	authService         *service.AuthService
	userService         *service.UserService
	articleService      *service.ArticleService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router

	// Housekeeping lifecycle
	housekeepingCancel context.CancelFunc
	housekeepingDone   chan struct{}
}

// New creates an Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "pressroom",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	files, err := assets.NewStore(cfg.UploadDir, extsOrNil(cfg.AllowedImageExts))
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize upload store: %w", err)
	}
	app.files = files

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	ctx := slogx.WithContext(context.Background(), app.logger)

	// Seed the first admin on an empty database.
	if err := app.bootstrapService.EnsureAdmin(ctx); err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	app.startHousekeeping(ctx)

	app.logger.Info("pressroom starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down pressroom...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.stopHousekeeping()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("pressroom stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
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

// initServices initializes all business logic services.
func (app *Application) initServices() {
	var mailer service.CredentialMailer
	mailCfg := mail.Config{
		Host:     app.cfg.MailHost,
		Port:     app.cfg.MailPort,
		Username: app.cfg.MailUsername,
		Password: app.cfg.MailPassword,
		From:     app.cfg.MailFrom,
		SiteName: app.cfg.SiteName,
		SiteURL:  app.cfg.SiteURL,
	}
	if mailCfg.Enabled() {
		client, err := mail.NewClient(mailCfg)
		if err != nil {
			// A broken mail config should not keep the site down.
			app.logger.Error("mail disabled: client init failed", "error", err)
		} else {
			mailer = client
			app.logger.Info("credential mail enabled", "host", mailCfg.Host)
		}
	}

	app.authService = &service.AuthService{
		Store:           app.db,
		SessionLifetime: app.cfg.SessionLifetime,
	}
	app.userService = &service.UserService{
		Store:  app.db,
		Mailer: mailer,
	}
	app.articleService = &service.ArticleService{
		Store:  app.db,
		Assets: app.files,
	}
	app.bootstrapService = &service.BootstrapService{
		Store:         app.db,
		AdminUsername: app.cfg.AdminUsername,
		AdminEmail:    app.cfg.AdminEmail,
	}
	app.housekeepingService = &service.HousekeepingService{
		Store:  app.db,
		Assets: app.files,
	}
}

// initHTTP initializes the router and HTTP server.
func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(BuildVersion, app.db, app.files, app.logger)
	app.router.AuthService = app.authService
	app.router.UserService = app.userService
	app.router.ArticleService = app.articleService
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}

func (app *Application) startHousekeeping(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	app.housekeepingCancel = cancel
	app.housekeepingDone = make(chan struct{})

	go func() {
		defer close(app.housekeepingDone)
		app.housekeepingService.Run(ctx, app.cfg.HousekeepingInterval)
	}()
}

func (app *Application) stopHousekeeping() {
	if app.housekeepingCancel == nil {
		return
	}
	app.housekeepingCancel()
	<-app.housekeepingDone
}

func extsOrNil(exts []string) []string {
	if len(exts) == 0 {
		return nil
	}
	return exts
}
