package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/avalonfair/gatehouse/internal/gate/http"
	"github.com/avalonfair/gatehouse/internal/gate/mail"
	"github.com/avalonfair/gatehouse/internal/gate/service"
	"github.com/avalonfair/gatehouse/internal/gate/store"
	"github.com/avalonfair/gatehouse/internal/gate/store/drivers/sqlite"
	"github.com/avalonfair/gatehouse/pkg/cryptox"
	"github.com/avalonfair/gatehouse/pkg/jwtx"
	"github.com/avalonfair/gatehouse/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the gatehouse service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	mailer mail.Mailer

	// Services
	signupService       *service.SignupService
	otpService          *service.OTPService
	inviteService       *service.InviteService
	rateLimitService    *service.RateLimitService
	settingsService     *service.SettingsService
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
			Service: "gatehouse",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.AdminToken == "" {
		return nil, fmt.Errorf("GATE_ADMIN_TOKEN must be set")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("GATE_SESSION_SECRET must be set")
	}

	// Set pepper path for verification code hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initMailer(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("gatehouse starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down gatehouse...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("gatehouse stopped")
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

// initMailer builds the outbound mail provider from config
func (app *Application) initMailer() error {
	mailer, err := mail.NewMailer(mail.Config{
		Provider:    app.cfg.MailProvider,
		FromAddress: app.cfg.MailFromAddress,
		FromName:    app.cfg.MailFromName,
		SES: mail.SESConfig{
			Region:          app.cfg.SESRegion,
			AccessKeyID:     app.cfg.SESAccessKey,
			SecretAccessKey: app.cfg.SESSecretKey,
		},
		SMTP: mail.SMTPConfig{
			Host:     app.cfg.SMTPHost,
			Port:     app.cfg.SMTPPort,
			User:     app.cfg.SMTPUser,
			Password: app.cfg.SMTPPassword,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}

	app.mailer = mailer
	app.logger.Info("mailer initialized", "provider", app.cfg.MailProvider)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.otpService = &service.OTPService{
		Store:       app.db,
		Mailer:      app.mailer,
		MailTimeout: app.cfg.MailTimeout,
	}

	app.inviteService = &service.InviteService{
		Store:   app.db,
		BaseURL: app.cfg.BaseURL,
	}

	app.rateLimitService = &service.RateLimitService{Store: app.db}
	app.settingsService = &service.SettingsService{Store: app.db}

	app.signupService = &service.SignupService{
		Store:   app.db,
		OTP:     app.otpService,
		Invites: app.inviteService,
		Limits:  app.rateLimitService,
		Sessions: &jwtx.Signer{
			Secret: []byte(app.cfg.SessionSecret),
			Issuer: "gatehouse",
			TTL:    app.cfg.SessionTTL,
		},
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.cfg.AdminToken,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.SignupService = app.signupService
	router.InviteService = app.inviteService
	router.SettingsService = app.settingsService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
