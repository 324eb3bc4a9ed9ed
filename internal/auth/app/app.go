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

	httpapi "github.com/epargne/authd/internal/auth/http"
	"github.com/epargne/authd/internal/auth/service"
	"github.com/epargne/authd/internal/auth/store"
	"github.com/epargne/authd/internal/auth/store/drivers/sqlite"
	"github.com/epargne/authd/pkg/cryptox"
	"github.com/epargne/authd/pkg/jwtx"
	"github.com/epargne/authd/pkg/slogx"
	"github.com/epargne/authd/pkg/smsx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	signer   *jwtx.Signer
	verifier *jwtx.Verifier

	tokenService   *service.TokenService
	lockoutService *service.LockoutService
	otpService     *service.OTPService
	authService    *service.AuthService
	userService    *service.UserService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
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

	signer, verifier, err := initSigningKey(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.signer = signer
	app.verifier = verifier

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start the lockout sweep that lifts expired blocks
	app.lockoutService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.lockoutService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
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

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tokenService = service.NewTokenService(
		app.signer,
		app.verifier,
		app.logger,
		app.cfg.Issuer,
		app.cfg.TokenTTL,
	)

	app.lockoutService = service.NewLockoutService(
		app.db,
		app.logger,
		app.cfg.LockoutAttempts,
		app.cfg.LockoutDuration,
		app.cfg.SweepInterval,
	)

	app.otpService = service.NewOTPService(app.logger, app.cfg.OTPTTL)

	var sender smsx.Sender
	if app.cfg.SMSGatewayURL != "" {
		sender = smsx.NewGatewaySender(app.cfg.SMSGatewayURL, app.cfg.SMSAPIKey, app.cfg.SMSFrom)
		app.logger.Info("sms delivery via gateway", "url", app.cfg.SMSGatewayURL)
	} else {
		sender = &smsx.LogSender{Logger: app.logger}
		app.logger.Warn("no sms gateway configured, codes will only be logged")
	}

	app.authService = &service.AuthService{
		Store:   app.db,
		Tokens:  app.tokenService,
		Lockout: app.lockoutService,
		OTP:     app.otpService,
		SMS:     sender,
		Logger:  app.logger,
	}

	app.userService = &service.UserService{
		Store:  app.db,
		Logger: app.logger,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
