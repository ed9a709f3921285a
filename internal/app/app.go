package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/stitchdesk/stitchdesk/config"
	"github.com/stitchdesk/stitchdesk/internal/database"
	"github.com/stitchdesk/stitchdesk/internal/domain"
	httpHandler "github.com/stitchdesk/stitchdesk/internal/http"
	"github.com/stitchdesk/stitchdesk/internal/http/middleware"
	"github.com/stitchdesk/stitchdesk/internal/repository"
	"github.com/stitchdesk/stitchdesk/internal/service"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
	"github.com/stitchdesk/stitchdesk/pkg/mailer"
	"github.com/stitchdesk/stitchdesk/pkg/signer"
)

// App encapsulates the application dependencies and configuration
type App struct {
	config *config.Config
	logger logger.Logger
	db     *sql.DB
	mailer mailer.Mailer

	// Repositories
	userRepo        domain.UserRepository
	sessionRepo     domain.SessionRepository
	customerRepo    domain.CustomerRepository
	orderRepo       domain.OrderRepository
	measurementRepo domain.MeasurementRepository
	jobRepo         domain.ScheduledJobRepository
	tokenRepo       domain.OAuthTokenRepository

	// Services
	tokenService     *service.TokenService
	driveService     *service.GoogleDriveService
	sheetsService    *service.GoogleSheetsService
	whatsappService  *service.WhatsAppService
	customerService  *service.CustomerService
	orderService     *service.OrderService
	schedulerService *service.SchedulerService
	authService      *service.AuthService

	mux    *http.ServeMux
	server *http.Server

	mu          sync.Mutex
	initialized bool
}

// AppOption defines a function that modifies the App
type AppOption func(*App)

// WithLogger sets a custom logger
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// WithMockDB injects an existing database handle instead of opening one
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithMailer injects a custom mailer implementation
func WithMailer(m mailer.Mailer) AppOption {
	return func(a *App) {
		a.mailer = m
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) *App {
	app := &App{
		config: cfg,
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.logger == nil {
		app.logger = logger.NewLoggerWithLevel(cfg.LogLevel)
	}
	return app
}

// GetConfig returns the app configuration
func (a *App) GetConfig() *config.Config { return a.config }

// GetLogger returns the app logger
func (a *App) GetLogger() logger.Logger { return a.logger }

// GetMux returns the HTTP request multiplexer
func (a *App) GetMux() *http.ServeMux { return a.mux }

// GetDB returns the database handle
func (a *App) GetDB() *sql.DB { return a.db }

// InitDB opens the Postgres pool, creates the schema and seeds the root
// admin account.
func (a *App) InitDB() error {
	if a.db == nil {
		db, err := database.Connect(&a.config.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		a.db = db
	}

	if err := database.InitializeDatabase(a.db, a.config.AdminEmail, a.config.AdminPassword); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}

// InitMailer sets up the SMTP notification mailer
func (a *App) InitMailer() error {
	if a.mailer != nil {
		return nil
	}
	mailerCfg := &mailer.Config{
		SMTPHost:     a.config.SMTP.Host,
		SMTPPort:     a.config.SMTP.Port,
		SMTPUsername: a.config.SMTP.Username,
		SMTPPassword: a.config.SMTP.Password,
		FromEmail:    a.config.SMTP.FromEmail,
		FromName:     a.config.SMTP.FromName,
		AdminEmail:   a.config.AdminEmail,
	}
	if a.config.IsDevelopment() {
		a.mailer = mailer.NewTestSMTPMailer(mailerCfg)
	} else {
		a.mailer = mailer.NewSMTPMailer(mailerCfg)
	}
	return nil
}

// InitRepositories sets up the Postgres repositories
func (a *App) InitRepositories() error {
	a.userRepo = repository.NewUserRepository(a.db)
	a.sessionRepo = repository.NewSessionRepository(a.db)
	a.customerRepo = repository.NewCustomerRepository(a.db)
	a.orderRepo = repository.NewOrderRepository(a.db)
	a.measurementRepo = repository.NewMeasurementRepository(a.db)
	a.jobRepo = repository.NewScheduledJobRepository(a.db)
	a.tokenRepo = repository.NewOAuthTokenRepository(a.db)
	return nil
}

// InitServices wires the service layer
func (a *App) InitServices() error {
	a.tokenService = service.NewTokenService(&a.config.Google, a.tokenRepo, a.logger)
	a.driveService = service.NewGoogleDriveService(a.tokenService, a.logger, a.config.Google.Timeout, a.config.Google.RootFolderName)
	a.sheetsService = service.NewGoogleSheetsService(a.tokenService, a.driveService, a.logger, a.config.Google.Timeout)
	a.whatsappService = service.NewWhatsAppService(&a.config.Twilio, a.logger, nil)

	a.customerService = service.NewCustomerService(a.customerRepo, a.driveService, a.sheetsService, a.mailer, a.logger)
	a.orderService = service.NewOrderService(a.orderRepo, a.customerRepo, a.measurementRepo, a.sheetsService, a.logger)
	a.schedulerService = service.NewSchedulerService(a.jobRepo, a.whatsappService, a.logger, a.config.Scheduler.Interval)
	a.authService = service.NewAuthService(a.userRepo, a.sessionRepo, a.logger, a.config.Session.TTL)
	return nil
}

// InitHandlers registers all HTTP routes
func (a *App) InitHandlers() error {
	secureCookie := !a.config.IsDevelopment()
	cookieSigner := signer.New(a.config.Session.Secret)

	authMiddleware := middleware.NewAuthMiddleware(a.authService, cookieSigner, a.config.Session.CookieName)
	requireAuth := authMiddleware.RequireAuth()

	sessionHandler := httpHandler.NewSessionAuthHandler(a.authService, a.logger, cookieSigner, a.config.Session.CookieName, a.config.Session.TTL, secureCookie)
	googleHandler := httpHandler.NewGoogleAuthHandler(a.tokenService, a.logger, secureCookie)
	customerHandler := httpHandler.NewCustomerHandler(a.customerService, a.orderService, a.logger)
	orderHandler := httpHandler.NewOrderHandler(a.orderService, a.logger)
	measurementHandler := httpHandler.NewMeasurementHandler(a.orderService, a.logger)
	jobHandler := httpHandler.NewScheduledJobHandler(a.schedulerService, a.logger)

	sessionHandler.RegisterRoutes(a.mux)
	googleHandler.RegisterRoutes(a.mux)
	customerHandler.RegisterRoutes(a.mux, requireAuth)
	orderHandler.RegisterRoutes(a.mux, requireAuth)
	measurementHandler.RegisterRoutes(a.mux, requireAuth)
	jobHandler.RegisterRoutes(a.mux, requireAuth)

	version := a.config.Version
	a.mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","version":%q}`, version)
	})
	return nil
}

// Initialize sets up all application components in dependency order
func (a *App) Initialize() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized {
		return nil
	}

	if err := a.InitDB(); err != nil {
		return err
	}
	if err := a.InitMailer(); err != nil {
		return err
	}
	if err := a.InitRepositories(); err != nil {
		return err
	}
	if err := a.InitServices(); err != nil {
		return err
	}
	if err := a.InitHandlers(); err != nil {
		return err
	}

	a.initialized = true
	return nil
}

// Start launches the scheduler loop and the HTTP server. Blocks until
// the server stops.
func (a *App) Start() error {
	if !a.initialized {
		return fmt.Errorf("app not initialized")
	}

	if err := a.authService.PurgeExpiredSessions(context.Background()); err != nil {
		a.logger.WithField("error", err.Error()).Warn("Failed to purge expired sessions")
	}

	if a.config.Scheduler.Enabled {
		a.schedulerService.Start()
	}

	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      a.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	a.logger.WithField("addr", addr).Info("HTTP server listening")
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the scheduler, drains the HTTP server and closes the
// database pool.
func (a *App) Shutdown(ctx context.Context) error {
	if a.schedulerService != nil {
		a.schedulerService.Stop()
	}

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	a.logger.Info("Application shut down")
	return nil
}
