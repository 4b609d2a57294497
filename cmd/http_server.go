package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/justicelink/case-management/internal"
	"github.com/justicelink/case-management/internal/auth"
	"github.com/justicelink/case-management/internal/authz"
	"github.com/justicelink/case-management/internal/cases"
	casespostgres "github.com/justicelink/case-management/internal/cases/postgres"
	"github.com/justicelink/case-management/internal/core/events"
	"github.com/justicelink/case-management/internal/document"
	documentpostgres "github.com/justicelink/case-management/internal/document/postgres"
	permissionpostgres "github.com/justicelink/case-management/internal/permission/postgres"
	"github.com/justicelink/case-management/internal/storage"
	"github.com/justicelink/case-management/internal/summarizer"
	"github.com/justicelink/case-management/internal/transport/rest"
	"github.com/justicelink/case-management/internal/user"
	userpostgres "github.com/justicelink/case-management/internal/user/postgres"
	"github.com/justicelink/case-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config          *internal.Config
	DB              *sqlx.DB
	GormDB          *gorm.DB
	Router          *chi.Mux
	AuthHandler     *auth.Handler
	UserHandler     *user.Handler
	CaseHandler     *cases.Handler
	DocumentHandler *document.Handler
	Logger          *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.AuthHandler, deps.UserHandler, deps.CaseHandler, deps.DocumentHandler, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Format)
	appLogger := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	byteStore, err := storage.NewLocalStore(config.Storage.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)
	registerAuditSubscribers(eventBus, appLogger)

	// repositories
	userRepo := userpostgres.NewUserRepository(gormDB)
	caseRepo := casespostgres.NewCaseRepository(gormDB)
	grantRepo := permissionpostgres.NewGrantRepository(gormDB)
	documentRepo := documentpostgres.NewDocumentRepository(gormDB)

	// authorization engine backed by the grant store
	engine := authz.NewEngine(grantRepo, appLogger)

	// services
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(userRepo, tokenGen, config.Security.BCryptCost)
	userService := user.NewService(userRepo, appLogger)

	summaryClient := summarizer.NewClient(summarizer.Config{
		APIURL:  config.Summarizer.APIURL,
		APIKey:  config.Summarizer.APIKey,
		Model:   config.Summarizer.Model,
		Timeout: config.Summarizer.Timeout,
	}, appLogger)

	documentService := document.NewService(documentRepo, caseRepo, engine, byteStore, eventBus, appLogger)
	caseService := cases.NewService(caseRepo, grantRepo, userRepo, engine, documentService, summaryClient, eventBus, appLogger)

	return &Dependencies{
		Config:          config,
		Logger:          appLogger,
		DB:              db,
		GormDB:          gormDB,
		Router:          chi.NewRouter(),
		AuthHandler:     auth.NewHandler(authService),
		UserHandler:     user.NewHandler(userService),
		CaseHandler:     cases.NewHandler(caseService),
		DocumentHandler: document.NewHandler(documentService),
	}, nil
}

// registerAuditSubscribers writes an audit line for every workflow event.
func registerAuditSubscribers(bus *events.EventBus, appLogger *slog.Logger) {
	audit := func(ctx context.Context, event events.Event) error {
		appLogger.Info("audit",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}

	bus.Subscribe(events.EventTypeCaseCreated, audit)
	bus.Subscribe(events.EventTypeCaseStatusUpdated, audit)
	bus.Subscribe(events.EventTypeAccessGranted, audit)
	bus.Subscribe(events.EventTypeDocumentUploaded, audit)
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
