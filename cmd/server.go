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
	"gorm.io/gorm"

	"github.com/avzakharova/studio-bot/internal"
	"github.com/avzakharova/studio-bot/internal/auth"
	"github.com/avzakharova/studio-bot/internal/core/events"
	"github.com/avzakharova/studio-bot/internal/ledger"
	"github.com/avzakharova/studio-bot/internal/ledger/gormstore"
	"github.com/avzakharova/studio-bot/internal/schedule"
	"github.com/avzakharova/studio-bot/internal/transport/rest"
	"github.com/avzakharova/studio-bot/pkg/logger"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the admin HTTP server",
	Long:  `Start the HTTP server exposing the admin ledger and schedule API`,
	Run: func(cmd *cobra.Command, args []string) {
		startAdminServer()
	},
}

type serverDependencies struct {
	Config *internal.Config
	DB     *gorm.DB
	Probe  *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startAdminServer() {
	deps, err := initializeServerDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting admin server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.Probe.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *serverDependencies) {
	bus := events.NewEventBus(deps.Logger)
	ledgerSvc := ledger.NewService(gormstore.NewLedgerRepository(deps.DB), bus, deps.Logger, deps.Config.Bot.PendingMaxAge)
	schedules := schedule.NewManager(deps.Config.Schedule.FilePath, deps.Config.Schedule.CacheTTL, deps.Logger)

	authHandler := auth.NewHandler(auth.NewService(deps.Config.Security, deps.Logger))
	ledgerHandler := ledger.NewHandler(ledgerSvc)
	scheduleHandler := schedule.NewHandler(schedules)

	rest.RegisterAllRoutes(deps.Router, deps.Probe.DB, deps.Config.Database.Driver,
		authHandler, ledgerHandler, scheduleHandler, deps.Logger)
}

func initializeServerDependencies() (*serverDependencies, error) {
	cfg, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Security.Validate(); err != nil {
		return nil, fmt.Errorf("security config: %w", err)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	db, err := openGorm(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if cfg.Database.Driver == "sqlite" {
		if err := gormstore.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	probe, err := probeDB(cfg.Database, db)
	if err != nil {
		return nil, fmt.Errorf("failed to verify database connection: %w", err)
	}

	return &serverDependencies{
		Config: cfg,
		DB:     db,
		Probe:  probe,
		Router: chi.NewRouter(),
		Logger: logger.LoggerWrapper(),
	}, nil
}

// probeDB verifies connectivity and hands back the connection the health
// endpoint pings. sqlite reuses the pool gorm already opened; postgres gets
// a dedicated pgx connection.
func probeDB(cfg internal.DatabaseConfig, db *gorm.DB) (*sqlx.DB, error) {
	if cfg.Driver == "postgres" {
		conn, err := sqlx.Connect("pgx", cfg.Source)
		if err != nil {
			return nil, err
		}
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
		return conn, nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	conn := sqlx.NewDb(sqlDB, cfg.Driver)
	if err := conn.Ping(); err != nil {
		return nil, err
	}
	return conn, nil
}
