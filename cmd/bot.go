package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/avzakharova/studio-bot/internal/bot"
	"github.com/avzakharova/studio-bot/internal/core/events"
	"github.com/avzakharova/studio-bot/internal/ledger"
	"github.com/avzakharova/studio-bot/internal/ledger/gormstore"
	"github.com/avzakharova/studio-bot/internal/relay"
	"github.com/avzakharova/studio-bot/internal/schedule"
	"github.com/avzakharova/studio-bot/internal/session"
	"github.com/avzakharova/studio-bot/internal/transport"
	"github.com/avzakharova/studio-bot/internal/transport/console"
	"github.com/avzakharova/studio-bot/internal/wizard"
	"github.com/avzakharova/studio-bot/pkg/logger"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Start the conversational bot",
	Long:  `Start the payment bot loop reading updates from the console transport.`,
	Run: func(cmd *cobra.Command, args []string) {
		runBot()
	},
}

func runBot() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.LoggerWrapper()

	db, err := openGorm(cfg.Database)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	// sqlite installs its own schema; postgres goes through goose migrations.
	if cfg.Database.Driver == "sqlite" {
		if err := gormstore.AutoMigrate(db); err != nil {
			log.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	bus := events.NewEventBus(log)
	subscribeAuditLog(bus, log)

	ledgerSvc := ledger.NewService(gormstore.NewLedgerRepository(db), bus, log, cfg.Bot.PendingMaxAge)
	schedules := schedule.NewManager(cfg.Schedule.FilePath, cfg.Schedule.CacheTTL, log)

	term := console.New(os.Stdin, os.Stdout, transport.User{
		ID:        consoleUserID(),
		Username:  "dev",
		FirstName: "Dev",
	})

	adminRelay := relay.New(term, ledgerSvc, cfg.Bot.AdminChatID, log)
	sessions := session.NewStore()
	engine := wizard.NewEngine(sessions, term, ledgerSvc, adminRelay, func(ctx context.Context, chatID int64) error {
		return bot.ShowMainMenu(ctx, term, chatID)
	}, log)
	dispatcher := bot.NewDispatcher(term, engine, adminRelay, schedules, cfg.Bot.AdminChatID, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runSweepLoop(ctx, ledgerSvc, cfg.Bot.SweepInterval, log)

	log.Info("bot started",
		"admin_chat_id", cfg.Bot.AdminChatID,
		"driver", cfg.Database.Driver)

	dispatcher.Run(ctx, term)

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("database close error", "error", err)
		}
	}
	log.Info("bot stopped")
}

// consoleUserID lets the developer impersonate a specific chat id, e.g. the
// admin chat, when driving the bot from the terminal.
func consoleUserID() int64 {
	if raw := os.Getenv("CONSOLE_USER_ID"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return id
		}
	}
	return 1
}

// runSweepLoop purges stale pending payments on a fixed interval until the
// context is cancelled.
func runSweepLoop(ctx context.Context, svc *ledger.Service, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := svc.SweepStalePending(ctx)
			if err != nil {
				log.Error("pending sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				log.Info("pending sweep removed stale payments", "removed", removed)
			}
		}
	}
}

func subscribeAuditLog(bus *events.EventBus, log *slog.Logger) {
	audit := func(ctx context.Context, event events.Event) error {
		log.Info("ledger event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	}
	bus.Subscribe(events.EventTypePaymentSubmitted, audit)
	bus.Subscribe(events.EventTypePaymentConfirmed, audit)
	bus.Subscribe(events.EventTypePaymentRejected, audit)
}
