package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avzakharova/studio-bot/internal/core/events"
	"github.com/avzakharova/studio-bot/internal/ledger"
	"github.com/avzakharova/studio-bot/internal/ledger/gormstore"
	"github.com/avzakharova/studio-bot/pkg/logger"
)

// sweepCmd runs a single retention pass, for cron-style deployments that
// prefer an external scheduler over the in-process ticker.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Purge stale pending payments once and exit",
	Run: func(cmd *cobra.Command, args []string) {
		runSweep()
	},
}

func runSweep() {
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

	svc := ledger.NewService(gormstore.NewLedgerRepository(db), events.NewEventBus(log), log, cfg.Bot.PendingMaxAge)

	removed, err := svc.SweepStalePending(context.Background())
	if err != nil {
		log.Error("sweep failed", "error", err)
		os.Exit(1)
	}
	log.Info("sweep finished", "removed", removed)
}
