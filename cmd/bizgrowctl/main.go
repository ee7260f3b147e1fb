// Command bizgrowctl is the operator tool for seeding demo data and moving
// catalogs in and out of a store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bizgrow/backend/internal/infrastructure/config"
	"github.com/bizgrow/backend/internal/infrastructure/logger"
	"github.com/bizgrow/backend/internal/infrastructure/persistence"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// env is what every subcommand shares once the root pre-run has connected
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *persistence.Database
}

func (e *env) close() {
	if e.db != nil {
		_ = e.db.Close()
	}
	if e.log != nil {
		_ = logger.Sync(e.log)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel string
		e        = &env{}
	)

	root := &cobra.Command{
		Use:           "bizgrowctl",
		Short:         "Operate a BizGrow backend database",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stderr"})
			if err != nil {
				return err
			}
			db, err := persistence.NewDatabase(&cfg.Database,
				persistence.WithGormLogger(logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel))))
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			if err := db.Ping(cmd.Context()); err != nil {
				_ = db.Close()
				return fmt.Errorf("ping database: %w", err)
			}
			e.cfg, e.log, e.db = cfg, log, db
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			e.close()
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(seedCmd(e), productsCmd(e))
	root.SetContext(context.Background())
	return root
}
