// Package cli служебные команды: миграции, выгрузка выплат, сброс кеша рекламы, выпуск токенов.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yourusername/indcric-api/internal/config"
	"github.com/yourusername/indcric-api/pkg/logger"
)

// Execute запускает CLI
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "indcric-ops",
		Short:         "Operational tooling for the IndCric API",
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", config.PathFromEnv(), "path to YAML config")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logger.Init(cfg.Log.Level, true)
		return cfg, nil
	}

	cmd.AddCommand(
		newMigrateCmd(load),
		newExportPaymentsCmd(load),
		newFlushAdCacheCmd(load),
		newTokenCmd(load),
	)
	return cmd
}

type configLoader func() (*config.Config, error)
