package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/app"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/config"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/metrics"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bot",
		Short:         "Tutor ledger: Telegram bot, web-app API and payment reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newPayCmd())
	root.AddCommand(newDueCmd())
	root.AddCommand(newTutorCmd())

	return root
}

// runtime - конфиг, логгер и сервисы для одноразовых команд
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	services *app.Services
	close    func()
}

// openRuntime поднимает хранилище без бота и HTTP сервера
func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateLedger(); err != nil {
		return nil, err
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)

	ledger, closeLedger, err := app.OpenLedger(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	if err := ledger.EnsureSchema(ctx); err != nil {
		closeLedger()
		_ = logger.Sync()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	services, err := app.NewServices(cfg, ledger, nil, nil, metrics.New(), logger)
	if err != nil {
		closeLedger()
		_ = logger.Sync()
		return nil, err
	}

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		services: services,
		close: func() {
			closeLedger()
			_ = logger.Sync()
		},
	}, nil
}
