package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/app"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/config"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot, the web-app API and the reminder scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.ValidateServe(); err != nil {
				return err
			}

			logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
			defer logger.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			logger.Info("Starting tutor ledger bot",
				zap.String("environment", cfg.Environment),
				zap.String("backend", cfg.Ledger.Backend),
				zap.Int("token_length", len(cfg.TelegramToken)),
			)

			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				logger.Error("Failed to start", zap.Error(err))
				return err
			}
			defer a.Close()

			return a.Run(ctx)
		},
	}
}
