package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/cache"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/config"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/repository"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/repository/memory"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/repository/sheets"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/service"
)

// OpenLedger открывает хранилище, выбранное в LEDGER_BACKEND.
// Возвращаемая функция освобождает ресурсы хранилища
func OpenLedger(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.LedgerStore, func(), error) {
	switch cfg.Ledger.Backend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.Ledger.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}

		migrator, err := NewMigrator(pool, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		logger.Info("✅ Connected to PostgreSQL")
		return repository.NewLedger(pool, migrator), func() {
			_ = migrator.Close()
			pool.Close()
		}, nil

	case config.BackendSheets:
		creds, err := cfg.GoogleCredentials()
		if err != nil {
			return nil, nil, err
		}
		grid, err := sheets.NewGoogleGrid(ctx, creds, cfg.Ledger.SpreadsheetID)
		if err != nil {
			return nil, nil, err
		}

		logger.Info("✅ Connected to Google Sheets", zap.String("spreadsheet_id", cfg.Ledger.SpreadsheetID))
		return sheets.NewLedger(grid, logger), func() {}, nil

	case config.BackendMemory:
		logger.Warn("Using in-memory ledger, data is lost on restart")
		return memory.NewLedger(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
}

// OpenReminderCache подключает Redis, если задан REDIS_ADDR, иначе хранит отметки в памяти
func OpenReminderCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.ReminderCache, func(), error) {
	if cfg.Redis.Addr == "" {
		return cache.NewMemoryReminderCache(), func() {}, nil
	}

	client, err := cache.NewRedis(ctx, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info("✅ Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	return cache.NewRedisReminderCache(client), func() { _ = client.Close() }, nil
}
