package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/api"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/config"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/controller"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/metrics"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/service"
)

// Services - собранные сервисы поверх одного хранилища
type Services struct {
	Ledger   service.LedgerStore
	Notifier *service.NotificationService
	Reminder *service.ReminderService
	Payments *service.PaymentService
	Lessons  *service.LessonService
}

// NewServices связывает сервисы. sender может быть nil, если рассылка не нужна
func NewServices(
	cfg *config.Config,
	ledger service.LedgerStore,
	sender service.Sender,
	reminders service.ReminderCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*Services, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	notifier := service.NewNotificationService(
		ledger,
		sender,
		reminders,
		cfg.AdminID,
		cfg.Reminder.FallbackPayoutPercent,
		m,
		logger,
	)

	return &Services{
		Ledger:   ledger,
		Notifier: notifier,
		Reminder: service.NewReminderService(ledger, notifier, cfg.Reminder.Lead, loc, m, logger),
		Payments: service.NewPaymentService(ledger, cfg.AdminID, m, logger),
		Lessons:  service.NewLessonService(ledger, cfg.AdminID, loc, logger),
	}, nil
}

// App - бот, HTTP API и планировщик напоминаний в одном процессе
type App struct {
	cfg       *config.Config
	logger    *zap.Logger
	bot       *controller.BotController
	server    *api.Server
	scheduler *Scheduler
	closers   []func()
}

// New открывает хранилище и кэш, создаёт бота и собирает все компоненты
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	ledger, closeLedger, err := OpenLedger(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeLedger)

	if err := ledger.EnsureSchema(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	reminders, closeCache, err := OpenReminderCache(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeCache)

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create bot: %w", err)
	}

	m := metrics.New()
	services, err := NewServices(cfg, ledger, controller.NewTelegramSender(b), reminders, m, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.bot = controller.NewBotController(b, services.Payments, cfg.WebAppURL(), logger)
	a.scheduler = NewScheduler(services.Reminder, cfg.Reminder.PollInterval, m, logger)

	router := api.NewRouter(api.RouterConfig{
		Handler:    api.NewHandler(services.Lessons, logger),
		Metrics:    m,
		Logger:     logger,
		WebAppDir:  cfg.WebApp.Dir,
		Production: cfg.IsProduction(),
	})
	a.server = api.NewServer(cfg.Port, router, logger)

	return a, nil
}

// Run блокируется до отмены ctx или падения HTTP сервера
func (a *App) Run(ctx context.Context) error {
	if err := a.bot.RegisterHandlers(ctx); err != nil {
		// Без меню команды всё равно работают
		a.logger.Warn("Bot commands menu is not set", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.bot.Start(gctx)
		return nil
	})

	g.Go(func() error {
		return a.server.Run(gctx)
	})

	a.scheduler.Start(gctx)
	defer a.scheduler.Stop()

	a.logger.Info("🚀 Tutor ledger bot started",
		zap.String("backend", a.cfg.Ledger.Backend),
		zap.Duration("reminder_lead", a.cfg.Reminder.Lead),
		zap.Int("port", a.cfg.Port),
	)

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close освобождает ресурсы в обратном порядке
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
