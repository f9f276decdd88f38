package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/metrics"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/service"
)

// ReminderJob - один проход поиска и рассылки напоминаний
type ReminderJob interface {
	RunOnce(ctx context.Context) (service.DispatchSummary, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	job      ReminderJob
	interval time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger

	running  atomic.Bool
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler создаёт новый планировщик
func NewScheduler(job ReminderJob, interval time.Duration, m *metrics.Metrics, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		job:      job,
		interval: interval,
		metrics:  m,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runReminderTask(ctx)
	}()
}

// Stop останавливает фоновые задачи и ждёт завершения текущего прохода
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// runReminderTask периодически ищет уроки, о которых пора напомнить
func (s *Scheduler) runReminderTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.Tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.Tick(ctx)
			}()
		case <-s.stopChan:
			s.logger.Info("Reminder task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Reminder task cancelled")
			return
		}
	}
}

// Tick выполняет один проход. Если предыдущий проход ещё идёт, тик пропускается
func (s *Scheduler) Tick(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("Previous reminder run still in progress, skipping tick")
		s.metrics.ReminderRun(metrics.RunSkipped)
		return false
	}
	defer s.running.Store(false)

	logger := s.logger.With(zap.String("run_id", uuid.NewString()))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Reminder run panicked", zap.String("panic", fmt.Sprint(r)), zap.Stack("stack"))
			s.metrics.ReminderRun(metrics.RunFailed)
		}
	}()

	started := time.Now()
	summary, err := s.job.RunOnce(ctx)
	if err != nil {
		logger.Error("Reminder run failed", zap.Error(err))
		s.metrics.ReminderRun(metrics.RunFailed)
		return true
	}

	s.metrics.ReminderRun(metrics.RunOK)
	logger.Info("Reminder run completed",
		zap.Int("due", summary.Due),
		zap.Int("sent", summary.Sent),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Duration("took", time.Since(started)),
	)
	return true
}
