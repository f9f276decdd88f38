package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/formatting"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/metrics"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/model"
	"go.uber.org/zap"
)

// DefaultPayoutPercent - доля репетитора, если в таблице Tutors процент не задан
const DefaultPayoutPercent = 70.0

// DispatchSummary - итог одного прохода рассылки
type DispatchSummary struct {
	Due     int
	Sent    int
	Skipped int
	Failed  int
}

// NotificationService рассылает напоминания администратору и репетитору
type NotificationService struct {
	tutors          TutorStore
	sender          Sender
	cache           ReminderCache
	adminID         int64
	fallbackPercent float64
	metrics         *metrics.Metrics
	logger          *zap.Logger
}

func NewNotificationService(
	tutors TutorStore,
	sender Sender,
	cache ReminderCache,
	adminID int64,
	fallbackPercent float64,
	m *metrics.Metrics,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		tutors:          tutors,
		sender:          sender,
		cache:           cache,
		adminID:         adminID,
		fallbackPercent: fallbackPercent,
		metrics:         m,
		logger:          logger,
	}
}

// PayoutFor считает выплату репетитору по его проценту или по проценту по умолчанию
func (s *NotificationService) PayoutFor(ctx context.Context, lesson *model.Lesson) (float64, error) {
	percent, err := s.tutors.GetTutorPercent(ctx, lesson.TutorID)
	if err != nil {
		return 0, err
	}

	p := s.fallbackPercent
	if percent != nil {
		p = *percent
	}
	return formatting.Payout(lesson.Amount, p), nil
}

// Dispatch отправляет напоминания по каждому уроку независимо:
// ошибка по одному уроку или получателю не прерывает остальные
func (s *NotificationService) Dispatch(ctx context.Context, lessons []*model.Lesson, lead time.Duration) DispatchSummary {
	summary := DispatchSummary{Due: len(lessons)}

	for _, lesson := range lessons {
		if ctx.Err() != nil {
			s.logger.Warn("Reminder dispatch cancelled", zap.Error(ctx.Err()))
			break
		}

		switch s.remind(ctx, lesson, lead) {
		case reminderSent:
			summary.Sent++
		case reminderSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	return summary
}

type reminderOutcome int

const (
	reminderSent reminderOutcome = iota
	reminderSkipped
	reminderFailed
)

func (s *NotificationService) remind(ctx context.Context, lesson *model.Lesson, lead time.Duration) reminderOutcome {
	claimed, err := s.cache.Claim(ctx, lesson.ID, lead)
	if err != nil {
		// При недоступном кэше напоминание всё равно отправляется
		s.logger.Warn("Failed to check reminder cache, sending anyway",
			zap.Int64("lesson_id", lesson.ID),
			zap.Error(err),
		)
		claimed = true
	}
	if !claimed {
		s.metrics.ReminderDeduplicated()
		return reminderSkipped
	}

	payout, err := s.PayoutFor(ctx, lesson)
	if err != nil {
		s.logger.Error("Failed to get tutor percent",
			zap.Int64("lesson_id", lesson.ID),
			zap.Int64("tutor_id", lesson.TutorID),
			zap.Error(err),
		)
		s.release(ctx, lesson.ID)
		return reminderFailed
	}

	err = s.sender.SendText(ctx, s.adminID, AdminReminderText(lesson, lead, payout))
	if err != nil {
		s.logger.Error("Failed to send reminder to admin",
			zap.Int64("lesson_id", lesson.ID),
			zap.Int64("chat_id", s.adminID),
			zap.Error(err),
		)
		s.metrics.ReminderFailed(metrics.RecipientAdmin)
		s.release(ctx, lesson.ID)
		return reminderFailed
	}
	s.metrics.ReminderSent(metrics.RecipientAdmin)

	// Ошибка доставки репетитору не откатывает сообщение администратору
	err = s.sender.SendText(ctx, lesson.TutorID, TutorReminderText(lesson))
	if err != nil {
		s.logger.Warn("Failed to send reminder to tutor",
			zap.Int64("lesson_id", lesson.ID),
			zap.Int64("tutor_id", lesson.TutorID),
			zap.Error(err),
		)
		s.metrics.ReminderFailed(metrics.RecipientTutor)
	} else {
		s.metrics.ReminderSent(metrics.RecipientTutor)
	}

	s.logger.Info("Reminder sent",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("tutor_id", lesson.TutorID),
		zap.Float64("payout", payout),
	)
	return reminderSent
}

func (s *NotificationService) release(ctx context.Context, lessonID int64) {
	if err := s.cache.Release(ctx, lessonID); err != nil {
		s.logger.Warn("Failed to release reminder claim",
			zap.Int64("lesson_id", lessonID),
			zap.Error(err),
		)
	}
}
