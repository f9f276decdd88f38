package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/metrics"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/model"
	"go.uber.org/zap"
)

// ReminderService находит неоплаченные уроки, которые скоро начнутся
type ReminderService struct {
	lessons    LessonStore
	dispatcher *NotificationService
	lead       time.Duration
	location   *time.Location
	now        func() time.Time
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewReminderService(
	lessons LessonStore,
	dispatcher *NotificationService,
	lead time.Duration,
	location *time.Location,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ReminderService {
	if location == nil {
		location = time.UTC
	}
	return &ReminderService{
		lessons:    lessons,
		dispatcher: dispatcher,
		lead:       lead,
		location:   location,
		now:        time.Now,
		metrics:    m,
		logger:     logger,
	}
}

// WithClock подменяет источник текущего времени
func (s *ReminderService) WithClock(now func() time.Time) *ReminderService {
	s.now = now
	return s
}

// Lead возвращает настроенное время упреждения
func (s *ReminderService) Lead() time.Duration {
	return s.lead
}

// DueForReminder возвращает неоплаченные уроки, начало которых в интервале [now, now+lead].
// Порядок хранилища сохраняется. Уроки с неразбираемой датой пропускаются с предупреждением
func (s *ReminderService) DueForReminder(ctx context.Context, lead time.Duration) ([]*model.Lesson, error) {
	lessons, err := s.lessons.ListLessons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}

	now := s.now()
	due := make([]*model.Lesson, 0)

	for _, lesson := range lessons {
		if lesson.Paid {
			continue
		}

		startsAt, err := lesson.StartsAt(s.location)
		if err != nil {
			s.logger.Warn("Lesson has unparseable date/time, skipping",
				zap.Int64("lesson_id", lesson.ID),
				zap.String("date_iso", lesson.DateISO),
				zap.String("time", lesson.Time),
			)
			s.metrics.UnparseableLesson()
			continue
		}

		diff := startsAt.Sub(now)
		if diff >= 0 && diff <= lead {
			due = append(due, lesson)
		}
	}

	return due, nil
}

// RunOnce - один проход планировщика: поиск уроков и рассылка напоминаний
func (s *ReminderService) RunOnce(ctx context.Context) (DispatchSummary, error) {
	due, err := s.DueForReminder(ctx, s.lead)
	if err != nil {
		return DispatchSummary{}, err
	}

	s.metrics.LessonsDue(len(due))
	if len(due) == 0 {
		return DispatchSummary{}, nil
	}

	return s.dispatcher.Dispatch(ctx, due, s.lead), nil
}
