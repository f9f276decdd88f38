package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/metrics"
	"go.uber.org/zap"
)

// PaymentService отмечает оплату уроков
type PaymentService struct {
	lessons LessonStore
	adminID int64
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewPaymentService(lessons LessonStore, adminID int64, m *metrics.Metrics, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		lessons: lessons,
		adminID: adminID,
		metrics: m,
		logger:  logger,
	}
}

// IsAdmin проверяет, что пользователь - администратор
func (s *PaymentService) IsAdmin(telegramID int64) bool {
	return s.adminID != 0 && telegramID == s.adminID
}

// MarkPaid отмечает урок оплаченным. Только администратор; false - урок не найден
func (s *PaymentService) MarkPaid(ctx context.Context, actorID, lessonID int64) (bool, error) {
	if !s.IsAdmin(actorID) {
		return false, ErrForbidden
	}

	ok, err := s.lessons.MarkLessonPaid(ctx, lessonID)
	if err != nil {
		return false, fmt.Errorf("mark lesson paid: %w", err)
	}

	if !ok {
		s.logger.Info("Lesson to mark paid not found", zap.Int64("lesson_id", lessonID))
		return false, nil
	}

	s.metrics.LessonPaid()
	s.logger.Info("Lesson marked paid",
		zap.Int64("lesson_id", lessonID),
		zap.Int64("actor_id", actorID),
	)
	return true, nil
}
