package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/model"
	"go.uber.org/zap"
)

// LessonService - запись уроков администратором и слоты репетиторов
type LessonService struct {
	ledger   LedgerStore
	adminID  int64
	location *time.Location
	logger   *zap.Logger
}

func NewLessonService(ledger LedgerStore, adminID int64, location *time.Location, logger *zap.Logger) *LessonService {
	if location == nil {
		location = time.UTC
	}
	return &LessonService{
		ledger:   ledger,
		adminID:  adminID,
		location: location,
		logger:   logger,
	}
}

// AddLesson создаёт урок. Проверка администратора идёт первой: при отказе ничего не пишется
func (s *LessonService) AddLesson(ctx context.Context, adminID int64, lesson model.NewLesson) (int64, error) {
	if s.adminID == 0 || adminID != s.adminID {
		return 0, ErrForbidden
	}

	lesson.DateISO = strings.TrimSpace(lesson.DateISO)
	lesson.Time = strings.TrimSpace(lesson.Time)
	lesson.Student = strings.TrimSpace(lesson.Student)

	switch {
	case lesson.TutorID == 0:
		return 0, validationError("tutor_id is required")
	case lesson.Student == "":
		return 0, validationError("student is required")
	case lesson.DateISO == "" || lesson.Time == "":
		return 0, validationError("date and time are required")
	case lesson.Amount < 0 || math.IsNaN(lesson.Amount) || math.IsInf(lesson.Amount, 0):
		return 0, validationError("amount must be a non-negative number")
	}

	if _, err := model.ParseLessonStart(lesson.DateISO, lesson.Time, s.location); err != nil {
		return 0, validationError("date must be YYYY-MM-DD and time HH:MM")
	}

	id, err := s.ledger.AppendLesson(ctx, lesson)
	if err != nil {
		return 0, fmt.Errorf("append lesson: %w", err)
	}

	s.logger.Info("Lesson booked",
		zap.Int64("lesson_id", id),
		zap.Int64("tutor_id", lesson.TutorID),
		zap.String("date_iso", lesson.DateISO),
		zap.String("time", lesson.Time),
	)

	return id, nil
}

// AddSlot добавляет слот репетитора
func (s *LessonService) AddSlot(ctx context.Context, slot model.Slot) error {
	slot.DateISO = strings.TrimSpace(slot.DateISO)
	slot.Time = strings.TrimSpace(slot.Time)

	if slot.TutorID == 0 || slot.DateISO == "" || slot.Time == "" {
		return validationError("tg_user_id, date and time required")
	}

	if err := s.ledger.AppendSlot(ctx, &slot); err != nil {
		return fmt.Errorf("append slot: %w", err)
	}

	s.logger.Info("Slot added",
		zap.Int64("tutor_id", slot.TutorID),
		zap.String("date_iso", slot.DateISO),
		zap.String("time", slot.Time),
	)
	return nil
}

// SlotsForTutor получает слоты репетитора
func (s *LessonService) SlotsForTutor(ctx context.Context, tutorID int64) ([]*model.Slot, error) {
	slots, err := s.ledger.ListSlotsForTutor(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// AddTutor регистрирует репетитора вручную
func (s *LessonService) AddTutor(ctx context.Context, tutor model.Tutor) error {
	if tutor.TutorID == 0 {
		return validationError("tutor_id is required")
	}
	if tutor.Percent != nil && (*tutor.Percent < 0 || *tutor.Percent > 100) {
		return validationError("percent must be between 0 and 100")
	}

	if err := s.ledger.AppendTutor(ctx, &tutor); err != nil {
		return fmt.Errorf("append tutor: %w", err)
	}

	s.logger.Info("Tutor added", zap.Int64("tutor_id", tutor.TutorID), zap.String("username", tutor.Username))
	return nil
}
