package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/model"
)

// LessonStore - операции над таблицей Lessons
type LessonStore interface {
	ListLessons(ctx context.Context) ([]*model.Lesson, error)
	AppendLesson(ctx context.Context, lesson model.NewLesson) (int64, error)
	MarkLessonPaid(ctx context.Context, lessonID int64) (bool, error)
}

// SlotStore - операции над таблицей Slots
type SlotStore interface {
	AppendSlot(ctx context.Context, slot *model.Slot) error
	ListSlotsForTutor(ctx context.Context, tutorID int64) ([]*model.Slot, error)
}

// TutorStore - операции над таблицей Tutors
type TutorStore interface {
	AppendTutor(ctx context.Context, tutor *model.Tutor) error
	GetTutorPercent(ctx context.Context, tutorID int64) (*float64, error)
}

// LedgerStore - хранилище целиком (PostgreSQL, Google Sheets или память)
type LedgerStore interface {
	LessonStore
	SlotStore
	TutorStore
	EnsureSchema(ctx context.Context) error
}

// Sender доставляет текстовое сообщение в чат Telegram
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// ReminderCache помнит, по каким урокам напоминание уже ушло
type ReminderCache interface {
	Claim(ctx context.Context, lessonID int64, ttl time.Duration) (bool, error)
	Release(ctx context.Context, lessonID int64) error
}
