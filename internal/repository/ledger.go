package repository

import (
	"context"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/repository/base"
)

// SchemaRunner применяет схему БД (реализуется мигратором goose)
type SchemaRunner interface {
	Run(ctx context.Context) error
}

// Ledger объединяет репозитории таблиц Tutors, Lessons и Slots в PostgreSQL
type Ledger struct {
	*LessonRepository
	*SlotRepository
	*TutorRepository

	schema SchemaRunner
}

// NewLedger создаёт хранилище поверх пула соединений
func NewLedger(db base.DB, schema SchemaRunner) *Ledger {
	return &Ledger{
		LessonRepository: NewLessonRepository(db),
		SlotRepository:   NewSlotRepository(db),
		TutorRepository:  NewTutorRepository(db),
		schema:           schema,
	}
}

// EnsureSchema применяет миграции
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	if l.schema == nil {
		return nil
	}
	return l.schema.Run(ctx)
}
