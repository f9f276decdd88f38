// Package memory - хранилище таблиц в памяти процесса для разработки и тестов
package memory

import (
	"context"
	"sync"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/model"
)

// Ledger хранит таблицы Tutors, Lessons и Slots в памяти
type Ledger struct {
	mu      sync.RWMutex
	tutors  []model.Tutor
	lessons []model.Lesson
	slots   []model.Slot
	nextID  int64
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// EnsureSchema ничего не делает: таблицы в памяти существуют всегда
func (l *Ledger) EnsureSchema(context.Context) error {
	return nil
}

func (l *Ledger) ListLessons(context.Context) ([]*model.Lesson, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	lessons := make([]*model.Lesson, 0, len(l.lessons))
	for i := range l.lessons {
		lesson := l.lessons[i]
		lessons = append(lessons, &lesson)
	}
	return lessons, nil
}

// AppendLesson выдаёт ID из счётчика под мьютексом: 0, 1, 2, ...
func (l *Ledger) AppendLesson(_ context.Context, lesson model.NewLesson) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++

	l.lessons = append(l.lessons, model.Lesson{
		ID:      id,
		DateISO: lesson.DateISO,
		Time:    lesson.Time,
		TutorID: lesson.TutorID,
		Student: lesson.Student,
		Amount:  lesson.Amount,
	})
	return id, nil
}

func (l *Ledger) MarkLessonPaid(_ context.Context, lessonID int64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.lessons {
		if l.lessons[i].ID == lessonID {
			l.lessons[i].Paid = true
			return true, nil
		}
	}
	return false, nil
}

func (l *Ledger) AppendSlot(_ context.Context, slot *model.Slot) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.slots = append(l.slots, *slot)
	return nil
}

func (l *Ledger) ListSlotsForTutor(_ context.Context, tutorID int64) ([]*model.Slot, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	slots := make([]*model.Slot, 0)
	for i := range l.slots {
		if l.slots[i].TutorID == tutorID {
			slot := l.slots[i]
			slots = append(slots, &slot)
		}
	}
	return slots, nil
}

func (l *Ledger) AppendTutor(_ context.Context, tutor *model.Tutor) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tutors = append(l.tutors, *tutor)
	return nil
}

// GetTutorPercent - первая подходящая строка побеждает
func (l *Ledger) GetTutorPercent(_ context.Context, tutorID int64) (*float64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, tutor := range l.tutors {
		if tutor.TutorID == tutorID {
			if tutor.Percent == nil {
				return nil, nil
			}
			percent := *tutor.Percent
			return &percent, nil
		}
	}
	return nil, nil
}
