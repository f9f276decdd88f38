package model

import (
	"errors"
	"strings"
	"time"
)

// Значения флага оплаты в табличном представлении
const (
	PaidFlagYes = "yes"
	PaidFlagNo  = "no"
)

var ErrUnparseableStart = errors.New("unparseable lesson date/time")

// Форматы, которыми пробуем разобрать дату и время урока, в порядке приоритета:
// сначала ISO с разделителем T, затем дата и время через пробел
var lessonStartLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// Lesson - забронированное занятие
type Lesson struct {
	ID      int64   `json:"lesson_id"`
	DateISO string  `json:"date_iso"`
	Time    string  `json:"time"`
	TutorID int64   `json:"tutor_id"`
	Student string  `json:"student"`
	Amount  float64 `json:"amount"`
	Paid    bool    `json:"paid"`
}

// NewLesson - данные для создания урока
type NewLesson struct {
	DateISO string
	Time    string
	TutorID int64
	Student string
	Amount  float64
}

// StartsAt возвращает начало урока в указанной зоне
func (l *Lesson) StartsAt(loc *time.Location) (time.Time, error) {
	return ParseLessonStart(l.DateISO, l.Time, loc)
}

// ParseLessonStart склеивает дату и время урока в один момент времени
func ParseLessonStart(dateISO, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	dateISO = strings.TrimSpace(dateISO)
	clock = strings.TrimSpace(clock)

	candidates := []string{dateISO + "T" + clock, dateISO + " " + clock}
	for _, value := range candidates {
		for _, layout := range lessonStartLayouts {
			if t, err := time.ParseInLocation(layout, value, loc); err == nil {
				return t, nil
			}
		}
	}

	return time.Time{}, ErrUnparseableStart
}

// ParsePaidFlag разбирает строковый флаг оплаты: оплачено только "yes" (без учёта регистра)
func ParsePaidFlag(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), PaidFlagYes)
}

// PaidFlag кодирует признак оплаты для табличного хранилища
func PaidFlag(paid bool) string {
	if paid {
		return PaidFlagYes
	}
	return PaidFlagNo
}
