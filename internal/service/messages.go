package service

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/formatting"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/model"
)

// AdminReminderText - напоминание администратору об оплате репетитору
func AdminReminderText(lesson *model.Lesson, lead time.Duration, payout float64) string {
	return fmt.Sprintf(
		"⏰ Напоминание (через %s):\n"+
			"Урок ID %d — %s %s\n"+
			"Репетитор: %d\n"+
			"Ученик: %s\n"+
			"Сумма: %s → К выплате: %s\n\n"+
			"Если перевели: /pay %d",
		formatting.FormatLead(lead),
		lesson.ID, lesson.DateISO, lesson.Time,
		lesson.TutorID,
		lesson.Student,
		formatting.FormatPrice(lesson.Amount), formatting.FormatPrice(payout),
		lesson.ID,
	)
}

// TutorReminderText - короткое напоминание репетитору
func TutorReminderText(lesson *model.Lesson) string {
	return fmt.Sprintf("Напоминание: у вас урок с %s в %s.", lesson.Student, lesson.Time)
}
