package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/model"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/repository/base"
)

type LessonRepository struct {
	*base.Repository
}

func NewLessonRepository(db base.DB) *LessonRepository {
	return &LessonRepository{Repository: base.NewRepository(db)}
}

// ListLessons получает все уроки в порядке создания
func (r *LessonRepository) ListLessons(ctx context.Context) ([]*model.Lesson, error) {
	query := `
		SELECT lesson_id, date_iso, time, tutor_id, student, amount, paid
		FROM lessons
		ORDER BY lesson_id ASC
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		if base.IsUndefinedTable(err) {
			return []*model.Lesson{}, nil
		}
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	lessons := make([]*model.Lesson, 0)
	for rows.Next() {
		var lesson model.Lesson
		err := rows.Scan(
			&lesson.ID,
			&lesson.DateISO,
			&lesson.Time,
			&lesson.TutorID,
			&lesson.Student,
			&lesson.Amount,
			&lesson.Paid,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, &lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}

	return lessons, nil
}

// AppendLesson создаёт неоплаченный урок; ID выдаёт последовательность lessons_id_seq (с нуля)
func (r *LessonRepository) AppendLesson(ctx context.Context, lesson model.NewLesson) (int64, error) {
	query := `
		INSERT INTO lessons (date_iso, time, tutor_id, student, amount, paid)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING lesson_id
	`

	var id int64
	err := r.QueryRow(
		ctx, query,
		lesson.DateISO,
		lesson.Time,
		lesson.TutorID,
		lesson.Student,
		lesson.Amount,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("append lesson: %w", err)
	}

	return id, nil
}

// MarkLessonPaid помечает урок оплаченным. Повторный вызов безопасен
func (r *LessonRepository) MarkLessonPaid(ctx context.Context, lessonID int64) (bool, error) {
	query := `
		UPDATE lessons
		SET paid = TRUE
		WHERE lesson_id = $1
	`

	affected, err := r.ExecAffected(ctx, query, lessonID)
	if err != nil {
		if base.IsUndefinedTable(err) {
			return false, nil
		}
		return false, fmt.Errorf("mark lesson paid: %w", err)
	}

	return affected > 0, nil
}
