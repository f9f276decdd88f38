package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/model"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/repository/base"
)

type TutorRepository struct {
	*base.Repository
}

func NewTutorRepository(db base.DB) *TutorRepository {
	return &TutorRepository{Repository: base.NewRepository(db)}
}

// AppendTutor добавляет строку репетитора
func (r *TutorRepository) AppendTutor(ctx context.Context, tutor *model.Tutor) error {
	query := `
		INSERT INTO tutors (tutor_id, name, username, percent)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.ExecAffected(ctx, query, tutor.TutorID, tutor.Name, tutor.Username, tutor.Percent)
	if err != nil {
		return fmt.Errorf("append tutor: %w", err)
	}

	return nil
}

// GetTutorPercent возвращает процент первой подходящей строки; nil если репетитора нет или процент не задан
func (r *TutorRepository) GetTutorPercent(ctx context.Context, tutorID int64) (*float64, error) {
	query := `
		SELECT percent
		FROM tutors
		WHERE tutor_id = $1
		ORDER BY id ASC
		LIMIT 1
	`

	var percent *float64
	err := r.QueryRow(ctx, query, tutorID).Scan(&percent)
	if err != nil {
		if base.IsNotFound(err) || base.IsUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tutor percent: %w", err)
	}

	return percent, nil
}
