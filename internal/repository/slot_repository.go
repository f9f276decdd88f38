package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/model"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/repository/base"
)

type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(db base.DB) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(db)}
}

// AppendSlot добавляет слот без проверки на дубликаты
func (r *SlotRepository) AppendSlot(ctx context.Context, slot *model.Slot) error {
	query := `
		INSERT INTO slots (tutor_id, date_iso, time, note)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.ExecAffected(ctx, query, slot.TutorID, slot.DateISO, slot.Time, slot.Note)
	if err != nil {
		return fmt.Errorf("append slot: %w", err)
	}

	return nil
}

// ListSlotsForTutor получает все слоты репетитора
func (r *SlotRepository) ListSlotsForTutor(ctx context.Context, tutorID int64) ([]*model.Slot, error) {
	query := `
		SELECT tutor_id, date_iso, time, note
		FROM slots
		WHERE tutor_id = $1
		ORDER BY id ASC
	`

	rows, err := r.Query(ctx, query, tutorID)
	if err != nil {
		if base.IsUndefinedTable(err) {
			return []*model.Slot{}, nil
		}
		return nil, fmt.Errorf("get slots by tutor: %w", err)
	}
	defer rows.Close()

	slots := make([]*model.Slot, 0)
	for rows.Next() {
		var slot model.Slot
		if err := rows.Scan(&slot.TutorID, &slot.DateISO, &slot.Time, &slot.Note); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return slots, nil
}
