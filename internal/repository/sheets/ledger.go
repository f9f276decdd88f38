// Package sheets - хранилище таблиц Tutors, Lessons и Slots в Google Sheets.
// Первая строка листа - заголовок, он же схема.
package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/model"
	"go.uber.org/zap"
)

const (
	TutorsSheet  = "Tutors"
	LessonsSheet = "Lessons"
	SlotsSheet   = "Slots"
)

type table struct {
	title  string
	header []string
	rows   int64
	cols   int64
}

var (
	tutorsTable  = table{title: TutorsSheet, header: []string{"tutor_id", "name", "username", "percent"}, rows: 200, cols: 10}
	lessonsTable = table{title: LessonsSheet, header: []string{"lesson_id", "date_iso", "time", "tutor_id", "student", "amount", "paid"}, rows: 1000, cols: 20}
	slotsTable   = table{title: SlotsSheet, header: []string{"tutor_id", "date_iso", "time", "note"}, rows: 1000, cols: 10}
)

// Ledger - хранилище поверх электронной таблицы.
// Выдача ID уроков сериализована мьютексом в пределах процесса;
// два процесса, пишущие в одну таблицу, по-прежнему могут получить одинаковый ID.
type Ledger struct {
	grid   Grid
	logger *zap.Logger

	mu sync.Mutex
}

func NewLedger(grid Grid, logger *zap.Logger) *Ledger {
	return &Ledger{grid: grid, logger: logger}
}

// EnsureSchema создаёт недостающие листы с заголовками
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, t := range []table{tutorsTable, lessonsTable, slotsTable} {
		if err := l.ensureTable(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) ListLessons(ctx context.Context) ([]*model.Lesson, error) {
	records, err := l.records(ctx, LessonsSheet)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}

	lessons := make([]*model.Lesson, 0, len(records))
	for i, rec := range records {
		id, err := parseInt(rec["lesson_id"])
		if err != nil {
			l.logger.Warn("Skipping lesson row with bad id",
				zap.Int("row", i+2),
				zap.String("lesson_id", rec["lesson_id"]),
			)
			continue
		}

		tutorID, err := parseOptionalInt(rec["tutor_id"])
		if err != nil {
			l.logger.Warn("Skipping lesson row with bad tutor_id",
				zap.Int("row", i+2),
				zap.String("tutor_id", rec["tutor_id"]),
			)
			continue
		}

		amount, err := parseOptionalFloat(rec["amount"])
		if err != nil {
			l.logger.Warn("Skipping lesson row with bad amount",
				zap.Int("row", i+2),
				zap.String("amount", rec["amount"]),
			)
			continue
		}

		lessons = append(lessons, &model.Lesson{
			ID:      id,
			DateISO: rec["date_iso"],
			Time:    rec["time"],
			TutorID: tutorID,
			Student: rec["student"],
			Amount:  amount,
			Paid:    model.ParsePaidFlag(rec["paid"]),
		})
	}

	return lessons, nil
}

// AppendLesson добавляет строку урока; ID = максимальный существующий + 1 (0 для пустой таблицы)
func (l *Ledger) AppendLesson(ctx context.Context, lesson model.NewLesson) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureTable(ctx, lessonsTable); err != nil {
		return 0, fmt.Errorf("append lesson: %w", err)
	}

	records, err := l.records(ctx, LessonsSheet)
	if err != nil {
		return 0, fmt.Errorf("append lesson: %w", err)
	}

	nextID := int64(0)
	for _, rec := range records {
		if id, err := parseInt(rec["lesson_id"]); err == nil && id >= nextID {
			nextID = id + 1
		}
	}

	row := []any{nextID, lesson.DateISO, lesson.Time, lesson.TutorID, lesson.Student, lesson.Amount, model.PaidFlag(false)}
	if err := l.grid.AppendRow(ctx, LessonsSheet, row); err != nil {
		return 0, fmt.Errorf("append lesson: %w", err)
	}

	return nextID, nil
}

// MarkLessonPaid ищет строку по ID (тем же разбором, что и ListLessons) и записывает "yes" в колонку paid
func (l *Ledger) MarkLessonPaid(ctx context.Context, lessonID int64) (bool, error) {
	exists, err := l.tableExists(ctx, LessonsSheet)
	if err != nil {
		return false, fmt.Errorf("mark lesson paid: %w", err)
	}
	if !exists {
		return false, nil
	}

	values, err := l.grid.Values(ctx, LessonsSheet)
	if err != nil {
		return false, fmt.Errorf("mark lesson paid: %w", err)
	}
	if len(values) == 0 {
		return false, nil
	}

	header := values[0]
	idCol := columnIndex(header, "lesson_id")
	paidCol := columnIndex(header, "paid")
	if idCol < 0 || paidCol < 0 {
		return false, fmt.Errorf("mark lesson paid: lessons header is missing lesson_id or paid")
	}

	for i, row := range values[1:] {
		id, err := parseInt(cell(row, idCol))
		if err != nil || id != lessonID {
			continue
		}

		ref := columnName(paidCol) + strconv.Itoa(i+2)
		if err := l.grid.UpdateCell(ctx, LessonsSheet, ref, model.PaidFlag(true)); err != nil {
			return false, fmt.Errorf("mark lesson paid: %w", err)
		}
		return true, nil
	}

	return false, nil
}

func (l *Ledger) AppendSlot(ctx context.Context, slot *model.Slot) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureTable(ctx, slotsTable); err != nil {
		return fmt.Errorf("append slot: %w", err)
	}

	row := []any{slot.TutorID, slot.DateISO, slot.Time, slot.Note}
	if err := l.grid.AppendRow(ctx, SlotsSheet, row); err != nil {
		return fmt.Errorf("append slot: %w", err)
	}
	return nil
}

func (l *Ledger) ListSlotsForTutor(ctx context.Context, tutorID int64) ([]*model.Slot, error) {
	records, err := l.records(ctx, SlotsSheet)
	if err != nil {
		return nil, fmt.Errorf("get slots by tutor: %w", err)
	}

	slots := make([]*model.Slot, 0)
	for _, rec := range records {
		id, err := parseInt(rec["tutor_id"])
		if err != nil || id != tutorID {
			continue
		}
		slots = append(slots, &model.Slot{
			TutorID: id,
			DateISO: rec["date_iso"],
			Time:    rec["time"],
			Note:    rec["note"],
		})
	}
	return slots, nil
}

func (l *Ledger) AppendTutor(ctx context.Context, tutor *model.Tutor) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureTable(ctx, tutorsTable); err != nil {
		return fmt.Errorf("append tutor: %w", err)
	}

	var percent any = ""
	if tutor.Percent != nil {
		percent = *tutor.Percent
	}

	row := []any{tutor.TutorID, tutor.Name, tutor.Username, percent}
	if err := l.grid.AppendRow(ctx, TutorsSheet, row); err != nil {
		return fmt.Errorf("append tutor: %w", err)
	}
	return nil
}

// GetTutorPercent - первая строка с совпавшим tutor_id побеждает; пустой процент = nil
func (l *Ledger) GetTutorPercent(ctx context.Context, tutorID int64) (*float64, error) {
	records, err := l.records(ctx, TutorsSheet)
	if err != nil {
		return nil, fmt.Errorf("get tutor percent: %w", err)
	}

	for _, rec := range records {
		id, err := parseInt(rec["tutor_id"])
		if err != nil || id != tutorID {
			continue
		}

		percent, err := parseFloat(rec["percent"])
		if err != nil {
			return nil, nil
		}
		return &percent, nil
	}
	return nil, nil
}

// records читает лист как список словарей "заголовок -> значение"; отсутствующий лист - пустой список
func (l *Ledger) records(ctx context.Context, title string) ([]map[string]string, error) {
	exists, err := l.tableExists(ctx, title)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	values, err := l.grid.Values(ctx, title)
	if err != nil {
		return nil, err
	}
	if len(values) < 2 {
		return nil, nil
	}

	header := values[0]
	records := make([]map[string]string, 0, len(values)-1)
	for _, row := range values[1:] {
		rec := make(map[string]string, len(header))
		for i, key := range header {
			rec[strings.TrimSpace(key)] = cell(row, i)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (l *Ledger) tableExists(ctx context.Context, title string) (bool, error) {
	titles, err := l.grid.SheetTitles(ctx)
	if err != nil {
		return false, err
	}
	for _, t := range titles {
		if t == title {
			return true, nil
		}
	}
	return false, nil
}

// ensureTable создаёт лист с заголовком. Вызывается под l.mu
func (l *Ledger) ensureTable(ctx context.Context, t table) error {
	exists, err := l.tableExists(ctx, t.title)
	if err != nil || exists {
		return err
	}

	if err := l.grid.AddSheet(ctx, t.title, t.rows, t.cols); err != nil {
		return err
	}

	header := make([]any, len(t.header))
	for i, h := range t.header {
		header[i] = h
	}
	if err := l.grid.AppendRow(ctx, t.title, header); err != nil {
		return err
	}

	l.logger.Info("Created sheet", zap.String("sheet", t.title))
	return nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// columnName переводит индекс колонки (с нуля) в буквенное имя: 0 -> A, 26 -> AA
func columnName(i int) string {
	name := ""
	for i >= 0 {
		name = string(rune('A'+i%26)) + name
		i = i/26 - 1
	}
	return name
}

func parseInt(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if id, err := strconv.ParseInt(value, 10, 64); err == nil {
		return id, nil
	}
	// Таблица может вернуть целое как "7.0"
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("not an integer: %q", value)
	}
	return int64(f), nil
}

// parseOptionalInt - пустая ячейка даёт 0
func parseOptionalInt(value string) (int64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	return parseInt(value)
}

func parseOptionalFloat(value string) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	return parseFloat(value)
}

func parseFloat(value string) (float64, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	value = strings.ReplaceAll(value, " ", "")
	return strconv.ParseFloat(value, 64)
}
