package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/cache"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/metrics"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/model"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/repository/memory"
)

const testAdminID int64 = 1001

var errStoreDown = errors.New("store unavailable")

type sentMessage struct {
	chatID int64
	text   string
}

// fakeSender запоминает отправленные сообщения и падает для чатов из failFor
type fakeSender struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[int64]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{failFor: make(map[int64]bool)}
}

func (s *fakeSender) SendText(_ context.Context, chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failFor[chatID] {
		return errors.New("Forbidden: bot was blocked by the user")
	}
	s.sent = append(s.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (s *fakeSender) messagesTo(chatID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var texts []string
	for _, m := range s.sent {
		if m.chatID == chatID {
			texts = append(texts, m.text)
		}
	}
	return texts
}

// flakyLedger - хранилище в памяти с управляемыми отказами
type flakyLedger struct {
	*memory.Ledger
	failList    bool
	failPercent map[int64]bool
	appends     int
}

func newFlakyLedger() *flakyLedger {
	return &flakyLedger{Ledger: memory.NewLedger(), failPercent: make(map[int64]bool)}
}

func (l *flakyLedger) ListLessons(ctx context.Context) ([]*model.Lesson, error) {
	if l.failList {
		return nil, errStoreDown
	}
	return l.Ledger.ListLessons(ctx)
}

func (l *flakyLedger) AppendLesson(ctx context.Context, lesson model.NewLesson) (int64, error) {
	l.appends++
	return l.Ledger.AppendLesson(ctx, lesson)
}

func (l *flakyLedger) GetTutorPercent(ctx context.Context, tutorID int64) (*float64, error) {
	if l.failPercent[tutorID] {
		return nil, errStoreDown
	}
	return l.Ledger.GetTutorPercent(ctx, tutorID)
}

type testEnv struct {
	ledger   *flakyLedger
	sender   *fakeSender
	cache    *cache.MemoryReminderCache
	metrics  *metrics.Metrics
	notifier *NotificationService
	reminder *ReminderService
	payments *PaymentService
	lessons  *LessonService
	now      time.Time
}

func newTestEnv() *testEnv {
	env := &testEnv{
		ledger:  newFlakyLedger(),
		sender:  newFakeSender(),
		cache:   cache.NewMemoryReminderCache(),
		metrics: metrics.New(),
		now:     time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}

	logger := zap.NewNop()
	env.notifier = NewNotificationService(env.ledger, env.sender, env.cache, testAdminID, DefaultPayoutPercent, env.metrics, logger)
	env.reminder = NewReminderService(env.ledger, env.notifier, time.Hour, time.UTC, env.metrics, logger).
		WithClock(func() time.Time { return env.now })
	env.payments = NewPaymentService(env.ledger, testAdminID, env.metrics, logger)
	env.lessons = NewLessonService(env.ledger, testAdminID, time.UTC, logger)
	return env
}

// book добавляет урок напрямую в хранилище, минуя проверки
func (env *testEnv) book(date, clock string, tutorID int64, student string, amount float64) int64 {
	id, err := env.ledger.Ledger.AppendLesson(context.Background(), model.NewLesson{
		DateISO: date,
		Time:    clock,
		TutorID: tutorID,
		Student: student,
		Amount:  amount,
	})
	if err != nil {
		panic(err)
	}
	return id
}

func (env *testEnv) bookAt(t time.Time, tutorID int64, student string, amount float64) int64 {
	return env.book(t.Format("2006-01-02"), t.Format("15:04:05"), tutorID, student, amount)
}

func lessonIDs(lessons []*model.Lesson) []int64 {
	ids := make([]int64, 0, len(lessons))
	for _, l := range lessons {
		ids = append(ids, l.ID)
	}
	return ids
}
