package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/model"
)

func TestPayoutUsesTutorPercentOrFallback(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	seventy, half, zero := 70.0, 50.0, 0.0
	require.NoError(t, env.ledger.AppendTutor(ctx, &model.Tutor{TutorID: 1, Percent: &seventy}))
	require.NoError(t, env.ledger.AppendTutor(ctx, &model.Tutor{TutorID: 2, Percent: &half}))
	require.NoError(t, env.ledger.AppendTutor(ctx, &model.Tutor{TutorID: 3, Percent: &zero}))

	cases := []struct {
		tutorID int64
		want    float64
	}{
		{tutorID: 1, want: 700},
		{tutorID: 2, want: 500},
		{tutorID: 3, want: 0},
		{tutorID: 4, want: 700},
	}

	for _, tc := range cases {
		payout, err := env.notifier.PayoutFor(ctx, &model.Lesson{TutorID: tc.tutorID, Amount: 1000})
		require.NoError(t, err)
		assert.Equal(t, tc.want, payout, "tutor %d", tc.tutorID)
	}
}

func TestDispatchSendsAdminAndTutorMessages(t *testing.T) {
	env := newTestEnv()
	lesson := &model.Lesson{ID: 3, DateISO: "2026-10-19", Time: "12:30", TutorID: 42, Student: "Иван", Amount: 1000}

	summary := env.notifier.Dispatch(context.Background(), []*model.Lesson{lesson}, time.Hour)
	assert.Equal(t, DispatchSummary{Due: 1, Sent: 1}, summary)

	admin := env.sender.messagesTo(testAdminID)
	require.Len(t, admin, 1)
	assert.Contains(t, admin[0], "Урок ID 3 — 2026-10-19 12:30")
	assert.Contains(t, admin[0], "Репетитор: 42")
	assert.Contains(t, admin[0], "Ученик: Иван")
	assert.Contains(t, admin[0], "Сумма: 1000.00 ₽ → К выплате: 700.00 ₽")
	assert.Contains(t, admin[0], "Если перевели: /pay 3")

	tutor := env.sender.messagesTo(42)
	require.Len(t, tutor, 1)
	assert.Equal(t, "Напоминание: у вас урок с Иван в 12:30.", tutor[0])
}

func TestDispatchTutorFailureDoesNotAffectAdminOrOtherLessons(t *testing.T) {
	env := newTestEnv()
	env.sender.failFor[42] = true

	lessons := []*model.Lesson{
		{ID: 1, DateISO: "2026-10-19", Time: "12:30", TutorID: 42, Student: "Иван", Amount: 1000},
		{ID: 2, DateISO: "2026-10-19", Time: "12:40", TutorID: 43, Student: "Мария", Amount: 2000},
	}

	summary := env.notifier.Dispatch(context.Background(), lessons, time.Hour)
	assert.Equal(t, DispatchSummary{Due: 2, Sent: 2}, summary)
	assert.Len(t, env.sender.messagesTo(testAdminID), 2)
	assert.Empty(t, env.sender.messagesTo(42))
	assert.Len(t, env.sender.messagesTo(43), 1)
}

func TestDispatchPercentErrorIsolatesLesson(t *testing.T) {
	env := newTestEnv()
	env.ledger.failPercent[42] = true

	lessons := []*model.Lesson{
		{ID: 1, TutorID: 42, Student: "Иван", Amount: 1000},
		{ID: 2, TutorID: 43, Student: "Мария", Amount: 2000},
	}

	summary := env.notifier.Dispatch(context.Background(), lessons, time.Hour)
	assert.Equal(t, DispatchSummary{Due: 2, Sent: 1, Failed: 1}, summary)

	admin := env.sender.messagesTo(testAdminID)
	require.Len(t, admin, 1)
	assert.Contains(t, admin[0], "/pay 2")
}

func TestDispatchRemindsOncePerWindow(t *testing.T) {
	env := newTestEnv()
	lessons := []*model.Lesson{{ID: 5, TutorID: 42, Student: "Иван", Amount: 1000}}

	first := env.notifier.Dispatch(context.Background(), lessons, time.Hour)
	second := env.notifier.Dispatch(context.Background(), lessons, time.Hour)

	assert.Equal(t, DispatchSummary{Due: 1, Sent: 1}, first)
	assert.Equal(t, DispatchSummary{Due: 1, Skipped: 1}, second)
	assert.Len(t, env.sender.messagesTo(testAdminID), 1)
}

func TestDispatchRetriesAfterAdminFailure(t *testing.T) {
	env := newTestEnv()
	lessons := []*model.Lesson{{ID: 5, TutorID: 42, Student: "Иван", Amount: 1000}}

	env.sender.failFor[testAdminID] = true
	summary := env.notifier.Dispatch(context.Background(), lessons, time.Hour)
	assert.Equal(t, DispatchSummary{Due: 1, Failed: 1}, summary)
	assert.Empty(t, env.sender.messagesTo(42), "tutor is not reminded when admin send fails")

	env.sender.failFor[testAdminID] = false
	summary = env.notifier.Dispatch(context.Background(), lessons, time.Hour)
	assert.Equal(t, DispatchSummary{Due: 1, Sent: 1}, summary)
	assert.Len(t, env.sender.messagesTo(testAdminID), 1)
}

func TestDispatchStopsOnCancelledContext(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := env.notifier.Dispatch(ctx, []*model.Lesson{{ID: 1, TutorID: 42}}, time.Hour)
	assert.Equal(t, DispatchSummary{Due: 1}, summary)
	assert.Empty(t, env.sender.sent)
}
