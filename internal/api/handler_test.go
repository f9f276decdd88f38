package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/metrics"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/model"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/repository/memory"
	"github.com/Freeeeeet/tutor_ledger_bot/internal/service"
)

const adminID int64 = 1001

type testServer struct {
	router *gin.Engine
	ledger *memory.Ledger
}

func newTestServer(t *testing.T, webAppDir string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ledger := memory.NewLedger()
	lessons := service.NewLessonService(ledger, adminID, time.UTC, zap.NewNop())
	router := NewRouter(RouterConfig{
		Handler:   NewHandler(lessons, zap.NewNop()),
		Metrics:   metrics.New(),
		Logger:    zap.NewNop(),
		WebAppDir: webAppDir,
	})
	return &testServer{router: router, ledger: ledger}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func lessonBody(admin int64) map[string]any {
	return map[string]any{
		"admin_id": admin,
		"tutor_id": 42,
		"student":  "Иван",
		"date":     "2026-10-19",
		"time":     "12:30",
		"amount":   1000,
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestAddLesson(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(http.MethodPost, "/api/add_lesson", lessonBody(adminID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","lesson_id":0}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/add_lesson", lessonBody(adminID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[addLessonResponse](t, w).LessonID)
}

func TestAddLessonForbidden(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(http.MethodPost, "/api/add_lesson", lessonBody(7))
	require.Equal(t, http.StatusForbidden, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, codeForbidden, resp.Code)

	lessons, err := s.ledger.ListLessons(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lessons)
}

func TestAddLessonForbiddenBeforeValidation(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(http.MethodPost, "/api/add_lesson", map[string]any{"admin_id": 7})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddLessonValidation(t *testing.T) {
	s := newTestServer(t, "")

	body := lessonBody(adminID)
	body["date"] = "завтра"
	w := s.do(http.MethodPost, "/api/add_lesson", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, codeBadRequest, decode[ErrorResponse](t, w).Code)

	w = s.do(http.MethodPost, "/api/add_lesson", `{"admin_id":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddSlotAndMySlots(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(http.MethodPost, "/api/add_slot", map[string]any{
		"tg_user_id": 42, "date": "2026-10-20", "time": "10:00", "note": "онлайн",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/my_slots/42", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"slots":[{"tutor_id":42,"date_iso":"2026-10-20","time":"10:00","note":"онлайн"}]}`,
		w.Body.String(),
	)

	w = s.do(http.MethodGet, "/api/my_slots/43", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"slots":[]}`, w.Body.String())
}

func TestAddSlotMissingFields(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(http.MethodPost, "/api/add_slot", map[string]any{"tg_user_id": 42, "date": "2026-10-20"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "tg_user_id, date and time required", decode[ErrorResponse](t, w).Detail)

	slots, _ := s.ledger.ListSlotsForTutor(context.Background(), 42)
	assert.Empty(t, slots)
}

func TestMySlotsBadID(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(http.MethodGet, "/api/my_slots/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type brokenBooker struct{}

func (brokenBooker) AddLesson(context.Context, int64, model.NewLesson) (int64, error) {
	return 0, errors.New("sheets unavailable")
}

func (brokenBooker) AddSlot(context.Context, model.Slot) error {
	return errors.New("sheets unavailable")
}

func (brokenBooker) SlotsForTutor(context.Context, int64) ([]*model.Slot, error) {
	return nil, errors.New("sheets unavailable")
}

func TestStoreFailureIsInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(brokenBooker{}, zap.NewNop())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/my_slots/42", nil)
	c.Params = gin.Params{{Key: "tg_user_id", Value: "42"}}

	handler.MySlots(c)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, codeInternal, resp.Code)
	assert.NotContains(t, resp.Detail, "sheets")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, "")
	s.do(http.MethodGet, "/health", nil)

	w := s.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/health",status="200"} 1`)
}

func TestWebAppServed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Панель</h1>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "static"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "static", "app.js"), []byte("console.log(1)"), 0o644))

	s := newTestServer(t, dir)

	w := s.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Панель")

	w = s.do(http.MethodGet, "/static/app.js", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "console.log")
}
