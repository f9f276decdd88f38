// Package metrics регистрирует метрики Prometheus для HTTP API и рассылки напоминаний
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Получатели напоминаний
const (
	RecipientAdmin = "admin"
	RecipientTutor = "tutor"
)

// Результаты прохода напоминаний
const (
	RunOK      = "ok"
	RunFailed  = "failed"
	RunSkipped = "skipped"
)

// Metrics держит собственный registry, чтобы тесты не конфликтовали с глобальным
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	reminderRuns        *prometheus.CounterVec
	remindersSent       *prometheus.CounterVec
	remindersFailed     *prometheus.CounterVec
	remindersDuplicates prometheus.Counter
	lessonsDue          prometheus.Gauge
	unparseableLessons  prometheus.Counter
	lessonsPaid         prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		reminderRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reminder_runs_total",
			Help: "Reminder job runs by result",
		}, []string{"result"}),
		remindersSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reminders_sent_total",
			Help: "Reminder messages delivered by recipient",
		}, []string{"recipient"}),
		remindersFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reminders_failed_total",
			Help: "Reminder messages that failed to deliver by recipient",
		}, []string{"recipient"}),
		remindersDuplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reminders_deduplicated_total",
			Help: "Due lessons skipped because a reminder was already sent within the lead window",
		}),
		lessonsDue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "reminder_lessons_due",
			Help: "Unpaid lessons inside the lead window on the last run",
		}),
		unparseableLessons: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reminder_unparseable_lessons_total",
			Help: "Lesson rows skipped because their date/time could not be parsed",
		}),
		lessonsPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lessons_marked_paid_total",
			Help: "Successful mark-paid operations",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration,
		m.requestTotal,
		m.reminderRuns,
		m.remindersSent,
		m.remindersFailed,
		m.remindersDuplicates,
		m.lessonsDue,
		m.unparseableLessons,
		m.lessonsPaid,
	)

	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler отдаёт метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// Registry нужен тестам для чтения значений
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	m.requestDuration.With(labels).Observe(duration.Seconds())
	m.requestTotal.With(labels).Inc()
}

func (m *Metrics) ReminderRun(result string) {
	m.reminderRuns.WithLabelValues(result).Inc()
}

func (m *Metrics) ReminderSent(recipient string) {
	m.remindersSent.WithLabelValues(recipient).Inc()
}

func (m *Metrics) ReminderFailed(recipient string) {
	m.remindersFailed.WithLabelValues(recipient).Inc()
}

func (m *Metrics) ReminderDeduplicated() {
	m.remindersDuplicates.Inc()
}

func (m *Metrics) LessonsDue(n int) {
	m.lessonsDue.Set(float64(n))
}

func (m *Metrics) UnparseableLesson() {
	m.unparseableLessons.Inc()
}

func (m *Metrics) LessonPaid() {
	m.lessonsPaid.Inc()
}
