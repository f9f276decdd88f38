package api

import (
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/metrics"
)

// RouterConfig - зависимости HTTP роутера
type RouterConfig struct {
	Handler    *Handler
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
	WebAppDir  string
	Production bool
}

// NewRouter собирает gin engine со всеми маршрутами
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(cfg.Logger), Metrics(cfg.Metrics))

	r.GET("/health", cfg.Handler.Health)
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	api.POST("/add_slot", cfg.Handler.AddSlot)
	api.POST("/add_lesson", cfg.Handler.AddLesson)
	api.GET("/my_slots/:tg_user_id", cfg.Handler.MySlots)

	mountWebApp(r, cfg.WebAppDir, cfg.Logger)

	return r
}

// mountWebApp раздаёт статику панели, если каталог существует
func mountWebApp(r *gin.Engine, dir string, logger *zap.Logger) {
	if dir == "" {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logger.Warn("WebApp directory not found, panel is not served", zap.String("dir", dir))
		return
	}

	static := filepath.Join(dir, "static")
	if info, err := os.Stat(static); err == nil && info.IsDir() {
		r.Static("/static", static)
	}
	r.StaticFile("/", filepath.Join(dir, "index.html"))
}
