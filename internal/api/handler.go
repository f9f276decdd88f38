package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/model"
)

// Booker - операции записи, доступные панели
type Booker interface {
	AddLesson(ctx context.Context, adminID int64, lesson model.NewLesson) (int64, error)
	AddSlot(ctx context.Context, slot model.Slot) error
	SlotsForTutor(ctx context.Context, tutorID int64) ([]*model.Slot, error)
}

// Handler обслуживает JSON API панели
type Handler struct {
	booker   Booker
	validate *validator.Validate
	logger   *zap.Logger
}

func NewHandler(booker Booker, logger *zap.Logger) *Handler {
	return &Handler{
		booker:   booker,
		validate: validator.New(),
		logger:   logger,
	}
}

type addSlotRequest struct {
	TgUserID int64  `json:"tg_user_id" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time" validate:"required"`
	Note     string `json:"note"`
}

type addLessonRequest struct {
	AdminID int64   `json:"admin_id"`
	TutorID int64   `json:"tutor_id"`
	Student string  `json:"student"`
	Date    string  `json:"date"`
	Time    string  `json:"time"`
	Amount  float64 `json:"amount"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type addLessonResponse struct {
	Status   string `json:"status"`
	LessonID int64  `json:"lesson_id"`
}

type slotsResponse struct {
	Slots []*model.Slot `json:"slots"`
}

// AddSlot - POST /api/add_slot
func (h *Handler) AddSlot(c *gin.Context) {
	var req addSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		badRequest(c, "tg_user_id, date and time required")
		return
	}

	err := h.booker.AddSlot(c.Request.Context(), model.Slot{
		TutorID: req.TgUserID,
		DateISO: req.Date,
		Time:    req.Time,
		Note:    req.Note,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

// AddLesson - POST /api/add_lesson. Права администратора проверяются раньше остальных полей
func (h *Handler) AddLesson(c *gin.Context) {
	var req addLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	lessonID, err := h.booker.AddLesson(c.Request.Context(), req.AdminID, model.NewLesson{
		DateISO: req.Date,
		Time:    req.Time,
		TutorID: req.TutorID,
		Student: req.Student,
		Amount:  req.Amount,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, addLessonResponse{Status: "ok", LessonID: lessonID})
}

// MySlots - GET /api/my_slots/:tg_user_id
func (h *Handler) MySlots(c *gin.Context) {
	tutorID, err := strconv.ParseInt(c.Param("tg_user_id"), 10, 64)
	if err != nil {
		badRequest(c, "tg_user_id must be an integer")
		return
	}

	slots, err := h.booker.SlotsForTutor(c.Request.Context(), tutorID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if slots == nil {
		slots = []*model.Slot{}
	}

	c.JSON(http.StatusOK, slotsResponse{Slots: slots})
}

// Health - GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}
