package handlers

import (
	"context"

	"go.uber.org/zap"
)

// PaymentMarker - то, что нужно обработчикам от логики оплаты
type PaymentMarker interface {
	IsAdmin(telegramID int64) bool
	MarkPaid(ctx context.Context, actorID, lessonID int64) (bool, error)
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	payments  PaymentMarker
	webAppURL string
	logger    *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(payments PaymentMarker, webAppURL string, logger *zap.Logger) *Handlers {
	return &Handlers{
		payments:  payments,
		webAppURL: webAppURL,
		logger:    logger,
	}
}
