package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// requireAdmin проверяет, что команду прислал администратор, и отвечает отказом если нет
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}

	if !h.payments.IsAdmin(update.Message.From.ID) {
		h.reply(ctx, b, update.Message, TextAdminOnly)
		return false
	}

	return true
}
