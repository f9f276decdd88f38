package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/service"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	text, button := TextTutorGreeting, ButtonTutorPanel
	if h.payments.IsAdmin(update.Message.From.ID) {
		text, button = TextAdminGreeting, ButtonAdminPanel
	}

	h.sendMessage(ctx, b, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        text,
		ReplyMarkup: webAppKeyboard(button, h.webAppURL),
	})
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   TextHelp,
	})
}

// HandlePay обрабатывает команду /pay <lesson_id>
func (h *Handlers) HandlePay(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	msg := update.Message
	lessonID, err := parsePayArgs(msg.Text)
	if err != nil {
		h.reply(ctx, b, msg, TextPayUsage)
		return
	}

	ok, err := h.payments.MarkPaid(ctx, msg.From.ID, lessonID)
	switch {
	case errors.Is(err, service.ErrForbidden):
		h.reply(ctx, b, msg, TextAdminOnly)
	case err != nil:
		h.logger.Error("Failed to mark lesson paid", zap.Int64("lesson_id", lessonID), zap.Error(err))
		h.reply(ctx, b, msg, TextInternalError)
	case !ok:
		h.reply(ctx, b, msg, TextLessonNotFound)
	default:
		h.reply(ctx, b, msg, fmt.Sprintf(TextLessonPaid, lessonID))
	}
}
