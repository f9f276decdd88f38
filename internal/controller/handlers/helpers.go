package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

var errPayUsage = errors.New("usage: /pay <lesson_id>")

// isPayCommand - первое слово "/pay" или "/pay@bot"; "/payment" не подходит
func isPayCommand(text string) bool {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return false
	}
	command, _, _ := strings.Cut(parts[0], "@")
	return command == "/pay"
}

// MatchPay отбирает апдейты с командой /pay для RegisterHandlerMatchFunc
func MatchPay(update *models.Update) bool {
	return update.Message != nil && isPayCommand(update.Message.Text)
}

// parsePayArgs достаёт id урока из "/pay <lesson_id>"
func parsePayArgs(text string) (int64, error) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return 0, errPayUsage
	}

	// /pay@my_bot 12 в группах
	if !isPayCommand(text) {
		return 0, errPayUsage
	}

	lessonID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || lessonID < 0 {
		return 0, errPayUsage
	}
	return lessonID, nil
}

// webAppKeyboard - одна inline кнопка, открывающая панель как WebApp
func webAppKeyboard(text, url string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: text, WebApp: &models.WebAppInfo{URL: url}}},
		},
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, params *bot.SendMessageParams) {
	_, err := b.SendMessage(ctx, params)
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Any("chat_id", params.ChatID),
			zap.Error(err),
		)
	}
}

// reply отвечает на сообщение пользователя
func (h *Handlers) reply(ctx context.Context, b *bot.Bot, msg *models.Message, text string) {
	h.sendMessage(ctx, b, &bot.SendMessageParams{
		ChatID:          msg.Chat.ID,
		Text:            text,
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
	})
}
