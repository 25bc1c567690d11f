package notifier

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"IndexSentinel/internal/logger"
)

// CommandHandler is called when a user command is received.
type CommandHandler func(ctx context.Context, command string) string

// StartPolling begins long-polling for Telegram commands. Only messages from
// the configured chat are handled. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	if t.bot == nil {
		return
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			logger.Info("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			t.handleUpdate(ctx, update, handler)
		}
	}
}

func (t *TelegramNotifier) handleUpdate(ctx context.Context, update tgbotapi.Update, handler CommandHandler) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}
	if msg.Chat == nil || msg.Chat.ID != t.chatID {
		logger.Warn("ignoring message from unknown chat")
		return
	}
	text := strings.TrimSpace(msg.Text)
	logger.Info("received command: %s", text)
	if reply := handler(ctx, text); reply != "" {
		if err := t.sendTo(msg.Chat.ID, reply); err != nil {
			logger.Error("send reply: %v", err)
		}
	}
}
