package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"IndexSentinel/internal/logger"
)

// maxMessageLen is Telegram's limit for one text message.
const maxMessageLen = 4096

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	bot       *tgbotapi.BotAPI
	sender    messageSender
	chatID    int64
	retryBase time.Duration
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) (*TelegramNotifier, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(chatID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	// long polling holds requests for up to 60s
	client := &http.Client{Timeout: 90 * time.Second, Transport: transport}

	bot, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	logger.Info("telegram bot authorized as @%s", bot.Self.UserName)

	return &TelegramNotifier{bot: bot, sender: bot, chatID: id, retryBase: time.Second}, nil
}

// Send sends a message to the configured chat, split into several
// messages when it exceeds Telegram's size limit.
func (t *TelegramNotifier) Send(text string) error {
	return t.sendTo(t.chatID, text)
}

func (t *TelegramNotifier) sendTo(chatID int64, text string) error {
	for _, part := range splitMessage(text, maxMessageLen) {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		if _, err := t.sender.Send(msg); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := t.Send(text); err != nil {
			lastErr = err
			if i == maxRetries {
				break
			}
			backoff := t.retryBase * time.Duration(1<<uint(i))
			logger.Warn("telegram send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d attempts failed: %w", maxRetries+1, lastErr)
}

// splitMessage cuts text at line boundaries into chunks of at most limit bytes.
// A single line longer than limit is cut hard.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var parts []string
	var cur strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if cur.Len() > 0 {
				parts = append(parts, cur.String())
				cur.Reset()
			}
			parts = append(parts, line[:limit])
			line = line[limit:]
		}
		if cur.Len()+len(line) > limit {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}
