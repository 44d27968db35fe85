package notify

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"property-marketplace/internal/domain/ports/adapter"
)

// Ensure compile-time conformance
var (
	_ adapter.OpsNotifier = (*TelegramNotifier)(nil)
	_ adapter.OpsNotifier = (*NoopNotifier)(nil)
)

// TelegramNotifier pushes operational alerts to a Telegram chat. Used for
// payment confirmations/failures and reconciler anomalies.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	_, err := n.bot.Send(msg)
	return err
}

// NoopNotifier is used when no alert channel is configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, string) error { return nil }
