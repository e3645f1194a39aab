package telegram

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// timeNow is swapped in tests that need a fixed "today".
var timeNow = time.Now

// Sender delivers scheduler digests through the bot connection. It
// satisfies scheduler.Sender.
type Sender struct {
	bot api
}

// NewSender wraps a bot client for digest delivery.
func NewSender(bot api) Sender {
	return Sender{bot: bot}
}

// SendText sends a plain text message to the given chat.
func (s Sender) SendText(chatID int64, text string) error {
	_, err := s.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
