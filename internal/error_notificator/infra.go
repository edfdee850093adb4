package error_notificator

import (
	"context"
	"fmt"
	"log"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxMessageLen = 4000

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramInfra шлёт алерты в админский чат.
type TelegramInfra struct {
	bot     sender
	chatID  int64
	service string
}

func NewTelegramInfra(token string, chatID int64, service string) (*TelegramInfra, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramInfra{bot: bot, chatID: chatID, service: service}, nil
}

func (i *TelegramInfra) Notify(ctx context.Context, err error, details string) error {
	text := fmt.Sprintf(
		"❗ Ошибка в сервисе (%s)\n\nОшибка: %v\n\nДетали: %s",
		i.service,
		err,
		details,
	)
	if utf8.RuneCountInString(text) > maxMessageLen {
		text = string([]rune(text)[:maxMessageLen]) + "…"
	}

	msg := tgbotapi.NewMessage(i.chatID, text)

	_, sendErr := i.bot.Send(msg)
	if sendErr != nil {
		log.Printf("[error_notificator] send fail: %v", sendErr)
		return sendErr
	}

	return nil
}

// LogInfra — когда Telegram не настроен: алерт уходит только в лог.
type LogInfra struct{}

func (LogInfra) Notify(_ context.Context, err error, details string) error {
	log.Printf("[error_notificator] %v | %s", err, details)
	return nil
}
