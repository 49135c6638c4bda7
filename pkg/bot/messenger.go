package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/carverauto/kioskradar/pkg/dashboard"
)

// Messenger delivers screens and plain replies to a chat. It hides the
// Telegram client so update handling can be tested without the network.
type Messenger interface {
	SendScreen(chatID int64, screen dashboard.Screen) error
	EditScreen(chatID int64, messageID int, screen dashboard.Screen) error
	SendText(chatID int64, text string) error
	AnswerCallback(callbackID string) error
}

type telegramMessenger struct {
	api *tgbotapi.BotAPI
}

var _ Messenger = (*telegramMessenger)(nil)

func newTelegramMessenger(api *tgbotapi.BotAPI) *telegramMessenger {
	return &telegramMessenger{api: api}
}

func (m *telegramMessenger) SendScreen(chatID int64, screen dashboard.Screen) error {
	msg := tgbotapi.NewMessage(chatID, screen.Text)
	if markup, ok := inlineMarkup(screen); ok {
		msg.ReplyMarkup = markup
	}

	if _, err := m.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send screen: %w", err)
	}

	return nil
}

func (m *telegramMessenger) EditScreen(chatID int64, messageID int, screen dashboard.Screen) error {
	var edit tgbotapi.EditMessageTextConfig

	if markup, ok := inlineMarkup(screen); ok {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, screen.Text, markup)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, screen.Text)
	}

	if _, err := m.api.Send(edit); err != nil {
		// Re-rendering an unchanged screen is normal, Telegram just
		// refuses the no-op edit.
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}

		return fmt.Errorf("failed to edit screen: %w", err)
	}

	return nil
}

func (m *telegramMessenger) SendText(chatID int64, text string) error {
	if _, err := m.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}

	return nil
}

func (m *telegramMessenger) AnswerCallback(callbackID string) error {
	if _, err := m.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}

	return nil
}

// inlineMarkup converts a screen keyboard to the wire format, reporting
// false for screens without buttons since Telegram rejects an empty
// inline keyboard.
func inlineMarkup(screen dashboard.Screen) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(screen.Keyboard) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(screen.Keyboard))

	for _, row := range screen.Keyboard {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(button.Label, button.Action))
		}

		rows = append(rows, buttons)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}
