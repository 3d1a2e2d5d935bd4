package bot

import (
	"log/slog"

	"checkin/entity"
)

func (t *TgBot) SendMessage(msg string) {
	t.SendMessageWithLevel(msg, t.minLogLevel)
}

// SendMessageWithLevel forwards log records at or above the bot's
// minimum level to the admin chats
func (t *TgBot) SendMessageWithLevel(msg string, level slog.Level) {
	if level < t.minLogLevel {
		return
	}
	t.notifyAdmins(msg)
}

// NotifyValidation reports a validation outcome to the admin chats
func (t *TgBot) NotifyValidation(view entity.ValidationView) {
	t.notifyAdmins(formatValidation(view))
}
