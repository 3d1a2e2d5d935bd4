package bot

import (
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"

	"checkin/entity"
	"checkin/lib/clock"
	"checkin/lib/sl"
)

func (t *TgBot) plainResponse(chatId int64, text string) {
	if text == "" {
		t.log.With("id", chatId).Debug("empty message")
		return
	}
	if t.api == nil {
		return
	}

	_, err := t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{
		ParseMode: "MarkdownV2",
	})
	if err != nil {
		t.log.With(slog.Int64("id", chatId)).Warn("sending message", sl.Err(err))
		_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
		if err != nil {
			t.log.With(slog.Int64("id", chatId)).Error("sending safe message", sl.Err(err))
		}
	}
}

// Sanitize escapes MarkdownV2 reserved characters
func Sanitize(input string) string {
	reservedChars := "\\_{}#+-.!|()[]=*>~`"
	var sb strings.Builder
	for _, char := range input {
		if strings.ContainsRune(reservedChars, char) {
			sb.WriteRune('\\')
		}
		sb.WriteRune(char)
	}
	return sb.String()
}

func (t *TgBot) isAdmin(chatId int64) bool {
	for _, id := range t.adminIds {
		if id == chatId {
			return true
		}
	}
	return false
}

func (t *TgBot) notifyAdmins(msg string) {
	for _, id := range t.adminIds {
		t.plainResponse(id, msg)
	}
}

func severityMark(s entity.Severity) string {
	switch s {
	case entity.SeveritySuccess:
		return "✅"
	case entity.SeverityWarning:
		return "⚠️"
	default:
		return "❌"
	}
}

func formatValidation(view entity.ValidationView) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s *%s*", severityMark(view.Type), Sanitize(view.Message)))
	if view.Invitation != nil {
		sb.WriteString(fmt.Sprintf("\nGuest: %s", Sanitize(view.Invitation.Name)))
		sb.WriteString(fmt.Sprintf("\nTicket: %s", Sanitize(string(view.Invitation.Kind))))
		if view.Invitation.UsedAt != nil {
			sb.WriteString(fmt.Sprintf("\nUsed at: `%s`", clock.Format(*view.Invitation.UsedAt)))
		}
	}
	if view.Graduate != nil {
		sb.WriteString(fmt.Sprintf("\nGraduate: %s \\(%s\\)", Sanitize(view.Graduate.Name), Sanitize(view.Graduate.Course)))
	}
	return sb.String()
}

func formatStats(s entity.Stats) string {
	return fmt.Sprintf("*Dashboard*\nGraduates: %d\nInvitations: %d\nUsed: %d\nActive: %d\nFull price: %d\nHalf price: %d\nUtilization: %s%%",
		s.Graduates, s.Invitations, s.Used, s.Active, s.Full, s.Half,
		Sanitize(fmt.Sprintf("%.1f", s.Utilization)))
}
