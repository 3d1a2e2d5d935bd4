package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"

	"checkin/lib/sl"
)

const checkTimeout = 5 * time.Second

func (t *TgBot) start(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveChat.Id
	if !t.isAdmin(chatId) {
		t.plainResponse(chatId, "This chat is not registered\\. Ask the organizer to add id `"+Sanitize(strconv.FormatInt(chatId, 10))+"`\\.")
		return nil
	}
	t.plainResponse(chatId, "Check\\-in notifications are enabled for this chat\\.")
	return nil
}

func (t *TgBot) help(_ *tgbotapi.Bot, ctx *ext.Context) error {
	t.plainResponse(ctx.EffectiveChat.Id, Sanitize("/stats - dashboard counters\n/check <code> - validate an invitation code"))
	return nil
}

func (t *TgBot) stats(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveChat.Id
	if !t.isAdmin(chatId) || t.core == nil {
		return nil
	}
	t.plainResponse(chatId, formatStats(t.core.Stats()))
	return nil
}

// check validates a code typed into the chat; the outcome reaches the
// admin chats through NotifyValidation
func (t *TgBot) check(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveChat.Id
	if !t.isAdmin(chatId) || t.core == nil {
		return nil
	}
	args := strings.Fields(ctx.EffectiveMessage.Text)
	if len(args) < 2 {
		t.plainResponse(chatId, "Usage: /check \\<code\\>")
		return nil
	}

	c, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()
	if _, err := t.core.Validate(c, args[1]); err != nil {
		t.log.Error("check command", sl.Err(err))
		t.plainResponse(chatId, "Validation failed, try again\\.")
	}
	return nil
}
