package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/academykit/studybot/watch"
)

// NotifyNewDocument fans a watcher event out to every subscriber. It is
// passed to the watcher as its notification callback. Per-recipient failures
// (blocked bot, deleted chat) are logged and skipped.
func (b *Bot) NotifyNewDocument(evt watch.Event) {
	kb := notificationKeyboard(evt.DocToken, evt.DirToken)
	for _, chatID := range b.subs.List() {
		msg := tgbotapi.NewMessage(chatID, "🆕 Добавлен новый материал: "+evt.RelPath)
		msg.ReplyMarkup = kb
		if _, err := b.api.Send(msg); err != nil {
			b.log.WithError(err).WithField("chatID", chatID).Warn("failed to deliver notification")
		}
	}
}
