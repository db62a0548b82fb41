package bot

import (
	"fmt"
	"html"
	"path"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/academykit/studybot/content"
	"github.com/academykit/studybot/errors"
	"github.com/academykit/studybot/registry"
	"github.com/academykit/studybot/render"
	"github.com/academykit/studybot/search"
)

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		b.answer(cb.ID, "", false)
		return
	}

	data := cb.Data
	switch {
	case strings.HasPrefix(data, callbackOpenDir):
		b.openDir(cb, strings.TrimPrefix(data, callbackOpenDir))
	case strings.HasPrefix(data, callbackOpenFile):
		b.openFile(cb, strings.TrimPrefix(data, callbackOpenFile))
	case data == callbackSearch:
		b.clearContent(cb.Message.Chat.ID)
		b.editOrIgnore(cb.Message.Chat.ID, cb.Message.MessageID, searchPrompt, homeOnlyKeyboard())
		b.answer(cb.ID, "", false)
	case data == callbackStats:
		b.clearContent(cb.Message.Chat.ID)
		text, kb := b.statsView(cb.From.ID)
		b.editOrIgnore(cb.Message.Chat.ID, cb.Message.MessageID, text, kb)
		b.answer(cb.ID, "", false)
	case data == callbackHome:
		b.clearContent(cb.Message.Chat.ID)
		b.editOrIgnore(cb.Message.Chat.ID, cb.Message.MessageID, greeting, b.homeKeyboard())
		b.answer(cb.ID, "", false)
	default:
		b.answer(cb.ID, "", false)
	}
}

func (b *Bot) openDir(cb *tgbotapi.CallbackQuery, token string) {
	ref, err := b.reg.Resolve(token)
	if err != nil {
		b.answer(cb.ID, "Ссылка устарела — откройте заново", true)
		return
	}
	if ref.Kind != registry.KindDirectory {
		b.answer(cb.ID, "Это не папка", false)
		return
	}

	kb, err := b.dirKeyboard(ref.RelPath, cb.From.ID)
	if err != nil {
		b.log.WithError(err).WithField("path", ref.RelPath).Error("failed to open directory")
		b.answer(cb.ID, userFacing(err), true)
		return
	}

	var title string
	if ref.RelPath != "" {
		name := path.Base(ref.RelPath)
		title = fmt.Sprintf("%s %s\nРаздел: %s\n———", sectionEmoji(name, true), name, ref.RelPath)
	} else {
		title = "🎯 Kali Linux Academy\nГлавное меню\n———"
	}

	b.clearContent(cb.Message.Chat.ID)
	b.editOrIgnore(cb.Message.Chat.ID, cb.Message.MessageID, title, kb)
	b.answer(cb.ID, "", false)
}

func (b *Bot) openFile(cb *tgbotapi.CallbackQuery, token string) {
	ref, err := b.reg.Resolve(token)
	if err != nil {
		b.answer(cb.ID, "Ссылка устарела — откройте заново", true)
		return
	}
	if ref.Kind != registry.KindDocument {
		b.answer(cb.ID, "Это не файл", false)
		return
	}

	text, err := b.tree.ReadDocument(ref.RelPath)
	if err != nil {
		b.log.WithError(err).WithField("path", ref.RelPath).Error("failed to open document")
		b.answer(cb.ID, userFacing(err), true)
		return
	}

	b.progress.MarkStudied(cb.From.ID, ref.RelPath)
	b.answer(cb.ID, "✅ Материал отмечен как изученный!", false)

	parent := content.Parent(ref.RelPath)
	kb, kbErr := b.dirKeyboard(parent, cb.From.ID)
	name := path.Base(ref.RelPath)
	header := fmt.Sprintf("✅ %s %s\nРаздел: %s\n———", sectionEmoji(name, false), name, displayDir(parent))

	b.clearContent(cb.Message.Chat.ID)
	if kbErr != nil {
		b.log.WithError(kbErr).WithField("path", parent).Warn("failed to build parent menu")
		b.editOrIgnore(cb.Message.Chat.ID, cb.Message.MessageID, header, homeOnlyKeyboard())
	} else {
		b.editOrIgnore(cb.Message.Chat.ID, cb.Message.MessageID, header, kb)
	}

	b.sendContent(cb.Message.Chat.ID, text)
}

// sendContent delivers rendered document segments and remembers their ids so
// the next navigation can clear them.
func (b *Bot) sendContent(chatID int64, text string) {
	var sentIDs []int
	for _, segment := range render.Segments(text) {
		msg := tgbotapi.NewMessage(chatID, segment)
		msg.ParseMode = tgbotapi.ModeHTML
		sent, err := b.api.Send(msg)
		if err != nil {
			// HTML that Telegram rejects is retried as plain text.
			b.log.WithError(err).Warn("styled segment rejected; falling back to plain text")
			for _, part := range render.SplitPlain(segment, render.TransportCap) {
				if plain, ok := b.send(tgbotapi.NewMessage(chatID, part)); ok {
					sentIDs = append(sentIDs, plain.MessageID)
				}
			}
			continue
		}
		sentIDs = append(sentIDs, sent.MessageID)
	}
	if len(sentIDs) > 0 {
		b.tracker.Track(chatID, sentIDs)
	}
}

func (b *Bot) handleTextSearch(msg *tgbotapi.Message) {
	results, err := b.engine.Search(msg.Text)
	if err != nil {
		if errors.Is(err, errors.ErrCodeInvalidInput) {
			b.send(tgbotapi.NewMessage(msg.Chat.ID, "🔍 Введите минимум 2 символа для поиска."))
			return
		}
		b.log.WithError(err).Error("search failed")
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Ошибка при поиске, попробуйте позже."))
		return
	}

	term := strings.TrimSpace(msg.Text)
	if len(results) == 0 {
		reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
			"🔍 По запросу «%s» ничего не найдено.\n\nПопробуйте другие ключевые слова или проверьте правописание.", term))
		reply.ReplyMarkup = homeOnlyKeyboard()
		b.send(reply)
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, b.formatSearchResults(term, results))
	reply.ParseMode = tgbotapi.ModeHTML
	reply.ReplyMarkup = b.searchResultsKeyboard(results)
	b.send(reply)
}

func (b *Bot) formatSearchResults(term string, results []search.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔍 Результаты поиска по запросу: «%s»\n\n", html.EscapeString(term))

	shown := len(results)
	if shown > search.MaxDisplayResults {
		shown = search.MaxDisplayResults
	}
	for i, res := range results[:shown] {
		name := docName(res.RelPath)
		fmt.Fprintf(&sb, "%d. %s <b>%s</b>\n", i+1, sectionEmoji(name, false), html.EscapeString(name))
		fmt.Fprintf(&sb, "Путь: %s\n", html.EscapeString(res.RelPath))
		// Two context windows per result keep the reply compact.
		contexts := res.Snippets
		if len(contexts) > 2 {
			contexts = contexts[:2]
		}
		for _, window := range contexts {
			sb.WriteString(html.EscapeString(window))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(results) > shown {
		fmt.Fprintf(&sb, "… и ещё %d результатов\n", len(results)-shown)
	}
	return sb.String()
}

func (b *Bot) sendSearchPrompt(chatID int64) {
	reply := tgbotapi.NewMessage(chatID, searchPrompt)
	reply.ParseMode = tgbotapi.ModeHTML
	reply.ReplyMarkup = homeOnlyKeyboard()
	b.send(reply)
}

func (b *Bot) sendStats(chatID, userID int64) {
	text, kb := b.statsView(userID)
	reply := tgbotapi.NewMessage(chatID, text)
	reply.ParseMode = tgbotapi.ModeHTML
	reply.ReplyMarkup = kb
	b.send(reply)
}

// statsView renders the study-progress screen.
func (b *Bot) statsView(userID int64) (string, tgbotapi.InlineKeyboardMarkup) {
	kb := homeOnlyKeyboard()

	docs, err := b.tree.ScanAll()
	if err != nil {
		b.log.WithError(err).Error("stats scan failed")
		return "Ошибка при подсчёте статистики, попробуйте позже.", kb
	}
	total := len(docs)
	if total == 0 {
		return "📊 Пока нет материалов для изучения.", kb
	}

	studied, percent := b.progress.StatsFor(userID, total)

	var sb strings.Builder
	sb.WriteString("📊 <b>Ваша статистика изучения</b>\n\n")
	fmt.Fprintf(&sb, "📚 Изучено материалов: <b>%d/%d</b>\n", studied, total)
	fmt.Fprintf(&sb, "📈 Прогресс: <b>%.1f%%</b>\n\n", percent)
	fmt.Fprintf(&sb, "<code>%s</code>\n\n", render.ProgressBar(percent))

	switch {
	case studied == total:
		sb.WriteString("🎉 <b>Поздравляем! Вы изучили все материалы!</b>")
	case studied > 0:
		fmt.Fprintf(&sb, "💪 Осталось изучить: <b>%d</b> материалов", total-studied)
	default:
		sb.WriteString("🚀 Начните изучение с базовых разделов!")
	}
	return sb.String(), kb
}

// clearContent best-effort deletes the previously sent content messages.
func (b *Bot) clearContent(chatID int64) {
	for _, id := range b.tracker.Take(chatID) {
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, id)); err != nil {
			b.log.WithError(err).WithField("messageID", id).Debug("failed to delete content message")
		}
	}
}

// editOrIgnore edits a message, tolerating Telegram's "message is not
// modified" response when the content happens to be identical.
func (b *Bot) editOrIgnore(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return
		}
		b.log.WithError(err).Warn("edit failed")
	}
}

func (b *Bot) answer(callbackID, text string, alert bool) {
	var cb tgbotapi.CallbackConfig
	if alert {
		cb = tgbotapi.NewCallbackWithAlert(callbackID, text)
	} else {
		cb = tgbotapi.NewCallback(callbackID, text)
	}
	if _, err := b.api.Request(cb); err != nil {
		b.log.WithError(err).Debug("callback answer failed")
	}
}

// userFacing maps core error codes to the messages shown in alerts.
func userFacing(err error) string {
	switch errors.GetCode(err) {
	case errors.ErrCodeBoundaryViolation:
		return "Доступ запрещён"
	case errors.ErrCodeNotFound:
		return "Не найдено — откройте раздел заново"
	case errors.ErrCodeUnknownToken:
		return "Ссылка устарела — откройте заново"
	default:
		return "Ошибка при открытии"
	}
}

func docName(rel string) string {
	return strings.TrimSuffix(path.Base(rel), path.Ext(rel))
}

func displayDir(rel string) string {
	if rel == "" {
		return "/"
	}
	return rel
}

const searchPrompt = "🔍 <b>Поиск по материалам</b>\n\n" +
	"Отправьте ключевое слово для поиска по всем файлам.\n" +
	"Например: <code>команды</code>, <code>атака</code>, <code>безопасность</code>"
