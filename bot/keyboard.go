package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/academykit/studybot/content"
	"github.com/academykit/studybot/registry"
	"github.com/academykit/studybot/search"
)

const (
	callbackOpenDir  = "open_dir:"
	callbackOpenFile = "open_file:"
	callbackSearch   = "search"
	callbackStats    = "stats"
	callbackHome     = "home"
)

// homeKeyboard is the entry menu.
func (b *Bot) homeKeyboard() tgbotapi.InlineKeyboardMarkup {
	rootToken := b.reg.Register(registry.KindDirectory, "")
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚀 Приступить к изучению", callbackOpenDir+rootToken),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔍 Поиск по материалам", callbackSearch),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Моя статистика", callbackStats),
		),
	)
}

// dirKeyboard builds the menu for a directory: sub-directories first, then
// documents, then navigation and action rows.
func (b *Bot) dirKeyboard(rel string, userID int64) (tgbotapi.InlineKeyboardMarkup, error) {
	dirs, docs, err := b.tree.ListChildren(rel)
	if err != nil {
		return tgbotapi.InlineKeyboardMarkup{}, err
	}

	var rows [][]tgbotapi.InlineKeyboardButton

	for _, dir := range dirs {
		token := b.reg.Register(registry.KindDirectory, dir.RelPath)
		label := fmt.Sprintf("%s %s%s", sectionEmoji(dir.Name, true), dir.Name, b.dirProgressSuffix(dir.RelPath, userID))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackOpenDir+token),
		))
	}

	for _, doc := range docs {
		token := b.reg.Register(registry.KindDocument, doc.RelPath)
		studied := "📖"
		if userID != 0 && b.progress.IsStudied(userID, doc.RelPath) {
			studied = "✅"
		}
		label := fmt.Sprintf("%s %s %s", studied, sectionEmoji(doc.Name, false), doc.Name)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackOpenFile+token),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if rel != "" {
		parentToken := b.reg.Register(registry.KindDirectory, content.Parent(rel))
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", callbackOpenDir+parentToken))
	}
	homeToken := b.reg.Register(registry.KindDirectory, "")
	nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("🏠 Домой", callbackOpenDir+homeToken))
	rows = append(rows, nav)

	currentToken := b.reg.Register(registry.KindDirectory, rel)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔄 Обновить", callbackOpenDir+currentToken),
		tgbotapi.NewInlineKeyboardButtonData("🔍 Поиск", callbackSearch),
		tgbotapi.NewInlineKeyboardButtonData("📊 Статистика", callbackStats),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...), nil
}

// dirProgressSuffix renders " (studied/total)" for a sub-directory's own
// documents, or nothing when the directory has none.
func (b *Bot) dirProgressSuffix(rel string, userID int64) string {
	if userID == 0 {
		return ""
	}
	_, docs, err := b.tree.ListChildren(rel)
	if err != nil || len(docs) == 0 {
		return ""
	}
	studied := 0
	for _, doc := range docs {
		if b.progress.IsStudied(userID, doc.RelPath) {
			studied++
		}
	}
	return fmt.Sprintf(" (%d/%d)", studied, len(docs))
}

// searchResultsKeyboard offers the first few results as openable buttons.
func (b *Bot) searchResultsKeyboard(results []search.Result) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	limit := len(results)
	if limit > search.MaxOpenableResults {
		limit = search.MaxOpenableResults
	}
	for _, res := range results[:limit] {
		token := b.reg.Register(registry.KindDocument, res.RelPath)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 "+docName(res.RelPath), callbackOpenFile+token),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏠 Главная", callbackHome),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// notificationKeyboard accompanies a new-material notification.
func notificationKeyboard(docToken, dirToken string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📘 Открыть файл", callbackOpenFile+docToken),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📂 Открыть раздел", callbackOpenDir+dirToken),
		),
	)
}

func homeOnlyKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Главная", callbackHome),
		),
	)
}
