package bot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academykit/studybot/content"
	"github.com/academykit/studybot/progress"
	"github.com/academykit/studybot/registry"
	"github.com/academykit/studybot/search"
	"github.com/academykit/studybot/watch"
)

// fakeAPI records everything the handlers try to deliver.
type fakeAPI struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func newTestBot(t *testing.T, files map[string]string) (*Bot, *fakeAPI) {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(body), 0o644))
	}
	tree, err := content.NewTree(root, ".txt")
	require.NoError(t, err)

	api := &fakeAPI{}
	b := New(api, tree, registry.New(), progress.NewStore(), search.NewEngine(tree))
	return b, api
}

func message(chatID, fromID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{ID: fromID},
		Text: text,
	}
}

func callback(chatID, fromID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: fromID},
		Message: &tgbotapi.Message{MessageID: 10, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}
}

func TestStartSubscribesStopUnsubscribes(t *testing.T) {
	b, api := newTestBot(t, nil)

	b.onStart(message(5, 7, "/start"))
	assert.True(t, b.Subscribers().Contains(5))
	require.NotEmpty(t, api.sent)
	greetingMsg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, greetingMsg.Text, "Добро пожаловать")

	b.onStop(message(5, 7, "/stop"))
	assert.False(t, b.Subscribers().Contains(5))
}

func TestDirKeyboardLayout(t *testing.T) {
	b, _ := newTestBot(t, map[string]string{
		"Базовый/intro.txt": "intro",
		"guide.txt":         "guide",
	})

	kb, err := b.dirKeyboard("", 7)
	require.NoError(t, err)

	// Directory row, document row, nav row, action row.
	require.Len(t, kb.InlineKeyboard, 4)
	assert.Contains(t, kb.InlineKeyboard[0][0].Text, "Базовый")
	assert.Contains(t, kb.InlineKeyboard[0][0].Text, "(0/1)")
	assert.True(t, strings.HasPrefix(*kb.InlineKeyboard[0][0].CallbackData, callbackOpenDir))

	assert.Contains(t, kb.InlineKeyboard[1][0].Text, "📖")
	assert.Contains(t, kb.InlineKeyboard[1][0].Text, "guide")
	assert.True(t, strings.HasPrefix(*kb.InlineKeyboard[1][0].CallbackData, callbackOpenFile))

	// Root menu has no back button.
	require.Len(t, kb.InlineKeyboard[2], 1)
	assert.Equal(t, "🏠 Домой", kb.InlineKeyboard[2][0].Text)
	require.Len(t, kb.InlineKeyboard[3], 3)
}

func TestOpenFileMarksStudiedAndTracksContent(t *testing.T) {
	b, api := newTestBot(t, map[string]string{"guide.txt": "# Заголовок\nтекст"})

	token := b.reg.Register(registry.KindDocument, "guide.txt")
	b.handleCallback(callback(5, 7, callbackOpenFile+token))

	assert.True(t, b.progress.IsStudied(7, "guide.txt"))

	// One header edit plus one content segment.
	var contentMsgs []tgbotapi.MessageConfig
	for _, c := range api.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			contentMsgs = append(contentMsgs, msg)
		}
	}
	require.Len(t, contentMsgs, 1)
	assert.Contains(t, contentMsgs[0].Text, "<b>🔴 Заголовок</b>")

	// The next navigation clears the tracked content message.
	dirToken := b.reg.Register(registry.KindDirectory, "")
	b.handleCallback(callback(5, 7, callbackOpenDir+dirToken))

	deletes := 0
	for _, c := range api.requests {
		if _, ok := c.(tgbotapi.DeleteMessageConfig); ok {
			deletes++
		}
	}
	assert.Equal(t, 1, deletes)
	assert.Empty(t, b.tracker.Take(5), "tracker must be cleared after cleanup")
}

func TestStaleTokenShowsAlert(t *testing.T) {
	b, api := newTestBot(t, nil)

	b.handleCallback(callback(5, 7, callbackOpenFile+"999"))

	require.NotEmpty(t, api.requests)
	answer, ok := api.requests[0].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	assert.True(t, answer.ShowAlert)
	assert.Contains(t, answer.Text, "устарела")
}

func TestTextSearchReplies(t *testing.T) {
	b, api := newTestBot(t, map[string]string{
		"wifi.txt": "строка до\nатака через Wi-Fi\nстрока после",
	})

	b.handleTextSearch(message(5, 7, "атака"))

	require.NotEmpty(t, api.sent)
	reply, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, reply.Text, "Результаты поиска")
	assert.Contains(t, reply.Text, "wifi.txt")
	assert.Contains(t, reply.Text, "атака через wi-fi")

	kb, ok := reply.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	// One openable result plus the home row.
	require.Len(t, kb.InlineKeyboard, 2)
}

func TestShortQueryHint(t *testing.T) {
	b, api := newTestBot(t, map[string]string{"sentinel.txt": "x"})

	b.handleTextSearch(message(5, 7, "x"))

	require.NotEmpty(t, api.sent)
	reply := api.sent[0].(tgbotapi.MessageConfig)
	assert.Contains(t, reply.Text, "минимум 2 символа")
}

func TestNotifyFanOut(t *testing.T) {
	b, api := newTestBot(t, nil)
	b.Subscribers().Add(1)
	b.Subscribers().Add(2)

	b.NotifyNewDocument(watch.Event{RelPath: "new/a.txt", DocToken: "1", DirToken: "2"})

	assert.Len(t, api.sent, 2, "one notification per subscriber")
	msg := api.sent[0].(tgbotapi.MessageConfig)
	assert.Contains(t, msg.Text, "new/a.txt")
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, callbackOpenFile+"1", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, callbackOpenDir+"2", *kb.InlineKeyboard[1][0].CallbackData)
}
