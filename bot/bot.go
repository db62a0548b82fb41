// Package bot is the Telegram transport layer: it resolves callback tokens
// through the reference registry, serves the content tree as inline-keyboard
// menus, and fans watcher notifications out to subscribed chats.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/academykit/studybot/content"
	"github.com/academykit/studybot/logging"
	"github.com/academykit/studybot/progress"
	"github.com/academykit/studybot/registry"
	"github.com/academykit/studybot/search"
)

// api is the slice of the Telegram client the handlers need. *tgbotapi.BotAPI
// satisfies it; tests substitute a recording fake.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// updateSource produces long-poll updates. Satisfied by *tgbotapi.BotAPI.
type updateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot wires the core components to the Telegram Bot API.
type Bot struct {
	api      api
	tree     *content.Tree
	reg      *registry.Registry
	progress *progress.Store
	engine   *search.Engine
	subs     *Subscribers
	tracker  *MessageTracker
	log      *logrus.Entry
}

// New creates a Bot around an API client and the core components.
func New(client api, tree *content.Tree, reg *registry.Registry, store *progress.Store, engine *search.Engine) *Bot {
	return &Bot{
		api:      client,
		tree:     tree,
		reg:      reg,
		progress: store,
		engine:   engine,
		subs:     NewSubscribers(),
		tracker:  NewMessageTracker(),
		log:      logging.NewLogger("bot"),
	}
}

// Subscribers exposes the subscriber set for the notification fan-out.
func (b *Bot) Subscribers() *Subscribers { return b.subs }

// Run consumes long-poll updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context, source updateSource) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := source.GetUpdatesChan(cfg)

	b.log.Info("long polling started")
	for {
		select {
		case <-ctx.Done():
			source.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(update)
		}
	}
}

// HandleUpdate dispatches a single update. Handler panics or errors never
// propagate to the poll loop; they are logged per update.
func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(update.Message)
	case update.Message != nil && update.Message.Text != "":
		b.handleTextSearch(update.Message)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "home":
		b.onStart(msg)
	case "stop":
		b.onStop(msg)
	case "search":
		b.sendSearchPrompt(msg.Chat.ID)
	case "stats":
		b.sendStats(msg.Chat.ID, userID(msg))
	default:
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Неизвестная команда. Попробуйте /home или /search."))
	}
}

func (b *Bot) onStart(msg *tgbotapi.Message) {
	b.subs.Add(msg.Chat.ID)

	reply := tgbotapi.NewMessage(msg.Chat.ID, greeting)
	reply.ParseMode = tgbotapi.ModeHTML
	reply.ReplyMarkup = b.homeKeyboard()
	b.send(reply)
}

func (b *Bot) onStop(msg *tgbotapi.Message) {
	b.subs.Remove(msg.Chat.ID)
	b.send(tgbotapi.NewMessage(msg.Chat.ID, "Вы отписались от уведомлений о новых материалах."))
}

// send delivers a message, logging failures instead of surfacing them: a
// single undeliverable reply must not affect the handler flow.
func (b *Bot) send(c tgbotapi.Chattable) (tgbotapi.Message, bool) {
	sent, err := b.api.Send(c)
	if err != nil {
		b.log.WithError(err).Warn("send failed")
		return tgbotapi.Message{}, false
	}
	return sent, true
}

func userID(msg *tgbotapi.Message) int64 {
	if msg.From == nil {
		return 0
	}
	return msg.From.ID
}

const greeting = "🎯 <b>Добро пожаловать в Kali Linux Academy!</b>\n\n" +
	"🔥 <i>Ваш персональный гид по кибербезопасности</i>\n\n" +
	"📚 <b>Что вас ждёт:</b>\n" +
	"🟢 <b>Базовый уровень</b> — основы и введение\n" +
	"🟡 <b>Средний уровень</b> — практические атаки\n" +
	"🔴 <b>Продвинутый уровень</b> — экспертные техники\n\n" +
	"✨ <b>Особенности:</b>\n" +
	"• Автоматические уведомления о новых материалах\n" +
	"• Отслеживание прогресса изучения\n" +
	"• Поиск по всем материалам\n\n" +
	"🚀 <b>Начните изучение прямо сейчас!</b>"
