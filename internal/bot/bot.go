// Package bot — телеграм-оболочка: превращает updates в события движка
// диалогов, а ответы движка — в сообщения с клавиатурами.
package bot

import (
	"context"
	"log/slog"

	"travelwallet/internal/flow"
	"travelwallet/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot держит зависимости телеграм-оболочки.
type Bot struct {
	api    *tgbotapi.BotAPI
	engine *flow.Engine
	users  *service.UserService
	log    *slog.Logger
}

// New создает оболочку бота.
func New(api *tgbotapi.BotAPI, engine *flow.Engine, users *service.UserService, log *slog.Logger) *Bot {
	if log == nil {
		log = slog.Default()
	}
	return &Bot{api: api, engine: engine, users: users, log: log}
}

// Run запускает цикл получения updates и блокируется до отмены контекста.
// Каждый update обрабатывается в своей горутине: события разных пользователей
// идут параллельно, события одного пользователя сериализует движок.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	b.log.Info("бот запущен", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	// --- CallbackQuery (inline-кнопки) ---
	if cq := update.CallbackQuery; cq != nil {
		if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			b.log.Warn("не удалось ответить на callback", "err", err)
		}
		if cq.Message == nil {
			return
		}
		b.send(cq.Message.Chat.ID, b.engine.HandleTrigger(ctx, cq.From.ID, cq.Data), false)
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		cmd := msg.Command()
		if cmd == "start" {
			if err := b.users.Ensure(userID, msg.From.UserName, msg.From.FirstName, msg.From.LastName); err != nil {
				b.log.Error("не удалось зарегистрировать пользователя", "user_id", userID, "err", err)
			}
		}
		// На /start первым сообщением прикрепляется постоянная клавиатура меню.
		b.send(chatID, b.engine.HandleCommand(ctx, userID, cmd), cmd == "start")
		return
	}

	b.send(chatID, b.engine.HandleText(ctx, userID, msg.Text), false)
}

func (b *Bot) send(chatID int64, replies []flow.Reply, withMenuKeyboard bool) {
	for i, r := range replies {
		msg := tgbotapi.NewMessage(chatID, r.Text)
		if len(r.Options) > 0 {
			msg.ReplyMarkup = inlineKeyboard(r.Options, r.Columns)
		} else if withMenuKeyboard && i == 0 {
			msg.ReplyMarkup = menuKeyboard()
		}
		if _, err := b.api.Send(msg); err != nil {
			b.log.Error("не удалось отправить сообщение", "chat_id", chatID, "err", err)
		}
	}
}

func inlineKeyboard(opts []flow.Option, columns int) tgbotapi.InlineKeyboardMarkup {
	if columns < 1 {
		columns = 1
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, o := range opts {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(o.Label, o.Data))
		if len(row) == columns {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// menuKeyboard — постоянное меню под полем ввода.
func menuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(flow.BtnNewTrip),
			tgbotapi.NewKeyboardButton(flow.BtnTrips),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(flow.BtnBalance),
			tgbotapi.NewKeyboardButton(flow.BtnHistory),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(flow.BtnSetRate),
			tgbotapi.NewKeyboardButton(flow.BtnDeleteTrip),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}
