package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Run is the main update loop. It returns after ctx is cancelled and every
// in-flight update has been handled.
func (app *BotApp) Run(ctx context.Context, bot *tgbotapi.BotAPI) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := bot.GetUpdatesChan(u)
	app.log.Infof("[bot_loop] started username=@%s", bot.Self.UserName)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			app.log.Infof("[bot_loop] stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				app.HandleUpdate(ctx, bot, update)
			}()
		}
	}
}

// HandleUpdate processes a single update. Only messages are handled.
func (app *BotApp) HandleUpdate(ctx context.Context, bot Bot, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			app.log.Errorf("[bot_loop] panic updateID=%d: %v", update.UpdateID, r)
		}
	}()

	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}

	if msg.From != nil {
		app.log.Infof("[bot_touch] fromTG=%d updateID=%d", msg.From.ID, update.UpdateID)
	}

	ctx, cancel := context.WithTimeout(ctx, app.HandleTimeout)
	defer cancel()

	app.handleMessage(ctx, bot, msg)
}

func (app *BotApp) handleMessage(ctx context.Context, bot Bot, msg *tgbotapi.Message) {
	switch {
	case msg.IsCommand():
		app.handleCommand(ctx, bot, msg)
	case msg.Voice != nil:
		app.handleVoice(ctx, bot, msg)
	case msg.Text != "":
		app.reply(bot, msg, MsgHelp)
	}
}

func (app *BotApp) reply(bot Bot, msg *tgbotapi.Message, text string) (tgbotapi.Message, error) {
	out := tgbotapi.NewMessage(msg.Chat.ID, clip(text, maxMessageRunes))
	out.ReplyToMessageID = msg.MessageID

	sent, err := bot.Send(out)
	if err != nil {
		app.log.Warnf("[bot] send fail chat=%d err=%v", msg.Chat.ID, err)
	}
	return sent, err
}

func telegramID(msg *tgbotapi.Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return msg.Chat.ID
}
