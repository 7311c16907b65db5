package telegram

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	MsgWelcome = "Welcome to Transcribe KH Bot\n" +
		"Send a voice message, and the bot will convert it to text, translate to Khmer, and generate Khmer speech for you.\n" +
		"Commands: \n" +
		"/help - help information\n" +
		"/history - your recent translations"
	MsgHelp             = "Send a voice message to get started"
	MsgProcessing       = "Processing your voice message"
	MsgTranslateError   = "An error occurred while translating the text. Please try again later."
	MsgProcessError     = "An error occurred while processing your voice message. Please try again later."
	MsgHistoryDisabled  = "History is not available."
	MsgHistoryEmpty     = "You have no translations yet. " + MsgHelp
	historyCommandLimit = 5

	// Telegram rejects longer text messages.
	maxMessageRunes   = 4096
	historyEntryRunes = 300
	resultPartRunes   = 1900
)

func (app *BotApp) handleCommand(ctx context.Context, bot Bot, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		app.reply(bot, msg, MsgWelcome)
	case "help":
		app.reply(bot, msg, MsgHelp)
	case "history":
		app.handleHistory(ctx, bot, msg)
	default:
		app.reply(bot, msg, MsgHelp)
	}
}

func (app *BotApp) handleHistory(ctx context.Context, bot Bot, msg *tgbotapi.Message) {
	if app.HistoryService == nil || !app.HistoryService.Enabled() {
		app.reply(bot, msg, MsgHistoryDisabled)
		return
	}

	tgID := telegramID(msg)
	items, err := app.HistoryService.History(ctx, tgID, historyCommandLimit)
	if err != nil {
		app.log.Errorf("[history] list fail tgID=%d err=%v", tgID, err)
		app.reply(bot, msg, MsgProcessError)
		return
	}
	if len(items) == 0 {
		app.reply(bot, msg, MsgHistoryEmpty)
		return
	}

	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%s\n%s\n%s",
			it.CreatedAt.Format("2006-01-02 15:04"),
			clip(it.Transcript, historyEntryRunes),
			clip(it.Translated, historyEntryRunes),
		)
	}
	app.reply(bot, msg, b.String())
}

func resultText(transcript, translated string) string {
	return fmt.Sprintf("Original (English): %s\n\nTranslated (Khmer): %s",
		clip(transcript, resultPartRunes),
		clip(translated, resultPartRunes),
	)
}

// clip cuts s to at most n runes, ending with "…" when shortened.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
