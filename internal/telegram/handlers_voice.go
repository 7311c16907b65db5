package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/Vovarama1992/transcribe_kh/internal/pipeline"
	"github.com/Vovarama1992/transcribe_kh/internal/ports"
)

func (app *BotApp) handleVoice(ctx context.Context, bot Bot, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	tgID := telegramID(msg)
	fileID := msg.Voice.FileID

	app.log.Infof("[voice] start tgID=%d fileID=%s duration=%ds", tgID, fileID, msg.Voice.Duration)

	placeholder, err := app.reply(bot, msg, MsgProcessing)
	if err != nil {
		return
	}
	deleted := false
	clearPlaceholder := func() {
		if !deleted {
			deleted = true
			app.deleteMessage(bot, chatID, placeholder.MessageID)
		}
	}
	defer clearPlaceholder()

	path, err := app.downloadVoice(ctx, bot, fileID)
	if err != nil {
		app.fail(ctx, bot, msg, err, fmt.Sprintf("voice download failed: tg=%d", tgID))
		return
	}
	defer os.Remove(path)

	res, err := app.Pipeline.Process(ctx, path)
	if err != nil {
		app.handlePipelineError(ctx, bot, msg, res, err)
		return
	}
	defer os.Remove(res.AudioPath)

	clearPlaceholder()
	app.reply(bot, msg, resultText(res.Transcript, res.Translated))

	voice := tgbotapi.NewVoice(chatID, tgbotapi.FilePath(res.AudioPath))
	voice.ReplyToMessageID = msg.MessageID
	if _, err := bot.Send(voice); err != nil {
		app.log.Warnf("[voice] send fail tgID=%d err=%v", tgID, err)
	} else {
		app.log.Infof("[voice] sent 🎤 tgID=%d", tgID)
	}

	app.saveHistory(ctx, msg, res, res.AudioPath)
	app.log.Infof("[voice] done tgID=%d reply=%.1fs", tgID, res.OutputDuration)
}

func (app *BotApp) handlePipelineError(
	ctx context.Context,
	bot Bot,
	msg *tgbotapi.Message,
	res *pipeline.Result,
	err error,
) {
	tgID := telegramID(msg)
	step := pipeline.FailedStep(err)

	switch step {
	case pipeline.StepTranslate:
		app.fail(ctx, bot, msg, err, fmt.Sprintf("translation failed: tg=%d", tgID))
		return
	case pipeline.StepSynthesize:
		// the translation is still useful without audio
		if res != nil && res.Translated != "" {
			app.reply(bot, msg, resultText(res.Transcript, res.Translated))
			app.saveHistory(ctx, msg, res, "")
		}
	}

	app.fail(ctx, bot, msg, err, fmt.Sprintf("voice processing failed at %q: tg=%d", step, tgID))
}

// fail logs err, reports it to the admin chat and sends the user-facing message.
func (app *BotApp) fail(ctx context.Context, bot Bot, msg *tgbotapi.Message, err error, details string) {
	app.log.Errorw("[voice] "+details, "error", err)

	if app.ErrorNotify != nil {
		_ = app.ErrorNotify.Notify(ctx, err, details)
	}

	text := MsgProcessError
	if pipeline.FailedStep(err) == pipeline.StepTranslate {
		text = MsgTranslateError
	}
	app.reply(bot, msg, text)
}

func (app *BotApp) downloadVoice(ctx context.Context, bot Bot, fileID string) (string, error) {
	url, err := bot.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := app.httpCli.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: unexpected status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(app.VoiceDir, 0755); err != nil {
		return "", err
	}

	// the same forwarded voice can arrive in parallel updates
	name := fmt.Sprintf("%s_%s.ogg", filepath.Base(fileID), uuid.NewString())
	path := filepath.Join(app.VoiceDir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create tmp: %w", err)
	}

	n, err := io.Copy(out, resp.Body)
	out.Close()
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("save tmp: %w", err)
	}

	app.log.Infof("[voice] saved %s to %s", humanize.Bytes(uint64(n)), path)
	return path, nil
}

func (app *BotApp) deleteMessage(bot Bot, chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if _, err := bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		app.log.Debugf("[bot] delete message %d fail: %v", messageID, err)
	}
}

func (app *BotApp) saveHistory(ctx context.Context, msg *tgbotapi.Message, res *pipeline.Result, audioPath string) {
	if app.HistoryService == nil || !app.HistoryService.Enabled() {
		return
	}

	t := &ports.Translation{
		TelegramID:    telegramID(msg),
		ChatID:        msg.Chat.ID,
		Transcript:    res.Transcript,
		Translated:    res.Translated,
		VoiceDuration: float64(msg.Voice.Duration),
	}
	if err := app.HistoryService.Save(ctx, t, audioPath); err != nil {
		app.log.Warnf("[voice] history save fail tgID=%d err=%v", t.TelegramID, err)
	}
}
