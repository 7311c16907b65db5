package telegram

import (
	"context"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Vovarama1992/transcribe_kh/internal/error_notificator"
	"github.com/Vovarama1992/transcribe_kh/internal/pipeline"
	"github.com/Vovarama1992/transcribe_kh/internal/ports"
)

const (
	defaultHandleTimeout   = 3 * time.Minute
	defaultDownloadTimeout = 30 * time.Second
)

// Bot is the subset of *tgbotapi.BotAPI the handlers use.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Processor interface {
	Process(ctx context.Context, inPath string) (*pipeline.Result, error)
}

type BotApp struct {
	Pipeline       Processor
	HistoryService ports.HistoryService
	ErrorNotify    error_notificator.Notificator

	// VoiceDir receives downloaded voice messages.
	VoiceDir      string
	HandleTimeout time.Duration

	httpCli *http.Client
	log     *zap.SugaredLogger
}

func NewBotApp(
	p Processor,
	history ports.HistoryService,
	notify error_notificator.Notificator,
	voiceDir string,
	log *zap.SugaredLogger,
) *BotApp {
	return &BotApp{
		Pipeline:       p,
		HistoryService: history,
		ErrorNotify:    notify,
		VoiceDir:       voiceDir,
		HandleTimeout:  defaultHandleTimeout,
		httpCli:        &http.Client{Timeout: defaultDownloadTimeout},
		log:            log,
	}
}

// InitBot connects to the Bot API with token.
func InitBot(token string, log *zap.SugaredLogger) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("[bot_app] ready: @%s", bot.Self.UserName)
	return bot, nil
}
