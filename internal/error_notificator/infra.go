package error_notificator

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of *tgbotapi.BotAPI used to deliver reports.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Infra struct {
	mu          sync.RWMutex
	bot         Sender
	adminChatID int64
	log         *zap.SugaredLogger
}

// NewInfra reports to adminChatID. A zero chat ID only logs.
func NewInfra(adminChatID int64, log *zap.SugaredLogger) *Infra {
	return &Infra{adminChatID: adminChatID, log: log}
}

// SetBot passes the bot in AFTER it has been initialized
func (i *Infra) SetBot(bot Sender) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.bot = bot
}

func (i *Infra) Notify(ctx context.Context, err error, details string) error {
	i.log.Errorw("[error_notificator] "+details, "error", err)

	if i.adminChatID == 0 {
		return nil
	}

	i.mu.RLock()
	bot := i.bot
	i.mu.RUnlock()
	if bot == nil {
		return fmt.Errorf("bot not initialized")
	}

	text := fmt.Sprintf("❗ Error in bot\n\nError: %v\n\nDetails: %s", err, details)

	if _, sendErr := bot.Send(tgbotapi.NewMessage(i.adminChatID, text)); sendErr != nil {
		i.log.Warnf("[error_notificator] send fail: %v", sendErr)
		return sendErr
	}
	return nil
}
