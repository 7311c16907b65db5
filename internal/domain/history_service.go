package domain

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Vovarama1992/transcribe_kh/internal/error_notificator"
	"github.com/Vovarama1992/transcribe_kh/internal/ports"
)

const maxHistoryLimit = 100

type historyService struct {
	repo     ports.TranslationRepo
	store    AudioStore
	notifier error_notificator.Notificator
	enabled  bool
	log      *zap.SugaredLogger
}

// NewHistoryService stores translations in repo. store may be nil, in which
// case audio is not archived. enabled reports whether repo is backed by a
// real database.
func NewHistoryService(
	repo ports.TranslationRepo,
	store AudioStore,
	n error_notificator.Notificator,
	enabled bool,
	log *zap.SugaredLogger,
) ports.HistoryService {
	return &historyService{
		repo:     repo,
		store:    store,
		notifier: n,
		enabled:  enabled,
		log:      log,
	}
}

func (s *historyService) Enabled() bool {
	return s.enabled
}

func (s *historyService) Save(ctx context.Context, t *ports.Translation, audioPath string) error {
	if s.store != nil && audioPath != "" {
		url, err := s.store.SaveAudio(ctx, t.TelegramID, audioPath)
		if err != nil {
			s.log.Warnf("[history] audio upload fail tg=%d err=%v", t.TelegramID, err)
			s.notifier.Notify(ctx, err, fmt.Sprintf("audio upload failed: tg=%d", t.TelegramID))
		} else {
			t.AudioURL = &url
		}
	}

	if _, err := s.repo.Create(ctx, t); err != nil {
		s.notifier.Notify(ctx, err, fmt.Sprintf("failed to save translation: tg=%d", t.TelegramID))
		return err
	}
	return nil
}

func (s *historyService) History(ctx context.Context, telegramID int64, limit int) ([]ports.Translation, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.repo.ListByUser(ctx, telegramID, limit)
}

func (s *historyService) Users(ctx context.Context) ([]ports.UserStats, error) {
	return s.repo.ListUsers(ctx)
}

func (s *historyService) Clear(ctx context.Context, telegramID int64) error {
	if err := s.repo.DeleteByUser(ctx, telegramID); err != nil {
		s.notifier.Notify(ctx, err, fmt.Sprintf("failed to clear history: tg=%d", telegramID))
		return err
	}
	return nil
}
