package ports

import (
	"context"
	"time"
)

// Translation is one processed voice message.
type Translation struct {
	ID            int64     `json:"id"`
	TelegramID    int64     `json:"telegram_id"`
	ChatID        int64     `json:"chat_id"`
	Transcript    string    `json:"transcript"`
	Translated    string    `json:"translated"`
	AudioURL      *string   `json:"audio_url,omitempty"`
	VoiceDuration float64   `json:"voice_duration_sec"`
	CreatedAt     time.Time `json:"created_at"`
}

// UserStats is a user with the number of translations they made.
type UserStats struct {
	TelegramID   int64     `json:"telegram_id"`
	Translations int       `json:"translations"`
	LastSeen     time.Time `json:"last_seen"`
}

// Postgres repository
type TranslationRepo interface {
	Create(ctx context.Context, t *Translation) (int64, error)
	ListByUser(ctx context.Context, telegramID int64, limit int) ([]Translation, error)
	ListUsers(ctx context.Context) ([]UserStats, error)
	DeleteByUser(ctx context.Context, telegramID int64) error
}
