package ports

import "context"

type HistoryService interface {
	// Save stores the translation and, when storage is configured, the
	// synthesized audio at audioPath. audioPath may be empty.
	Save(ctx context.Context, t *Translation, audioPath string) error
	History(ctx context.Context, telegramID int64, limit int) ([]Translation, error)
	Users(ctx context.Context) ([]UserStats, error)
	Clear(ctx context.Context, telegramID int64) error
	Enabled() bool
}
