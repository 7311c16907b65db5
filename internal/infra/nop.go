package infra

import (
	"context"

	"github.com/Vovarama1992/transcribe_kh/internal/ports"
)

// NopTranslationRepo is used when DATABASE_URL is not configured.
type NopTranslationRepo struct{}

func (NopTranslationRepo) Create(context.Context, *ports.Translation) (int64, error) {
	return 0, nil
}

func (NopTranslationRepo) ListByUser(context.Context, int64, int) ([]ports.Translation, error) {
	return nil, nil
}

func (NopTranslationRepo) ListUsers(context.Context) ([]ports.UserStats, error) {
	return nil, nil
}

func (NopTranslationRepo) DeleteByUser(context.Context, int64) error {
	return nil
}
