package infra

import (
	"context"
	"database/sql"
	"time"

	"github.com/Vovarama1992/transcribe_kh/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS translations (
	id                 BIGSERIAL PRIMARY KEY,
	telegram_id        BIGINT NOT NULL,
	chat_id            BIGINT NOT NULL,
	transcript         TEXT NOT NULL,
	translated         TEXT NOT NULL,
	audio_url          TEXT,
	voice_duration_sec DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS translations_telegram_id_idx ON translations (telegram_id, created_at DESC);
`

// EnsureSchema creates the translations table when it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

type translationRepo struct {
	db *sql.DB
}

func NewTranslationRepo(db *sql.DB) ports.TranslationRepo {
	return &translationRepo{db: db}
}

func (r *translationRepo) Create(ctx context.Context, t *ports.Translation) (int64, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO translations (telegram_id, chat_id, transcript, translated, audio_url, voice_duration_sec, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, t.TelegramID, t.ChatID, t.Transcript, t.Translated, t.AudioURL, t.VoiceDuration, t.CreatedAt).Scan(&id)
	if err != nil {
		return 0, err
	}

	t.ID = id
	return id, nil
}

func (r *translationRepo) ListByUser(ctx context.Context, telegramID int64, limit int) ([]ports.Translation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, telegram_id, chat_id, transcript, translated, audio_url, voice_duration_sec, created_at
		FROM translations
		WHERE telegram_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, telegramID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.Translation
	for rows.Next() {
		var t ports.Translation
		if err := rows.Scan(
			&t.ID,
			&t.TelegramID,
			&t.ChatID,
			&t.Transcript,
			&t.Translated,
			&t.AudioURL,
			&t.VoiceDuration,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *translationRepo) ListUsers(ctx context.Context) ([]ports.UserStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT telegram_id, COUNT(*), MAX(created_at)
		FROM translations
		GROUP BY telegram_id
		ORDER BY telegram_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.UserStats
	for rows.Next() {
		var u ports.UserStats
		if err := rows.Scan(&u.TelegramID, &u.Translations, &u.LastSeen); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *translationRepo) DeleteByUser(ctx context.Context, telegramID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM translations WHERE telegram_id = $1`, telegramID)
	return err
}
