package domain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Vovarama1992/transcribe_kh/internal/ports"
)

// AudioStore archives synthesized voice replies.
type AudioStore interface {
	SaveAudio(ctx context.Context, telegramID int64, path string) (string, error)
}

type s3Service struct {
	client ports.S3Client
	now    func() time.Time
}

func NewS3Service(client ports.S3Client) AudioStore {
	return &s3Service{client: client, now: time.Now}
}

// ObjectKey is the path inside the bucket.
func (s *s3Service) ObjectKey(telegramID int64, filename string) string {
	date := s.now().Format("2006-01-02")
	clean := filepath.Base(filename)
	return fmt.Sprintf("%d/%s/%s", telegramID, date, clean)
}

func (s *s3Service) SaveAudio(ctx context.Context, telegramID int64, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat audio: %w", err)
	}

	return s.client.PutObject(ctx, s.ObjectKey(telegramID, path), f, st.Size(), "audio/wav")
}
