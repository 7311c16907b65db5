package speech

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ErrEmptyTranscript = errors.New("empty transcript")

// STTClient turns an English WAV file into text.
type STTClient interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
}

// TTSClient writes Khmer speech for text to outPath.
type TTSClient interface {
	Synthesize(ctx context.Context, text, outPath string) error
}

// Service fronts both model clients. Transcripts come back trimmed and never
// empty, whichever backend produced them.
type Service struct {
	stt STTClient
	tts TTSClient
	log *zap.SugaredLogger
}

func NewService(stt STTClient, tts TTSClient, log *zap.SugaredLogger) *Service {
	return &Service{
		stt: stt,
		tts: tts,
		log: log,
	}
}

func (s *Service) Transcribe(ctx context.Context, filePath string) (string, error) {
	start := time.Now()
	text, err := s.stt.Transcribe(ctx, filePath)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyTranscript
	}
	s.log.Infow("[speech] transcribed", "chars", len(text), "took", time.Since(start))
	return text, nil
}

func (s *Service) Synthesize(ctx context.Context, text, outPath string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	start := time.Now()
	if err := s.tts.Synthesize(ctx, text, outPath); err != nil {
		return err
	}
	s.log.Infow("[speech] synthesized", "out", outPath, "took", time.Since(start))
	return nil
}
