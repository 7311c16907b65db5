package speech

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const transcribeLanguage = "en"

// WhisperClient transcribes English speech through an OpenAI-compatible
// /audio/transcriptions endpoint.
type WhisperClient struct {
	client *openai.Client
	model  string
	log    *zap.SugaredLogger
}

// NewWhisperClient targets api.openai.com unless baseURL points at a
// self-hosted Whisper server.
func NewWhisperClient(apiKey, baseURL, model string, log *zap.SugaredLogger) *WhisperClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if model == "" {
		model = openai.Whisper1
	}

	return &WhisperClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		log:    log,
	}
}

func (c *WhisperClient) Transcribe(ctx context.Context, filePath string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: filePath,
		Language: transcribeLanguage,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrEmptyTranscript
	}

	c.log.Infof("[stt] transcribed %d chars", len(text))
	return text, nil
}
