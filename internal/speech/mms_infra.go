package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var ErrEmptyText = errors.New("text cannot be empty")

// MMSClient synthesizes Khmer speech with facebook/mms-tts-khm served behind
// a Hugging Face style inference endpoint.
type MMSClient struct {
	url     string
	token   string
	httpCli *http.Client
	log     *zap.SugaredLogger
}

func NewMMSClient(url, token string, timeout time.Duration, log *zap.SugaredLogger) *MMSClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &MMSClient{
		url:     url,
		token:   token,
		httpCli: &http.Client{Timeout: timeout},
		log:     log,
	}
}

// TEXT → SPEECH
func (c *MMSClient) Synthesize(ctx context.Context, text, outPath string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}

	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/wav")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tts failed: status=%d body=%s", resp.StatusCode, string(b))
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return fmt.Errorf("save tts audio: %w", err)
	}
	if n == 0 {
		return errors.New("tts returned empty audio")
	}

	c.log.Infof("[tts] synthesized %d bytes (%s) -> %s", n, resp.Header.Get("Content-Type"), outPath)
	return nil
}
