package translate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	SrcEnglish = "eng"
	TgtKhmer   = "kh"
)

var ErrEmptyTranslation = errors.New("translation result is empty or invalid")

// TranslateKHClient calls the MPTC TranslateKH API.
type TranslateKHClient struct {
	url      string
	username string
	password string
	src      string
	tgt      string
	client   *http.Client
	log      *zap.SugaredLogger
}

func NewTranslateKHClient(
	url, username, password string,
	timeout time.Duration,
	log *zap.SugaredLogger,
) *TranslateKHClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TranslateKHClient{
		url:      url,
		username: username,
		password: password,
		src:      SrcEnglish,
		tgt:      TgtKhmer,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

// WithLanguages overrides the eng -> kh default pair.
func (c *TranslateKHClient) WithLanguages(src, tgt string) *TranslateKHClient {
	c.src = src
	c.tgt = tgt
	return c
}

type translateRequest struct {
	InputText []string `json:"input_text"`
	SrcLang   string   `json:"src_lang"`
	TgtLang   string   `json:"tgt_lang"`
}

type translateResponse struct {
	TranslateText []string `json:"translate_text"`
}

func (c *TranslateKHClient) Translate(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(translateRequest{
		InputText: []string{text},
		SrcLang:   c.src,
		TgtLang:   c.tgt,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translatekh request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read translatekh response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("translatekh error: status=%d body=%s", resp.StatusCode, body)
	}

	var parsed translateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode translatekh: %w", err)
	}

	if len(parsed.TranslateText) == 0 || parsed.TranslateText[0] == "" {
		c.log.Errorf("[translate] empty or invalid translation result: %s", body)
		return "", ErrEmptyTranslation
	}

	return parsed.TranslateText[0], nil
}
