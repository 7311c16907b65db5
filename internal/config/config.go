package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
)

const (
	DefaultPath         = "config.json"
	DefaultTranslateURL = "https://translatekh.mptc.gov.kh/api"
	DefaultTTSURL       = "https://api-inference.huggingface.co/models/facebook/mms-tts-khm"
	DefaultWhisperModel = "whisper-1"
)

// fileConfig mirrors config.json.
type fileConfig struct {
	TelegramAPIKey       string `json:"TelegramApiKey"`
	VoiceMessageFilePath string `json:"VoiceMessageFilePath"`
	TranslateKHUsername  string `json:"TranslateKHUsername"`
	TranslateKHPassword  string `json:"TranslateKHPassword"`
}

type Config struct {
	TelegramAPIKey string
	// VoiceDir holds downloaded voice messages and synthesized replies.
	VoiceDir string

	TranslateURL      string
	TranslateUsername string
	TranslatePassword string
	TranslateTimeout  time.Duration

	OpenAIKey      string
	WhisperBaseURL string
	WhisperModel   string

	TTSURL     string
	TTSToken   string
	TTSTimeout time.Duration

	FFmpegPath  string
	FFprobePath string

	AdminChatID int64

	DatabaseURL string
	S3          S3Config

	Port       string
	AdminToken string
	LogLevel   string
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// Load reads .env, then the JSON file at path, then applies env overrides.
// An empty path falls back to CONFIG_PATH and then to config.json.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = getEnv("CONFIG_PATH", DefaultPath)
	}

	var fc fileConfig
	fileErr := readFile(path, &fc)
	if fileErr != nil && !errors.Is(fileErr, os.ErrNotExist) {
		return nil, fileErr
	}

	cfg := &Config{
		TelegramAPIKey:    getEnv("TELEGRAM_API_KEY", fc.TelegramAPIKey),
		VoiceDir:          getEnv("VOICE_MESSAGE_FILE_PATH", fc.VoiceMessageFilePath),
		TranslateURL:      getEnv("TRANSLATE_KH_URL", DefaultTranslateURL),
		TranslateUsername: getEnv("TRANSLATE_KH_USERNAME", fc.TranslateKHUsername),
		TranslatePassword: getEnv("TRANSLATE_KH_PASSWORD", fc.TranslateKHPassword),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		WhisperBaseURL:    os.Getenv("WHISPER_BASE_URL"),
		WhisperModel:      getEnv("WHISPER_MODEL", DefaultWhisperModel),
		TTSURL:            getEnv("TTS_URL", DefaultTTSURL),
		TTSToken:          os.Getenv("HF_API_TOKEN"),
		FFmpegPath:        getEnv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:       getEnv("FFPROBE_PATH", "ffprobe"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		S3: S3Config{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    os.Getenv("S3_REGION"),
		},
		Port:       getEnv("PORT", "8080"),
		AdminToken: os.Getenv("ADMIN_TOKEN"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.TranslateTimeout, err = getDuration("TRANSLATE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.TTSTimeout, err = getDuration("TTS_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if v := os.Getenv("ADMIN_CHAT_ID"); v != "" {
		if cfg.AdminChatID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid ADMIN_CHAT_ID %q: %w", v, err)
		}
	}

	if missing := cfg.missing(); len(missing) > 0 {
		if fileErr != nil {
			return nil, fmt.Errorf("the %q file is missing, create it with the required keys: %s",
				path, strings.Join(missing, ", "))
		}
		return nil, fmt.Errorf("missing required configuration keys in %q: %s",
			path, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func (c *Config) missing() []string {
	var out []string
	if c.TelegramAPIKey == "" {
		out = append(out, "TelegramApiKey")
	}
	if c.VoiceDir == "" {
		out = append(out, "VoiceMessageFilePath")
	}
	if c.TranslateUsername == "" {
		out = append(out, "TranslateKHUsername")
	}
	if c.TranslatePassword == "" {
		out = append(out, "TranslateKHPassword")
	}
	return out
}

func readFile(path string, fc *fileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, fc); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
