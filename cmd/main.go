package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Vovarama1992/transcribe_kh/internal/audio"
	"github.com/Vovarama1992/transcribe_kh/internal/config"
	"github.com/Vovarama1992/transcribe_kh/internal/delivery"
	"github.com/Vovarama1992/transcribe_kh/internal/domain"
	"github.com/Vovarama1992/transcribe_kh/internal/error_notificator"
	"github.com/Vovarama1992/transcribe_kh/internal/infra"
	"github.com/Vovarama1992/transcribe_kh/internal/pipeline"
	"github.com/Vovarama1992/transcribe_kh/internal/ports"
	"github.com/Vovarama1992/transcribe_kh/internal/speech"
	"github.com/Vovarama1992/transcribe_kh/internal/telegram"
	"github.com/Vovarama1992/transcribe_kh/internal/translate"
)

func main() {

	// =========================================================================
	// CONFIG / LOGGER
	// =========================================================================

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zapCfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = lvl
	}
	baseLogger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer baseLogger.Sync()
	sugar := baseLogger.Sugar()
	zl := logger.NewZapLogger(sugar)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.VoiceDir, 0755); err != nil {
		sugar.Fatalf("voice dir: %v", err)
	}

	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	errInfra := error_notificator.NewInfra(cfg.AdminChatID, sugar)
	errService := error_notificator.NewService(errInfra)

	// =========================================================================
	// STORAGE (optional)
	// =========================================================================

	var translationRepo ports.TranslationRepo = infra.NopTranslationRepo{}
	historyEnabled := false

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			sugar.Fatalf("failed to connect to postgres: %v", err)
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		if err == nil {
			err = infra.EnsureSchema(pingCtx, db)
		}
		cancel()
		if err != nil {
			sugar.Fatalf("db init failed: %v", err)
		}

		translationRepo = infra.NewTranslationRepo(db)
		historyEnabled = true
	}

	var audioStore domain.AudioStore
	if cfg.S3.Enabled() {
		s3Client, err := infra.NewS3Client(ctx, cfg.S3)
		if err != nil {
			sugar.Fatalf("failed to init s3: %v", err)
		}
		audioStore = domain.NewS3Service(s3Client)
	}

	historyService := domain.NewHistoryService(translationRepo, audioStore, errService, historyEnabled, sugar)

	// =========================================================================
	// CLIENTS (STT / TRANSLATION / TTS)
	// =========================================================================

	preprocessor := audio.NewPreprocessor(sugar,
		audio.WithFFmpegPath(cfg.FFmpegPath),
		audio.WithFFprobePath(cfg.FFprobePath),
	)
	whisperClient := speech.NewWhisperClient(cfg.OpenAIKey, cfg.WhisperBaseURL, cfg.WhisperModel, sugar)
	ttsClient := speech.NewMMSClient(cfg.TTSURL, cfg.TTSToken, cfg.TTSTimeout, sugar)
	translator := translate.NewTranslateKHClient(
		cfg.TranslateURL,
		cfg.TranslateUsername,
		cfg.TranslatePassword,
		cfg.TranslateTimeout,
		sugar,
	)

	speechService := speech.NewService(
		whisperClient, // Whisper
		ttsClient,     // MMS Khmer
		sugar,
	)

	voicePipeline := pipeline.NewService(
		preprocessor,
		speechService,
		translator,
		speechService,
		cfg.VoiceDir,
		sugar,
	)

	// =========================================================================
	// TELEGRAM BOT
	// =========================================================================

	bot, err := telegram.InitBot(cfg.TelegramAPIKey, sugar)
	if err != nil {
		sugar.Fatalf("failed to init telegram bot: %v", err)
	}
	errInfra.SetBot(bot)

	botApp := telegram.NewBotApp(voicePipeline, historyService, errService, cfg.VoiceDir, sugar)

	botDone := make(chan struct{})
	go func() {
		defer close(botDone)
		botApp.Run(ctx, bot)
	}()

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := delivery.NewRouter(
		delivery.NewHistoryHandler(historyService, zl),
		delivery.NewTranslateHandler(translator, zl),
		cfg.AdminToken,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	// =========================================================================
	// START SERVER
	// =========================================================================

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + srv.Addr,
		Service: "transcribe_kh",
	})

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalf("server error: %v", err)
	}

	<-botDone
	sugar.Info("bye")
}
