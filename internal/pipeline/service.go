// Package pipeline runs a voice message through preprocessing, English
// transcription, Khmer translation and Khmer speech synthesis.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vovarama1992/transcribe_kh/internal/audio"
)

type Preprocessor interface {
	LoadWAV(ctx context.Context, path, outPath string) (*audio.Buffer, error)
	Duration(ctx context.Context, path string) (float64, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
}

type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text, outPath string) error
}

type Result struct {
	Transcript string
	Translated string
	// AudioPath is the synthesized Khmer speech. The caller removes it.
	AudioPath     string
	InputDuration time.Duration
	// OutputDuration is the synthesized speech length in seconds, 0 if unknown.
	OutputDuration float64
}

type Service struct {
	pre    Preprocessor
	stt    Transcriber
	tr     Translator
	tts    Synthesizer
	outDir string
	log    *zap.SugaredLogger
}

// NewService writes synthesized audio into outDir; an empty outDir uses the
// directory of each input file.
func NewService(
	pre Preprocessor,
	stt Transcriber,
	tr Translator,
	tts Synthesizer,
	outDir string,
	log *zap.SugaredLogger,
) *Service {
	return &Service{
		pre:    pre,
		stt:    stt,
		tr:     tr,
		tts:    tts,
		outDir: outDir,
		log:    log,
	}
}

// Process runs every step in order and stops at the first failure. When
// synthesis fails the returned Result still carries the transcript and the
// translation.
func (s *Service) Process(ctx context.Context, inPath string) (*Result, error) {
	id := uuid.NewString()
	dir := s.outDir
	if dir == "" {
		dir = filepath.Dir(inPath)
	}

	wavPath := filepath.Join(dir, "input_"+id+".wav")
	defer os.Remove(wavPath)

	buf, err := s.pre.LoadWAV(ctx, inPath, wavPath)
	if err != nil {
		return nil, &StepError{Step: StepPreprocess, Err: err}
	}
	res := &Result{InputDuration: buf.Duration()}

	transcript, err := s.stt.Transcribe(ctx, wavPath)
	if err != nil {
		return nil, &StepError{Step: StepTranscribe, Err: err}
	}
	res.Transcript = strings.TrimSpace(transcript)
	s.log.Infof("[pipeline] whisper transcription: %s", res.Transcript)

	translated, err := s.tr.Translate(ctx, res.Transcript)
	if err != nil {
		return nil, &StepError{Step: StepTranslate, Err: err}
	}
	res.Translated = translated
	s.log.Infof("[pipeline] khmer translation: %s", res.Translated)

	outPath := filepath.Join(dir, "khmer_"+id+".wav")
	if err := s.tts.Synthesize(ctx, res.Translated, outPath); err != nil {
		os.Remove(outPath)
		return res, &StepError{Step: StepSynthesize, Err: err}
	}
	res.AudioPath = outPath

	if d, err := s.pre.Duration(ctx, outPath); err != nil {
		s.log.Warnf("[pipeline] output duration unknown: %v", err)
	} else {
		res.OutputDuration = d
	}

	return res, nil
}
