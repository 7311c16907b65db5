package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

var (
	ErrFFmpegNotFound = errors.New("ffmpeg not found in PATH")
	ErrFFmpegTimeout  = errors.New("ffmpeg execution timed out")
	ErrEmptyAudio     = errors.New("audio is empty")
)

const defaultFFmpegTimeout = 60 * time.Second

// Preprocessor turns an arbitrary voice file into trimmed 16 kHz mono audio.
type Preprocessor struct {
	ffmpegPath  string
	ffprobePath string
	sampleRate  int
	topDB       float64
	timeout     time.Duration
	log         *zap.SugaredLogger
}

type Option func(*Preprocessor)

func WithFFmpegPath(p string) Option {
	return func(pp *Preprocessor) {
		if p != "" {
			pp.ffmpegPath = p
		}
	}
}

func WithFFprobePath(p string) Option {
	return func(pp *Preprocessor) {
		if p != "" {
			pp.ffprobePath = p
		}
	}
}

func WithTopDB(db float64) Option {
	return func(pp *Preprocessor) { pp.topDB = db }
}

func WithTimeout(d time.Duration) Option {
	return func(pp *Preprocessor) { pp.timeout = d }
}

func NewPreprocessor(log *zap.SugaredLogger, opts ...Option) *Preprocessor {
	p := &Preprocessor{
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
		sampleRate:  SampleRate16kHz,
		topDB:       DefaultTopDB,
		timeout:     defaultFFmpegTimeout,
		log:         log,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Load decodes path, resamples it to 16 kHz mono and trims silence.
func (p *Preprocessor) Load(ctx context.Context, path string) (*Buffer, error) {
	raw, err := p.decode(ctx, path)
	if err != nil {
		return nil, err
	}

	buf := &Buffer{Samples: decodeF32LE(raw), SampleRate: p.sampleRate}
	if buf.Empty() {
		return nil, ErrEmptyAudio
	}

	trimmed := Trim(buf, p.topDB)
	p.log.Infof("[audio] decoded %s (%s) %v -> trimmed %v",
		path, humanize.Bytes(uint64(len(raw))), buf.Duration(), trimmed.Duration())

	if trimmed.Empty() {
		return nil, ErrEmptyAudio
	}
	return trimmed, nil
}

// LoadWAV runs Load and writes the result as WAV to outPath.
func (p *Preprocessor) LoadWAV(ctx context.Context, path, outPath string) (*Buffer, error) {
	buf, err := p.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outPath, EncodeWAV(buf), 0o644); err != nil {
		return nil, fmt.Errorf("write wav: %w", err)
	}
	return buf, nil
}

func (p *Preprocessor) decode(ctx context.Context, path string) ([]byte, error) {
	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-i", path,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(p.sampleRate),
		"-f", "f32le",
		"-",
	}

	var stdout, stderr bytes.Buffer
	if err := p.run(ctx, p.ffmpegPath, args, &stdout, &stderr); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

// Duration returns the length of the media file in seconds as reported by ffprobe.
func (p *Preprocessor) Duration(ctx context.Context, path string) (float64, error) {
	var stdout, stderr bytes.Buffer
	err := p.run(ctx, p.ffprobePath, []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}, &stdout, &stderr)
	if err != nil {
		return 0, err
	}

	return strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
}

func (p *Preprocessor) run(ctx context.Context, bin string, args []string, stdout, stderr *bytes.Buffer) error {
	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, bin, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return ErrFFmpegTimeout
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrFFmpegNotFound, bin)
		}
		return fmt.Errorf("%s failed: %w, stderr: %s", bin, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
