// Package audio prepares voice messages for speech recognition: decoding,
// resampling, silence trimming and WAV encoding.
package audio

import "time"

// SampleRate16kHz is the input rate Whisper models expect.
const SampleRate16kHz = 16000

// Buffer is mono audio with samples in [-1, 1].
type Buffer struct {
	Samples    []float32
	SampleRate int
}

func (b *Buffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(b.Samples)) * time.Second / time.Duration(b.SampleRate)
}

func (b *Buffer) Empty() bool {
	return b == nil || len(b.Samples) == 0
}
