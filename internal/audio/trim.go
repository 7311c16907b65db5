package audio

import "math"

const (
	DefaultTopDB = 20.0

	trimFrameLength = 2048
	trimHopLength   = 512
	powerFloor      = 1e-10
)

// Trim drops leading and trailing silence. A frame is silent when its RMS
// energy is more than topDB decibels below the loudest frame. Frames are
// centered on multiples of the hop length, so the kept span starts and ends on
// hop boundaries. An all-silent buffer yields an empty one.
func Trim(buf *Buffer, topDB float64) *Buffer {
	if buf.Empty() {
		return &Buffer{SampleRate: buf.sampleRate()}
	}

	power := framePower(buf.Samples, trimFrameLength, trimHopLength)

	ref := 0.0
	for _, p := range power {
		if p > ref {
			ref = p
		}
	}
	if ref <= powerFloor {
		return &Buffer{SampleRate: buf.SampleRate}
	}
	refDB := 10 * math.Log10(ref)

	first, last := -1, -1
	for i, p := range power {
		db := 10*math.Log10(math.Max(powerFloor, p)) - refDB
		if db > -topDB {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	if first < 0 {
		return &Buffer{SampleRate: buf.SampleRate}
	}

	start := first * trimHopLength
	end := (last + 1) * trimHopLength
	if end > len(buf.Samples) {
		end = len(buf.Samples)
	}

	out := make([]float32, end-start)
	copy(out, buf.Samples[start:end])
	return &Buffer{Samples: out, SampleRate: buf.SampleRate}
}

// framePower returns the mean square of each centered, zero-padded frame.
func framePower(samples []float32, frameLength, hop int) []float64 {
	n := len(samples)

	prefix := make([]float64, n+1)
	for i, s := range samples {
		prefix[i+1] = prefix[i] + float64(s)*float64(s)
	}

	half := frameLength / 2
	frames := 1 + n/hop
	power := make([]float64, frames)
	for i := range power {
		lo := i*hop - half
		hi := lo + frameLength
		if lo < 0 {
			lo = 0
		}
		if hi > n {
			hi = n
		}
		if hi > lo {
			power[i] = (prefix[hi] - prefix[lo]) / float64(frameLength)
		}
	}
	return power
}

func (b *Buffer) sampleRate() int {
	if b == nil {
		return 0
	}
	return b.SampleRate
}
