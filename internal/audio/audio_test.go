package audio

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func tone(n int, amp float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = amp * float32(math.Sin(2*math.Pi*440*float64(i)/SampleRate16kHz))
	}
	return out
}

func TestTrim_DropsLeadingAndTrailingSilence(t *testing.T) {
	silence := make([]float32, 8*trimHopLength)
	speech := tone(16*trimHopLength, 0.5)

	samples := append(append(append([]float32{}, silence...), speech...), silence...)
	buf := &Buffer{Samples: samples, SampleRate: SampleRate16kHz}

	out := Trim(buf, DefaultTopDB)

	require.False(t, out.Empty())
	assert.Equal(t, SampleRate16kHz, out.SampleRate)

	// Frames 7..25 touch the tone; the kept span is [7*hop, 26*hop).
	start, end := 7*trimHopLength, 26*trimHopLength
	require.Equal(t, 3584, start)
	require.Equal(t, 13312, end)
	require.Len(t, out.Samples, 9728)
	assert.Equal(t, samples[start:end], out.Samples)
}

func TestTrim_KeepsLoudAudio(t *testing.T) {
	speech := tone(10*trimHopLength, 0.8)
	out := Trim(&Buffer{Samples: speech, SampleRate: SampleRate16kHz}, DefaultTopDB)
	assert.Equal(t, len(speech), len(out.Samples))
}

func TestTrim_AllSilent(t *testing.T) {
	out := Trim(&Buffer{Samples: make([]float32, 4096), SampleRate: SampleRate16kHz}, DefaultTopDB)
	assert.True(t, out.Empty())
	assert.Equal(t, SampleRate16kHz, out.SampleRate)
}

func TestTrim_Empty(t *testing.T) {
	assert.True(t, Trim(&Buffer{SampleRate: 8000}, DefaultTopDB).Empty())
	assert.True(t, Trim(nil, DefaultTopDB).Empty())
}

func TestTrim_QuietTailBelowThreshold(t *testing.T) {
	loud := tone(8*trimHopLength, 0.9)
	quiet := tone(32*trimHopLength, 0.001) // ~-59 dB
	samples := append(append([]float32{}, loud...), quiet...)

	out := Trim(&Buffer{Samples: samples, SampleRate: SampleRate16kHz}, DefaultTopDB)
	assert.Less(t, len(out.Samples), len(loud)+trimFrameLength)
}

func TestEncodeWAV_Header(t *testing.T) {
	buf := &Buffer{Samples: []float32{0, 1, -1, 2}, SampleRate: SampleRate16kHz}
	wav := EncodeWAV(buf)

	require.Len(t, wav, wavHeaderSize+8)
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]))
	assert.Equal(t, uint32(SampleRate16kHz), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint32(8), binary.LittleEndian.Uint32(wav[40:44]))

	assert.Equal(t, int16(0), int16(binary.LittleEndian.Uint16(wav[44:])))
	assert.Equal(t, int16(math.MaxInt16), int16(binary.LittleEndian.Uint16(wav[46:])))
	assert.Equal(t, int16(-math.MaxInt16), int16(binary.LittleEndian.Uint16(wav[48:])))
	assert.Equal(t, int16(math.MaxInt16), int16(binary.LittleEndian.Uint16(wav[50:])), "clipped")
}

func TestDecodeF32LE(t *testing.T) {
	raw := make([]byte, 9)
	binary.LittleEndian.PutUint32(raw[0:], math.Float32bits(0.25))
	binary.LittleEndian.PutUint32(raw[4:], math.Float32bits(-0.5))

	assert.Equal(t, []float32{0.25, -0.5}, decodeF32LE(raw))
}

func TestBuffer_Duration(t *testing.T) {
	buf := &Buffer{Samples: make([]float32, SampleRate16kHz/2), SampleRate: SampleRate16kHz}
	assert.Equal(t, "500ms", buf.Duration().String())
}

func TestPreprocessor_MissingBinary(t *testing.T) {
	p := NewPreprocessor(zap.NewNop().Sugar(), WithFFmpegPath("definitely-not-ffmpeg"))

	_, err := p.Load(context.Background(), "in.ogg")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFFmpegNotFound)
}

func TestPreprocessor_LoadWAV(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}

	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	samples := append(make([]float32, 4*trimHopLength), tone(SampleRate16kHz/2, 0.5)...)
	require.NoError(t, os.WriteFile(in, EncodeWAV(&Buffer{Samples: samples, SampleRate: SampleRate16kHz}), 0o644))

	p := NewPreprocessor(zap.NewNop().Sugar())
	out := filepath.Join(dir, "out.wav")
	buf, err := p.LoadWAV(context.Background(), in, out)
	require.NoError(t, err)

	assert.Equal(t, SampleRate16kHz, buf.SampleRate)
	assert.Less(t, len(buf.Samples), len(samples))
	assert.FileExists(t, out)
}
