package audio

import (
	"encoding/binary"
	"math"
)

const wavHeaderSize = 44

// EncodeWAV renders the buffer as 16-bit PCM mono WAV.
func EncodeWAV(buf *Buffer) []byte {
	var samples []float32
	rate := SampleRate16kHz
	if buf != nil {
		samples = buf.Samples
		if buf.SampleRate > 0 {
			rate = buf.SampleRate
		}
	}

	const (
		channels      = 1
		bitsPerSample = 16
	)
	dataSize := len(samples) * bitsPerSample / 8
	out := make([]byte, wavHeaderSize+dataSize)

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataSize))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:24], channels)
	binary.LittleEndian.PutUint32(out[24:28], uint32(rate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(rate*channels*bitsPerSample/8))
	binary.LittleEndian.PutUint16(out[32:34], channels*bitsPerSample/8)
	binary.LittleEndian.PutUint16(out[34:36], bitsPerSample)

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataSize))

	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[wavHeaderSize+i*2:], uint16(toPCM16(s)))
	}
	return out
}

func toPCM16(s float32) int16 {
	v := math.Round(float64(s) * math.MaxInt16)
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}

// decodeF32LE parses raw little-endian float32 samples as produced by
// `ffmpeg -f f32le`. A trailing partial sample is dropped.
func decodeF32LE(raw []byte) []float32 {
	n := len(raw) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return out
}
