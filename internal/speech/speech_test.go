package speech

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMMSClient_Synthesize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer hf-token", r.Header.Get("Authorization"))
		assert.Equal(t, "audio/wav", r.Header.Get("Accept"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"inputs": "សួស្តី"}`, string(body))

		w.Header().Set("Content-Type", "audio/wav")
		w.Write([]byte("RIFF-fake-wav"))
	}))
	defer server.Close()

	out := filepath.Join(t.TempDir(), "nested", "khmer.wav")
	c := NewMMSClient(server.URL, "hf-token", time.Second, zap.NewNop().Sugar())

	require.NoError(t, c.Synthesize(context.Background(), "សួស្តី", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "RIFF-fake-wav", string(data))
}

func TestMMSClient_NoTokenNoAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	c := NewMMSClient(server.URL, "", time.Second, zap.NewNop().Sugar())
	require.NoError(t, c.Synthesize(context.Background(), "text", filepath.Join(t.TempDir(), "a.wav")))
}

func TestMMSClient_EmptyText(t *testing.T) {
	c := &MMSClient{}
	err := c.Synthesize(context.Background(), "   ", "out.wav")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestMMSClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model is loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewMMSClient(server.URL, "", time.Second, zap.NewNop().Sugar())
	err := c.Synthesize(context.Background(), "text", filepath.Join(t.TempDir(), "a.wav"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=503")
	assert.Contains(t, err.Error(), "model is loading")
}

func TestMMSClient_EmptyAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewMMSClient(server.URL, "", time.Second, zap.NewNop().Sugar())
	err := c.Synthesize(context.Background(), "text", filepath.Join(t.TempDir(), "a.wav"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty audio")
}

func TestWhisperClient_Transcribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/audio/transcriptions"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "en", r.FormValue("language"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "  hello world  "}`))
	}))
	defer server.Close()

	in := filepath.Join(t.TempDir(), "in.wav")
	require.NoError(t, os.WriteFile(in, []byte("RIFF"), 0o644))

	c := NewWhisperClient("sk-test", server.URL+"/v1/", "", zap.NewNop().Sugar())
	text, err := c.Transcribe(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestWhisperClient_EmptyTranscript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": ""}`))
	}))
	defer server.Close()

	in := filepath.Join(t.TempDir(), "in.wav")
	require.NoError(t, os.WriteFile(in, []byte("RIFF"), 0o644))

	c := NewWhisperClient("sk-test", server.URL+"/v1", "whisper-1", zap.NewNop().Sugar())
	_, err := c.Transcribe(context.Background(), in)
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

type fakeSTT struct{ text string }

func (f fakeSTT) Transcribe(context.Context, string) (string, error) { return f.text, nil }

type fakeTTS struct{ got string }

func (f *fakeTTS) Synthesize(_ context.Context, text, _ string) error {
	f.got = text
	return nil
}

func TestService_Delegates(t *testing.T) {
	tts := &fakeTTS{}
	s := NewService(fakeSTT{text: "  hi\n"}, tts, zap.NewNop().Sugar())

	text, err := s.Transcribe(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "hi", text)

	require.NoError(t, s.Synthesize(context.Background(), "សួស្តី", "out"))
	assert.Equal(t, "សួស្តី", tts.got)
}

func TestService_BlankTranscript(t *testing.T) {
	s := NewService(fakeSTT{text: " \t "}, &fakeTTS{}, zap.NewNop().Sugar())

	_, err := s.Transcribe(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestService_BlankTextSkipsTTS(t *testing.T) {
	tts := &fakeTTS{}
	s := NewService(fakeSTT{}, tts, zap.NewNop().Sugar())

	err := s.Synthesize(context.Background(), "   ", "out")
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Empty(t, tts.got)
}
