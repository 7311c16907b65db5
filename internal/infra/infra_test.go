package infra

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/transcribe_kh/internal/ports"
)

func TestSplitEndpoint(t *testing.T) {
	cases := []struct {
		in     string
		host   string
		secure bool
	}{
		{"s3.example.com", "s3.example.com", true},
		{"https://s3.example.com", "s3.example.com", true},
		{"http://localhost:9000", "localhost:9000", false},
	}
	for _, c := range cases {
		host, secure := splitEndpoint(c.in)
		assert.Equal(t, c.host, host, c.in)
		assert.Equal(t, c.secure, secure, c.in)
	}
}

func TestBuildPublicURL(t *testing.T) {
	got := buildPublicURL("https://s3.example.com", "voices", "42/2026-10-18/khmer 1.wav")
	assert.Equal(t, "https://s3.example.com/voices/42%2F2026-10-18%2Fkhmer%201.wav", got)
}

func TestNopTranslationRepo(t *testing.T) {
	var repo ports.TranslationRepo = NopTranslationRepo{}
	ctx := context.Background()

	id, err := repo.Create(ctx, &ports.Translation{TelegramID: 1})
	require.NoError(t, err)
	assert.Zero(t, id)

	list, err := repo.ListByUser(ctx, 1, 5)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.NoError(t, repo.DeleteByUser(ctx, 1))
}
