package generativeAI

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAIClient_WithoutKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ai, err := NewAIClient(context.Background(), Config{}, logger)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", ai.model)

	_, err = ai.Complete(context.Background(), "hello", CompletionOptions{Stage: "strategy"})
	assert.ErrorIs(t, err, ErrDisabled)
}
