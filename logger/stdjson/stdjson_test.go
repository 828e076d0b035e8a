package stdjson

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefault_LevelFiltering(t *testing.T) {
	l := NewDefault(slog.LevelInfo)
	require.NotNil(t, l)

	h := l.Handler()
	ctx := context.Background()
	assert.False(t, h.Enabled(ctx, slog.LevelDebug))
	assert.True(t, h.Enabled(ctx, slog.LevelInfo))
	assert.True(t, h.Enabled(ctx, slog.LevelError))
}

func TestNewDefault_IsJSONHandler(t *testing.T) {
	l := NewDefault(slog.LevelInfo)

	assert.IsType(t, &slog.JSONHandler{}, l.Handler())
}
