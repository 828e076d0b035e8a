package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pure-golang/mailto/apperr"
	"github.com/pure-golang/mailto/httpserver/std"
	"github.com/pure-golang/mailto/logger/noop"
	"github.com/pure-golang/mailto/template"
)

func init() {
	slog.SetDefault(noop.NewNoop())
}

func testConfig(dir string) Config {
	return Config{
		Server:   std.Config{Host: "127.0.0.1", Port: 0},
		Template: template.Config{Backend: template.BackendFile, Dir: dir, Key: "template.html"},
	}
}

func TestRun_StorageInitFailure(t *testing.T) {
	notADir := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o600))

	err := run(context.Background(), testConfig(notADir))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize template storage")
	assert.True(t, apperr.IsKind(err, apperr.KindStorage))
}

func TestRun_MissingTransportDoesNotStopStartup(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig(dir)
	cfg.Mail.SMTP.Port = ""

	require.NoError(t, run(ctx, cfg))

	seeded, err := os.ReadFile(filepath.Join(dir, "template.html"))
	require.NoError(t, err)
	assert.Equal(t, template.Default(), string(seeded))
}
