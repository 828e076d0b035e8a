package main

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pure-golang/mailto/logger"
	"github.com/pure-golang/mailto/mail"
	"github.com/pure-golang/mailto/template"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, logger.ProviderStdJson, cfg.Logger.Provider)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, template.BackendFile, cfg.Template.Backend)
	assert.Equal(t, "data", cfg.Template.Dir)
	assert.Equal(t, "template.html", cfg.Template.Key)
	assert.Equal(t, mail.ProviderSMTP, cfg.Mail.Mail.Provider)
	assert.Empty(t, cfg.Mail.From())
	assert.False(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("WEBSERVER_PORT", "8080")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_USER", "user@example.com")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.local,http://b.local")
	t.Setenv("TEMPLATE_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "mailto-templates")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "smtp.example.com", cfg.Mail.SMTP.Host)
	assert.True(t, cfg.Mail.SMTP.ImplicitTLS())
	assert.True(t, cfg.Mail.SMTP.HasAuth())
	assert.Equal(t, "user@example.com", cfg.Mail.From())
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.API.AllowedOrigins)
	assert.Equal(t, template.BackendS3, cfg.Template.Backend)
}

func TestLoadConfig_MailFromWins(t *testing.T) {
	t.Setenv("SMTP_USER", "user@example.com")
	t.Setenv("MAIL_FROM", "MailTo <noreply@example.com>")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "MailTo <noreply@example.com>", cfg.Mail.From())
}

func TestLoadConfig_BlankTransportSettings(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_SECURE", "")
	t.Setenv("SMTP_INSECURE", "")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.Mail.SMTP.SkipVerify())
	assert.True(t, errors.Is(cfg.Mail.SMTP.Validate(), mail.ErrNotConfigured))
}
