package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverConfig struct {
	Host string `envconfig:"WEBSERVER_HOST" default:"localhost"`
	Port int    `envconfig:"WEBSERVER_PORT" default:"3000"`
}

type smtpConfig struct {
	Host   string `envconfig:"SMTP_HOST"`
	Port   int    `envconfig:"SMTP_PORT"`
	Secure *bool  `envconfig:"SMTP_SECURE"`
}

type requiredConfig struct {
	APIKey string `envconfig:"RESEND_API_KEY" required:"true"`
}

func TestInitConfig_Defaults(t *testing.T) {
	var cfg serverConfig
	require.NoError(t, InitConfig(&cfg))

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 3000, cfg.Port)
}

func TestInitConfig_FromEnvironment(t *testing.T) {
	t.Setenv("WEBSERVER_PORT", "8080")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "465")

	var server serverConfig
	var smtp smtpConfig
	require.NoError(t, InitConfig(&server, &smtp))

	assert.Equal(t, 8080, server.Port)
	assert.Equal(t, "smtp.example.com", smtp.Host)
	assert.Equal(t, 465, smtp.Port)
	assert.Nil(t, smtp.Secure)
}

func TestInitConfig_OptionalBoolPointer(t *testing.T) {
	t.Setenv("SMTP_SECURE", "false")

	var cfg smtpConfig
	require.NoError(t, InitConfig(&cfg))

	require.NotNil(t, cfg.Secure)
	assert.False(t, *cfg.Secure)
}

func TestInitConfig_MissingRequired(t *testing.T) {
	var cfg requiredConfig
	err := InitConfig(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to envconfig.Process")
}

func TestInitConfig_InvalidValue(t *testing.T) {
	t.Setenv("WEBSERVER_PORT", "not-a-number")

	var cfg serverConfig
	require.Error(t, InitConfig(&cfg))
}

func TestInitConfig_EnvFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mailto.env")
	require.NoError(t, os.WriteFile(path, []byte("RESEND_API_KEY=re_from_file\n"), 0600))
	t.Setenv(FileVar, path)
	t.Cleanup(func() { os.Unsetenv("RESEND_API_KEY") })

	var cfg requiredConfig
	require.NoError(t, InitConfig(&cfg))

	assert.Equal(t, "re_from_file", cfg.APIKey)
}

func TestInitConfig_EnvironmentWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mailto.env")
	require.NoError(t, os.WriteFile(path, []byte("WEBSERVER_HOST=from-file\n"), 0600))
	t.Setenv(FileVar, path)
	t.Setenv("WEBSERVER_HOST", "from-env")

	var cfg serverConfig
	require.NoError(t, InitConfig(&cfg))

	assert.Equal(t, "from-env", cfg.Host)
}

func TestInitConfig_MissingFileIsIgnored(t *testing.T) {
	t.Setenv(FileVar, filepath.Join(t.TempDir(), "absent.env"))

	var cfg serverConfig
	assert.NoError(t, InitConfig(&cfg))
}
