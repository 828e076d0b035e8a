package main

import (
	"github.com/pure-golang/mailto/api"
	"github.com/pure-golang/mailto/env"
	"github.com/pure-golang/mailto/httpserver/std"
	"github.com/pure-golang/mailto/logger"
	"github.com/pure-golang/mailto/mail/provider"
	"github.com/pure-golang/mailto/metrics"
	"github.com/pure-golang/mailto/storage/minio"
	"github.com/pure-golang/mailto/template"
	"github.com/pure-golang/mailto/tracing/otlp"
)

type Config struct {
	Logger   logger.Config
	Server   std.Config
	API      api.Config
	Template template.Config
	S3       minio.Config
	Mail     provider.Config
	Metrics  metrics.Config
	Tracing  otlp.Config
}

// loadConfig reads every section from the environment (and the optional .env file).
// Sections are processed separately so that no prefix is added to their variables.
func loadConfig() (Config, error) {
	var c Config
	err := env.InitConfig(
		&c.Logger,
		&c.Server,
		&c.API,
		&c.Template,
		&c.S3,
		&c.Mail.Mail,
		&c.Mail.SMTP,
		&c.Mail.Resend,
		&c.Metrics,
		&c.Tracing,
	)
	return c, err
}
