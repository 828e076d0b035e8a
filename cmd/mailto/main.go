package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/pure-golang/mailto/api"
	"github.com/pure-golang/mailto/dispatch"
	"github.com/pure-golang/mailto/httpserver/std"
	"github.com/pure-golang/mailto/logger"
	"github.com/pure-golang/mailto/mail"
	"github.com/pure-golang/mailto/mail/provider"
	"github.com/pure-golang/mailto/metrics"
	"github.com/pure-golang/mailto/template"
	"github.com/pure-golang/mailto/tracing"
	"github.com/pure-golang/mailto/tracing/otlp"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err.Error())
		os.Exit(1)
	}

	logger.InitDefault(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.WithErr(err).Error("mailto stopped with error")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) error {
	log := slog.Default()

	tp, err := tracing.Init(otlp.NewProviderBuilder(cfg.Tracing))
	if err != nil {
		log.Warn("tracing disabled", "error", err.Error())
	}
	defer closeWithLog(log, "tracing", tp)

	m, err := metrics.InitDefault(cfg.Metrics)
	if err != nil {
		return errors.Wrap(err, "failed to init metrics")
	}
	defer closeWithLog(log, "metrics", m)

	store, st, err := template.Open(cfg.Template, cfg.S3, log)
	if err != nil {
		return err
	}
	defer closeWithLog(log, "storage", st)

	// Storage must be usable before any request is served.
	if err := store.EnsureInitialized(ctx); err != nil {
		return errors.Wrap(err, "failed to initialize template storage")
	}

	svc := dispatch.NewService(store, cfg.Mail.From(), func() (mail.Sender, error) {
		return provider.New(cfg.Mail, log)
	}, &dispatch.ServiceOptions{Logger: log})
	defer closeWithLog(log, "mail transport", svc)

	server := std.NewDefault(cfg.Server, api.NewRouter(cfg.API, api.NewHandler(store, svc)))
	serveErr := server.Run()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	return server.Close()
}

type closer interface {
	Close() error
}

func closeWithLog(log *slog.Logger, name string, c closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("failed to close "+name, "error", err.Error())
	}
}
