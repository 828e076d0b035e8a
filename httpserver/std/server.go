package std

import (
	"context"
	stdErr "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/pure-golang/mailto/httpserver"
)

const ShutdownTimeout = 15 * time.Second

var _ httpserver.RunableProvider = (*Server)(nil)

type Config struct {
	Host        string        `envconfig:"WEBSERVER_HOST"`
	Port        int           `envconfig:"WEBSERVER_PORT" default:"3000"`
	TLSCertPath string        `envconfig:"WEBSERVER_TLS_CERT_PATH"`
	TLSKeyPath  string        `envconfig:"WEBSERVER_TLS_KEY_PATH"`
	ReadTimeout time.Duration `envconfig:"WEBSERVER_READ_TIMEOUT" default:"30s"`
}

type Server struct {
	logger *slog.Logger
	server *http.Server
	config Config
}

func NewDefault(c Config, h http.Handler) *Server {
	s := New(c, h)

	s.server.ErrorLog = slog.NewLogLogger(s.logger.Handler(), slog.LevelError)

	return s
}

func New(c Config, h http.Handler /*ext: option functions*/) *Server {
	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", c.Host, c.Port),
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
			ReadTimeout:       c.ReadTimeout,
		},
		logger: slog.Default().WithGroup("webserver"),
		config: c,
	}
}

// Start listens on the configured address and serves until Close.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return errors.Wrap(err, "listen failed")
	}
	return s.Serve(ln)
}

// Serve serves on an already bound listener.
func (s *Server) Serve(ln net.Listener) error {
	var err error
	s.logger.Info("server listening", slog.String("addr", ln.Addr().String()))

	if s.config.TLSCertPath == "" {
		err = s.server.Serve(ln)
	} else {
		err = s.server.ServeTLS(ln, s.config.TLSCertPath, s.config.TLSKeyPath)
	}

	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return errors.Wrapf(err, "serve failed")
}

func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	err := s.server.Shutdown(ctx)
	if err != nil {
		err = stdErr.Join(err, errors.Wrapf(s.server.Close(), "failed to close server"))
	}

	s.logger.Info("server closed")

	return errors.Wrapf(err, "server shutdown failed")
}

func (s *Server) Run() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.Start(); err != nil {
			s.logger.With("error", err).Error("webserver crashed")
			errCh <- err
		}
	}()
	return errCh
}
