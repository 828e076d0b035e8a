// Package api is the HTTP boundary of MailTo: template read/write, send and
// health routes, plus the optional static editor UI.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/pure-golang/mailto/dispatch"
	"github.com/pure-golang/mailto/httpserver/middleware"
)

// MaxBodyBytes limits JSON request bodies.
const MaxBodyBytes = 1 << 20

type Config struct {
	StaticDir      string   `envconfig:"STATIC_DIR"`
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`
}

// TemplateStore is the template side used by the handlers.
type TemplateStore interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, content string) error
}

// Dispatcher sends one email per call.
type Dispatcher interface {
	Send(ctx context.Context, req dispatch.Request) (*dispatch.Receipt, error)
}

type Handler struct {
	store  TemplateStore
	sender Dispatcher
}

func NewHandler(store TemplateStore, sender Dispatcher) *Handler {
	return &Handler{store: store, sender: sender}
}

// NewRouter wires middleware and routes.
func NewRouter(cfg Config, h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(limitBody(MaxBodyBytes), middleware.Recovery, middleware.Monitoring)

	r.Get("/health/live", h.Live)
	r.Get("/health/ready", h.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Get("/template", h.GetTemplate)
		r.Put("/template", h.PutTemplate)
		r.Post("/send", h.Send)
	})

	if cfg.StaticDir != "" {
		r.Handle("/*", staticFiles(cfg.StaticDir))
	}

	if len(cfg.AllowedOrigins) == 0 {
		return r
	}

	return cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "X-Trace-Id"},
	}).Handler(r)
}

func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
