package middleware

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/pure-golang/mailto/logger"
)

const RequestIDHeader = "X-Request-Id"

var (
	meter = otel.GetMeterProvider().Meter("github.com/pure-golang/mailto/httpserver/middleware")
	// nolint:errcheck // Sync OpenTelemetry instruments never return errors
	requestsCount, _       = meter.Int64Counter("http.request_count")
	requestTimeHist, _     = meter.Int64Histogram("http.request_time", metric.WithUnit("ms"))
	requestBodyLenHist, _  = meter.Int64Histogram("http.request_body_len", metric.WithUnit("KB"))
	responseBodyLenHist, _ = meter.Int64Histogram("http.response_body_len", metric.WithUnit("KB"))
	tracer                 = otel.Tracer("github.com/pure-golang/mailto/httpserver/middleware")
)

// Monitoring traces incoming http requests using open telemetry tracer + attaches logger to request context.
// A request id is taken from X-Request-Id or generated, and echoed back.
func Monitoring(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqTime := time.Now()
		ctx := r.Context()

		ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(r.Header))

		ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		traceID := span.SpanContext().TraceID().String()
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		// logger
		log := slog.Default().With("method", r.Method, "path", r.URL.Path, "request_id", requestID)
		if span.SpanContext().HasTraceID() {
			log = log.With("trace_id", traceID)
		}

		// attributes
		attrs := semconv.NetAttributesFromHTTPRequest("tcp", r)
		attrs = append(attrs, semconv.HTTPServerAttributesFromHTTPRequest("mailto", r.URL.Path, r)...)
		attrs = append(attrs,
			attribute.String("http.request.header.User-Agent", r.Header.Get("User-Agent")),
			attribute.String("http.request_id", requestID),
		)

		// A failed read (e.g. body over the limit) leaves the error for the handler to see.
		reqBody, err := io.ReadAll(r.Body)
		if err != nil {
			log.Warn("failed to read body", "error", err)
		}
		r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(reqBody), errReader{err}), Closer: r.Body}
		attrs = append(attrs, attribute.String("http.request.body_2048", cut(reqBody)))

		w.Header().Set("X-Trace-Id", traceID)
		w.Header().Set(RequestIDHeader, requestID)

		ctx = logger.NewContext(ctx, log)
		srw := newStatefulRespWriter(w)

		next.ServeHTTP(srw, r.WithContext(ctx))

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		span.SetName(r.Method + " " + route)
		metricLabels := []attribute.KeyValue{
			attribute.String("http.method", r.Method),
			attribute.String("http.route", route),
		}

		attrs = append(attrs, attribute.Int("http.response.status", srw.status))
		attrs = append(attrs, attribute.String("http.response.body_2048", cut(srw.body)))
		span.SetAttributes(attrs...)

		// metrics
		requestsCount.Add(ctx, 1, metric.WithAttributes(append(metricLabels,
			attribute.Int("http.response.code", srw.status))...))
		requestTimeHist.Record(ctx, time.Since(reqTime).Milliseconds(), metric.WithAttributes(metricLabels...))
		requestBodyLenHist.Record(ctx, int64(len(reqBody))/1024, metric.WithAttributes(metricLabels...))
		responseBodyLenHist.Record(ctx, int64(len(srw.body))/1024, metric.WithAttributes(metricLabels...))

		log.Debug("request served", "status", srw.status, "duration_ms", time.Since(reqTime).Milliseconds())
		if srw.status >= 500 {
			span.SetStatus(codes.Error, "")
			return
		}

		span.SetStatus(codes.Ok, "")
	})
}

type readCloser struct {
	io.Reader
	io.Closer
}

// errReader replays a read error after the buffered prefix; nil means EOF.
type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	return 0, io.EOF
}

// statefulRespWriter keeps sent status and body after WriterHeader/Write calls
type statefulRespWriter struct {
	http.ResponseWriter
	status int
	body   []byte
}

func newStatefulRespWriter(w http.ResponseWriter) *statefulRespWriter {
	return &statefulRespWriter{ResponseWriter: w}
}

func (w *statefulRespWriter) WriteHeader(status int) {
	w.ResponseWriter.WriteHeader(status)
	w.status = status
}

func (w *statefulRespWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	w.body = b
	return w.ResponseWriter.Write(b)
}

func (w *statefulRespWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

const BodyMaxLen = 2048

func cut(body []byte) string {
	if length := len(body); length > BodyMaxLen {
		return fmt.Sprintf("%s...(%d bytes)", string(body[:BodyMaxLen]), length)
	}
	return string(body)
}
