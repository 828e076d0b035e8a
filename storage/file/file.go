// Package file implements storage.Storage on the local filesystem.
// A bucket maps to a directory under the configured root, a key to a file
// inside it.
package file

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pure-golang/mailto/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ storage.Storage = (*Storage)(nil)

var tracer = otel.Tracer("github.com/pure-golang/mailto/storage/file")

const (
	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644
)

// Config contains filesystem storage configuration.
type Config struct {
	Root string `envconfig:"STORAGE_ROOT" default:"."` // Directory that holds all buckets
}

// Storage stores objects as plain files.
type Storage struct {
	cfg    Config
	logger *slog.Logger
}

// StorageOptions contains options for Storage creation.
type StorageOptions struct {
	Logger *slog.Logger
}

// NewStorage creates a filesystem Storage rooted at cfg.Root.
func NewStorage(cfg Config, opts *StorageOptions) *Storage {
	if opts == nil {
		opts = &StorageOptions{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}

	return &Storage{
		cfg:    cfg,
		logger: opts.Logger.WithGroup("storage").With("backend", "file"),
	}
}

// NewDefault creates a Storage with default options.
func NewDefault(cfg Config) *Storage {
	return NewStorage(cfg, nil)
}

// Put writes the object, truncating any previous content.
func (s *Storage) Put(ctx context.Context, bucket, key string, reader io.Reader, _ *storage.PutOptions) error {
	_, span := tracer.Start(ctx, "File.Put", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("bucket", bucket), attribute.String("key", key))

	path, err := s.objectPath(bucket, key)
	if err != nil {
		return recordErr(span, err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return recordErr(span, errors.Wrapf(err, "failed to read content for %s/%s", bucket, key))
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return recordErr(span, toStorageError(err, bucket, key))
	}

	span.SetAttributes(attribute.Int("size", len(data)))
	span.SetStatus(codes.Ok, "")
	s.logger.Debug("Object stored", "bucket", bucket, "key", key, "size", len(data))
	return nil
}

// Get reads the whole object into memory and returns a reader over it.
func (s *Storage) Get(ctx context.Context, bucket, key string) (io.ReadCloser, *storage.ObjectInfo, error) {
	_, span := tracer.Start(ctx, "File.Get", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("bucket", bucket), attribute.String("key", key))

	path, err := s.objectPath(bucket, key)
	if err != nil {
		return nil, nil, recordErr(span, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, recordErr(span, toStorageError(err, bucket, key))
	}

	info := &storage.ObjectInfo{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: "text/html; charset=utf-8",
	}
	if st, err := os.Stat(path); err == nil {
		info.LastModified = st.ModTime()
	}

	span.SetAttributes(attribute.Int64("size", info.Size))
	span.SetStatus(codes.Ok, "")
	return io.NopCloser(bytes.NewReader(data)), info, nil
}

// Delete removes the object. Deleting a missing object is not an error.
func (s *Storage) Delete(ctx context.Context, bucket, key string) error {
	_, span := tracer.Start(ctx, "File.Delete", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("bucket", bucket), attribute.String("key", key))

	path, err := s.objectPath(bucket, key)
	if err != nil {
		return recordErr(span, err)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return recordErr(span, toStorageError(err, bucket, key))
	}

	span.SetStatus(codes.Ok, "")
	s.logger.Debug("Object deleted", "bucket", bucket, "key", key)
	return nil
}

// Exists reports whether a regular file is present for the object.
func (s *Storage) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, span := tracer.Start(ctx, "File.Exists", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("bucket", bucket), attribute.String("key", key))

	path, err := s.objectPath(bucket, key)
	if err != nil {
		return false, recordErr(span, err)
	}

	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			span.SetStatus(codes.Ok, "")
			return false, nil
		}
		return false, recordErr(span, toStorageError(err, bucket, key))
	}

	span.SetStatus(codes.Ok, "")
	return st.Mode().IsRegular(), nil
}

// EnsureBucket creates the bucket directory and its parents.
func (s *Storage) EnsureBucket(ctx context.Context, bucket string) error {
	_, span := tracer.Start(ctx, "File.EnsureBucket", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("bucket", bucket))

	dir, err := s.bucketPath(bucket)
	if err != nil {
		return recordErr(span, err)
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return recordErr(span, toStorageError(err, bucket, ""))
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Close is a no-op; the filesystem holds no connection.
func (s *Storage) Close() error {
	return nil
}

func (s *Storage) bucketPath(bucket string) (string, error) {
	if bucket == "" {
		return s.cfg.Root, nil
	}
	if !filepath.IsLocal(bucket) {
		return "", storage.NewError(storage.CodeAccessDenied, "bucket escapes storage root", nil, bucket, "")
	}
	return filepath.Join(s.cfg.Root, bucket), nil
}

func (s *Storage) objectPath(bucket, key string) (string, error) {
	dir, err := s.bucketPath(bucket)
	if err != nil {
		return "", err
	}
	if key == "" || !filepath.IsLocal(key) {
		return "", storage.NewError(storage.CodeAccessDenied, "invalid object key", nil, bucket, key)
	}
	return filepath.Join(dir, key), nil
}

func toStorageError(err error, bucket, key string) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return storage.NewError(storage.CodeNotFound, "object not found", err, bucket, key)
	case errors.Is(err, fs.ErrPermission):
		return storage.NewError(storage.CodeAccessDenied, "access denied", err, bucket, key)
	default:
		return storage.NewError(storage.CodeInternalError, "internal storage error", err, bucket, key)
	}
}

func recordErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
