package minio

import (
	"context"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"github.com/pure-golang/mailto/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ storage.Storage = (*Storage)(nil)

var tracer = otel.Tracer("github.com/pure-golang/mailto/storage/s3")

// Storage implements storage.Storage for S3-compatible storage.
type Storage struct {
	client *Client
	cfg    Config
	logger *slog.Logger
}

// StorageOptions contains options for Storage creation.
type StorageOptions struct {
	Logger *slog.Logger
}

// NewStorage creates a new S3 Storage instance.
func NewStorage(client *Client, opts *StorageOptions) *Storage {
	if opts == nil {
		opts = &StorageOptions{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Storage{
		client: client,
		cfg:    client.cfg,
		logger: opts.Logger.WithGroup("storage").With("backend", "s3"),
	}
}

// NewDefault creates a Storage with a new client.
func NewDefault(cfg Config) (*Storage, error) {
	client, err := NewDefaultClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewStorage(client, nil), nil
}

func (s *Storage) getClient() (*minio.Client, error) {
	if s.client == nil || s.client.client == nil {
		return nil, storage.NewError(storage.CodeInternalError, "minio client is not initialized", nil, "", "")
	}
	if s.client.IsClosed() {
		return nil, storage.NewError(storage.CodeInternalError, "minio client is closed", nil, "", "")
	}
	return s.client.client, nil
}

func (s *Storage) bucketOrDefault(bucket string) string {
	if bucket == "" {
		return s.cfg.DefaultBucket
	}
	return bucket
}

// Put stores an object in S3-compatible storage.
func (s *Storage) Put(ctx context.Context, bucket, key string, reader io.Reader, opts *storage.PutOptions) error {
	ctx, span := tracer.Start(ctx, "S3.Put", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if opts == nil {
		opts = &storage.PutOptions{}
	}
	bucket = s.bucketOrDefault(bucket)

	span.SetAttributes(
		attribute.String("bucket", bucket),
		attribute.String("key", key),
		attribute.String("content_type", opts.ContentType),
	)

	client, err := s.getClient()
	if err != nil {
		return recordErr(span, err)
	}

	info, err := client.PutObject(ctx, bucket, key, reader, -1, minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		UserMetadata: opts.Metadata,
	})
	if err != nil {
		return recordErr(span, errors.Wrapf(toStorageError(err, bucket, key), "failed to put object %s/%s", bucket, key))
	}

	span.SetAttributes(
		attribute.Int64("size", info.Size),
		attribute.String("etag", info.ETag),
	)
	span.SetStatus(codes.Ok, "")

	s.logger.Debug("Object stored", "bucket", bucket, "key", key, "size", info.Size)
	return nil
}

// Get retrieves an object from S3-compatible storage.
func (s *Storage) Get(ctx context.Context, bucket, key string) (io.ReadCloser, *storage.ObjectInfo, error) {
	ctx, span := tracer.Start(ctx, "S3.Get", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	bucket = s.bucketOrDefault(bucket)
	span.SetAttributes(
		attribute.String("bucket", bucket),
		attribute.String("key", key),
	)

	client, err := s.getClient()
	if err != nil {
		return nil, nil, recordErr(span, err)
	}

	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, recordErr(span, toStorageError(err, bucket, key))
	}

	// GetObject is lazy; Stat surfaces a missing key.
	stat, err := obj.Stat()
	if err != nil {
		if closeErr := obj.Close(); closeErr != nil {
			s.logger.With("error", closeErr).Error("failed to close object after stat error")
		}
		return nil, nil, recordErr(span, toStorageError(err, bucket, key))
	}

	span.SetAttributes(
		attribute.Int64("size", stat.Size),
		attribute.String("etag", stat.ETag),
	)
	span.SetStatus(codes.Ok, "")

	return obj, &storage.ObjectInfo{
		Key:          key,
		Size:         stat.Size,
		LastModified: stat.LastModified,
		ETag:         stat.ETag,
		ContentType:  stat.ContentType,
		Metadata:     stat.UserMetadata,
	}, nil
}

// Delete removes an object from S3-compatible storage.
func (s *Storage) Delete(ctx context.Context, bucket, key string) error {
	ctx, span := tracer.Start(ctx, "S3.Delete", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	bucket = s.bucketOrDefault(bucket)
	span.SetAttributes(
		attribute.String("bucket", bucket),
		attribute.String("key", key),
	)

	client, err := s.getClient()
	if err != nil {
		return recordErr(span, err)
	}

	if err := client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return recordErr(span, toStorageError(err, bucket, key))
	}

	span.SetStatus(codes.Ok, "")
	s.logger.Debug("Object deleted", "bucket", bucket, "key", key)
	return nil
}

// Exists checks if an object exists in S3-compatible storage.
func (s *Storage) Exists(ctx context.Context, bucket, key string) (bool, error) {
	ctx, span := tracer.Start(ctx, "S3.Exists", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	bucket = s.bucketOrDefault(bucket)
	span.SetAttributes(
		attribute.String("bucket", bucket),
		attribute.String("key", key),
	)

	client, err := s.getClient()
	if err != nil {
		return false, recordErr(span, err)
	}

	if _, err := client.StatObject(ctx, bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNotFoundError(err) {
			span.SetStatus(codes.Ok, "")
			return false, nil
		}
		return false, recordErr(span, toStorageError(err, bucket, key))
	}

	span.SetStatus(codes.Ok, "")
	return true, nil
}

// EnsureBucket creates the bucket in the configured region if it is missing.
func (s *Storage) EnsureBucket(ctx context.Context, bucket string) error {
	ctx, span := tracer.Start(ctx, "S3.EnsureBucket", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	bucket = s.bucketOrDefault(bucket)
	span.SetAttributes(attribute.String("bucket", bucket))

	client, err := s.getClient()
	if err != nil {
		return recordErr(span, err)
	}

	ok, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return recordErr(span, toStorageError(err, bucket, ""))
	}
	if ok {
		span.SetStatus(codes.Ok, "")
		return nil
	}

	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
		// Lost a race with another creator.
		if code := minio.ToErrorResponse(err).Code; code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists" {
			span.SetStatus(codes.Ok, "")
			return nil
		}
		return recordErr(span, toStorageError(err, bucket, ""))
	}

	span.SetStatus(codes.Ok, "")
	s.logger.Info("Bucket created", "bucket", bucket)
	return nil
}

// Close closes the storage connection.
func (s *Storage) Close() error {
	return s.client.Close()
}

func recordErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
