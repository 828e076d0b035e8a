// Package template keeps the one HTML email template of the system.
//
// The document lives at a fixed location of a storage.Storage backend. It is
// seeded with a default document on first access and is always replaced as a
// whole. Writes are not serialized: the last writer wins.
package template

import (
	"context"
	_ "embed"
	"io"
	"log/slog"
	"strings"

	"github.com/pure-golang/mailto/apperr"
	"github.com/pure-golang/mailto/logger"
	"github.com/pure-golang/mailto/storage"
	"github.com/pure-golang/mailto/validation"
)

// MsgInvalidContent is reported when a write carries blank content.
const MsgInvalidContent = "Template HTML must be a non-empty string."

const contentType = "text/html; charset=utf-8"

//go:embed default.html
var defaultDocument string

// Default returns the document used to seed an empty location.
func Default() string {
	return defaultDocument
}

// Reader is the read side of the store.
type Reader interface {
	Read(ctx context.Context) (string, error)
}

// Store reads and overwrites the template document.
type Store struct {
	storage storage.Storage
	bucket  string
	key     string
	logger  *slog.Logger
}

// StoreOptions contains options for Store creation.
type StoreOptions struct {
	Logger *slog.Logger
}

// NewStore creates a Store for the document at bucket/key.
func NewStore(s storage.Storage, bucket, key string, opts *StoreOptions) *Store {
	if opts == nil {
		opts = &StoreOptions{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Store{
		storage: s,
		bucket:  bucket,
		key:     key,
		logger:  opts.Logger.WithGroup("template").With("bucket", bucket, "key", key),
	}
}

// EnsureInitialized creates the bucket and seeds the default document when
// none is present. It is idempotent.
func (s *Store) EnsureInitialized(ctx context.Context) error {
	if err := s.storage.EnsureBucket(ctx, s.bucket); err != nil {
		return apperr.Storage("failed to prepare template location", err)
	}

	ok, err := s.storage.Exists(ctx, s.bucket, s.key)
	if err == nil && ok {
		return nil
	}
	if err != nil {
		s.logger.Debug("template presence check failed, seeding default", "error", err.Error())
	}

	if err := s.put(ctx, defaultDocument); err != nil {
		return apperr.Storage("failed to seed default template", err)
	}

	s.logger.Info("default template seeded")
	return nil
}

// Read returns the current document. When the backend read fails the store
// re-initializes the location once and answers with the default document.
func (s *Store) Read(ctx context.Context) (string, error) {
	content, err := s.get(ctx)
	if err == nil {
		return content, nil
	}

	logger.FromContextWithErr(ctx, err).Warn("failed to read template, falling back to default")

	// The seeded document is not read back: a persistently broken backend
	// keeps answering with the default.
	if initErr := s.EnsureInitialized(ctx); initErr != nil {
		return "", initErr
	}

	return defaultDocument, nil
}

// Write replaces the document with content, stored verbatim.
func (s *Store) Write(ctx context.Context, content string) error {
	req := struct {
		HTML string `validate:"notblank"`
	}{HTML: content}
	if err := validation.Struct(req); err != nil {
		return apperr.Validation(MsgInvalidContent)
	}

	if err := s.put(ctx, content); err != nil {
		return apperr.Storage("failed to write template", err)
	}

	logger.FromContext(ctx).Info("template updated", "size", len(content))
	return nil
}

func (s *Store) get(ctx context.Context) (string, error) {
	rc, _, err := s.storage.Get(ctx, s.bucket, s.key)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil {
			s.logger.With("error", closeErr).Warn("failed to close template reader")
		}
	}()

	var b strings.Builder
	if _, err := io.Copy(&b, rc); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Store) put(ctx context.Context, content string) error {
	return s.storage.Put(ctx, s.bucket, s.key, strings.NewReader(content), &storage.PutOptions{
		ContentType: contentType,
	})
}
