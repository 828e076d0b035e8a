package template

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/pure-golang/mailto/storage"
	"github.com/pure-golang/mailto/storage/file"
	"github.com/pure-golang/mailto/storage/minio"
)

// Open builds the storage backend selected by cfg and a Store on top of it.
// The caller owns the returned storage and closes it on shutdown.
func Open(cfg Config, s3 minio.Config, log *slog.Logger) (*Store, storage.Storage, error) {
	if log == nil {
		log = slog.Default()
	}

	switch cfg.Backend {
	case BackendS3:
		client, err := minio.NewClient(s3, &minio.ClientOptions{Logger: log})
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to open s3 template storage")
		}
		st := minio.NewStorage(client, &minio.StorageOptions{Logger: log})
		return NewStore(st, cfg.Bucket, cfg.Key, &StoreOptions{Logger: log}), st, nil
	case BackendFile, "":
		st := file.NewStorage(file.Config{Root: cfg.Dir}, &file.StorageOptions{Logger: log})
		return NewStore(st, "", cfg.Key, &StoreOptions{Logger: log}), st, nil
	default:
		return nil, nil, errors.Errorf("unknown template backend: %s", cfg.Backend)
	}
}
