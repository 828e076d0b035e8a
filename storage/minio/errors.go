package minio

import (
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/pure-golang/mailto/storage"
)

// toStorageError converts minio errors to storage errors. The S3 error code
// is preferred; the message is only inspected when no code is present.
func toStorageError(err error, bucket, key string) error {
	if err == nil {
		return nil
	}

	switch minio.ToErrorResponse(err).Code {
	case "NoSuchBucket":
		return storage.NewError(storage.CodeBucketNotFound, "bucket not found", err, bucket, key)
	case "NoSuchKey", "NotFound":
		return storage.NewError(storage.CodeNotFound, "object not found", err, bucket, key)
	case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return storage.NewError(storage.CodeAccessDenied, "access denied", err, bucket, key)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "NoSuchBucket"),
		strings.Contains(msg, "bucket") && (strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist")):
		return storage.NewError(storage.CodeBucketNotFound, "bucket not found", err, bucket, key)
	case isNotFoundError(err):
		return storage.NewError(storage.CodeNotFound, "object not found", err, bucket, key)
	case strings.Contains(msg, "AccessDenied"), strings.Contains(msg, "Forbidden"):
		return storage.NewError(storage.CodeAccessDenied, "access denied", err, bucket, key)
	}

	return storage.NewError(storage.CodeInternalError, "internal storage error", err, bucket, key)
}

// isNotFoundError checks if error is a "not found" type error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "NoSuchKey") ||
		strings.Contains(msg, "NotFound") ||
		strings.Contains(msg, "not found") ||
		strings.Contains(msg, "does not exist")
}
