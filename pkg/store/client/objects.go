package client

import (
	"context"
)

// PutOptions controls how an object is written.
type PutOptions struct {
	ContentType string
	Encrypt     bool
}

// ObjectStore is the storage capability the monitor depends on. It covers
// the bucket configuration queries and the object operations of one backend.
type ObjectStore interface {
	GetBucketTags(ctx context.Context, bucket string) (map[string]string, error)
	GetBucketVersioning(ctx context.Context, bucket string) (bool, error)
	GetBucketEncryption(ctx context.Context, bucket string) (bool, error)
	// ListObjects calls fn for each key in listing order until fn returns false.
	ListObjects(ctx context.Context, bucket string, fn func(key string) bool) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	PutObject(ctx context.Context, bucket, key string, body []byte, opts PutOptions) error
}
