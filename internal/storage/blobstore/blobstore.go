// Package blobstore abstracts durable object storage addressed by string
// keys. Implementations back onto the local filesystem or any
// S3-compatible service.
package blobstore

import (
	"context"
	"io"
)

// PutOptions carries object metadata alongside the payload.
type PutOptions struct {
	ContentType   string
	ContentLength int64
}

// BlobStore is the object-store capability consumed by the asset manager.
// Delete of a non-existent key must succeed so racing deletes stay benign.
type BlobStore interface {
	Put(ctx context.Context, key string, body io.Reader, opts PutOptions) error
	Delete(ctx context.Context, key string) error
}
