// Package blobstore provides storage backends for persisted generation
// records.
//
// BlobStore is the interface for writing and reading whole blobs by name.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and dry runs
//   - LocalStore: local filesystem with atomic writes
//   - s3.Store: Amazon S3
//   - minio.Store: MinIO and other S3-compatible services
//
// Throttled wraps any of them with a request concurrency limit and a
// transfer rate limit.
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Put(ctx, name, data) error
//	    Get(ctx, name) ([]byte, error)
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
