// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("runs/2026-10-17/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
// Generation records are small, so every blob is written with a single
// PutObject call and read back with a single GetObject call.
package s3
