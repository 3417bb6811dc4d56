// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible object stores (Ceph, Garage,
// SeaweedFS) without the AWS SDK.
//
// # Basic Usage
//
//	store, err := minioblob.New("localhost:9000", "abc-runs",
//	    minioblob.WithCredentials("minioadmin", "minioadmin"),
//	    minioblob.WithPrefix("run-42/"),
//	)
//
// or, with an existing client:
//
//	store := minioblob.NewStore(client, "abc-runs", "run-42/")
package minio
