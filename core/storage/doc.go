// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the small Client interface used to store the
// immutable rendered page artifacts. This abstraction supports both AWS S3 and
// self-hosted MinIO instances and is mocked in tests (core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "pages")
package storage
