package blobs

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"route-publisher/core/storage"

	"github.com/minio/minio-go/v7"
)

// ImmutableCacheControl is set on every artifact: a key never changes content.
const ImmutableCacheControl = "public, max-age=31536000, immutable"

// Artifact is an uploaded, versioned page rendering.
type Artifact struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Store writes and checks page artifacts in object storage.
type Store struct {
	client     storage.Client
	bucket     string
	publicBase string
}

// NewStore creates an artifact store.
func NewStore(client storage.Client, cfg storage.Config) *Store {
	return &Store{client: client, bucket: cfg.Bucket, publicBase: cfg.PublicBase()}
}

// Key is the object key of a page version: pages/{pageId}/{version}/index.html.
func Key(pageID, version string) string {
	return path.Join("pages", pageID, version, "index.html")
}

// URL is the public CDN URL of key.
func (s *Store) URL(key string) string {
	return s.publicBase + "/" + s.bucket + "/" + key
}

// Upload stores body as the artifact of pageID@version.
func (s *Store) Upload(ctx context.Context, pageID, version string, body []byte) (*Artifact, error) {
	key := Key(pageID, version)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType:  "text/html; charset=utf-8",
		CacheControl: ImmutableCacheControl,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload artifact %s: %w", key, err)
	}
	return &Artifact{Key: key, URL: s.URL(key)}, nil
}

// Exists reports whether the artifact object is present.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat artifact %s: %w", key, err)
	}
	return true, nil
}
