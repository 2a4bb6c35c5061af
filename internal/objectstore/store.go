package objectstore

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// MaxObjectSize caps how much of a single image object is read.
const MaxObjectSize = 16 << 20

// Store reads image objects from a bucket.
type Store struct {
	client *minio.Client
}

func NewStore(cfg Config) (*Store, error) {
	client, err := NewMinIOClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{client: client}, nil
}

func NewStoreWithClient(client *minio.Client) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("minio client is required")
	}
	return &Store{client: client}, nil
}

// List returns the keys under prefix, recursively, in listing order.
func (s *Store) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("object store not initialized")
	}
	var keys []string
	for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s/%s: %w", bucket, prefix, obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// Get reads one object fully, up to MaxObjectSize.
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("object store not initialized")
	}
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", bucket, key, err)
	}
	defer obj.Close()
	data, err := io.ReadAll(io.LimitReader(obj, MaxObjectSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", bucket, key, err)
	}
	if len(data) > MaxObjectSize {
		return nil, fmt.Errorf("object %s/%s exceeds %d bytes", bucket, key, MaxObjectSize)
	}
	return data, nil
}

// Check verifies the named buckets exist.
func (s *Store) Check(ctx context.Context, buckets ...string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("object store not initialized")
	}
	return CheckBuckets(ctx, s.client, buckets...)
}
