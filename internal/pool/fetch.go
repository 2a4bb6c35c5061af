package pool

import (
	"context"
	"fmt"
	"os"

	"percept/internal/engine"
)

// Fetcher reads the raw bytes behind a reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref engine.ImageRef) ([]byte, error)
}

// Getter reads one object from a bucket.
type Getter interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
}

// refFetcher reads local files, and objects when a Getter is set.
type refFetcher struct {
	objects Getter
}

func (f refFetcher) Fetch(ctx context.Context, ref engine.ImageRef) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bucket, key, ok := splitObjectRef(ref); ok {
		if f.objects == nil {
			return nil, fmt.Errorf("%s: no object store configured", ref)
		}
		return f.objects.Get(ctx, bucket, key)
	}
	data, err := os.ReadFile(string(ref))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}
