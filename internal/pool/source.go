package pool

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"percept/internal/engine"
)

const objectScheme = "s3://"

// imageExts are the file types accepted as stimuli.
var imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".svg"}

// Source lists the images of one pool.
type Source interface {
	List(ctx context.Context) ([]engine.ImageRef, error)
}

// Lister lists object keys under a bucket prefix.
type Lister interface {
	List(ctx context.Context, bucket, prefix string) ([]string, error)
}

// DirSource lists image files directly inside a directory.
type DirSource struct {
	Dir string
}

func (s DirSource) List(ctx context.Context) ([]engine.ImageRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", s.Dir, err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.Dir, err)
	}
	refs := make([]engine.ImageRef, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isImage(entry.Name()) {
			continue
		}
		refs = append(refs, engine.ImageRef(filepath.Join(abs, entry.Name())))
	}
	slices.Sort(refs)
	return refs, nil
}

// BucketSource lists image objects under a bucket prefix.
type BucketSource struct {
	Lister Lister
	Bucket string
	Prefix string
}

func (s BucketSource) List(ctx context.Context) ([]engine.ImageRef, error) {
	if s.Lister == nil {
		return nil, fmt.Errorf("bucket %s: no object store configured", s.Bucket)
	}
	keys, err := s.Lister.List(ctx, s.Bucket, s.Prefix)
	if err != nil {
		return nil, err
	}
	refs := make([]engine.ImageRef, 0, len(keys))
	for _, key := range keys {
		if strings.HasSuffix(key, "/") || !isImage(key) {
			continue
		}
		refs = append(refs, ObjectRef(s.Bucket, key))
	}
	slices.Sort(refs)
	return refs, nil
}

// ObjectRef builds the reference for an object.
func ObjectRef(bucket, key string) engine.ImageRef {
	return engine.ImageRef(objectScheme + bucket + "/" + key)
}

// splitObjectRef reports the bucket and key of an object reference.
func splitObjectRef(ref engine.ImageRef) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(string(ref), objectScheme)
	if !found {
		return "", "", false
	}
	bucket, key, ok = strings.Cut(rest, "/")
	return bucket, key, ok && bucket != "" && key != ""
}

func isImage(name string) bool {
	return slices.Contains(imageExts, strings.ToLower(path.Ext(name)))
}
