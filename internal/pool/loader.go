package pool

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"percept/internal/engine"
)

// DefaultCacheSize bounds the decoded picture cache.
const DefaultCacheSize = 256

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// Objects serves s3:// references; nil leaves them unloadable.
	Objects   Getter
	Fetcher   Fetcher
	CacheSize int
	ArtWidth  int
	ArtHeight int
	Logger    *zap.Logger
}

// Loader fetches and decodes images for the engine gate and keeps the
// decoded pictures for rendering.
type Loader struct {
	fetcher   Fetcher
	cache     *lru.Cache
	artWidth  int
	artHeight int
	logger    *zap.Logger
}

func NewLoader(opts LoaderOptions) (*Loader, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create image cache: %w", err)
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = refFetcher{objects: opts.Objects}
	}
	loader := &Loader{
		fetcher:   fetcher,
		cache:     cache,
		artWidth:  opts.ArtWidth,
		artHeight: opts.ArtHeight,
		logger:    opts.Logger,
	}
	if loader.artWidth <= 0 {
		loader.artWidth = DefaultArtWidth
	}
	if loader.artHeight <= 0 {
		loader.artHeight = DefaultArtHeight
	}
	if loader.logger == nil {
		loader.logger = zap.NewNop()
	}
	return loader, nil
}

// Load implements engine.Loader. Cached pictures are not fetched again.
func (l *Loader) Load(ctx context.Context, ref engine.ImageRef) error {
	if l.cache.Contains(ref) {
		return nil
	}
	data, err := l.fetcher.Fetch(ctx, ref)
	if err != nil {
		return err
	}
	picture, err := Decode(data, l.artWidth, l.artHeight)
	if err != nil {
		return fmt.Errorf("%s: %w", ref, err)
	}
	if evicted := l.cache.Add(ref, picture); evicted {
		l.logger.Debug("image cache eviction", zap.Int("size", l.cache.Len()))
	}
	return nil
}

// Picture returns a decoded image if it is cached.
func (l *Loader) Picture(ref engine.ImageRef) (*Picture, bool) {
	value, ok := l.cache.Get(ref)
	if !ok {
		return nil, false
	}
	picture, ok := value.(*Picture)
	return picture, ok
}

// Cached reports the number of decoded pictures held.
func (l *Loader) Cached() int {
	return l.cache.Len()
}
