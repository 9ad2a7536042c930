package alexbon

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/alexbon-com/alexbon.com/blog"
	"github.com/alexbon-com/alexbon.com/metrics"
)

// Source produces the full post corpus.
type Source interface {
	Load(ctx context.Context) ([]blog.Post, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]blog.Post, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context) ([]blog.Post, error) { return f(ctx) }

// Library holds the current index and swaps in a new one on reload. Readers
// never block: each request works on whichever index was current when it
// called Index, and that index is never mutated.
type Library struct {
	source  Source
	locales []blog.Locale
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex // serializes Load
	current atomic.Pointer[blog.Index]
	loaded  atomic.Bool
}

// NewLibrary creates a Library over src. Until the first successful Load it
// serves an empty index.
func NewLibrary(src Source, logger *zap.Logger, m *metrics.Metrics) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Library{
		source:  src,
		locales: blog.Locales,
		logger:  logger,
		metrics: m,
	}
	l.current.Store(blog.Build(nil, l.locales))
	return l
}

// Index returns the current index. It is never nil.
func (l *Library) Index() *blog.Index {
	return l.current.Load()
}

// Loaded reports whether a load has succeeded.
func (l *Library) Loaded() bool {
	return l.loaded.Load()
}

// Load reads the source, builds a fresh index and publishes it. On error the
// previous index stays in place.
func (l *Library) Load(ctx context.Context) (*blog.Index, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	posts, err := l.source.Load(ctx)
	if err != nil {
		l.metrics.ReloadDone(err)
		l.logger.Error("content load failed, keeping previous index", zap.Error(err))
		return nil, fmt.Errorf("alexbon: load content: %w", err)
	}
	idx := blog.Build(posts, l.locales, blog.WithLogger(l.logger))
	l.current.Store(idx)
	l.loaded.Store(true)

	counts := make(map[string]int, len(l.locales))
	for _, loc := range l.locales {
		counts[string(loc)] = idx.Len(loc)
	}
	took := time.Since(start)
	l.metrics.ObserveIndex(counts, len(idx.Collisions()), took)
	l.metrics.ReloadDone(nil)
	l.logger.Info("index built",
		zap.Int("posts", len(posts)),
		zap.Int("collisions", len(idx.Collisions())),
		zap.Int("skipped", idx.Skipped()),
		zap.Duration("took", took),
	)
	return idx, nil
}
