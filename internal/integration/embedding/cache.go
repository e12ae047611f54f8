package embedding

import (
	"context"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Provider is the minimal embedding surface the cache wraps.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// CachedProvider memoizes single-text embeddings. Chat queries repeat
// often within a session, and recomputing their vectors is the most
// expensive call on the query path. Batch requests bypass the cache
// since document texts are embedded once at ingest time.
type CachedProvider struct {
	inner  Provider
	cache  *gocache.Cache
	logger *zap.Logger
}

func NewCachedProvider(inner Provider, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	return &CachedProvider{
		inner:  inner,
		cache:  gocache.New(ttl, 2*ttl),
		logger: logger,
	}
}

func (c *CachedProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) != 1 {
		return c.inner.Embed(ctx, texts)
	}

	if cached, found := c.cache.Get(texts[0]); found {
		ctxzap.Debug(ctx, "embedding cache hit")
		return [][]float32{cached.([]float32)}, nil
	}

	vectors, err := c.inner.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}

	if len(vectors) == 1 {
		c.cache.SetDefault(texts[0], vectors[0])
	}

	return vectors, nil
}
